package dto

import (
	"net/url"
	"strconv"

	"github.com/bakano/bakano-web/internal/domain/entity"
)

// AnalyzeDocumentRequest análisis de un archivo subido.
type AnalyzeDocumentRequest struct {
	WorkspaceID  string
	DocumentType string
	File         File
}

// AnalyzeByURLRequest análisis de un documento ya publicado.
type AnalyzeByURLRequest struct {
	WorkspaceID  string `json:"workspaceId"`
	DocumentType string `json:"documentType"`
	DocumentURL  string `json:"documentUrl"`
	DocumentName string `json:"documentName"`
}

// AnalysisWorkspace resumen del workspace devuelto por el análisis.
type AnalysisWorkspace struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Country           *entity.CountryRef `json:"country,omitempty"`
	IsFullyConfigured *bool              `json:"isFullyConfigured,omitempty"`
	Status            string             `json:"status,omitempty"`
}

// AnalysisResponse respuesta de analysis/document.
type AnalysisResponse struct {
	Success    bool                     `json:"success"`
	Message    string                   `json:"message"`
	Analysis   *entity.DocumentAnalysis `json:"analysis"`
	AnalysisID string                   `json:"analysisId"`
	Workspace  *AnalysisWorkspace       `json:"workspace,omitempty"`
}

// WorkspaceAnalysesQuery filtros del listado de análisis; todos opcionales.
type WorkspaceAnalysesQuery struct {
	WorkspaceID  string `query:"-"`
	Page         int    `query:"page"`
	Limit        int    `query:"limit"`
	DocumentType string `query:"documentType"`
	Status       string `query:"status"`
}

// Values parámetros de query; solo se incluyen los indicados.
func (q WorkspaceAnalysesQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.DocumentType != "" {
		v.Set("documentType", q.DocumentType)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	return v
}

// AnalysisPagination metadatos de página del listado de análisis.
type AnalysisPagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// WorkspaceAnalysesResponse respuesta de analysis/workspace/{id}.
type WorkspaceAnalysesResponse struct {
	Success    bool                      `json:"success"`
	Message    string                    `json:"message"`
	Analyses   []entity.DocumentAnalysis `json:"analyses"`
	Pagination *AnalysisPagination       `json:"pagination"`
	Workspace  *entity.WorkspaceRef      `json:"workspace,omitempty"`
}

// SingleAnalysisResponse respuesta de analysis/{id}.
type SingleAnalysisResponse struct {
	Success  bool                     `json:"success"`
	Message  string                   `json:"message"`
	Analysis *entity.DocumentAnalysis `json:"analysis"`
}

// InsightsResponse respuesta de analysis/{id}/insights.
type InsightsResponse struct {
	Success  bool                     `json:"success"`
	Message  string                   `json:"message"`
	Insights *entity.AnalysisInsights `json:"insights"`
}

// TechnicalAnalysisResponse respuesta de analysis/{id}/technical.
type TechnicalAnalysisResponse struct {
	Success  bool                      `json:"success"`
	Message  string                    `json:"message"`
	Analysis *entity.TechnicalAnalysis `json:"analysis"`
}

// CompareRequest comparación por ids.
type CompareRequest struct {
	WorkspaceID string   `json:"workspaceId"`
	DocumentIDs []string `json:"documentIds"`
}

// UploadAndCompareRequest sube y compara varios archivos.
type UploadAndCompareRequest struct {
	WorkspaceID  string
	DocumentType string
	Files        []File
}

// ComparisonResponse respuesta de analysis/compare y analysis/upload-and-compare.
type ComparisonResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Comparison *entity.Comparison `json:"comparison"`
}

// StatusConfig color y etiqueta para mostrar el estado de un análisis.
type StatusConfig struct {
	Color string `json:"color"`
	Label string `json:"label"`
}
