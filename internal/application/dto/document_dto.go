package dto

import (
	"net/url"
	"strconv"

	"github.com/bakano/bakano-web/internal/domain/entity"
)

// Criterios de orden del listado de documentos.
const (
	SortByName       = "name"
	SortByUploadedAt = "uploadedAt"
	SortBySize       = "size"
	SortAsc          = "asc"
	SortDesc         = "desc"
)

// DocumentQuery filtros, orden y paginación del listado.
type DocumentQuery struct {
	Page      int                 `query:"page"`
	Limit     int                 `query:"limit"`
	Type      entity.DocumentType `query:"type"`
	Search    string              `query:"search"`
	SortBy    string              `query:"sortBy"`
	SortOrder string              `query:"sortOrder"`
}

// Values parámetros de query; solo se incluyen los indicados.
func (q DocumentQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Type != "" {
		v.Set("type", string(q.Type))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		v.Set("sortOrder", q.SortOrder)
	}
	return v
}

// Pagination metadatos de página del listado de documentos.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// DocumentListResponse respuesta de document/workspace-documents.
type DocumentListResponse struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Documents  []entity.Document `json:"documents"`
	TotalCount int               `json:"totalCount"`
	Pagination *Pagination       `json:"pagination,omitempty"`
}

// UploadDocumentRequest datos del formulario document/upload.
type UploadDocumentRequest struct {
	File        File
	Type        entity.DocumentType
	Title       string
	Description string
}

// UpdateDocumentRequest cambios permitidos sobre un documento.
type UpdateDocumentRequest struct {
	Name        string              `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	Type        entity.DocumentType `json:"type,omitempty"`
}

// DocumentResponse respuesta de subida/actualización.
type DocumentResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Document *entity.Document `json:"document"`
}

// PreviewResponse respuesta de document/{id}/preview.
type PreviewResponse struct {
	PreviewURL string `json:"previewUrl"`
}

// DocumentStats agregados sobre la página actual.
type DocumentStats struct {
	Total         int                         `json:"total"`
	ByType        map[entity.DocumentType]int `json:"byType"`
	TotalSize     int64                       `json:"totalSize"`
	RecentUploads int                         `json:"recentUploads"`
}
