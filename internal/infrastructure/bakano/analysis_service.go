package bakano

import (
	"context"
	"fmt"
	"net/url"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/application/ports"
	"github.com/bakano/bakano-web/internal/domain"
	"github.com/bakano/bakano-web/internal/domain/entity"
	"github.com/bakano/bakano-web/internal/infrastructure/apiclient"
	"github.com/bakano/bakano-web/pkg/logger"
)

var _ ports.AnalysisGateway = (*AnalysisService)(nil)

const analysisEndpoint = "analysis"

// AnalysisService análisis individuales, listados y comparaciones.
type AnalysisService struct {
	api *apiclient.Client
	log *logger.Logger
}

func NewAnalysisService(api *apiclient.Client, log *logger.Logger) *AnalysisService {
	return &AnalysisService{api: api, log: log.Named("analysis_service")}
}

// AnalyzeDocument sube el archivo y lo analiza (multipart: workspaceId, documentType, document).
func (s *AnalysisService) AnalyzeDocument(ctx context.Context, req dto.AnalyzeDocumentRequest) (*dto.AnalysisResponse, error) {
	if req.File.Size() == 0 {
		return nil, &domain.ValidationError{Field: "document", Message: "El archivo está vacío"}
	}
	fields := map[string]string{
		"workspaceId":  req.WorkspaceID,
		"documentType": req.DocumentType,
	}
	var out dto.AnalysisResponse
	err := s.api.PostMultipart(ctx, analysisEndpoint+"/document", fields,
		[]apiclient.FormFile{{Field: "document", File: req.File}}, &out)
	if err != nil {
		return nil, friendly(s.log, err, "Error al analizar el documento")
	}
	return &out, nil
}

// AnalyzeDocumentByURL analiza un documento ya publicado.
func (s *AnalysisService) AnalyzeDocumentByURL(ctx context.Context, req dto.AnalyzeByURLRequest) (*dto.AnalysisResponse, error) {
	var out dto.AnalysisResponse
	if err := s.api.Post(ctx, analysisEndpoint+"/document", req, &out); err != nil {
		return nil, friendly(s.log, err, "Error al analizar el documento")
	}
	return &out, nil
}

// WorkspaceAnalyses página de análisis; solo se envían los filtros indicados.
func (s *AnalysisService) WorkspaceAnalyses(ctx context.Context, q dto.WorkspaceAnalysesQuery) (*dto.WorkspaceAnalysesResponse, error) {
	if q.WorkspaceID == "" {
		return nil, &domain.ValidationError{Field: "workspaceId", Message: "Workspace requerido"}
	}
	var out dto.WorkspaceAnalysesResponse
	path := analysisEndpoint + "/workspace/" + url.PathEscape(q.WorkspaceID)
	if err := s.api.Get(ctx, path, q.Values(), &out); err != nil {
		return nil, friendly(s.log, err, "Error al obtener los análisis")
	}
	return &out, nil
}

func (s *AnalysisService) GetAnalysis(ctx context.Context, id string) (*entity.DocumentAnalysis, error) {
	var out dto.SingleAnalysisResponse
	if err := s.api.Get(ctx, analysisPath(id), nil, &out); err != nil {
		return nil, friendly(s.log, err, "Error al obtener el análisis")
	}
	if out.Analysis == nil {
		return nil, friendly(s.log, fmt.Errorf("%w: análisis vacío", domain.ErrInvalidResponse), "Error al obtener el análisis")
	}
	return out.Analysis, nil
}

// Insights análisis enfocado; focus es opcional.
func (s *AnalysisService) Insights(ctx context.Context, id, focus string) (*entity.AnalysisInsights, error) {
	q := url.Values{}
	if focus != "" {
		q.Set("focus", focus)
	}
	var out dto.InsightsResponse
	if err := s.api.Get(ctx, analysisPath(id)+"/insights", q, &out); err != nil {
		return nil, friendly(s.log, err, "Error al obtener los insights del análisis")
	}
	if out.Insights == nil {
		return nil, friendly(s.log, fmt.Errorf("%w: insights vacíos", domain.ErrInvalidResponse), "Error al obtener los insights del análisis")
	}
	return out.Insights, nil
}

// Technical análisis técnico; question es opcional.
func (s *AnalysisService) Technical(ctx context.Context, id, question string) (*entity.TechnicalAnalysis, error) {
	q := url.Values{}
	if question != "" {
		q.Set("question", question)
	}
	var out dto.TechnicalAnalysisResponse
	if err := s.api.Get(ctx, analysisPath(id)+"/technical", q, &out); err != nil {
		return nil, friendly(s.log, err, "Error al obtener el análisis técnico")
	}
	if out.Analysis == nil {
		return nil, friendly(s.log, fmt.Errorf("%w: análisis técnico vacío", domain.ErrInvalidResponse), "Error al obtener el análisis técnico")
	}
	return out.Analysis, nil
}

// Compare compara documentos ya analizados.
func (s *AnalysisService) Compare(ctx context.Context, req dto.CompareRequest) (*entity.Comparison, error) {
	if len(req.DocumentIDs) < 2 {
		return nil, &domain.ValidationError{Field: "documentIds", Message: "Selecciona al menos dos documentos para comparar"}
	}
	var out dto.ComparisonResponse
	if err := s.api.Post(ctx, analysisEndpoint+"/compare", req, &out); err != nil {
		return nil, friendly(s.log, err, "Error al comparar los documentos")
	}
	return comparisonOf(s.log, &out)
}

// UploadAndCompare sube varios archivos (campo "documents" repetido) y los compara.
func (s *AnalysisService) UploadAndCompare(ctx context.Context, req dto.UploadAndCompareRequest) (*entity.Comparison, error) {
	if len(req.Files) < 2 {
		return nil, &domain.ValidationError{Field: "documents", Message: "Selecciona al menos dos documentos para comparar"}
	}
	files := make([]apiclient.FormFile, 0, len(req.Files))
	for _, f := range req.Files {
		if f.Size() == 0 {
			return nil, &domain.ValidationError{Field: "documents", Message: fmt.Sprintf("El archivo %s está vacío", f.Name)}
		}
		files = append(files, apiclient.FormFile{Field: "documents", File: f})
	}
	fields := map[string]string{
		"workspaceId":  req.WorkspaceID,
		"documentType": req.DocumentType,
	}
	var out dto.ComparisonResponse
	if err := s.api.PostMultipart(ctx, analysisEndpoint+"/upload-and-compare", fields, files, &out); err != nil {
		return nil, friendly(s.log, err, "Error al comparar los documentos")
	}
	return comparisonOf(s.log, &out)
}

func comparisonOf(log *logger.Logger, out *dto.ComparisonResponse) (*entity.Comparison, error) {
	if out.Comparison == nil {
		return nil, friendly(log, fmt.Errorf("%w: comparación vacía", domain.ErrInvalidResponse), "Error al comparar los documentos")
	}
	return out.Comparison, nil
}

func analysisPath(id string) string {
	return analysisEndpoint + "/" + url.PathEscape(id)
}
