package bakano

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/application/ports"
	"github.com/bakano/bakano-web/internal/domain"
	"github.com/bakano/bakano-web/internal/infrastructure/apiclient"
	"github.com/bakano/bakano-web/pkg/logger"
)

var _ ports.DocumentGateway = (*DocumentService)(nil)

const documentEndpoint = "document"

// DocumentOptions controla el uso de la fuente simulada.
type DocumentOptions struct {
	// UseMockData fuerza la fuente simulada en todas las operaciones.
	UseMockData bool
	// AllowMockFallback usa la fuente simulada solo cuando la API no responde
	// (errores de transporte). Los errores 4xx/5xx nunca se enmascaran.
	AllowMockFallback bool
}

// DocumentService CRUD de documentos de análisis con fallback opcional a datos simulados.
type DocumentService struct {
	api  *apiclient.Client
	mock ports.DocumentGateway
	opts DocumentOptions
	log  *logger.Logger
}

// NewDocumentService mock puede ser nil; en ese caso no hay fallback posible.
func NewDocumentService(api *apiclient.Client, mock ports.DocumentGateway, opts DocumentOptions, log *logger.Logger) *DocumentService {
	if mock == nil {
		opts.UseMockData = false
		opts.AllowMockFallback = false
	}
	return &DocumentService{api: api, mock: mock, opts: opts, log: log.Named("document_service")}
}

// fallback decide si una falla de la API se sirve desde la fuente simulada.
func (s *DocumentService) fallback(op string, err error) bool {
	if !s.opts.AllowMockFallback || !domain.IsNetworkError(err) {
		return false
	}
	s.log.Warn().Err(err).Str("op", op).Msg("API de documentos sin respuesta: se sirven DATOS SIMULADOS")
	return true
}

// Upload sube un documento (campos document, documentType, title y description).
func (s *DocumentService) Upload(ctx context.Context, req dto.UploadDocumentRequest) (*dto.DocumentResponse, error) {
	if req.File.Size() == 0 {
		return nil, &domain.ValidationError{Field: "document", Message: "El archivo está vacío"}
	}
	if s.opts.UseMockData {
		return s.mock.Upload(ctx, req)
	}
	title := req.Title
	if title == "" {
		title = strings.TrimSuffix(req.File.Name, filepath.Ext(req.File.Name))
	}
	fields := map[string]string{
		"documentType": string(req.Type),
		"title":        title,
	}
	if req.Description != "" {
		fields["description"] = req.Description
	}

	var out dto.DocumentResponse
	err := s.api.PostMultipart(ctx, documentEndpoint+"/upload", fields,
		[]apiclient.FormFile{{Field: "document", File: req.File}}, &out)
	if err == nil {
		return &out, nil
	}
	if s.fallback("upload", err) {
		return s.mock.Upload(ctx, req)
	}
	return nil, friendly(s.log, err, "Error al subir el documento")
}

// List documentos del workspace con filtros, orden y paginación.
func (s *DocumentService) List(ctx context.Context, q dto.DocumentQuery) (*dto.DocumentListResponse, error) {
	if s.opts.UseMockData {
		return s.mock.List(ctx, q)
	}
	var out dto.DocumentListResponse
	err := s.api.Get(ctx, documentEndpoint+"/workspace-documents", q.Values(), &out)
	if err == nil {
		return &out, nil
	}
	if s.fallback("list", err) {
		return s.mock.List(ctx, q)
	}
	return nil, friendly(s.log, err, "Error al cargar los documentos")
}

func (s *DocumentService) Update(ctx context.Context, id string, req dto.UpdateDocumentRequest) (*dto.DocumentResponse, error) {
	if s.opts.UseMockData {
		return s.mock.Update(ctx, id, req)
	}
	var out dto.DocumentResponse
	err := s.api.Put(ctx, documentPath(id), req, &out)
	if err == nil {
		return &out, nil
	}
	if s.fallback("update", err) {
		return s.mock.Update(ctx, id, req)
	}
	return nil, friendly(s.log, err, "Error al actualizar el documento")
}

func (s *DocumentService) Delete(ctx context.Context, id string) (*dto.StatusResponse, error) {
	if s.opts.UseMockData {
		return s.mock.Delete(ctx, id)
	}
	var out dto.StatusResponse
	err := s.api.Delete(ctx, documentPath(id), &out)
	if err == nil {
		return &out, nil
	}
	if s.fallback("delete", err) {
		return s.mock.Delete(ctx, id)
	}
	return nil, friendly(s.log, err, "Error al eliminar el documento")
}

// Download contenido binario del documento.
func (s *DocumentService) Download(ctx context.Context, id string) (*dto.Blob, error) {
	if s.opts.UseMockData {
		return s.mock.Download(ctx, id)
	}
	blob, err := s.api.GetBytes(ctx, documentPath(id)+"/download")
	if err == nil {
		return blob, nil
	}
	if s.fallback("download", err) {
		return s.mock.Download(ctx, id)
	}
	return nil, friendly(s.log, err, "No se pudo descargar el documento")
}

// Preview URL de vista previa.
func (s *DocumentService) Preview(ctx context.Context, id string) (string, error) {
	if s.opts.UseMockData {
		return s.mock.Preview(ctx, id)
	}
	var out dto.PreviewResponse
	err := s.api.Get(ctx, documentPath(id)+"/preview", nil, &out)
	if err == nil {
		return out.PreviewURL, nil
	}
	if s.fallback("preview", err) {
		return s.mock.Preview(ctx, id)
	}
	return "", friendly(s.log, err, "Error al obtener la vista previa")
}

func documentPath(id string) string {
	return documentEndpoint + "/" + url.PathEscape(id)
}
