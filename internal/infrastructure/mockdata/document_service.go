// Package mockdata es la fuente simulada de documentos: una colección en memoria con
// latencia artificial que cumple el mismo contrato que el servicio remoto.
// Solo existe mientras corre el proceso.
package mockdata

import (
	"context"
	"encoding/base64"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/application/ports"
	"github.com/bakano/bakano-web/internal/domain"
	"github.com/bakano/bakano-web/internal/domain/entity"
	"github.com/bakano/bakano-web/pkg/logger"
)

var _ ports.DocumentGateway = (*DocumentService)(nil)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	defaultPage  = 1
	defaultLimit = 10
)

// PlaceholderRenderer genera el PDF que se entrega al descargar un documento PDF.
type PlaceholderRenderer interface {
	DocumentPlaceholder(ctx context.Context, doc *entity.Document) ([]byte, error)
}

// Latency rango de la demora simulada; Max <= Min produce una demora fija de Min.
type Latency struct {
	Min, Max time.Duration
}

func (l Latency) pick() time.Duration {
	if l.Max <= l.Min {
		return l.Min
	}
	return l.Min + rand.N(l.Max-l.Min)
}

// Options configuración de la fuente simulada.
type Options struct {
	Read     Latency // listar, actualizar, eliminar, vista previa
	Transfer Latency // subir, descargar
	PDF      PlaceholderRenderer
	Now      func() time.Time
}

// DefaultOptions 500–1500 ms en lecturas y 1000–3000 ms en transferencias.
func DefaultOptions(pdf PlaceholderRenderer) Options {
	return Options{
		Read:     Latency{Min: 500 * time.Millisecond, Max: 1500 * time.Millisecond},
		Transfer: Latency{Min: time.Second, Max: 3 * time.Second},
		PDF:      pdf,
		Now:      time.Now,
	}
}

// DocumentService colección simulada compartida por todo el proceso.
type DocumentService struct {
	mu   sync.Mutex
	docs []entity.Document
	opts Options
	log  *logger.Logger
}

// NewDocumentService crea la colección con los tres documentos de ejemplo.
func NewDocumentService(opts Options, log *logger.Logger) *DocumentService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DocumentService{docs: seed(opts.Now()), opts: opts, log: log.Named("mockdata")}
}

func seed(now time.Time) []entity.Document {
	day := 24 * time.Hour
	yes, no := true, false
	mk := func(id, name, original string, t entity.DocumentType, size int64, mime, desc string, age time.Duration, text *bool, pages int) entity.Document {
		at := now.Add(-age)
		return entity.Document{
			ID: id, AltID: id,
			Name: name, OriginalName: original, Type: t,
			Size: size, MimeType: mime, Description: desc,
			UploadedAt: at, UpdatedAt: at,
			WorkspaceID: "workspace_1", UploadedBy: "user_1", URL: "#",
			Status: entity.DocumentCompleted, HasExtractedText: text,
			Metadata: &entity.DocumentMetadata{Pages: pages},
		}
	}
	return []entity.Document{
		mk("doc_1", "Contrato de Servicios 2024", "contrato_servicios_2024.pdf", entity.DocumentContract,
			2048576, mimePDF, "Contrato principal para servicios de consultoría", day, &yes, 15),
		mk("doc_2", "Pliego de Condiciones Técnicas", "pliego_tecnico.docx", entity.DocumentPliego,
			1024000, mimeDOCX, "Especificaciones técnicas del proyecto", 2*day, &no, 8),
		mk("doc_3", "Propuesta Técnica Final", "propuesta_final.pdf", entity.DocumentPropuesta,
			3145728, mimePDF, "Propuesta técnica y económica final", 3*day, &yes, 25),
	}
}

func (s *DocumentService) delay(ctx context.Context, l Latency) error {
	d := l.pick()
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// indexOf posición por cualquiera de los dos ids; -1 si no existe. Requiere s.mu.
func (s *DocumentService) indexOf(id string) int {
	for i := range s.docs {
		if s.docs[i].Matches(id) {
			return i
		}
	}
	return -1
}

// Upload agrega el documento al inicio de la colección.
func (s *DocumentService) Upload(ctx context.Context, req dto.UploadDocumentRequest) (*dto.DocumentResponse, error) {
	if req.File.Size() == 0 {
		return nil, &domain.ValidationError{Field: "document", Message: "El archivo está vacío"}
	}
	if err := s.delay(ctx, s.opts.Transfer); err != nil {
		return nil, err
	}
	now := s.opts.Now()
	id := fmt.Sprintf("doc_%d_%s", now.UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
	name := req.Title
	if name == "" {
		name = strings.TrimSuffix(req.File.Name, filepath.Ext(req.File.Name))
	}
	no := false
	doc := entity.Document{
		ID: id, AltID: id,
		Name:             name,
		OriginalName:     req.File.Name,
		Type:             req.Type,
		Size:             req.File.Size(),
		MimeType:         req.File.ContentType,
		Description:      req.Description,
		UploadedAt:       now,
		UpdatedAt:        now,
		WorkspaceID:      "workspace_1",
		UploadedBy:       "user_1",
		URL:              "#",
		Status:           entity.DocumentCompleted,
		HasExtractedText: &no,
	}
	if req.Type == entity.DocumentContract {
		doc.Metadata = &entity.DocumentMetadata{Pages: rand.IntN(50) + 1}
	}

	s.mu.Lock()
	s.docs = append([]entity.Document{doc}, s.docs...)
	s.mu.Unlock()

	s.log.Debug().Str("id", id).Msg("documento simulado subido")
	return &dto.DocumentResponse{
		Success:  true,
		Message:  "Documento subido correctamente (modo desarrollo)",
		Document: &doc,
	}, nil
}

// List filtra por tipo y búsqueda, ordena y pagina.
// El orden por nombre usa la colación del español: ignora mayúsculas y acentos en
// primera instancia (á junto a a, ñ después de n).
func (s *DocumentService) List(ctx context.Context, q dto.DocumentQuery) (*dto.DocumentListResponse, error) {
	if err := s.delay(ctx, s.opts.Read); err != nil {
		return nil, err
	}

	s.mu.Lock()
	docs := append([]entity.Document(nil), s.docs...)
	s.mu.Unlock()

	if q.Type != "" {
		docs = filter(docs, func(d *entity.Document) bool { return d.Type == q.Type })
	}
	if q.Search != "" {
		fold := cases.Fold()
		term := fold.String(q.Search)
		docs = filter(docs, func(d *entity.Document) bool {
			return strings.Contains(fold.String(d.Name), term) ||
				strings.Contains(fold.String(d.OriginalName), term) ||
				strings.Contains(fold.String(d.Description), term)
		})
	}
	sortDocuments(docs, q.SortBy, q.SortOrder)

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	total := len(docs)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	return &dto.DocumentListResponse{
		Success:    true,
		Message:    "Documentos obtenidos correctamente (modo desarrollo)",
		Documents:  docs[start:end],
		TotalCount: total,
		Pagination: &dto.Pagination{
			Page:       page,
			Limit:      limit,
			TotalPages: (total + limit - 1) / limit,
			HasNext:    (page-1)*limit+limit < total,
			HasPrev:    page > 1,
		},
	}, nil
}

func filter(docs []entity.Document, keep func(*entity.Document) bool) []entity.Document {
	out := docs[:0]
	for i := range docs {
		if keep(&docs[i]) {
			out = append(out, docs[i])
		}
	}
	return out
}

func sortDocuments(docs []entity.Document, by, order string) {
	var less func(a, b *entity.Document) bool
	switch by {
	case dto.SortByName:
		col := collate.New(language.Spanish)
		less = func(a, b *entity.Document) bool { return col.CompareString(a.Name, b.Name) < 0 }
	case dto.SortByUploadedAt:
		less = func(a, b *entity.Document) bool { return a.UploadedAt.Before(b.UploadedAt) }
	case dto.SortBySize:
		less = func(a, b *entity.Document) bool { return a.Size < b.Size }
	default:
		return
	}
	desc := order == dto.SortDesc
	sort.SliceStable(docs, func(i, j int) bool {
		if desc {
			return less(&docs[j], &docs[i])
		}
		return less(&docs[i], &docs[j])
	})
}

// Update aplica nombre, descripción y tipo si vienen informados.
func (s *DocumentService) Update(ctx context.Context, id string, req dto.UpdateDocumentRequest) (*dto.DocumentResponse, error) {
	if err := s.delay(ctx, s.opts.Read); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrDocumentNotFound
	}
	d := &s.docs[i]
	if req.Name != "" {
		d.Name = req.Name
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.Type != "" {
		d.Type = req.Type
	}
	d.UpdatedAt = s.opts.Now()

	out := *d
	return &dto.DocumentResponse{
		Success:  true,
		Message:  "Documento actualizado correctamente (modo desarrollo)",
		Document: &out,
	}, nil
}

// Delete elimina por cualquiera de los dos ids; un id desconocido no modifica la colección.
func (s *DocumentService) Delete(ctx context.Context, id string) (*dto.StatusResponse, error) {
	if err := s.delay(ctx, s.opts.Read); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrDocumentNotFound
	}
	s.docs = append(s.docs[:i], s.docs[i+1:]...)
	return &dto.StatusResponse{Success: true, Message: "Documento eliminado correctamente (modo desarrollo)"}, nil
}

// Download PDF de reemplazo para documentos PDF; texto plano para el resto.
func (s *DocumentService) Download(ctx context.Context, id string) (*dto.Blob, error) {
	if err := s.delay(ctx, s.opts.Transfer); err != nil {
		return nil, err
	}
	doc, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if doc.MimeType == mimePDF && s.opts.PDF != nil {
		b, err := s.opts.PDF.DocumentPlaceholder(ctx, &doc)
		if err == nil {
			return &dto.Blob{ContentType: mimePDF, Content: b}, nil
		}
		s.log.Warn().Err(err).Str("id", id).Msg("no se pudo generar el PDF simulado")
	}
	ct := doc.MimeType
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &dto.Blob{ContentType: ct, Content: []byte("Contenido mock del documento: " + doc.Name)}, nil
}

// Preview data URI de texto plano.
func (s *DocumentService) Preview(ctx context.Context, id string) (string, error) {
	if err := s.delay(ctx, s.opts.Read); err != nil {
		return "", err
	}
	doc, err := s.find(id)
	if err != nil {
		return "", err
	}
	payload := base64.StdEncoding.EncodeToString([]byte("Vista previa del documento: " + doc.Name))
	return "data:text/plain;base64," + payload, nil
}

// Len cantidad de documentos en la colección.
func (s *DocumentService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func (s *DocumentService) find(id string) (entity.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return entity.Document{}, domain.ErrDocumentNotFound
	}
	return s.docs[i], nil
}
