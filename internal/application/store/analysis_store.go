package store

import (
	"context"
	"slices"
	"sync"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/application/ports"
	"github.com/bakano/bakano-web/internal/domain/entity"
	"github.com/bakano/bakano-web/pkg/logger"
)

// WorkspaceApplier recibe el resumen de workspace que devuelve un análisis por URL.
type WorkspaceApplier func(*dto.AnalysisWorkspace)

// AnalysisStore análisis del workspace. La página 1 (o sin página) reemplaza la
// colección y las demás se acumulan; toda inserción es un upsert por id.
// Las acciones no avisan con toasts: registran el error y lo devuelven.
type AnalysisStore struct {
	api   ports.AnalysisGateway
	apply WorkspaceApplier
	log   *logger.Logger

	mu         sync.RWMutex
	analyses   []entity.DocumentAnalysis
	current    *entity.DocumentAnalysis
	pagination *dto.AnalysisPagination
	comparison *entity.Comparison
	insights   *entity.AnalysisInsights
	technical  *entity.TechnicalAnalysis
	loading    int
	analyzing  int
	comparing  int
	lastErr    error
}

// NewAnalysisStore apply puede ser nil.
func NewAnalysisStore(api ports.AnalysisGateway, apply WorkspaceApplier, log *logger.Logger) *AnalysisStore {
	return &AnalysisStore{api: api, apply: apply, log: log.Named("analysis_store")}
}

func (s *AnalysisStore) Analyze(ctx context.Context, req dto.AnalyzeDocumentRequest) (*entity.DocumentAnalysis, error) {
	defer s.track(&s.analyzing)()

	resp, err := s.api.AnalyzeDocument(ctx, req)
	if err == nil && (!resp.Success || resp.Analysis == nil) {
		err = rejected(resp.Message, "Error al analizar el documento")
	}
	if err != nil {
		return nil, s.failed(err, "error analizando documento")
	}
	a := *resp.Analysis
	s.mu.Lock()
	s.prepend(a)
	s.current = &a
	s.mu.Unlock()
	return &a, nil
}

// AnalyzeByURL además aplica al workspace el resumen que venga en la respuesta.
func (s *AnalysisStore) AnalyzeByURL(ctx context.Context, req dto.AnalyzeByURLRequest) (*entity.DocumentAnalysis, error) {
	defer s.track(&s.analyzing)()

	resp, err := s.api.AnalyzeDocumentByURL(ctx, req)
	if err == nil && (!resp.Success || resp.Analysis == nil) {
		err = rejected(resp.Message, "Error al analizar el documento por URL")
	}
	if err != nil {
		return nil, s.failed(err, "error analizando documento por URL")
	}
	a := *resp.Analysis
	s.mu.Lock()
	s.prepend(a)
	s.current = &a
	s.mu.Unlock()

	if resp.Workspace != nil && s.apply != nil {
		s.apply(resp.Workspace)
	}
	return &a, nil
}

// FetchWorkspace página de análisis del workspace.
func (s *AnalysisStore) FetchWorkspace(ctx context.Context, q dto.WorkspaceAnalysesQuery) error {
	defer s.track(&s.loading)()

	resp, err := s.api.WorkspaceAnalyses(ctx, q)
	if err == nil && !resp.Success {
		err = rejected(resp.Message, "Error al obtener análisis")
	}
	if err != nil {
		return s.failed(err, "error obteniendo análisis del workspace")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if q.Page <= 1 {
		s.analyses = nil
	}
	for _, a := range resp.Analyses {
		s.upsert(a)
	}
	s.pagination = resp.Pagination
	return nil
}

// FetchByID trae un análisis, lo deja como actual y lo actualiza si ya está en la lista.
func (s *AnalysisStore) FetchByID(ctx context.Context, id string) (*entity.DocumentAnalysis, error) {
	defer s.track(&s.loading)()

	a, err := s.api.GetAnalysis(ctx, id)
	if err != nil {
		return nil, s.failed(err, "error obteniendo análisis")
	}
	s.mu.Lock()
	if i := s.index(id); i >= 0 {
		s.analyses[i] = *a
	}
	cur := *a
	s.current = &cur
	s.mu.Unlock()
	return a, nil
}

func (s *AnalysisStore) FetchInsights(ctx context.Context, id, focus string) (*entity.AnalysisInsights, error) {
	defer s.track(&s.loading)()

	in, err := s.api.Insights(ctx, id, focus)
	if err != nil {
		return nil, s.failed(err, "error obteniendo insights")
	}
	s.mu.Lock()
	s.insights = in
	s.mu.Unlock()
	return in, nil
}

func (s *AnalysisStore) FetchTechnical(ctx context.Context, id, question string) (*entity.TechnicalAnalysis, error) {
	defer s.track(&s.loading)()

	t, err := s.api.Technical(ctx, id, question)
	if err != nil {
		return nil, s.failed(err, "error obteniendo análisis técnico")
	}
	s.mu.Lock()
	s.technical = t
	s.mu.Unlock()
	return t, nil
}

func (s *AnalysisStore) Compare(ctx context.Context, req dto.CompareRequest) (*entity.Comparison, error) {
	defer s.track(&s.comparing)()

	c, err := s.api.Compare(ctx, req)
	if err != nil {
		return nil, s.failed(err, "error comparando documentos")
	}
	s.mu.Lock()
	s.comparison = c
	s.mu.Unlock()
	return c, nil
}

// UploadAndCompare compara archivos nuevos y agrega sus análisis al principio.
func (s *AnalysisStore) UploadAndCompare(ctx context.Context, req dto.UploadAndCompareRequest) (*entity.Comparison, error) {
	defer s.track(&s.comparing)()

	c, err := s.api.UploadAndCompare(ctx, req)
	if err != nil {
		return nil, s.failed(err, "error subiendo y comparando documentos")
	}
	s.mu.Lock()
	s.comparison = c
	for i := len(c.Documents) - 1; i >= 0; i-- {
		s.prepend(c.Documents[i])
	}
	s.mu.Unlock()
	return c, nil
}

// HandleAnalysisResponse arma un análisis completado a partir de la respuesta de
// analysis/document y lo inserta como actual. Devuelve nil si la respuesta no trae
// análisis.
func (s *AnalysisStore) HandleAnalysisResponse(resp *dto.AnalysisResponse) *entity.DocumentAnalysis {
	if resp == nil || !resp.Success || resp.Analysis == nil {
		return nil
	}
	src := resp.Analysis
	a := entity.DocumentAnalysis{
		ID:            resp.AnalysisID,
		DocumentID:    src.DocumentID,
		DocumentName:  src.DocumentName,
		DocumentType:  src.DocumentType,
		Status:        entity.AnalysisCompleted,
		AIAnalysis:    src.AIAnalysis,
		AnalysisDate:  src.AnalysisDate,
		RUCValidation: src.RUCValidation,
		CreatedAt:     src.AnalysisDate,
		UpdatedAt:     src.AnalysisDate,
	}
	if a.ID == "" {
		a.ID = src.ID
	}
	if resp.Workspace != nil {
		a.WorkspaceID = resp.Workspace.ID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(a.ID); i >= 0 {
		s.analyses[i] = a
	} else {
		s.analyses = append([]entity.DocumentAnalysis{a}, s.analyses...)
	}
	cur := a
	s.current = &cur
	return &a
}

// RemoveLocal quita un análisis sin llamar al servidor.
func (s *AnalysisStore) RemoveLocal(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses = slices.DeleteFunc(s.analyses, func(a entity.DocumentAnalysis) bool { return a.ID == id })
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
}

// UpdateLocalStatus cambia el estado sin llamar al servidor.
func (s *AnalysisStore) UpdateLocalStatus(id, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		s.analyses[i].Status = status
	}
	if s.current != nil && s.current.ID == id {
		s.current.Status = status
	}
}

func (s *AnalysisStore) SetCurrent(a *entity.DocumentAnalysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a == nil {
		s.current = nil
		return
	}
	cur := *a
	s.current = &cur
}

// ClearCurrent olvida el análisis actual, insights, análisis técnico y comparación.
func (s *AnalysisStore) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current, s.insights, s.technical, s.comparison = nil, nil, nil, nil
	s.lastErr = nil
}

// Reset vacía todo el store.
func (s *AnalysisStore) Reset() {
	s.ClearCurrent()
	s.mu.Lock()
	s.analyses, s.pagination = nil, nil
	s.mu.Unlock()
}

// StatusConfig color y etiqueta de un estado.
func StatusConfig(status string) dto.StatusConfig {
	switch status {
	case entity.AnalysisCompleted:
		return dto.StatusConfig{Color: "green", Label: "Completado"}
	case entity.AnalysisProcessing:
		return dto.StatusConfig{Color: "blue", Label: "Procesando"}
	case entity.AnalysisFailed:
		return dto.StatusConfig{Color: "red", Label: "Error"}
	default:
		return dto.StatusConfig{Color: "gray", Label: "Desconocido"}
	}
}

// ── lecturas ──────────────────────────────────────────────────────────────────

func (s *AnalysisStore) Analyses() []entity.DocumentAnalysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.analyses)
}

func (s *AnalysisStore) ByStatus(status string) []entity.DocumentAnalysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.DocumentAnalysis
	for _, a := range s.analyses {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out
}

func (s *AnalysisStore) Completed() []entity.DocumentAnalysis {
	return s.ByStatus(entity.AnalysisCompleted)
}

func (s *AnalysisStore) Processing() []entity.DocumentAnalysis {
	return s.ByStatus(entity.AnalysisProcessing)
}

func (s *AnalysisStore) Failed() []entity.DocumentAnalysis {
	return s.ByStatus(entity.AnalysisFailed)
}

// Last último elemento de la colección o nil.
func (s *AnalysisStore) Last() *entity.DocumentAnalysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.analyses) == 0 {
		return nil
	}
	a := s.analyses[len(s.analyses)-1]
	return &a
}

func (s *AnalysisStore) Current() *entity.DocumentAnalysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	a := *s.current
	return &a
}

func (s *AnalysisStore) Pagination() *dto.AnalysisPagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pagination == nil {
		return nil
	}
	p := *s.pagination
	return &p
}

func (s *AnalysisStore) LastComparison() *entity.Comparison {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.comparison
}

func (s *AnalysisStore) Insights() *entity.AnalysisInsights {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.insights
}

func (s *AnalysisStore) Technical() *entity.TechnicalAnalysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.technical
}

func (s *AnalysisStore) IsLoading() bool   { return s.count(&s.loading) > 0 }
func (s *AnalysisStore) IsAnalyzing() bool { return s.count(&s.analyzing) > 0 }
func (s *AnalysisStore) IsComparing() bool { return s.count(&s.comparing) > 0 }

func (s *AnalysisStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *AnalysisStore) ErrorMessage() string { return errString(s.Err()) }

// ── helpers (con s.mu tomado salvo track/count/failed) ────────────────────────

func (s *AnalysisStore) index(id string) int {
	return slices.IndexFunc(s.analyses, func(a entity.DocumentAnalysis) bool { return a.ID == id })
}

func (s *AnalysisStore) prepend(a entity.DocumentAnalysis) {
	if i := s.index(a.ID); i >= 0 {
		s.analyses = slices.Delete(s.analyses, i, i+1)
	}
	s.analyses = append([]entity.DocumentAnalysis{a}, s.analyses...)
}

func (s *AnalysisStore) upsert(a entity.DocumentAnalysis) {
	if i := s.index(a.ID); i >= 0 {
		s.analyses[i] = a
		return
	}
	s.analyses = append(s.analyses, a)
}

// track incrementa el contador y limpia el error; la función devuelta lo decrementa.
func (s *AnalysisStore) track(n *int) func() {
	s.mu.Lock()
	*n++
	s.lastErr = nil
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		*n--
		s.mu.Unlock()
	}
}

func (s *AnalysisStore) count(n *int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *n
}

func (s *AnalysisStore) failed(err error, msg string) error {
	s.log.Error().Err(err).Msg(msg)
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	return err
}
