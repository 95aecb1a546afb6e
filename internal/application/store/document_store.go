package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/application/ports"
	"github.com/bakano/bakano-web/internal/domain"
	"github.com/bakano/bakano-web/internal/domain/entity"
	"github.com/bakano/bakano-web/pkg/logger"
)

const (
	uploadTick     = 200 * time.Millisecond
	uploadStep     = 10
	uploadCeiling  = 90
	recentUploads  = 7 * 24 * time.Hour
	defaultDocPage = 1
)

// DocumentStore página actual de documentos del workspace, selección y filtros.
// Fetch reemplaza la colección entera.
type DocumentStore struct {
	api    ports.DocumentGateway
	notify ports.Notifier
	log    *logger.Logger
	now    clock
	tick   time.Duration

	initMu sync.Mutex

	mu          sync.RWMutex
	documents   []entity.Document
	totalCount  int
	pagination  *dto.Pagination
	filters     dto.DocumentQuery
	selected    []string
	progress    int
	busy        int
	initialized bool
	lastErr     error
}

func NewDocumentStore(api ports.DocumentGateway, notify ports.Notifier, log *logger.Logger) *DocumentStore {
	return &DocumentStore{
		api:     api,
		notify:  notify,
		log:     log.Named("document_store"),
		now:     time.Now,
		tick:    uploadTick,
		filters: dto.DocumentQuery{Page: defaultDocPage},
	}
}

// Initialize primera carga con los filtros actuales; solo la primera llamada consulta.
func (s *DocumentStore) Initialize(ctx context.Context) error {
	if s.IsInitialized() {
		return nil
	}
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.IsInitialized() {
		return nil
	}
	err := s.Fetch(ctx, s.Filters())
	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()
	return err
}

// Fetch carga una página con q y la guarda como filtros actuales.
func (s *DocumentStore) Fetch(ctx context.Context, q dto.DocumentQuery) error {
	s.begin()
	defer s.end()

	resp, err := s.api.List(ctx, q)
	if err == nil && !resp.Success {
		err = rejected(resp.Message, "Error al cargar los documentos")
	}
	if err != nil {
		s.log.Error().Err(err).Msg("error cargando documentos")
		s.fail(err)
		s.notify.Trigger(messageOf(err, "Error al cargar los documentos"), ports.NotifyError)
		return err
	}

	s.mu.Lock()
	s.documents = slices.Clone(resp.Documents)
	s.totalCount = resp.TotalCount
	s.pagination = resp.Pagination
	s.filters = q
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// Refresh recarga con los filtros actuales.
func (s *DocumentStore) Refresh(ctx context.Context) error {
	return s.Fetch(ctx, s.Filters())
}

// Upload sube un archivo y lo agrega al principio de la lista. Un archivo vacío se
// rechaza sin llamar al servicio.
func (s *DocumentStore) Upload(ctx context.Context, req dto.UploadDocumentRequest) (*entity.Document, error) {
	if req.File.Size() == 0 {
		err := &domain.ValidationError{Field: "document", Message: "El archivo está vacío"}
		s.fail(err)
		s.notify.Trigger(err.Message, ports.NotifyError)
		return nil, err
	}

	s.begin()
	defer s.end()
	stop := s.startProgress()

	resp, err := s.api.Upload(ctx, req)
	stop()
	if err == nil && (!resp.Success || resp.Document == nil) {
		err = rejected(resp.Message, "Error al subir el documento")
	}
	if err != nil {
		s.log.Error().Err(err).Str("file", req.File.Name).Msg("error subiendo documento")
		s.mu.Lock()
		s.progress = 0
		s.lastErr = err
		s.mu.Unlock()
		s.notify.Trigger(messageOf(err, "Error al subir el documento"), ports.NotifyError)
		return nil, err
	}

	doc := *resp.Document
	s.mu.Lock()
	s.documents = append([]entity.Document{doc}, s.documents...)
	s.totalCount++
	s.progress = 100
	s.lastErr = nil
	s.mu.Unlock()
	s.notify.Trigger(nameOf(&doc)+" se ha subido correctamente", ports.NotifySuccess)
	return &doc, nil
}

// startProgress simula el avance de la subida hasta uploadCeiling. La función devuelta
// detiene la simulación y espera a que termine.
func (s *DocumentStore) startProgress() func() {
	s.mu.Lock()
	s.progress = 0
	s.mu.Unlock()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(s.tick)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				s.mu.Lock()
				if s.progress < uploadCeiling {
					s.progress += uploadStep
				}
				s.mu.Unlock()
			}
		}
	}()
	return func() {
		close(done)
		wg.Wait()
	}
}

// Update guarda cambios y reemplaza el documento en la lista.
func (s *DocumentStore) Update(ctx context.Context, id string, req dto.UpdateDocumentRequest) (*entity.Document, error) {
	s.begin()
	defer s.end()

	resp, err := s.api.Update(ctx, id, req)
	if err == nil && (!resp.Success || resp.Document == nil) {
		err = rejected(resp.Message, "Error al actualizar el documento")
	}
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("error actualizando documento")
		s.fail(err)
		s.notify.Trigger(messageOf(err, "Error al actualizar el documento"), ports.NotifyError)
		return nil, err
	}

	doc := *resp.Document
	s.mu.Lock()
	for i := range s.documents {
		if s.documents[i].Matches(id) {
			s.documents[i] = doc
			break
		}
	}
	s.lastErr = nil
	s.mu.Unlock()
	s.notify.Trigger("Los cambios se han guardado correctamente", ports.NotifySuccess)
	return &doc, nil
}

// Delete elimina un documento en el servidor y luego de la lista.
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	s.begin()
	defer s.end()

	name := s.displayName(id)
	if err := s.remove(ctx, id); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("error eliminando documento")
		s.fail(err)
		s.notify.Trigger(messageOf(err, "Error al eliminar el documento"), ports.NotifyError)
		return err
	}
	s.notify.Trigger(name+" se ha eliminado correctamente", ports.NotifySuccess)
	return nil
}

// remove llamada de borrado más la baja local, sin avisos.
func (s *DocumentStore) remove(ctx context.Context, id string) error {
	resp, err := s.api.Delete(ctx, id)
	if err == nil && !resp.Success {
		err = rejected(resp.Message, "Error al eliminar el documento")
	}
	if err != nil {
		return err
	}
	s.RemoveLocal(id)
	return nil
}

// DeleteSelected borra en paralelo todos los seleccionados y espera a que terminen.
// Cada borrado exitoso quita su documento aunque otro falle; la selección se limpia
// siempre.
func (s *DocumentStore) DeleteSelected(ctx context.Context) error {
	ids := s.Selected()
	if len(ids) == 0 {
		return nil
	}
	s.begin()
	defer s.end()

	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			if err := s.remove(ctx, id); err != nil {
				return fmt.Errorf("eliminar %s: %w", id, err)
			}
			return nil
		})
	}
	err := g.Wait()
	s.ClearSelection()

	if err != nil {
		s.log.Error().Err(err).Int("count", len(ids)).Msg("error en borrado masivo")
		s.fail(err)
		s.notify.Trigger("Error al eliminar los documentos seleccionados", ports.NotifyError)
		return err
	}
	s.notify.Trigger(fmt.Sprintf("Se eliminaron %d documentos correctamente", len(ids)), ports.NotifySuccess)
	return nil
}

// Download contenido del documento para entregarlo al navegador.
func (s *DocumentStore) Download(ctx context.Context, id string) (*dto.Blob, string, error) {
	name := s.displayName(id)
	blob, err := s.api.Download(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("error descargando documento")
		s.fail(err)
		s.notify.Trigger("No se pudo descargar el documento", ports.NotifyError)
		return nil, "", err
	}
	s.notify.Trigger("Descargando "+name, ports.NotifyInfo)
	return blob, name, nil
}

// Preview URL de vista previa; best-effort.
func (s *DocumentStore) Preview(ctx context.Context, id string) (string, error) {
	u, err := s.api.Preview(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("error obteniendo vista previa")
		s.fail(err)
		s.notify.Trigger(messageOf(err, "Error al obtener la vista previa"), ports.NotifyError)
		return "", err
	}
	return u, nil
}

// ── mutaciones locales ────────────────────────────────────────────────────────

// RemoveLocal quita un documento de la lista y de la selección sin llamar al servidor.
func (s *DocumentStore) RemoveLocal(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.keyOf(id)
	before := len(s.documents)
	s.documents = slices.DeleteFunc(s.documents, func(d entity.Document) bool { return d.Matches(id) })
	if removed := before - len(s.documents); removed > 0 && s.totalCount >= removed {
		s.totalCount -= removed
	}
	s.selected = slices.DeleteFunc(s.selected, func(sel string) bool { return sel == key || sel == id })
}

// UpdateLocalStatus cambia el estado de procesamiento sin llamar al servidor.
func (s *DocumentStore) UpdateLocalStatus(id, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.documents {
		if s.documents[i].Matches(id) {
			s.documents[i].Status = status
			return
		}
	}
}

func (s *DocumentStore) ToggleSelection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.keyOf(id)
	if i := slices.Index(s.selected, key); i >= 0 {
		s.selected = slices.Delete(s.selected, i, i+1)
		return
	}
	s.selected = append(s.selected, key)
}

// keyOf clave canónica del documento que responde a id (id o _id); el mismo id si no
// está en la página. Requiere s.mu tomado.
func (s *DocumentStore) keyOf(id string) string {
	for i := range s.documents {
		if s.documents[i].Matches(id) {
			return s.documents[i].Key()
		}
	}
	return id
}

func (s *DocumentStore) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = s.selected[:0]
	for i := range s.documents {
		s.selected = append(s.selected, s.documents[i].Key())
	}
}

func (s *DocumentStore) ClearSelection() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

// SetFilters reemplaza los filtros sin recargar.
func (s *DocumentStore) SetFilters(q dto.DocumentQuery) {
	s.mu.Lock()
	s.filters = q
	s.mu.Unlock()
}

func (s *DocumentStore) ClearFilters() {
	s.SetFilters(dto.DocumentQuery{Page: defaultDocPage})
}

// Reset estado inicial; se usa al cerrar sesión.
func (s *DocumentStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents, s.selected, s.pagination = nil, nil, nil
	s.totalCount, s.progress = 0, 0
	s.filters = dto.DocumentQuery{Page: defaultDocPage}
	s.initialized = false
	s.lastErr = nil
}

// ── lecturas ──────────────────────────────────────────────────────────────────

func (s *DocumentStore) Documents() []entity.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.documents)
}

func (s *DocumentStore) TotalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalCount
}

func (s *DocumentStore) Pagination() *dto.Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pagination == nil {
		return nil
	}
	p := *s.pagination
	return &p
}

func (s *DocumentStore) Filters() dto.DocumentQuery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

func (s *DocumentStore) Selected() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.selected)
}

func (s *DocumentStore) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.selected, s.keyOf(id))
}

// SelectedData documentos seleccionados presentes en la página actual.
func (s *DocumentStore) SelectedData() []entity.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Document
	for _, d := range s.documents {
		if slices.ContainsFunc(s.selected, d.Matches) {
			out = append(out, d)
		}
	}
	return out
}

// UploadProgress porcentaje de la subida en curso (100 tras la última exitosa).
func (s *DocumentStore) UploadProgress() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress
}

func (s *DocumentStore) ByType() map[entity.DocumentType][]entity.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[entity.DocumentType][]entity.Document, len(entity.DocumentTypes))
	for _, d := range s.documents {
		out[d.Type] = append(out[d.Type], d)
	}
	return out
}

// Stats agregados de la página actual; recientes son los subidos en los últimos 7 días.
func (s *DocumentStore) Stats() dto.DocumentStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := dto.DocumentStats{Total: len(s.documents), ByType: map[entity.DocumentType]int{}}
	cutoff := s.now().Add(-recentUploads)
	for _, d := range s.documents {
		st.ByType[d.Type]++
		st.TotalSize += d.Size
		if d.UploadedAt.After(cutoff) {
			st.RecentUploads++
		}
	}
	return st
}

// Filtered aplica localmente tipo y búsqueda (sin distinguir mayúsculas) de los filtros.
func (s *DocumentStore) Filtered() []entity.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fold := cases.Fold()
	search := fold.String(strings.TrimSpace(s.filters.Search))
	var out []entity.Document
	for _, d := range s.documents {
		if s.filters.Type != "" && d.Type != s.filters.Type {
			continue
		}
		if search != "" &&
			!strings.Contains(fold.String(d.Name), search) &&
			!strings.Contains(fold.String(d.OriginalName), search) &&
			!strings.Contains(fold.String(d.Description), search) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (s *DocumentStore) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

func (s *DocumentStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy > 0
}

func (s *DocumentStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *DocumentStore) ErrorMessage() string { return errString(s.Err()) }

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *DocumentStore) begin() {
	s.mu.Lock()
	s.busy++
	s.mu.Unlock()
}

func (s *DocumentStore) end() {
	s.mu.Lock()
	s.busy--
	s.mu.Unlock()
}

func (s *DocumentStore) fail(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// displayName nombre para los avisos; el id si el documento no está en la página.
func (s *DocumentStore) displayName(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.documents {
		if s.documents[i].Matches(id) {
			return nameOf(&s.documents[i])
		}
	}
	return id
}

func nameOf(d *entity.Document) string {
	if d.OriginalName != "" {
		return d.OriginalName
	}
	if d.Name != "" {
		return d.Name
	}
	return d.Key()
}
