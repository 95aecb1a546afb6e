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

// WorkspaceStore el workspace activo de la sesión y el catálogo de países.
// Toda mutación reemplaza el workspace completo por el que devuelve el servidor.
type WorkspaceStore struct {
	api    ports.WorkspaceGateway
	notify ports.Notifier
	log    *logger.Logger

	initMu sync.Mutex

	mu             sync.RWMutex
	workspace      *entity.Workspace
	countries      []entity.Country
	serverProgress int
	nextStep       string
	busy           int
	initialized    bool
	lastErr        error
}

func NewWorkspaceStore(api ports.WorkspaceGateway, notify ports.Notifier, log *logger.Logger) *WorkspaceStore {
	return &WorkspaceStore{api: api, notify: notify, log: log.Named("workspace_store")}
}

// Initialize carga el workspace una sola vez. Queda inicializado aunque la carga falle;
// el error se devuelve para que el llamador decida.
func (s *WorkspaceStore) Initialize(ctx context.Context) error {
	if s.IsInitialized() {
		return nil
	}
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.IsInitialized() {
		return nil
	}

	err := s.Fetch(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("error inicializando workspace")
		s.notify.Trigger("Error al cargar el workspace", ports.NotifyError)
	}
	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()
	return err
}

// Fetch trae el workspace y los países disponibles.
func (s *WorkspaceStore) Fetch(ctx context.Context) error {
	s.begin()
	defer s.end()

	resp, err := s.api.GetUserWorkspace(ctx)
	if err == nil && (!resp.Success || resp.Workspace == nil) {
		err = rejected(resp.Message, "Error al obtener el workspace")
	}
	if err != nil {
		s.fail(err)
		return err
	}
	s.mu.Lock()
	s.workspace = resp.Workspace
	if resp.AvailableCountries != nil {
		s.countries = resp.AvailableCountries
	}
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// mutate patrón común de las mutaciones: llamada, reemplazo completo, aviso.
func (s *WorkspaceStore) mutate(ctx context.Context, call func(context.Context) (*dto.WorkspaceResponse, error), def, ok string) error {
	s.begin()
	defer s.end()

	resp, err := call(ctx)
	if err == nil && (!resp.Success || resp.Workspace == nil) {
		err = rejected(resp.Message, def)
	}
	if err != nil {
		s.log.Error().Err(err).Msg(def)
		s.fail(err)
		s.notify.Trigger(messageOf(err, def), ports.NotifyError)
		return err
	}
	s.replace(resp.Workspace)
	s.notify.Trigger(ok, ports.NotifySuccess)
	return nil
}

func (s *WorkspaceStore) UpdateCountry(ctx context.Context, country string) error {
	return s.mutate(ctx, func(ctx context.Context) (*dto.WorkspaceResponse, error) {
		return s.api.UpdateCountry(ctx, country)
	}, "Error al actualizar el país", "País actualizado correctamente")
}

// UploadCompanyDocument sube el documento legal de la empresa.
func (s *WorkspaceStore) UploadCompanyDocument(ctx context.Context, file dto.File) error {
	return s.mutate(ctx, func(ctx context.Context) (*dto.WorkspaceResponse, error) {
		resp, err := s.api.UploadCompanyDocument(ctx, file)
		if err != nil {
			return nil, err
		}
		return &dto.WorkspaceResponse{Success: resp.Success, Message: resp.Message, Workspace: resp.Workspace}, nil
	}, "Error al subir el documento", "Documento subido correctamente")
}

func (s *WorkspaceStore) CompleteSetup(ctx context.Context) error {
	return s.mutate(ctx, s.api.CompleteSetup,
		"Error al completar la configuración", "Configuración completada exitosamente")
}

func (s *WorkspaceStore) UpdateSettings(ctx context.Context, settings map[string]any) error {
	return s.mutate(ctx, func(ctx context.Context) (*dto.WorkspaceResponse, error) {
		return s.api.UpdateSettings(ctx, settings)
	}, "Error al actualizar la configuración", "Configuración actualizada correctamente")
}

func (s *WorkspaceStore) UpdateData(ctx context.Context, req dto.UpdateWorkspaceDataRequest) error {
	return s.mutate(ctx, func(ctx context.Context) (*dto.WorkspaceResponse, error) {
		return s.api.UpdateData(ctx, req)
	}, "Error al actualizar el workspace", "Workspace actualizado correctamente")
}

// FetchAvailableCountries best-effort: ante un error avisa y deja el catálogo como está.
func (s *WorkspaceStore) FetchAvailableCountries(ctx context.Context) []entity.Country {
	countries, err := s.api.AvailableCountries(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("error obteniendo países")
		s.notify.Trigger("Error al cargar países disponibles", ports.NotifyError)
		return s.Countries()
	}
	s.mu.Lock()
	s.countries = countries
	s.mu.Unlock()
	return slices.Clone(countries)
}

// FetchSetupProgress progreso según el servidor; se guarda aparte del derivado.
func (s *WorkspaceStore) FetchSetupProgress(ctx context.Context) *dto.SetupProgress {
	p, err := s.api.SetupProgress(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("error obteniendo progreso de configuración")
		return nil
	}
	s.mu.Lock()
	s.serverProgress, s.nextStep = p.Progress, p.NextStep
	s.mu.Unlock()
	return p
}

// ValidateSetup best-effort; ante un error devuelve una validación negativa.
func (s *WorkspaceStore) ValidateSetup(ctx context.Context) dto.SetupValidation {
	v, err := s.api.ValidateSetup(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("error validando configuración")
		return dto.SetupValidation{IsValid: false, MissingSteps: []string{"Error de validación"}, CanProceed: false}
	}
	return *v
}

// ApplyAnalysisWorkspace aplica el resumen de workspace que devuelve un análisis.
// Sin workspace cargado, o si el id no coincide, no hace nada.
func (s *WorkspaceStore) ApplyAnalysisWorkspace(summary *dto.AnalysisWorkspace) {
	if summary == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workspace == nil || (summary.ID != "" && summary.ID != s.workspace.ID) {
		return
	}
	w := *s.workspace
	w.IsFullyConfigured = true
	if summary.IsFullyConfigured != nil {
		w.IsFullyConfigured = *summary.IsFullyConfigured
	}
	if summary.Status != "" {
		w.Status = summary.Status
	}
	if summary.Country != nil {
		w.Settings.Country = *summary.Country
	}
	s.workspace = &w
}

// Reset olvida el workspace; se usa al cerrar sesión.
func (s *WorkspaceStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspace = nil
	s.countries = nil
	s.serverProgress, s.nextStep = 0, ""
	s.initialized = false
	s.lastErr = nil
}

// ── estado ────────────────────────────────────────────────────────────────────

func (s *WorkspaceStore) replace(w *entity.Workspace) {
	s.mu.Lock()
	s.workspace = w
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *WorkspaceStore) begin() {
	s.mu.Lock()
	s.busy++
	s.mu.Unlock()
}

func (s *WorkspaceStore) end() {
	s.mu.Lock()
	s.busy--
	s.mu.Unlock()
}

func (s *WorkspaceStore) fail(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *WorkspaceStore) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

func (s *WorkspaceStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy > 0
}

// Workspace copia superficial del workspace actual o nil.
func (s *WorkspaceStore) Workspace() *entity.Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.workspace == nil {
		return nil
	}
	w := *s.workspace
	return &w
}

func (s *WorkspaceStore) Countries() []entity.Country {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.countries)
}

func (s *WorkspaceStore) HasWorkspace() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workspace != nil
}

// IsConfigured bandera que afirma el servidor.
func (s *WorkspaceStore) IsConfigured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workspace != nil && s.workspace.IsFullyConfigured
}

func (s *WorkspaceStore) SelectedCountry() entity.CountryRef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.workspace == nil {
		return entity.CountryRef{}
	}
	return s.workspace.Settings.Country
}

func (s *WorkspaceStore) HasCompanyDocument() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workspace != nil && s.workspace.Settings.LegalDocuments.CompanyDocument != nil
}

// SetupProgressPercentage progreso derivado en el cliente; puede no coincidir con
// ServerProgress.
func (s *WorkspaceStore) SetupProgressPercentage() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workspace.SetupProgressPercentage()
}

func (s *WorkspaceStore) ServerProgress() (int, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.serverProgress, s.nextStep
}

func (s *WorkspaceStore) IsOwner() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workspace.HasRole(entity.MemberOwner)
}

func (s *WorkspaceStore) CanManageWorkspace() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workspace.HasRole(entity.MemberOwner, entity.MemberAdmin)
}

func (s *WorkspaceStore) Usage() entity.WorkspaceUsage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.workspace == nil {
		return entity.WorkspaceUsage{}
	}
	return s.workspace.Usage
}

func (s *WorkspaceStore) Members() []entity.WorkspaceMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.workspace == nil {
		return nil
	}
	return slices.Clone(s.workspace.Members)
}

func (s *WorkspaceStore) Documents() []entity.WorkspaceDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.workspace == nil {
		return nil
	}
	return slices.Clone(s.workspace.Settings.Documents)
}

// Info resumen para la interfaz.
func (s *WorkspaceStore) Info() dto.WorkspaceInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w := s.workspace
	info := dto.WorkspaceInfo{
		HasWorkspace:   w != nil,
		Progress:       w.SetupProgressPercentage(),
		ServerProgress: s.serverProgress,
		NextStep:       s.nextStep,
		Status:         entity.WorkspaceActive,
	}
	if w == nil {
		return info
	}
	info.IsConfigured = w.IsFullyConfigured
	info.Name = w.Name
	if w.Status != "" {
		info.Status = w.Status
	}
	info.MemberCount = len(w.Members)
	info.DocumentCount = w.Usage.DocumentCount
	info.AnalysisCount = w.Usage.AnalysisCount
	return info
}

func (s *WorkspaceStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// ErrorMessage mensaje del último error, vacío si no hay.
func (s *WorkspaceStore) ErrorMessage() string { return errString(s.Err()) }
