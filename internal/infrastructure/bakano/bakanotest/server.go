// Package bakanotest levanta una API de Bakano falsa sobre httptest para pruebas
// de servicios, stores y handlers. Emite y valida JWT reales (pkg/jwt).
package bakanotest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/domain/entity"
	pkgjwt "github.com/bakano/bakano-web/pkg/jwt"
)

const (
	// Secret clave HS256 de los tokens emitidos.
	Secret = "bakanotest-secret"
	issuer = "bakano-api"

	// Usuario sembrado.
	SeedEmail    = "ana@constructora.ec"
	SeedPassword = "secreto123"
	SeedName     = "Ana María Pérez"
)

type account struct {
	user     entity.User
	password string
}

type failure struct {
	status  int
	message string
}

// Server API falsa. Todos los campos exportados se pueden ajustar entre llamadas
// tomando Lock/Unlock.
type Server struct {
	*httptest.Server
	sync.Mutex

	Workspace *entity.Workspace
	Countries []entity.Country
	Documents []entity.Document
	Analyses  []entity.DocumentAnalysis

	accounts map[string]*account
	calls    map[string]int
	failures map[string]failure
}

// New arranca el servidor; se cierra con t.Cleanup.
func New(t testing.TB) *Server {
	s := &Server{
		accounts: make(map[string]*account),
		calls:    make(map[string]int),
		failures: make(map[string]failure),
		Countries: []entity.Country{
			{Name: "Ecuador", Code: "EC", Key: "ecuador"},
			{Name: "Colombia", Code: "CO", Key: "colombia"},
			{Name: "Perú", Code: "PE", Key: "peru"},
		},
	}
	now := time.Now().UTC()
	seedUser := entity.User{
		ID: "user_1", Name: SeedName, Email: SeedEmail,
		CompanyName: "Constructora Andina", Country: "EC",
		IsVerified: true, CreatedAt: now, UpdatedAt: now,
	}
	s.accounts[SeedEmail] = &account{user: seedUser, password: SeedPassword}
	s.Workspace = &entity.Workspace{
		ID: "ws_1", Name: "Constructora Andina", CompanyID: "company_1", OwnerID: seedUser.ID,
		Status:  entity.WorkspaceActive,
		Members: []entity.WorkspaceMember{{UserID: seedUser.ID, Role: entity.MemberOwner}},
		Settings: entity.WorkspaceSettings{
			NLPSettings: entity.NLPSettings{Language: "es"},
		},
		CreatedAt: now, UpdatedAt: now,
	}

	mux := http.NewServeMux()
	s.routes(mux)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Server.Close)
	return s
}

// BaseURL dirección base de la API (incluye /api).
func (s *Server) BaseURL() string { return s.Server.URL + "/api" }

// Token emite un JWT válido para el usuario sembrado.
func (s *Server) Token(ttl time.Duration) string {
	tok, err := pkgjwt.Generate(Secret, "user_1", SeedEmail, issuer, ttl)
	if err != nil {
		panic(err)
	}
	return tok
}

// Calls cantidad de llamadas recibidas a "METHOD path" (path sin /api, p. ej. "GET auth/verify").
func (s *Server) Calls(route string) int {
	s.Lock()
	defer s.Unlock()
	return s.calls[route]
}

// Fail hace que la ruta responda status con message hasta que se llame Recover.
func (s *Server) Fail(route string, status int, message string) {
	s.Lock()
	defer s.Unlock()
	s.failures[route] = failure{status: status, message: message}
}

// Recover quita la falla configurada para la ruta.
func (s *Server) Recover(route string) {
	s.Lock()
	defer s.Unlock()
	delete(s.failures, route)
}

// ── infraestructura ───────────────────────────────────────────────────────────

type handler func(w http.ResponseWriter, r *http.Request, userID string)

// handle registra pattern ("METHOD /ruta") con conteo, fallas forzadas y auth opcional.
func (s *Server) handle(mux *http.ServeMux, pattern string, auth bool, h handler) {
	method, path, _ := strings.Cut(pattern, " ")
	mux.HandleFunc(method+" /api/"+path, func(w http.ResponseWriter, r *http.Request) {
		route := method + " " + strings.TrimPrefix(r.URL.Path, "/api/")
		key := method + " " + path

		s.Lock()
		s.calls[route]++
		if route != key {
			s.calls[key]++
		}
		f, failing := s.failures[key]
		if !failing {
			f, failing = s.failures[route]
		}
		s.Unlock()

		if failing {
			writeJSON(w, f.status, map[string]any{"success": false, "message": f.message})
			return
		}
		userID := ""
		if auth {
			claims, err := pkgjwt.Parse(Secret, strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Token inválido o expirado"})
				return
			}
			userID = claims.UserID
		}
		h(w, r, userID)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": msg})
}

func (s *Server) routes(mux *http.ServeMux) {
	// auth
	s.handle(mux, "POST auth/register", false, s.register)
	s.handle(mux, "POST auth/login", false, s.login)
	s.handle(mux, "GET auth/verify", true, func(w http.ResponseWriter, _ *http.Request, _ string) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})
	s.handle(mux, "POST auth/verify-email", false, s.verifyEmail)

	// workspace
	s.handle(mux, "GET workspace/my-workspace", true, s.myWorkspace)
	s.handle(mux, "PUT workspace/country", true, s.updateCountry)
	s.handle(mux, "POST workspace/upload-document", true, s.uploadCompanyDocument)
	s.handle(mux, "PUT workspace/complete-setup", true, s.completeSetup)
	s.handle(mux, "PATCH workspace/settings", true, s.updateSettings)
	s.handle(mux, "PATCH workspace", true, s.updateWorkspaceData)
	s.handle(mux, "GET workspace/countries", true, func(w http.ResponseWriter, _ *http.Request, _ string) {
		s.Lock()
		defer s.Unlock()
		writeJSON(w, http.StatusOK, dto.CountriesResponse{Countries: s.Countries})
	})
	s.handle(mux, "GET workspace/setup-progress", true, s.setupProgress)
	s.handle(mux, "GET workspace/validate-setup", true, s.validateSetup)

	// documentos
	s.handle(mux, "POST document/upload", true, s.uploadDocument)
	s.handle(mux, "GET document/workspace-documents", true, s.listDocuments)
	s.handle(mux, "PUT document/{id}", true, s.updateDocument)
	s.handle(mux, "DELETE document/{id}", true, s.deleteDocument)
	s.handle(mux, "GET document/{id}/download", true, s.downloadDocument)
	s.handle(mux, "GET document/{id}/preview", true, func(w http.ResponseWriter, r *http.Request, _ string) {
		writeJSON(w, http.StatusOK, dto.PreviewResponse{PreviewURL: "https://files.bakano.test/preview/" + r.PathValue("id")})
	})

	// análisis
	s.handle(mux, "POST analysis/document", true, s.analyzeDocument)
	s.handle(mux, "GET analysis/workspace/{workspaceId}", true, s.workspaceAnalyses)
	s.handle(mux, "GET analysis/{id}", true, s.getAnalysis)
	// un solo patrón para las subrutas: {id}/insights chocaría con workspace/{workspaceId}
	s.handle(mux, "GET analysis/{id}/{view}", true, func(w http.ResponseWriter, r *http.Request, userID string) {
		switch r.PathValue("view") {
		case "insights":
			s.insights(w, r, userID)
		case "technical":
			s.technical(w, r, userID)
		default:
			http.NotFound(w, r)
		}
	})
	s.handle(mux, "POST analysis/compare", true, s.compare)
	s.handle(mux, "POST analysis/upload-and-compare", true, s.uploadAndCompare)

	// agente
	s.handle(mux, "POST agent/chat", true, s.chat)
	s.handle(mux, "POST agent/chat/document/{analysisId}", true, s.chatDocument)
	s.handle(mux, "GET agent/insights/document/{analysisId}", true, s.documentInsights)
	s.handle(mux, "POST agent/insights/comparison/{workspaceId}", true, s.comparisonInsights)
	s.handle(mux, "GET agent/health", true, func(w http.ResponseWriter, _ *http.Request, _ string) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "health": map[string]any{"status": "healthy"}})
	})
}

// ── auth ──────────────────────────────────────────────────────────────────────

func (s *Server) register(w http.ResponseWriter, r *http.Request, _ string) {
	var req dto.RegisterRequest
	if err := readJSON(r, &req); err != nil || req.Email == "" || req.Password == "" {
		badRequest(w, "Datos de registro inválidos")
		return
	}
	s.Lock()
	defer s.Unlock()
	if _, exists := s.accounts[req.Email]; exists {
		badRequest(w, "El email ya está registrado")
		return
	}
	now := time.Now().UTC()
	u := entity.User{
		ID: "user_" + uuid.NewString()[:8], Name: req.Name, Email: req.Email,
		CompanyName: req.CompanyName, Country: req.Country, CreatedAt: now, UpdatedAt: now,
	}
	s.accounts[req.Email] = &account{user: u, password: req.Password}
	tok, _ := pkgjwt.Generate(Secret, u.ID, u.Email, issuer, time.Hour)
	writeJSON(w, http.StatusCreated, dto.AuthResponse{
		Success: true,
		Message: "Usuario registrado exitosamente",
		Data: &dto.AuthData{
			User:  &u,
			Token: tok,
			Workspace: &dto.AuthWorkspace{
				ID: s.Workspace.ID, Name: req.CompanyName, Status: entity.WorkspaceActive,
			},
		},
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request, _ string) {
	var req dto.LoginRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "Credenciales inválidas")
		return
	}
	s.Lock()
	acc, ok := s.accounts[req.Email]
	s.Unlock()
	if !ok || acc.password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Credenciales inválidas"})
		return
	}
	u := acc.user
	tok, _ := pkgjwt.Generate(Secret, u.ID, u.Email, issuer, time.Hour)
	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Success: true,
		Message: "Login exitoso",
		Data:    &dto.AuthData{User: &u, Token: tok},
	})
}

func (s *Server) verifyEmail(w http.ResponseWriter, r *http.Request, _ string) {
	var req dto.VerifyEmailRequest
	if err := readJSON(r, &req); err != nil || req.Token == "" {
		badRequest(w, "Token de verificación inválido")
		return
	}
	writeJSON(w, http.StatusOK, dto.StatusResponse{Success: true, Message: "Email verificado"})
}

// ── workspace ─────────────────────────────────────────────────────────────────

func (s *Server) myWorkspace(w http.ResponseWriter, _ *http.Request, _ string) {
	s.Lock()
	defer s.Unlock()
	ws := *s.Workspace
	writeJSON(w, http.StatusOK, dto.GetWorkspaceResponse{
		Success: true, Message: "Workspace obtenido", Workspace: &ws, AvailableCountries: s.Countries,
	})
}

func (s *Server) workspaceResponse(w http.ResponseWriter, msg string, paths *dto.LegalDocumentPaths) {
	s.Workspace.UpdatedAt = time.Now().UTC()
	ws := *s.Workspace
	writeJSON(w, http.StatusOK, dto.WorkspaceResponse{Success: true, Message: msg, Workspace: &ws, LegalDocumentPaths: paths})
}

func (s *Server) updateCountry(w http.ResponseWriter, r *http.Request, _ string) {
	var req dto.UpdateCountryRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "País inválido")
		return
	}
	s.Lock()
	defer s.Unlock()
	for _, c := range s.Countries {
		if c.Code == req.Country || c.Key == req.Country {
			s.Workspace.Settings.Country = entity.CountryRef{Name: c.Name, Code: c.Code}
			base := "legal/" + c.Key + "/"
			s.Workspace.Settings.LegalDocuments.Constitution = base + "constitucion.pdf"
			s.Workspace.Settings.LegalDocuments.ProcurementLaw = base + "ley_contratacion.pdf"
			s.Workspace.Settings.LegalDocuments.ProcurementRegulation = base + "reglamento.pdf"
			s.workspaceResponse(w, "País actualizado", &dto.LegalDocumentPaths{
				Constitution:          s.Workspace.Settings.LegalDocuments.Constitution,
				ProcurementLaw:        s.Workspace.Settings.LegalDocuments.ProcurementLaw,
				ProcurementRegulation: s.Workspace.Settings.LegalDocuments.ProcurementRegulation,
			})
			return
		}
	}
	badRequest(w, "País no soportado")
}

func (s *Server) uploadCompanyDocument(w http.ResponseWriter, r *http.Request, _ string) {
	_, hdr, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "Archivo requerido")
		return
	}
	s.Lock()
	defer s.Unlock()
	url := "https://files.bakano.test/company/" + hdr.Filename
	s.Workspace.Settings.LegalDocuments.CompanyDocument = &entity.CompanyDocument{
		Name: hdr.Filename, URL: url, UploadedAt: time.Now().UTC(),
	}
	ws := *s.Workspace
	writeJSON(w, http.StatusOK, dto.UploadCompanyDocumentResponse{
		Success: true, Message: "Documento subido",
		Document: dto.UploadedFileRef{Name: hdr.Filename, URL: url}, Workspace: &ws,
	})
}

func (s *Server) completeSetup(w http.ResponseWriter, _ *http.Request, _ string) {
	s.Lock()
	defer s.Unlock()
	if s.Workspace.Settings.Country.Code == "" {
		badRequest(w, "Selecciona un país antes de completar la configuración")
		return
	}
	s.Workspace.IsFullyConfigured = true
	if s.Workspace.Settings.AnalysisConfig == nil {
		cfg := &entity.AnalysisConfig{}
		cfg.RiskThresholds.Legal, cfg.RiskThresholds.Technical, cfg.RiskThresholds.Financial = 0.7, 0.6, 0.8
		cfg.ScoringWeights.Compliance, cfg.ScoringWeights.Risk, cfg.ScoringWeights.Completeness = 0.4, 0.3, 0.3
		s.Workspace.Settings.AnalysisConfig = cfg
	}
	s.workspaceResponse(w, "Configuración completada", nil)
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request, _ string) {
	var req struct {
		Settings struct {
			AnalysisConfig *entity.AnalysisConfig `json:"analysisConfig"`
			NLPSettings    *entity.NLPSettings    `json:"nlpSettings"`
		} `json:"settings"`
	}
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "Configuración inválida")
		return
	}
	s.Lock()
	defer s.Unlock()
	if req.Settings.AnalysisConfig != nil {
		s.Workspace.Settings.AnalysisConfig = req.Settings.AnalysisConfig
	}
	if req.Settings.NLPSettings != nil {
		s.Workspace.Settings.NLPSettings = *req.Settings.NLPSettings
	}
	s.workspaceResponse(w, "Configuración actualizada", nil)
}

func (s *Server) updateWorkspaceData(w http.ResponseWriter, r *http.Request, _ string) {
	var req dto.UpdateWorkspaceDataRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "Datos inválidos")
		return
	}
	s.Lock()
	defer s.Unlock()
	if req.Name != nil {
		s.Workspace.Name = *req.Name
	}
	if req.Status != nil {
		s.Workspace.Status = *req.Status
	}
	s.workspaceResponse(w, "Workspace actualizado", nil)
}

func (s *Server) missingSteps() []string {
	var steps []string
	if s.Workspace.Settings.Country.Code == "" {
		steps = append(steps, "country")
	}
	if s.Workspace.Settings.LegalDocuments.CompanyDocument == nil {
		steps = append(steps, "companyDocument")
	}
	if !s.Workspace.IsFullyConfigured {
		steps = append(steps, "completeSetup")
	}
	return steps
}

func (s *Server) setupProgress(w http.ResponseWriter, _ *http.Request, _ string) {
	s.Lock()
	defer s.Unlock()
	out := dto.SetupProgress{Progress: s.Workspace.SetupProgressPercentage()}
	if steps := s.missingSteps(); len(steps) > 0 {
		out.NextStep = steps[0]
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) validateSetup(w http.ResponseWriter, _ *http.Request, _ string) {
	s.Lock()
	defer s.Unlock()
	steps := s.missingSteps()
	writeJSON(w, http.StatusOK, dto.SetupValidation{
		IsValid:      len(steps) == 0,
		MissingSteps: steps,
		CanProceed:   s.Workspace.Settings.Country.Code != "",
	})
}

// ── documentos ────────────────────────────────────────────────────────────────

func (s *Server) uploadDocument(w http.ResponseWriter, r *http.Request, userID string) {
	file, hdr, err := r.FormFile("document")
	if err != nil {
		badRequest(w, "Archivo requerido")
		return
	}
	defer file.Close()
	content, _ := io.ReadAll(file)
	now := time.Now().UTC()
	id := "doc_" + uuid.NewString()[:8]
	doc := entity.Document{
		ID: id, Name: r.FormValue("title"), OriginalName: hdr.Filename,
		Type: entity.DocumentType(r.FormValue("documentType")), Size: int64(len(content)),
		MimeType: hdr.Header.Get("Content-Type"), Description: r.FormValue("description"),
		UploadedAt: now, UpdatedAt: now, WorkspaceID: "ws_1", UploadedBy: userID,
		URL: "https://files.bakano.test/documents/" + id, Status: entity.DocumentCompleted,
	}
	s.Lock()
	s.Documents = append([]entity.Document{doc}, s.Documents...)
	s.Unlock()
	writeJSON(w, http.StatusCreated, dto.DocumentResponse{Success: true, Message: "Documento subido", Document: &doc})
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request, _ string) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	s.Lock()
	var docs []entity.Document
	for _, d := range s.Documents {
		if t := q.Get("type"); t != "" && string(d.Type) != t {
			continue
		}
		if term := strings.ToLower(q.Get("search")); term != "" && !strings.Contains(strings.ToLower(d.Name), term) {
			continue
		}
		docs = append(docs, d)
	}
	s.Unlock()
	total := len(docs)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	writeJSON(w, http.StatusOK, dto.DocumentListResponse{
		Success: true, Message: "Documentos obtenidos", Documents: docs[start:end], TotalCount: total,
		Pagination: &dto.Pagination{
			Page: page, Limit: limit, TotalPages: (total + limit - 1) / limit,
			HasNext: end < total, HasPrev: page > 1,
		},
	})
}

func (s *Server) documentIndex(id string) int {
	for i := range s.Documents {
		if s.Documents[i].Matches(id) {
			return i
		}
	}
	return -1
}

func (s *Server) updateDocument(w http.ResponseWriter, r *http.Request, _ string) {
	var req dto.UpdateDocumentRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "Datos inválidos")
		return
	}
	s.Lock()
	defer s.Unlock()
	i := s.documentIndex(r.PathValue("id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Documento no encontrado"})
		return
	}
	d := &s.Documents[i]
	if req.Name != "" {
		d.Name = req.Name
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.Type != "" {
		d.Type = req.Type
	}
	d.UpdatedAt = time.Now().UTC()
	out := *d
	writeJSON(w, http.StatusOK, dto.DocumentResponse{Success: true, Message: "Documento actualizado", Document: &out})
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request, _ string) {
	s.Lock()
	defer s.Unlock()
	i := s.documentIndex(r.PathValue("id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Documento no encontrado"})
		return
	}
	s.Documents = append(s.Documents[:i], s.Documents[i+1:]...)
	writeJSON(w, http.StatusOK, dto.StatusResponse{Success: true, Message: "Documento eliminado"})
}

func (s *Server) downloadDocument(w http.ResponseWriter, r *http.Request, _ string) {
	s.Lock()
	i := s.documentIndex(r.PathValue("id"))
	var doc entity.Document
	if i >= 0 {
		doc = s.Documents[i]
	}
	s.Unlock()
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Documento no encontrado"})
		return
	}
	w.Header().Set("Content-Type", doc.MimeType)
	_, _ = w.Write([]byte("contenido:" + doc.Name))
}

// ── análisis ──────────────────────────────────────────────────────────────────

func (s *Server) newAnalysis(name, docType string) entity.DocumentAnalysis {
	now := time.Now().UTC()
	return entity.DocumentAnalysis{
		ID: "an_" + uuid.NewString()[:8], DocumentID: "doc_" + uuid.NewString()[:8],
		DocumentName: name, DocumentType: docType, Status: entity.AnalysisCompleted,
		AIAnalysis: "Análisis de " + name, AnalysisDate: now, ProcessingTime: 1.5,
		WorkspaceID: "ws_1", CreatedAt: now, UpdatedAt: now,
	}
}

func (s *Server) analyzeDocument(w http.ResponseWriter, r *http.Request, _ string) {
	var a entity.DocumentAnalysis
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		_, hdr, err := r.FormFile("document")
		if err != nil {
			badRequest(w, "Archivo requerido")
			return
		}
		a = s.newAnalysis(hdr.Filename, r.FormValue("documentType"))
	} else {
		var req dto.AnalyzeByURLRequest
		if err := readJSON(r, &req); err != nil || req.DocumentURL == "" {
			badRequest(w, "URL requerida")
			return
		}
		a = s.newAnalysis(req.DocumentName, req.DocumentType)
	}
	s.Lock()
	s.Analyses = append([]entity.DocumentAnalysis{a}, s.Analyses...)
	configured := s.Workspace.IsFullyConfigured
	country := s.Workspace.Settings.Country
	s.Unlock()
	writeJSON(w, http.StatusOK, dto.AnalysisResponse{
		Success: true, Message: "Análisis completado", Analysis: &a, AnalysisID: a.ID,
		Workspace: &dto.AnalysisWorkspace{ID: "ws_1", Name: "Constructora Andina", Country: &country,
			IsFullyConfigured: &configured, Status: entity.WorkspaceActive},
	})
}

func (s *Server) workspaceAnalyses(w http.ResponseWriter, r *http.Request, _ string) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	s.Lock()
	var list []entity.DocumentAnalysis
	for _, a := range s.Analyses {
		if dt := q.Get("documentType"); dt != "" && a.DocumentType != dt {
			continue
		}
		if st := q.Get("status"); st != "" && a.Status != st {
			continue
		}
		list = append(list, a)
	}
	s.Unlock()
	total := len(list)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	totalPages := (total + limit - 1) / limit
	writeJSON(w, http.StatusOK, dto.WorkspaceAnalysesResponse{
		Success: true, Message: "Análisis obtenidos", Analyses: list[start:end],
		Pagination: &dto.AnalysisPagination{
			CurrentPage: page, TotalPages: totalPages, TotalCount: total,
			HasNextPage: page < totalPages, HasPrevPage: page > 1,
		},
		Workspace: &entity.WorkspaceRef{ID: r.PathValue("workspaceId"), Name: "Constructora Andina", Country: "EC"},
	})
}

func (s *Server) findAnalysis(id string) (entity.DocumentAnalysis, bool) {
	s.Lock()
	defer s.Unlock()
	for _, a := range s.Analyses {
		if a.ID == id {
			return a, true
		}
	}
	return entity.DocumentAnalysis{}, false
}

func (s *Server) getAnalysis(w http.ResponseWriter, r *http.Request, _ string) {
	a, ok := s.findAnalysis(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Análisis no encontrado"})
		return
	}
	writeJSON(w, http.StatusOK, dto.SingleAnalysisResponse{Success: true, Analysis: &a})
}

func (s *Server) insights(w http.ResponseWriter, r *http.Request, _ string) {
	a, ok := s.findAnalysis(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Análisis no encontrado"})
		return
	}
	focus := r.URL.Query().Get("focus")
	writeJSON(w, http.StatusOK, dto.InsightsResponse{Success: true, Insights: &entity.AnalysisInsights{
		ID: a.ID, DocumentName: a.DocumentName, DocumentType: a.DocumentType, Focus: focus,
		Analysis: fmt.Sprintf("Insights (%s) de %s", focus, a.DocumentName), CreatedAt: time.Now().UTC(),
		Workspace: entity.WorkspaceRef{ID: "ws_1", Name: "Constructora Andina", Country: "EC"},
	}})
}

func (s *Server) technical(w http.ResponseWriter, r *http.Request, _ string) {
	a, ok := s.findAnalysis(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Análisis no encontrado"})
		return
	}
	ta := &entity.TechnicalAnalysis{
		ID: a.ID, DocumentName: a.DocumentName, DocumentType: a.DocumentType,
		TechnicalAnalysis: "Respuesta a: " + r.URL.Query().Get("question"),
		Risks:             []string{"Plazo de ejecución ajustado"}, CreatedAt: time.Now().UTC(),
	}
	writeJSON(w, http.StatusOK, dto.TechnicalAnalysisResponse{Success: true, Analysis: ta})
}

func comparisonFor(names []string) *entity.Comparison {
	c := &entity.Comparison{ComparisonID: "cmp_" + uuid.NewString()[:8]}
	for i, n := range names {
		c.Ranking = append(c.Ranking, entity.RankingEntry{DocumentID: n, DocumentName: n, Position: i + 1, TotalScore: float64(90 - i*10)})
	}
	if len(names) > 0 {
		c.FinalRecommendation.RecommendedDocument = names[0]
	}
	return c
}

func (s *Server) compare(w http.ResponseWriter, r *http.Request, _ string) {
	var req dto.CompareRequest
	if err := readJSON(r, &req); err != nil || len(req.DocumentIDs) < 2 {
		badRequest(w, "Se requieren al menos dos documentos")
		return
	}
	writeJSON(w, http.StatusOK, dto.ComparisonResponse{Success: true, Comparison: comparisonFor(req.DocumentIDs)})
}

func (s *Server) uploadAndCompare(w http.ResponseWriter, r *http.Request, _ string) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		badRequest(w, "Formulario inválido")
		return
	}
	var names []string
	for _, fh := range r.MultipartForm.File["documents"] {
		names = append(names, fh.Filename)
	}
	if len(names) < 2 {
		badRequest(w, "Se requieren al menos dos documentos")
		return
	}
	writeJSON(w, http.StatusOK, dto.ComparisonResponse{Success: true, Comparison: comparisonFor(names)})
}

// ── agente ────────────────────────────────────────────────────────────────────

func (s *Server) chat(w http.ResponseWriter, r *http.Request, _ string) {
	var req dto.ChatRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "Mensaje inválido")
		return
	}
	writeJSON(w, http.StatusOK, dto.ChatResponse{
		ID: "msg_" + uuid.NewString()[:8], Message: "Eco: " + req.Message,
		ConversationID: req.ConversationID, Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// chatDocument responde con la forma antigua (texto en "content").
func (s *Server) chatDocument(w http.ResponseWriter, r *http.Request, _ string) {
	var req dto.ChatRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "Mensaje inválido")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"content":        "Sobre " + r.PathValue("analysisId") + ": " + req.Message,
		"conversationId": req.ConversationID,
	})
}

func (s *Server) documentInsights(w http.ResponseWriter, r *http.Request, _ string) {
	id := r.PathValue("analysisId")
	writeJSON(w, http.StatusOK, dto.DocumentInsightsResponse{
		AnalysisID: id,
		Insights: []entity.DocumentInsight{{
			ID: "ins_1", Type: entity.InsightRisk, Title: "Garantía insuficiente",
			Content: "La garantía de fiel cumplimiento es menor al 5%", Confidence: 0.9, Relevance: 0.8,
			CreatedAt: time.Now().UTC(),
		}},
		TotalInsights: 1, LastUpdated: time.Now().UTC(),
	})
}

func (s *Server) comparisonInsights(w http.ResponseWriter, r *http.Request, _ string) {
	var req dto.ComparisonInsightsRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "Solicitud inválida")
		return
	}
	writeJSON(w, http.StatusOK, dto.ComparisonInsightsResponse{
		WorkspaceID: r.PathValue("workspaceId"),
		Insights: []entity.ComparisonInsight{{
			ID: "ci_1", Type: req.ComparisonType, Title: "Diferencia de precio",
			AffectedAnalyses: req.AnalysisIDs, Severity: "medium", Category: "difference",
		}},
		Summary: "Comparación generada", TotalComparisons: len(req.AnalysisIDs), CreatedAt: time.Now().UTC(),
	})
}
