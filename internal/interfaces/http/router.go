package http

import (
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bakano/bakano-web/internal/application/frontend"
	"github.com/bakano/bakano-web/internal/application/guard"
	"github.com/bakano/bakano-web/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Registry *frontend.Registry
	Session  SessionConfig
	Metrics  *HTTPMetrics        // opcional
	Gatherer prometheus.Gatherer // opcional; sin él no se expone /metrics
	Tracing  bool
	Log      *logger.Logger

	// ConfirmTimeout espera máxima por el diálogo de confirmación; 0 usa el valor por defecto.
	ConfirmTimeout time.Duration
}

// Router registra middleware, páginas y acciones del BFF.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Tracing {
		app.Use(otelfiber.Middleware())
	}
	app.Use(RequestID())
	app.Use(RequestLogger(deps.Log))
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Handler())
	}
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	session := Session(deps.Registry, deps.Session)

	// Páginas (pasan por la guarda de navegación)
	pages := NewPageHandler(deps.Log)
	for _, r := range guard.Routes {
		app.Get(r.Path, session, pages.Show)
	}

	api := app.Group("/app", session)

	// Auth (público)
	authHandler := NewAuthHandler(deps.Registry, deps.Session)
	api.Get("/session", authHandler.Session)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Post("/verify-email", authHandler.VerifyEmail)

	// UI (público)
	uiHandler := NewUIHandler()
	uiGroup := api.Group("/ui")
	uiGroup.Get("/toast", uiHandler.Toast)
	uiGroup.Get("/dialog", uiHandler.Dialog)
	uiGroup.Post("/dialog/input", uiHandler.DialogInput)
	uiGroup.Post("/dialog/confirm", uiHandler.Confirm)
	uiGroup.Post("/dialog/cancel", uiHandler.Cancel)

	// Rutas protegidas (requieren sesión iniciada)
	protected := api.Group("/", RequireSession())

	protected.Post("/auth/refresh", authHandler.Refresh)
	protected.Patch("/auth/user", authHandler.UpdateUser)

	// Workspace
	workspaces := protected.Group("/workspace")
	workspaceHandler := NewWorkspaceHandler()
	workspaces.Get("/", workspaceHandler.Get)
	workspaces.Patch("/", workspaceHandler.UpdateData)
	workspaces.Post("/refresh", workspaceHandler.Refresh)
	workspaces.Put("/country", workspaceHandler.UpdateCountry)
	workspaces.Post("/document", workspaceHandler.UploadDocument)
	workspaces.Put("/complete-setup", workspaceHandler.CompleteSetup)
	workspaces.Patch("/settings", workspaceHandler.UpdateSettings)
	workspaces.Get("/countries", workspaceHandler.Countries)
	workspaces.Get("/setup-progress", workspaceHandler.SetupProgress)
	workspaces.Get("/validate-setup", workspaceHandler.ValidateSetup)

	// Documentos
	documents := protected.Group("/documents")
	documentHandler := NewDocumentHandler(deps.ConfirmTimeout)
	documents.Get("/", documentHandler.List)
	documents.Post("/", documentHandler.Upload)
	documents.Post("/selection", documentHandler.Select)
	documents.Delete("/selection", documentHandler.DeleteSelected)
	documents.Put("/:id", documentHandler.Update)
	documents.Delete("/:id", documentHandler.Delete)
	documents.Get("/:id/download", documentHandler.Download)
	documents.Get("/:id/preview", documentHandler.Preview)

	// Análisis
	analyses := protected.Group("/analyses")
	analysisHandler := NewAnalysisHandler()
	analyses.Get("/", analysisHandler.List)
	analyses.Post("/", analysisHandler.Analyze)
	analyses.Post("/url", analysisHandler.AnalyzeByURL)
	analyses.Post("/compare", analysisHandler.Compare)
	analyses.Post("/upload-and-compare", analysisHandler.UploadAndCompare)
	analyses.Get("/:id", analysisHandler.Get)
	analyses.Delete("/:id", analysisHandler.RemoveLocal)
	analyses.Patch("/:id/status", analysisHandler.UpdateStatus)
	analyses.Get("/:id/insights", analysisHandler.Insights)
	analyses.Get("/:id/technical", analysisHandler.Technical)

	// Agente
	agent := protected.Group("/agent")
	agentHandler := NewAgentHandler()
	agent.Get("/conversations", agentHandler.Conversations)
	agent.Post("/conversations", agentHandler.CreateConversation)
	agent.Get("/conversations/:id", agentHandler.GetConversation)
	agent.Patch("/conversations/:id", agentHandler.RetitleConversation)
	agent.Delete("/conversations/:id", agentHandler.DeleteConversation)
	agent.Post("/conversations/:id/select", agentHandler.SelectConversation)
	agent.Post("/conversations/:id/archive", agentHandler.ArchiveConversation)
	agent.Post("/chat", agentHandler.Chat)
	agent.Get("/insights/document/:analysisId", agentHandler.DocumentInsights)
	agent.Post("/insights/comparison/:workspaceId", agentHandler.ComparisonInsights)
	agent.Get("/health", agentHandler.Health)
}
