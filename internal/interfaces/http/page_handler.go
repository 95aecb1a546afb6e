package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/application/frontend"
	"github.com/bakano/bakano-web/internal/application/guard"
	"github.com/bakano/bakano-web/internal/application/ui"
	"github.com/bakano/bakano-web/internal/domain/entity"
	"github.com/bakano/bakano-web/pkg/logger"
)

// PageView estado que la vista necesita para pintar una ruta.
type PageView struct {
	Route     string             `json:"route"`
	Path      string             `json:"path"`
	Session   dto.SessionInfo    `json:"session"`
	Workspace *dto.WorkspaceInfo `json:"workspace,omitempty"`
	Toast     ui.ToastState      `json:"toast"`
	Dialog    ui.DialogState     `json:"dialog"`
	Data      any                `json:"data,omitempty"`
}

// PageHandler atiende las rutas de la aplicación pasando por la guarda de navegación.
type PageHandler struct {
	log *logger.Logger
}

func NewPageHandler(log *logger.Logger) *PageHandler {
	return &PageHandler{log: log.Named("pages")}
}

// Show godoc
// @Summary      Página de la aplicación
// @Description  Evalúa la guarda de navegación; redirige con 302 o devuelve el estado de la vista.
// @Tags         pages
// @Produce      json
// @Success      200  {object}  PageView
// @Success      302  "Location con la ruta de destino"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /{page} [get]
func (h *PageHandler) Show(c *fiber.Ctx) error {
	route, found := guard.Resolve(c.Path())
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ruta no encontrada"})
	}
	client := GetClient(c)
	ctx := c.UserContext()

	d := guard.Evaluate(ctx, route, client.Auth, client.Workspace, h.log)
	if !d.Allowed() {
		return c.Redirect(d.RedirectPath(), fiber.StatusFound)
	}

	view := PageView{
		Route:   route.Name,
		Path:    c.Path(),
		Session: client.Auth.SessionInfo(),
	}
	if client.Auth.IsAuthenticated() {
		info := client.Workspace.Info()
		view.Workspace = &info
	}
	view.Data = h.data(c, client, route)
	view.Toast = client.Toast.State()
	view.Dialog = client.Dialog.State()
	// la navegación ya ocurrió; la ruta pendiente no aplica
	client.Navigator.Take()
	return c.JSON(view)
}

type verifyView struct {
	Verified bool   `json:"verified"`
	Error    string `json:"error,omitempty"`
}

type setupView struct {
	Countries          []entity.Country    `json:"countries"`
	SelectedCountry    entity.CountryRef   `json:"selectedCountry"`
	HasCompanyDocument bool                `json:"hasCompanyDocument"`
	Progress           int                 `json:"progress"`
	Validation         dto.SetupValidation `json:"validation"`
}

type dashboardView struct {
	Analyses  []entity.DocumentAnalysis `json:"analyses"`
	Last      *entity.DocumentAnalysis  `json:"lastAnalysis,omitempty"`
	Documents dto.DocumentStats         `json:"documents"`
	Usage     entity.WorkspaceUsage     `json:"usage"`
}

type documentsView struct {
	Documents  []entity.Document `json:"documents"`
	TotalCount int               `json:"totalCount"`
	Pagination *dto.Pagination   `json:"pagination,omitempty"`
	Filters    dto.DocumentQuery `json:"filters"`
	Stats      dto.DocumentStats `json:"stats"`
	Selected   []string          `json:"selected"`
	Error      string            `json:"error,omitempty"`
}

// data carga lo propio de cada ruta. Las cargas son best-effort: el error queda en el
// store y en el toast, la vista se entrega igual.
func (h *PageHandler) data(c *fiber.Ctx, client *frontend.Client, route guard.Route) any {
	ctx := c.UserContext()
	switch route.Name {
	case guard.RouteVerify:
		ok := client.Auth.VerifyEmail(ctx, c.Params("token"))
		return verifyView{Verified: ok, Error: client.Auth.ErrorMessage()}
	case guard.RouteWorkspaceSetup:
		countries := client.Workspace.Countries()
		if len(countries) == 0 {
			countries = client.Workspace.FetchAvailableCountries(ctx)
		}
		return setupView{
			Countries:          countries,
			SelectedCountry:    client.Workspace.SelectedCountry(),
			HasCompanyDocument: client.Workspace.HasCompanyDocument(),
			Progress:           client.Workspace.SetupProgressPercentage(),
			Validation:         client.Workspace.ValidateSetup(ctx),
		}
	case guard.RouteDashboard:
		if ws := client.Workspace.Workspace(); ws != nil && len(client.Analysis.Analyses()) == 0 {
			if err := client.Analysis.FetchWorkspace(ctx, dto.WorkspaceAnalysesQuery{WorkspaceID: ws.ID}); err != nil {
				h.log.Debug().Err(err).Msg("dashboard sin análisis")
			}
		}
		return dashboardView{
			Analyses:  client.Analysis.Analyses(),
			Last:      client.Analysis.Last(),
			Documents: client.Documents.Stats(),
			Usage:     client.Workspace.Usage(),
		}
	case guard.RouteDocuments:
		if err := client.Documents.Initialize(ctx); err != nil {
			h.log.Debug().Err(err).Msg("documentos sin cargar")
		}
		return documentsView{
			Documents:  client.Documents.Documents(),
			TotalCount: client.Documents.TotalCount(),
			Pagination: client.Documents.Pagination(),
			Filters:    client.Documents.Filters(),
			Stats:      client.Documents.Stats(),
			Selected:   client.Documents.Selected(),
			Error:      client.Documents.ErrorMessage(),
		}
	}
	return nil
}
