package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/domain/entity"
)

// WorkspaceHandler acciones sobre el workspace del usuario.
type WorkspaceHandler struct{}

func NewWorkspaceHandler() *WorkspaceHandler {
	return &WorkspaceHandler{}
}

type workspaceView struct {
	Workspace          *entity.Workspace `json:"workspace"`
	Info               dto.WorkspaceInfo `json:"info"`
	IsOwner            bool              `json:"isOwner"`
	CanManageWorkspace bool              `json:"canManageWorkspace"`
}

func workspaceState(c *fiber.Ctx) workspaceView {
	ws := GetClient(c).Workspace
	return workspaceView{
		Workspace:          ws.Workspace(),
		Info:               ws.Info(),
		IsOwner:            ws.IsOwner(),
		CanManageWorkspace: ws.CanManageWorkspace(),
	}
}

// Get godoc
// @Summary      Workspace del usuario
// @Description  Inicializa el workspace la primera vez.
// @Tags         workspace
// @Produce      json
// @Success      200  {object}  ActionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /app/workspace [get]
func (h *WorkspaceHandler) Get(c *fiber.Ctx) error {
	if err := GetClient(c).Workspace.Initialize(c.UserContext()); err != nil {
		return fail(c, err)
	}
	return ok(c, workspaceState(c))
}

// Refresh godoc
// @Summary      Recargar workspace
// @Tags         workspace
// @Produce      json
// @Success      200  {object}  ActionResponse
// @Router       /app/workspace/refresh [post]
func (h *WorkspaceHandler) Refresh(c *fiber.Ctx) error {
	if err := GetClient(c).Workspace.Fetch(c.UserContext()); err != nil {
		return fail(c, err)
	}
	return ok(c, workspaceState(c))
}

// UpdateCountry godoc
// @Summary      Elegir país
// @Tags         workspace
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateCountryRequest  true  "country"
// @Success      200   {object}  ActionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /app/workspace/country [put]
func (h *WorkspaceHandler) UpdateCountry(c *fiber.Ctx) error {
	var in dto.UpdateCountryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Country == "" {
		return invalid(c, "country es requerido")
	}
	if err := GetClient(c).Workspace.UpdateCountry(c.UserContext(), in.Country); err != nil {
		return fail(c, err)
	}
	return ok(c, workspaceState(c))
}

// UploadDocument godoc
// @Summary      Subir documento de la empresa
// @Tags         workspace
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "documento"
// @Success      200   {object}  ActionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /app/workspace/document [post]
func (h *WorkspaceHandler) UploadDocument(c *fiber.Ctx) error {
	file, err := formFile(c, "file")
	if err != nil {
		return invalid(c, err.Error())
	}
	if err := GetClient(c).Workspace.UploadCompanyDocument(c.UserContext(), file); err != nil {
		return fail(c, err)
	}
	return ok(c, workspaceState(c))
}

// CompleteSetup godoc
// @Summary      Completar configuración
// @Tags         workspace
// @Produce      json
// @Success      200  {object}  ActionResponse
// @Router       /app/workspace/complete-setup [put]
func (h *WorkspaceHandler) CompleteSetup(c *fiber.Ctx) error {
	if err := GetClient(c).Workspace.CompleteSetup(c.UserContext()); err != nil {
		return fail(c, err)
	}
	return ok(c, workspaceState(c))
}

// UpdateSettings godoc
// @Summary      Actualizar configuración
// @Tags         workspace
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateSettingsRequest  true  "settings parciales"
// @Success      200   {object}  ActionResponse
// @Router       /app/workspace/settings [patch]
func (h *WorkspaceHandler) UpdateSettings(c *fiber.Ctx) error {
	var in dto.UpdateSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if len(in.Settings) == 0 {
		return invalid(c, "settings es requerido")
	}
	if err := GetClient(c).Workspace.UpdateSettings(c.UserContext(), in.Settings); err != nil {
		return fail(c, err)
	}
	return ok(c, workspaceState(c))
}

// UpdateData godoc
// @Summary      Actualizar nombre o estado
// @Tags         workspace
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateWorkspaceDataRequest  true  "name, status"
// @Success      200   {object}  ActionResponse
// @Router       /app/workspace [patch]
func (h *WorkspaceHandler) UpdateData(c *fiber.Ctx) error {
	var in dto.UpdateWorkspaceDataRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := GetClient(c).Workspace.UpdateData(c.UserContext(), in); err != nil {
		return fail(c, err)
	}
	return ok(c, workspaceState(c))
}

// Countries godoc
// @Summary      Países disponibles
// @Tags         workspace
// @Produce      json
// @Success      200  {object}  ActionResponse
// @Router       /app/workspace/countries [get]
func (h *WorkspaceHandler) Countries(c *fiber.Ctx) error {
	return ok(c, GetClient(c).Workspace.FetchAvailableCountries(c.UserContext()))
}

// SetupProgress godoc
// @Summary      Progreso de configuración
// @Tags         workspace
// @Produce      json
// @Success      200  {object}  ActionResponse
// @Router       /app/workspace/setup-progress [get]
func (h *WorkspaceHandler) SetupProgress(c *fiber.Ctx) error {
	ws := GetClient(c).Workspace
	server := ws.FetchSetupProgress(c.UserContext())
	return ok(c, fiber.Map{
		"local":  ws.SetupProgressPercentage(),
		"server": server,
	})
}

// ValidateSetup godoc
// @Summary      Validar configuración
// @Tags         workspace
// @Produce      json
// @Success      200  {object}  ActionResponse
// @Router       /app/workspace/validate-setup [get]
func (h *WorkspaceHandler) ValidateSetup(c *fiber.Ctx) error {
	return ok(c, GetClient(c).Workspace.ValidateSetup(c.UserContext()))
}
