package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/application/frontend"
	"github.com/bakano/bakano-web/internal/application/store"
)

// AuthHandler acciones de sesión del navegador.
type AuthHandler struct {
	registry *frontend.Registry
	session  SessionConfig
}

// NewAuthHandler construye el handler de auth. Login y registro rotan la cookie de
// sesión del registro.
func NewAuthHandler(reg *frontend.Registry, cfg SessionConfig) *AuthHandler {
	return &AuthHandler{registry: reg, session: cfg.withDefaults()}
}

// rotate emite un id de sesión nuevo; el que traía el navegador deja de servir.
func (h *AuthHandler) rotate(c *fiber.Ctx, client *frontend.Client) error {
	sid, err := h.registry.Rotate(c.UserContext(), client)
	if err != nil {
		return err
	}
	setSessionCookie(c, h.session, sid)
	return nil
}

// Session godoc
// @Summary      Estado de la sesión
// @Tags         auth
// @Produce      json
// @Success      200  {object}  ActionResponse
// @Router       /app/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	client := GetClient(c)
	client.Auth.Initialize(c.UserContext())
	return ok(c, client.Auth.SessionInfo())
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "name, email, password, companyName, country"
// @Success      201   {object}  ActionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /app/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return invalid(c, "nombre, email y password son requeridos")
	}
	client := GetClient(c)
	if err := client.Auth.Register(c.UserContext(), in); err != nil {
		return fail(c, err)
	}
	if err := h.rotate(c, client); err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, nil)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  ActionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /app/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		return invalid(c, "email y password son requeridos")
	}
	client := GetClient(c)
	if err := client.Auth.Login(c.UserContext(), in); err != nil {
		return fail(c, err)
	}
	if err := h.rotate(c, client); err != nil {
		return fail(c, err)
	}
	return ok(c, client.Auth.SessionInfo())
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Produce      json
// @Success      200  {object}  ActionResponse
// @Router       /app/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	GetClient(c).Auth.Logout(c.UserContext())
	return ok(c, nil)
}

// Refresh godoc
// @Summary      Revalidar el token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  ActionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /app/auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	client := GetClient(c)
	if err := client.Auth.RefreshToken(c.UserContext()); err != nil {
		return fail(c, err)
	}
	return ok(c, client.Auth.SessionInfo())
}

// VerifyEmail godoc
// @Summary      Verificar email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyEmailRequest  true  "token"
// @Success      200   {object}  ActionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /app/auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var in dto.VerifyEmailRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Token == "" {
		return invalid(c, "token requerido")
	}
	client := GetClient(c)
	if !client.Auth.VerifyEmail(c.UserContext(), in.Token) {
		return fail(c, client.Auth.Err())
	}
	return ok(c, fiber.Map{"verified": true})
}

type updateUserBody struct {
	Name        *string `json:"name"`
	CompanyName *string `json:"companyName"`
	Country     *string `json:"country"`
}

// UpdateUser godoc
// @Summary      Actualizar datos del usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200   {object}  ActionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /app/auth/user [patch]
func (h *AuthHandler) UpdateUser(c *fiber.Ctx) error {
	var in updateUserBody
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	client := GetClient(c)
	err := client.Auth.UpdateUserData(c.UserContext(), store.UserUpdate{
		Name:        in.Name,
		CompanyName: in.CompanyName,
		Country:     in.Country,
	})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, client.Auth.User())
}
