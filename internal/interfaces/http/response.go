package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/application/ui"
	"github.com/bakano/bakano-web/internal/domain"
)

// ActionResponse respuesta de una acción: el resultado, la ruta a la que el store
// decidió navegar y el toast vigente.
type ActionResponse struct {
	Data     any            `json:"data,omitempty"`
	Redirect string         `json:"redirect,omitempty"`
	Toast    *ui.ToastState `json:"toast,omitempty"`
}

// ok responde 200 con data y el estado de navegación/toast del navegador.
func ok(c *fiber.Ctx, data any) error {
	return respond(c, fiber.StatusOK, data)
}

func respond(c *fiber.Ctx, status int, data any) error {
	out := ActionResponse{Data: data}
	if client := GetClient(c); client != nil {
		out.Redirect = client.Navigator.Take()
		if st := client.Toast.State(); st.Visible {
			out.Toast = &st
		}
	}
	return c.Status(status).JSON(out)
}

// fail traduce err al cuerpo de error. Los errores de la API conservan su status.
func fail(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	msg := err.Error()
	if msg == "" {
		msg = domain.UnknownErrorMessage
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func classify(err error) (int, string) {
	switch {
	case domain.IsValidation(err):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrDialogCancelled):
		return fiber.StatusConflict, "CANCELLED"
	case errors.Is(err, domain.ErrTokenExpired):
		return fiber.StatusUnauthorized, "TOKEN_EXPIRED"
	case errors.Is(err, domain.ErrDocumentNotFound),
		errors.Is(err, domain.ErrConversationEmpty),
		errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case domain.IsNetworkError(err):
		return fiber.StatusBadGateway, "UPSTREAM_UNAVAILABLE"
	}
	if s := domain.StatusOf(err); s >= 400 && s <= 599 {
		return s, "UPSTREAM_ERROR"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func invalid(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
}
