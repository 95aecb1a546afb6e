package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/application/ui"
)

// UIHandler estado efímero de la interfaz: toast y diálogo de confirmación.
type UIHandler struct{}

func NewUIHandler() *UIHandler {
	return &UIHandler{}
}

// Toast godoc
// @Summary      Toast vigente
// @Tags         ui
// @Produce      json
// @Success      200  {object}  ui.ToastState
// @Router       /app/ui/toast [get]
func (h *UIHandler) Toast(c *fiber.Ctx) error {
	return c.JSON(GetClient(c).Toast.State())
}

// Dialog godoc
// @Summary      Diálogo de confirmación
// @Tags         ui
// @Produce      json
// @Success      200  {object}  ui.DialogState
// @Router       /app/ui/dialog [get]
func (h *UIHandler) Dialog(c *fiber.Ctx) error {
	return c.JSON(GetClient(c).Dialog.State())
}

type dialogInputBody struct {
	Text  *string `json:"text"`
	Value *string `json:"value"`
}

// DialogInput godoc
// @Summary      Escribir o elegir en el diálogo
// @Description  text es el texto de confirmación; value la opción elegida.
// @Tags         ui
// @Accept       json
// @Produce      json
// @Success      200  {object}  ui.DialogState
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /app/ui/dialog/input [post]
func (h *UIHandler) DialogInput(c *fiber.Ctx) error {
	var in dialogInputBody
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	d := GetClient(c).Dialog
	if in.Text != nil {
		if err := d.SetInput(*in.Text); err != nil {
			return dialogError(c, err)
		}
	}
	if in.Value != nil {
		if err := d.Select(*in.Value); err != nil {
			return dialogError(c, err)
		}
	}
	return c.JSON(d.State())
}

// Confirm godoc
// @Summary      Confirmar el diálogo
// @Tags         ui
// @Produce      json
// @Success      200  {object}  ui.DialogState
// @Failure      409  {object}  dto.ErrorResponse  "la confirmación no se cumple"
// @Router       /app/ui/dialog/confirm [post]
func (h *UIHandler) Confirm(c *fiber.Ctx) error {
	d := GetClient(c).Dialog
	if !d.Confirm() {
		return dialogError(c, errors.New("la confirmación no se cumple"))
	}
	return c.JSON(d.State())
}

// Cancel godoc
// @Summary      Cancelar el diálogo
// @Tags         ui
// @Produce      json
// @Success      200  {object}  ui.DialogState
// @Router       /app/ui/dialog/cancel [post]
func (h *UIHandler) Cancel(c *fiber.Ctx) error {
	d := GetClient(c).Dialog
	d.Cancel()
	return c.JSON(d.State())
}

func dialogError(c *fiber.Ctx, err error) error {
	status := fiber.StatusConflict
	if errors.Is(err, ui.ErrUnknownOption) {
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: "DIALOG", Message: err.Error()})
}
