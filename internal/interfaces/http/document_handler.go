package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/application/ui"
	"github.com/bakano/bakano-web/internal/domain"
	"github.com/bakano/bakano-web/internal/domain/entity"
)

// defaultConfirmTimeout espera máxima por la respuesta del diálogo de confirmación.
const defaultConfirmTimeout = 5 * time.Minute

// DocumentHandler acciones sobre los documentos del workspace.
type DocumentHandler struct {
	confirmTimeout time.Duration
}

// NewDocumentHandler confirmTimeout <= 0 usa el valor por defecto.
func NewDocumentHandler(confirmTimeout time.Duration) *DocumentHandler {
	if confirmTimeout <= 0 {
		confirmTimeout = defaultConfirmTimeout
	}
	return &DocumentHandler{confirmTimeout: confirmTimeout}
}

type documentList struct {
	Documents  []entity.Document `json:"documents"`
	TotalCount int               `json:"totalCount"`
	Pagination *dto.Pagination   `json:"pagination,omitempty"`
	Filters    dto.DocumentQuery `json:"filters"`
	Stats      dto.DocumentStats `json:"stats"`
	Selected   []string          `json:"selected"`
}

func documentState(c *fiber.Ctx) documentList {
	docs := GetClient(c).Documents
	return documentList{
		Documents:  docs.Documents(),
		TotalCount: docs.TotalCount(),
		Pagination: docs.Pagination(),
		Filters:    docs.Filters(),
		Stats:      docs.Stats(),
		Selected:   docs.Selected(),
	}
}

// List godoc
// @Summary      Listar documentos
// @Tags         documents
// @Produce      json
// @Param        page       query  int     false  "página"
// @Param        limit      query  int     false  "tamaño de página"
// @Param        type       query  string  false  "contract, pliego, propuesta, constitution, other"
// @Param        search     query  string  false  "texto a buscar"
// @Param        sortBy     query  string  false  "name, uploadedAt, size"
// @Param        sortOrder  query  string  false  "asc, desc"
// @Success      200  {object}  ActionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /app/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	var q dto.DocumentQuery
	if err := c.QueryParser(&q); err != nil {
		return invalid(c, "parámetros de búsqueda inválidos")
	}
	if err := GetClient(c).Documents.Fetch(c.UserContext(), q); err != nil {
		return fail(c, err)
	}
	return ok(c, documentState(c))
}

// Upload godoc
// @Summary      Subir documento
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file         formData  file    true   "documento"
// @Param        type         formData  string  true   "tipo de documento"
// @Param        title        formData  string  false  "título"
// @Param        description  formData  string  false  "descripción"
// @Success      201  {object}  ActionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /app/documents [post]
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	file, err := formFile(c, "file")
	if err != nil {
		return invalid(c, err.Error())
	}
	docType := entity.DocumentType(c.FormValue("type"))
	if docType == "" {
		docType = entity.DocumentOther
	}
	doc, err := GetClient(c).Documents.Upload(c.UserContext(), dto.UploadDocumentRequest{
		File:        file,
		Type:        docType,
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
	})
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, doc)
}

// Update godoc
// @Summary      Editar documento
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "id del documento"
// @Param        body  body  dto.UpdateDocumentRequest  true  "name, description, type"
// @Success      200   {object}  ActionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /app/documents/{id} [put]
func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	doc, err := GetClient(c).Documents.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, doc)
}

// Delete godoc
// @Summary      Eliminar documento
// @Tags         documents
// @Produce      json
// @Param        id  path  string  true  "id del documento"
// @Success      200  {object}  ActionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /app/documents/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	if err := GetClient(c).Documents.Delete(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return ok(c, documentState(c))
}

// Download godoc
// @Summary      Descargar documento
// @Tags         documents
// @Produce      application/octet-stream
// @Param        id  path  string  true  "id del documento"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /app/documents/{id}/download [get]
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	blob, name, err := GetClient(c).Documents.Download(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	c.Attachment(name)
	if blob.ContentType != "" {
		c.Set(fiber.HeaderContentType, blob.ContentType)
	}
	return c.Send(blob.Content)
}

// Preview godoc
// @Summary      URL de vista previa
// @Tags         documents
// @Produce      json
// @Param        id  path  string  true  "id del documento"
// @Success      200  {object}  ActionResponse
// @Router       /app/documents/{id}/preview [get]
func (h *DocumentHandler) Preview(c *fiber.Ctx) error {
	url, err := GetClient(c).Documents.Preview(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, dto.PreviewResponse{PreviewURL: url})
}

type selectionBody struct {
	Action string `json:"action"` // toggle, all, clear
	ID     string `json:"id"`
}

// Select godoc
// @Summary      Cambiar la selección
// @Tags         documents
// @Accept       json
// @Produce      json
// @Success      200  {object}  ActionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /app/documents/selection [post]
func (h *DocumentHandler) Select(c *fiber.Ctx) error {
	var in selectionBody
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	docs := GetClient(c).Documents
	switch in.Action {
	case "toggle":
		if in.ID == "" {
			return invalid(c, "id es requerido")
		}
		docs.ToggleSelection(in.ID)
	case "all":
		docs.SelectAll()
	case "clear":
		docs.ClearSelection()
	default:
		return invalid(c, "action debe ser toggle, all o clear")
	}
	return ok(c, docs.Selected())
}

// DeleteSelected godoc
// @Summary      Eliminar los documentos seleccionados
// @Description  Abre el diálogo de confirmación y espera su respuesta (POST /app/ui/dialog/confirm o cancel).
// @Tags         documents
// @Produce      json
// @Success      200  {object}  ActionResponse
// @Failure      409  {object}  dto.ErrorResponse  "cancelado"
// @Router       /app/documents/selection [delete]
func (h *DocumentHandler) DeleteSelected(c *fiber.Ctx) error {
	client := GetClient(c)
	selected := client.Documents.Selected()
	if len(selected) == 0 {
		return ok(c, documentState(c))
	}

	result := client.Dialog.Reveal(ui.DialogOptions{
		Title:   "Eliminar documentos",
		Message: fmt.Sprintf("¿Seguro que deseas eliminar %d documentos? Esta acción no se puede deshacer.", len(selected)),
	})
	// fasthttp no avisa si el navegador se desconecta: una confirmación abandonada se
	// libera por el timeout, por un nuevo Reveal o con /app/ui/dialog/cancel.
	timeout := time.NewTimer(h.confirmTimeout)
	defer timeout.Stop()

	var confirmed bool
	select {
	case r := <-result:
		confirmed = r.Confirmed
	case <-c.Context().Done(): // apagado del servidor
		client.Dialog.Cancel()
	case <-timeout.C:
		client.Dialog.Cancel()
	}
	if !confirmed {
		return fail(c, domain.ErrDialogCancelled)
	}

	if err := client.Documents.DeleteSelected(c.UserContext()); err != nil {
		return fail(c, err)
	}
	return ok(c, documentState(c))
}
