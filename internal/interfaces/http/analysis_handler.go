package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/application/store"
	"github.com/bakano/bakano-web/internal/domain/entity"
)

// AnalysisHandler análisis y comparaciones de documentos.
type AnalysisHandler struct{}

func NewAnalysisHandler() *AnalysisHandler {
	return &AnalysisHandler{}
}

// workspaceID el indicado o, si falta, el del workspace cargado.
func workspaceID(c *fiber.Ctx, given string) string {
	if given != "" {
		return given
	}
	if ws := GetClient(c).Workspace.Workspace(); ws != nil {
		return ws.ID
	}
	return ""
}

type analysisList struct {
	Analyses     []entity.DocumentAnalysis   `json:"analyses"`
	Pagination   *dto.AnalysisPagination     `json:"pagination,omitempty"`
	Completed    int                         `json:"completed"`
	Processing   int                         `json:"processing"`
	Failed       int                         `json:"failed"`
	StatusConfig map[string]dto.StatusConfig `json:"statusConfig"`
	Current      *entity.DocumentAnalysis    `json:"current,omitempty"`
}

func analysisState(c *fiber.Ctx) analysisList {
	a := GetClient(c).Analysis
	return analysisList{
		Analyses:   a.Analyses(),
		Pagination: a.Pagination(),
		Completed:  len(a.Completed()),
		Processing: len(a.Processing()),
		Failed:     len(a.Failed()),
		StatusConfig: map[string]dto.StatusConfig{
			entity.AnalysisCompleted:  store.StatusConfig(entity.AnalysisCompleted),
			entity.AnalysisProcessing: store.StatusConfig(entity.AnalysisProcessing),
			entity.AnalysisFailed:     store.StatusConfig(entity.AnalysisFailed),
		},
		Current: a.Current(),
	}
}

// Analyze godoc
// @Summary      Analizar un archivo
// @Tags         analyses
// @Accept       multipart/form-data
// @Produce      json
// @Param        file          formData  file    true   "documento"
// @Param        workspaceId   formData  string  false  "workspace; por defecto el cargado"
// @Param        documentType  formData  string  true   "tipo de documento"
// @Success      201  {object}  ActionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /app/analyses [post]
func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	file, err := formFile(c, "file")
	if err != nil {
		return invalid(c, err.Error())
	}
	req := dto.AnalyzeDocumentRequest{
		WorkspaceID:  workspaceID(c, c.FormValue("workspaceId")),
		DocumentType: c.FormValue("documentType"),
		File:         file,
	}
	if req.WorkspaceID == "" || req.DocumentType == "" {
		return invalid(c, "workspaceId y documentType son requeridos")
	}
	a, err := GetClient(c).Analysis.Analyze(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, a)
}

// AnalyzeByURL godoc
// @Summary      Analizar un documento publicado
// @Tags         analyses
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AnalyzeByURLRequest  true  "workspaceId, documentType, documentUrl, documentName"
// @Success      201  {object}  ActionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /app/analyses/url [post]
func (h *AnalysisHandler) AnalyzeByURL(c *fiber.Ctx) error {
	var in dto.AnalyzeByURLRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.WorkspaceID = workspaceID(c, in.WorkspaceID)
	if in.WorkspaceID == "" || in.DocumentURL == "" {
		return invalid(c, "workspaceId y documentUrl son requeridos")
	}
	a, err := GetClient(c).Analysis.AnalyzeByURL(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, a)
}

// List godoc
// @Summary      Análisis del workspace
// @Description  page 1 (o sin page) reemplaza la lista; las siguientes páginas se agregan.
// @Tags         analyses
// @Produce      json
// @Param        workspaceId   query  string  false  "workspace; por defecto el cargado"
// @Param        page          query  int     false  "página"
// @Param        limit         query  int     false  "tamaño de página"
// @Param        documentType  query  string  false  "tipo de documento"
// @Param        status        query  string  false  "processing, completed, failed"
// @Success      200  {object}  ActionResponse
// @Router       /app/analyses [get]
func (h *AnalysisHandler) List(c *fiber.Ctx) error {
	var q dto.WorkspaceAnalysesQuery
	if err := c.QueryParser(&q); err != nil {
		return invalid(c, "parámetros de búsqueda inválidos")
	}
	q.WorkspaceID = workspaceID(c, c.Query("workspaceId"))
	if q.WorkspaceID == "" {
		return invalid(c, "workspaceId es requerido")
	}
	if err := GetClient(c).Analysis.FetchWorkspace(c.UserContext(), q); err != nil {
		return fail(c, err)
	}
	return ok(c, analysisState(c))
}

// Get godoc
// @Summary      Análisis por id
// @Tags         analyses
// @Produce      json
// @Param        id  path  string  true  "id del análisis"
// @Success      200  {object}  ActionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /app/analyses/{id} [get]
func (h *AnalysisHandler) Get(c *fiber.Ctx) error {
	a, err := GetClient(c).Analysis.FetchByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, a)
}

// Insights godoc
// @Summary      Insights del análisis
// @Tags         analyses
// @Produce      json
// @Param        id     path   string  true   "id del análisis"
// @Param        focus  query  string  false  "enfoque"
// @Success      200  {object}  ActionResponse
// @Router       /app/analyses/{id}/insights [get]
func (h *AnalysisHandler) Insights(c *fiber.Ctx) error {
	in, err := GetClient(c).Analysis.FetchInsights(c.UserContext(), c.Params("id"), c.Query("focus"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, in)
}

// Technical godoc
// @Summary      Análisis técnico
// @Tags         analyses
// @Produce      json
// @Param        id        path   string  true   "id del análisis"
// @Param        question  query  string  false  "pregunta"
// @Success      200  {object}  ActionResponse
// @Router       /app/analyses/{id}/technical [get]
func (h *AnalysisHandler) Technical(c *fiber.Ctx) error {
	t, err := GetClient(c).Analysis.FetchTechnical(c.UserContext(), c.Params("id"), c.Query("question"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, t)
}

// Compare godoc
// @Summary      Comparar documentos
// @Tags         analyses
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CompareRequest  true  "workspaceId, documentIds"
// @Success      200  {object}  ActionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /app/analyses/compare [post]
func (h *AnalysisHandler) Compare(c *fiber.Ctx) error {
	var in dto.CompareRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.WorkspaceID = workspaceID(c, in.WorkspaceID)
	if len(in.DocumentIDs) < 2 {
		return invalid(c, "se necesitan al menos dos documentos")
	}
	cmp, err := GetClient(c).Analysis.Compare(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, cmp)
}

// UploadAndCompare godoc
// @Summary      Subir y comparar documentos
// @Tags         analyses
// @Accept       multipart/form-data
// @Produce      json
// @Param        documents     formData  file    true   "documentos (varios)"
// @Param        workspaceId   formData  string  false  "workspace; por defecto el cargado"
// @Param        documentType  formData  string  true   "tipo de documento"
// @Success      200  {object}  ActionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /app/analyses/upload-and-compare [post]
func (h *AnalysisHandler) UploadAndCompare(c *fiber.Ctx) error {
	files, err := formFiles(c, "documents")
	if err != nil {
		return invalid(c, err.Error())
	}
	if len(files) < 2 {
		return invalid(c, "se necesitan al menos dos documentos")
	}
	cmp, err := GetClient(c).Analysis.UploadAndCompare(c.UserContext(), dto.UploadAndCompareRequest{
		WorkspaceID:  workspaceID(c, c.FormValue("workspaceId")),
		DocumentType: c.FormValue("documentType"),
		Files:        files,
	})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, cmp)
}

// RemoveLocal godoc
// @Summary      Quitar un análisis de la lista local
// @Tags         analyses
// @Produce      json
// @Param        id  path  string  true  "id del análisis"
// @Success      200  {object}  ActionResponse
// @Router       /app/analyses/{id} [delete]
func (h *AnalysisHandler) RemoveLocal(c *fiber.Ctx) error {
	GetClient(c).Analysis.RemoveLocal(c.Params("id"))
	return ok(c, analysisState(c))
}

type statusBody struct {
	Status string `json:"status"`
}

// UpdateStatus godoc
// @Summary      Cambiar el estado local de un análisis
// @Tags         analyses
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "id del análisis"
// @Success      200  {object}  ActionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /app/analyses/{id}/status [patch]
func (h *AnalysisHandler) UpdateStatus(c *fiber.Ctx) error {
	var in statusBody
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	switch in.Status {
	case entity.AnalysisProcessing, entity.AnalysisCompleted, entity.AnalysisFailed:
	default:
		return invalid(c, "status debe ser processing, completed o failed")
	}
	GetClient(c).Analysis.UpdateLocalStatus(c.Params("id"), in.Status)
	return ok(c, analysisState(c))
}
