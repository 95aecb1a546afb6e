package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/domain"
	"github.com/bakano/bakano-web/internal/domain/entity"
)

// AgentHandler conversaciones e insights del agente.
type AgentHandler struct{}

func NewAgentHandler() *AgentHandler {
	return &AgentHandler{}
}

// Conversations godoc
// @Summary      Conversaciones
// @Tags         agent
// @Produce      json
// @Param        analysisId  query  string  false  "solo las de un análisis"
// @Success      200  {object}  ActionResponse
// @Router       /app/agent/conversations [get]
func (h *AgentHandler) Conversations(c *fiber.Ctx) error {
	agent := GetClient(c).Agent
	if id := c.Query("analysisId"); id != "" {
		return ok(c, agent.ForAnalysis(id))
	}
	return ok(c, agent.Conversations())
}

type createConversationBody struct {
	Title      string `json:"title"`
	AnalysisID string `json:"analysisId"`
}

// CreateConversation godoc
// @Summary      Nueva conversación
// @Tags         agent
// @Accept       json
// @Produce      json
// @Success      201  {object}  ActionResponse
// @Router       /app/agent/conversations [post]
func (h *AgentHandler) CreateConversation(c *fiber.Ctx) error {
	var in createConversationBody
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	conv := GetClient(c).Agent.CreateConversation(strings.TrimSpace(in.Title), in.AnalysisID)
	return respond(c, fiber.StatusCreated, conv)
}

// GetConversation godoc
// @Summary      Conversación por id
// @Tags         agent
// @Produce      json
// @Param        id  path  string  true  "id de la conversación"
// @Success      200  {object}  ActionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /app/agent/conversations/{id} [get]
func (h *AgentHandler) GetConversation(c *fiber.Ctx) error {
	conv, found := GetClient(c).Agent.Conversation(c.Params("id"))
	if !found {
		return fail(c, domain.ErrConversationEmpty)
	}
	return ok(c, conv)
}

// conversationAction aplica fn y responde con la conversación resultante.
func conversationAction(c *fiber.Ctx, fn func(id string) bool) error {
	id := c.Params("id")
	if !fn(id) {
		return fail(c, domain.ErrConversationEmpty)
	}
	conv, found := GetClient(c).Agent.Conversation(id)
	if !found {
		return ok(c, nil)
	}
	return ok(c, conv)
}

// SelectConversation godoc
// @Summary      Activar conversación
// @Tags         agent
// @Produce      json
// @Param        id  path  string  true  "id de la conversación"
// @Success      200  {object}  ActionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /app/agent/conversations/{id}/select [post]
func (h *AgentHandler) SelectConversation(c *fiber.Ctx) error {
	return conversationAction(c, GetClient(c).Agent.SetCurrent)
}

type retitleBody struct {
	Title string `json:"title"`
}

// RetitleConversation godoc
// @Summary      Renombrar conversación
// @Tags         agent
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "id de la conversación"
// @Success      200  {object}  ActionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /app/agent/conversations/{id} [patch]
func (h *AgentHandler) RetitleConversation(c *fiber.Ctx) error {
	var in retitleBody
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return invalid(c, "title es requerido")
	}
	agent := GetClient(c).Agent
	return conversationAction(c, func(id string) bool { return agent.Retitle(id, title) })
}

// ArchiveConversation godoc
// @Summary      Archivar conversación
// @Tags         agent
// @Produce      json
// @Param        id  path  string  true  "id de la conversación"
// @Success      200  {object}  ActionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /app/agent/conversations/{id}/archive [post]
func (h *AgentHandler) ArchiveConversation(c *fiber.Ctx) error {
	return conversationAction(c, GetClient(c).Agent.Archive)
}

// DeleteConversation godoc
// @Summary      Eliminar conversación
// @Tags         agent
// @Produce      json
// @Param        id  path  string  true  "id de la conversación"
// @Success      200  {object}  ActionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /app/agent/conversations/{id} [delete]
func (h *AgentHandler) DeleteConversation(c *fiber.Ctx) error {
	return conversationAction(c, GetClient(c).Agent.DeleteConversation)
}

type chatBody struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
	AnalysisID     string `json:"analysisId"`
}

// Chat godoc
// @Summary      Enviar mensaje al agente
// @Description  Con analysisId la conversación usa el contexto de ese análisis.
// @Tags         agent
// @Accept       json
// @Produce      json
// @Success      200  {object}  ActionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /app/agent/chat [post]
func (h *AgentHandler) Chat(c *fiber.Ctx) error {
	var in chatBody
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	agent := GetClient(c).Agent
	ctx := c.UserContext()

	var (
		reply *entity.ChatMessage
		err   error
	)
	if in.AnalysisID != "" {
		reply, err = agent.SendMessageToDocument(ctx, in.Message, in.AnalysisID, in.ConversationID)
	} else {
		reply, err = agent.SendMessage(ctx, in.Message, in.ConversationID)
	}
	if err != nil {
		return fail(c, err)
	}
	out := chatResult{Reply: reply}
	if conv, found := agent.Conversation(in.ConversationID); found {
		out.Conversation = &conv
	}
	return ok(c, out)
}

type chatResult struct {
	Reply        *entity.ChatMessage  `json:"reply"`
	Conversation *entity.Conversation `json:"conversation,omitempty"`
}

// DocumentInsights godoc
// @Summary      Insights del agente sobre un análisis
// @Tags         agent
// @Produce      json
// @Param        analysisId  path  string  true  "id del análisis"
// @Success      200  {object}  ActionResponse
// @Router       /app/agent/insights/document/{analysisId} [get]
func (h *AgentHandler) DocumentInsights(c *fiber.Ctx) error {
	out, err := GetClient(c).Agent.FetchDocumentInsights(c.UserContext(), c.Params("analysisId"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// ComparisonInsights godoc
// @Summary      Insights de comparación
// @Tags         agent
// @Accept       json
// @Produce      json
// @Param        workspaceId  path  string                         true  "id del workspace"
// @Param        body         body  dto.ComparisonInsightsRequest  true  "analysisIds, comparisonType"
// @Success      200  {object}  ActionResponse
// @Router       /app/agent/insights/comparison/{workspaceId} [post]
func (h *AgentHandler) ComparisonInsights(c *fiber.Ctx) error {
	var in dto.ComparisonInsightsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.ComparisonType == "" {
		in.ComparisonType = dto.ComparisonGeneral
	}
	out, err := GetClient(c).Agent.FetchComparisonInsights(c.UserContext(), c.Params("workspaceId"), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// Health godoc
// @Summary      Estado del servicio LLM
// @Tags         agent
// @Produce      json
// @Success      200  {object}  ActionResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /app/agent/health [get]
func (h *AgentHandler) Health(c *fiber.Ctx) error {
	out, err := GetClient(c).Agent.CheckHealth(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}
