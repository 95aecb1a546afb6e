package store

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/application/ports"
	"github.com/bakano/bakano-web/internal/domain"
	"github.com/bakano/bakano-web/internal/domain/entity"
	"github.com/bakano/bakano-web/pkg/logger"
)

// ErrInvalidMessage mensaje vacío o demasiado largo.
var ErrInvalidMessage = &domain.ValidationError{
	Field:   "message",
	Message: "El mensaje debe tener entre 1 y 4000 caracteres",
}

// Respuestas simuladas del chat sobre un documento cuando el agente no responde.
var mockDocumentReplies = []string{
	"Basándome en el análisis del documento, puedo ayudarte con información específica. ¿Qué aspecto te interesa más?",
	"He revisado el contenido del documento. Este análisis muestra varios puntos importantes que podemos discutir.",
	"Según el análisis realizado, hay elementos clave que vale la pena destacar. ¿Te gustaría que profundice en algún tema específico?",
	"El documento presenta información relevante. Puedo explicarte cualquier sección que necesites aclarar.",
	"Basándome en los datos analizados, puedo proporcionarte insights detallados sobre el contenido del documento.",
}

// AgentOptions dependencias del store del agente.
type AgentOptions struct {
	// AllowMockFallback responde con datos simulados cuando el agente falla.
	AllowMockFallback bool
	// NewConversationID genera ids de conversación.
	NewConversationID func() string
	// ValidateMessage valida el mensaje antes de enviarlo.
	ValidateMessage func(string) bool
}

// AgentStore conversaciones armadas en el cliente, insights y estado del LLM.
type AgentStore struct {
	api  ports.AgentGateway
	opts AgentOptions
	log  *logger.Logger
	now  clock

	mu            sync.RWMutex
	conversations []entity.Conversation
	currentID     string
	docInsights   map[string]dto.DocumentInsightsResponse
	cmpInsights   []dto.ComparisonInsightsResponse
	health        *dto.LLMHealth
	loading       int
	sending       int
	lastErr       error
}

func NewAgentStore(api ports.AgentGateway, opts AgentOptions, log *logger.Logger) *AgentStore {
	return &AgentStore{
		api:         api,
		opts:        opts,
		log:         log.Named("agent_store"),
		now:         time.Now,
		docInsights: map[string]dto.DocumentInsightsResponse{},
	}
}

// ── conversaciones ────────────────────────────────────────────────────────────

// CreateConversation crea una conversación activa y la deja como actual.
func (s *AgentStore) CreateConversation(title, analysisID string) entity.Conversation {
	now := s.now()
	c := entity.Conversation{
		ID:         s.opts.NewConversationID(),
		Title:      title,
		Messages:   []entity.ChatMessage{},
		AnalysisID: analysisID,
		CreatedAt:  now,
		UpdatedAt:  now,
		IsActive:   true,
	}
	s.mu.Lock()
	s.conversations = append(s.conversations, c)
	s.currentID = c.ID
	s.mu.Unlock()
	return c.Clone()
}

// SetCurrent no hace nada si el id no existe.
func (s *AgentStore) SetCurrent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.find(id) == nil {
		return false
	}
	s.currentID = id
	return true
}

func (s *AgentStore) AddMessage(conversationID string, msg entity.ChatMessage) bool {
	return s.modify(conversationID, func(c *entity.Conversation) {
		c.Messages = append(c.Messages, msg)
	})
}

func (s *AgentStore) Retitle(conversationID, title string) bool {
	return s.modify(conversationID, func(c *entity.Conversation) { c.Title = title })
}

func (s *AgentStore) Archive(conversationID string) bool {
	return s.modify(conversationID, func(c *entity.Conversation) { c.IsActive = false })
}

// DeleteConversation si era la actual, deja de haber conversación actual.
func (s *AgentStore) DeleteConversation(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.conversations, func(c entity.Conversation) bool { return c.ID == conversationID })
	if i < 0 {
		return false
	}
	s.conversations = slices.Delete(s.conversations, i, i+1)
	if s.currentID == conversationID {
		s.currentID = ""
	}
	return true
}

// modify aplica fn y avanza UpdatedAt.
func (s *AgentStore) modify(conversationID string, fn func(*entity.Conversation)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.find(conversationID)
	if c == nil {
		return false
	}
	fn(c)
	c.Touch(s.now())
	return true
}

// ── chat ──────────────────────────────────────────────────────────────────────

// SendMessage envía un mensaje al agente. Un mensaje inválido se rechaza sin llamar al
// servicio. Si conversationID no está vacío ambos mensajes se agregan a esa
// conversación.
func (s *AgentStore) SendMessage(ctx context.Context, message, conversationID string) (*entity.ChatMessage, error) {
	return s.send(ctx, message, "", conversationID)
}

// SendMessageToDocument igual que SendMessage con el contexto de un análisis. Si el
// agente falla y se permite el fallback responde con un texto simulado.
func (s *AgentStore) SendMessageToDocument(ctx context.Context, message, analysisID, conversationID string) (*entity.ChatMessage, error) {
	return s.send(ctx, message, analysisID, conversationID)
}

func (s *AgentStore) send(ctx context.Context, message, analysisID, conversationID string) (*entity.ChatMessage, error) {
	if !s.opts.ValidateMessage(message) {
		s.fail(ErrInvalidMessage)
		return nil, ErrInvalidMessage
	}
	defer s.track(&s.sending)()

	now := s.now()
	user := entity.ChatMessage{
		ID:         messageID(now, entity.RoleUser),
		Role:       entity.RoleUser,
		Content:    message,
		Timestamp:  now,
		AnalysisID: analysisID,
	}
	if conversationID != "" {
		s.AddMessage(conversationID, user)
	}

	req := dto.ChatRequest{Message: strings.TrimSpace(message), ConversationID: conversationID}
	if req.ConversationID == "" {
		req.ConversationID = s.opts.NewConversationID()
	}

	var (
		resp *dto.ChatResponse
		err  error
	)
	if analysisID == "" {
		resp, err = s.api.Chat(ctx, req)
	} else {
		resp, err = s.api.ChatWithDocument(ctx, analysisID, req)
	}

	var reply entity.ChatMessage
	switch {
	case err == nil:
		reply = resp.AssistantMessage(analysisID, s.now(), s.assistantID)
	case analysisID != "" && s.opts.AllowMockFallback:
		s.log.Warn().Err(err).Str("analysis_id", analysisID).Msg("agente sin respuesta: se genera una respuesta SIMULADA")
		reply = entity.ChatMessage{
			ID:         s.assistantID(),
			Role:       entity.RoleAssistant,
			Content:    mockDocumentReplies[rand.IntN(len(mockDocumentReplies))],
			Timestamp:  s.now(),
			AnalysisID: analysisID,
		}
	default:
		s.log.Error().Err(err).Msg("error enviando mensaje al agente")
		s.fail(err)
		return nil, err
	}

	if conversationID != "" {
		s.AddMessage(conversationID, reply)
	}
	return &reply, nil
}

func (s *AgentStore) assistantID() string {
	return messageID(s.now(), entity.RoleAssistant)
}

// messageID msg_<unix ms>_<rol>_<8 hex>; el sufijo separa mensajes del mismo milisegundo.
func messageID(now time.Time, role string) string {
	return fmt.Sprintf("msg_%d_%s_%s", now.UnixMilli(), role, uuid.NewString()[:8])
}

// ── insights y salud ──────────────────────────────────────────────────────────

func (s *AgentStore) FetchDocumentInsights(ctx context.Context, analysisID string) (*dto.DocumentInsightsResponse, error) {
	defer s.track(&s.loading)()

	in, err := s.api.DocumentInsights(ctx, analysisID)
	if err != nil {
		s.log.Error().Err(err).Str("analysis_id", analysisID).Msg("error obteniendo insights del documento")
		s.fail(err)
		return nil, err
	}
	s.mu.Lock()
	s.docInsights[analysisID] = *in
	s.mu.Unlock()
	return in, nil
}

func (s *AgentStore) FetchComparisonInsights(ctx context.Context, workspaceID string, req dto.ComparisonInsightsRequest) (*dto.ComparisonInsightsResponse, error) {
	defer s.track(&s.loading)()

	in, err := s.api.ComparisonInsights(ctx, workspaceID, req)
	if err != nil {
		s.log.Error().Err(err).Str("workspace_id", workspaceID).Msg("error obteniendo insights de comparación")
		s.fail(err)
		return nil, err
	}
	s.mu.Lock()
	s.cmpInsights = append(s.cmpInsights, *in)
	s.mu.Unlock()
	return in, nil
}

// CheckHealth consulta el estado del LLM. Si la sonda falla y se permite el fallback
// registra un estado saludable simulado.
func (s *AgentStore) CheckHealth(ctx context.Context) (*dto.LLMHealth, error) {
	h, err := s.api.Health(ctx)
	if err != nil {
		if !s.opts.AllowMockFallback {
			s.log.Error().Err(err).Msg("error verificando salud del LLM")
			s.fail(err)
			return nil, err
		}
		s.log.Warn().Err(err).Msg("sonda del LLM falló: se usa un estado saludable SIMULADO")
		mock := dto.DefaultHealth(dto.HealthHealthy, s.now())
		h = &mock
	}
	s.mu.Lock()
	cp := *h
	s.health = &cp
	s.mu.Unlock()
	return h, nil
}

// Initialize consulta la salud del LLM.
func (s *AgentStore) Initialize(ctx context.Context) {
	_, _ = s.CheckHealth(ctx)
}

// Reset olvida conversaciones e insights.
func (s *AgentStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations, s.currentID = nil, ""
	s.docInsights = map[string]dto.DocumentInsightsResponse{}
	s.cmpInsights, s.health = nil, nil
	s.lastErr = nil
}

func (s *AgentStore) ClearError() { s.fail(nil) }

// ── lecturas ──────────────────────────────────────────────────────────────────

func (s *AgentStore) Conversations() []entity.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Conversation, 0, len(s.conversations))
	for i := range s.conversations {
		out = append(out, s.conversations[i].Clone())
	}
	return out
}

func (s *AgentStore) Conversation(id string) (entity.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.find(id)
	if c == nil {
		return entity.Conversation{}, false
	}
	return c.Clone(), true
}

// Current conversación actual; ok=false si no hay.
func (s *AgentStore) Current() (entity.Conversation, bool) {
	s.mu.RLock()
	id := s.currentID
	s.mu.RUnlock()
	if id == "" {
		return entity.Conversation{}, false
	}
	return s.Conversation(id)
}

func (s *AgentStore) Active() []entity.Conversation {
	var out []entity.Conversation
	for _, c := range s.Conversations() {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out
}

// ByAnalysis agrupa por análisis; las conversaciones generales no aparecen.
func (s *AgentStore) ByAnalysis() map[string][]entity.Conversation {
	out := map[string][]entity.Conversation{}
	for _, c := range s.Conversations() {
		if c.AnalysisID != "" {
			out[c.AnalysisID] = append(out[c.AnalysisID], c)
		}
	}
	return out
}

func (s *AgentStore) ForAnalysis(analysisID string) []entity.Conversation {
	return s.ByAnalysis()[analysisID]
}

func (s *AgentStore) InsightsFor(analysisID string) (*dto.DocumentInsightsResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in, ok := s.docInsights[analysisID]
	if !ok {
		return nil, false
	}
	return &in, true
}

func (s *AgentStore) ComparisonInsights() []dto.ComparisonInsightsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.cmpInsights)
}

func (s *AgentStore) Health() *dto.LLMHealth {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.health == nil {
		return nil
	}
	h := *s.health
	return &h
}

func (s *AgentStore) IsHealthy() bool {
	h := s.Health()
	return h != nil && h.Healthy()
}

func (s *AgentStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading > 0
}

func (s *AgentStore) IsSending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sending > 0
}

func (s *AgentStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *AgentStore) ErrorMessage() string { return errString(s.Err()) }

// ── helpers ───────────────────────────────────────────────────────────────────

// find con s.mu tomado.
func (s *AgentStore) find(id string) *entity.Conversation {
	for i := range s.conversations {
		if s.conversations[i].ID == id {
			return &s.conversations[i]
		}
	}
	return nil
}

func (s *AgentStore) track(n *int) func() {
	s.mu.Lock()
	*n++
	s.lastErr = nil
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		*n--
		s.mu.Unlock()
	}
}

func (s *AgentStore) fail(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}
