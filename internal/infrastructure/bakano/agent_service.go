package bakano

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/application/ports"
	"github.com/bakano/bakano-web/internal/infrastructure/apiclient"
	"github.com/bakano/bakano-web/pkg/logger"
)

var _ ports.AgentGateway = (*AgentService)(nil)

const (
	agentEndpoint = "agent"

	// MaxMessageLength largo máximo de un mensaje, medido tras recortar espacios.
	MaxMessageLength = 4000
)

// AgentService chat e insights del agente LLM.
type AgentService struct {
	api *apiclient.Client
	log *logger.Logger
	now func() time.Time
}

func NewAgentService(api *apiclient.Client, log *logger.Logger) *AgentService {
	return &AgentService{api: api, log: log.Named("agent_service"), now: time.Now}
}

// Chat conversación general con el agente.
func (s *AgentService) Chat(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error) {
	var out dto.ChatResponse
	if err := s.api.Post(ctx, agentEndpoint+"/chat", req, &out); err != nil {
		return nil, friendly(s.log, err, "Error al comunicarse con el agente AI")
	}
	return &out, nil
}

// ChatWithDocument conversación con el contexto de un análisis.
func (s *AgentService) ChatWithDocument(ctx context.Context, analysisID string, req dto.ChatRequest) (*dto.ChatResponse, error) {
	var out dto.ChatResponse
	path := agentEndpoint + "/chat/document/" + url.PathEscape(analysisID)
	if err := s.api.Post(ctx, path, req, &out); err != nil {
		return nil, friendly(s.log, err, "Error al comunicarse con el agente sobre el documento")
	}
	return &out, nil
}

func (s *AgentService) DocumentInsights(ctx context.Context, analysisID string) (*dto.DocumentInsightsResponse, error) {
	var out dto.DocumentInsightsResponse
	path := agentEndpoint + "/insights/document/" + url.PathEscape(analysisID)
	if err := s.api.Get(ctx, path, nil, &out); err != nil {
		return nil, friendly(s.log, err, "Error al obtener insights del documento")
	}
	return &out, nil
}

func (s *AgentService) ComparisonInsights(ctx context.Context, workspaceID string, req dto.ComparisonInsightsRequest) (*dto.ComparisonInsightsResponse, error) {
	var out dto.ComparisonInsightsResponse
	path := agentEndpoint + "/insights/comparison/" + url.PathEscape(workspaceID)
	if err := s.api.Post(ctx, path, req, &out); err != nil {
		return nil, friendly(s.log, err, "Error al obtener insights de comparación")
	}
	return &out, nil
}

// Health sonda del servicio LLM; acepta el envoltorio {success, health} o la forma directa.
func (s *AgentService) Health(ctx context.Context) (*dto.LLMHealth, error) {
	var raw json.RawMessage
	if err := s.api.Get(ctx, agentEndpoint+"/health", nil, &raw); err != nil {
		return nil, friendly(s.log, err, "Error al verificar el estado del servicio")
	}
	h, err := dto.DecodeHealth(raw, s.now())
	if err != nil {
		return nil, friendly(s.log, err, "Error al verificar el estado del servicio")
	}
	return &h, nil
}

// NewConversationID conv_<unix ms>_<9 caracteres base36 aleatorios>.
func NewConversationID() string {
	return fmt.Sprintf("conv_%d_%s", time.Now().UnixMilli(), randomBase36(9))
}

// FormatMessage recorta el mensaje y asegura un id de conversación.
func FormatMessage(content, conversationID string) dto.ChatRequest {
	if conversationID == "" {
		conversationID = NewConversationID()
	}
	return dto.ChatRequest{Message: strings.TrimSpace(content), ConversationID: conversationID}
}

// ValidateMessage no vacío y a lo sumo MaxMessageLength caracteres tras recortar.
func ValidateMessage(msg string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(msg))
	return n > 0 && n <= MaxMessageLength
}

func randomBase36(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// sin entropía: caemos al reloj, suficiente para una sesión
		s := strconv.FormatInt(time.Now().UnixNano(), 36)
		for len(s) < n {
			s = "0" + s
		}
		return s[len(s)-n:]
	}
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out)
}
