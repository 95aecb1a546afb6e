package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bakano/bakano-web/internal/domain/entity"
)

// FallbackReply texto cuando la respuesta del agente no trae contenido.
const FallbackReply = "Respuesta recibida"

// Estados de salud del servicio LLM.
const (
	HealthHealthy   = "healthy"
	HealthDegraded  = "degraded"
	HealthUnhealthy = "unhealthy"
)

// ChatRequest cuerpo de agent/chat.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId,omitempty"`
}

// ChatMetadata datos opcionales de consumo.
type ChatMetadata struct {
	TokensUsed     int     `json:"tokensUsed,omitempty"`
	ProcessingTime float64 `json:"processingTime,omitempty"`
	Confidence     float64 `json:"confidence,omitempty"`
}

// ChatResponse respuesta del agente. Versiones anteriores del backend devuelven el
// texto en "content" en lugar de "message"; ambas formas se aceptan.
type ChatResponse struct {
	ID             string        `json:"id"`
	Message        string        `json:"message"`
	Content        string        `json:"content"`
	ConversationID string        `json:"conversationId"`
	Timestamp      string        `json:"timestamp"`
	Metadata       *ChatMetadata `json:"metadata,omitempty"`
}

// Text devuelve message, luego content y por último el texto genérico.
func (r ChatResponse) Text() string {
	switch {
	case r.Message != "":
		return r.Message
	case r.Content != "":
		return r.Content
	default:
		return FallbackReply
	}
}

// AssistantMessage normaliza la respuesta a un mensaje del asistente.
// newID se usa si el backend no devolvió id; now si el timestamp falta o no se puede leer.
func (r ChatResponse) AssistantMessage(analysisID string, now time.Time, newID func() string) entity.ChatMessage {
	id := r.ID
	if id == "" {
		id = newID()
	}
	ts := now
	if r.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, r.Timestamp); err == nil {
			ts = parsed
		}
	}
	return entity.ChatMessage{
		ID:         id,
		Role:       entity.RoleAssistant,
		Content:    r.Text(),
		Timestamp:  ts,
		AnalysisID: analysisID,
	}
}

// DocumentInsightsResponse respuesta de agent/insights/document/{id}.
type DocumentInsightsResponse struct {
	AnalysisID    string                   `json:"analysisId"`
	Insights      []entity.DocumentInsight `json:"insights"`
	TotalInsights int                      `json:"totalInsights"`
	LastUpdated   time.Time                `json:"lastUpdated"`
}

// Tipos de comparación soportados por el agente.
const (
	ComparisonRiskAssessment   = "risk_assessment"
	ComparisonFinancial        = "financial_comparison"
	ComparisonLegalDifferences = "legal_differences"
	ComparisonGeneral          = "general"
)

// ComparisonInsightsRequest cuerpo de agent/insights/comparison/{workspaceId}.
type ComparisonInsightsRequest struct {
	AnalysisIDs    []string `json:"analysisIds"`
	ComparisonType string   `json:"comparisonType"`
}

// ComparisonInsightsResponse insights de comparación.
type ComparisonInsightsResponse struct {
	WorkspaceID      string                     `json:"workspaceId"`
	Insights         []entity.ComparisonInsight `json:"insights"`
	Summary          string                     `json:"summary"`
	TotalComparisons int                        `json:"totalComparisons"`
	CreatedAt        time.Time                  `json:"createdAt"`
}

// LLMHealth estado del servicio LLM tal como lo usa la interfaz.
type LLMHealth struct {
	Status       string    `json:"status"`
	ResponseTime float64   `json:"responseTime"`
	Uptime       float64   `json:"uptime"`
	Version      string    `json:"version"`
	Capabilities []string  `json:"capabilities"`
	LastCheck    time.Time `json:"lastCheck"`
}

// Healthy indica status == healthy.
func (h LLMHealth) Healthy() bool { return h.Status == HealthHealthy }

// DefaultHealth valores de referencia del servicio; también es el estado simulado
// cuando la sonda falla y se permite el fallback.
func DefaultHealth(status string, now time.Time) LLMHealth {
	if status == "" {
		status = HealthHealthy
	}
	return LLMHealth{
		Status:       status,
		ResponseTime: 150,
		Uptime:       99.9,
		Version:      "1.0.0",
		Capabilities: []string{"chat", "document-analysis", "insights"},
		LastCheck:    now,
	}
}

type healthWire struct {
	Health *struct {
		Status string `json:"status"`
	} `json:"health"`
	Status       string     `json:"status"`
	ResponseTime float64    `json:"responseTime"`
	Uptime       float64    `json:"uptime"`
	Version      string     `json:"version"`
	Capabilities []string   `json:"capabilities"`
	LastCheck    *time.Time `json:"lastCheck"`
}

// DecodeHealth acepta las dos formas de agent/health:
//
//	{"success": true, "health": {"status": "healthy"}}   envoltorio del backend
//	{"status": "healthy", "responseTime": 120, ...}        forma directa
func DecodeHealth(body []byte, now time.Time) (LLMHealth, error) {
	var w healthWire
	if err := json.Unmarshal(body, &w); err != nil {
		return LLMHealth{}, fmt.Errorf("health: %w", err)
	}
	if w.Health != nil {
		return DefaultHealth(w.Health.Status, now), nil
	}
	h := LLMHealth{
		Status:       w.Status,
		ResponseTime: w.ResponseTime,
		Uptime:       w.Uptime,
		Version:      w.Version,
		Capabilities: w.Capabilities,
		LastCheck:    now,
	}
	if w.LastCheck != nil {
		h.LastCheck = *w.LastCheck
	}
	return h, nil
}
