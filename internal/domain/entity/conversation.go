package entity

import "time"

// Roles de un mensaje de chat.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage mensaje dentro de una conversación.
type ChatMessage struct {
	ID         string    `json:"id"`
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	AnalysisID string    `json:"analysisId,omitempty"`
}

// Conversation hilo de chat armado en el cliente alrededor de las respuestas del agente.
type Conversation struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Messages   []ChatMessage `json:"messages"`
	AnalysisID string        `json:"analysisId,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
	IsActive   bool          `json:"isActive"`
}

// Touch avanza UpdatedAt; siempre queda estrictamente después del valor anterior.
func (c *Conversation) Touch(now time.Time) {
	if !now.After(c.UpdatedAt) {
		now = c.UpdatedAt.Add(time.Nanosecond)
	}
	c.UpdatedAt = now
}

// Clone copia profunda (los mensajes no se comparten).
func (c *Conversation) Clone() Conversation {
	out := *c
	out.Messages = append([]ChatMessage(nil), c.Messages...)
	return out
}

// Tipos de insight sobre un documento.
const (
	InsightSummary         = "summary"
	InsightRisk            = "risk"
	InsightRecommendation  = "recommendation"
	InsightLegalPoint      = "legal_point"
	InsightFinancialImpact = "financial_impact"
)

// DocumentInsight hallazgo tipado extraído del análisis de un documento.
type DocumentInsight struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Confidence float64   `json:"confidence"`
	Relevance  float64   `json:"relevance"`
	Sources    []string  `json:"sources,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ComparisonInsight hallazgo de la comparación entre análisis.
type ComparisonInsight struct {
	ID               string   `json:"id"`
	Type             string   `json:"type"`
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	AffectedAnalyses []string `json:"affectedAnalyses"`
	Severity         string   `json:"severity"` // low, medium, high, critical
	Category         string   `json:"category"` // risk, opportunity, difference, similarity
}
