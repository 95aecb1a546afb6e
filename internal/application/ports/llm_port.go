package ports

import (
	"context"

	"github.com/bakano/bakano-web/internal/application/dto"
)

// AgentGateway puerto de salida hacia el agente LLM de Bakano.
// Los errores llegan ya con un mensaje legible para el usuario; la causa original
// queda envuelta.
type AgentGateway interface {
	Chat(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error)
	ChatWithDocument(ctx context.Context, analysisID string, req dto.ChatRequest) (*dto.ChatResponse, error)
	DocumentInsights(ctx context.Context, analysisID string) (*dto.DocumentInsightsResponse, error)
	ComparisonInsights(ctx context.Context, workspaceID string, req dto.ComparisonInsightsRequest) (*dto.ComparisonInsightsResponse, error)
	// Health normaliza las dos formas de respuesta de agent/health.
	Health(ctx context.Context) (*dto.LLMHealth, error)
}
