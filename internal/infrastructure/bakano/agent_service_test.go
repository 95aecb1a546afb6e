package bakano

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/domain"
	"github.com/bakano/bakano-web/pkg/logger"
)

func TestValidateMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want bool
	}{
		{"vacío", "", false},
		{"solo espacios", "   \n\t", false},
		{"un caracter", "a", true},
		{"límite exacto", strings.Repeat("a", MaxMessageLength), true},
		{"límite con espacios alrededor", "  " + strings.Repeat("a", MaxMessageLength) + "  ", true},
		{"excede", strings.Repeat("a", MaxMessageLength+1), false},
		{"multibyte en el límite", strings.Repeat("ñ", MaxMessageLength), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateMessage(tt.msg))
		})
	}
}

func TestNewConversationID(t *testing.T) {
	re := regexp.MustCompile(`^conv_\d+_[0-9a-z]{9}$`)
	a, b := NewConversationID(), NewConversationID()
	assert.Regexp(t, re, a)
	assert.NotEqual(t, a, b)
}

func TestFormatMessage(t *testing.T) {
	req := FormatMessage("  hola  ", "")
	assert.Equal(t, "hola", req.Message)
	assert.True(t, strings.HasPrefix(req.ConversationID, "conv_"))

	req = FormatMessage("hola", "conv_1")
	assert.Equal(t, "conv_1", req.ConversationID)
}

func TestAgentService_Chat(t *testing.T) {
	e := newEnv(t).authorized(t)
	svc := NewAgentService(e.api, logger.Nop())
	ctx := t.Context()

	out, err := svc.Chat(ctx, FormatMessage("¿Cuál es el plazo?", "conv_1"))
	require.NoError(t, err)
	assert.Equal(t, "Eco: ¿Cuál es el plazo?", out.Text())

	// el backend de documentos responde con "content"
	out, err = svc.ChatWithDocument(ctx, "an_1", FormatMessage("resumen", "conv_1"))
	require.NoError(t, err)
	assert.Empty(t, out.Message)
	msg := out.AssistantMessage("an_1", time.Now(), NewConversationID)
	assert.Equal(t, "Sobre an_1: resumen", msg.Content)
	assert.Equal(t, "an_1", msg.AnalysisID)
}

func TestAgentService_Insights(t *testing.T) {
	e := newEnv(t).authorized(t)
	svc := NewAgentService(e.api, logger.Nop())
	ctx := t.Context()

	di, err := svc.DocumentInsights(ctx, "an_1")
	require.NoError(t, err)
	assert.Equal(t, 1, di.TotalInsights)

	ci, err := svc.ComparisonInsights(ctx, "ws_1", dto.ComparisonInsightsRequest{
		AnalysisIDs: []string{"an_1", "an_2"}, ComparisonType: dto.ComparisonFinancial,
	})
	require.NoError(t, err)
	assert.Equal(t, "ws_1", ci.WorkspaceID)
	assert.Equal(t, 2, ci.TotalComparisons)
}

func TestAgentService_HealthNormalizaEnvoltorio(t *testing.T) {
	e := newEnv(t).authorized(t)
	svc := NewAgentService(e.api, logger.Nop())
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	h, err := svc.Health(t.Context())
	require.NoError(t, err)
	assert.True(t, h.Healthy())
	assert.Equal(t, "1.0.0", h.Version)
	assert.Equal(t, fixed, h.LastCheck)
}

func TestAgentService_ErrorAmigable(t *testing.T) {
	svc := NewAgentService(offlineClient(t), logger.Nop())

	_, err := svc.Chat(t.Context(), FormatMessage("hola", ""))
	require.Error(t, err)
	assert.True(t, domain.IsNetworkError(err))
	assert.Equal(t, "Error al comunicarse con el agente AI", err.Error())
}
