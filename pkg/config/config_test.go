package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.True(t, cfg.App.IsDevelopment())
	assert.Equal(t, "http://localhost:8100/api", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.False(t, cfg.Features.UseMockData)
	assert.True(t, cfg.Features.EnableDebugLogs, "en desarrollo los logs de depuración van activos")
	assert.True(t, cfg.Features.AllowMockFallback)
	assert.Equal(t, 3*time.Second, cfg.UI.ToastDuration)
	assert.Equal(t, "bakano_sid", cfg.Session.CookieName)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "debug", cfg.LogLevel())
}

func TestFromViper_Produccion(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	v.Set("BAKANO_API_URL", "https://api.bakano.ec/api/")
	v.Set("USE_MOCK_DATA", "true")
	v.Set("TOAST_DURATION_MS", "1500")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "https://api.bakano.ec/api", cfg.API.BaseURL, "se elimina la barra final")
	assert.True(t, cfg.Features.UseMockData)
	assert.False(t, cfg.Features.EnableDebugLogs)
	assert.False(t, cfg.Features.AllowMockFallback)
	assert.True(t, cfg.Session.Secure)
	assert.Equal(t, 1500*time.Millisecond, cfg.UI.ToastDuration)
	assert.Equal(t, "info", cfg.LogLevel())
}

func TestFromViper_URLVacia(t *testing.T) {
	v := viper.New()
	v.Set("BAKANO_API_URL", "  ")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ValoresInvalidosUsanDefecto(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "abc")
	v.Set("ENABLE_DEBUG_LOGS", "quizas")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.True(t, cfg.Features.EnableDebugLogs)
}
