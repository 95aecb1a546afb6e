package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
// Se construye una sola vez al arrancar y no se modifica después.
type Config struct {
	App      AppConfig
	API      APIConfig
	Features FeatureFlags
	HTTP     HTTPConfig
	Storage  StorageConfig
	Session  SessionConfig
	UI       UIConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// IsDevelopment indica si la aplicación corre en modo desarrollo.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// APIConfig datos de conexión con la API remota de Bakano.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// FeatureFlags interruptores de comportamiento.
type FeatureFlags struct {
	UseMockData       bool // fuerza el origen de datos simulado para documentos
	AllowMockFallback bool // usa datos simulados cuando la API no responde (error de red)
	EnableDebugLogs   bool
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig almacenamiento durable del cliente (token y usuario).
// RedisURL vacío = almacenamiento en memoria del proceso.
type StorageConfig struct {
	RedisURL  string
	KeyPrefix string
	TTL       time.Duration
}

// SessionConfig cookie de sesión del navegador.
type SessionConfig struct {
	CookieName string
	IdleTTL    time.Duration
	Secure     bool
}

// UIConfig estado efímero de interfaz.
type UIConfig struct {
	ToastDuration time.Duration
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, BAKANO_API_URL, REDIS_URL, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	env := getString(v, "APP_ENV", "development")
	dev := env == "development"

	baseURL := getString(v, "BAKANO_API_URL", getString(v, "VITE_BAKANO_API", "http://localhost:8100/api"))
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("config: BAKANO_API_URL vacío")
	}

	cfg := &Config{
		App: AppConfig{
			Env:  env,
			Name: getString(v, "APP_NAME", "bakano-web"),
		},
		API: APIConfig{
			BaseURL: baseURL,
			Timeout: time.Duration(getInt(v, "API_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Features: FeatureFlags{
			UseMockData:       getBool(v, "USE_MOCK_DATA", false),
			AllowMockFallback: getBool(v, "MOCK_FALLBACK_ON_NETWORK_ERROR", dev),
			EnableDebugLogs:   getBool(v, "ENABLE_DEBUG_LOGS", dev),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Storage: StorageConfig{
			RedisURL:  getString(v, "REDIS_URL", ""),
			KeyPrefix: getString(v, "STORAGE_KEY_PREFIX", "bakano"),
			TTL:       time.Duration(getInt(v, "STORAGE_TTL_HOURS", 720)) * time.Hour,
		},
		Session: SessionConfig{
			CookieName: getString(v, "SESSION_COOKIE", "bakano_sid"),
			IdleTTL:    time.Duration(getInt(v, "SESSION_IDLE_HOURS", 12)) * time.Hour,
			Secure:     getBool(v, "SESSION_COOKIE_SECURE", !dev),
		},
		UI: UIConfig{
			ToastDuration: time.Duration(getInt(v, "TOAST_DURATION_MS", 3000)) * time.Millisecond,
		},
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = 30 * time.Second
	}
	if cfg.UI.ToastDuration <= 0 {
		cfg.UI.ToastDuration = 3 * time.Second
	}

	return cfg, nil
}

// LogLevel nivel de log derivado de los flags.
func (c *Config) LogLevel() string {
	if c.Features.EnableDebugLogs {
		return "debug"
	}
	return "info"
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	switch val := v.Get(key).(type) {
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return def
		}
		return b
	default:
		return v.GetBool(key)
	}
}
