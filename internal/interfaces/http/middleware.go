package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/application/frontend"
	"github.com/bakano/bakano-web/pkg/logger"
)

// Locals keys en Fiber.
const (
	LocalClient    = "client"
	LocalRequestID = "request_id"

	HeaderRequestID = "X-Request-ID"
)

// RequestID propaga X-Request-ID o genera uno nuevo.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     HeaderRequestID,
		Generator:  uuid.NewString,
		ContextKey: LocalRequestID,
	})
}

// RequestLogger registra cada petición con su duración y status.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		ev.Str("request_id", GetRequestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request")
		return err
	}
}

// HTTPMetrics contador de peticiones del BFF.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
}

// NewHTTPMetrics registra http_requests_total{method,path,status} en reg.
func NewHTTPMetrics(reg prometheus.Registerer) (*HTTPMetrics, error) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Peticiones HTTP atendidas por el BFF.",
	}, []string{"method", "path", "status"})
	if err := reg.Register(requests); err != nil {
		return nil, err
	}
	return &HTTPMetrics{requests: requests}, nil
}

// Handler cuenta la petición con el patrón de ruta (no el path concreto).
func (m *HTTPMetrics) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		m.requests.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).Inc()
		return err
	}
}

// SessionConfig cookie que identifica al navegador.
type SessionConfig struct {
	CookieName string
	Secure     bool
}

func (cfg SessionConfig) withDefaults() SessionConfig {
	if cfg.CookieName == "" {
		cfg.CookieName = "bakano_sid"
	}
	return cfg
}

func setSessionCookie(c *fiber.Ctx, cfg SessionConfig, sid string) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		Secure:   cfg.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Session resuelve el cliente del navegador a partir de la cookie. Si falta o el
// registro no la emitió, emite una nueva: el navegador no elige su id.
func Session(reg *frontend.Registry, cfg SessionConfig) fiber.Handler {
	cfg = cfg.withDefaults()
	return func(c *fiber.Ctx) error {
		client, ok := reg.Resume(c.UserContext(), c.Cookies(cfg.CookieName))
		if !ok {
			sid := frontend.NewSessionID()
			setSessionCookie(c, cfg, sid)
			client = reg.Get(sid)
		}
		c.Locals(LocalClient, client)
		return c.Next()
	}
}

// RequireSession deja pasar solo navegadores con sesión iniciada.
// Debe usarse DESPUÉS de Session.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		client := GetClient(c)
		if client == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHENTICATED", Message: "sesión no encontrada"})
		}
		client.Auth.Initialize(c.UserContext())
		if !client.Auth.IsAuthenticated() {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHENTICATED", Message: "debes iniciar sesión"})
		}
		return c.Next()
	}
}

// GetClient devuelve el cliente del navegador (después de Session).
func GetClient(c *fiber.Ctx) *frontend.Client {
	v, _ := c.Locals(LocalClient).(*frontend.Client)
	return v
}

// GetRequestID devuelve el id de la petición (después de RequestID).
func GetRequestID(c *fiber.Ctx) string {
	v, _ := c.Locals(LocalRequestID).(string)
	return v
}
