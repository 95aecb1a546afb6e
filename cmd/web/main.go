package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/bakano/bakano-web/internal/application/frontend"
	"github.com/bakano/bakano-web/internal/application/ports"
	"github.com/bakano/bakano-web/internal/infrastructure/apiclient"
	"github.com/bakano/bakano-web/internal/infrastructure/mockdata"
	infrapdf "github.com/bakano/bakano-web/internal/infrastructure/pdf"
	"github.com/bakano/bakano-web/internal/infrastructure/storage"
	httpRouter "github.com/bakano/bakano-web/internal/interfaces/http"
	"github.com/bakano/bakano-web/pkg/config"
	"github.com/bakano/bakano-web/pkg/logger"
)

// sweepInterval cada cuánto se descartan los clientes inactivos.
const sweepInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.LogLevel(),
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("api", cfg.API.BaseURL).
		Bool("mock_data", cfg.Features.UseMockData).
		Bool("mock_fallback", cfg.Features.AllowMockFallback).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Almacenamiento durable del cliente: Redis si hay REDIS_URL, memoria si no.
	var backend ports.StorageBackend
	if cfg.Storage.RedisURL != "" {
		rb, err := storage.NewRedisBackend(cfg.Storage.RedisURL, cfg.Storage.KeyPrefix, cfg.Storage.TTL)
		if err != nil {
			log.Fatal().Err(err).Msg("configuración de Redis")
		}
		if err := rb.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rb.Close()
		backend = rb
		log.Info().Msg("almacenamiento de sesión en Redis")
	} else {
		backend = storage.NewMemoryBackend()
		log.Warn().Msg("almacenamiento de sesión en memoria: las sesiones se pierden al reiniciar")
	}

	// traceparent del navegador hasta la API de Bakano
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	apiMetrics, err := apiclient.NewMetrics(promReg)
	if err != nil {
		log.Fatal().Err(err).Msg("métricas del cliente de la API")
	}
	httpMetrics, err := httpRouter.NewHTTPMetrics(promReg)
	if err != nil {
		log.Fatal().Err(err).Msg("métricas HTTP")
	}

	// Fuente simulada de documentos, compartida por todos los navegadores.
	var mock ports.DocumentGateway
	if cfg.Features.UseMockData || cfg.Features.AllowMockFallback {
		mock = mockdata.NewDocumentService(mockdata.DefaultOptions(infrapdf.NewMarotoPDFGenerator()), log)
	}

	registry := frontend.NewRegistry(backend, mock, apiMetrics, frontend.Options{
		APIBaseURL:        cfg.API.BaseURL,
		APITimeout:        cfg.API.Timeout,
		Debug:             cfg.Features.EnableDebugLogs,
		UseMockData:       cfg.Features.UseMockData,
		AllowMockFallback: cfg.Features.AllowMockFallback,
		ToastDuration:     cfg.UI.ToastDuration,
	}, cfg.Session.IdleTTL, log)
	defer registry.Close()
	go registry.Run(ctx, sweepInterval)

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		IdleTimeout: time.Second * 60,
		BodyLimit:   100 << 20,
		// sin WriteTimeout: la eliminación masiva espera la confirmación del usuario
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Bakano Web BFF",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "clients": registry.Len()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Registry: registry,
		Session: httpRouter.SessionConfig{
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.Session.Secure,
		},
		Metrics:  httpMetrics,
		Gatherer: promReg,
		Tracing:  true,
		Log:      log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
