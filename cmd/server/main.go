package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/enerlytic/solarplan-go/internal/api"
	"github.com/enerlytic/solarplan-go/internal/api/handlers"
	"github.com/enerlytic/solarplan-go/internal/config"
	"github.com/enerlytic/solarplan-go/internal/database"
	"github.com/enerlytic/solarplan-go/internal/geo"
	"github.com/enerlytic/solarplan-go/internal/logging"
	"github.com/enerlytic/solarplan-go/internal/pricing"
	"github.com/enerlytic/solarplan-go/internal/services"
	"github.com/enerlytic/solarplan-go/internal/solar"
	"github.com/enerlytic/solarplan-go/internal/telemetry"
	"github.com/enerlytic/solarplan-go/internal/weather"
)

const serviceName = "solarplan"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local .env files are optional; containers use real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.NewStandardOTLPLogger(logging.OTLPConfig{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: telemetry.ServiceVersion,
		Environment:    cfg.Environment,
		LogLevel:       cfg.LogLevel,
	})
	slog.SetDefault(logger.Logger())

	// The database layer logs through logrus.
	logrus.SetLevel(logging.ParseLogrusLevel(cfg.LogLevel))
	logrus.SetFormatter(&logrus.JSONFormatter{})

	ctx := context.Background()

	tracing, err := telemetry.Init(ctx, cfg.Telemetry, cfg.Environment)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx); err != nil {
			logger.WithComponent("telemetry").Error("failed to shut down tracing", "error", err.Error())
		}
	}()

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	redis, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redis.Close()

	weatherClient := weather.NewClient(&cfg.Weather)
	weatherService := weather.NewAnalysisService(
		weatherClient,
		redis,
		time.Duration(cfg.Weather.CacheTTLMinutes)*time.Minute,
		logger.WithComponent("weather"),
	)

	geocoder := geo.NewGeocoder(cfg.Geocoding.ServiceURL, time.Duration(cfg.Geocoding.Timeout)*time.Second)
	priceService := pricing.NewService(cfg.Pricing, redis, logger.WithComponent("pricing"))
	repository := database.NewAnalysisRepository(database.NewTracedPool(db.Pool))

	retention := services.NewRetentionService(repository, services.RetentionConfig{
		AnalysisRetentionDays: cfg.Retention.AnalysisRetentionDays,
		CleanupIntervalHours:  cfg.Retention.CleanupIntervalHours,
	}, logger.WithComponent("retention"))
	retention.Start()
	defer retention.Stop()

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))

	api.SetupRoutes(router, api.Handlers{
		Analysis: handlers.NewAnalysisHandler(
			solar.NewPipeline(),
			geocoder,
			weatherService,
			priceService,
			repository,
			logger,
		),
		Pricing: handlers.NewPricingHandler(priceService, logger),
		Health:  handlers.NewHealthHandler(db, redis, weatherClient, telemetry.ServiceVersion),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       15 * time.Second,
	}

	go func() {
		logger.LogStartup(serviceName, telemetry.ServiceVersion, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithComponent("server").Error("server failed", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.LogShutdown(serviceName, "signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}
