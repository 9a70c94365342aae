package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager/v3"

	"github.com/yusufkecer/body-score-backend/internal/acquisition"
	"github.com/yusufkecer/body-score-backend/internal/config"
	"github.com/yusufkecer/body-score-backend/internal/db"
	"github.com/yusufkecer/body-score-backend/internal/handler"
	"github.com/yusufkecer/body-score-backend/internal/middleware"
	"github.com/yusufkecer/body-score-backend/internal/repository"
	"github.com/yusufkecer/body-score-backend/internal/scoring"
	"github.com/yusufkecer/body-score-backend/internal/service"
	"github.com/yusufkecer/body-score-backend/internal/telemetry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	logger := lager.NewLogger("bodyscore")
	logger.RegisterSink(lager.NewWriterSink(os.Stdout, logLevel(cfg.LogLevel)))

	if cfg.JWTSecret == "" {
		logger.Fatal("missing-jwt-secret", errors.New("JWT_SECRET environment variable must be set"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, logger, cfg)
	if err != nil {
		logger.Fatal("database-connection-failed", err)
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, logger, database); err != nil {
		logger.Fatal("migrations-failed", err)
	}

	mp, shutdownMetrics, err := telemetry.MetricsConfig{
		OTLPAddress: cfg.MetricsOTLPAddress,
		OTLPHeaders: cfg.MetricsOTLPHeaders,
		OTLPUseTLS:  cfg.MetricsOTLPUseTLS,
	}.MeterProvider(ctx)
	if err != nil {
		logger.Fatal("failed-to-configure-metrics", err)
	}
	if mp != nil {
		telemetry.ConfigureMeterProvider(mp)
		defer func() {
			if err := shutdownMetrics(context.Background()); err != nil {
				logger.Error("failed-to-flush-metrics", err)
			}
		}()
		logger.Info("metrics-configured", lager.Data{"otlp-address": cfg.MetricsOTLPAddress})
	}
	telemetry.InitMetrics()

	trustedProxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		logger.Fatal("invalid-trusted-proxies", err)
	}

	clk := clock.NewClock()

	svc := service.NewScoreService(
		logger,
		clk,
		service.Stores{
			Profiles:    repository.NewProfileRepository(database),
			Readings:    repository.NewReadingRepository(database),
			Preferences: repository.NewPreferenceRepository(database),
			Snapshots:   repository.NewSnapshotRepository(database),
		},
		acquisition.NewCollector(logger, cfg.AcquisitionConcurrency),
		scoring.NewEngine(scoring.DefaultRegistry(), clk),
		cfg.ProfileCacheTTL,
	)

	router := handler.NewRouter(logger, clk, handler.RouterConfig{
		JWTSecret:      cfg.JWTSecret,
		APIKey:         cfg.APIKey,
		AllowedOrigins: cfg.AllowedOrigins,
		TrustedProxies: trustedProxies,
	}, repository.NewAccountRepository(database), svc, database)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed-to-shutdown", err)
		}
	}()

	logger.Info("server-starting", lager.Data{"addr": server.Addr})
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server-error", err)
	}
	logger.Info("server-stopped")
}

func logLevel(s string) lager.LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return lager.DEBUG
	case "error":
		return lager.ERROR
	case "fatal":
		return lager.FATAL
	default:
		return lager.INFO
	}
}
