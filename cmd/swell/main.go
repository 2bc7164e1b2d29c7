package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/buoy-swell-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/buoy-swell-service/internal/adapter/kafka"
	"github.com/couchcryptid/buoy-swell-service/internal/adapter/ndbc"
	"github.com/couchcryptid/buoy-swell-service/internal/config"
	"github.com/couchcryptid/buoy-swell-service/internal/observability"
	"github.com/couchcryptid/buoy-swell-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	catalog, err := config.LoadCatalog(cfg)
	if err != nil {
		logger.Error("failed to load station catalog", "error", err)
		os.Exit(1)
	}
	logger.Info("station catalog loaded", "stations", len(catalog.Stations()), "default_station", catalog.Default().ID)

	client := ndbc.NewClient(cfg.NDBCBaseURL, cfg.NDBCTimeout, metrics, logger)
	source := ndbc.NewCachedSource(client, cfg.NDBCCacheSize, cfg.NDBCCacheTTL, clockwork.NewRealClock(), metrics)

	// Report publishing is optional (enabled via KAFKA_BROKERS).
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.PublishEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka report publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka report publishing disabled")
	}

	svc := pipeline.New(catalog, source, pipeline.NewTransformer(cfg.MaxPeaks, logger), publisher, logger, metrics)

	srv := httpadapter.NewServer(httpadapter.Options{
		Addr:         cfg.HTTPAddr,
		CORSAllowAll: cfg.CORSAllowAll,
		Location:     cfg.DisplayLocation,
	}, svc, svc, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load the default buoy before serving, as the dashboard's first paint needs it.
	svc.Warm(ctx)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
