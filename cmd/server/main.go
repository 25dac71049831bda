package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/air-quality-trends/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/air-quality-trends/internal/adapter/kafka"
	"github.com/couchcryptid/air-quality-trends/internal/chart"
	"github.com/couchcryptid/air-quality-trends/internal/config"
	"github.com/couchcryptid/air-quality-trends/internal/dataset"
	"github.com/couchcryptid/air-quality-trends/internal/observability"
	"github.com/couchcryptid/air-quality-trends/internal/tools"
)

func main() {
	// A local .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	store, err := dataset.Load(cfg.DatasetPath, cfg.SampleSeed, logger)
	if err != nil {
		logger.Error("failed to load dataset", "error", err, "path", cfg.DatasetPath)
		os.Exit(1)
	}

	// Summary publishing is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher tools.SummaryPublisher
	var publisherClose func() error
	if cfg.KafkaEnabled {
		p := kafkaadapter.NewPublisher(cfg, logger)
		publisher = p
		publisherClose = p.Close
		logger.Info("summary publishing enabled", "topic", cfg.KafkaSummaryTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("summary publishing disabled")
	}

	renderer := chart.NewRenderer(cfg.PlotOutputDir, clockwork.NewRealClock(), logger)
	service := tools.New(store, renderer, publisher, logger, metrics, cfg.ResolveLimit)

	srv := httpadapter.NewServer(cfg.HTTPAddr, service, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisherClose != nil {
		if err := publisherClose(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
