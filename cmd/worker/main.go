package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/medadmin/hospital-api/internal/config"
	"github.com/medadmin/hospital-api/internal/repository/mongodb"
	"github.com/medadmin/hospital-api/pkg/logger"
	"github.com/medadmin/hospital-api/pkg/messaging/redis"
	"github.com/medadmin/hospital-api/pkg/metrics"
	"github.com/medadmin/hospital-api/pkg/worker"
)

// Standalone outbox processor for deployments that scale event publishing
// separately from the API.
func main() {
	cfg, err := config.LoadWorkerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load worker configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := mongodb.NewDB(mongodb.Config{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to store")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	broker, err := redis.NewRedisBroker(redis.Config{URL: cfg.RedisURL}, &appLogger.ZL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to broker")
	}
	defer broker.Close()

	processor := worker.NewOutboxProcessor(
		mongodb.NewOutboxRepository(db),
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:     cfg.BatchSize,
			PollInterval:  cfg.PollInterval,
			RetryAttempts: cfg.RetryAttempts,
			RetryDelay:    cfg.RetryDelay,
			Channel:       cfg.Channel,
		},
		appLogger,
		metrics.NewMetrics("hospital", "outbox_worker"),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Start(ctx)

	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler: promhttp.Handler(),
	}
	go func() {
		log.Info().Int("port", cfg.MetricsPort).Msg("serving worker metrics")
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
}
