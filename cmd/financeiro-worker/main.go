package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/backend"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/config"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/events"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/log"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("Starting financeiro-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// The worker is event-driven; without a broker there is nothing to do.
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the backup worker")
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Backend configuration failed", "error", err)
		os.Exit(1)
	}
	// The worker consumes events itself, it never publishes.
	backendCfg.AMQPURL = ""

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.Create(backendCfg)
	if err != nil {
		logger.Error("Backend initialization failed", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	eventsClient, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer eventsClient.Close()

	backupWorker := worker.NewBackupWorker(result.Store, cfg.BackupDir, cfg.BackupInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return eventsClient.ConsumeEvents(gctx, backupWorker.HandleEvent)
	})

	g.Go(func() error {
		return backupWorker.Run(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
