package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/backend"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/config"
	apphttp "github.com/tekinf2025/controle-financeiro-tekinfo/internal/http"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/log"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/repository"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Backend configuration failed", "error", err)
		os.Exit(1)
	}

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

	repo := repository.New(result.Store, result.Events)

	// Load the ledger into memory. Startup survives a store outage; the
	// readiness probe stays down until a load succeeds.
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repo.Load(loadCtx); err != nil {
		logger.Warn("Initial ledger load failed, serving with empty cache",
			"error", err, "backend", cfg.DataBackend)
	} else {
		logger.Info("Ledger loaded", "records", repo.Len(), "backend", cfg.DataBackend)
	}
	loadCancel()

	srv := apphttp.NewServer(":"+cfg.Port, repo, cfg.ViewCacheTTL)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger.Info("Shutdown signal received")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
