package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"tracker/internal/config"
	apphttp "tracker/internal/http"
	applog "tracker/internal/log"
	"tracker/internal/services"
	"tracker/internal/storage"
	"tracker/internal/storage/memory"
)

func main() {
	// A missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     cfg.SlogLevel(),
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	var (
		store   services.Store
		cleanup func() error
	)
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite backend", "error", err, "db_path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		store = repo
		cleanup = repo.Close
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
	default:
		store = memory.New()
		cleanup = func() error { return nil }
		logger.Info("Initialized memory backend")
	}

	resolver := services.NewResolver(store)
	srv := apphttp.NewServer(":"+cfg.Port,
		services.NewTransactionService(store, resolver),
		services.NewMerchantService(store, resolver),
		services.NewCategoryService(store))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting tracker server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		if cerr := cleanup(); cerr != nil {
			logger.Error("Backend close error", "error", cerr)
		}
		os.Exit(1)
	}

	if err := cleanup(); err != nil {
		logger.Error("Backend close error", "error", err)
	}
	logger.Info("Server stopped gracefully")
}
