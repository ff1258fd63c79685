package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/taxism/backend/internal/config"
	"github.com/taxism/backend/internal/docstore"
	"github.com/taxism/backend/internal/logging"
	"github.com/taxism/backend/internal/repository"
	"github.com/taxism/backend/internal/server"
	"github.com/taxism/backend/internal/service"
)

func main() {
	// Optional .env for local development; environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	storeClient, err := docstore.NewSQLiteClient(docstore.Options{
		Path:         cfg.Store.Path,
		MaxOpenConns: cfg.Store.MaxOpenConns,
	})
	if err != nil {
		logger.Error("failed to open document store", "error", err, "path", cfg.Store.Path)
		os.Exit(1)
	}
	defer func() {
		if err := storeClient.Close(); err != nil {
			logger.Warn("closing document store failed", "error", err)
		}
	}()

	repo := repository.New(storeClient)
	planner := service.NewPlannerService(repo)
	apiHandlers := server.NewAPIHandlers(logger, planner)
	diag := server.NewDiagHandler(logger, storeClient, os.Getenv("STORE_PATH") != "")

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.StoreHealthService{Client: storeClient},
		Diag:             diag,
		API:              apiHandlers,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
