package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sales-tracker-backend/internal/clog"
	"sales-tracker-backend/internal/config"
	"sales-tracker-backend/internal/db"
	"sales-tracker-backend/internal/server"
	"sales-tracker-backend/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := clog.New(os.Stderr, cfg.Env, cfg.SlogLevel())
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	database, err := db.Connect(ctx, cfg.ConnString())
	if err != nil {
		logger.Error("failed to connect DB", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	logger.Info("connected to PostgreSQL")

	if err := db.Migrate(ctx, database); err != nil {
		logger.Error("failed to create tables", "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg, logger, database, tasks.NewPostgresStore(database))

	go func() {
		if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
