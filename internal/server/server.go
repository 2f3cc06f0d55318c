// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

// Package server wires configuration, storage, the verification cache, and
// the HTTP layer together and runs the echo server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"

	"github.com/taxiunn/interactions/internal/config"
	"github.com/taxiunn/interactions/internal/database"
	"github.com/taxiunn/interactions/internal/repository"
	"github.com/taxiunn/interactions/internal/services/auth"
	"github.com/taxiunn/interactions/internal/services/email"
	"github.com/taxiunn/interactions/internal/token"
	"github.com/taxiunn/interactions/internal/verification"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Database
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	repo := repository.New(db)

	// Verification cache
	cache, err := newCache(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect verification cache: %w", err)
	}

	// Tokens
	tokens, err := token.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	if err != nil {
		return fmt.Errorf("failed to create token manager: %w", err)
	}

	// Mail
	mailer, err := email.NewService(&cfg.SMTP)
	if err != nil {
		return fmt.Errorf("failed to create mailer: %w", err)
	}

	authSvc := auth.NewService(repo, cache, tokens, mailer)

	// Bootstrap administrator
	if cfg.Admin.Email != "" {
		if err := authSvc.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return fmt.Errorf("failed to ensure admin account: %w", err)
		}
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	setupMiddleware(e, cfg)
	setupRoutes(e, repo, authSvc, tokens)

	return startWithGracefulShutdown(e, cfg)
}

// newCache selects the verification cache backend. A configured redis
// address wins, otherwise codes live in process memory.
func newCache(ctx context.Context, cfg *config.Config) (verification.Cache, error) {
	if cfg.Redis.Addr == "" {
		slog.Info("verification cache: in-memory")
		return verification.NewMemoryCache(), nil
	}

	slog.Info("verification cache: redis", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	return verification.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
}

func startWithGracefulShutdown(e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("server running", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
