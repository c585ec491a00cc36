// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

// Command server runs the SendUp marketplace HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/margoul1Malin/sendup/internal/api"
	"github.com/margoul1Malin/sendup/internal/auth"
	"github.com/margoul1Malin/sendup/internal/config"
	"github.com/margoul1Malin/sendup/internal/database"
	"github.com/margoul1Malin/sendup/internal/logging"
	"github.com/margoul1Malin/sendup/internal/matching"
	"github.com/margoul1Malin/sendup/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
}

func run() error {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("listen", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).
		Msg("Starting SendUp server")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeQuietly("database", db.Close)

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("failed to initialize token manager: %w", err)
	}

	sessions, err := auth.NewSessionStore(cfg.Security.SessionStorePath)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer closeQuietly("session store", sessions.Close)

	authService := auth.NewService(db, jwtManager, sessions, &cfg.Security)

	engine, err := matching.NewEngine(&cfg.Matching, logging.With().Str("component", "matching").Logger())
	if err != nil {
		return fmt.Errorf("failed to initialize matching engine: %w", err)
	}

	handler := api.NewHandler(db, authService, engine, cfg)
	router := api.NewRouter(handler, jwtManager)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	startTime := time.Now()
	go trackUptime(startTime)

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logging.Info().Dur("uptime", time.Since(startTime)).Msg("Server stopped")
	return nil
}

// trackUptime keeps the uptime gauge current for dashboards.
func trackUptime(start time.Time) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		metrics.AppUptime.Set(time.Since(start).Seconds())
	}
}

func closeQuietly(name string, close func() error) {
	if err := close(); err != nil {
		logging.Warn().Err(err).Str("resource", name).Msg("Failed to close resource")
	}
}
