// Package main is the entry point for the service. It wires all dependencies
// using samber/do v2, starts the HTTP server, and handles graceful shutdown
// on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/salesflow/internal/adapters/http"
	"github.com/jsamuelsen11/salesflow/internal/app/authz"
	"github.com/jsamuelsen11/salesflow/internal/domain/actor"
	"github.com/jsamuelsen11/salesflow/internal/platform/config"
	"github.com/jsamuelsen11/salesflow/internal/platform/logging"
	"github.com/jsamuelsen11/salesflow/internal/platform/telemetry"
)

const (
	busShutdownTimeout  = 10 * time.Second
	otelShutdownTimeout = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, qa, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr,
		slog.String("service", cfg.Telemetry.ServiceName),
		slog.String("profile", profile),
	)
	slog.SetDefault(logger)

	ctx := logging.WithLogger(context.Background(), logger)
	tel, err := telemetry.Setup(ctx, telemetry.Options{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: cfg.Telemetry.ServiceName,
		Environment: profile,
		Exporter:    cfg.Telemetry.Exporter,
		Endpoint:    cfg.Telemetry.Endpoint,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, tel.Metrics)

	registerDependencies(ctx, injector, cfg)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	comps, err := subscribe(injector, cfg)
	if err != nil {
		closeComponents(comps, logger)
		return err
	}

	dir := do.MustInvoke[*authz.Resolver](injector)
	if _, err := dir.Seed(ctx, seedActors(cfg.Directory.Seed)); err != nil {
		closeComponents(comps, logger)
		return fmt.Errorf("seeding actor directory: %w", err)
	}

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		closeComponents(comps, logger)
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests first so nothing new is
	// published, then let the bus finish dispatching before the broker and
	// store go away.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	closeComponents(comps, logger)

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := tel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

// closeComponents closes the bus, then the broker connection, then the
// store.
func closeComponents(c *components, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), busShutdownTimeout)
	defer cancel()

	if err := c.bus.Close(ctx); err != nil {
		logger.Error("event bus shutdown error", slog.Any("error", err))
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			logger.Error("broker shutdown error", slog.Any("error", err))
		}
	}
	if err := c.stores.close(); err != nil {
		logger.Error("store shutdown error", slog.Any("error", err))
	}
}

func seedActors(seed []config.SeedActor) []actor.Actor {
	actors := make([]actor.Actor, 0, len(seed))
	for _, s := range seed {
		actors = append(actors, actor.Actor{
			ID:        s.ID,
			Name:      s.Name,
			Email:     s.Email,
			Role:      actor.Role(s.Role),
			ManagerID: s.ManagerID,
		})
	}
	return actors
}
