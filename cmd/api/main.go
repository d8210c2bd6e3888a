// Package main is the entry point for the nudge dispatcher.
//
// It loads configuration, builds the pipeline service and the HTTP trigger
// surface, and starts listening. An optional first command-line argument
// selects which pipeline(s) to run once at startup, independent of the HTTP
// surface:
//
//	(none)     run the 30dc email pipeline
//	skillset   run the skillset email pipeline
//	all        run both email pipelines
//	api-only   serve HTTP triggers without a startup run
//
// Graceful shutdown is handled via OS signal interception (SIGINT, SIGTERM).
package main

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

	"github.com/go-chi/chi/v5"

	"nudge/internal/api/handlers"
	"nudge/internal/config"
	"nudge/internal/core"
	"nudge/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on
// error.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("nudge dispatcher starting",
		"environment", cfg.Environment,
		"port", cfg.Server.Port,
	)

	service := pipeline.NewService(cfg, logger)

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	dispatchHandler := handlers.NewDispatchHandler(service, logger)
	srv.RouteRegistrars = append(srv.RouteRegistrars, func(r chi.Router) {
		dispatchHandler.RegisterRoutes(r)
	})

	srv.MountRoutes()

	// The startup run happens alongside the HTTP server, matching the
	// trigger endpoints: the process stays available for future triggers
	// whatever the run's outcome.
	go startupRun(service, logger)

	return runHTTPServer(srv, cfg, logger)
}

// startupRun executes the pipeline(s) selected by the first command-line
// argument. Run failures are logged, never fatal.
func startupRun(service *pipeline.Service, logger *slog.Logger) {
	mode := ""
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	ctx := context.Background()

	switch mode {
	case "api-only":
		logger.Info("startup run skipped (api-only mode)")
	case "skillset":
		if _, err := service.SendEmailsSkillset(ctx); err != nil {
			logger.Error("startup skillset email run failed", "error", err)
		}
	case "all":
		if _, err := service.SendEmails30DC(ctx); err != nil {
			logger.Error("startup 30dc email run failed", "error", err)
		}
		if _, err := service.SendEmailsSkillset(ctx); err != nil {
			logger.Error("startup skillset email run failed", "error", err)
		}
	default:
		if mode != "" {
			logger.Warn("unknown run mode, defaulting to 30dc email run", "mode", mode)
		}
		if _, err := service.SendEmails30DC(ctx); err != nil {
			logger.Error("startup 30dc email run failed", "error", err)
		}
	}
}

// runHTTPServer starts the server in standard HTTP mode with graceful
// shutdown.
func runHTTPServer(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + cfg.Server.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)

	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger configured for the given log
// level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: false,
	})
	return slog.New(handler)
}
