package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/financial-organizer/backend/internal/config"
	"github.com/financial-organizer/backend/internal/server"
	"github.com/financial-organizer/backend/internal/ui"
)

const version = "0.1.0"

var versionFlag = flag.Bool("version", false, "Show version")

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `financial-organizer - personal finance API server

Usage:
  server [flags]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprint(os.Stderr, `
Environment:
  PORT           Listen port (default 3000)
  JWT_SECRET     Token signing secret (required)
  DATABASE_PATH  SQLite database file (default finance.db)

A .env file in the working directory is loaded when present.
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("financial-organizer version %s\n", version)
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ui.Header("Financial Organizer API")

	ui.Step(1, 3, "Loading configuration")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ui.Step(2, 3, "Opening database")
	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	defer srv.Close()

	ui.Step(3, 3, "Starting HTTP server")
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	ui.Success(fmt.Sprintf("Listening on port %s", ui.YellowText(cfg.Port)))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		ui.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		ui.Success("Server stopped")
	}

	return nil
}
