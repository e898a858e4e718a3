package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/amaumene/cinesearch/internal/app"
	"github.com/amaumene/cinesearch/internal/config"
	"github.com/amaumene/cinesearch/internal/utils"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with background refresh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting Cinesearch")
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	// 3. Build components
	application, cleanup, err := app.Initialize(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer cleanup()
	logger.Info("Components initialized")

	// 4. Run scheduler and server
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serveErrChan := make(chan error, 1)
	go func() {
		serveErrChan <- application.Serve(ctx)
	}()

	// 5. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Cinesearch is running")

	select {
	case err := <-serveErrChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := <-serveErrChan; err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Cinesearch stopped")
	return nil
}
