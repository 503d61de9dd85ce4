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

	"github.com/spf13/cobra"

	"github.com/OldStager01/sales-forecaster/api"
	"github.com/OldStager01/sales-forecaster/internal/logger"
	"github.com/OldStager01/sales-forecaster/internal/simulator"
	"github.com/OldStager01/sales-forecaster/pkg/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		port       int
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "mockapi",
		Short:         "Serve a stand-in forecasting API for local runs",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("port") {
				cfg.MockAPI.Port = port
			}
			if cmd.Flags().Changed("log-level") {
				cfg.App.LogLevel = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	cmd.Flags().IntVar(&port, "port", 8000, "mock API server port")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level")
	return cmd
}

func run(cfg *config.Config) error {
	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)
	logger.Info("Starting forecasting mock API")

	sim := simulator.New(simulator.Config{FeatureCount: cfg.Manual.FeatureCount})
	server := api.NewServer(cfg.MockAPI, cfg.App.Mode, sim)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Infof("Mock API listening on port %d", cfg.MockAPI.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdownChan:
		logger.Infof("Received signal %v, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	logger.Info("Mock API stopped")
	return nil
}
