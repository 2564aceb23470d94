package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akarpov/weather-pipeline/internal/config"
	"github.com/akarpov/weather-pipeline/internal/server"
	"github.com/akarpov/weather-pipeline/pkg/logger"
	"github.com/akarpov/weather-pipeline/pkg/telemetry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	cfg        *config.Config
	log        *zap.Logger
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather-pipeline",
		Short: "Two-stage geo-weather request pipeline",
		Long:  `Serves the two stages of the weather pipeline: the request-facing context stage (validation, telemetry, delegation) and the forecast stage (provider fetch, normalization, synthetic fallback).`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeServices()
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default: ./config.yaml)")

	cmd.AddCommand(contextCmd)
	cmd.AddCommand(forecastCmd)

	return cmd
}

func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		if log != nil {
			log.Info("Received shutdown signal", zap.String("signal", sig.String()))
		}
		cancel()
	}()

	return rootCmd().ExecuteContext(ctx)
}

func initializeServices() error {
	var err error

	cfg, err = config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err = logger.New(cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	return nil
}

func newTelemetry(ctx context.Context, serviceName string) *telemetry.Telemetry {
	tele, err := telemetry.New(ctx, cfg.Telemetry, serviceName)
	if err != nil {
		log.Warn("Failed to initialize telemetry", zap.Error(err))
		return &telemetry.Telemetry{}
	}
	return tele
}

// runServer blocks until the server fails or the command context is done.
func runServer(cmd *cobra.Command, srv *server.Server, tele *telemetry.Telemetry) error {
	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		log.Error("Server error", zap.Error(err))
		return err
	case <-cmd.Context().Done():
		log.Info("Shutting down server")

		if err := srv.Shutdown(); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}
		if err := tele.Shutdown(context.Background()); err != nil {
			log.Warn("Error during telemetry shutdown", zap.Error(err))
		}

		log.Info("Server shutdown complete")
		return nil
	}
}
