package cmd

import (
	"github.com/akarpov/weather-pipeline/internal/forecast"
	"github.com/akarpov/weather-pipeline/internal/server"
	"github.com/akarpov/weather-pipeline/internal/server/handlers"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Start the forecast stage",
	Long:  `Start the HTTP server that fetches weather data from the configured provider, normalizes it into the canonical document, and falls back to synthetic data on provider failure.`,
	RunE:  runForecast,
}

func runForecast(cmd *cobra.Command, args []string) error {
	tele := newTelemetry(cmd.Context(), "weather-forecast")

	keyed := cfg.Weather.APIKey != "" && cfg.Weather.APIKey != "mock"
	log.Info("Starting forecast stage",
		zap.String("config_path", configPath),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Bool("keyed_provider", keyed),
		zap.Int("server_port", cfg.Server.Port))

	svc := forecast.NewService(cfg.Weather, log, tele)

	srv := server.New(cfg.Server, log, tele)

	fc := handlers.NewForecastHandler(svc, log)
	health := handlers.NewHealthHandler()

	engine := srv.Engine()
	engine.GET("/forecast", fc.GetForecast)
	engine.POST("/forecast", fc.GetForecast)
	engine.GET("/health", health.Health)
	engine.GET("/health/live", health.Liveness)
	engine.GET("/health/ready", health.Readiness)

	return runServer(cmd, srv, tele)
}
