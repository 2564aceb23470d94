package cmd

import (
	"github.com/akarpov/weather-pipeline/internal/contextsvc"
	"github.com/akarpov/weather-pipeline/internal/server"
	"github.com/akarpov/weather-pipeline/internal/server/handlers"
	"github.com/akarpov/weather-pipeline/internal/stats"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Start the request-facing context stage",
	Long:  `Start the HTTP server that validates weather queries, records request telemetry best-effort, and delegates to the forecast stage.`,
	RunE:  runContext,
}

func runContext(cmd *cobra.Command, args []string) error {
	tele := newTelemetry(cmd.Context(), "weather-context")

	log.Info("Starting context stage",
		zap.String("config_path", configPath),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Bool("database_enabled", cfg.Database.Enabled()),
		zap.Int("server_port", cfg.Server.Port))

	recorder := stats.NewPostgresRecorder(cfg.Database, log)
	invoker := contextsvc.NewHTTPInvoker(cfg.Forecast, log, tele)
	svc := contextsvc.NewService(recorder, invoker, log, tele)

	srv := server.New(cfg.Server, log, tele)

	weather := handlers.NewContextHandler(svc, log)
	health := handlers.NewHealthHandler()

	engine := srv.Engine()
	engine.GET("/weather", weather.GetWeather)
	engine.POST("/weather", weather.GetWeather)
	engine.GET("/health", health.Health)
	engine.GET("/health/live", health.Liveness)
	engine.GET("/health/ready", health.Readiness)

	return runServer(cmd, srv, tele)
}
