package stats

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/akarpov/weather-pipeline/internal/config"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Record is one row of request telemetry. Append-only; persistence failures
// never affect the response.
type Record struct {
	UserID    string
	Latitude  float64
	Longitude float64
	Days      int
	ClientIP  string
	RequestID string
}

// Recorder is the telemetry sink contract. Implementations must be safe to
// call on every request.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS weather_requests (
	  id BIGSERIAL PRIMARY KEY,
	  ts_utc TIMESTAMP WITHOUT TIME ZONE NOT NULL DEFAULT (NOW() AT TIME ZONE 'UTC'),
	  user_id TEXT NOT NULL,
	  lat DOUBLE PRECISION NOT NULL,
	  lon DOUBLE PRECISION NOT NULL,
	  forecast_days INTEGER NOT NULL CHECK (forecast_days BETWEEN 1 AND 7),
	  ip_address TEXT,
	  req_id TEXT
	)`

const insertSQL = `
	INSERT INTO weather_requests (user_id, lat, lon, forecast_days, ip_address, req_id)
	VALUES ($1, $2, $3, $4, $5, $6)`

// PostgresRecorder writes one row per request. The connection is opened and
// closed per invocation; pooling is left to the external pooler the DSN
// points at.
type PostgresRecorder struct {
	cfg    config.DatabaseConfig
	logger *zap.Logger
}

func NewPostgresRecorder(cfg config.DatabaseConfig, logger *zap.Logger) *PostgresRecorder {
	return &PostgresRecorder{cfg: cfg, logger: logger}
}

func (r *PostgresRecorder) dsn() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(r.cfg.User),
		url.QueryEscape(r.cfg.Password),
		r.cfg.Host,
		r.cfg.Port,
		r.cfg.Name,
		r.cfg.SSLMode,
	)
}

func (r *PostgresRecorder) Record(ctx context.Context, rec Record) error {
	if !r.cfg.Enabled() {
		r.logger.Debug("Telemetry database not configured, skipping write",
			zap.String("request_id", rec.RequestID))
		return nil
	}

	start := time.Now()

	conn, err := pgx.Connect(ctx, r.dsn())
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	if _, err := conn.Exec(ctx, insertSQL,
		rec.UserID, rec.Latitude, rec.Longitude, rec.Days, rec.ClientIP, rec.RequestID,
	); err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	r.logger.Info("Telemetry row written",
		zap.String("request_id", rec.RequestID),
		zap.Duration("elapsed", time.Since(start)))

	return nil
}
