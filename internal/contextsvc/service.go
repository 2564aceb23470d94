package contextsvc

import (
	"context"
	"errors"
	"net/http"

	"github.com/akarpov/weather-pipeline/internal/query"
	"github.com/akarpov/weather-pipeline/internal/stats"
	"github.com/akarpov/weather-pipeline/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Service is the stage-1 orchestrator: validate, record telemetry
// best-effort, invoke the forecast stage, shape the response.
type Service struct {
	stats   stats.Recorder
	invoker Invoker
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

func NewService(recorder stats.Recorder, invoker Invoker, logger *zap.Logger, tele *telemetry.Telemetry) *Service {
	return &Service{
		stats:   recorder,
		invoker: invoker,
		logger:  logger,
		tele:    tele,
	}
}

// Handle processes one gateway event and returns the response status and
// body. ClientIP is the already-resolved forwarded address.
func (s *Service) Handle(ctx context.Context, raw query.RawInput, clientIP string) (int, map[string]interface{}) {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "contextsvc.Handle")
	defer span.End()

	q, err := query.ParseQuery(raw)
	if err != nil {
		s.logger.Warn("Validation failed", zap.Error(err))
		span.SetAttributes(attribute.Bool("error", true))
		return http.StatusBadRequest, map[string]interface{}{"error": err.Error()}
	}

	reqLogger := s.logger.With(zap.String("request_id", q.RequestID))
	span.SetAttributes(
		attribute.String("request.id", q.RequestID),
		attribute.Float64("lat", q.Latitude),
		attribute.Float64("lon", q.Longitude),
		attribute.Int("days", q.Days),
	)

	reqLogger.Info("Request validated",
		zap.String("user", q.UserID),
		zap.Float64("lat", q.Latitude),
		zap.Float64("lon", q.Longitude),
		zap.Int("days", q.Days),
		zap.String("client_ip", clientIP))

	// Best effort: a telemetry failure must never alter the response.
	if err := s.stats.Record(ctx, stats.Record{
		UserID:    q.UserID,
		Latitude:  q.Latitude,
		Longitude: q.Longitude,
		Days:      q.Days,
		ClientIP:  clientIP,
		RequestID: q.RequestID,
	}); err != nil {
		reqLogger.Error("Telemetry write failed", zap.Error(err))
	}

	body, code, err := s.invoker.Invoke(ctx, q)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			reqLogger.Error("Forecast backend not configured")
			return http.StatusInternalServerError,
				map[string]interface{}{"error": "forecast backend not configured"}
		}
		reqLogger.Error("Forecast invocation failed", zap.Error(err))
		return http.StatusInternalServerError,
			map[string]interface{}{"error": "internal server error"}
	}

	out := map[string]interface{}{
		"req_id": q.RequestID,
		"requested": map[string]interface{}{
			"lat":     q.Latitude,
			"lon":     q.Longitude,
			"days":    q.Days,
			"user_id": q.UserID,
		},
		"result": body,
	}

	status := shapeStatus(code)
	reqLogger.Info("Request completed",
		zap.Int("forecast_status", code),
		zap.Int("status", status))
	span.SetAttributes(attribute.Int("status", status))

	return status, out
}

// shapeStatus mirrors the forecast stage's status: 200 stays 200, 4xx pass
// through, anything 500+ is reported as 502.
func shapeStatus(forecastStatus int) int {
	switch {
	case forecastStatus == http.StatusOK:
		return http.StatusOK
	case forecastStatus >= 500:
		return http.StatusBadGateway
	default:
		return forecastStatus
	}
}
