package forecast

import (
	"context"
	"time"

	"github.com/akarpov/weather-pipeline/internal/config"
	"github.com/akarpov/weather-pipeline/internal/query"
	"github.com/akarpov/weather-pipeline/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Service is the stage-2 orchestrator: select a provider, fetch, normalize,
// and fall back to synthetic data on any provider failure. Given a valid
// query it always produces a document; provider outages are visible only in
// the data_source field and the logs.
type Service struct {
	cfg       config.WeatherConfig
	yandex    *YandexClient
	openMeteo *OpenMeteoClient
	synthetic *SyntheticGenerator
	logger    *zap.Logger
	tele      *telemetry.Telemetry
	now       func() time.Time
}

func NewService(cfg config.WeatherConfig, logger *zap.Logger, tele *telemetry.Telemetry) *Service {
	return &Service{
		cfg:       cfg,
		yandex:    NewYandexClient(cfg, logger, tele),
		openMeteo: NewOpenMeteoClient(cfg, logger, tele),
		synthetic: NewSyntheticGenerator(),
		logger:    logger,
		tele:      tele,
		now:       time.Now,
	}
}

// keyedProviderConfigured reports whether the primary provider can be used.
// The literal "mock" key forces the key-free path.
func (s *Service) keyedProviderConfigured() bool {
	return s.cfg.APIKey != "" && s.cfg.APIKey != "mock"
}

// GetForecast runs the provider chain for an already validated query.
func (s *Service) GetForecast(ctx context.Context, q query.ForecastQuery) Document {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "forecast.GetForecast")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", q.Latitude),
		attribute.Float64("lon", q.Longitude),
		attribute.Int("days", q.Days),
		attribute.String("request.id", q.RequestID),
	)

	reqLogger := s.logger.With(zap.String("request_id", q.RequestID))

	var (
		doc Document
		err error
	)

	if s.keyedProviderConfigured() {
		doc, err = s.fetchYandex(ctx, q)
	} else {
		reqLogger.Info("No weather API key configured, using key-free provider")
		doc, err = s.fetchOpenMeteo(ctx, q)
	}

	if err != nil {
		reqLogger.Warn("Provider failed, falling back to synthetic forecast",
			zap.Error(err),
			zap.Float64("lat", q.Latitude),
			zap.Float64("lon", q.Longitude))
		s.tele.RecordError(ctx, err, nil)

		doc = s.synthetic.Generate(q.Latitude, q.Longitude, q.Days)
	}

	doc.RequestID = q.RequestID

	span.SetAttributes(
		attribute.String("data_source", doc.DataSource),
		attribute.Int("forecast_days", doc.ForecastDays),
	)

	reqLogger.Info("Forecast produced",
		zap.String("data_source", doc.DataSource),
		zap.Int("forecast_days", doc.ForecastDays))

	return doc
}

func (s *Service) fetchYandex(ctx context.Context, q query.ForecastQuery) (Document, error) {
	payload, err := s.yandex.Fetch(ctx, q)
	if err != nil {
		return Document{}, err
	}
	return NormalizeYandex(payload, q.Days, s.now()), nil
}

func (s *Service) fetchOpenMeteo(ctx context.Context, q query.ForecastQuery) (Document, error) {
	payload, err := s.openMeteo.Fetch(ctx, q)
	if err != nil {
		return Document{}, err
	}
	return NormalizeOpenMeteo(payload, q.Days, q.Latitude, q.Longitude, s.now()), nil
}
