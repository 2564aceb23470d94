package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/akarpov/weather-pipeline/internal/config"
	"github.com/akarpov/weather-pipeline/internal/query"
	"github.com/akarpov/weather-pipeline/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// OpenMeteoClient calls the key-free Open-Meteo daily-aggregate API.
type OpenMeteoClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
	tele    *telemetry.Telemetry
	now     func() time.Time
}

// OpenMeteoPayload holds the parallel daily arrays. Entries are pointers:
// the API reports null for days it cannot aggregate.
type OpenMeteoPayload struct {
	Daily OpenMeteoDaily `json:"daily"`
}

type OpenMeteoDaily struct {
	Time             []string   `json:"time"`
	TemperatureMax   []*float64 `json:"temperature_2m_max"`
	TemperatureMin   []*float64 `json:"temperature_2m_min"`
	PrecipitationSum []*float64 `json:"precipitation_sum"`
	WindSpeedMax     []*float64 `json:"wind_speed_10m_max"`
}

func NewOpenMeteoClient(cfg config.WeatherConfig, logger *zap.Logger, tele *telemetry.Telemetry) *OpenMeteoClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if cfg.Timeout <= 0 {
		timeout = 8 * time.Second
	}

	return &OpenMeteoClient{
		baseURL: cfg.OpenMeteoURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		tele:    tele,
		now:     time.Now,
	}
}

func (c *OpenMeteoClient) Name() string {
	return SourceOpenMeteo
}

func (c *OpenMeteoClient) Fetch(ctx context.Context, q query.ForecastQuery) (*OpenMeteoPayload, error) {
	tracer := c.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "openmeteo.Fetch")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", q.Latitude),
		attribute.Float64("lon", q.Longitude),
		attribute.Int("days", q.Days),
	)

	u, err := url.Parse(fmt.Sprintf("%s/v1/forecast", c.baseURL))
	if err != nil {
		return nil, providerErr(c.Name(), 0, err.Error())
	}

	start := c.now()
	end := start.AddDate(0, 0, q.Days-1)

	params := u.Query()
	params.Set("latitude", strconv.FormatFloat(q.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(q.Longitude, 'f', -1, 64))
	params.Set("start_date", start.Format("2006-01-02"))
	params.Set("end_date", end.Format("2006-01-02"))
	params.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum,wind_speed_10m_max")
	params.Set("timezone", "auto")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, providerErr(c.Name(), 0, err.Error())
	}

	c.logger.Debug("Fetching Open-Meteo forecast",
		zap.String("request_id", q.RequestID),
		zap.Float64("lat", q.Latitude),
		zap.Float64("lon", q.Longitude),
		zap.Int("days", q.Days))

	resp, err := c.client.Do(req)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, providerErr(c.Name(), 0, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		span.SetAttributes(
			attribute.Bool("success", false),
			attribute.Int("status_code", resp.StatusCode),
		)
		return nil, providerErr(c.Name(), resp.StatusCode, "unexpected status")
	}

	var payload OpenMeteoPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, providerErr(c.Name(), 0, "decode: "+err.Error())
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("days_returned", len(payload.Daily.Time)),
	)

	return &payload, nil
}
