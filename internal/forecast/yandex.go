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

// YandexClient calls the keyed Yandex Weather forecast API. One attempt per
// request, no retries.
type YandexClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

type YandexPayload struct {
	Info      YandexInfo          `json:"info"`
	Fact      *YandexFact         `json:"fact"`
	Forecasts []YandexForecastDay `json:"forecasts"`
}

type YandexInfo struct {
	Lat    float64       `json:"lat"`
	Lon    float64       `json:"lon"`
	TZInfo *YandexTZInfo `json:"tzinfo"`
}

type YandexTZInfo struct {
	Name string `json:"name"`
}

// YandexFact carries current conditions, considered more accurate than the
// daily aggregate for "today".
type YandexFact struct {
	Temp      *float64 `json:"temp"`
	FeelsLike *float64 `json:"feels_like"`
}

type YandexForecastDay struct {
	Date  string      `json:"date"`
	Parts YandexParts `json:"parts"`
}

type YandexParts struct {
	Day      *YandexDayPart `json:"day"`
	DayShort *YandexDayPart `json:"day_short"`
}

type YandexDayPart struct {
	TempAvg    *float64 `json:"temp_avg"`
	TempMin    *float64 `json:"temp_min"`
	TempMax    *float64 `json:"temp_max"`
	FeelsLike  *float64 `json:"feels_like"`
	Condition  string   `json:"condition"`
	Humidity   *int     `json:"humidity"`
	PressureMM *int     `json:"pressure_mm"`
	WindSpeed  *float64 `json:"wind_speed"`
	WindDir    string   `json:"wind_dir"`
}

func NewYandexClient(cfg config.WeatherConfig, logger *zap.Logger, tele *telemetry.Telemetry) *YandexClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if cfg.Timeout <= 0 {
		timeout = 8 * time.Second
	}

	return &YandexClient{
		baseURL: cfg.YandexURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		tele:    tele,
	}
}

func (c *YandexClient) Name() string {
	return SourceYandex
}

func (c *YandexClient) Fetch(ctx context.Context, q query.ForecastQuery) (*YandexPayload, error) {
	tracer := c.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "yandex.Fetch")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", q.Latitude),
		attribute.Float64("lon", q.Longitude),
		attribute.Int("days", q.Days),
	)

	u, err := url.Parse(fmt.Sprintf("%s/v2/forecast", c.baseURL))
	if err != nil {
		return nil, providerErr(c.Name(), 0, err.Error())
	}

	limit := q.Days
	if limit > 7 {
		limit = 7
	}

	params := u.Query()
	params.Set("lat", strconv.FormatFloat(q.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(q.Longitude, 'f', -1, 64))
	params.Set("lang", "ru_RU")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("hours", "false")
	params.Set("extra", "false")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, providerErr(c.Name(), 0, err.Error())
	}
	req.Header.Set("X-Yandex-API-Key", c.apiKey)

	c.logger.Debug("Fetching Yandex forecast",
		zap.String("request_id", q.RequestID),
		zap.Float64("lat", q.Latitude),
		zap.Float64("lon", q.Longitude),
		zap.Int("limit", limit))

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

	var payload YandexPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, providerErr(c.Name(), 0, "decode: "+err.Error())
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("forecasts", len(payload.Forecasts)),
	)

	return &payload, nil
}
