package forecast

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akarpov/weather-pipeline/internal/config"
	"github.com/akarpov/weather-pipeline/internal/query"
	"github.com/akarpov/weather-pipeline/pkg/telemetry"
	"go.uber.org/zap/zaptest"
)

const yandexResponse = `{
	"info": {"lat": 55.75, "lon": 37.62, "tzinfo": {"name": "Europe/Moscow"}},
	"fact": {"temp": 21, "feels_like": 19},
	"forecasts": [
		{"date": "2025-06-10", "parts": {"day": {"temp_avg": 18, "temp_min": 12, "feels_like": 17, "condition": "clear"}, "day_short": {"temp_max": 23}}},
		{"date": "2025-06-11", "parts": {"day": {"temp_avg": 19, "temp_min": 13, "condition": "rain"}, "day_short": {"temp_max": 24}}},
		{"date": "2025-06-12", "parts": {"day": {"temp_avg": 17, "temp_min": 11, "condition": "cloudy"}, "day_short": {"temp_max": 21}}}
	]
}`

const openMeteoResponse = `{
	"daily": {
		"time": ["2025-06-10", "2025-06-11", "2025-06-12"],
		"temperature_2m_max": [24, 25, 23],
		"temperature_2m_min": [14, 15, 13],
		"precipitation_sum": [0, 1.2, 0],
		"wind_speed_10m_max": [18.5, 12, 9]
	}
}`

func newTestService(t *testing.T, cfg config.WeatherConfig) *Service {
	t.Helper()
	return NewService(cfg, zaptest.NewLogger(t), &telemetry.Telemetry{})
}

func testQuery() query.ForecastQuery {
	return query.ForecastQuery{
		Latitude:  55.75,
		Longitude: 37.62,
		Days:      3,
		UserID:    "anonymous",
		RequestID: "test-req",
	}
}

func TestGetForecastPrimaryProvider(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Yandex-API-Key")
		if r.URL.Path != "/v2/forecast" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "3" {
			t.Errorf("expected limit 3, got %s", r.URL.Query().Get("limit"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(yandexResponse))
	}))
	defer srv.Close()

	svc := newTestService(t, config.WeatherConfig{
		APIKey:    "secret-key",
		YandexURL: srv.URL,
		Timeout:   2,
	})

	doc := svc.GetForecast(context.Background(), testQuery())

	if gotKey != "secret-key" {
		t.Errorf("API key header not sent, got %q", gotKey)
	}
	if doc.DataSource != SourceYandex {
		t.Errorf("expected Yandex source, got %q", doc.DataSource)
	}
	if doc.ForecastDays != 3 || len(doc.Forecast) != 3 {
		t.Fatalf("expected 3 days, got %d", doc.ForecastDays)
	}
	for i := 1; i < len(doc.Forecast); i++ {
		if doc.Forecast[i].Date <= doc.Forecast[i-1].Date {
			t.Errorf("dates not ascending: %s then %s", doc.Forecast[i-1].Date, doc.Forecast[i].Date)
		}
	}
	if doc.RequestID != "test-req" {
		t.Errorf("request id not propagated, got %q", doc.RequestID)
	}
}

func TestGetForecastSecondaryWhenNoKey(t *testing.T) {
	yandexCalled := false
	yandexSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		yandexCalled = true
	}))
	defer yandexSrv.Close()

	meteoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("timezone") != "auto" {
			t.Errorf("expected timezone=auto, got %s", r.URL.Query().Get("timezone"))
		}
		if r.URL.Query().Get("start_date") == "" || r.URL.Query().Get("end_date") == "" {
			t.Error("expected start/end dates")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(openMeteoResponse))
	}))
	defer meteoSrv.Close()

	svc := newTestService(t, config.WeatherConfig{
		APIKey:       "",
		YandexURL:    yandexSrv.URL,
		OpenMeteoURL: meteoSrv.URL,
		Timeout:      2,
	})

	doc := svc.GetForecast(context.Background(), testQuery())

	if yandexCalled {
		t.Error("primary provider must not be called without a key")
	}
	if doc.DataSource != SourceOpenMeteo {
		t.Errorf("expected Open-Meteo source, got %q", doc.DataSource)
	}
	if doc.ForecastDays != 3 {
		t.Errorf("expected 3 days, got %d", doc.ForecastDays)
	}
}

func TestGetForecastMockKeyForcesSecondary(t *testing.T) {
	meteoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(openMeteoResponse))
	}))
	defer meteoSrv.Close()

	svc := newTestService(t, config.WeatherConfig{
		APIKey:       "mock",
		OpenMeteoURL: meteoSrv.URL,
		Timeout:      2,
	})

	doc := svc.GetForecast(context.Background(), testQuery())
	if doc.DataSource != SourceOpenMeteo {
		t.Errorf("mock key should force the key-free provider, got %q", doc.DataSource)
	}
}

func TestGetForecastFallbackOnProviderFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		close   bool
	}{
		{
			name: "http 500",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"info": [broken`))
			},
		},
		{
			name:    "connection refused",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			close:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			if tt.close {
				srv.Close()
			} else {
				defer srv.Close()
			}

			svc := newTestService(t, config.WeatherConfig{
				APIKey:    "key",
				YandexURL: srv.URL,
				Timeout:   2,
			})

			doc := svc.GetForecast(context.Background(), testQuery())

			if doc.DataSource != SourceSynthetic {
				t.Errorf("expected synthetic fallback, got %q", doc.DataSource)
			}
			if doc.ForecastDays != 3 || len(doc.Forecast) != 3 {
				t.Errorf("fallback must honor requested days, got %d", doc.ForecastDays)
			}
			if doc.RequestID != "test-req" {
				t.Errorf("request id lost in fallback: %q", doc.RequestID)
			}
		})
	}
}

func TestGetForecastDocumentInvariants(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(yandexResponse))
	}))
	defer srv.Close()

	svc := newTestService(t, config.WeatherConfig{APIKey: "key", YandexURL: srv.URL, Timeout: 2})

	for days := 1; days <= 3; days++ {
		q := testQuery()
		q.Days = days
		doc := svc.GetForecast(context.Background(), q)
		if doc.ForecastDays != len(doc.Forecast) {
			t.Errorf("forecast_days %d != len %d", doc.ForecastDays, len(doc.Forecast))
		}
		if len(doc.Forecast) > days {
			t.Errorf("forecast longer than requested: %d > %d", len(doc.Forecast), days)
		}
	}
}
