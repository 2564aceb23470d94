package contextsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/akarpov/weather-pipeline/internal/config"
	"github.com/akarpov/weather-pipeline/internal/query"
	"github.com/akarpov/weather-pipeline/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrNotConfigured means no forecast backend target exists at all: neither
// a direct URL nor a function ID.
var ErrNotConfigured = errors.New("forecast backend not configured")

// Invoker delivers a validated query to the forecast stage and returns the
// decoded body plus the upstream status. Transport failures come back as a
// 502-status error body, mirroring what a gateway would report; only a
// missing configuration is an error.
type Invoker interface {
	Invoke(ctx context.Context, q query.ForecastQuery) (map[string]interface{}, int, error)
}

// HTTPInvoker calls the forecast stage either over its direct URL (GET,
// payload in the query string) or through the function-platform API (POST
// JSON with a bearer credential when one can be obtained).
type HTTPInvoker struct {
	cfg    config.ForecastConfig
	client *http.Client
	meta   *http.Client
	logger *zap.Logger
	tele   *telemetry.Telemetry
}

func NewHTTPInvoker(cfg config.ForecastConfig, logger *zap.Logger, tele *telemetry.Telemetry) *HTTPInvoker {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if cfg.Timeout <= 0 {
		timeout = 8 * time.Second
	}

	return &HTTPInvoker{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		meta:   &http.Client{Timeout: 1500 * time.Millisecond},
		logger: logger,
		tele:   tele,
	}
}

func (i *HTTPInvoker) Invoke(ctx context.Context, q query.ForecastQuery) (map[string]interface{}, int, error) {
	tracer := i.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "contextsvc.InvokeForecast")
	defer span.End()

	reqLogger := i.logger.With(zap.String("request_id", q.RequestID))

	if i.cfg.URL != "" {
		span.SetAttributes(attribute.String("via", "direct_url"))
		reqLogger.Info("Calling forecast stage",
			zap.String("via", "direct_url"),
			zap.String("url", i.cfg.URL))

		body, code := i.get(ctx, q)

		span.SetAttributes(attribute.Int("status_code", code))
		reqLogger.Info("Forecast stage responded",
			zap.String("via", "direct_url"),
			zap.Int("status", code))
		return body, code, nil
	}

	if i.cfg.FunctionID == "" {
		span.SetAttributes(attribute.Bool("error", true))
		return nil, 0, ErrNotConfigured
	}

	target := fmt.Sprintf("%s/%s", strings.TrimRight(i.cfg.APIEndpoint, "/"), i.cfg.FunctionID)
	span.SetAttributes(attribute.String("via", "invoke"))
	reqLogger.Info("Calling forecast stage",
		zap.String("via", "invoke"),
		zap.String("url", target))

	body, code := i.post(ctx, target, q)

	span.SetAttributes(attribute.Int("status_code", code))
	reqLogger.Info("Forecast stage responded",
		zap.String("via", "invoke"),
		zap.Int("status", code))
	return body, code, nil
}

func payloadValues(q query.ForecastQuery) url.Values {
	v := url.Values{}
	v.Set("lat", strconv.FormatFloat(q.Latitude, 'f', -1, 64))
	v.Set("lon", strconv.FormatFloat(q.Longitude, 'f', -1, 64))
	v.Set("days", strconv.Itoa(q.Days))
	v.Set("request_id", q.RequestID)
	return v
}

func (i *HTTPInvoker) get(ctx context.Context, q query.ForecastQuery) (map[string]interface{}, int) {
	target := i.cfg.URL
	if strings.Contains(target, "?") {
		target += "&" + payloadValues(q).Encode()
	} else {
		target += "?" + payloadValues(q).Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return networkError(err), http.StatusBadGateway
	}

	return i.do(req)
}

func (i *HTTPInvoker) post(ctx context.Context, target string, q query.ForecastQuery) (map[string]interface{}, int) {
	payload := map[string]interface{}{
		"lat":        q.Latitude,
		"lon":        q.Longitude,
		"days":       q.Days,
		"request_id": q.RequestID,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return networkError(err), http.StatusBadGateway
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(data))
	if err != nil {
		return networkError(err), http.StatusBadGateway
	}
	req.Header.Set("Content-Type", "application/json")

	if tok := i.bearerToken(ctx, q.RequestID); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	return i.do(req)
}

func (i *HTTPInvoker) do(req *http.Request) (map[string]interface{}, int) {
	resp, err := i.client.Do(req)
	if err != nil {
		return networkError(err), http.StatusBadGateway
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return networkError(err), http.StatusBadGateway
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		// Non-JSON upstream body: keep a truncated copy for the caller.
		s := string(raw)
		if len(s) > 1000 {
			s = s[:1000]
		}
		return map[string]interface{}{"raw": s}, resp.StatusCode
	}

	return body, resp.StatusCode
}

func networkError(err error) map[string]interface{} {
	return map[string]interface{}{"error": "network", "detail": err.Error()}
}

// bearerToken returns the credential for platform invocations: config
// first, then the instance metadata endpoint. Any failure falls through
// silently to "no credential".
func (i *HTTPInvoker) bearerToken(ctx context.Context, requestID string) string {
	if i.cfg.IAMToken != "" {
		i.logger.Debug("IAM token from config", zap.String("request_id", requestID))
		return i.cfg.IAMToken
	}

	if i.cfg.MetadataURL == "" {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.cfg.MetadataURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Metadata-Flavor", "Google")

	resp, err := i.meta.Do(req)
	if err != nil {
		i.logger.Debug("Metadata endpoint unavailable",
			zap.String("request_id", requestID),
			zap.Error(err))
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}

	if body.AccessToken != "" {
		i.logger.Debug("IAM token from metadata", zap.String("request_id", requestID))
	}
	return body.AccessToken
}
