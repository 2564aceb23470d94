package query

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// RawInput is the transport-agnostic view of an inbound gateway event. A
// value for each field is looked up in Query first, then in the JSON Body,
// then in the flat Fields map; the first hit wins.
type RawInput struct {
	Query     map[string]string
	Body      []byte
	Fields    map[string]interface{}
	RequestID string
}

// ForecastQuery is the validated request both stages operate on. Immutable
// once constructed.
type ForecastQuery struct {
	Latitude  float64
	Longitude float64
	Days      int
	UserID    string
	RequestID string
}

// ValidationError marks malformed or out-of-range input. It is the only
// error class surfaced to the client as a 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

const (
	DefaultDays   = 5
	DefaultUserID = "anonymous"
)

// ParseQuery normalizes the three transport shapes into one ForecastQuery
// and validates ranges. No upstream is ever contacted on the error path.
func ParseQuery(raw RawInput) (ForecastQuery, error) {
	fields := bodyFields(raw.Body)

	lat, ok := lookupFloat(raw, fields, "lat")
	if !ok {
		return ForecastQuery{}, invalid("lat/lon must be numeric")
	}
	lon, ok := lookupFloat(raw, fields, "lon")
	if !ok {
		return ForecastQuery{}, invalid("lat/lon must be numeric")
	}

	days := DefaultDays
	if v, present := lookup(raw, fields, "days"); present {
		d, ok := toInt(v)
		if !ok {
			return ForecastQuery{}, invalid("days must be integer")
		}
		days = d
	}

	q := ForecastQuery{
		Latitude:  lat,
		Longitude: lon,
		Days:      days,
		UserID:    DefaultUserID,
		RequestID: raw.RequestID,
	}

	if v, present := lookup(raw, fields, "user_id"); present {
		if s, ok := v.(string); ok && s != "" {
			q.UserID = s
		}
	}
	if q.RequestID == "" {
		if v, present := lookup(raw, fields, "request_id"); present {
			if s, ok := v.(string); ok {
				q.RequestID = s
			}
		}
	}
	if q.RequestID == "" {
		q.RequestID = uuid.New().String()
	}

	if err := validateRanges(q); err != nil {
		return ForecastQuery{}, err
	}

	return q, nil
}

// bodyFields decodes a JSON body into a flat map. Gateways sometimes wrap
// the JSON object in a JSON string; one level of unwrapping is tolerated.
func bodyFields(body []byte) map[string]interface{} {
	if len(body) == 0 {
		return nil
	}

	var m map[string]interface{}
	if err := json.Unmarshal(body, &m); err == nil {
		return m
	}

	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		if err := json.Unmarshal([]byte(s), &m); err == nil {
			return m
		}
	}

	return nil
}

func lookup(raw RawInput, body map[string]interface{}, key string) (interface{}, bool) {
	if raw.Query != nil {
		if v, ok := raw.Query[key]; ok && v != "" {
			return v, true
		}
	}
	if body != nil {
		if v, ok := body[key]; ok && v != nil {
			return v, true
		}
	}
	if raw.Fields != nil {
		if v, ok := raw.Fields[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func lookupFloat(raw RawInput, body map[string]interface{}, key string) (float64, bool) {
	v, ok := lookup(raw, body, key)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func toInt(v interface{}) (int, bool) {
	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) {
			return 0, false
		}
		return int(t), true
	case json.Number:
		n, err := t.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	default:
		return 0, false
	}
}
