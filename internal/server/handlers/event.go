package handlers

import (
	"strings"

	"github.com/akarpov/weather-pipeline/internal/query"
	"github.com/gin-gonic/gin"
)

// rawInput adapts an HTTP request into the transport-agnostic gateway-event
// shape: query parameters, raw body, and an optional upstream request id.
func rawInput(c *gin.Context, requestID string) query.RawInput {
	params := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	var body []byte
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		body, _ = c.GetRawData()
	}

	return query.RawInput{
		Query:     params,
		Body:      body,
		RequestID: requestID,
	}
}

// clientIP resolves the forwarded client address: first X-Forwarded-For
// entry, then X-Real-IP, then "unknown".
func clientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}
	return "unknown"
}
