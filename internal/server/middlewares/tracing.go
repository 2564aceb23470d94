package middlewares

import (
	"github.com/akarpov/weather-pipeline/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
)

// Tracing opens a span per request, continuing a trace propagated by the
// caller, and stores the span context on the request.
func Tracing(tele *telemetry.Telemetry) gin.HandlerFunc {
	propagator := otel.GetTextMapPropagator()

	return func(c *gin.Context) {
		tracer := tele.GetTracer()

		ctx := propagator.Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

		spanName := c.Request.Method + " " + c.FullPath()
		ctx, span := tracer.Start(ctx, spanName)
		span.SetAttributes(
			attribute.String("request.id", GetRequestID(c)),
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
			attribute.String("remote_addr", c.ClientIP()),
		)

		c.Request = c.Request.WithContext(ctx)

		defer func() {
			span.SetAttributes(attribute.Int("http.status_code", c.Writer.Status()))
			if c.Writer.Status() >= 400 {
				span.SetAttributes(attribute.Bool("error", true))
			}
			span.End()
		}()

		c.Next()
	}
}
