package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HealthPath is excluded from tracing
const HealthPath = "/api/v1/health"

// Tracing returns otelgin middleware that names spans "METHOD route" and
// skips health probes. Disabled tracing yields a pass-through.
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return passThrough
	}

	return otelgin.Middleware(serviceName,
		otelgin.WithSpanNameFormatter(func(c *gin.Context) string {
			return c.Request.Method + " " + routePattern(c)
		}),
		otelgin.WithGinFilter(func(c *gin.Context) bool {
			return c.FullPath() != HealthPath
		}),
	)
}

// SpanEnricher adds request attributes to the active span and marks 4xx/5xx
// responses as errors. Place it after Tracing, RequestID and the JWT middleware.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		if id := GetRequestID(c); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		if subject := GetJWTSubject(c); subject != "" {
			span.SetAttributes(attribute.String("subject", subject))
		}

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
