package server

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/sweetpotato0/socratiq/pkg/logging"
	"github.com/sweetpotato0/socratiq/pkg/traceid"
)

const traceKey = "trace_id"

// traceMiddleware adopts the inbound X-Trace-Id header or generates one,
// extracts the otel span context, echoes the id and logs the request.
func traceMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, id := traceid.Ensure(ctx, c.GetHeader(traceid.Header))
		c.Request = c.Request.WithContext(ctx)
		c.Set(traceKey, id)
		c.Header(traceid.Header, id)

		c.Next()

		logging.FromContext(ctx, logger).Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

func traceFrom(c *gin.Context) string {
	if id := c.GetString(traceKey); id != "" {
		return id
	}
	return traceid.FromContext(c.Request.Context())
}
