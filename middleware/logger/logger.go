package logger

import (
	"log/slog"
	"time"

	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/middleware"
	"github.com/sweetpotato0/socratiq/pkg/logging"
	"github.com/sweetpotato0/socratiq/pkg/telemetry"
)

// RequestLogger logs each request with its trace id, status and duration and
// records it in the request metrics
type RequestLogger struct {
	logger  *slog.Logger
	metrics *telemetry.Metrics
	now     func() time.Time
}

// NewRequestLogger creates a request logging middleware. Either argument may
// be nil; a nil logger resolves to the shared logger on every request.
func NewRequestLogger(logger *slog.Logger, metrics *telemetry.Metrics) *RequestLogger {
	return &RequestLogger{logger: logger, metrics: metrics, now: time.Now}
}

// Name returns the middleware name
func (m *RequestLogger) Name() string {
	return "RequestLogger"
}

// Execute logs the request once the rest of the chain has run
func (m *RequestLogger) Execute(ctx *middleware.Context, next middleware.Handler) error {
	start := m.now()
	err := next(ctx)
	elapsed := m.now().Sub(start)

	status := ctx.Status
	if err != nil {
		status = errorskg.StatusOf(err)
	}
	base := m.logger
	if base == nil {
		base = logging.WithComponent("api")
	}
	log := logging.FromContext(ctx.Context(), base)
	attrs := []any{"surface", ctx.Surface, "status", status, "duration_ms", elapsed.Milliseconds()}
	if err != nil {
		log.Error("request failed", append(attrs, "error", err)...)
	} else {
		log.Info("request handled", attrs...)
	}
	m.metrics.RecordRequest(ctx.Context(), ctx.Surface, err == nil, elapsed)
	return err
}
