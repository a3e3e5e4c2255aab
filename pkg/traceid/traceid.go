// Package traceid generates request trace ids and carries them through contexts.
package traceid

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Header is the HTTP header used to propagate trace ids between services.
const Header = "X-Trace-Id"

type ctxKey struct{}

// New returns an id of the form trace-<unix millis>-<8 hex chars>.
func New() string {
	return NewAt(time.Now())
}

// NewAt is New with an explicit clock reading.
func NewAt(now time.Time) string {
	return fmt.Sprintf("trace-%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}

// WithTraceID stores id in ctx.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the trace id stored in ctx, or "".
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Ensure returns ctx carrying id. An empty id reuses the one already in ctx or
// generates a fresh one.
func Ensure(ctx context.Context, id string) (context.Context, string) {
	if id == "" {
		id = FromContext(ctx)
	}
	if id == "" {
		id = New()
	}
	return WithTraceID(ctx, id), id
}
