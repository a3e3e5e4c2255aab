package enricher

import (
	"github.com/sweetpotato0/socratiq/middleware"
)

// EnricherFunc enriches the context
type EnricherFunc func(*middleware.Context) error

// ContextEnricher adds request-derived data, such as the trace id or the
// unwrapped payload, to the middleware context
type ContextEnricher struct {
	name     string
	enricher EnricherFunc
}

// NewContextEnricher creates a context enriching middleware
func NewContextEnricher(name string, enricher EnricherFunc) *ContextEnricher {
	if name == "" {
		name = "ContextEnricher"
	}
	return &ContextEnricher{name: name, enricher: enricher}
}

// Name returns the middleware name
func (m *ContextEnricher) Name() string {
	return m.name
}

// Execute enriches the context
func (m *ContextEnricher) Execute(ctx *middleware.Context, next middleware.Handler) error {
	if m.enricher != nil {
		if err := m.enricher(ctx); err != nil {
			return err
		}
	}
	return next(ctx)
}
