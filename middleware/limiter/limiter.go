package limiter

import (
	"fmt"

	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/middleware"
)

// InFlightLimiter rejects requests once max requests are being served
type InFlightLimiter struct {
	slots chan struct{}
}

// NewInFlightLimiter creates a limiting middleware. A non-positive max
// disables the limit.
func NewInFlightLimiter(max int) *InFlightLimiter {
	if max <= 0 {
		return &InFlightLimiter{}
	}
	return &InFlightLimiter{slots: make(chan struct{}, max)}
}

// Name returns the middleware name
func (m *InFlightLimiter) Name() string {
	return "InFlightLimiter"
}

// Execute admits the request when a slot is free
func (m *InFlightLimiter) Execute(ctx *middleware.Context, next middleware.Handler) error {
	if m.slots == nil {
		return next(ctx)
	}
	select {
	case m.slots <- struct{}{}:
	default:
		return &errorskg.Error{
			Kind:    errorskg.KindInternal,
			Message: "Too many concurrent requests",
			Err:     fmt.Errorf("%w: %w", errorskg.ErrThrottled, middleware.ErrTooManyRequests),
		}
	}
	defer func() { <-m.slots }()
	return next(ctx)
}

// InFlight returns the number of requests currently admitted
func (m *InFlightLimiter) InFlight() int {
	return len(m.slots)
}
