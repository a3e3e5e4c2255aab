package errorhandler

import (
	"github.com/sweetpotato0/socratiq/middleware"
)

// RenderFunc writes the error response for err into ctx
type RenderFunc func(ctx *middleware.Context, err error)

// ErrorHandler converts downstream errors into a rendered response
type ErrorHandler struct {
	render RenderFunc
}

// NewErrorHandler creates an error handling middleware
func NewErrorHandler(render RenderFunc) *ErrorHandler {
	return &ErrorHandler{render: render}
}

// Name returns the middleware name
func (m *ErrorHandler) Name() string {
	return "ErrorHandler"
}

// Execute renders errors from downstream middlewares and stops them from
// propagating. Without a renderer the error is returned unchanged.
func (m *ErrorHandler) Execute(ctx *middleware.Context, next middleware.Handler) error {
	err := next(ctx)
	if err == nil || m.render == nil {
		return err
	}
	m.render(ctx, err)
	return nil
}
