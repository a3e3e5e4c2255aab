// Package middleware runs inbound agent and orchestrator payloads through an
// ordered chain before the final handler.
package middleware

import (
	"context"
	"errors"
)

var (
	// ErrTooManyRequests indicates the in-flight limit has been reached
	ErrTooManyRequests = errors.New("too many concurrent requests")

	// ErrPayloadTooLarge indicates the inbound payload exceeds the size limit
	ErrPayloadTooLarge = errors.New("request body too large")
)

// Context represents one inbound request moving through the chain
type Context struct {
	// Surface names the entry point, "sophie" or "agent:<NAME>"
	Surface string

	// Payload is the raw inbound body; enrichers may replace it with the
	// unwrapped request
	Payload []byte

	// TraceID correlates logs and error bodies for this request
	TraceID string

	// Status and Body are the rendered response
	Status int
	Body   []byte

	// Metadata for passing data between middlewares
	Metadata map[string]any

	context context.Context
}

// NewContext creates a middleware context for payload arriving on surface
func NewContext(ctx context.Context, surface string, payload []byte) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{
		Surface:  surface,
		Payload:  payload,
		Metadata: make(map[string]any),
		context:  ctx,
	}
}

// Context returns the underlying context.Context
func (c *Context) Context() context.Context {
	if c.context == nil {
		return context.Background()
	}
	return c.context
}

// SetContext replaces the underlying context.Context
func (c *Context) SetContext(ctx context.Context) {
	c.context = ctx
}

// Middleware defines the interface for middleware components
type Middleware interface {
	// Name returns the name of the middleware for logging and debugging
	Name() string

	// Execute runs the middleware logic. Returning an error stops the chain.
	Execute(ctx *Context, next Handler) error
}

// Handler is the function called to pass control to the next middleware
type Handler func(*Context) error

// Chain represents a sequence of middleware to be executed
type Chain struct {
	middlewares []Middleware
}

// NewChain creates a new middleware chain
func NewChain(middlewares ...Middleware) *Chain {
	return &Chain{middlewares: middlewares}
}

// Add appends a middleware to the chain
func (c *Chain) Add(m Middleware) *Chain {
	c.middlewares = append(c.middlewares, m)
	return c
}

// Names lists the middleware names in execution order
func (c *Chain) Names() []string {
	out := make([]string, len(c.middlewares))
	for i, m := range c.middlewares {
		out[i] = m.Name()
	}
	return out
}

// Execute runs all middlewares in the chain, then final
func (c *Chain) Execute(ctx *Context, final Handler) error {
	return c.execute(ctx, 0, final)
}

func (c *Chain) execute(ctx *Context, index int, final Handler) error {
	if index >= len(c.middlewares) {
		return final(ctx)
	}
	next := func(ctx *Context) error {
		return c.execute(ctx, index+1, final)
	}
	return c.middlewares[index].Execute(ctx, next)
}
