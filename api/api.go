// Package api decodes agent and orchestrator requests from their wire
// envelopes and encodes results and error bodies.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sweetpotato0/socratiq/agent"
	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/middleware"
	"github.com/sweetpotato0/socratiq/middleware/enricher"
	"github.com/sweetpotato0/socratiq/middleware/errorhandler"
	"github.com/sweetpotato0/socratiq/middleware/limiter"
	"github.com/sweetpotato0/socratiq/middleware/logger"
	"github.com/sweetpotato0/socratiq/middleware/validator"
	"github.com/sweetpotato0/socratiq/orchestrator"
	"github.com/sweetpotato0/socratiq/pkg/telemetry"
	"github.com/sweetpotato0/socratiq/pkg/traceid"
)

// SurfaceSophie names the orchestrator entry point in logs and metrics.
const SurfaceSophie = "sophie"

// AgentSurface names the entry point of one domain agent.
func AgentSurface(name string) string { return "agent:" + strings.ToUpper(name) }

// AgentHandler answers domain agent requests.
type AgentHandler interface {
	Handle(ctx context.Context, req *agent.Request) (*agent.Result, error)
}

// OrchestratorHandler answers orchestrator requests.
type OrchestratorHandler interface {
	Handle(ctx context.Context, req *orchestrator.Request) (*orchestrator.Response, error)
}

// Pipeline runs requests through the middleware chain and renders the
// response status and body.
type Pipeline struct {
	logger   *slog.Logger
	metrics  *telemetry.Metrics
	maxBytes int
	inFlight int
	extra    []middleware.Middleware
	now      func() time.Time
	chain    *middleware.Chain
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithMetrics records request counts and latency.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithMaxBytes rejects payloads larger than n bytes.
func WithMaxBytes(n int) Option {
	return func(p *Pipeline) { p.maxBytes = n }
}

// WithMaxInFlight rejects requests once n are being served.
func WithMaxInFlight(n int) Option {
	return func(p *Pipeline) { p.inFlight = n }
}

// WithMiddleware appends middlewares that run just before the handler.
func WithMiddleware(m ...middleware.Middleware) Option {
	return func(p *Pipeline) { p.extra = append(p.extra, m...) }
}

// NewPipeline builds the chain: error rendering, trace enrichment, request
// logging, in-flight limiting, payload validation, then any extras.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	p.chain = middleware.NewChain(
		errorhandler.NewErrorHandler(p.renderError),
		enricher.NewContextEnricher("TraceEnricher", unwrapAndTrace),
		logger.NewRequestLogger(p.logger, p.metrics),
		limiter.NewInFlightLimiter(p.inFlight),
		validator.NewPayloadValidator(validator.MaxBytes(p.maxBytes)),
	)
	for _, m := range p.extra {
		p.chain.Add(m)
	}
	return p
}

var defaultPipeline = NewPipeline()

// ServeAgent handles an agent event with the default pipeline.
func ServeAgent(ctx context.Context, h AgentHandler, surface string, raw []byte) (int, []byte) {
	return defaultPipeline.ServeAgent(ctx, h, surface, raw)
}

// ServeOrchestrator handles an orchestrator event with the default pipeline.
func ServeOrchestrator(ctx context.Context, h OrchestratorHandler, raw []byte) (int, []byte) {
	return defaultPipeline.ServeOrchestrator(ctx, h, raw)
}

// ServeAgent decodes an agent.Request from raw, calls h and returns the status
// and JSON body.
func (p *Pipeline) ServeAgent(ctx context.Context, h AgentHandler, surface string, raw []byte) (int, []byte) {
	return p.serve(ctx, surface, raw, func(c *middleware.Context) (any, error) {
		var req agent.Request
		if err := json.Unmarshal(c.Payload, &req); err != nil {
			return nil, errorskg.Validation(invalidJSON)
		}
		req.TraceID = c.TraceID
		return h.Handle(c.Context(), &req)
	})
}

// ServeOrchestrator decodes an orchestrator.Request from raw, calls h and
// returns the status and JSON body.
func (p *Pipeline) ServeOrchestrator(ctx context.Context, h OrchestratorHandler, raw []byte) (int, []byte) {
	return p.serve(ctx, SurfaceSophie, raw, func(c *middleware.Context) (any, error) {
		var req orchestrator.Request
		if err := json.Unmarshal(c.Payload, &req); err != nil {
			return nil, errorskg.Validation(invalidJSON)
		}
		req.TraceID = c.TraceID
		return h.Handle(c.Context(), &req)
	})
}

func (p *Pipeline) serve(ctx context.Context, surface string, raw []byte, call func(*middleware.Context) (any, error)) (int, []byte) {
	mc := middleware.NewContext(ctx, surface, raw)
	_ = p.chain.Execute(mc, func(c *middleware.Context) error {
		out, err := call(c)
		if err != nil {
			return err
		}
		body, err := json.Marshal(out)
		if err != nil {
			return errorskg.Internal(err)
		}
		c.Status, c.Body = http.StatusOK, body
		return nil
	})
	return mc.Status, mc.Body
}

func (p *Pipeline) renderError(c *middleware.Context, err error) {
	if c.TraceID == "" {
		c.TraceID = traceid.New()
	}
	body := NewErrorBody(err, c.TraceID, p.now())
	encoded, mErr := json.Marshal(body)
	if mErr != nil {
		encoded = []byte(`{"error":"InternalError","message":"Internal server error","statusCode":500}`)
	}
	c.Status, c.Body = body.StatusCode, encoded
}

// unwrapAndTrace replaces the payload with the unwrapped request and fixes the
// trace id: the payload traceId, else one already on the context, else a new
// one.
func unwrapAndTrace(c *middleware.Context) error {
	payload, err := ParseEvent(c.Payload)
	if err != nil {
		c.TraceID = traceid.FromContext(c.Context())
		if c.TraceID == "" {
			c.TraceID = traceid.New()
		}
		return err
	}
	c.Payload = payload
	ctx, id := traceid.Ensure(c.Context(), payloadTraceID(payload))
	c.SetContext(ctx)
	c.TraceID = id
	return nil
}
