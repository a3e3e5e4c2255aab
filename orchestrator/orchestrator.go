// Package orchestrator implements Sophie: it classifies a query, plans one
// task per domain agent, invokes the agents, and synthesizes their results.
package orchestrator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sweetpotato0/socratiq/agent"
	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/pkg/logging"
	"github.com/sweetpotato0/socratiq/pkg/telemetry"
	"github.com/sweetpotato0/socratiq/pkg/traceid"
	"github.com/sweetpotato0/socratiq/runner"
)

// Invoker runs an execution plan against the domain agents.
type Invoker interface {
	Invoke(ctx context.Context, plan runner.Plan, c runner.Context) []agent.Result
	// MissingTargets names the configuration entries of unreachable agents.
	MissingTargets() []string
}

// Orchestrator answers cross-domain questions.
type Orchestrator struct {
	classifier  *Classifier
	planner     *Planner
	synthesizer *Synthesizer
	invoker     Invoker
	triggers    []string
	metrics     *telemetry.Metrics
	logger      *slog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSequentialTriggers replaces the fallback classifier trigger terms.
func WithSequentialTriggers(terms ...string) Option {
	return func(o *Orchestrator) {
		o.triggers = terms
	}
}

// WithMetrics records token usage and request outcomes.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithLogger overrides the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates an orchestrator. llm serves classification, planning and
// synthesis.
func New(llm agent.LLMClient, invoker Invoker, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		invoker: invoker,
		logger:  logging.WithComponent("sophie"),
		tracer:  telemetry.Tracer("orchestrator"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.classifier = NewClassifier(llm, o.triggers, o.metrics, o.logger)
	o.planner = NewPlanner(llm, o.metrics, o.logger)
	o.synthesizer = NewSynthesizer(llm, o.metrics, o.logger)
	return o
}

// Classifier exposes the query classifier.
func (o *Orchestrator) Classifier() *Classifier { return o.classifier }

// Handle answers one request.
func (o *Orchestrator) Handle(ctx context.Context, req *Request) (resp *Response, err error) {
	start := o.now()
	if req == nil {
		req = &Request{}
	}
	ctx, traceID := traceid.Ensure(ctx, req.TraceID)
	logger := logging.FromContext(ctx, o.logger)

	ctx, span := o.tracer.Start(ctx, "sophie.Handle", trace.WithAttributes(attribute.String("trace_id", traceID)))
	var invoked []string
	defer func() {
		telemetry.End(span, err)
		o.audit(logger, req, invoked, o.now().Sub(start), err)
	}()

	query := strings.TrimSpace(req.Text())
	if query == "" {
		return nil, errorskg.Validation("Missing required field: message or query")
	}
	if missing := o.invoker.MissingTargets(); len(missing) > 0 {
		return nil, errorskg.MissingConfig(missing...)
	}

	logger.Info("classifying query", "query", query)
	plan := o.classifier.Classify(ctx, query)
	logger.Info("agent plan determined", "agents", plan.Agents, "pattern", plan.InvocationPattern)
	span.SetAttributes(
		attribute.StringSlice("agents", plan.Agents),
		attribute.String("pattern", string(plan.InvocationPattern)),
	)

	var results []agent.Result
	if len(plan.Agents) == 0 || plan.InvocationPattern == PatternNone {
		logger.Info("responding directly without invoking agents")
	} else {
		exec := o.planner.Plan(ctx, query, plan)
		logger.Info("execution plan created", "agent_tasks", exec.Tasks)
		results = o.invoker.Invoke(ctx, exec, runner.Context{
			OriginalQuery: query,
			AssetContext:  req.AssetContext,
			TraceID:       traceID,
		})
		logger.Info("agent responses received", "response_count", len(results))
	}
	invoked = make([]string, 0, len(results))
	for _, res := range results {
		invoked = append(invoked, res.Agent)
	}

	synthesis, err := o.synthesizer.Synthesize(ctx, query, results, traceID)
	if err != nil {
		return nil, err
	}
	elapsed := o.now().Sub(start)
	logger.Info("synthesis complete", "confidence", synthesis.Confidence, "processing_time_ms", elapsed.Milliseconds())

	return &Response{
		Synthesis: *synthesis,
		Metadata: Metadata{
			ProcessingTimeMs:        elapsed.Milliseconds(),
			AgentsInvoked:           invoked,
			InvocationPattern:       plan.InvocationPattern,
			ClassificationReasoning: plan.Reasoning,
		},
	}, nil
}

func (o *Orchestrator) audit(logger *slog.Logger, req *Request, agents []string, elapsed time.Duration, err error) {
	attrs := []any{
		"user_id", req.UserID,
		"asset_id", req.AssetID,
		"agents", agents,
		"duration_ms", elapsed.Milliseconds(),
		"success", err == nil,
	}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
	}
	logger.Info("audit", attrs...)
}
