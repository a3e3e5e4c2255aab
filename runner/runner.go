// Package runner invokes domain agents for an execution plan, either
// concurrently or chained in plan order.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sweetpotato0/socratiq/agent"
	"github.com/sweetpotato0/socratiq/config"
	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/pkg/logging"
	"github.com/sweetpotato0/socratiq/pkg/telemetry"
	"github.com/sweetpotato0/socratiq/rag/document"
	"github.com/sweetpotato0/socratiq/transport"
)

// Pattern selects how agents of a plan are invoked.
type Pattern string

const (
	PatternParallel   Pattern = "parallel"
	PatternSequential Pattern = "sequential"
	PatternNone       Pattern = "none"
)

// ParsePattern maps model output onto a known pattern, defaulting to parallel.
func ParsePattern(s string) Pattern {
	switch Pattern(strings.ToLower(strings.TrimSpace(s))) {
	case PatternSequential:
		return PatternSequential
	case PatternNone:
		return PatternNone
	}
	return PatternParallel
}

// Plan is the ordered agent list with one task per agent.
type Plan struct {
	Agents  []string          `json:"agents"`
	Tasks   map[string]string `json:"agentTasks"`
	Pattern Pattern           `json:"invocationPattern"`
}

// Context is the request-wide state passed to every agent.
type Context struct {
	OriginalQuery string
	AssetContext  agent.AssetContext
	TraceID       string
}

const priorContextChars = 500

// Invoker dispatches agent requests over a transport.
type Invoker struct {
	transport      transport.Invoker
	targets        map[string]string
	timeout        time.Duration
	maxConcurrency int
	metrics        *telemetry.Metrics
	logger         *slog.Logger
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithTimeout bounds each agent call. Zero leaves calls unbounded.
func WithTimeout(d time.Duration) Option {
	return func(r *Invoker) {
		r.timeout = d
	}
}

// WithMaxConcurrency caps in-flight parallel calls.
func WithMaxConcurrency(n int) Option {
	return func(r *Invoker) {
		if n > 0 {
			r.maxConcurrency = n
		}
	}
}

// WithMetrics records per-agent outcomes.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Invoker) {
		r.metrics = m
	}
}

// WithLogger overrides the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Invoker) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates an invoker. targets maps agent names to transport targets.
func New(t transport.Invoker, targets map[string]string, opts ...Option) *Invoker {
	r := &Invoker{
		transport:      t,
		targets:        make(map[string]string, len(targets)),
		maxConcurrency: len(config.AgentNames),
		logger:         logging.WithComponent("runner"),
	}
	for name, target := range targets {
		r.targets[strings.ToUpper(name)] = target
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MissingTargets lists the configuration names of agents without a target, in
// canonical agent order.
func (r *Invoker) MissingTargets() []string {
	var missing []string
	for _, name := range config.AgentNames {
		if r.targets[name] == "" {
			missing = append(missing, config.TargetEnv(name))
		}
	}
	return missing
}

// Invoke runs plan and returns the successful results. Parallel results keep
// plan order; sequential results are in invocation order. Failed agents are
// logged and omitted.
func (r *Invoker) Invoke(ctx context.Context, plan Plan, c Context) []agent.Result {
	if len(plan.Agents) == 0 || plan.Pattern == PatternNone {
		return nil
	}
	if plan.Pattern == PatternSequential {
		return r.sequential(ctx, plan, c)
	}
	return r.parallel(ctx, plan, c)
}

func (r *Invoker) parallel(ctx context.Context, plan Plan, c Context) []agent.Result {
	results := make([]*agent.Result, len(plan.Agents))
	sem := make(chan struct{}, r.maxConcurrency)
	var wg sync.WaitGroup

	for i, name := range plan.Agents {
		wg.Add(1)
		go func(index int, name string) {
			defer wg.Done()
			defer func() {
				if p := recover(); p != nil {
					r.fail(ctx, name, fmt.Errorf("panic invoking %s: %v", name, p))
				}
			}()
			sem <- struct{}{}
			defer func() { <-sem }()

			req := r.request(plan, name, c)
			res, err := r.invokeOne(ctx, name, req)
			if err != nil {
				r.fail(ctx, name, err)
				return
			}
			results[index] = res
		}(i, name)
	}
	wg.Wait()

	out := make([]agent.Result, 0, len(results))
	for _, res := range results {
		if res != nil {
			out = append(out, *res)
		}
	}
	return out
}

func (r *Invoker) sequential(ctx context.Context, plan Plan, c Context) []agent.Result {
	var out []agent.Result
	for _, name := range plan.Agents {
		req := r.request(plan, name, c)
		if len(out) > 0 {
			req.Query = withPriorContext(req.Query, out)
			req.PreviousResponses = append([]agent.Result(nil), out...)
		}
		res, err := r.invokeOne(ctx, name, req)
		if err != nil {
			r.fail(ctx, name, err)
			continue
		}
		out = append(out, *res)
	}
	return out
}

func (r *Invoker) request(plan Plan, name string, c Context) *agent.Request {
	task := plan.Tasks[name]
	if strings.TrimSpace(task) == "" {
		task = c.OriginalQuery
	}
	return &agent.Request{
		Query:         task,
		AssetContext:  c.AssetContext,
		OriginalQuery: c.OriginalQuery,
		TraceID:       c.TraceID,
	}
}

func withPriorContext(task string, prior []agent.Result) string {
	blocks := make([]string, len(prior))
	for i, res := range prior {
		blocks[i] = res.Agent + ": " + document.Prefix(res.Response, priorContextChars)
	}
	return task + "\n\nContext from previous agents:\n" + strings.Join(blocks, "\n\n")
}

func (r *Invoker) invokeOne(ctx context.Context, name string, req *agent.Request) (*agent.Result, error) {
	target := r.targets[strings.ToUpper(name)]
	if target == "" {
		return nil, fmt.Errorf("%w: %s: missing invocation target", errorskg.ErrAgentInvocation, name)
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: encode request: %v", errorskg.ErrAgentInvocation, name, err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	status, body, err := r.transport.Invoke(ctx, name, target, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errorskg.ErrAgentInvocation, name, err)
	}
	status, body = transport.UnwrapGateway(status, body)
	if status != 200 {
		return nil, fmt.Errorf("%w: %s: status %d: %s", errorskg.ErrAgentInvocation, name, status, document.Truncate(string(body), 200))
	}

	var res agent.Result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("%w: %s: decode response: %v", errorskg.ErrAgentInvocation, name, err)
	}
	if res.Agent == "" {
		res.Agent = strings.ToUpper(name)
	}
	r.metrics.RecordAgentCall(ctx, res.Agent, true)
	return &res, nil
}

func (r *Invoker) fail(ctx context.Context, name string, err error) {
	r.metrics.RecordAgentCall(ctx, name, false)
	logging.FromContext(ctx, r.logger).Error("agent invocation failed", "agent", name, "error", err)
}
