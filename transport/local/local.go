// Package local dispatches agent invocations to in-process handlers.
package local

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sweetpotato0/socratiq/api"
)

// Registry maps agent names to handlers and serves them through an api
// pipeline, so in-process calls see the same envelopes as remote ones.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]api.AgentHandler
	pipeline *api.Pipeline
}

// New creates an empty registry. A nil pipeline uses api defaults.
func New(pipeline *api.Pipeline) *Registry {
	if pipeline == nil {
		pipeline = api.NewPipeline()
	}
	return &Registry{handlers: make(map[string]api.AgentHandler), pipeline: pipeline}
}

// Register adds or replaces the handler for name.
func (r *Registry) Register(name string, h api.AgentHandler) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[strings.ToUpper(name)] = h
	return r
}

// Handler returns the handler registered for name.
func (r *Registry) Handler(name string) (api.AgentHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[strings.ToUpper(name)]
	return h, ok
}

// Names lists the registered agent names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Invoke implements transport.Invoker. The target is only used in errors;
// dispatch is by agent name.
func (r *Registry) Invoke(ctx context.Context, name, target string, payload []byte) (int, []byte, error) {
	h, ok := r.Handler(name)
	if !ok {
		return 0, nil, fmt.Errorf("local transport: no handler registered for %s (target %q)", name, target)
	}
	status, body := r.pipeline.ServeAgent(ctx, h, api.AgentSurface(name), payload)
	return status, body, nil
}
