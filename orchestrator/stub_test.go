package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sweetpotato0/socratiq/agent"
	"github.com/sweetpotato0/socratiq/message"
	"github.com/sweetpotato0/socratiq/runner"
)

// stubLLM answers by system prompt so one stub can serve every stage.
type stubLLM struct {
	mu        sync.Mutex
	classify  string
	plan      string
	synth     string
	failStage map[string]bool
	calls     []*agent.GenerateRequest
}

func stageOf(req *agent.GenerateRequest) string {
	switch {
	case req.System == classificationPrompt:
		return "classify"
	case req.System == planningSystemPrompt:
		return "plan"
	}
	return "synth"
}

func (s *stubLLM) Generate(_ context.Context, req *agent.GenerateRequest) (*agent.GenerateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	stage := stageOf(req)
	if s.failStage[stage] {
		return nil, errors.New(stage + " unavailable")
	}
	text := map[string]string{"classify": s.classify, "plan": s.plan, "synth": s.synth}[stage]
	return &agent.GenerateResponse{Message: message.Assistant(text), Usage: agent.Usage{InputTokens: 5, OutputTokens: 5}}, nil
}

func (s *stubLLM) stageCalls(stage string) []*agent.GenerateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*agent.GenerateRequest
	for _, c := range s.calls {
		if stageOf(c) == stage {
			out = append(out, c)
		}
	}
	return out
}

type stubInvoker struct {
	missing []string
	plans   []runner.Plan
	ctxs    []runner.Context
	results func(runner.Plan) []agent.Result
}

func (s *stubInvoker) Invoke(_ context.Context, plan runner.Plan, c runner.Context) []agent.Result {
	s.plans = append(s.plans, plan)
	s.ctxs = append(s.ctxs, c)
	if s.results == nil {
		out := make([]agent.Result, 0, len(plan.Agents))
		for _, name := range plan.Agents {
			out = append(out, agent.Result{Agent: name, Response: strings.ToLower(name) + " analysis", Confidence: 0.8})
		}
		return out
	}
	return s.results(plan)
}

func (s *stubInvoker) MissingTargets() []string { return s.missing }
