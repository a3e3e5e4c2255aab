package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetpotato0/socratiq/agent"
	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/pkg/logging"
	"github.com/sweetpotato0/socratiq/runner"
)

func newTestOrchestrator(llm *stubLLM, inv *stubInvoker) *Orchestrator {
	return New(llm, inv, WithLogger(logging.Discard()))
}

func TestHandleRequiresQuery(t *testing.T) {
	o := newTestOrchestrator(&stubLLM{}, &stubInvoker{})
	_, err := o.Handle(context.Background(), &Request{Message: "   "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errorskg.ErrValidation))
	assert.Equal(t, "Missing required field: message or query", errorskg.MessageOf(err))

	_, err = o.Handle(context.Background(), nil)
	assert.Equal(t, 400, errorskg.StatusOf(err))
}

func TestHandleMissingTargets(t *testing.T) {
	llm := &stubLLM{}
	o := newTestOrchestrator(llm, &stubInvoker{missing: []string{"NORA_LAMBDA_ARN", "CLIA_LAMBDA_ARN"}})
	_, err := o.Handle(context.Background(), &Request{Query: "anything"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errorskg.ErrMissingConfig))
	assert.Equal(t, "Missing required environment variables: NORA_LAMBDA_ARN, CLIA_LAMBDA_ARN", errorskg.MessageOf(err))
	assert.Equal(t, 500, errorskg.StatusOf(err))
	assert.Empty(t, llm.calls)
}

func TestHandleFullFlow(t *testing.T) {
	llm := &stubLLM{
		classify: `{"agents": ["NORA", "FINN"], "invocationPattern": "sequential", "reasoning": "CRADA first"}`,
		plan:     `{"NORA": "Check CRADA terms", "FINN": "Model the deal"}`,
		synth:    sampleSynthesis,
	}
	inv := &stubInvoker{results: func(p runner.Plan) []agent.Result {
		return []agent.Result{
			{Agent: "NORA", Response: "CRADA is feasible", Confidence: 0.8, Sources: []agent.SourceCitation{{Title: "CRADA guide", URL: "u1"}}},
		}
	}}
	o := newTestOrchestrator(llm, inv)

	resp, err := o.Handle(context.Background(), &Request{
		Message:      "Should we do a CRADA?",
		Query:        "ignored",
		AssetContext: agent.AssetContext{"name": "X-101"},
		TraceID:      "trace-abc",
	})
	require.NoError(t, err)

	require.Len(t, inv.plans, 1)
	assert.Equal(t, []string{"NORA", "FINN"}, inv.plans[0].Agents)
	assert.Equal(t, PatternSequential, inv.plans[0].Pattern)
	assert.Equal(t, "Check CRADA terms", inv.plans[0].Tasks["NORA"])
	assert.Equal(t, runner.Context{
		OriginalQuery: "Should we do a CRADA?",
		AssetContext:  agent.AssetContext{"name": "X-101"},
		TraceID:       "trace-abc",
	}, inv.ctxs[0])

	assert.Equal(t, "trace-abc", resp.TraceID)
	assert.Equal(t, []string{"NORA"}, resp.Metadata.AgentsInvoked)
	assert.Equal(t, PatternSequential, resp.Metadata.InvocationPattern)
	assert.Equal(t, "CRADA first", resp.Metadata.ClassificationReasoning)
	assert.Len(t, resp.Sources, 1)
	assert.Equal(t, "CRADA is feasible", resp.AgentContributions["NORA"])

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.Contains(t, wire, "recommendation")
	assert.Contains(t, wire, "agentContributions")
	meta := wire["metadata"].(map[string]any)
	assert.Contains(t, meta, "processingTime")
	assert.Equal(t, "sequential", meta["invocationPattern"])
}

func TestHandleWithoutAgents(t *testing.T) {
	llm := &stubLLM{
		classify: `{"agents": [], "invocationPattern": "none", "reasoning": "greeting"}`,
		synth:    "Hello! How can I help?",
	}
	inv := &stubInvoker{}
	resp, err := newTestOrchestrator(llm, inv).Handle(context.Background(), &Request{Query: "hi"})
	require.NoError(t, err)
	assert.Empty(t, inv.plans)
	assert.Empty(t, llm.stageCalls("plan"))
	assert.Empty(t, resp.Metadata.AgentsInvoked)
	assert.NotNil(t, resp.Metadata.AgentsInvoked)
	assert.Equal(t, PatternNone, resp.Metadata.InvocationPattern)
	assert.NotEmpty(t, resp.TraceID)
	assert.Contains(t, llm.stageCalls("synth")[0].Messages[0].Content, "No domain agent was consulted")
}

func TestHandleFallbackClassification(t *testing.T) {
	llm := &stubLLM{
		failStage: map[string]bool{"classify": true, "plan": true},
		synth:     "Runway is 18 months.",
	}
	inv := &stubInvoker{}
	resp, err := newTestOrchestrator(llm, inv).Handle(context.Background(), &Request{Query: "What's our budget runway"})
	require.NoError(t, err)
	assert.Equal(t, []string{"FINN"}, resp.Metadata.AgentsInvoked)
	assert.Equal(t, PatternParallel, resp.Metadata.InvocationPattern)
	assert.Equal(t, "Fallback keyword-based classification", resp.Metadata.ClassificationReasoning)
	assert.Equal(t, "What's our budget runway", inv.plans[0].Tasks["FINN"])
}

func TestHandleSynthesisFailure(t *testing.T) {
	llm := &stubLLM{classify: `{"agents": ["VERA"]}`, plan: `{}`, failStage: map[string]bool{"synth": true}}
	_, err := newTestOrchestrator(llm, &stubInvoker{}).Handle(context.Background(), &Request{Query: "q"})
	require.Error(t, err)
	assert.Equal(t, 500, errorskg.StatusOf(err))
}
