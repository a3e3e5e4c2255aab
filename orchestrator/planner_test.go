package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetpotato0/socratiq/pkg/logging"
)

func TestPlanFillsGapsAndFiltersAgents(t *testing.T) {
	llm := &stubLLM{plan: "```json\n{\"vera\": \"Assess the clinical readiness\", \"FINN\": \"   \", \"SOPHIE\": \"ignore me\", \"NORA\": 5}\n```"}
	p := NewPlanner(llm, nil, logging.Discard())
	query := "Should we license the asset?"

	exec := p.Plan(context.Background(), query, AgentPlan{
		Agents:            []string{"VERA", "FINN", "NORA"},
		InvocationPattern: PatternSequential,
	})

	assert.Equal(t, []string{"VERA", "FINN", "NORA"}, exec.Agents)
	assert.Equal(t, PatternSequential, exec.Pattern)
	assert.Equal(t, map[string]string{
		"VERA": "Assess the clinical readiness",
		"FINN": query,
		"NORA": query,
	}, exec.Tasks)

	calls := llm.stageCalls("plan")
	require.Len(t, calls, 1)
	assert.Equal(t, int64(1024), calls[0].MaxTokens)
	assert.InDelta(t, 0.3, calls[0].Temperature, 1e-9)
	assert.Contains(t, calls[0].Messages[0].Content, query)
	assert.Contains(t, calls[0].Messages[0].Content, "VERA, FINN, NORA")
}

func TestPlanFailureUsesQuery(t *testing.T) {
	for name, llm := range map[string]*stubLLM{
		"model error": {failStage: map[string]bool{"plan": true}},
		"bad json":    {plan: "I would ask VERA first."},
	} {
		t.Run(name, func(t *testing.T) {
			exec := NewPlanner(llm, nil, logging.Discard()).Plan(context.Background(), "q", AgentPlan{
				Agents:            []string{"CLIA", "FINN"},
				InvocationPattern: PatternParallel,
			})
			assert.Equal(t, map[string]string{"CLIA": "q", "FINN": "q"}, exec.Tasks)
		})
	}
}
