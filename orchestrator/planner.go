package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sweetpotato0/socratiq/agent"
	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/message"
	"github.com/sweetpotato0/socratiq/pkg/logging"
	"github.com/sweetpotato0/socratiq/pkg/telemetry"
	"github.com/sweetpotato0/socratiq/prompt"
)

// Planner assigns a focused task to every agent of a plan.
type Planner struct {
	llm     agent.LLMClient
	prompts *prompt.Manager
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// NewPlanner creates a planner.
func NewPlanner(llm agent.LLMClient, metrics *telemetry.Metrics, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = logging.WithComponent("planner")
	}
	return &Planner{llm: llm, prompts: newPromptManager(), metrics: metrics, logger: logger}
}

// Plan returns an execution plan covering exactly plan.Agents. Agents the
// model leaves out, and every agent when the call fails, get the raw query.
func (p *Planner) Plan(ctx context.Context, query string, plan AgentPlan) ExecutionPlan {
	exec := ExecutionPlan{
		Agents:  append([]string(nil), plan.Agents...),
		Tasks:   make(map[string]string, len(plan.Agents)),
		Pattern: plan.InvocationPattern,
	}
	tasks, err := p.tasks(ctx, query, plan.Agents)
	if err != nil {
		logging.FromContext(ctx, p.logger).Warn("execution plan creation failed, using fallback", "error", err)
	}
	for _, name := range exec.Agents {
		task := strings.TrimSpace(tasks[name])
		if task == "" {
			task = query
		}
		exec.Tasks[name] = task
	}
	return exec
}

func (p *Planner) tasks(ctx context.Context, query string, agents []string) (map[string]string, error) {
	if p.llm == nil {
		return nil, fmt.Errorf("%w: no model configured", errorskg.ErrPlanning)
	}
	text, err := p.prompts.Render(planningTemplate, map[string]any{
		"Query":  query,
		"Agents": strings.Join(agents, ", "),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errorskg.ErrPlanning, err)
	}
	resp, err := p.llm.Generate(ctx, &agent.GenerateRequest{
		System:      planningSystemPrompt,
		Messages:    []*message.Message{message.User(text)},
		MaxTokens:   1024,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errorskg.ErrPlanning, err)
	}
	p.metrics.RecordTokens(ctx, "planner", resp.Usage.InputTokens, resp.Usage.OutputTokens)

	raw, err := decodeJSON[map[string]any](resp.Text())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errorskg.ErrPlanning, err)
	}
	allowed := make(map[string]bool, len(agents))
	for _, name := range agents {
		allowed[name] = true
	}
	out := make(map[string]string, len(*raw))
	for key, v := range *raw {
		name := strings.ToUpper(strings.TrimSpace(key))
		if s, ok := v.(string); ok && allowed[name] {
			out[name] = s
		}
	}
	return out, nil
}
