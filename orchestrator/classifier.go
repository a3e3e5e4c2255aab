package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sweetpotato0/socratiq/agent"
	"github.com/sweetpotato0/socratiq/config"
	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/message"
	"github.com/sweetpotato0/socratiq/pkg/logging"
	"github.com/sweetpotato0/socratiq/pkg/telemetry"
	"github.com/sweetpotato0/socratiq/runner"
)

const (
	defaultReasoning  = "Default classification"
	fallbackReasoning = "Fallback keyword-based classification"
)

// DefaultSequentialTriggers force a chained pattern when several agents match.
var DefaultSequentialTriggers = []string{"crada", "federal"}

type agentRule struct {
	name string
	re   *regexp.Regexp
}

var fallbackRules = []agentRule{
	{"VERA", regexp.MustCompile(`product|clinical|trial|enrollment|biomarker|cmc|manufacturing`)},
	{"FINN", regexp.MustCompile(`financial|valuation|budget|pricing|roi|rnpv|exit|deal`)},
	{"NORA", regexp.MustCompile(`regulatory|fda|patent|\bip\b|legal|crada|compliance`)},
	{"CLIA", regexp.MustCompile(`market|competitive|landscape|epidemiology|timeline`)},
}

// Classifier decides which agents answer a query.
type Classifier struct {
	llm      agent.LLMClient
	triggers []string
	metrics  *telemetry.Metrics
	logger   *slog.Logger
}

// NewClassifier creates a classifier. Empty triggers use
// DefaultSequentialTriggers.
func NewClassifier(llm agent.LLMClient, triggers []string, metrics *telemetry.Metrics, logger *slog.Logger) *Classifier {
	if len(triggers) == 0 {
		triggers = DefaultSequentialTriggers
	}
	lower := make([]string, 0, len(triggers))
	for _, t := range triggers {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			lower = append(lower, t)
		}
	}
	if logger == nil {
		logger = logging.WithComponent("classifier")
	}
	return &Classifier{llm: llm, triggers: lower, metrics: metrics, logger: logger}
}

type classification struct {
	Agents            *[]string `json:"agents"`
	InvocationPattern string    `json:"invocationPattern"`
	Reasoning         string    `json:"reasoning"`
}

// Classify asks the model for a plan and falls back to keyword rules when the
// call or its JSON fails.
func (c *Classifier) Classify(ctx context.Context, query string) AgentPlan {
	plan, err := c.classifyLLM(ctx, query)
	if err != nil {
		logging.FromContext(ctx, c.logger).Warn("query classification failed, using fallback", "error", err)
		return c.Fallback(query)
	}
	return plan
}

func (c *Classifier) classifyLLM(ctx context.Context, query string) (AgentPlan, error) {
	if c.llm == nil {
		return AgentPlan{}, fmt.Errorf("%w: no model configured", errorskg.ErrClassification)
	}
	resp, err := c.llm.Generate(ctx, &agent.GenerateRequest{
		System:      classificationPrompt,
		Messages:    []*message.Message{message.User(query)},
		MaxTokens:   1000,
		Temperature: 0,
	})
	if err != nil {
		return AgentPlan{}, fmt.Errorf("%w: %v", errorskg.ErrClassification, err)
	}
	c.metrics.RecordTokens(ctx, "classifier", resp.Usage.InputTokens, resp.Usage.OutputTokens)

	obj, ok := firstJSONObject(resp.Text())
	if !ok {
		return AgentPlan{}, fmt.Errorf("%w: response did not contain valid JSON", errorskg.ErrClassification)
	}
	parsed, err := decodeJSON[classification](string(obj))
	if err != nil {
		return AgentPlan{}, fmt.Errorf("%w: %v", errorskg.ErrClassification, err)
	}

	plan := AgentPlan{
		Agents:            []string{"VERA"},
		InvocationPattern: PatternParallel,
		Reasoning:         defaultReasoning,
	}
	if parsed.Agents != nil {
		plan.Agents = knownAgents(*parsed.Agents)
	}
	if parsed.InvocationPattern != "" {
		plan.InvocationPattern = runner.ParsePattern(parsed.InvocationPattern)
	}
	if parsed.Reasoning != "" {
		plan.Reasoning = parsed.Reasoning
	}
	return plan, nil
}

// Fallback classifies query with per-agent keyword rules. The plan is
// sequential only when more than one agent matched and a trigger term is
// present.
func (c *Classifier) Fallback(query string) AgentPlan {
	q := strings.ToLower(query)
	var agents []string
	for _, rule := range fallbackRules {
		if rule.re.MatchString(q) {
			agents = append(agents, rule.name)
		}
	}
	if len(agents) == 0 {
		agents = []string{"VERA"}
	}

	pattern := PatternParallel
	if len(agents) > 1 && c.hasTrigger(q) {
		pattern = PatternSequential
	}
	return AgentPlan{Agents: agents, InvocationPattern: pattern, Reasoning: fallbackReasoning}
}

func (c *Classifier) hasTrigger(q string) bool {
	for _, t := range c.triggers {
		if strings.Contains(q, t) {
			return true
		}
	}
	return false
}

// knownAgents upper-cases names, drops unknown and repeated ones, and keeps
// model order.
func knownAgents(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.ToUpper(strings.TrimSpace(name))
		if !isAgent(name) || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func isAgent(name string) bool {
	for _, a := range config.AgentNames {
		if a == name {
			return true
		}
	}
	return false
}
