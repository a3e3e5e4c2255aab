package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sweetpotato0/socratiq/agent"
	"github.com/sweetpotato0/socratiq/message"
	"github.com/sweetpotato0/socratiq/pkg/logging"
	"github.com/sweetpotato0/socratiq/pkg/telemetry"
	"github.com/sweetpotato0/socratiq/prompt"
	"github.com/sweetpotato0/socratiq/rag/document"
)

const contributionChars = 300

// Synthesizer merges agent results into one recommendation.
type Synthesizer struct {
	llm     agent.LLMClient
	metrics *telemetry.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewSynthesizer creates a synthesizer.
func NewSynthesizer(llm agent.LLMClient, metrics *telemetry.Metrics, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = logging.WithComponent("synthesizer")
	}
	return &Synthesizer{llm: llm, metrics: metrics, logger: logger, now: time.Now}
}

// Synthesize asks the model for the consolidated recommendation and derives
// the structured fields from its text. Model failures are returned.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, results []agent.Result, traceID string) (*Synthesis, error) {
	resp, err := s.llm.Generate(ctx, &agent.GenerateRequest{
		System:      sophieSystemPrompt,
		Messages:    []*message.Message{message.User(SynthesisPrompt(query, results))},
		MaxTokens:   8192,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	s.metrics.RecordTokens(ctx, "synthesizer", resp.Usage.InputTokens, resp.Usage.OutputTokens)

	text := resp.Text()
	return &Synthesis{
		Recommendation:       text,
		MechanisticAnalysis:  ExtractSection(text, SectionMechanistic),
		DeterministicScoring: ExtractSection(text, SectionDeterministic),
		ProbabilisticRisk:    ExtractSection(text, SectionProbabilistic),
		Confidence:           ConfidenceFromText(text),
		Sources:              AggregateSources(results),
		AgentContributions:   Contributions(results),
		Conflicts:            ExtractConflicts(text),
		TraceID:              traceID,
		Timestamp:            s.now().UTC(),
	}, nil
}

// SynthesisPrompt renders the consolidated user turn for the synthesis call.
func SynthesisPrompt(query string, results []agent.Result) string {
	b := prompt.NewBuilder().AddBold("User Query", query).AddLine("")
	if len(results) == 0 {
		b.AddLine("**Agent Responses**: none. No domain agent was consulted; answer directly from your own expertise.").AddLine("")
	} else {
		b.AddLine("**Agent Responses**:").AddLine("")
	}

	for _, res := range results {
		b.AddFormat("### %s Agent", res.Agent)
		if res.SubAgent != "" {
			b.AddFormat(" (%s)", res.SubAgent)
		}
		b.AddLine("")
		b.AddFormat("**Confidence**: %.0f%%\n\n", res.Confidence*100)
		b.Add(res.Response).AddLine("").AddLine("")
		if len(res.Sources) > 0 {
			b.AddLine("**Sources**:")
			for _, src := range res.Sources {
				b.AddFormat("- %s (%s)\n", src.Title, src.URL)
			}
			b.AddLine("")
		}
		b.AddLine("---").AddLine("")
	}

	return b.
		AddLine("").
		AddLine("Please synthesize these agent responses using SophieLogic™ tri-paradigm reasoning:").
		AddLine("1. **Mechanistic Analysis**: Check for hard constraints and blockers").
		AddLine("2. **Deterministic Scoring**: Score strategic options with explicit criteria").
		AddLine("3. **Probabilistic Risk Assessment**: Quantify uncertainty and risk").
		AddLine("If the agents disagree, explain how you resolved it under a **Conflict Resolution** heading.").
		AddLine("").
		Add("Provide a clear, actionable recommendation with confidence level and source citations.").
		Build()
}

// AggregateSources unions citations across results, keyed by URL, keeping the
// first occurrence.
func AggregateSources(results []agent.Result) []agent.SourceCitation {
	seen := make(map[string]bool)
	out := make([]agent.SourceCitation, 0)
	for _, res := range results {
		for _, src := range res.Sources {
			if seen[src.URL] {
				continue
			}
			seen[src.URL] = true
			out = append(out, src)
		}
	}
	return out
}

// Contributions returns a short prefix of each agent's response.
func Contributions(results []agent.Result) map[string]string {
	out := make(map[string]string, len(results))
	for _, res := range results {
		out[res.Agent] = document.Prefix(res.Response, contributionChars)
	}
	return out
}
