package orchestrator

import (
	"time"

	"github.com/sweetpotato0/socratiq/agent"
	"github.com/sweetpotato0/socratiq/runner"
)

// Pattern is the invocation pattern of a plan.
type Pattern = runner.Pattern

const (
	PatternParallel   = runner.PatternParallel
	PatternSequential = runner.PatternSequential
	PatternNone       = runner.PatternNone
)

// ExecutionPlan is the ordered agent list with one task per agent.
type ExecutionPlan = runner.Plan

// AgentPlan is the routing decision for a query.
type AgentPlan struct {
	Agents            []string `json:"agents"`
	InvocationPattern Pattern  `json:"invocationPattern"`
	Reasoning         string   `json:"reasoning"`
}

// Synthesis is the consolidated recommendation.
type Synthesis struct {
	Recommendation       string                 `json:"recommendation"`
	MechanisticAnalysis  string                 `json:"mechanisticAnalysis,omitempty"`
	DeterministicScoring string                 `json:"deterministicScoring,omitempty"`
	ProbabilisticRisk    string                 `json:"probabilisticRisk,omitempty"`
	Confidence           float64                `json:"confidence"`
	Sources              []agent.SourceCitation `json:"sources"`
	AgentContributions   map[string]string      `json:"agentContributions"`
	Conflicts            []string               `json:"conflicts,omitempty"`
	TraceID              string                 `json:"traceId"`
	Timestamp            time.Time              `json:"timestamp"`
}

// Request is the inbound orchestrator payload. Message takes precedence over
// Query.
type Request struct {
	Message      string             `json:"message,omitempty"`
	Query        string             `json:"query,omitempty"`
	AssetID      string             `json:"assetId,omitempty"`
	AssetContext agent.AssetContext `json:"assetContext,omitempty"`
	UserID       string             `json:"userId,omitempty"`
	TraceID      string             `json:"traceId,omitempty"`
}

// Text returns the user query.
func (r *Request) Text() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Query
}

// Metadata describes how a response was produced.
type Metadata struct {
	ProcessingTimeMs        int64    `json:"processingTime"`
	AgentsInvoked           []string `json:"agentsInvoked"`
	InvocationPattern       Pattern  `json:"invocationPattern"`
	ClassificationReasoning string   `json:"classificationReasoning,omitempty"`
}

// Response is the outbound orchestrator payload.
type Response struct {
	Synthesis
	Metadata Metadata `json:"metadata"`
}
