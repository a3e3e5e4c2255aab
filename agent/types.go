package agent

import "time"

// AssetContext carries optional facts about the asset under discussion.
// Well-known keys: assetId, productName, indication, developmentPhase,
// mechanismOfAction, targetPopulation, regulatoryPath, peakSales, cashRunway,
// fundingStatus.
type AssetContext map[string]any

// SourceCitation references one corpus document used in a response.
type SourceCitation struct {
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	Excerpt        string  `json:"excerpt,omitempty"`
	RelevanceScore float64 `json:"relevanceScore,omitempty"`
}

// Metadata describes how a result was produced.
type Metadata struct {
	ProcessingTimeMs         int64  `json:"processingTime"`
	CorpusDocumentsRetrieved int    `json:"corpusDocumentsRetrieved"`
	InputTokens              int64  `json:"inputTokens,omitempty"`
	OutputTokens             int64  `json:"outputTokens,omitempty"`
	TokensUsed               int64  `json:"tokensUsed"`
	StopReason               string `json:"stopReason,omitempty"`
}

// Result is the response of one domain agent. It is not modified after
// Handle returns.
type Result struct {
	Agent      string           `json:"agent"`
	SubAgent   string           `json:"subAgent,omitempty"`
	Response   string           `json:"response"`
	Sources    []SourceCitation `json:"sources"`
	Confidence float64          `json:"confidence"`
	Timestamp  time.Time        `json:"timestamp"`
	TraceID    string           `json:"traceId"`
	Metadata   *Metadata        `json:"metadata,omitempty"`
}

// Request is the inbound payload of a domain agent.
type Request struct {
	Query             string       `json:"query"`
	AssetContext      AssetContext `json:"assetContext,omitempty"`
	SubAgent          string       `json:"subAgent,omitempty"`
	PreviousResponses []Result     `json:"previousResponses,omitempty"`
	OriginalQuery     string       `json:"originalQuery,omitempty"`
	TraceID           string       `json:"traceId,omitempty"`
}
