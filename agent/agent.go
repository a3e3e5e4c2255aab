// Package agent implements the generic domain agent. A Profile supplies the
// domain data: sub-roles, keyword routing, prompts and asset fields.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sweetpotato0/socratiq/config"
	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/message"
	"github.com/sweetpotato0/socratiq/pkg/logging"
	"github.com/sweetpotato0/socratiq/pkg/telemetry"
	"github.com/sweetpotato0/socratiq/pkg/traceid"
	"github.com/sweetpotato0/socratiq/rag/document"
	"github.com/sweetpotato0/socratiq/rag/retriever"
	"github.com/sweetpotato0/socratiq/rag/tokenizer"
)

// Retriever fetches scored documents from a collection.
type Retriever interface {
	Retrieve(ctx context.Context, collection, query string, opts ...retriever.Option) ([]document.CorpusDocument, error)
}

// Agent answers domain questions grounded in a document collection.
type Agent struct {
	profile       Profile
	llm           LLMClient
	retriever     Retriever
	collection    string
	maxTokens     int64
	temperature   float64
	topP          float64
	contextTokens int
	counter       tokenizer.Counter
	metrics       *telemetry.Metrics
	logger        *slog.Logger
	tracer        trace.Tracer
	now           func() time.Time
}

// Option is a function that configures an Agent
type Option func(*Agent)

// WithCollection sets the document collection searched by the agent.
func WithCollection(collection string) Option {
	return func(a *Agent) {
		a.collection = collection
	}
}

// WithMaxTokens sets the generation limit.
func WithMaxTokens(n int64) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxTokens = n
		}
	}
}

// WithTemperature sets the temperature for LLM generation
func WithTemperature(temp float64) Option {
	return func(a *Agent) {
		a.temperature = temp
	}
}

// WithTopP sets nucleus sampling.
func WithTopP(p float64) Option {
	return func(a *Agent) {
		a.topP = p
	}
}

// WithContextTokens bounds the corpus context placed in the prompt.
func WithContextTokens(n int) Option {
	return func(a *Agent) {
		a.contextTokens = n
	}
}

// WithTokenCounter replaces the default token estimator.
func WithTokenCounter(c tokenizer.Counter) Option {
	return func(a *Agent) {
		if c != nil {
			a.counter = c
		}
	}
}

// WithMetrics records token usage.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(a *Agent) {
		a.metrics = m
	}
}

// WithLogger overrides the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Agent) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an agent for profile.
func New(profile Profile, llm LLMClient, r Retriever, opts ...Option) *Agent {
	profile.SubRoles = append([]SubRole(nil), profile.SubRoles...)
	profile.Compile()

	a := &Agent{
		profile:       profile,
		llm:           llm,
		retriever:     r,
		maxTokens:     4096,
		temperature:   0.1,
		topP:          0.9,
		contextTokens: 6000,
		counter:       tokenizer.NewEstimator(),
		logger:        logging.WithComponent("agent").With("agent", profile.Name),
		tracer:        telemetry.Tracer("agent"),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the domain name, for example "VERA".
func (a *Agent) Name() string { return a.profile.Name }

// Profile returns the domain profile.
func (a *Agent) Profile() *Profile { return &a.profile }

// Collection returns the configured document collection.
func (a *Agent) Collection() string { return a.collection }

// Handle answers one request.
func (a *Agent) Handle(ctx context.Context, req *Request) (res *Result, err error) {
	start := a.now()
	if req == nil {
		req = &Request{}
	}
	ctx, traceID := traceid.Ensure(ctx, req.TraceID)
	logger := logging.FromContext(ctx, a.logger)

	ctx, span := a.tracer.Start(ctx, "agent.Handle", trace.WithAttributes(
		attribute.String("agent", a.profile.Name),
		attribute.String("trace_id", traceID),
	))
	defer func() { telemetry.End(span, err) }()
	defer func() {
		if err != nil {
			logger.Error("agent request failed", "error", err)
		}
	}()

	if strings.TrimSpace(req.Query) == "" {
		return nil, errorskg.Validation("Missing required field: query")
	}
	if a.collection == "" {
		return nil, errorskg.MissingConfig(config.CollectionEnv(a.profile.Name))
	}

	sub := a.profile.ResolveSubRole(req.Query, req.SubAgent)
	span.SetAttributes(attribute.String("sub_agent", sub.Name))
	logger.Info("sub-agent selected", "sub_agent", sub.Name)

	docs, err := a.retriever.Retrieve(ctx, a.collection, req.Query, retriever.WithSubRole(sub.Name))
	if err != nil {
		return nil, err
	}
	docs = a.fitContext(docs)
	logger.Info("corpus documents retrieved", "document_count", len(docs))

	resp, err := a.llm.Generate(ctx, &GenerateRequest{
		System:      sub.Prompt,
		Messages:    []*message.Message{message.User(a.profile.UserMessage(req, docs))},
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
		TopP:        a.topP,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: generate: %w", a.profile.Name, err)
	}
	a.metrics.RecordTokens(ctx, "agent", resp.Usage.InputTokens, resp.Usage.OutputTokens)

	text := resp.Text()
	res = &Result{
		Agent:      a.profile.Name,
		SubAgent:   sub.Name,
		Response:   text,
		Sources:    Citations(docs),
		Confidence: Confidence(text, resp.StopReason),
		Timestamp:  a.now().UTC(),
		TraceID:    traceID,
		Metadata: &Metadata{
			ProcessingTimeMs:         a.now().Sub(start).Milliseconds(),
			CorpusDocumentsRetrieved: len(docs),
			InputTokens:              resp.Usage.InputTokens,
			OutputTokens:             resp.Usage.OutputTokens,
			TokensUsed:               resp.Usage.Total(),
			StopReason:               resp.StopReason,
		},
	}
	logger.Info("agent response generated",
		"sub_agent", sub.Name,
		"confidence", res.Confidence,
		"processing_time_ms", res.Metadata.ProcessingTimeMs,
	)
	return res, nil
}

func (a *Agent) fitContext(docs []document.CorpusDocument) []document.CorpusDocument {
	if len(docs) == 0 {
		return docs
	}
	blocks := make([]string, len(docs))
	for i, doc := range docs {
		blocks[i] = sourceBlock(i+1, doc)
	}
	return docs[:tokenizer.Fit(a.counter, a.contextTokens, blocks)]
}

// Citations converts documents to source citations, preserving order.
func Citations(docs []document.CorpusDocument) []SourceCitation {
	out := make([]SourceCitation, 0, len(docs))
	for _, doc := range docs {
		out = append(out, SourceCitation{
			Title:          doc.Title,
			URL:            doc.URL,
			Excerpt:        doc.Excerpt,
			RelevanceScore: doc.RelevanceScore,
		})
	}
	return out
}
