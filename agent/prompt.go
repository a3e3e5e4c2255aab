package agent

import (
	"fmt"
	"strings"

	"github.com/sweetpotato0/socratiq/prompt"
	"github.com/sweetpotato0/socratiq/rag/document"
)

const (
	noSourcesText     = "No relevant corpus documents found."
	priorInsightChars = 500
	citationReminder  = "Please provide a detailed, evidence-based response using the corpus context above. Always cite specific sources when making claims."
)

// CorpusContext renders docs as numbered, labeled sources.
func CorpusContext(docs []document.CorpusDocument) string {
	if len(docs) == 0 {
		return noSourcesText
	}
	blocks := make([]string, 0, len(docs))
	for i, doc := range docs {
		blocks = append(blocks, sourceBlock(i+1, doc))
	}
	return strings.Join(blocks, "\n---\n")
}

func sourceBlock(n int, doc document.CorpusDocument) string {
	b := prompt.NewBuilder().
		AddFormat("**Source %d: %s**\n", n, doc.Title).
		AddFormat("Relevance: %.0f%%\n", doc.RelevanceScore*100).
		AddFormat("URL: %s\n", doc.URL)
	if doc.LegalStatus != "" {
		b.AddFormat("Legal Status: %s\n", doc.LegalStatus)
	}
	return b.AddLine("").Add(doc.Excerpt).Build()
}

// UserQuery renders the query, asset lines, prior insights and the closing
// instruction of p.
func (p *Profile) UserQuery(req *Request) string {
	b := prompt.NewBuilder().AddBold("User Query", req.Query).AddLine("")

	if lines := p.assetLines(req.AssetContext); len(lines) > 0 {
		b.AddLine("**Asset Context**:")
		for _, line := range lines {
			b.AddLine(line)
		}
		b.AddLine("")
	}

	if len(req.PreviousResponses) > 0 {
		b.AddLine("**Previous Agent Insights**:")
		for _, prev := range req.PreviousResponses {
			b.AddFormat("\n**%s**: %s\n", prev.Agent, document.Prefix(prev.Response, priorInsightChars))
		}
		b.AddLine("")
	}

	closing := p.Closing
	if closing == "" {
		closing = "Please provide a detailed, evidence-based response using the corpus sources. Always cite specific sources when making claims."
	}
	return b.Add(closing).Build()
}

func (p *Profile) assetLines(ctx AssetContext) []string {
	if len(ctx) == 0 {
		return nil
	}
	var lines []string
	for _, field := range p.AssetFields {
		if v, ok := field.render(ctx); ok {
			lines = append(lines, fmt.Sprintf("- %s: %s", field.Label, v))
		}
	}
	return lines
}

// UserMessage wraps the corpus context and user query into the final user
// turn sent to the model.
func (p *Profile) UserMessage(req *Request, docs []document.CorpusDocument) string {
	return prompt.NewBuilder().
		AddTagged("corpus_context", CorpusContext(docs)).
		AddLine("").
		AddTagged("user_query", p.UserQuery(req)).
		AddLine("").
		AddLine(citationReminder).
		Build()
}
