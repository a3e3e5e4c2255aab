// Package scorer computes the term-frequency relevance of a document to a query.
package scorer

import "strings"

const (
	termWeight    = 0.1
	keywordBonus  = 0.5
	normalization = 10.0
)

// Keywords holds the boost keyword table per sub-role.
var Keywords = map[string][]string{
	"VERA-Product":     {"product", "positioning", "differentiation", "formulation", "delivery"},
	"VERA-Clinical":    {"trial", "protocol", "enrollment", "endpoint", "phase", "recruitment"},
	"VERA-Biomarker":   {"biomarker", "diagnostic", "companion", "cdx", "patient selection"},
	"VERA-CMC":         {"manufacturing", "cmc", "scale-up", "supply chain", "gmp"},
	"VERA-Strategic":   {"partnership", "licensing", "alliance", "collaboration", "deal"},
	"VERA-Development": {"crada", "federal", "sbir", "sttr", "government", "nih", "dod"},

	"FINN-Budget":       {"budget", "burn rate", "runway", "cost", "expense"},
	"FINN-Pricing":      {"pricing", "reimbursement", "payer", "icer", "qaly"},
	"FINN-Exit":         {"exit", "acquisition", "m&a", "valuation", "comparable"},
	"FINN-Partnerships": {"deal terms", "milestone", "royalty", "upfront", "payment"},
	"FINN-Risk":         {"risk", "sensitivity", "scenario", "probability", "monte carlo"},
	"FINN-ROI":          {"roi", "npv", "rnpv", "irr", "wacc", "discount rate"},

	"NORA-Regulatory":   {"fda", "ema", "regulatory", "approval", "pathway", "505b2", "bla"},
	"NORA-IP":           {"patent", "intellectual property", "claim", "prosecution", "freedom to operate"},
	"NORA-Legal":        {"contract", "agreement", "compliance", "liability", "indemnification"},
	"NORA-FedScout":     {"federal", "crada", "government", "nih", "dod", "technology transfer"},
	"NORA-Compliance":   {"compliance", "regulation", "gcp", "gmp", "audit", "inspection"},
	"NORA-Intelligence": {"competitive intelligence", "patent landscape", "regulatory intelligence"},

	"CLIA-Market":      {"market", "epidemiology", "prevalence", "incidence", "patient population"},
	"CLIA-Clinical":    {"clinical trial", "study design", "comparator", "endpoints"},
	"CLIA-Timeline":    {"timeline", "milestone", "gantt", "critical path", "schedule"},
	"CLIA-Competitive": {"competitive", "landscape", "competitor", "pipeline", "benchmark"},
	"CLIA-Operations":  {"operations", "cro", "site selection", "logistics", "vendor"},
}

// Score returns the relevance of text to query in [0,1]. subRole, when it has a
// keyword table, adds a fixed bonus per keyword present in text.
func Score(query, text, subRole string) float64 {
	return ScoreWith(query, text, Keywords[subRole])
}

// ScoreWith is Score with an explicit boost keyword list.
func ScoreWith(query, text string, boost []string) float64 {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 || text == "" {
		return 0
	}
	content := strings.ToLower(text)

	var total float64
	for _, term := range terms {
		total += float64(strings.Count(content, term)) * termWeight
	}
	for _, kw := range boost {
		if kw != "" && strings.Contains(content, strings.ToLower(kw)) {
			total += keywordBonus
		}
	}

	score := total / normalization
	if score > 1 {
		return 1
	}
	return score
}
