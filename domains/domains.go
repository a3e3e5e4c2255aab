// Package domains defines the four domain agent profiles.
package domains

import (
	"fmt"
	"strings"

	"github.com/sweetpotato0/socratiq/agent"
)

// persona is the source of one sub-role system prompt.
type persona struct {
	name      string
	role      string
	expertise []string
	access    string
	steps     []string
	closing   string
}

func (p persona) prompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, %s within the SocratIQ multi-agent system.\n\n", p.name, p.role)
	b.WriteString("Your expertise includes:\n")
	for _, e := range p.expertise {
		fmt.Fprintf(&b, "- %s\n", e)
	}
	fmt.Fprintf(&b, "\nYou have access to %s.\n\nWhen responding:\n", p.access)
	for i, s := range p.steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	b.WriteString("\n")
	b.WriteString(p.closing)
	return b.String()
}

// subRole pairs a persona with its routing keywords. Scoring boosts come from
// the scorer keyword table under the same name.
func subRole(p persona, routing ...string) agent.SubRole {
	return agent.SubRole{Name: p.name, Keywords: routing, Prompt: p.prompt()}
}

var (
	productName      = agent.AssetField{Keys: []string{"productName"}, Label: "Product"}
	indication       = agent.AssetField{Keys: []string{"indication"}, Label: "Indication"}
	phase            = agent.AssetField{Keys: []string{"developmentPhase", "phase"}, Label: "Phase"}
	mechanism        = agent.AssetField{Keys: []string{"mechanismOfAction", "mechanism"}, Label: "Mechanism of Action"}
	targetPopulation = agent.AssetField{Keys: []string{"targetPopulation"}, Label: "Target Population"}
	regulatoryPath   = agent.AssetField{Keys: []string{"regulatoryPath"}, Label: "Regulatory Path"}
	peakSales        = agent.AssetField{Keys: []string{"peakSales"}, Label: "Peak Sales Estimate", Format: agent.Currency}
	cashRunway       = agent.AssetField{Keys: []string{"cashRunway"}, Label: "Cash Runway", Format: agent.Months}
	fundingStatus    = agent.AssetField{Keys: []string{"fundingStatus"}, Label: "Funding Status"}
)

// All returns the domain profiles in canonical order.
func All() []agent.Profile {
	return []agent.Profile{VERA(), FINN(), NORA(), CLIA()}
}

// Names returns the domain agent names in canonical order.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
	}
	return names
}

// Lookup returns the profile called name, case-insensitively.
func Lookup(name string) (agent.Profile, bool) {
	for _, p := range All() {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return agent.Profile{}, false
}
