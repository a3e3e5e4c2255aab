package agent

import (
	"fmt"
	"regexp"
	"strings"
)

// SubRole is a specialist persona within a domain agent.
type SubRole struct {
	// Name is the qualified identifier, for example "VERA-Clinical".
	Name string
	// Keywords route a query to this sub-role when any appears in it.
	Keywords []string
	// Prompt is the system instruction used when this sub-role answers.
	Prompt string

	matchers []*regexp.Regexp
}

// AssetField renders one asset context entry as a labeled line.
type AssetField struct {
	// Keys are tried in order; the first present non-empty value is rendered.
	Keys   []string
	Label  string
	Format func(any) string
}

// Profile parameterizes the generic agent for one domain.
type Profile struct {
	Name        string
	Description string
	// SubRoles are tested in order during detection.
	SubRoles []SubRole
	// Default names the sub-role used when no keyword matches.
	Default     string
	AssetFields []AssetField
	// Closing is the domain instruction appended to the user message.
	Closing string
}

// shortKeyword is the length at or below which keywords must match whole words.
const shortKeyword = 3

func compileKeyword(kw string) *regexp.Regexp {
	kw = strings.ToLower(kw)
	if len(kw) <= shortKeyword {
		return regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
	}
	return regexp.MustCompile(regexp.QuoteMeta(kw))
}

// Compile prepares keyword matchers. It is called by New and is safe to call
// more than once.
func (p *Profile) Compile() {
	for i := range p.SubRoles {
		sr := &p.SubRoles[i]
		if len(sr.matchers) == len(sr.Keywords) {
			continue
		}
		sr.matchers = make([]*regexp.Regexp, 0, len(sr.Keywords))
		for _, kw := range sr.Keywords {
			sr.matchers = append(sr.matchers, compileKeyword(kw))
		}
	}
}

// SubRole returns the named sub-role. The name may be qualified
// ("VERA-Clinical") or bare ("Clinical"), compared case-insensitively.
func (p *Profile) SubRole(name string) (*SubRole, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	qualified := name
	if !strings.Contains(name, "-") {
		qualified = p.Name + "-" + name
	}
	for i := range p.SubRoles {
		if strings.EqualFold(p.SubRoles[i].Name, qualified) {
			return &p.SubRoles[i], true
		}
	}
	return nil, false
}

// Detect runs the ordered keyword rules against query.
func (p *Profile) Detect(query string) string {
	q := strings.ToLower(query)
	for i := range p.SubRoles {
		for _, m := range p.SubRoles[i].matchers {
			if m.MatchString(q) {
				return p.SubRoles[i].Name
			}
		}
	}
	return p.Default
}

// ResolveSubRole returns the sub-role answering query. A known override wins
// over detection.
func (p *Profile) ResolveSubRole(query, override string) *SubRole {
	if sr, ok := p.SubRole(override); ok {
		return sr
	}
	if sr, ok := p.SubRole(p.Detect(query)); ok {
		return sr
	}
	if len(p.SubRoles) > 0 {
		return &p.SubRoles[0]
	}
	return &SubRole{Name: p.Name}
}

// Validate reports profiles that cannot serve requests.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("agent: profile name is empty")
	}
	if len(p.SubRoles) == 0 {
		return fmt.Errorf("agent: profile %s has no sub-roles", p.Name)
	}
	if _, ok := p.SubRole(p.Default); !ok {
		return fmt.Errorf("agent: profile %s default sub-role %q is not defined", p.Name, p.Default)
	}
	return nil
}

// Strings formats a value as plain text.
func Strings(v any) string { return fmt.Sprint(v) }

// Months formats a runway in months.
func Months(v any) string {
	if f, ok := toFloat(v); ok {
		return fmt.Sprintf("%.0f months", f)
	}
	return fmt.Sprintf("%v months", v)
}

// Currency formats dollar amounts with B, M and K suffixes.
func Currency(v any) string {
	if f, ok := toFloat(v); ok {
		return FormatCurrency(f)
	}
	return fmt.Sprint(v)
}

// FormatCurrency renders value as $1.2B, $350.0M, $12K or $900.
func FormatCurrency(value float64) string {
	switch {
	case value >= 1_000_000_000:
		return fmt.Sprintf("$%.1fB", value/1_000_000_000)
	case value >= 1_000_000:
		return fmt.Sprintf("$%.1fM", value/1_000_000)
	case value >= 1_000:
		return fmt.Sprintf("$%.0fK", value/1_000)
	}
	return fmt.Sprintf("$%.0f", value)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}

func (f AssetField) render(ctx AssetContext) (string, bool) {
	for _, key := range f.Keys {
		v, ok := ctx[key]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		format := f.Format
		if format == nil {
			format = Strings
		}
		return format(v), true
	}
	return "", false
}
