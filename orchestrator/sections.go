package orchestrator

import (
	"regexp"
	"strings"
)

// Section headings recognized in a synthesis.
const (
	SectionMechanistic   = "Mechanistic Analysis"
	SectionDeterministic = "Deterministic Scoring"
	SectionProbabilistic = "Probabilistic Risk Assessment"
	SectionConflicts     = "Conflict Resolution"
)

var (
	headingCache = map[string]*regexp.Regexp{}
	numberedBold = regexp.MustCompile(`^\d+[.)]\s*\*\*`)
	bulletPrefix = regexp.MustCompile(`^[-*]\s*`)
)

func headingPattern(name string) *regexp.Regexp {
	if re, ok := headingCache[name]; ok {
		return re
	}
	return compileHeading(name)
}

func compileHeading(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^\s*(?:#+\s*)?(?:\d+[.)]\s*)?(?:\*\*)?\s*` +
		regexp.QuoteMeta(name) + `\s*(?:\*\*)?\s*:?\s*(?:\*\*)?`)
}

func init() {
	for _, name := range []string{SectionMechanistic, SectionDeterministic, SectionProbabilistic, SectionConflicts} {
		headingCache[name] = compileHeading(name)
	}
}

// ExtractSection returns the trimmed body under heading in text, or "" when
// the heading is absent or its body is empty. The body ends at the next line
// starting with '#', '**' or a numbered bold heading.
func ExtractSection(text, heading string) string {
	re := headingPattern(heading)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		loc := re.FindStringIndex(line)
		if loc == nil {
			continue
		}
		body := []string{line[loc[1]:]}
		for _, next := range lines[i+1:] {
			if endsSection(next) {
				break
			}
			body = append(body, next)
		}
		return strings.TrimSpace(strings.Join(body, "\n"))
	}
	return ""
}

func endsSection(line string) bool {
	return strings.HasPrefix(line, "#") || strings.HasPrefix(line, "**") || numberedBold.MatchString(line)
}

// ExtractConflicts returns the non-blank lines of the Conflict Resolution
// section with bullet markers removed, or nil when the section is absent.
func ExtractConflicts(text string) []string {
	section := ExtractSection(text, SectionConflicts)
	if section == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(bulletPrefix.ReplaceAllString(strings.TrimSpace(line), ""))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
