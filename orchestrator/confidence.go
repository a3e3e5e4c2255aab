package orchestrator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sweetpotato0/socratiq/agent"
)

// confidencePhrases are checked in order; longer phrases precede the phrases
// they contain.
var confidencePhrases = []struct {
	phrase string
	score  float64
}{
	{"high confidence", 0.9},
	{"very confident", 0.9},
	{"strong evidence", 0.85},
	{"moderate confidence", 0.7},
	{"medium confidence", 0.7},
	{"some confidence", 0.6},
	{"low confidence", 0.4},
	{"highly uncertain", 0.2},
	{"uncertain", 0.3},
}

var (
	percentRange  = regexp.MustCompile(`(\d+)[-–](\d+)%`)
	percentSingle = regexp.MustCompile(`(\d+)%`)
)

// ConfidenceFromText reads a confidence level from synthesis prose.
func ConfidenceFromText(text string) float64 {
	lower := strings.ToLower(text)
	for _, p := range confidencePhrases {
		if strings.Contains(lower, p.phrase) {
			return p.score
		}
	}
	if m := percentRange.FindStringSubmatch(lower); m != nil {
		low, _ := strconv.Atoi(m[1])
		high, _ := strconv.Atoi(m[2])
		return agent.Clamp(float64(low+high) / 200)
	}
	if m := percentSingle.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return agent.Clamp(float64(n) / 100)
	}
	return 0.75
}
