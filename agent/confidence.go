package agent

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	defaultConfidence  = 0.75
	citationBonus      = 0.05
	citationCap        = 0.2
	lengthBonus        = 0.05
	lengthThreshold    = 500
	truncationPenalty  = 0.15
	uncertaintyPenalty = 0.05
)

var (
	selfReported     = regexp.MustCompile(`(?i)confidence(?: level| score)?\s*[:=]\s*(\d{1,3})\s*%`)
	markdownCitation = regexp.MustCompile(`\[.*?\]\(.*?\)`)

	uncertaintyPhrases = []string{
		"not sure",
		"unclear",
		"unknown",
		"insufficient information",
		"cannot determine",
		"may or may not",
		"it depends",
	}
)

// Confidence scores a model reply in [0,1].
func Confidence(text, stopReason string) float64 {
	score := defaultConfidence
	if m := selfReported.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n <= 100 {
			score = float64(n) / 100
		}
	}

	citations := float64(len(markdownCitation.FindAllStringIndex(text, -1))) * citationBonus
	score += min(citations, citationCap)

	if len(text) > lengthThreshold {
		score += lengthBonus
	}
	if stopReason == StopReasonMaxTokens {
		score -= truncationPenalty
	}

	lower := strings.ToLower(text)
	for _, phrase := range uncertaintyPhrases {
		if strings.Contains(lower, phrase) {
			score -= uncertaintyPenalty
		}
	}
	return Clamp(score)
}

// Clamp bounds v to [0,1].
func Clamp(v float64) float64 {
	return max(0, min(1, v))
}
