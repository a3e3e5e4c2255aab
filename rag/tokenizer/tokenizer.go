package tokenizer

import (
	"unicode"
)

// Counter counts model tokens in text.
type Counter interface {
	CountTokens(text string) int
}

var _ Counter = (*Estimator)(nil)

// Estimator approximates token counts without a vocabulary: every run of
// letters or digits counts as ceil(len/4) tokens and every other non-space
// rune counts as one. It tends to overestimate slightly, which is the safe
// direction for a context budget.
type Estimator struct{}

// NewEstimator returns the vocabulary-free counter.
func NewEstimator() *Estimator { return &Estimator{} }

// CountTokens implements Counter.
func (Estimator) CountTokens(text string) int {
	count, run := 0, 0
	flush := func() {
		if run > 0 {
			count += (run + 3) / 4
			run = 0
		}
	}
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			run++
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			count++
		}
	}
	flush()
	return count
}

// Fit returns how many leading items fit in budget tokens. At least one item
// is always kept when items is non-empty. A non-positive budget keeps all.
func Fit(counter Counter, budget int, items []string) int {
	if len(items) == 0 {
		return 0
	}
	if budget <= 0 || counter == nil {
		return len(items)
	}
	used := 0
	for i, item := range items {
		used += counter.CountTokens(item)
		if used > budget {
			return max(i, 1)
		}
	}
	return len(items)
}
