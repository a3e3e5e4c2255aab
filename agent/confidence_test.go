package agent

import (
	"strings"
	"testing"
)

func TestConfidence(t *testing.T) {
	long := strings.Repeat("x", 501)
	cases := []struct {
		name string
		text string
		stop string
		want float64
	}{
		{"default", "plain answer", "", 0.75},
		{"self reported", "Confidence level: 90%", "", 0.90},
		{"citations capped", "[a](1) [b](2) [c](3) [d](4) [e](5) [f](6)", "", 0.95},
		{"length bonus", long, "", 0.80},
		{"truncated", "cut", StopReasonMaxTokens, 0.60},
		{"uncertainty", "It is unclear and I am not sure.", "", 0.65},
		{"clamped high", "Confidence: 100% [a](b) " + long, "", 1},
		{"clamped low", "Confidence: 5% unclear unknown not sure", StopReasonMaxTokens, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Confidence(tc.text, tc.stop)
			if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("Confidence = %v, want %v", got, tc.want)
			}
		})
	}
}
