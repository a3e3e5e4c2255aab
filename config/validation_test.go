package config

import (
	"strings"
	"testing"
)

func TestValidatorRequireNonEmpty(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{name: "non-empty value", value: "VERA-corpus", wantError: false},
		{name: "empty value", value: "", wantError: true},
		{name: "blank value", value: "   ", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator()
			v.RequireNonEmpty("agents.vera.collection", tt.value)
			if got := v.HasErrors(); got != tt.wantError {
				t.Errorf("HasErrors() = %v, want %v", got, tt.wantError)
			}
		})
	}
}

func TestValidatorRangesAndOneOf(t *testing.T) {
	v := NewValidator().
		RequirePositive("corpus.max_results", 0).
		ValidateFloatRange("corpus.min_score", 1.5, 0, 1).
		ValidateRange("corpus.redis.db", 3, 0, 15).
		ValidateOneOf("llm.provider", "cohere", ProviderClaude, ProviderOpenAI)

	errs := v.Errors()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
	fields := []string{errs[0].Field, errs[1].Field, errs[2].Field}
	want := []string{"corpus.max_results", "corpus.min_score", "llm.provider"}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("field %d = %s, want %s", i, fields[i], want[i])
		}
	}
	if err := v.Error(); err == nil || !strings.Contains(err.Error(), "llm.provider") {
		t.Fatalf("combined error missing field: %v", err)
	}
}

func TestValidatorWhen(t *testing.T) {
	v := NewValidator().
		When(false, func(v *Validator) { v.RequireNonEmpty("skipped", "") }).
		When(true, func(v *Validator) { v.RequireNonEmpty("checked", "") })
	if len(v.Errors()) != 1 || v.Errors()[0].Field != "checked" {
		t.Fatalf("unexpected errors: %v", v.Errors())
	}
	if NewValidator().Error() != nil {
		t.Fatalf("empty validator should return nil error")
	}
}
