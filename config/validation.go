package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for field %q: %s", e.Field, e.Message)
}

// Validator collects configuration validation errors
type Validator struct {
	errors []ValidationError
}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{
		errors: []ValidationError{},
	}
}

func (v *Validator) add(field, format string, args ...any) *Validator {
	v.errors = append(v.errors, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	return v
}

// RequireNonEmpty validates that a string field is not empty
func (v *Validator) RequireNonEmpty(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v.add(field, "value cannot be empty")
	}
	return v
}

// RequirePositive validates that an integer field is greater than 0
func (v *Validator) RequirePositive(field string, value int) *Validator {
	if value <= 0 {
		return v.add(field, "value must be positive, got %d", value)
	}
	return v
}

// ValidateRange validates that an integer field is within [min, max]
func (v *Validator) ValidateRange(field string, value, min, max int) *Validator {
	if value < min || value > max {
		return v.add(field, "value must be between %d and %d, got %d", min, max, value)
	}
	return v
}

// ValidateFloatRange validates that a float field is within [min, max]
func (v *Validator) ValidateFloatRange(field string, value, min, max float64) *Validator {
	if value < min || value > max {
		return v.add(field, "value must be between %.2f and %.2f, got %.2f", min, max, value)
	}
	return v
}

// ValidateOneOf validates that a string value is one of the allowed options
func (v *Validator) ValidateOneOf(field string, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if a == value {
			return v
		}
	}
	return v.add(field, "value must be one of %v, got %q", allowed, value)
}

// When runs fn only if cond holds, for backend-specific checks.
func (v *Validator) When(cond bool, fn func(*Validator)) *Validator {
	if cond {
		fn(v)
	}
	return v
}

// HasErrors returns true if there are any validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Error returns a combined error message or nil if no errors
func (v *Validator) Error() error {
	if !v.HasErrors() {
		return nil
	}

	var b strings.Builder
	b.WriteString("configuration validation failed:\n")
	for _, e := range v.errors {
		fmt.Fprintf(&b, "  - %s: %s\n", e.Field, e.Message)
	}
	return errors.New(b.String())
}

// Errors returns all validation errors
func (v *Validator) Errors() []ValidationError {
	return v.errors
}

// Validate checks the fields every command needs regardless of role.
func (c *Config) Validate() error {
	v := NewValidator()

	v.ValidateOneOf("llm.provider", c.LLM.Provider, ProviderClaude, ProviderBedrock, ProviderOpenAI, ProviderGemini)
	v.RequirePositive("llm.max_tokens", c.LLM.MaxTokens)
	v.ValidateOneOf("corpus.backend", c.Corpus.Backend, BackendFS, BackendGCS, BackendRedis, BackendPostgres, BackendMongo)
	v.RequirePositive("corpus.max_results", c.Corpus.MaxResults)
	v.ValidateFloatRange("corpus.min_score", c.Corpus.MinScore, 0, 1)
	v.ValidateOneOf("orchestrator.transport", c.Orchestrator.Transport, TransportLocal, TransportHTTP, TransportMCP)

	v.When(c.Corpus.Backend == BackendFS, func(v *Validator) {
		v.RequireNonEmpty("corpus.root", c.Corpus.Root)
	})
	v.When(c.Corpus.Backend == BackendRedis, func(v *Validator) {
		v.RequireNonEmpty("corpus.redis.addr", c.Corpus.Redis.Addr)
		v.ValidateRange("corpus.redis.db", c.Corpus.Redis.DB, 0, 15)
	})
	v.When(c.Corpus.Backend == BackendPostgres, func(v *Validator) {
		v.RequireNonEmpty("corpus.postgres.dsn", c.Corpus.Postgres.DSN)
		v.RequireNonEmpty("corpus.postgres.table", c.Corpus.Postgres.Table)
	})
	v.When(c.Corpus.Backend == BackendMongo, func(v *Validator) {
		v.RequireNonEmpty("corpus.mongo.uri", c.Corpus.Mongo.URI)
		v.RequireNonEmpty("corpus.mongo.database", c.Corpus.Mongo.Database)
	})
	v.When(c.Telemetry.Exporter != "", func(v *Validator) {
		v.ValidateOneOf("telemetry.exporter", c.Telemetry.Exporter, ExporterOTLP, ExporterStdout, ExporterNone)
	})
	v.ValidateFloatRange("telemetry.sample_ratio", c.Telemetry.SampleRatio, 0, 1)
	v.When(c.Orchestrator.Transport != TransportLocal, func(v *Validator) {
		v.RequirePositive("orchestrator.agent_timeout_seconds", int(c.Orchestrator.AgentTimeout.Seconds()))
	})

	return v.Error()
}
