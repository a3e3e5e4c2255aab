// Package provider builds the configured LLM backend.
package provider

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sweetpotato0/socratiq/agent"
	"github.com/sweetpotato0/socratiq/config"
	"github.com/sweetpotato0/socratiq/contrib/provider/claude"
	"github.com/sweetpotato0/socratiq/contrib/provider/gemini"
	"github.com/sweetpotato0/socratiq/contrib/provider/openai"
	"github.com/sweetpotato0/socratiq/message"
)

// New returns the LLM client selected by cfg.Provider and a function that
// releases it.
func New(ctx context.Context, cfg config.LLMConfig) (agent.LLMClient, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Provider {
	case config.ProviderClaude:
		if cfg.APIKey == "" {
			return nil, nil, fmt.Errorf("llm.api_key is required for provider %s", cfg.Provider)
		}
		return claude.New(ctx, claude.Config{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, Model: cfg.Model}), noop, nil
	case config.ProviderBedrock:
		// The AWS default config chain reads the region from the environment.
		if cfg.Region != "" {
			if err := os.Setenv("AWS_REGION", cfg.Region); err != nil {
				return nil, nil, fmt.Errorf("set AWS_REGION: %w", err)
			}
		}
		return claude.New(ctx, claude.Config{BaseURL: cfg.BaseURL, Model: cfg.Model, Bedrock: true}), noop, nil
	case config.ProviderOpenAI:
		return openai.New(openai.Config{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, Model: cfg.Model}), noop, nil
	case config.ProviderGemini:
		p, err := gemini.New(ctx, gemini.Config{APIKey: cfg.APIKey, Model: cfg.Model})
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
}

// Ping asks the model to echo a fixed token and fails unless it does.
func Ping(ctx context.Context, llm agent.LLMClient) error {
	resp, err := llm.Generate(ctx, &agent.GenerateRequest{
		System:    "You are a helpful assistant.",
		Messages:  []*message.Message{message.User(`Reply with "OK" if you can read this message.`)},
		MaxTokens: 100,
	})
	if err != nil {
		return fmt.Errorf("llm ping: %w", err)
	}
	if !strings.Contains(resp.Text(), "OK") {
		return fmt.Errorf("llm ping: unexpected reply %q", resp.Text())
	}
	return nil
}
