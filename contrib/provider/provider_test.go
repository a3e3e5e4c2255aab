package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetpotato0/socratiq/agent"
	"github.com/sweetpotato0/socratiq/config"
	"github.com/sweetpotato0/socratiq/contrib/provider/claude"
	"github.com/sweetpotato0/socratiq/contrib/provider/openai"
	"github.com/sweetpotato0/socratiq/message"
)

type replyLLM struct {
	text string
	err  error
}

func (r replyLLM) Generate(context.Context, *agent.GenerateRequest) (*agent.GenerateResponse, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &agent.GenerateResponse{Message: message.Assistant(r.text)}, nil
}

func TestNewSelectsProvider(t *testing.T) {
	ctx := context.Background()

	llm, closeFn, err := New(ctx, config.LLMConfig{Provider: config.ProviderClaude, APIKey: "k", Model: "claude-x"})
	require.NoError(t, err)
	require.NoError(t, closeFn())
	assert.Equal(t, "claude-x", llm.(*claude.Provider).Model())

	llm, _, err = New(ctx, config.LLMConfig{Provider: config.ProviderOpenAI, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, openai.DefaultModel, llm.(*openai.Provider).Model())

	_, _, err = New(ctx, config.LLMConfig{Provider: config.ProviderClaude})
	assert.Error(t, err)
	_, _, err = New(ctx, config.LLMConfig{Provider: config.ProviderGemini})
	assert.Error(t, err)
	_, _, err = New(ctx, config.LLMConfig{Provider: "llama"})
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	assert.NoError(t, Ping(context.Background(), replyLLM{text: "OK"}))
	assert.Error(t, Ping(context.Background(), replyLLM{text: "hello"}))
	assert.Error(t, Ping(context.Background(), replyLLM{err: errors.New("down")}))
}
