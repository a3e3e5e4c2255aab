package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/sweetpotato0/socratiq/agent"
	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/message"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// Config holds OpenAI provider configuration
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Options are appended to the SDK request options.
	Options []option.RequestOption
}

// Provider implements agent.LLMClient for OpenAI-compatible chat APIs
type Provider struct {
	model  string
	client openai.Client
}

// New creates a new OpenAI provider using the official SDK
func New(cfg Config) *Provider {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, cfg.Options...)
	return &Provider{model: model, client: openai.NewClient(opts...)}
}

// Model returns the configured model id
func (p *Provider) Model() string { return p.model }

// Generate implements agent.LLMClient
func (p *Provider) Generate(ctx context.Context, req *agent.GenerateRequest) (*agent.GenerateResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("generate request cannot be nil")
	}
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.model),
		Messages:    convertMessages(req.System, req.Messages),
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(req.MaxTokens)
	}
	if req.TopP > 0 {
		params.TopP = openai.Float(req.TopP)
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		status := 0
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		return nil, errorskg.FromModelStatus("OpenAI", status, err)
	}
	if len(completion.Choices) == 0 {
		return nil, errorskg.ModelFailure("OpenAI", errors.New("no choices in response"))
	}

	choice := completion.Choices[0]
	return &agent.GenerateResponse{
		Message:    message.Assistant(choice.Message.Content),
		StopReason: stopReason(choice.FinishReason),
		Usage: agent.Usage{
			InputTokens:  completion.Usage.PromptTokens,
			OutputTokens: completion.Usage.CompletionTokens,
		},
	}, nil
}

func convertMessages(system string, msgs []*message.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs)+1)
	if system != "" {
		out = append(out, openai.SystemMessage(system))
	}
	for _, msg := range msgs {
		switch msg.Role {
		case message.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Text()))
		case message.RoleUser:
			out = append(out, openai.UserMessage(msg.Text()))
		case message.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Text()))
		}
	}
	return out
}

// stopReason maps OpenAI finish reasons onto the Anthropic vocabulary used by
// confidence scoring.
func stopReason(finish string) string {
	switch finish {
	case "length":
		return agent.StopReasonMaxTokens
	case "stop":
		return "end_turn"
	}
	return finish
}
