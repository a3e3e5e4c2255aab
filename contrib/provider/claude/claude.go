package claude

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/sweetpotato0/socratiq/agent"
	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/message"
)

const (
	// DefaultModel is used against the Anthropic API when no model is set.
	DefaultModel = "claude-sonnet-4-5-20250929"
	// DefaultBedrockModel is the Bedrock inference profile used when no model is set.
	DefaultBedrockModel = "us.anthropic.claude-3-5-sonnet-20241022-v2:0"
)

// Config holds Claude provider configuration
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Bedrock routes calls through AWS Bedrock using the default AWS
	// credential and region chain instead of an API key.
	Bedrock bool
	// Options are appended to the SDK request options.
	Options []option.RequestOption
}

// Provider implements agent.LLMClient for Claude
type Provider struct {
	model   string
	backend string
	client  anthropic.Client
}

// New creates a new Claude provider using the official SDK
func New(ctx context.Context, cfg Config) *Provider {
	// Calls are not retried; a failed call surfaces to the caller.
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	backend := "Claude"
	model := cfg.Model
	if cfg.Bedrock {
		backend = "Bedrock"
		opts = append(opts, bedrock.WithLoadDefaultConfig(ctx))
		if model == "" {
			model = DefaultBedrockModel
		}
	} else {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
		if model == "" {
			model = DefaultModel
		}
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, cfg.Options...)
	return &Provider{model: model, backend: backend, client: anthropic.NewClient(opts...)}
}

// Model returns the configured model id
func (p *Provider) Model() string { return p.model }

// Generate implements agent.LLMClient
func (p *Provider) Generate(ctx context.Context, req *agent.GenerateRequest) (*agent.GenerateResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("generate request cannot be nil")
	}
	msg, err := p.client.Messages.New(ctx, p.params(req))
	if err != nil {
		return nil, p.mapError(err)
	}
	return &agent.GenerateResponse{
		Message:    message.Assistant(joinText(msg.Content)),
		StopReason: string(msg.StopReason),
		Usage: agent.Usage{
			InputTokens:  msg.Usage.InputTokens,
			OutputTokens: msg.Usage.OutputTokens,
		},
	}, nil
}

func (p *Provider) params(req *agent.GenerateRequest) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		Messages:  convertMessages(req.Messages),
		MaxTokens: req.MaxTokens,
	}
	if params.MaxTokens <= 0 {
		params.MaxTokens = 4096
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	params.Temperature = param.NewOpt(req.Temperature)
	if req.TopP > 0 {
		params.TopP = param.NewOpt(req.TopP)
	}
	return params
}

func convertMessages(msgs []*message.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(msgs))
	for _, msg := range msgs {
		switch msg.Role {
		case message.RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Text())))
		case message.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Text())))
		}
	}
	return out
}

// joinText concatenates the text blocks of a reply with newlines.
func joinText(blocks []anthropic.ContentBlockUnion) string {
	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func (p *Provider) mapError(err error) error {
	status := 0
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		status = apiErr.StatusCode
	}
	return errorskg.FromModelStatus(p.backend, status, err)
}
