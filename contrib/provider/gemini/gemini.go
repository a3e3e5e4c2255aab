package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sweetpotato0/socratiq/agent"
	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/message"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-pro"

// Config holds Gemini provider configuration
type Config struct {
	APIKey string
	Model  string
	// Options are appended to the client options.
	Options []option.ClientOption
}

// Provider implements agent.LLMClient for Google Gemini
type Provider struct {
	model  string
	client *genai.Client
}

// New creates a Gemini provider. Close releases the client.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key not configured")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	opts := append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, cfg.Options...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Provider{model: model, client: client}, nil
}

// Model returns the configured model id
func (p *Provider) Model() string { return p.model }

// Close releases the underlying client
func (p *Provider) Close() error { return p.client.Close() }

// Generate implements agent.LLMClient
func (p *Provider) Generate(ctx context.Context, req *agent.GenerateRequest) (*agent.GenerateResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("generate request cannot be nil")
	}
	history, last := splitMessages(req.Messages)
	if len(last) == 0 {
		return nil, fmt.Errorf("generate request needs a user message")
	}

	model := p.client.GenerativeModel(p.model)
	if req.System != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(req.System))
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	model.SetTemperature(float32(req.Temperature))
	if req.TopP > 0 {
		model.SetTopP(float32(req.TopP))
	}

	chat := model.StartChat()
	chat.History = history
	resp, err := chat.SendMessage(ctx, last...)
	if err != nil {
		return nil, mapError(err)
	}

	out := &agent.GenerateResponse{Message: message.Assistant(responseText(resp))}
	if len(resp.Candidates) > 0 {
		out.StopReason = stopReason(resp.Candidates[0].FinishReason)
	}
	if resp.UsageMetadata != nil {
		out.Usage = agent.Usage{
			InputTokens:  int64(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return out, nil
}

// splitMessages turns all but the final message into chat history and
// returns the final message's parts.
func splitMessages(msgs []*message.Message) ([]*genai.Content, []genai.Part) {
	var contents []*genai.Content
	for _, msg := range msgs {
		role := "user"
		switch msg.Role {
		case message.RoleAssistant:
			role = "model"
		case message.RoleSystem:
			continue
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(msg.Text())}})
	}
	if len(contents) == 0 {
		return nil, nil
	}
	last := contents[len(contents)-1]
	return contents[:len(contents)-1], last.Parts
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	return strings.Join(parts, "\n")
}

func stopReason(reason genai.FinishReason) string {
	switch reason {
	case genai.FinishReasonMaxTokens:
		return agent.StopReasonMaxTokens
	case genai.FinishReasonStop:
		return "end_turn"
	}
	return strings.ToLower(reason.String())
}

func mapError(err error) error {
	code := 0
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		code = gErr.Code
	} else if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.ResourceExhausted:
			code = http.StatusTooManyRequests
		case codes.InvalidArgument:
			code = http.StatusBadRequest
		}
	}
	return errorskg.FromModelStatus("Gemini", code, err)
}
