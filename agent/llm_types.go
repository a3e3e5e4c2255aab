package agent

import (
	"context"

	"github.com/sweetpotato0/socratiq/message"
)

// StopReasonMaxTokens is reported when generation hit the token limit.
const StopReasonMaxTokens = "max_tokens"

// LLMClient defines the interface for LLM providers
type LLMClient interface {
	// Generate produces one assistant reply for the request.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
}

// GenerateRequest bundles inputs for a non-streaming LLM invocation.
type GenerateRequest struct {
	System      string
	Messages    []*message.Message
	MaxTokens   int64
	Temperature float64
	// TopP is ignored by providers when zero.
	TopP float64
}

// Usage reports token consumption of one call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Total returns input plus output tokens.
func (u Usage) Total() int64 { return u.InputTokens + u.OutputTokens }

// GenerateResponse captures the LLM reply for non-streaming calls.
type GenerateResponse struct {
	Message    *message.Message
	StopReason string
	Usage      Usage
}

// Text returns the reply content, or "" when the response is empty.
func (r *GenerateResponse) Text() string {
	if r == nil {
		return ""
	}
	return r.Message.Text()
}
