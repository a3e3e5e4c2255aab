package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sweetpotato0/socratiq/agent"
	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/message"
)

func TestSplitMessages(t *testing.T) {
	history, last := splitMessages([]*message.Message{
		message.NewMessage(message.RoleSystem, "ignored"),
		message.User("first"),
		message.Assistant("reply"),
		message.User("second"),
	})
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[1].Role)
	assert.Equal(t, []genai.Part{genai.Text("second")}, last)

	history, last = splitMessages(nil)
	assert.Nil(t, history)
	assert.Nil(t, last)
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content:      &genai.Content{Parts: []genai.Part{genai.Text("a"), genai.Text("b")}},
		FinishReason: genai.FinishReasonMaxTokens,
	}}}
	assert.Equal(t, "a\nb", responseText(resp))
	assert.Equal(t, agent.StopReasonMaxTokens, stopReason(resp.Candidates[0].FinishReason))
	assert.Equal(t, "end_turn", stopReason(genai.FinishReasonStop))
	assert.Empty(t, responseText(&genai.GenerateContentResponse{}))
}

func TestMapError(t *testing.T) {
	assert.True(t, errors.Is(mapError(&googleapi.Error{Code: 429}), errorskg.ErrThrottled))
	assert.True(t, errors.Is(mapError(status.Error(codes.ResourceExhausted, "quota")), errorskg.ErrThrottled))
	assert.Equal(t, "Invalid request parameters for Gemini model.", mapError(status.Error(codes.InvalidArgument, "bad")).Error())
	assert.Contains(t, mapError(errors.New("boom")).Error(), "Gemini invocation failed")
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}
