package local

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetpotato0/socratiq/agent"
	"github.com/sweetpotato0/socratiq/api"
	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/pkg/logging"
)

type handlerFunc func(ctx context.Context, req *agent.Request) (*agent.Result, error)

func (f handlerFunc) Handle(ctx context.Context, req *agent.Request) (*agent.Result, error) {
	return f(ctx, req)
}

func TestRegistryInvoke(t *testing.T) {
	reg := New(api.NewPipeline(api.WithLogger(logging.Discard())))
	reg.Register("finn", handlerFunc(func(_ context.Context, req *agent.Request) (*agent.Result, error) {
		if req.Query == "" {
			return nil, errorskg.Validation("Missing required field: query")
		}
		return &agent.Result{Agent: "FINN", Response: "answer to " + req.Query, TraceID: req.TraceID}, nil
	}))

	assert.Equal(t, []string{"FINN"}, reg.Names())
	_, ok := reg.Handler("Finn")
	assert.True(t, ok)

	status, body, err := reg.Invoke(context.Background(), "FINN", "FINN", []byte(`{"query":"roi","traceId":"trace-5"}`))
	require.NoError(t, err)
	require.Equal(t, 200, status)
	var res agent.Result
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, "answer to roi", res.Response)
	assert.Equal(t, "trace-5", res.TraceID)

	status, body, err = reg.Invoke(context.Background(), "FINN", "FINN", []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, 400, status)
	assert.Contains(t, string(body), "Missing required field: query")

	_, _, err = reg.Invoke(context.Background(), "CLIA", "CLIA", []byte(`{}`))
	assert.Error(t, err)
}
