package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetpotato0/socratiq/agent"
	"github.com/sweetpotato0/socratiq/api"
	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/orchestrator"
	"github.com/sweetpotato0/socratiq/pkg/logging"
)

type agentFunc func(ctx context.Context, req *agent.Request) (*agent.Result, error)

func (f agentFunc) Handle(ctx context.Context, req *agent.Request) (*agent.Result, error) {
	return f(ctx, req)
}

type sophieFunc func(ctx context.Context, req *orchestrator.Request) (*orchestrator.Response, error)

func (f sophieFunc) Handle(ctx context.Context, req *orchestrator.Request) (*orchestrator.Response, error) {
	return f(ctx, req)
}

func testServer() *sdkmcp.Server {
	echo := func(name string) agentFunc {
		return func(_ context.Context, req *agent.Request) (*agent.Result, error) {
			if req.Query == "bad" {
				return nil, errorskg.Validation("Missing required field: query")
			}
			return &agent.Result{
				Agent:    name,
				Response: name + " saw " + req.Query,
				SubAgent: req.SubAgent,
				TraceID:  req.TraceID,
				Metadata: &agent.Metadata{CorpusDocumentsRetrieved: len(req.PreviousResponses)},
			}, nil
		}
	}
	return NewServer(
		WithServerLogger(logging.Discard()),
		WithPipeline(api.NewPipeline(api.WithLogger(logging.Discard()))),
		WithAgent("finn", echo("FINN")),
		WithAgent("VERA", echo("VERA")),
		WithOrchestrator(sophieFunc(func(_ context.Context, req *orchestrator.Request) (*orchestrator.Response, error) {
			return &orchestrator.Response{Synthesis: orchestrator.Synthesis{Recommendation: "proceed: " + req.Text(), TraceID: req.TraceID}}, nil
		})),
	)
}

func connectPair(t *testing.T, srv *sdkmcp.Server) *Client {
	t.Helper()
	ctx := context.Background()
	clientT, serverT := sdkmcp.NewInMemoryTransports()
	ss, err := srv.Connect(ctx, serverT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	c, err := NewClient(ctx, clientT, WithClientLogger(logging.Discard()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestServerTools(t *testing.T) {
	c := connectPair(t, testServer())
	assert.Equal(t, "socratiq", c.ServerName())

	names, err := c.ListTools(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{ToolListAgents, ToolAskSophie, "ask_vera", "ask_finn"}, names)

	res, err := c.CallTool(context.Background(), ToolListAgents, map[string]any{})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.JSONEq(t, `{"agents":["VERA","FINN"],"orchestrator":true}`, resultText(res))
}

func TestAskSophieTool(t *testing.T) {
	c := connectPair(t, testServer())

	res, err := c.CallTool(context.Background(), ToolAskSophie, map[string]any{"message": "license it?", "traceId": "trace-mcp"})
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(res))

	var wire map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &wire))
	assert.Equal(t, "proceed: license it?", wire["recommendation"])
	assert.Equal(t, "trace-mcp", wire["traceId"])
}

func TestAgentToolError(t *testing.T) {
	c := connectPair(t, testServer())

	res, err := c.CallTool(context.Background(), AgentTool("FINN"), map[string]any{"query": "bad"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), `"statusCode":400`)
}

func TestInvoker(t *testing.T) {
	srv := testServer()
	dials := 0
	inv := NewInvoker()
	inv.dial = func(context.Context, string) (*Client, error) {
		dials++
		return connectPair(t, srv), nil
	}
	defer inv.Close()

	payload, err := json.Marshal(agent.Request{
		Query:             "runway?",
		SubAgent:          "budget",
		PreviousResponses: []agent.Result{{Agent: "VERA", Response: "safe"}},
		TraceID:           "trace-inv",
	})
	require.NoError(t, err)

	status, body, err := inv.Invoke(context.Background(), "FINN", "mem://agents", payload)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	var res agent.Result
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, "FINN saw runway?", res.Response)
	assert.Equal(t, "budget", res.SubAgent)
	assert.Equal(t, "trace-inv", res.TraceID)
	require.NotNil(t, res.Metadata)
	assert.Equal(t, 1, res.Metadata.CorpusDocumentsRetrieved)

	bad, err := json.Marshal(agent.Request{Query: "bad"})
	require.NoError(t, err)
	status, body, err = inv.Invoke(context.Background(), "FINN", "mem://agents", bad)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "Missing required field: query")

	assert.Equal(t, 1, dials)
}

func TestInvokerRedialsClosedSession(t *testing.T) {
	srv := testServer()
	dials := 0
	inv := NewInvoker()
	inv.dial = func(context.Context, string) (*Client, error) {
		dials++
		return connectPair(t, srv), nil
	}
	payload := []byte(`{"query":"q"}`)

	_, _, err := inv.Invoke(context.Background(), "VERA", "t", payload)
	require.NoError(t, err)
	require.NoError(t, inv.Close())

	status, _, err := inv.Invoke(context.Background(), "VERA", "t", payload)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, dials)
}

func TestDialRejectsEmptyTarget(t *testing.T) {
	_, err := Dial(context.Background(), "  ")
	assert.Error(t, err)
}
