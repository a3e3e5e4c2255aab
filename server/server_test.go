package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetpotato0/socratiq/agent"
	"github.com/sweetpotato0/socratiq/api"
	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/orchestrator"
	"github.com/sweetpotato0/socratiq/pkg/logging"
	"github.com/sweetpotato0/socratiq/pkg/traceid"
)

func init() { gin.SetMode(gin.TestMode) }

type agentFunc func(ctx context.Context, req *agent.Request) (*agent.Result, error)

func (f agentFunc) Handle(ctx context.Context, req *agent.Request) (*agent.Result, error) {
	return f(ctx, req)
}

type sophieFunc func(ctx context.Context, req *orchestrator.Request) (*orchestrator.Response, error)

func (f sophieFunc) Handle(ctx context.Context, req *orchestrator.Request) (*orchestrator.Response, error) {
	return f(ctx, req)
}

type attributor map[string]map[string]any

func (a attributor) Attribution(_ context.Context, collection string) (map[string]any, error) {
	if collection == "broken" {
		return nil, errors.New("bucket unavailable")
	}
	return a[collection], nil
}

func testServer(opts ...Option) http.Handler {
	finn := agentFunc(func(_ context.Context, req *agent.Request) (*agent.Result, error) {
		if req.Query == "" {
			return nil, errorskg.Validation("Missing required field: query")
		}
		return &agent.Result{Agent: "FINN", Response: "ok", TraceID: req.TraceID}, nil
	})
	sophie := sophieFunc(func(_ context.Context, req *orchestrator.Request) (*orchestrator.Response, error) {
		return &orchestrator.Response{Synthesis: orchestrator.Synthesis{Recommendation: req.Text(), TraceID: req.TraceID}}, nil
	})
	base := []Option{
		WithLogger(logging.Discard()),
		WithPipeline(api.NewPipeline(api.WithLogger(logging.Discard()))),
		WithAgent("finn", finn, "finn-corpus"),
		WithAgent("NORA", finn, "broken"),
		WithAgent("CLIA", finn, ""),
		WithOrchestrator(sophie),
		WithAttributor(attributor{"finn-corpus": {"license": "CC-BY"}}),
	}
	return New(append(base, opts...)...).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAgentRoute(t *testing.T) {
	h := testServer()

	w := do(t, h, http.MethodPost, "/v1/agents/finn", `{"query":"roi?"}`, traceid.Header, "trace-hdr")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "trace-hdr", w.Header().Get(traceid.Header))
	var res agent.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "trace-hdr", res.TraceID)

	w = do(t, h, http.MethodPost, "/v1/agents/FINN", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var eb api.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &eb))
	assert.Equal(t, "Missing required field: query", eb.Message)
	assert.Equal(t, w.Header().Get(traceid.Header), eb.TraceID)

	w = do(t, h, http.MethodPost, "/v1/agents/ZED", `{"query":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSophieRoute(t *testing.T) {
	w := do(t, testServer(), http.MethodPost, "/v1/sophie", `{"body":"{\"message\":\"partner?\",\"traceId\":\"trace-body\"}"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var wire map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wire))
	assert.Equal(t, "partner?", wire["recommendation"])
	assert.Equal(t, "trace-body", wire["traceId"])

	w = do(t, testServer(), http.MethodPost, "/v1/sophie", `{oops`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttributionRoute(t *testing.T) {
	h := testServer()

	w := do(t, h, http.MethodGet, "/v1/agents/finn/attribution", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"agent":"FINN","collection":"finn-corpus","attribution":{"license":"CC-BY"}}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/v1/agents/nora/attribution", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "bucket unavailable")

	w = do(t, h, http.MethodGet, "/v1/agents/clia/attribution", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "CLIA_CORPUS_BUCKET")
}

func TestHealthReadyMetricsAndCORS(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("# metrics")) })
	h := testServer(WithMetricsHandler(metrics), WithReadiness(func(context.Context) error { return errors.New("llm down") }))

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", "").Code)
	w := do(t, h, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "llm down")
	assert.Equal(t, "# metrics", do(t, h, http.MethodGet, "/metrics", "").Body.String())

	w = do(t, h, http.MethodGet, "/v1/agents", "")
	assert.JSONEq(t, `{"agents":["FINN","NORA","CLIA"],"orchestrator":true}`, w.Body.String())

	w = do(t, h, http.MethodOptions, "/v1/sophie", "",
		"Origin", "https://app.example.com",
		"Access-Control-Request-Method", "POST",
		"Access-Control-Request-Headers", "Content-Type")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")

	assert.Equal(t, http.StatusOK, do(t, testServer(), http.MethodGet, "/readyz", "").Code)
}

func TestMCPMount(t *testing.T) {
	var method string
	h := testServer(WithMCPHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusAccepted)
	})))

	w := do(t, h, http.MethodPost, "/mcp", `{"jsonrpc":"2.0"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, http.MethodPost, method)

	assert.Equal(t, http.StatusNotFound, do(t, testServer(), http.MethodPost, "/mcp", "{}").Code)
}
