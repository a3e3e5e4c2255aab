package httpx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetpotato0/socratiq/pkg/traceid"
)

func TestEndpoint(t *testing.T) {
	got, err := Endpoint("https://finn.internal:8443/base/", "finn")
	require.NoError(t, err)
	assert.Equal(t, "https://finn.internal:8443/base/v1/agents/FINN", got)

	_, err = Endpoint("arn:aws:lambda:us-east-1:123:function:finn", "FINN")
	assert.Error(t, err)
}

func TestInvokePostsPayload(t *testing.T) {
	var gotPath, gotTrace, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotTrace, gotType = r.URL.Path, r.Header.Get(traceid.Header), r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"ValidationError"}`))
	}))
	defer srv.Close()

	ctx := traceid.WithTraceID(context.Background(), "trace-99")
	status, body, err := New().Invoke(ctx, "NORA", srv.URL, []byte(`{"query":"q"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"ValidationError"}`, string(body))
	assert.Equal(t, "/v1/agents/NORA", gotPath)
	assert.Equal(t, "trace-99", gotTrace)
	assert.Equal(t, "application/json", gotType)
	assert.JSONEq(t, `{"query":"q"}`, string(gotBody))
}

func TestInvokeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, _, err := New(WithTimeout(50*time.Millisecond)).Invoke(context.Background(), "VERA", srv.URL, []byte(`{}`))
	assert.Error(t, err)
}
