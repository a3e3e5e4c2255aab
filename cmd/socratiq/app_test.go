package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetpotato0/socratiq/agent"
	"github.com/sweetpotato0/socratiq/config"
	"github.com/sweetpotato0/socratiq/contrib/corpus/inmemory"
	"github.com/sweetpotato0/socratiq/message"
	"github.com/sweetpotato0/socratiq/pkg/logging"
	"github.com/sweetpotato0/socratiq/rag/corpus"
	"github.com/sweetpotato0/socratiq/transport/local"
)

// stageLLM fails classification and planning, so Sophie takes the keyword
// fallback, and answers agent and synthesis calls.
type stageLLM struct{}

func (stageLLM) Generate(_ context.Context, req *agent.GenerateRequest) (*agent.GenerateResponse, error) {
	switch req.MaxTokens {
	case 8192:
		return &agent.GenerateResponse{Message: message.Assistant("Proceed. High confidence.")}, nil
	case 4096:
		return &agent.GenerateResponse{Message: message.Assistant("Runway is 18 months. Confidence: 80%")}, nil
	}
	return nil, errors.New("unavailable")
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	logging.SetLogger(logging.Discard())
	for _, name := range config.AgentNames {
		t.Setenv(config.CollectionEnv(name), name+"-corpus")
	}
	c, err := config.Load("")
	require.NoError(t, err)
	return c
}

func testApp(t *testing.T) *app {
	t.Helper()
	store := inmemory.New()
	require.NoError(t, store.Put(context.Background(), "FINN-corpus", "documents/finance/runway.md",
		[]byte("# Runway\n**Source URL**: https://example.org/runway\n\nBudget runway is 18 months of cash.")))
	a, err := newApp(context.Background(), testConfig(t), appOptions{llm: stageLLM{}, store: store, needLLM: true})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func testCommand() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	return cmd, &out
}

func TestNewAppWiresLocalTransport(t *testing.T) {
	a := testApp(t)
	require.Len(t, a.agents, 4)
	require.NotNil(t, a.sophie)
	assert.Equal(t, "VERA-corpus", a.agents["VERA"].Collection())

	inv, targets, err := a.transport()
	require.NoError(t, err)
	reg, ok := inv.(*local.Registry)
	require.True(t, ok)
	assert.Equal(t, []string{"CLIA", "FINN", "NORA", "VERA"}, reg.Names())
	assert.Equal(t, "FINN", targets["FINN"])
}

func TestNewAppWithoutLLM(t *testing.T) {
	a, err := newApp(context.Background(), testConfig(t), appOptions{store: inmemory.New()})
	require.NoError(t, err)
	defer a.Close()
	assert.Nil(t, a.sophie)
	assert.Empty(t, a.agents)
	assert.NotNil(t, a.retriever)
}

func TestSelectAgents(t *testing.T) {
	a := testApp(t)

	all, err := a.selectAgents("")
	require.NoError(t, err)
	assert.Equal(t, []string{"VERA", "FINN", "NORA", "CLIA"}, all)

	some, err := a.selectAgents("finn, clia,")
	require.NoError(t, err)
	assert.Equal(t, []string{"FINN", "CLIA"}, some)

	_, err = a.selectAgents("ZED")
	assert.ErrorContains(t, err, "unknown agent")
}

func TestAskAgent(t *testing.T) {
	a := testApp(t)
	askAgent = "finn"
	t.Cleanup(func() { askAgent = "" })

	cmd, out := testCommand()
	require.NoError(t, runAsk(cmd, a, "What is the budget runway?"))

	var res agent.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "FINN", res.Agent)
	assert.InDelta(t, 0.8, res.Confidence, 1e-9)
	require.Len(t, res.Sources, 1)
	assert.Equal(t, "https://example.org/runway", res.Sources[0].URL)
}

func TestAskSophie(t *testing.T) {
	a := testApp(t)
	cmd, out := testCommand()
	require.NoError(t, runAsk(cmd, a, "What's our budget runway?"))

	var wire map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &wire))
	assert.Equal(t, "Proceed. High confidence.", wire["recommendation"])
	meta := wire["metadata"].(map[string]any)
	assert.Equal(t, []any{"FINN"}, meta["agentsInvoked"])
}

func TestAskFailureReturnsError(t *testing.T) {
	a := testApp(t)
	askContext = "not json"
	t.Cleanup(func() { askContext = "" })

	cmd, _ := testCommand()
	assert.ErrorContains(t, runAsk(cmd, a, "q"), "--asset-context")

	askContext = ""
	askAgent = "zed"
	t.Cleanup(func() { askAgent = "" })
	assert.ErrorContains(t, runAsk(cmd, a, "q"), "unknown agent")
}

func TestIngest(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, body string) {
		p := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
	write("clinical/phase2.md", "# Phase 2")
	write("notes.txt", "notes")
	write(".hidden", "skip")
	write(".git/config", "skip")

	store := inmemory.New()
	n, err := ingest(context.Background(), store, "clia", "documents/", []string{dir})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	objs, err := store.List(context.Background(), "clia", "documents/")
	require.NoError(t, err)
	keys := make([]string, 0, len(objs))
	for _, o := range objs {
		keys = append(keys, o.Key)
	}
	assert.Equal(t, []string{"documents/clinical/phase2.md", "documents/notes.txt"}, keys)

	n, err = ingest(context.Background(), store, "clia", "documents/", []string{filepath.Join(dir, "notes.txt")})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = ingest(context.Background(), store, "clia", "documents/", []string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	root := t.TempDir()
	store, closeStore, err := openStore(context.Background(), config.CorpusConfig{Backend: config.BackendFS, Root: root})
	require.NoError(t, err)
	defer closeStore()

	require.NoError(t, store.Put(context.Background(), "vera", corpus.AttributionKey, []byte(`{"license":"CC-BY"}`)))
	data, err := store.Get(context.Background(), "vera", corpus.AttributionKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"license":"CC-BY"}`, string(data))

	_, _, err = openStore(context.Background(), config.CorpusConfig{Backend: "s3"})
	assert.ErrorContains(t, err, "unknown corpus backend")
}

func TestNewCounterDefaultsToEstimator(t *testing.T) {
	c, err := newCounter("")
	require.NoError(t, err)
	assert.Positive(t, c.CountTokens("budget runway"))
}

func TestLoadEnv(t *testing.T) {
	assert.NoError(t, loadEnv(filepath.Join(t.TempDir(), "absent.env")))

	p := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(p, []byte("SOCRATIQ_TEST_DOTENV=loaded\n"), 0o600))
	t.Setenv("SOCRATIQ_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("SOCRATIQ_TEST_DOTENV"))
	require.NoError(t, loadEnv(p))
	assert.Equal(t, "loaded", os.Getenv("SOCRATIQ_TEST_DOTENV"))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "socratiq dev\n", out.String())
}
