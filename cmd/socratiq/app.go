package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/option"

	"github.com/sweetpotato0/socratiq/agent"
	"github.com/sweetpotato0/socratiq/api"
	"github.com/sweetpotato0/socratiq/config"
	fscorpus "github.com/sweetpotato0/socratiq/contrib/corpus/fs"
	gcscorpus "github.com/sweetpotato0/socratiq/contrib/corpus/gcs"
	mongocorpus "github.com/sweetpotato0/socratiq/contrib/corpus/mongo"
	pgcorpus "github.com/sweetpotato0/socratiq/contrib/corpus/pg"
	rediscorpus "github.com/sweetpotato0/socratiq/contrib/corpus/redis"
	"github.com/sweetpotato0/socratiq/contrib/provider"
	"github.com/sweetpotato0/socratiq/contrib/tokenizer/tiktoken"
	"github.com/sweetpotato0/socratiq/domains"
	"github.com/sweetpotato0/socratiq/mcp"
	"github.com/sweetpotato0/socratiq/orchestrator"
	"github.com/sweetpotato0/socratiq/pkg/logging"
	"github.com/sweetpotato0/socratiq/pkg/telemetry"
	"github.com/sweetpotato0/socratiq/rag/corpus"
	"github.com/sweetpotato0/socratiq/rag/retriever"
	"github.com/sweetpotato0/socratiq/rag/tokenizer"
	"github.com/sweetpotato0/socratiq/runner"
	"github.com/sweetpotato0/socratiq/transport"
	"github.com/sweetpotato0/socratiq/transport/httpx"
	"github.com/sweetpotato0/socratiq/transport/local"
)

// app is the wired process: one LLM client and document store shared by the
// domain agents, and Sophie invoking them over the configured transport.
type app struct {
	cfg       *config.Config
	llm       agent.LLMClient
	store     corpus.ReadWriter
	retriever *retriever.Retriever
	pipeline  *api.Pipeline
	agents    map[string]*agent.Agent
	sophie    *orchestrator.Orchestrator
	metrics   *telemetry.Metrics
	logger    *slog.Logger
	closers   []func() error
}

type appOptions struct {
	metrics *telemetry.Metrics
	// llm replaces the configured provider.
	llm agent.LLMClient
	// store replaces the configured corpus backend.
	store corpus.ReadWriter
	// needLLM is false for commands that only touch the document store.
	needLLM bool
}

func newApp(ctx context.Context, cfg *config.Config, opts appOptions) (*app, error) {
	a := &app{
		cfg:     cfg,
		agents:  make(map[string]*agent.Agent),
		metrics: opts.metrics,
		logger:  logging.WithComponent("socratiq"),
	}
	if err := a.init(ctx, opts); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) init(ctx context.Context, opts appOptions) error {
	cfg := a.cfg
	a.store = opts.store
	if a.store == nil {
		store, closeStore, err := openStore(ctx, cfg.Corpus)
		if err != nil {
			return err
		}
		a.store = store
		a.closers = append(a.closers, closeStore)
	}
	a.retriever = retriever.New(a.store,
		retriever.WithMaxResults(cfg.Corpus.MaxResults),
		retriever.WithMinScore(cfg.Corpus.MinScore),
		retriever.WithPrefix(cfg.Corpus.Prefix),
	)
	a.pipeline = api.NewPipeline(
		api.WithMetrics(a.metrics),
		api.WithMaxBytes(cfg.Server.MaxBodyBytes),
		api.WithMaxInFlight(cfg.Server.MaxInFlight),
	)
	if !opts.needLLM {
		return nil
	}

	a.llm = opts.llm
	if a.llm == nil {
		llm, closeLLM, err := provider.New(ctx, cfg.LLM)
		if err != nil {
			return err
		}
		a.llm = llm
		a.closers = append(a.closers, closeLLM)
	}

	counter, err := newCounter(cfg.LLM.Tokenizer)
	if err != nil {
		return err
	}
	for _, profile := range domains.All() {
		a.agents[profile.Name] = agent.New(profile, a.llm, a.retriever,
			agent.WithCollection(cfg.Agents.For(profile.Name).Collection),
			agent.WithMaxTokens(int64(cfg.LLM.MaxTokens)),
			agent.WithContextTokens(cfg.Corpus.ContextTokens),
			agent.WithTokenCounter(counter),
			agent.WithMetrics(a.metrics),
		)
	}

	invoker, targets, err := a.transport()
	if err != nil {
		return err
	}
	r := runner.New(invoker, targets,
		runner.WithTimeout(cfg.Orchestrator.AgentTimeout),
		runner.WithMetrics(a.metrics),
	)
	a.sophie = orchestrator.New(a.llm, r,
		orchestrator.WithSequentialTriggers(cfg.Orchestrator.SequentialTriggers...),
		orchestrator.WithMetrics(a.metrics),
	)
	return nil
}

// transport returns the agent invoker and per-agent targets. In-process
// dispatch is by name, so unset local targets default to the agent name.
func (a *app) transport() (transport.Invoker, map[string]string, error) {
	targets := a.cfg.Targets()
	switch a.cfg.Orchestrator.Transport {
	case config.TransportLocal:
		// Nested agent calls are not counted against the in-flight limit.
		registry := local.New(api.NewPipeline(
			api.WithMetrics(a.metrics),
			api.WithMaxBytes(a.cfg.Server.MaxBodyBytes),
		))
		for name, ag := range a.agents {
			registry.Register(name, ag)
			if targets[name] == "" {
				targets[name] = name
			}
		}
		return registry, targets, nil
	case config.TransportHTTP:
		return httpx.New(httpx.WithTimeout(a.cfg.Orchestrator.AgentTimeout)), targets, nil
	case config.TransportMCP:
		inv := mcp.NewInvoker()
		a.closers = append(a.closers, inv.Close)
		return inv, targets, nil
	}
	return nil, nil, fmt.Errorf("unknown orchestrator transport %q", a.cfg.Orchestrator.Transport)
}

// selectAgents resolves a comma separated list of agent names; empty selects
// every agent.
func (a *app) selectAgents(list string) ([]string, error) {
	if strings.TrimSpace(list) == "" {
		return domains.Names(), nil
	}
	var out []string
	for _, name := range strings.Split(list, ",") {
		name = strings.ToUpper(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, ok := a.agents[name]; !ok {
			return nil, fmt.Errorf("unknown agent %q (valid: %s)", name, strings.Join(domains.Names(), ", "))
		}
		out = append(out, name)
	}
	return out, nil
}

// Close releases the store and LLM client in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}

func newCounter(name string) (tokenizer.Counter, error) {
	if name == "" {
		return tokenizer.NewEstimator(), nil
	}
	t, err := tiktoken.New(name)
	if err != nil {
		return nil, fmt.Errorf("tokenizer %s: %w", name, err)
	}
	return t, nil
}

func openStore(ctx context.Context, cfg config.CorpusConfig) (corpus.ReadWriter, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case config.BackendFS:
		return fscorpus.New(cfg.Root), noop, nil
	case config.BackendGCS:
		var opts []option.ClientOption
		if cfg.GCS.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.GCS.CredentialsFile))
		}
		store, err := gcscorpus.New(ctx, opts...)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	case config.BackendRedis:
		store := rediscorpus.New(&rediscorpus.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return store, store.Close, nil
	case config.BackendPostgres:
		store, err := pgcorpus.New(ctx, pgcorpus.Config{DSN: cfg.Postgres.DSN, Table: cfg.Postgres.Table})
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.BackendMongo:
		store, err := mongocorpus.New(ctx, &mongocorpus.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return store.Close(context.Background()) }, nil
	}
	return nil, nil, errors.New("unknown corpus backend " + cfg.Backend)
}
