package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sweetpotato0/socratiq/contrib/provider"
	"github.com/sweetpotato0/socratiq/mcp"
	"github.com/sweetpotato0/socratiq/pkg/logging"
	"github.com/sweetpotato0/socratiq/pkg/telemetry"
	"github.com/sweetpotato0/socratiq/server"
)

var (
	serveAddr     string
	serveAgents   string
	serveNoSophie bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the agents and Sophie over HTTP",
	Long: `serve exposes the selected domain agents at /v1/agents/<name>, Sophie at
/v1/sophie, the streamable MCP endpoint at /mcp and Prometheus metrics at
/metrics. Deploy one agent per process with --agents and --no-sophie when the
orchestrator reaches agents over the http or mcp transport.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:    "socratiq",
			ServiceVersion: version,
			Environment:    cfg.Telemetry.Environment,
			Exporter:       cfg.Telemetry.TraceExporter(),
			OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
			SampleRatio:    cfg.Telemetry.SampleRatio,
		})
		if err != nil {
			return err
		}
		metrics, metricsHandler, shutdownMetrics, err := telemetry.InitMetrics("socratiq")
		if err != nil {
			return err
		}
		defer func() {
			flushCtx := context.WithoutCancel(ctx)
			if err := errors.Join(shutdownMetrics(flushCtx), shutdownTracing(flushCtx)); err != nil {
				logging.WithComponent("socratiq").Warn("telemetry shutdown failed", "error", err)
			}
		}()

		a, err := newApp(ctx, cfg, appOptions{metrics: metrics, needLLM: true})
		if err != nil {
			return err
		}
		defer a.Close()

		names, err := a.selectAgents(serveAgents)
		if err != nil {
			return err
		}
		srvOpts := []server.Option{
			server.WithPipeline(a.pipeline),
			server.WithAttributor(a.retriever),
			server.WithMetricsHandler(metricsHandler),
			server.WithReadiness(func(ctx context.Context) error { return provider.Ping(ctx, a.llm) }),
		}
		mcpOpts := []mcp.ServerOption{mcp.WithPipeline(a.pipeline), mcp.WithVersion(version)}
		for _, name := range names {
			ag := a.agents[name]
			srvOpts = append(srvOpts, server.WithAgent(name, ag, ag.Collection()))
			mcpOpts = append(mcpOpts, mcp.WithAgent(name, ag))
		}
		if !serveNoSophie {
			srvOpts = append(srvOpts, server.WithOrchestrator(a.sophie))
			mcpOpts = append(mcpOpts, mcp.WithOrchestrator(a.sophie))
		}
		srvOpts = append(srvOpts, server.WithMCPHandler(mcp.HTTPHandler(mcp.NewServer(mcpOpts...))))

		addr := cfg.Server.Address
		if serveAddr != "" {
			addr = serveAddr
		}
		a.logger.Info("serving", "address", addr, "agents", names, "orchestrator", !serveNoSophie,
			"transport", cfg.Orchestrator.Transport, "llm", cfg.LLM.Provider, "corpus", cfg.Corpus.Backend)
		return server.New(srvOpts...).Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default server.address)")
	serveCmd.Flags().StringVar(&serveAgents, "agents", "", "comma separated agents to serve (default all)")
	serveCmd.Flags().BoolVar(&serveNoSophie, "no-sophie", false, "do not serve the orchestrator")
	rootCmd.AddCommand(serveCmd)
}
