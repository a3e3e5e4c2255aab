package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sweetpotato0/socratiq/mcp"
)

var (
	mcpHTTPAddr string
	mcpAgents   string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the agents and Sophie as MCP tools over stdio",
	Long: `mcp serves ask_sophie, list_agents and one ask_<agent> tool per domain agent.
The stdio transport is used unless --http is given, in which case the
streamable HTTP transport listens on that address.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, appOptions{needLLM: true})
		if err != nil {
			return err
		}
		defer a.Close()

		names, err := a.selectAgents(mcpAgents)
		if err != nil {
			return err
		}
		opts := []mcp.ServerOption{mcp.WithPipeline(a.pipeline), mcp.WithVersion(version), mcp.WithOrchestrator(a.sophie)}
		for _, name := range names {
			opts = append(opts, mcp.WithAgent(name, a.agents[name]))
		}
		srv := mcp.NewServer(opts...)

		if mcpHTTPAddr == "" {
			a.logger.Info("mcp stdio server starting", "agents", names)
			return mcp.ServeStdio(ctx, srv)
		}

		httpSrv := &http.Server{Addr: mcpHTTPAddr, Handler: mcp.HTTPHandler(srv), ReadHeaderTimeout: 10 * time.Second}
		go func() {
			<-ctx.Done()
			_ = httpSrv.Close()
		}()
		a.logger.Info("mcp http server listening", "address", mcpHTTPAddr, "agents", names)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "serve the streamable HTTP transport on this address instead of stdio")
	mcpCmd.Flags().StringVar(&mcpAgents, "agents", "", "comma separated agents to expose (default all)")
	rootCmd.AddCommand(mcpCmd)
}
