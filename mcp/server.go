// Package mcp exposes the agents and Sophie as Model Context Protocol tools
// and invokes remote agents served that way.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sweetpotato0/socratiq/agent"
	"github.com/sweetpotato0/socratiq/api"
	"github.com/sweetpotato0/socratiq/config"
	"github.com/sweetpotato0/socratiq/pkg/logging"
)

// Tool names.
const (
	ToolAskSophie  = "ask_sophie"
	ToolListAgents = "list_agents"
)

// AgentTool is the tool name serving the named agent.
func AgentTool(name string) string { return "ask_" + strings.ToLower(name) }

type serverConfig struct {
	name     string
	version  string
	pipeline *api.Pipeline
	agents   map[string]api.AgentHandler
	sophie   api.OrchestratorHandler
	logger   *slog.Logger
}

// ServerOption configures NewServer.
type ServerOption func(*serverConfig)

// WithVersion sets the implementation version advertised to clients.
func WithVersion(v string) ServerOption {
	return func(c *serverConfig) { c.version = v }
}

// WithPipeline sets the api pipeline tool calls are served through.
func WithPipeline(p *api.Pipeline) ServerOption {
	return func(c *serverConfig) { c.pipeline = p }
}

// WithAgent serves h as the ask_<name> tool.
func WithAgent(name string, h api.AgentHandler) ServerOption {
	return func(c *serverConfig) { c.agents[strings.ToUpper(name)] = h }
}

// WithOrchestrator serves h as the ask_sophie tool.
func WithOrchestrator(h api.OrchestratorHandler) ServerOption {
	return func(c *serverConfig) { c.sophie = h }
}

// WithServerLogger overrides the component logger.
func WithServerLogger(l *slog.Logger) ServerOption {
	return func(c *serverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

type agentArgs struct {
	Query         string             `json:"query" jsonschema:"The question for the agent"`
	SubAgent      string             `json:"subAgent,omitempty" jsonschema:"Optional sub-agent focus, for example regulatory or clinical"`
	AssetContext  agent.AssetContext `json:"assetContext,omitempty" jsonschema:"Optional facts about the asset under discussion"`
	OriginalQuery string             `json:"originalQuery,omitempty" jsonschema:"The user query this task was planned from"`

	// Untyped so the generated schema need not describe agent results.
	PreviousResponses []map[string]any `json:"previousResponses,omitempty" jsonschema:"Earlier agent results in a sequential chain"`
	TraceID           string           `json:"traceId,omitempty" jsonschema:"Optional trace id to correlate logs"`
}

type sophieArgs struct {
	Message      string             `json:"message" jsonschema:"The question for Sophie"`
	AssetID      string             `json:"assetId,omitempty" jsonschema:"Optional asset identifier"`
	AssetContext agent.AssetContext `json:"assetContext,omitempty" jsonschema:"Optional facts about the asset under discussion"`
	UserID       string             `json:"userId,omitempty" jsonschema:"Optional caller identity recorded in the audit trail"`
	TraceID      string             `json:"traceId,omitempty" jsonschema:"Optional trace id to correlate logs"`
}

// NewServer builds an MCP server with list_agents, ask_sophie when an
// orchestrator is set, and one ask_<agent> tool per registered agent.
func NewServer(opts ...ServerOption) *sdkmcp.Server {
	cfg := &serverConfig{
		name:    "socratiq",
		version: "dev",
		agents:  make(map[string]api.AgentHandler),
		logger:  logging.WithComponent("mcp"),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.pipeline == nil {
		cfg.pipeline = api.NewPipeline(api.WithLogger(cfg.logger))
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    cfg.name,
		Title:   "SocratIQ pharmaceutical asset analysis",
		Version: cfg.version,
	}, nil)

	names := cfg.agentNames()
	addListAgents(server, names, cfg.sophie != nil)
	if cfg.sophie != nil {
		addSophie(server, cfg)
	}
	for _, name := range names {
		addAgent(server, cfg, name, cfg.agents[name])
	}
	cfg.logger.Debug("mcp server built", "agents", names, "orchestrator", cfg.sophie != nil)
	return server
}

func (c *serverConfig) agentNames() []string {
	out := make([]string, 0, len(c.agents))
	for _, name := range config.AgentNames {
		if _, ok := c.agents[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

func addListAgents(server *sdkmcp.Server, names []string, orchestrator bool) {
	type args struct{}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        ToolListAgents,
		Description: "List the domain agents served by this instance",
	}, func(context.Context, *sdkmcp.CallToolRequest, args) (*sdkmcp.CallToolResult, any, error) {
		body, err := json.Marshal(map[string]any{"agents": names, "orchestrator": orchestrator})
		if err != nil {
			return nil, nil, err
		}
		return textResult(body, false), nil, nil
	})
}

func addSophie(server *sdkmcp.Server, cfg *serverConfig) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        ToolAskSophie,
		Description: "Ask Sophie, who routes the question to the domain agents and synthesizes one recommendation",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, a sophieArgs) (*sdkmcp.CallToolResult, any, error) {
		raw, err := json.Marshal(a)
		if err != nil {
			return nil, nil, fmt.Errorf("mcp: encode arguments: %w", err)
		}
		status, body := cfg.pipeline.ServeOrchestrator(ctx, cfg.sophie, raw)
		return textResult(body, status != http.StatusOK), nil, nil
	})
}

func addAgent(server *sdkmcp.Server, cfg *serverConfig, name string, h api.AgentHandler) {
	surface := api.AgentSurface(name)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        AgentTool(name),
		Description: "Ask the " + name + " domain agent",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, a agentArgs) (*sdkmcp.CallToolResult, any, error) {
		raw, err := json.Marshal(a)
		if err != nil {
			return nil, nil, fmt.Errorf("mcp: encode arguments: %w", err)
		}
		status, body := cfg.pipeline.ServeAgent(ctx, h, surface, raw)
		return textResult(body, status != http.StatusOK), nil, nil
	})
}

func textResult(body []byte, isError bool) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(body)}},
		IsError: isError,
	}
}

// ServeStdio runs server over stdin and stdout until ctx is done or the
// client disconnects.
func ServeStdio(ctx context.Context, server *sdkmcp.Server) error {
	return server.Run(ctx, &sdkmcp.StdioTransport{})
}

// HTTPHandler serves server over the streamable HTTP transport.
func HTTPHandler(server *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return server
	}, nil)
}
