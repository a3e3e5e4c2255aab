package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sweetpotato0/socratiq/pkg/logging"
)

// ErrClientClosed is returned when the MCP client has been closed.
var ErrClientClosed = errors.New("mcp client closed")

// ClientOption configures optional MCP client behaviour.
type ClientOption func(*clientConfig)

type clientConfig struct {
	implementation   sdkmcp.Implementation
	logger           *slog.Logger
	env              []string
	keepAlive        time.Duration
	terminateTimeout time.Duration
	httpClient       *http.Client
}

// WithClientLogger configures logging for the MCP client.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(cfg *clientConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithCommandEnv appends environment variables when launching an stdio MCP server.
func WithCommandEnv(env ...string) ClientOption {
	return func(cfg *clientConfig) {
		cfg.env = append(cfg.env, env...)
	}
}

// WithKeepAlive configures periodic ping requests to keep the session healthy.
func WithKeepAlive(interval time.Duration) ClientOption {
	return func(cfg *clientConfig) {
		cfg.keepAlive = interval
	}
}

// WithHTTPClient supplies the HTTP client for the streamable transport.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(cfg *clientConfig) {
		cfg.httpClient = client
	}
}

// Client is one session with a remote MCP server.
type Client struct {
	session *sdkmcp.ClientSession
	logger  *slog.Logger
	server  string

	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Dial connects to target. Targets starting with http:// or https:// use the
// streamable HTTP transport; anything else is a command line launched over
// stdio.
func Dial(ctx context.Context, target string, opts ...ClientOption) (*Client, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, errors.New("mcp: target cannot be empty")
	}
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return NewStreamableClient(ctx, target, opts...)
	}
	fields := strings.Fields(target)
	return NewStdioClient(ctx, fields[0], fields[1:], opts...)
}

// NewStdioClient launches command and performs the initialization handshake
// over its stdin and stdout.
func NewStdioClient(ctx context.Context, command string, args []string, opts ...ClientOption) (*Client, error) {
	if command == "" {
		return nil, errors.New("mcp: command cannot be empty")
	}
	cfg := defaultConfig(opts)

	cmd := exec.Command(command, args...)
	if len(cfg.env) > 0 {
		cmd.Env = append(os.Environ(), cfg.env...)
	}
	cmd.Stderr = logWriter{logger: cfg.logger}

	return connect(ctx, cfg, &sdkmcp.CommandTransport{
		Command:           cmd,
		TerminateDuration: cfg.terminateTimeout,
	})
}

// NewStreamableClient connects to an MCP server over the streamable HTTP
// transport.
func NewStreamableClient(ctx context.Context, endpoint string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("mcp: endpoint cannot be empty")
	}
	cfg := defaultConfig(opts)

	transport := &sdkmcp.StreamableClientTransport{Endpoint: endpoint}
	if cfg.httpClient != nil {
		transport.HTTPClient = cfg.httpClient
	}
	return connect(ctx, cfg, transport)
}

// NewClient connects over an already constructed transport.
func NewClient(ctx context.Context, transport sdkmcp.Transport, opts ...ClientOption) (*Client, error) {
	return connect(ctx, defaultConfig(opts), transport)
}

func connect(ctx context.Context, cfg clientConfig, transport sdkmcp.Transport) (*Client, error) {
	client := &Client{logger: cfg.logger, done: make(chan struct{})}

	sdkClient := sdkmcp.NewClient(&cfg.implementation, &sdkmcp.ClientOptions{
		LoggingMessageHandler: func(_ context.Context, req *sdkmcp.LoggingMessageRequest) {
			if req != nil && req.Params != nil {
				client.logger.Debug("mcp server log", "level", req.Params.Level, "data", req.Params.Data)
			}
		},
		KeepAlive: cfg.keepAlive,
	})

	session, err := sdkClient.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("mcp: connect failed: %w", err)
	}
	client.session = session
	if res := session.InitializeResult(); res != nil && res.ServerInfo != nil {
		client.server = res.ServerInfo.Name
	}
	client.logger.Info("mcp session connected", "server", client.server)

	go client.monitorSession()
	return client, nil
}

// ServerName is the implementation name the server advertised.
func (c *Client) ServerName() string { return c.server }

// CallTool invokes the named tool with args, which must marshal to a JSON
// object.
func (c *Client) CallTool(ctx context.Context, name string, args any) (*sdkmcp.CallToolResult, error) {
	select {
	case <-c.done:
		return nil, ErrClientClosed
	default:
	}
	res, err := c.session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("mcp: call %s: %w", name, err)
	}
	return res, nil
}

// ListTools returns the names of the tools the server offers.
func (c *Client) ListTools(ctx context.Context) ([]string, error) {
	res, err := c.session.ListTools(ctx, &sdkmcp.ListToolsParams{})
	if err != nil {
		return nil, fmt.Errorf("mcp: list tools: %w", err)
	}
	names := make([]string, 0, len(res.Tools))
	for _, t := range res.Tools {
		names = append(names, t.Name)
	}
	return names, nil
}

// Close terminates the session and underlying transport.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		if c.session != nil {
			c.closeErr = c.session.Close()
		}
		close(c.done)
	})
	return c.closeErr
}

// Done is closed when the client shuts down.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) monitorSession() {
	if err := c.session.Wait(); err != nil && !errors.Is(err, sdkmcp.ErrConnectionClosed) {
		c.logger.Warn("mcp session ended with error", "server", c.server, "error", err)
	}
	_ = c.Close()
}

func defaultConfig(opts []ClientOption) clientConfig {
	cfg := clientConfig{
		implementation: sdkmcp.Implementation{
			Name:    "socratiq",
			Version: "dev",
		},
		logger:           logging.WithComponent("mcp-client"),
		terminateTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

type logWriter struct {
	logger *slog.Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	if msg := strings.TrimSpace(string(p)); msg != "" {
		w.logger.Debug("mcp server stderr", "line", msg)
	}
	return len(p), nil
}
