package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Invoker calls remote agents through their ask_<agent> tool. The target is
// the server's endpoint URL or command line; one session is kept per target
// and redialed after it ends.
type Invoker struct {
	mu      sync.Mutex
	clients map[string]*Client
	opts    []ClientOption
	dial    func(ctx context.Context, target string) (*Client, error)
}

// NewInvoker creates an invoker that dials targets with opts.
func NewInvoker(opts ...ClientOption) *Invoker {
	inv := &Invoker{clients: make(map[string]*Client), opts: opts}
	inv.dial = func(ctx context.Context, target string) (*Client, error) {
		return Dial(ctx, target, inv.opts...)
	}
	return inv
}

// Invoke implements transport.Invoker. A tool error result yields the
// statusCode of the error body it carries, or 500.
func (inv *Invoker) Invoke(ctx context.Context, name, target string, payload []byte) (int, []byte, error) {
	client, err := inv.client(ctx, target)
	if err != nil {
		return 0, nil, err
	}
	res, err := client.CallTool(ctx, AgentTool(name), json.RawMessage(payload))
	if err != nil {
		return 0, nil, err
	}
	body := []byte(resultText(res))
	if !res.IsError {
		return http.StatusOK, body, nil
	}
	var eb struct {
		StatusCode int `json:"statusCode"`
	}
	if err := json.Unmarshal(body, &eb); err == nil && eb.StatusCode != 0 {
		return eb.StatusCode, body, nil
	}
	return http.StatusInternalServerError, body, nil
}

func (inv *Invoker) client(ctx context.Context, target string) (*Client, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if c, ok := inv.clients[target]; ok {
		select {
		case <-c.Done():
			delete(inv.clients, target)
		default:
			return c, nil
		}
	}
	c, err := inv.dial(ctx, target)
	if err != nil {
		return nil, err
	}
	inv.clients[target] = c
	return c, nil
}

// Close ends every session.
func (inv *Invoker) Close() error {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	var first error
	for target, c := range inv.clients {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
		delete(inv.clients, target)
	}
	return first
}

func resultText(res *sdkmcp.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if t, ok := c.(*sdkmcp.TextContent); ok {
			parts = append(parts, t.Text)
		}
	}
	return strings.Join(parts, "\n")
}
