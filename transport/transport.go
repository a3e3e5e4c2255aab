// Package transport carries encoded agent requests to agent handlers.
package transport

import (
	"context"
	"encoding/json"
)

// Invoker delivers payload to the agent called name at target and returns the
// raw status and body. A transport error means no response was obtained.
type Invoker interface {
	Invoke(ctx context.Context, name, target string, payload []byte) (status int, body []byte, err error)
}

// InvokerFunc adapts a function to Invoker.
type InvokerFunc func(ctx context.Context, name, target string, payload []byte) (int, []byte, error)

// Invoke calls f.
func (f InvokerFunc) Invoke(ctx context.Context, name, target string, payload []byte) (int, []byte, error) {
	return f(ctx, name, target, payload)
}

type gatewayBody struct {
	StatusCode *int            `json:"statusCode"`
	Body       json.RawMessage `json:"body"`
}

// UnwrapGateway returns the inner status and body of a gateway-shaped reply
// {"statusCode": n, "body": "<json>" | {...}}. Other replies are returned
// unchanged.
func UnwrapGateway(status int, body []byte) (int, []byte) {
	var gw gatewayBody
	if err := json.Unmarshal(body, &gw); err != nil || gw.StatusCode == nil || len(gw.Body) == 0 {
		return status, body
	}
	inner := []byte(gw.Body)
	var s string
	if err := json.Unmarshal(inner, &s); err == nil {
		inner = []byte(s)
	}
	return *gw.StatusCode, inner
}
