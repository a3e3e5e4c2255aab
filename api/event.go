package api

import (
	"bytes"
	"encoding/json"
	"time"

	errorskg "github.com/sweetpotato0/socratiq/errors"
)

const invalidJSON = "Invalid JSON in request body"

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Error      errorskg.Kind `json:"error"`
	Message    string        `json:"message"`
	StatusCode int           `json:"statusCode"`
	TraceID    string        `json:"traceId,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

// NewErrorBody classifies err into an error body.
func NewErrorBody(err error, traceID string, now time.Time) ErrorBody {
	return ErrorBody{
		Error:      errorskg.KindOf(err),
		Message:    errorskg.MessageOf(err),
		StatusCode: errorskg.StatusOf(err),
		TraceID:    traceID,
		Timestamp:  now.UTC(),
	}
}

// ParseEvent returns the request payload carried by raw. raw is either the
// payload itself or a gateway event whose "body" holds the payload as a JSON
// string or object. An empty raw is treated as an empty object.
func ParseEvent(raw []byte) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []byte("{}"), nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errorskg.Validation(invalidJSON)
	}
	if _, direct := fields["query"]; direct {
		return raw, nil
	}
	if _, direct := fields["message"]; direct {
		return raw, nil
	}
	body, ok := fields["body"]
	if !ok || bytes.Equal(body, []byte("null")) {
		return raw, nil
	}

	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		inner := bytes.TrimSpace([]byte(s))
		if len(inner) == 0 || !json.Valid(inner) {
			return nil, errorskg.Validation(invalidJSON)
		}
		return inner, nil
	}
	if len(body) > 0 && body[0] == '{' {
		return body, nil
	}
	return nil, errorskg.Validation(invalidJSON)
}

type traced struct {
	TraceID string `json:"traceId"`
}

// payloadTraceID returns the traceId field of payload, if any.
func payloadTraceID(payload []byte) string {
	var t traced
	if err := json.Unmarshal(payload, &t); err != nil {
		return ""
	}
	return t.TraceID
}
