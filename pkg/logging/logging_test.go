package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/sweetpotato0/socratiq/pkg/traceid"
)

func TestFromContextAddsTraceID(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, "json", "debug")

	ctx := traceid.WithTraceID(context.Background(), "trace-1-abcdef12")
	FromContext(ctx, base).Info("hello")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if rec["trace_id"] != "trace-1-abcdef12" {
		t.Fatalf("trace_id = %v", rec["trace_id"])
	}
	if rec["service"] != "socratiq" {
		t.Fatalf("service = %v", rec["service"])
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
