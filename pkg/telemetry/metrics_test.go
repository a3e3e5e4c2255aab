package telemetry

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestMetricsRecordThroughManualReader(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(ctx)

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics error: %v", err)
	}
	m.RecordRequest(ctx, "sophie", true, 20*time.Millisecond)
	m.RecordAgentCall(ctx, "FINN", false)
	m.RecordTokens(ctx, "agent", 10, 5)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			names[md.Name] = true
		}
	}
	for _, want := range []string{
		"socratiq_requests_total",
		"socratiq_agent_invocations_total",
		"socratiq_llm_tokens_total",
		"socratiq_request_duration_seconds",
	} {
		if !names[want] {
			t.Errorf("metric %s not collected (got %v)", want, names)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordRequest(context.Background(), "agent", true, time.Second)
	m.RecordAgentCall(context.Background(), "VERA", true)
	m.RecordTokens(context.Background(), "agent", 1, 1)
}

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{Exporter: ExporterNone})
	if err != nil {
		t.Fatalf("Init error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
