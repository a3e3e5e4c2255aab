package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics holds the instruments recorded by request handlers, the invoker and
// the agents. A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests   metric.Int64Counter
	agentCalls metric.Int64Counter
	llmTokens  metric.Int64Counter
	duration   metric.Float64Histogram
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.requests, err = meter.Int64Counter(
		"socratiq_requests_total",
		metric.WithDescription("Handled requests by surface and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: requests counter: %w", err)
	}

	m.agentCalls, err = meter.Int64Counter(
		"socratiq_agent_invocations_total",
		metric.WithDescription("Agent invocations issued by the orchestrator"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: agent counter: %w", err)
	}

	m.llmTokens, err = meter.Int64Counter(
		"socratiq_llm_tokens_total",
		metric.WithDescription("LLM tokens consumed by component and direction"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: token counter: %w", err)
	}

	m.duration, err = meter.Float64Histogram(
		"socratiq_request_duration_seconds",
		metric.WithDescription("Request latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: duration histogram: %w", err)
	}
	return m, nil
}

// InitMetrics wires an OpenTelemetry meter provider to a Prometheus registry and
// returns the instruments, the /metrics handler and a shutdown function.
func InitMetrics(serviceName string) (*Metrics, http.Handler, func(context.Context) error, error) {
	if serviceName == "" {
		serviceName = "socratiq"
	}
	registry := prometheus.NewRegistry()
	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("telemetry: prometheus exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(mp)

	m, err := NewMetrics(mp.Meter(serviceName))
	if err != nil {
		return nil, nil, nil, err
	}
	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m, handler, mp.Shutdown, nil
}

// RecordRequest counts one handled request and its latency.
func (m *Metrics) RecordRequest(ctx context.Context, surface string, ok bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("surface", surface),
		attribute.String("outcome", outcome(ok)),
	)
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("surface", surface)))
}

// RecordAgentCall counts one agent invocation.
func (m *Metrics) RecordAgentCall(ctx context.Context, agent string, ok bool) {
	if m == nil {
		return
	}
	m.agentCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("agent", agent),
		attribute.String("outcome", outcome(ok)),
	))
}

// RecordTokens adds LLM usage for component.
func (m *Metrics) RecordTokens(ctx context.Context, component string, input, output int64) {
	if m == nil {
		return
	}
	m.llmTokens.Add(ctx, input, metric.WithAttributes(
		attribute.String("component", component),
		attribute.String("direction", "input"),
	))
	m.llmTokens.Add(ctx, output, metric.WithAttributes(
		attribute.String("component", component),
		attribute.String("direction", "output"),
	))
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
