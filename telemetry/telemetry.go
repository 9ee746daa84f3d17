package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/agentrun/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName identifies this library to meter and tracer providers.
const instrumentationName = "github.com/hupe1980/agentrun"

// Options configures Telemetry. Providers default to the process-global
// OpenTelemetry providers, which are no-ops until the host application
// installs real ones.
type Options struct {
	MeterProvider  metric.MeterProvider
	TracerProvider trace.TracerProvider
	Logger         logging.Logger
}

// Telemetry records model and tool call metrics and starts spans around
// run phases. All methods are safe for concurrent use.
type Telemetry struct {
	tracer trace.Tracer
	logger logging.Logger

	llmCalls        metric.Int64Counter
	toolCalls       metric.Int64Counter
	llmInputTokens  metric.Int64Counter
	llmOutputTokens metric.Int64Counter
	llmLatency      metric.Float64Histogram
	toolLatency     metric.Float64Histogram
}

// New creates a Telemetry with all instruments registered on the configured
// meter provider.
func New(optFns ...func(o *Options)) (*Telemetry, error) {
	opts := Options{
		MeterProvider:  otel.GetMeterProvider(),
		TracerProvider: otel.GetTracerProvider(),
		Logger:         logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	meter := opts.MeterProvider.Meter(instrumentationName)

	t := &Telemetry{
		tracer: opts.TracerProvider.Tracer(instrumentationName),
		logger: opts.Logger,
	}

	var err error

	t.llmCalls, err = meter.Int64Counter(
		"llm_calls",
		metric.WithDescription("LLM call count"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create llm_calls counter: %w", err)
	}

	t.toolCalls, err = meter.Int64Counter(
		"tool_calls",
		metric.WithDescription("Tool call count"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create tool_calls counter: %w", err)
	}

	t.llmInputTokens, err = meter.Int64Counter(
		"llm_input_tokens",
		metric.WithDescription("Tokens sent to LLMs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create llm_input_tokens counter: %w", err)
	}

	t.llmOutputTokens, err = meter.Int64Counter(
		"llm_output_tokens",
		metric.WithDescription("Tokens returned by LLMs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create llm_output_tokens counter: %w", err)
	}

	t.llmLatency, err = meter.Float64Histogram(
		"llm_call_latency_ms",
		metric.WithDescription("LLM call latency distribution (milliseconds)"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create llm_call_latency_ms histogram: %w", err)
	}

	t.toolLatency, err = meter.Float64Histogram(
		"tool_call_latency_ms",
		metric.WithDescription("Tool call latency distribution (milliseconds)"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create tool_call_latency_ms histogram: %w", err)
	}

	return t, nil
}

// RecordModelCall counts one model call, accumulates token usage and
// observes the call latency, all labeled with the model name.
func (t *Telemetry) RecordModelCall(ctx context.Context, model string, inputTokens, outputTokens int64, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("model", model))

	t.llmCalls.Add(ctx, 1, attrs)
	t.llmInputTokens.Add(ctx, inputTokens, attrs)
	t.llmOutputTokens.Add(ctx, outputTokens, attrs)
	t.llmLatency.Record(ctx, float64(elapsed.Milliseconds()), attrs)

	t.logger.Info("llm call recorded",
		"model", model,
		"input_tokens", inputTokens,
		"output_tokens", outputTokens,
		"duration_ms", elapsed.Milliseconds(),
	)
}

// RecordToolCall counts one tool call and observes its latency, labeled
// with the tool name.
func (t *Telemetry) RecordToolCall(ctx context.Context, tool string, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("tool", tool))

	t.toolCalls.Add(ctx, 1, attrs)
	t.toolLatency.Record(ctx, float64(elapsed.Milliseconds()), attrs)

	t.logger.Info("tool call recorded",
		"tool", tool,
		"duration_ms", elapsed.Milliseconds(),
	)
}

// LogToolStep logs one intermediate step of a tool invocation.
func (t *Telemetry) LogToolStep(tool, step, summary string, payload map[string]any) {
	if payload != nil {
		t.logger.Info("tool step", "tool", tool, "step", step, "summary", summary, "payload", payload)
		return
	}

	t.logger.Info("tool step", "tool", tool, "step", step, "summary", summary)
}

// RecordStepSummary logs the outcome of one plan step.
func (t *Telemetry) RecordStepSummary(step, summary, status string, metadata map[string]any) {
	if metadata != nil {
		t.logger.Info("step summary", "step", step, "status", status, "summary", summary, "metadata", metadata)
		return
	}

	t.logger.Info("step summary", "step", step, "status", status, "summary", summary)
}

// StartSpan starts a span on the configured tracer. Callers must end the
// returned span.
func (t *Telemetry) StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name)
}
