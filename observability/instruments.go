package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AIMetrics holds metric instruments for AI generation traffic.
type AIMetrics struct {
	generationTotal    metric.Int64Counter
	generationDuration metric.Float64Histogram
	generationActive   metric.Int64UpDownCounter
	fallbackTotal      metric.Int64Counter
	tokenTotal         metric.Int64Counter
	errorTotal         metric.Int64Counter
}

// NewAIMetrics creates the AI instruments on the given meter.
func NewAIMetrics(meter metric.Meter) (*AIMetrics, error) {
	generationTotal, err := meter.Int64Counter("ai.generation.total",
		metric.WithDescription("Total number of AI generation requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ai.generation.total counter: %w", err)
	}

	generationDuration, err := meter.Float64Histogram("ai.generation.duration",
		metric.WithDescription("Duration of AI generation requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ai.generation.duration histogram: %w", err)
	}

	generationActive, err := meter.Int64UpDownCounter("ai.generation.active",
		metric.WithDescription("Number of in-flight AI generation requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ai.generation.active gauge: %w", err)
	}

	fallbackTotal, err := meter.Int64Counter("ai.fallback.total",
		metric.WithDescription("Total number of provider failovers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ai.fallback.total counter: %w", err)
	}

	tokenTotal, err := meter.Int64Counter("ai.tokens.total",
		metric.WithDescription("Total tokens consumed by direction"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ai.tokens.total counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("ai.error.total",
		metric.WithDescription("Total AI errors by provider and code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ai.error.total counter: %w", err)
	}

	return &AIMetrics{
		generationTotal:    generationTotal,
		generationDuration: generationDuration,
		generationActive:   generationActive,
		fallbackTotal:      fallbackTotal,
		tokenTotal:         tokenTotal,
		errorTotal:         errorTotal,
	}, nil
}

// RecordGenerationStart increments the in-flight gauge.
func (m *AIMetrics) RecordGenerationStart(ctx context.Context) {
	if m == nil {
		return
	}
	m.generationActive.Add(ctx, 1)
}

// RecordGenerationEnd decrements in-flight and records the completed request.
func (m *AIMetrics) RecordGenerationEnd(ctx context.Context, provider, operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.generationActive.Add(ctx, -1)
	m.generationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	m.generationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
	))
}

// RecordFallback records a failover from one provider to the next.
func (m *AIMetrics) RecordFallback(ctx context.Context, from, to string) {
	if m == nil {
		return
	}
	m.fallbackTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// RecordTokens records token usage for a completed generation.
func (m *AIMetrics) RecordTokens(ctx context.Context, provider string, prompt, completion int) {
	if m == nil {
		return
	}
	m.tokenTotal.Add(ctx, int64(prompt), metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("direction", "prompt"),
	))
	m.tokenTotal.Add(ctx, int64(completion), metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("direction", "completion"),
	))
}

// RecordError records an error by provider and code.
func (m *AIMetrics) RecordError(ctx context.Context, provider, code string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("code", code),
	))
}
