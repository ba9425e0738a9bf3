package orchestrator

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Metrics holds all orchestration metrics.
type Metrics struct {
	meter          metric.Meter
	logger         *zap.Logger
	runsTotal      metric.Int64Counter
	generationsDur metric.Float64Histogram
	failuresTotal  metric.Int64Counter
	activeGenTotal metric.Int64UpDownCounter
}

// NewMetrics creates a Metrics instance.
func NewMetrics(logger *zap.Logger) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Metrics{
		meter:  otel.Meter(instrumentationName),
		logger: logger,
	}
	m.init()
	return m
}

func (m *Metrics) init() {
	var err error

	m.runsTotal, err = m.meter.Int64Counter(
		"council.runs_total",
		metric.WithDescription("Total council runs labeled by mode (compare, debate, targeted)."),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		m.logger.Warn("failed to create runs counter", zap.Error(err))
	}

	m.generationsDur, err = m.meter.Float64Histogram(
		"council.generation_duration_seconds",
		metric.WithDescription("Per-participant generation duration in seconds, labeled by participant and outcome."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 2.5, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		m.logger.Warn("failed to create generation histogram", zap.Error(err))
	}

	m.failuresTotal, err = m.meter.Int64Counter(
		"council.generation_failures_total",
		metric.WithDescription("Generation failures delivered as failure notices, labeled by participant."),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		m.logger.Warn("failed to create failures counter", zap.Error(err))
	}

	m.activeGenTotal, err = m.meter.Int64UpDownCounter(
		"council.active_generations",
		metric.WithDescription("Number of participant generations currently in flight."),
		metric.WithUnit("{generation}"),
	)
	if err != nil {
		m.logger.Warn("failed to create active generations gauge", zap.Error(err))
	}
}

// RecordRun counts one orchestrated run.
func (m *Metrics) RecordRun(ctx context.Context, mode string) {
	if m.runsTotal == nil {
		return
	}
	m.runsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", mode)))
}

// RecordGeneration records one participant generation.
func (m *Metrics) RecordGeneration(ctx context.Context, key string, dur time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if m.failuresTotal != nil {
			m.failuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("participant", key)))
		}
	}
	if m.generationsDur != nil {
		m.generationsDur.Record(ctx, dur.Seconds(), metric.WithAttributes(
			attribute.String("participant", key),
			attribute.String("outcome", outcome),
		))
	}
}

// GenerationStarted marks a generation in flight; call the returned
// function when it completes.
func (m *Metrics) GenerationStarted(ctx context.Context) func() {
	if m.activeGenTotal == nil {
		return func() {}
	}
	m.activeGenTotal.Add(ctx, 1)
	return func() { m.activeGenTotal.Add(ctx, -1) }
}
