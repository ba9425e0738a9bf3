// Package telemetry provides OpenTelemetry instrumentation for
// councild.
//
// It manages the TracerProvider, MeterProvider, and graceful shutdown.
// Telemetry failures do not crash the application; they degrade
// gracefully to no-op providers.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/coolestowl/slack-ai-council/internal/config"
)

// Telemetry holds the configured OpenTelemetry providers.
type Telemetry struct {
	cfg config.TelemetryConfig

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider

	degraded atomic.Bool
}

// New creates a Telemetry instance and installs the global providers.
//
// If telemetry is disabled in config, returns a no-op instance.
// Exporter initialization errors are logged but do not fail startup;
// the instance degrades gracefully.
func New(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	t := &Telemetry{cfg: cfg}

	if !cfg.Enabled {
		return t, nil
	}
	if cfg.Endpoint == "" {
		return nil, errors.New("telemetry endpoint is required when enabled")
	}

	res := newResource(cfg)

	tp, err := newTracerProvider(ctx, cfg, res)
	if err != nil {
		t.degraded.Store(true)
		logger.Warn("tracer provider failed, tracing disabled", zap.Error(err))
	} else {
		t.tracerProvider = tp
		otel.SetTracerProvider(tp)
	}

	mp, err := newMeterProvider(ctx, cfg, res)
	if err != nil {
		t.degraded.Store(true)
		logger.Warn("meter provider failed, metrics export disabled", zap.Error(err))
	} else {
		t.meterProvider = mp
		otel.SetMeterProvider(mp)
	}

	// W3C trace context propagation
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return t, nil
}

// Tracer returns a tracer for the given instrumentation scope, no-op
// when telemetry is disabled or degraded.
func (t *Telemetry) Tracer(name string, opts ...oteltrace.TracerOption) oteltrace.Tracer {
	if t == nil || t.tracerProvider == nil {
		return otel.GetTracerProvider().Tracer(name, opts...)
	}
	return t.tracerProvider.Tracer(name, opts...)
}

// Meter returns a meter for the given instrumentation scope, no-op
// when telemetry is disabled or degraded.
func (t *Telemetry) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if t == nil || t.meterProvider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return t.meterProvider.Meter(name, opts...)
}

// Degraded reports whether any provider failed to initialize.
func (t *Telemetry) Degraded() bool {
	return t != nil && t.degraded.Load()
}

// Shutdown flushes and stops all providers. Should be called during
// application shutdown.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}

	if _, ok := ctx.Deadline(); !ok && t.cfg.ShutdownWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.ShutdownWait.Duration())
		defer cancel()
	}

	var errs []error
	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("trace provider shutdown: %w", err))
		}
	}
	if t.meterProvider != nil {
		if err := t.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}
