package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "pane-wrangler"

// Metrics holds all OTEL metric instruments for pane-wrangler.
// All counters are cumulative (monotonic) and safe for concurrent use.
type Metrics struct {
	// Session lifecycle counters
	SessionsCreated    metric.Int64Counter
	SessionsTerminated metric.Int64Counter

	// Layout counters (partitioned by op kind via attributes)
	LayoutOps metric.Int64Counter

	// Multiplexer command failures (partitioned by operation)
	CommandFailures metric.Int64Counter

	// Cleanup pass counters
	CleanupRuns metric.Int64Counter
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.SessionsCreated, err = meter.Int64Counter("sessions.created",
		metric.WithDescription("Total agent sessions created"))
	if err != nil {
		return nil, err
	}

	m.SessionsTerminated, err = meter.Int64Counter("sessions.terminated",
		metric.WithDescription("Total agent sessions terminated"))
	if err != nil {
		return nil, err
	}

	m.LayoutOps, err = meter.Int64Counter("layout.ops",
		metric.WithDescription("Layout operations applied, partitioned by kind (split, window)"))
	if err != nil {
		return nil, err
	}

	m.CommandFailures, err = meter.Int64Counter("multiplexer.failures",
		metric.WithDescription("Multiplexer command failures partitioned by operation"))
	if err != nil {
		return nil, err
	}

	m.CleanupRuns, err = meter.Int64Counter("cleanup.runs",
		metric.WithDescription("Bulk cleanup passes executed"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordSessionCreated records a successful session creation.
func (m *Metrics) RecordSessionCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.SessionsCreated.Add(ctx, 1)
}

// RecordSessionTerminated records a successful session termination.
func (m *Metrics) RecordSessionTerminated(ctx context.Context) {
	if m == nil {
		return
	}
	m.SessionsTerminated.Add(ctx, 1)
}

// RecordLayoutOp records an applied layout operation.
func (m *Metrics) RecordLayoutOp(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.LayoutOps.Add(ctx, 1, metric.WithAttributes(attribute.String("op.kind", kind)))
}

// RecordCommandFailure records a failed multiplexer command.
func (m *Metrics) RecordCommandFailure(ctx context.Context, op string) {
	if m == nil {
		return
	}
	m.CommandFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

// RecordCleanupRun records a bulk cleanup pass.
func (m *Metrics) RecordCleanupRun(ctx context.Context) {
	if m == nil {
		return
	}
	m.CleanupRuns.Add(ctx, 1)
}
