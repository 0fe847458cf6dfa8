package session

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"nutritionagent"
)

// InstrumentedSession wraps a Session with observability metrics.
type InstrumentedSession struct {
	inner  *Session
	tracer trace.Tracer
	meter  metric.Meter
}

// NewInstrumentedSession initializes a new instrumented session.
func NewInstrumentedSession(reasoner Reasoner, tp nutritionagent.ToolProvider, cfg nutritionagent.SessionConfig, log nutritionagent.SessionLogger, tracer trace.Tracer, meter metric.Meter) *InstrumentedSession {
	return &InstrumentedSession{
		inner:  New(reasoner, tp, cfg, log),
		tracer: tracer,
		meter:  meter,
	}
}

// Run executes the session with full instrumentation.
func (s *InstrumentedSession) Run(ctx context.Context, task string) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "InstrumentedSession.Run")
	defer span.End()

	runsCounter, _ := s.meter.Int64Counter("session_runs_total",
		metric.WithDescription("Total number of sessions started"))
	runsCompletedCounter, _ := s.meter.Int64Counter("session_runs_completed_total",
		metric.WithDescription("Total number of sessions that reached a final answer"))
	runsAbortedCounter, _ := s.meter.Int64Counter("session_runs_aborted_total",
		metric.WithDescription("Total number of sessions aborted on budget or error"))
	iterationsGauge, _ := s.meter.Int64Gauge("session_iterations",
		metric.WithDescription("Iterations consumed by the latest session"))
	replayHitsCounter, _ := s.meter.Int64Counter("session_replay_hits_total",
		metric.WithDescription("Total number of repeated calls served from the replay cache"))
	validationFailuresCounter, _ := s.meter.Int64Counter("session_validation_failures_total",
		metric.WithDescription("Total number of tool calls rejected by argument validation"))
	durationHist, _ := s.meter.Float64Histogram("session_duration_seconds",
		metric.WithDescription("Total duration of a session in seconds"))

	runsCounter.Add(ctx, 1)
	start := time.Now()

	result, err := s.inner.Run(ctx, task)

	durationHist.Record(ctx, time.Since(start).Seconds())
	iterationsGauge.Record(ctx, int64(result.Iterations))
	replayHitsCounter.Add(ctx, int64(result.ReplayHits))
	validationFailuresCounter.Add(ctx, int64(result.ValidationFailures))

	span.SetAttributes(
		attribute.String("session.status", string(result.Status)),
		attribute.Int("session.iterations", result.Iterations),
		attribute.Bool("session.has_partial", result.Partial != nil),
	)

	if err != nil {
		runsAbortedCounter.Add(ctx, 1)
		span.SetStatus(codes.Error, result.Reason)
		span.RecordError(err)
		return result, err
	}

	runsCompletedCounter.Add(ctx, 1)
	return result, nil
}
