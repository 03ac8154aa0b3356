// Package tracing runs hfsm fires inside OpenTelemetry spans.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/atlekbai/hfsm"
)

// SpanName is the name of the span started for every fire.
const SpanName = "hfsm.Fire"

// Span attribute keys.
const (
	TriggerKey     = attribute.Key("hfsm.trigger")
	SourceKey      = attribute.Key("hfsm.source")
	DestinationKey = attribute.Key("hfsm.destination")
)

// Fire fires trigger on sm inside a new span. Entry and exit actions receive a
// context carrying the span. A failed fire marks the span with codes.Error.
func Fire[TState, TTrigger comparable](
	ctx context.Context,
	tracer trace.Tracer,
	sm *hfsm.StateMachine[TState, TTrigger],
	trigger TTrigger,
	args ...any,
) error {
	ctx, span := tracer.Start(ctx, SpanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			TriggerKey.String(fmt.Sprintf("%v", trigger)),
			SourceKey.String(fmt.Sprintf("%v", sm.State())),
		),
	)
	defer span.End()

	err := sm.FireCtx(ctx, trigger, args...)

	// The destination is recorded even on failure: entry actions may fail after
	// the state was committed.
	span.SetAttributes(DestinationKey.String(fmt.Sprintf("%v", sm.State())))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
