package bridge

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultTracerName is the tracer used when Options.Tracer is nil and
// tracing is enabled.
const DefaultTracerName = "github.com/vango-dev/loom"

// Span names.
const (
	spanRender = "loom.render"
	spanEvent  = "loom.event"
)

// Tracer returns the named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	if name == "" {
		name = DefaultTracerName
	}
	return otel.Tracer(name)
}

func noopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer(DefaultTracerName)
}

func startRenderSpan(ctx context.Context, t trace.Tracer, path, token string) (context.Context, trace.Span) {
	return t.Start(ctx, spanRender,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("loom.path", path),
			attribute.String("loom.page", token),
		))
}

func startEventSpan(ctx context.Context, t trace.Tracer, session, node, event string) (context.Context, trace.Span) {
	return t.Start(ctx, spanEvent,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("loom.session", session),
			attribute.String("loom.node", node),
			attribute.String("loom.event", event),
		))
}

// endSpan records err, if any, and ends the span.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
