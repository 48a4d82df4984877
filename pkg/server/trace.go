package server

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/graft-dev/graft/pkg/protocol"
)

// tracerName identifies this instrumentation scope. The global tracer
// provider is a no-op unless the host process installs one, so spans
// cost nothing by default.
const tracerName = "github.com/graft-dev/graft/pkg/server"

func newTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// noopTracer suppresses spans when tracing is disabled, regardless of
// the global provider.
func noopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer(tracerName)
}

// startEventSpan opens the dispatch span for one client event.
func (s *Session) startEventSpan(ctx context.Context, ev *protocol.Event) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "graft.dispatch",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("graft.session_id", s.ID),
			attribute.String("graft.event_type", ev.Type.DOMName()),
			attribute.String("graft.target_path", ev.Path.String()),
			attribute.Int64("graft.event_seq", int64(ev.Seq)),
		),
	)
}

// endEventSpan closes the span with the dispatch outcome and the
// number of patches the event produced.
func endEventSpan(span trace.Span, patches int, err error) {
	span.SetAttributes(attribute.Int("graft.patch_count", patches))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
