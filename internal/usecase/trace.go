package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

var usecaseTracer = otel.Tracer("sporating/internal/usecase")

// startSpan opens a child span when the incoming context already carries
// one; otherwise it stays noop so background work does not mint orphan
// traces.
func startSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return noop.NewTracerProvider().Tracer("").Start(ctx, name)
	}
	return usecaseTracer.Start(ctx, name, opts...)
}
