package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcpkit/mcp-registry-go/pkg/dispatch"
	"github.com/mcpkit/mcp-registry-go/pkg/protocol"
)

// DispatchFunc is the shape of a dispatcher entry point. The concrete
// *dispatch.Dispatcher satisfies it via its Dispatch method.
type DispatchFunc func(ctx context.Context, req dispatch.Request) *protocol.InvocationResult

// InstrumentDispatch wraps a dispatch function with metrics and tracing.
// Either provider may be nil, in which case that concern is skipped.
func InstrumentDispatch(metrics MetricsProvider, tracing *TracingProvider, next DispatchFunc) DispatchFunc {
	if metrics == nil {
		metrics = NoopMetricsProvider{}
	}

	return func(ctx context.Context, req dispatch.Request) *protocol.InvocationResult {
		kind := req.Kind.String()

		var span trace.Span
		if tracing != nil {
			ctx, span = tracing.StartDispatchSpan(ctx, kind, req.CapabilityName)
			defer span.End()
		}

		start := time.Now()
		result := next(ctx, req)

		status := StatusOK
		if result.IsError() {
			status = StatusError
			if span != nil {
				span.SetAttributes(attribute.Bool("capability.error", true))
			}
		}
		metrics.RecordDispatch(ctx, kind, req.CapabilityName, status, time.Since(start))
		return result
	}
}
