package observability

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpkit/mcp-registry-go/pkg/capability"
	"github.com/mcpkit/mcp-registry-go/pkg/dispatch"
	"github.com/mcpkit/mcp-registry-go/pkg/protocol"
)

// recordingMetrics captures measurements for assertions
type recordingMetrics struct {
	mu         sync.Mutex
	dispatches []dispatchRecord
}

type dispatchRecord struct {
	kind   string
	name   string
	status string
}

func (m *recordingMetrics) RecordDispatch(_ context.Context, kind, name, status string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatches = append(m.dispatches, dispatchRecord{kind: kind, name: name, status: status})
}

func (m *recordingMetrics) RecordNotification(context.Context, string) {}
func (m *recordingMetrics) SetRegisteredCapabilities(string, int)      {}
func (m *recordingMetrics) Start(context.Context) error                { return nil }
func (m *recordingMetrics) Shutdown(context.Context) error             { return nil }

func TestInstrumentDispatchRecordsSuccess(t *testing.T) {
	metrics := &recordingMetrics{}
	inner := func(ctx context.Context, req dispatch.Request) *protocol.InvocationResult {
		return protocol.ContentResult(protocol.TextItem("ok"))
	}

	wrapped := InstrumentDispatch(metrics, nil, inner)
	result := wrapped(context.Background(), dispatch.Request{
		Kind:           capability.KindTool,
		CapabilityName: "echo",
	})

	require.False(t, result.IsError())
	require.Len(t, metrics.dispatches, 1)
	assert.Equal(t, dispatchRecord{kind: "tool", name: "echo", status: StatusOK}, metrics.dispatches[0])
}

func TestInstrumentDispatchRecordsError(t *testing.T) {
	metrics := &recordingMetrics{}
	inner := func(ctx context.Context, req dispatch.Request) *protocol.InvocationResult {
		return protocol.ErrorText("boom")
	}

	wrapped := InstrumentDispatch(metrics, nil, inner)
	result := wrapped(context.Background(), dispatch.Request{
		Kind:           capability.KindPrompt,
		CapabilityName: "greeting",
	})

	require.True(t, result.IsError())
	require.Len(t, metrics.dispatches, 1)
	assert.Equal(t, StatusError, metrics.dispatches[0].status)
	assert.Equal(t, "prompt", metrics.dispatches[0].kind)
}

func TestInstrumentDispatchNilMetrics(t *testing.T) {
	inner := func(ctx context.Context, req dispatch.Request) *protocol.InvocationResult {
		return protocol.ContentResult()
	}

	wrapped := InstrumentDispatch(nil, nil, inner)
	result := wrapped(context.Background(), dispatch.Request{Kind: capability.KindTool})
	require.NotNil(t, result)
}

func TestInstrumentDispatchWithTracing(t *testing.T) {
	tp, err := NewTracingProvider(TracingConfig{
		ServiceName:  "test",
		ExporterType: ExporterTypeNoop,
	})
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	metrics := &recordingMetrics{}
	var sawSpanCtx bool
	inner := func(ctx context.Context, req dispatch.Request) *protocol.InvocationResult {
		sawSpanCtx = ctx != context.Background()
		return protocol.ContentResult(protocol.TextItem("ok"))
	}

	wrapped := InstrumentDispatch(metrics, tp, inner)
	wrapped(context.Background(), dispatch.Request{
		Kind:           capability.KindTool,
		CapabilityName: "traced",
	})

	assert.True(t, sawSpanCtx, "handler must run inside the span context")
	require.Len(t, metrics.dispatches, 1)
}
