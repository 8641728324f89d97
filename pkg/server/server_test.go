package server

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpkit/mcp-registry-go/pkg/capability"
	"github.com/mcpkit/mcp-registry-go/pkg/errors"
	"github.com/mcpkit/mcp-registry-go/pkg/notify"
	"github.com/mcpkit/mcp-registry-go/pkg/protocol"
)

// recordingTransport captures every notification sent through it
type recordingTransport struct {
	mu   sync.Mutex
	sent []sentNotification
}

type sentNotification struct {
	method string
	params interface{}
}

func (rt *recordingTransport) SendNotification(_ context.Context, method string, params interface{}) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.sent = append(rt.sent, sentNotification{method: method, params: params})
	return nil
}

func (rt *recordingTransport) methods() []string {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	out := make([]string, len(rt.sent))
	for i, n := range rt.sent {
		out[i] = n.method
	}
	return out
}

func (rt *recordingTransport) waitFor(t *testing.T, method string) sentNotification {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		rt.mu.Lock()
		for _, n := range rt.sent {
			if n.method == method {
				rt.mu.Unlock()
				return n
			}
		}
		rt.mu.Unlock()

		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %s, saw %v", method, rt.methods())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func newTestServer(t *testing.T, opts ...ServerOption) (*Server, *recordingTransport) {
	t.Helper()
	rt := &recordingTransport{}
	srv, err := New(append([]ServerOption{WithTransport(rt)}, opts...)...)
	require.NoError(t, err)
	return srv, rt
}

func toolDescriptor(t *testing.T, name string, handler capability.Handler, params ...capability.ParamSpec) capability.Descriptor {
	t.Helper()
	d, err := capability.NewDescriptor(capability.KindTool, "", name, handler,
		capability.WithParams(params...))
	require.NoError(t, err)
	return d
}

func TestNewRejectsUnsupportedTransportMode(t *testing.T) {
	_, err := New(WithTransportMode(TransportMode("websocket")))
	require.Error(t, err)

	regErr, ok := errors.AsRegistryError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeUnsupportedTransport, regErr.Code())
	assert.Equal(t, errors.SeverityCritical, regErr.Severity())
}

func TestNewHTTPModeRequiresExplicitTransport(t *testing.T) {
	_, err := New(WithTransportMode(ModeHTTP))
	require.Error(t, err)

	srv, err := New(WithTransportMode(ModeHTTP), WithTransport(&recordingTransport{}))
	require.NoError(t, err)
	require.NotNil(t, srv)
}

func TestNewStdioDefault(t *testing.T) {
	srv, err := New()
	require.NoError(t, err)
	require.NotNil(t, srv)
}

func TestDispatchEndToEnd(t *testing.T) {
	srv, _ := newTestServer(t)

	srv.RegisterCapabilities(toolDescriptor(t, "greet",
		func(ctx context.Context, args []interface{}) (interface{}, error) {
			return "hello " + args[0].(string), nil
		},
		capability.Param("name", "", capability.TypeString),
	))

	result := srv.Dispatch(context.Background(), capability.KindTool, "greet",
		map[string]interface{}{"name": "world"}, "req-1")

	require.False(t, result.IsError(), result.ErrText)
	assert.Equal(t, "hello world", result.Content[0].Text)
}

func TestStartForwardsListChanges(t *testing.T) {
	srv, rt := newTestServer(t)

	require.NoError(t, srv.Start(context.Background()))
	defer func() { require.NoError(t, srv.Stop()) }()

	srv.RegisterCapabilities(toolDescriptor(t, "late",
		func(ctx context.Context, args []interface{}) (interface{}, error) { return "x", nil }))

	n := rt.waitFor(t, protocol.MethodToolsChanged)
	params, ok := n.params.(protocol.ListChangedParams)
	require.True(t, ok)
	assert.Equal(t, "tool", params.Kind)
}

func TestStartForwardsHandlerNotifications(t *testing.T) {
	srv, rt := newTestServer(t)

	srv.RegisterCapabilities(toolDescriptor(t, "chatty",
		func(ctx context.Context, args []interface{}) (interface{}, error) {
			n := args[0].(notify.Notifier)
			if err := n.Progress(1, 2, "halfway"); err != nil {
				return nil, err
			}
			return "done", nil
		},
		capability.NotifierParam(),
	))

	require.NoError(t, srv.Start(context.Background()))
	defer func() { require.NoError(t, srv.Stop()) }()

	result := srv.Dispatch(context.Background(), capability.KindTool, "chatty", nil, "req-9")
	require.False(t, result.IsError(), result.ErrText)

	n := rt.waitFor(t, protocol.MethodProgress)
	progress, ok := n.params.(*protocol.ProgressParams)
	require.True(t, ok)
	assert.Equal(t, "req-9", progress.Token)
	assert.Equal(t, "halfway", progress.Message)
}

func TestStopUnsubscribesFromBus(t *testing.T) {
	srv, rt := newTestServer(t)

	srv.RegisterCapabilities(toolDescriptor(t, "chatty",
		func(ctx context.Context, args []interface{}) (interface{}, error) {
			n := args[0].(notify.Notifier)
			_ = n.Progress(1, 1, "step")
			return "done", nil
		},
		capability.NotifierParam(),
	))

	require.NoError(t, srv.Start(context.Background()))
	require.NoError(t, srv.Stop())

	srv.Dispatch(context.Background(), capability.KindTool, "chatty", nil, "req-1")

	for _, method := range rt.methods() {
		assert.NotEqual(t, protocol.MethodProgress, method,
			"stopped server must not forward handler notifications")
	}
}

func TestSubscribeReceivesHandlerNotifications(t *testing.T) {
	srv, _ := newTestServer(t)

	obs := &captureObserver{}
	srv.Subscribe(obs)
	defer srv.Unsubscribe(obs)

	srv.RegisterCapabilities(toolDescriptor(t, "logger",
		func(ctx context.Context, args []interface{}) (interface{}, error) {
			n := args[0].(notify.Notifier)
			_ = n.Log(protocol.LogLevelInfo, "working")
			return "ok", nil
		},
		capability.NotifierParam(),
	))

	srv.Dispatch(context.Background(), capability.KindTool, "logger", nil, "req-1")

	require.Len(t, obs.all(), 1)
	assert.Equal(t, notify.MessageLog, obs.all()[0].Kind)
}

func TestRegisterInstanceAppliesFilter(t *testing.T) {
	handler := func(ctx context.Context, args []interface{}) (interface{}, error) { return "x", nil }
	scanner := &stubScanner{handlers: map[string]capability.Kind{
		"getWeather":  capability.KindTool,
		"getForecast": capability.KindTool,
	}, handler: handler}

	srv, _ := newTestServer(t, WithScanner(scanner))

	report, err := srv.RegisterInstance(context.Background(), struct{}{},
		func(kind capability.Kind, handlerName string) bool {
			return handlerName != "getForecast"
		})
	require.NoError(t, err)

	assert.Equal(t, []string{"getForecast"}, report.Vetoed)
	require.Len(t, report.Descriptors, 1)

	_, ok := srv.registry.Lookup(capability.KindTool, "getWeather")
	assert.True(t, ok, "admitted handler must be registered")
	_, ok = srv.registry.Lookup(capability.KindTool, "getForecast")
	assert.False(t, ok, "vetoed handler must not be registered")
}

func TestRegisterInstanceWithoutScanner(t *testing.T) {
	srv, _ := newTestServer(t)
	_, err := srv.RegisterInstance(context.Background(), struct{}{}, nil)
	require.Error(t, err)
}

func TestSnapshotListsRegistered(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := func(ctx context.Context, args []interface{}) (interface{}, error) { return "x", nil }

	srv.RegisterCapabilities(
		toolDescriptor(t, "a", handler),
		toolDescriptor(t, "b", handler),
	)

	assert.Len(t, srv.Snapshot(capability.KindTool), 2)
	assert.Empty(t, srv.Snapshot(capability.KindPrompt))

	srv.UnregisterCapabilities(toolDescriptor(t, "a", handler))
	assert.Len(t, srv.Snapshot(capability.KindTool), 1)
}

// stubScanner emits one tool descriptor per named handler, sorted by name
// for deterministic reports
type stubScanner struct {
	handlers map[string]capability.Kind
	handler  capability.Handler
}

func (s *stubScanner) Scan(instance interface{}, filter capability.ScanFilter) (capability.ScanReport, error) {
	var report capability.ScanReport

	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		kind := s.handlers[name]
		if filter != nil && !filter(kind, name) {
			report.Vetoed = append(report.Vetoed, name)
			continue
		}
		d, err := capability.NewDescriptor(kind, "", name, s.handler)
		if err != nil {
			return report, err
		}
		report.Descriptors = append(report.Descriptors, d)
	}
	return report, nil
}

type captureObserver struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (o *captureObserver) Receive(msg notify.Message) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, msg)
}

func (o *captureObserver) all() []notify.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]notify.Message(nil), o.messages...)
}
