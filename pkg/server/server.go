// Package server assembles the capability registry, notification bus and
// dispatcher into a runnable server instance. The server registers itself
// as a bus observer and forwards handler notifications and registry
// change events to its transport.
package server

import (
	"context"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mcpkit/mcp-registry-go/pkg/capability"
	"github.com/mcpkit/mcp-registry-go/pkg/dispatch"
	mcperrors "github.com/mcpkit/mcp-registry-go/pkg/errors"
	"github.com/mcpkit/mcp-registry-go/pkg/logging"
	"github.com/mcpkit/mcp-registry-go/pkg/notify"
	"github.com/mcpkit/mcp-registry-go/pkg/observability"
	"github.com/mcpkit/mcp-registry-go/pkg/protocol"
	"github.com/mcpkit/mcp-registry-go/pkg/registry"
)

// Server owns one registry, one bus and one dispatcher, and bridges them
// to a transport
type Server struct {
	name    string
	version string
	mode    TransportMode

	transport Transport
	logger    logging.Logger
	metrics   observability.MetricsProvider
	tracing   *observability.TracingProvider
	scanner   capability.Scanner

	registry   *registry.Registry
	bus        *notify.Bus
	dispatcher *dispatch.Dispatcher
	dispatchFn observability.DispatchFunc

	// changes holds one registry subscription per kind, created once at
	// construction and reused across Start/Stop cycles so restarts do
	// not accumulate subscriber channels in the registry.
	changes map[capability.Kind]<-chan struct{}

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	group   *errgroup.Group
}

// ServerOption defines options for creating a server
type ServerOption func(*Server)

// WithName sets the server name used as the default capability name prefix
func WithName(name string) ServerOption {
	return func(s *Server) { s.name = name }
}

// WithVersion sets the server version
func WithVersion(version string) ServerOption {
	return func(s *Server) { s.version = version }
}

// WithLogger sets the structured logger
func WithLogger(logger logging.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

// WithTransportMode selects the transport mode. The mode is validated by
// New; supported modes are stdio and http.
func WithTransportMode(mode TransportMode) ServerOption {
	return func(s *Server) { s.mode = mode }
}

// WithTransport sets an explicit transport, overriding the one implied by
// the transport mode
func WithTransport(t Transport) ServerOption {
	return func(s *Server) { s.transport = t }
}

// WithMetrics sets the metrics provider
func WithMetrics(m observability.MetricsProvider) ServerOption {
	return func(s *Server) { s.metrics = m }
}

// WithTracing sets the tracing provider
func WithTracing(tp *observability.TracingProvider) ServerOption {
	return func(s *Server) { s.tracing = tp }
}

// WithScanner sets the instance scanner used by RegisterInstance
func WithScanner(sc capability.Scanner) ServerOption {
	return func(s *Server) { s.scanner = sc }
}

// New creates a server. An unsupported transport mode is a construction
// error; it is never deferred to request time.
func New(options ...ServerOption) (*Server, error) {
	s := &Server{
		name:    "mcp-registry",
		version: "0.1.0",
		mode:    ModeStdio,
		metrics: observability.NoopMetricsProvider{},
	}

	for _, option := range options {
		option(s)
	}

	if s.logger == nil {
		logger := logging.New(os.Stderr, logging.NewTextFormatter()).WithFields(
			logging.String("component", "server"),
			logging.String("server", s.name),
		)
		logger.SetLevel(logging.InfoLevel)
		s.logger = logger
	}

	if s.transport == nil {
		switch s.mode {
		case ModeStdio:
			s.transport = NewStdioTransport(nil)
		case ModeHTTP:
			return nil, mcperrors.UnsupportedTransport(string(s.mode), SupportedModes()).
				WithDetail("http mode requires an explicit transport endpoint, use WithTransport")
		default:
			return nil, mcperrors.UnsupportedTransport(string(s.mode), SupportedModes())
		}
	} else if s.mode != ModeStdio && s.mode != ModeHTTP {
		return nil, mcperrors.UnsupportedTransport(string(s.mode), SupportedModes())
	}

	s.registry = registry.New(s.logger)
	s.bus = notify.NewBus(s.logger)
	s.dispatcher = dispatch.New(s.registry, s.bus, s.logger)
	s.dispatchFn = observability.InstrumentDispatch(s.metrics, s.tracing, s.dispatcher.Dispatch)

	s.changes = make(map[capability.Kind]<-chan struct{}, len(capability.Kinds()))
	for _, kind := range capability.Kinds() {
		s.changes[kind] = s.registry.Changes(kind)
	}

	return s, nil
}

// RegisterCapabilities adds a batch of descriptors to the registry.
// Names already present are replaced.
func (s *Server) RegisterCapabilities(descriptors ...capability.Descriptor) {
	s.registry.Add(descriptors...)
	s.refreshGauges()
}

// UnregisterCapabilities removes a batch of descriptors by kind and name
func (s *Server) UnregisterCapabilities(descriptors ...capability.Descriptor) {
	s.registry.Remove(descriptors...)
	s.refreshGauges()
}

func (s *Server) refreshGauges() {
	for _, kind := range capability.Kinds() {
		s.metrics.SetRegisteredCapabilities(kind.String(), s.registry.Len(kind))
	}
}

// RegisterInstance scans instance for capability handlers and registers
// every descriptor the filter admits. Vetoed handlers are logged and
// reported in the returned ScanReport.
func (s *Server) RegisterInstance(ctx context.Context, instance interface{}, filter capability.ScanFilter) (capability.ScanReport, error) {
	if s.scanner == nil {
		return capability.ScanReport{}, mcperrors.NewError(
			mcperrors.CodeInternalError,
			"no scanner configured",
			mcperrors.CategoryInternal,
			mcperrors.SeverityError,
		)
	}

	report, err := s.scanner.Scan(instance, filter)
	if err != nil {
		return report, mcperrors.WrapErrorf(err, mcperrors.CodeInternalError,
			mcperrors.CategoryInternal, mcperrors.SeverityError,
			"failed to scan instance %T", instance)
	}

	for _, vetoed := range report.Vetoed {
		s.logger.Info("Handler vetoed by registration filter", logging.String("handler", vetoed))
	}
	if len(report.Descriptors) > 0 {
		s.RegisterCapabilities(report.Descriptors...)
	}
	return report, nil
}

// Dispatch routes one request to its registered handler
func (s *Server) Dispatch(ctx context.Context, kind capability.Kind, name string, args map[string]interface{}, token string) *protocol.InvocationResult {
	return s.dispatchFn(ctx, dispatch.Request{
		Kind:             kind,
		CapabilityName:   name,
		Arguments:        args,
		CorrelationToken: token,
	})
}

// Subscribe registers an additional observer on the notification bus
func (s *Server) Subscribe(obs notify.Observer) {
	s.bus.Register(obs)
}

// Unsubscribe removes an observer from the notification bus
func (s *Server) Unsubscribe(obs notify.Observer) {
	s.bus.Unregister(obs)
}

// Changes returns the change event channel for one capability kind
func (s *Server) Changes(kind capability.Kind) <-chan struct{} {
	return s.registry.Changes(kind)
}

// Snapshot lists the registered capabilities of one kind
func (s *Server) Snapshot(kind capability.Kind) []registry.Entry {
	return s.registry.Snapshot(kind)
}

// Receive implements notify.Observer: handler notifications are forwarded
// to the transport. Send failures are logged, never propagated back into
// the publishing handler.
func (s *Server) Receive(msg notify.Message) {
	ctx := context.Background()

	var method string
	var params interface{}
	var kindLabel string
	switch msg.Kind {
	case notify.MessageProgress:
		method = protocol.MethodProgress
		params = msg.Progress
		kindLabel = "progress"
	case notify.MessageLog:
		method = protocol.MethodLog
		params = msg.Log
		kindLabel = "log"
	default:
		return
	}

	s.metrics.RecordNotification(ctx, kindLabel)
	if err := s.transport.SendNotification(ctx, method, params); err != nil {
		s.logger.WithError(err).Error("Failed to forward notification",
			logging.String("method", method))
	}
}

// Start subscribes the server to the bus and begins forwarding registry
// change events to the transport. It returns once the forwarding
// goroutines are running; Stop shuts them down.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if err := s.metrics.Start(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(runCtx)

	s.bus.Register(s)

	for _, kind := range capability.Kinds() {
		kind := kind
		changes := s.changes[kind]
		group.Go(func() error {
			return s.forwardChanges(groupCtx, kind, changes)
		})
	}

	s.cancel = cancel
	s.group = group
	s.started = true

	s.logger.Info("Server started",
		logging.String("version", s.version),
		logging.String("transport", string(s.mode)))
	return nil
}

func (s *Server) forwardChanges(ctx context.Context, kind capability.Kind, changes <-chan struct{}) error {
	method := listChangedMethod(kind)
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			params := protocol.ListChangedParams{Kind: kind.String()}
			if err := s.transport.SendNotification(ctx, method, params); err != nil {
				s.logger.WithError(err).Error("Failed to forward list change",
					logging.String("kind", kind.String()))
			}
		}
	}
}

func listChangedMethod(kind capability.Kind) string {
	switch kind {
	case capability.KindPrompt:
		return protocol.MethodPromptsChanged
	case capability.KindResource:
		return protocol.MethodResourcesChanged
	default:
		return protocol.MethodToolsChanged
	}
}

// Stop unsubscribes from the bus, stops the forwarding goroutines and
// shuts down the observability providers
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.bus.Unregister(s)
	s.cancel()
	err := s.group.Wait()

	if merr := s.metrics.Shutdown(context.Background()); err == nil {
		err = merr
	}
	if s.tracing != nil {
		if terr := s.tracing.Shutdown(context.Background()); err == nil {
			err = terr
		}
	}

	s.started = false
	s.logger.Info("Server stopped")
	return err
}
