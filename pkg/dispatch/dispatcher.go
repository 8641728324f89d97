package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/mcpkit/mcp-registry-go/pkg/capability"
	"github.com/mcpkit/mcp-registry-go/pkg/errors"
	"github.com/mcpkit/mcp-registry-go/pkg/logging"
	"github.com/mcpkit/mcp-registry-go/pkg/notify"
	"github.com/mcpkit/mcp-registry-go/pkg/protocol"
	"github.com/mcpkit/mcp-registry-go/pkg/registry"
)

// Dispatcher looks capabilities up in the registry, binds arguments,
// invokes handlers, and shapes the outcome for the protocol. It never
// holds the registry's lock while a handler executes, so handlers may
// themselves trigger registration changes.
type Dispatcher struct {
	registry *registry.Registry
	bus      *notify.Bus
	logger   logging.Logger
	idgen    logging.RequestIDGenerator
}

// Option configures a dispatcher
type Option func(*Dispatcher)

// WithRequestIDGenerator overrides the request-id source (UUIDs by
// default)
func WithRequestIDGenerator(gen logging.RequestIDGenerator) Option {
	return func(d *Dispatcher) { d.idgen = gen }
}

// New creates a dispatcher over the given registry and notification bus
func New(reg *registry.Registry, bus *notify.Bus, logger logging.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	d := &Dispatcher{
		registry: reg,
		bus:      bus,
		logger:   logger.WithFields(logging.String("component", "dispatcher")),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch resolves and invokes the named capability. Every failure mode
// after routing (missing arguments, handler errors, handler panics,
// unconvertible results) is folded into the returned result as error
// content; Dispatch itself always returns normally.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) *protocol.InvocationResult {
	ctx, requestID := logging.EnsureRequestID(ctx, d.idgen)

	logger := d.logger.WithContext(ctx).WithFields(
		logging.String("kind", req.Kind.String()),
		logging.String("capability", req.CapabilityName),
	)

	entry, ok := d.registry.Lookup(req.Kind, req.CapabilityName)
	if !ok {
		regErr := errors.CapabilityNotFound(req.Kind.String(), req.CapabilityName)
		logger.WithError(regErr).Warn("Capability not found")
		return protocol.ErrorText(regErr.Message())
	}

	return d.run(ctx, logger, entry.Descriptor, req, requestID)
}

// run executes one bound invocation against an already-resolved
// descriptor
func (d *Dispatcher) run(ctx context.Context, logger logging.Logger, desc capability.Descriptor, req Request, requestID string) *protocol.InvocationResult {
	args, err := Bind(d.bus, desc, req)
	if err != nil {
		// Binding failures are user-visible protocol errors, not
		// transport faults; the handler is never invoked.
		logger.Warn("Argument binding failed", logging.ErrorField(err))
		return protocol.ErrorText(err.Error())
	}

	out, err := invoke(ctx, desc.Handler, args)
	if err != nil {
		regErr := errors.InvocationFailed(desc.Name, err)
		logger.WithError(regErr).Error("Capability invocation failed",
			logging.String("request_id", requestID))
		return protocol.ErrorText(regErr.Message())
	}

	return classify(desc, out)
}

// invoke runs the handler, converting a panic into an error at the
// dispatch boundary so an application fault cannot terminate the serving
// process
func invoke(ctx context.Context, handler capability.Handler, args []interface{}) (out interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler(ctx, args)
}

// classify converts a handler's return value into an invocation result
func classify(desc capability.Descriptor, out interface{}) *protocol.InvocationResult {
	if isAbsent(out) {
		return protocol.ErrorText(noResultMessage(desc))
	}

	switch v := out.(type) {
	case *protocol.InvocationResult:
		// Already protocol-native; pass through unchanged.
		return v
	case protocol.ContentItem:
		return protocol.ContentResult(v)
	case []protocol.ContentItem:
		return protocol.ContentResult(v...)
	case json.RawMessage:
		return protocol.StructuredResult(v)
	case map[string]interface{}:
		// A bare object is a structured result, not stringified content.
		return protocol.StructuredResult(v)
	}

	rv := reflect.ValueOf(out)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8 {
		items := make([]protocol.ContentItem, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := contentItem(rv.Index(i).Interface())
			if err != nil {
				return protocol.ErrorTextf("%s returned an unconvertible element: %v", desc.Name, err)
			}
			items = append(items, item)
		}
		return protocol.ContentResult(items...)
	}

	item, err := contentItem(out)
	if err != nil {
		return protocol.ErrorTextf("%s returned an unconvertible result: %v", desc.Name, err)
	}
	return protocol.ContentResult(item)
}

// isAbsent reports whether a handler produced no result. A typed nil
// (a nil pointer, map, slice, or interface boxed in a non-nil
// interface value) counts the same as a literal nil return; it would
// otherwise marshal as JSON null.
func isAbsent(out interface{}) bool {
	if out == nil {
		return true
	}
	rv := reflect.ValueOf(out)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// contentItem maps a single handler value to one content item: primitives
// are string-rendered, content-shaped values pass through, and anything
// else is serialized as structured content
func contentItem(v interface{}) (protocol.ContentItem, error) {
	switch val := v.(type) {
	case protocol.ContentItem:
		return val, nil
	case string:
		return protocol.TextItem(val), nil
	case []byte:
		return protocol.TextItem(string(val)), nil
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return protocol.TextItemf("%v", val), nil
	case error:
		return protocol.TextItem(val.Error()), nil
	case nil:
		return protocol.ContentItem{}, fmt.Errorf("nil element")
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return protocol.ContentItem{}, fmt.Errorf("marshal %T: %w", v, err)
	}
	return protocol.StructuredItem(raw), nil
}

// noResultMessage synthesizes the kind-specific error for a handler that
// produced nothing
func noResultMessage(desc capability.Descriptor) string {
	switch desc.Kind {
	case capability.KindPrompt:
		return fmt.Sprintf("no prompt content returned from %s", desc.Name)
	case capability.KindResource:
		return fmt.Sprintf("no resource contents returned from %s", desc.Name)
	default:
		return fmt.Sprintf("no result returned from tool %s", desc.Name)
	}
}
