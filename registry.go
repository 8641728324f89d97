// Package mcpregistry provides a dynamic capability registry and request
// dispatcher for MCP-style servers: tools, prompts and resources are
// described by declarative descriptors, published atomically, and invoked
// through a dispatcher that binds arguments, injects notifiers and folds
// every handler fault into a protocol-shaped result.
//
// The root package re-exports the most commonly used constructors from
// the sub-packages:
//
//   - pkg/capability: descriptors, parameter specs and handler types
//   - pkg/registry: the live capability table with change events
//   - pkg/dispatch: argument binding and invocation
//   - pkg/notify: the notification bus and injected notifiers
//   - pkg/schema: input schema derivation
//   - pkg/server: the assembled server shell
//
// A minimal server:
//
//	srv, err := mcpregistry.NewServer(
//	    mcpregistry.WithServerName("weather"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	desc, err := capability.NewDescriptor(
//	    capability.KindTool, "weather", "getWeather", handler,
//	    capability.WithParams(
//	        capability.Param("city", "City to look up", capability.TypeString),
//	        capability.NotifierParam(),
//	    ),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv.RegisterCapabilities(desc)
package mcpregistry

import (
	"github.com/mcpkit/mcp-registry-go/pkg/capability"
	"github.com/mcpkit/mcp-registry-go/pkg/dispatch"
	"github.com/mcpkit/mcp-registry-go/pkg/notify"
	"github.com/mcpkit/mcp-registry-go/pkg/registry"
	"github.com/mcpkit/mcp-registry-go/pkg/schema"
	"github.com/mcpkit/mcp-registry-go/pkg/server"
)

// Version is the current version of the module
const Version = "1.0.0"

// Core constructors
var (
	// NewServer creates an assembled server shell.
	NewServer = server.New

	// NewRegistry creates a standalone capability registry.
	NewRegistry = registry.New

	// NewBus creates a notification bus.
	NewBus = notify.NewBus

	// NewDispatcher creates a dispatcher over a registry and bus.
	NewDispatcher = dispatch.New

	// NewDescriptor constructs and validates a capability descriptor.
	NewDescriptor = capability.NewDescriptor

	// BuildSchema derives an input schema from a parameter list.
	BuildSchema = schema.Build
)

// Capability kinds
const (
	KindTool     = capability.KindTool
	KindPrompt   = capability.KindPrompt
	KindResource = capability.KindResource
)

// Server options
var (
	WithServerName    = server.WithName
	WithServerVersion = server.WithVersion
	WithServerLogger  = server.WithLogger
	WithTransportMode = server.WithTransportMode
	WithTransport     = server.WithTransport
	WithMetrics       = server.WithMetrics
	WithTracing       = server.WithTracing
	WithScanner       = server.WithScanner
)

// Transport constructors
var (
	NewStdioTransport = server.NewStdioTransport
	NewHTTPTransport  = server.NewHTTPTransport
)

// Parameter helpers
var (
	Param         = capability.Param
	NotifierParam = capability.NotifierParam
)
