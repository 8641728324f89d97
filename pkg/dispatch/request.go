// Package dispatch binds incoming request arguments to handler
// parameters, invokes the handler, and converts the outcome into a
// protocol-shaped invocation result. Handler failures never escape the
// dispatch boundary; they become error content in the response.
package dispatch

import (
	"github.com/mcpkit/mcp-registry-go/pkg/capability"
)

// Request is one inbound capability invocation
type Request struct {
	// CapabilityName selects the capability within its kind.
	CapabilityName string

	// Kind selects the capability table.
	Kind capability.Kind

	// Arguments maps parameter names to raw caller-supplied values.
	Arguments map[string]interface{}

	// CorrelationToken routes progress notifications back to this
	// request. Optional; handlers that report progress require it.
	CorrelationToken string
}
