// Package capability defines the descriptor model for the capability
// registry: the kinds of capabilities a server can expose, the parameter
// metadata attached to each handler, and the immutable descriptor that
// binds the two to an invocable handler.
package capability

import (
	"context"

	"github.com/mcpkit/mcp-registry-go/pkg/notify"
)

// Kind identifies the class of a capability.
type Kind string

// Kind constants define the capability classes understood by the registry.
const (
	// KindTool is an executable tool invocable by a remote caller.
	KindTool Kind = "tool"

	// KindPrompt is a prompt template with declared arguments.
	KindPrompt Kind = "prompt"

	// KindResource is a readable resource exposed by the server.
	KindResource Kind = "resource"
)

// Kinds lists every capability kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindTool, KindPrompt, KindResource}
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	return string(k)
}

// Valid reports whether k is one of the declared capability kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindTool, KindPrompt, KindResource:
		return true
	}
	return false
}

// SemanticType is the declared representation of a parameter value.
type SemanticType string

const (
	TypeString  SemanticType = "string"
	TypeBoolean SemanticType = "boolean"
	TypeNumber  SemanticType = "number"
	TypeArray   SemanticType = "array"
	TypeObject  SemanticType = "object"
)

// Handler is an invocable capability implementation, already bound to its
// owning instance. The argument slice is produced by the binder in
// declaration order; a trailing hidden parameter receives an injected
// notify.Notifier.
type Handler func(ctx context.Context, args []interface{}) (interface{}, error)

// NotifierFactory produces the notifier injected into a handler's hidden
// trailing parameter, keyed by the request's correlation token.
type NotifierFactory func(token string) notify.Notifier
