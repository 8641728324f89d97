// Package schema derives request-input schemas from capability parameter
// lists. Building is pure and deterministic: the same parameter list
// always produces the same schema, which keeps re-registration
// idempotent.
package schema

import (
	"github.com/mcpkit/mcp-registry-go/pkg/capability"
)

// Property is the declared shape of one caller-supplied argument
type Property struct {
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
}

// Schema is the declared shape of a capability's input arguments. It
// serializes as {"type":"object","properties":{...},"required":[...]}.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Build derives a schema from a parameter list. Hidden parameters are
// excluded entirely; required collects the non-hidden parameters flagged
// required, in declaration order.
func Build(params []capability.ParamSpec) Schema {
	s := Schema{
		Type:       "object",
		Properties: make(map[string]Property, len(params)),
	}

	for _, p := range params {
		if p.Hidden {
			continue
		}
		s.Properties[p.Name] = Property{
			Description: p.Description,
			Type:        typeName(p.Type),
		}
		if p.Required {
			s.Required = append(s.Required, p.Name)
		}
	}

	return s
}

// typeName maps a semantic type to its wire name. The mapping is total:
// anything unrecognized falls back to "object" rather than erroring.
func typeName(t capability.SemanticType) string {
	switch t {
	case capability.TypeString:
		return "string"
	case capability.TypeBoolean:
		return "boolean"
	case capability.TypeNumber:
		return "number"
	case capability.TypeArray:
		return "array"
	default:
		return "object"
	}
}
