package schema

import (
	"github.com/invopop/jsonschema"

	"github.com/mcpkit/mcp-registry-go/pkg/capability"
)

// ReflectParams derives a parameter list from a typed argument struct by
// reflecting a JSON Schema from A and down-converting it to ParamSpecs.
// Field descriptions come from jsonschema struct tags; required follows
// the reflected schema's required set. Non-object types reflect to an
// empty parameter list.
//
// This is a convenience front end for hosts whose handlers take a single
// typed struct; scanned instances with per-parameter metadata go through
// capability.Param directly.
func ReflectParams[A any]() []capability.ParamSpec {
	r := &jsonschema.Reflector{
		DoNotReference: true, // inline defs
		ExpandedStruct: true, // put struct at root
	}
	s := r.Reflect(new(A))
	if s == nil || s.Type != "object" || s.Properties == nil {
		return nil
	}

	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}

	var params []capability.ParamSpec
	for el := s.Properties.Oldest(); el != nil; el = el.Next() {
		p := capability.ParamSpec{
			Name:        el.Key,
			Description: el.Value.Description,
			Required:    required[el.Key],
			Type:        semanticType(el.Value.Type),
		}
		params = append(params, p)
	}
	return params
}

// ReflectSchema derives a request-input schema directly from a typed
// argument struct
func ReflectSchema[A any]() Schema {
	return Build(ReflectParams[A]())
}

// semanticType maps a reflected JSON Schema type to the parameter model.
// Integers collapse to number; anything unrecognized is an object.
func semanticType(t string) capability.SemanticType {
	switch t {
	case "string":
		return capability.TypeString
	case "boolean":
		return capability.TypeBoolean
	case "number", "integer":
		return capability.TypeNumber
	case "array":
		return capability.TypeArray
	default:
		return capability.TypeObject
	}
}
