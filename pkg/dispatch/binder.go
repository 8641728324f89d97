package dispatch

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mcpkit/mcp-registry-go/pkg/capability"
	"github.com/mcpkit/mcp-registry-go/pkg/errors"
	"github.com/mcpkit/mcp-registry-go/pkg/notify"
)

// Bind maps a request's named arguments onto a descriptor's declared
// parameters, in declaration order. The hidden trailing parameter, when
// declared, is resolved through the descriptor's notifier factory with a
// bus-backed default fallback keyed by the request's correlation token.
//
// Binding fails only on a missing required non-hidden argument or an
// uncoercible value; a missing optional argument binds to nil.
func Bind(bus *notify.Bus, desc capability.Descriptor, req Request) ([]interface{}, error) {
	args := make([]interface{}, 0, len(desc.Params))

	for _, p := range desc.Params {
		if p.Hidden {
			// Construction guarantees the hidden slot is trailing.
			args = append(args, resolveNotifier(bus, desc, req.CorrelationToken))
			continue
		}

		raw, ok := req.Arguments[p.Name]
		if !ok {
			if p.Required {
				return nil, errors.MissingArgument(p.Name)
			}
			args = append(args, nil)
			continue
		}

		value, err := coerce(raw, p.Type)
		if err != nil {
			return nil, errors.InvalidArgument(p.Name, raw, string(p.Type))
		}
		args = append(args, value)
	}

	return args, nil
}

// resolveNotifier prefers the descriptor's factory and falls back to the
// default bus-backed notifier when no factory is supplied or the factory
// returns nothing
func resolveNotifier(bus *notify.Bus, desc capability.Descriptor, token string) notify.Notifier {
	if desc.NotifierFactory != nil {
		if n := desc.NotifierFactory(token); n != nil {
			return n
		}
	}
	return notify.NewNotifier(bus, token)
}

// coerce converts a raw JSON-decoded argument to the representation the
// handler expects for the declared semantic type
func coerce(raw interface{}, t capability.SemanticType) (interface{}, error) {
	switch t {
	case capability.TypeString:
		switch v := raw.(type) {
		case string:
			return v, nil
		case json.Number:
			return v.String(), nil
		case float64, bool, int, int64:
			return fmt.Sprintf("%v", v), nil
		}
		return nil, fmt.Errorf("cannot represent %T as string", raw)

	case capability.TypeBoolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("cannot parse %q as boolean", v)
			}
			return b, nil
		}
		return nil, fmt.Errorf("cannot represent %T as boolean", raw)

	case capability.TypeNumber:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int32:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return nil, fmt.Errorf("cannot parse %q as number", v.String())
			}
			return f, nil
		}
		return nil, fmt.Errorf("cannot represent %T as number", raw)

	case capability.TypeArray:
		if v, ok := raw.([]interface{}); ok {
			return v, nil
		}
		return nil, fmt.Errorf("cannot represent %T as array", raw)

	default:
		// Object is the total fallback type; pass the raw value through.
		return raw, nil
	}
}
