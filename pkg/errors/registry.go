package errors

import (
	"fmt"
)

// ArgumentErrorData contains structured data for argument binding errors
type ArgumentErrorData struct {
	Parameter string      `json:"parameter"`
	Value     interface{} `json:"value,omitempty"`
	Expected  string      `json:"expected,omitempty"`
	Required  bool        `json:"required,omitempty"`
	Reason    string      `json:"reason,omitempty"`
}

// CapabilityErrorData contains structured data for capability-level errors
type CapabilityErrorData struct {
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Reason string `json:"reason,omitempty"`
}

// TransportErrorData contains structured data for transport configuration errors
type TransportErrorData struct {
	Mode      string   `json:"mode"`
	Supported []string `json:"supported,omitempty"`
}

// MissingArgument creates a binding error for a required argument absent
// from the request
func MissingArgument(param string) RegistryError {
	return NewError(
		CodeMissingArgument,
		fmt.Sprintf("Missing required argument: %s", param),
		CategoryBinding,
		SeverityError,
	).WithData(&ArgumentErrorData{
		Parameter: param,
		Required:  true,
	})
}

// InvalidArgument creates a binding error for an argument value that could
// not be coerced to the declared semantic type
func InvalidArgument(param string, value interface{}, expected string) RegistryError {
	var got string
	if value != nil {
		got = fmt.Sprintf("%T", value)
	} else {
		got = "nil"
	}

	return NewError(
		CodeInvalidArgument,
		fmt.Sprintf("Invalid argument '%s': expected %s, got %s", param, expected, got),
		CategoryBinding,
		SeverityError,
	).WithData(&ArgumentErrorData{
		Parameter: param,
		Value:     value,
		Expected:  expected,
		Reason:    fmt.Sprintf("expected %s", expected),
	})
}

// IsBindingError reports whether err is a binding failure (missing or
// invalid argument)
func IsBindingError(err error) bool {
	regErr, ok := AsRegistryError(err)
	return ok && regErr.Category() == CategoryBinding
}

// InvocationFailed wraps a handler failure caught at the dispatch boundary
func InvocationFailed(capability string, cause error) RegistryError {
	return WrapErrorf(
		cause,
		CodeInvocationFailed,
		CategoryInvocation,
		SeverityError,
		"Capability '%s' failed: %v", capability, cause,
	).WithData(&CapabilityErrorData{
		Name:   capability,
		Reason: cause.Error(),
	})
}

// CapabilityNotFound creates an error for a (kind, name) pair with no
// registered capability
func CapabilityNotFound(kind, name string) RegistryError {
	return NewError(
		CodeCapabilityNotFound,
		fmt.Sprintf("%s '%s' not found", kind, name),
		CategoryNotFound,
		SeverityError,
	).WithData(&CapabilityErrorData{
		Kind: kind,
		Name: name,
	})
}

// UnsupportedTransport creates a fatal startup error for a transport mode
// the server shell does not implement
func UnsupportedTransport(mode string, supported []string) RegistryError {
	return NewError(
		CodeUnsupportedTransport,
		fmt.Sprintf("Unsupported transport mode: %s", mode),
		CategoryTransport,
		SeverityCritical,
	).WithData(&TransportErrorData{
		Mode:      mode,
		Supported: supported,
	})
}

// MissingCorrelationToken creates an error for a progress notification
// attempted without a correlation token. This is a caller contract
// violation and surfaces at the point of publish.
func MissingCorrelationToken() RegistryError {
	return NewError(
		CodeMissingCorrelationToken,
		"Progress notification requires a correlation token",
		CategoryProtocol,
		SeverityError,
	)
}
