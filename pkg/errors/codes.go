package errors

// JSON-RPC 2.0 Standard Error Codes
const (
	// CodeParseError indicates invalid JSON was received by the server
	CodeParseError int = -32700

	// CodeInvalidRequest indicates the JSON sent is not a valid Request object
	CodeInvalidRequest int = -32600

	// CodeMethodNotFound indicates the method does not exist / is not available
	CodeMethodNotFound int = -32601

	// CodeInvalidParams indicates invalid method parameter(s)
	CodeInvalidParams int = -32602

	// CodeInternalError indicates internal JSON-RPC error
	CodeInternalError int = -32603
)

// Registry-Specific Error Codes
const (
	// Startup Errors (-32000 to -32099)
	CodeServerInitError      int = -32000 // Error during server initialization
	CodeUnsupportedTransport int = -32001 // Transport mode not implemented by the shell

	// Capability Errors (-32200 to -32299)
	CodeCapabilityNotFound int = -32200 // Requested capability not registered
	CodeCapabilityConflict int = -32202 // Capability name collision within a kind

	// Invocation Errors (-32300 to -32399)
	CodeInvocationFailed int = -32302 // Handler raised or panicked during dispatch
	CodeNoResult         int = -32303 // Handler produced no convertible result

	// Binding Errors (-32750 to -32799)
	CodeMissingArgument int = -32751 // Required argument absent from the request
	CodeInvalidArgument int = -32752 // Argument value could not be coerced

	// Notification Errors (-32900 to -32999)
	CodeMissingCorrelationToken int = -32901 // Progress publish without a token
)
