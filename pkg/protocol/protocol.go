// Package protocol defines the wire-visible shapes produced by the
// capability registry: invocation results, content items, and the
// asynchronous notification payloads (progress, log, list-changed).
package protocol

// ProtocolRevision is the protocol revision implemented by this module.
const ProtocolRevision = "2025-06-18"

// Method constants define the notification methods emitted by the server
// shell.
const (
	// MethodProgress notifies about long-running operation progress.
	MethodProgress = "notifications/progress"

	// MethodLog sends a log message to connected clients.
	MethodLog = "notifications/message"

	// MethodToolsChanged notifies that the tool listing changed.
	MethodToolsChanged = "notifications/tools/list_changed"

	// MethodPromptsChanged notifies that the prompt listing changed.
	MethodPromptsChanged = "notifications/prompts/list_changed"

	// MethodResourcesChanged notifies that the resource listing changed.
	MethodResourcesChanged = "notifications/resources/list_changed"
)

// LogLevel represents the severity of a protocol log message
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// ProgressParams is the payload of a progress notification. Token links
// the notification back to the request that triggered it.
type ProgressParams struct {
	Progress float64 `json:"progress"`
	Total    float64 `json:"total,omitempty"`
	Message  string  `json:"message,omitempty"`
	Token    string  `json:"progressToken"`
}

// LogParams is the payload of a log notification
type LogParams struct {
	Level  LogLevel    `json:"level"`
	Logger string      `json:"logger,omitempty"`
	Data   interface{} `json:"data"`
}

// ListChangedParams is the payload of a capability list-changed
// notification, keyed by capability kind
type ListChangedParams struct {
	Kind string `json:"kind"`
}
