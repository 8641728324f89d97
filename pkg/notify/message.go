// Package notify provides process-level fan-out of asynchronous
// notifications (progress and log messages) from capability handlers to
// every registered observer, typically one per active server instance.
package notify

import (
	"github.com/mcpkit/mcp-registry-go/pkg/protocol"
)

// MessageKind tags the variant of a notification message
type MessageKind int

const (
	// MessageProgress reports partial progress of a long-running handler.
	MessageProgress MessageKind = iota

	// MessageLog carries a log record destined for connected clients.
	MessageLog
)

// Message is a tagged notification. Exactly one of Progress or Log is set,
// matching Kind.
type Message struct {
	Kind     MessageKind
	Progress *protocol.ProgressParams
	Log      *protocol.LogParams
}

// ProgressMessage builds a progress notification keyed by the correlation
// token of the originating request
func ProgressMessage(token string, progress, total float64, text string) Message {
	return Message{
		Kind: MessageProgress,
		Progress: &protocol.ProgressParams{
			Progress: progress,
			Total:    total,
			Message:  text,
			Token:    token,
		},
	}
}

// LogMessage builds a log notification
func LogMessage(level protocol.LogLevel, logger string, data interface{}) Message {
	return Message{
		Kind: MessageLog,
		Log: &protocol.LogParams{
			Level:  level,
			Logger: logger,
			Data:   data,
		},
	}
}

// Observer receives notification messages. Observer lifetime is managed by
// the registering party; the bus holds only non-owning references.
// Observers must be comparable values (typically pointers) so that
// registration can be deduplicated.
type Observer interface {
	Receive(msg Message)
}
