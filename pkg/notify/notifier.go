package notify

import (
	"github.com/mcpkit/mcp-registry-go/pkg/errors"
	"github.com/mcpkit/mcp-registry-go/pkg/protocol"
)

// Notifier is the handle injected into a handler's hidden trailing
// parameter. Handlers call it zero or more times before returning their
// final result; progress notifications and the final result travel on
// independent channels.
type Notifier interface {
	// Progress reports partial completion of the current invocation.
	Progress(progress, total float64, message string) error

	// Log sends a log record to connected clients.
	Log(level protocol.LogLevel, data interface{}) error
}

// busNotifier is the default Notifier used when a descriptor supplies no
// factory. It publishes to the bus under the request's correlation token.
type busNotifier struct {
	bus    *Bus
	token  string
	logger string
}

// NewNotifier creates the default bus-backed notifier keyed by the
// request's correlation token. The token may be empty; publishing
// progress through a tokenless notifier fails at the point of publish.
func NewNotifier(bus *Bus, token string) Notifier {
	return &busNotifier{bus: bus, token: token, logger: "capability"}
}

// Progress publishes a progress notification. A missing correlation token
// is a caller contract violation and fails loudly rather than dropping
// the notification.
func (n *busNotifier) Progress(progress, total float64, message string) error {
	if n.token == "" {
		return errors.MissingCorrelationToken()
	}
	n.bus.Publish(ProgressMessage(n.token, progress, total, message))
	return nil
}

// Log publishes a log notification
func (n *busNotifier) Log(level protocol.LogLevel, data interface{}) error {
	n.bus.Publish(LogMessage(level, n.logger, data))
	return nil
}
