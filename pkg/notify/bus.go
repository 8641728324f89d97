package notify

import (
	"sync"

	"github.com/mcpkit/mcp-registry-go/pkg/logging"
)

// Bus fans notification messages out to every registered observer. A bus
// is constructed explicitly and scoped to a process or test; register and
// unregister are tied to server start and stop rather than global module
// state.
//
// Publish delivers synchronously, in registration order, to the set of
// observers registered at the moment the publish begins. The observer
// list lock is never held across the fan-out, so a slow observer cannot
// block registration changes.
type Bus struct {
	mu        sync.RWMutex
	observers []Observer

	logger logging.Logger
}

// NewBus creates a notification bus
func NewBus(logger logging.Logger) *Bus {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Bus{
		logger: logger.WithFields(logging.String("component", "notify-bus")),
	}
}

// Register adds an observer. Re-registering the same observer is a no-op.
func (b *Bus) Register(obs Observer) {
	if obs == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, existing := range b.observers {
		if existing == obs {
			return
		}
	}
	b.observers = append(b.observers, obs)
	b.logger.Debug("Observer registered", logging.Int("observers", len(b.observers)))
}

// Unregister removes an observer. Removing an observer that is not
// registered is a no-op.
func (b *Bus) Unregister(obs Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, existing := range b.observers {
		if existing == obs {
			continue
		}
		b.observers[n] = existing
		n++
	}
	if n != len(b.observers) {
		b.observers = b.observers[:n]
		b.logger.Debug("Observer unregistered", logging.Int("observers", n))
	}
}

// Len returns the number of registered observers
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.observers)
}

// Publish delivers msg to every observer registered when the call began.
// Observers that want asynchronous handling offload the work themselves.
func (b *Bus) Publish(msg Message) {
	// Snapshot under the read lock; deliver outside it. The snapshot is
	// the linearization point: an observer that unregistered before this
	// line never sees the message.
	b.mu.RLock()
	snapshot := make([]Observer, len(b.observers))
	copy(snapshot, b.observers)
	b.mu.RUnlock()

	for _, obs := range snapshot {
		obs.Receive(msg)
	}
}
