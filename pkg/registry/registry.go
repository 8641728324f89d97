// Package registry holds the live set of capabilities per kind. It
// supports batched add and remove with all-or-nothing visibility,
// enforces name uniqueness by replacing on conflict, and emits one
// list-changed event per affected kind per batch.
package registry

import (
	"sync"

	"github.com/mcpkit/mcp-registry-go/pkg/capability"
	"github.com/mcpkit/mcp-registry-go/pkg/logging"
	"github.com/mcpkit/mcp-registry-go/pkg/schema"
)

// Entry pairs a registered descriptor with its derived input schema. The
// schema is built once on add and cached; both are immutable after
// publication and freely shareable without locking.
type Entry struct {
	Descriptor capability.Descriptor
	Schema     schema.Schema
}

// Registry is the live capability table. All methods are safe for
// concurrent use; mutation batches are applied under one write lock so a
// concurrent reader sees either none or all of a batch.
type Registry struct {
	mu      sync.RWMutex
	entries map[capability.Kind]map[string]*Entry

	notifiers map[capability.Kind]*changeNotifier

	logger logging.Logger
}

// New creates an empty registry
func New(logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	entries := make(map[capability.Kind]map[string]*Entry)
	notifiers := make(map[capability.Kind]*changeNotifier)
	for _, kind := range capability.Kinds() {
		entries[kind] = make(map[string]*Entry)
		notifiers[kind] = &changeNotifier{}
	}

	return &Registry{
		entries:   entries,
		notifiers: notifiers,
		logger:    logger.WithFields(logging.String("component", "registry")),
	}
}

// Add registers a batch of descriptors, building and caching each one's
// schema. A descriptor whose (kind, name) already exists replaces the
// previous registration; re-registration is idempotent, not an error.
// Exactly one change event fires per affected kind once the whole batch
// is applied.
func (r *Registry) Add(descriptors ...capability.Descriptor) {
	if len(descriptors) == 0 {
		return
	}

	affected := make(map[capability.Kind]bool)

	r.mu.Lock()
	for _, d := range descriptors {
		table, ok := r.entries[d.Kind]
		if !ok {
			// Unknown kinds are rejected at descriptor construction;
			// skip defensively rather than grow an unkeyed table.
			r.logger.Warn("Dropping descriptor of unknown kind",
				logging.String("kind", d.Kind.String()),
				logging.String("name", d.Name))
			continue
		}

		if _, exists := table[d.Name]; exists {
			r.logger.Debug("Replacing capability",
				logging.String("kind", d.Kind.String()),
				logging.String("name", d.Name))
		}

		table[d.Name] = &Entry{
			Descriptor: d,
			Schema:     schema.Build(d.Params),
		}
		affected[d.Kind] = true
	}
	r.mu.Unlock()

	for kind := range affected {
		r.notifiers[kind].notify()
	}

	r.logger.Info("Capabilities registered", logging.Int("count", len(descriptors)))
}

// Remove deletes a batch of descriptors by (kind, name). Removing a name
// that is not present is a no-op. One change event fires per kind that
// actually lost an entry.
func (r *Registry) Remove(descriptors ...capability.Descriptor) {
	if len(descriptors) == 0 {
		return
	}

	affected := make(map[capability.Kind]bool)

	r.mu.Lock()
	for _, d := range descriptors {
		table, ok := r.entries[d.Kind]
		if !ok {
			continue
		}
		if _, exists := table[d.Name]; exists {
			delete(table, d.Name)
			affected[d.Kind] = true
		}
	}
	r.mu.Unlock()

	for kind := range affected {
		r.notifiers[kind].notify()
	}
}

// Lookup returns the entry for (kind, name). The second return reports
// whether the capability is registered.
func (r *Registry) Lookup(kind capability.Kind, name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	table, ok := r.entries[kind]
	if !ok {
		return nil, false
	}
	entry, ok := table[name]
	return entry, ok
}

// Snapshot returns a copy of the current entries of one kind, for
// capability listings. Order is unspecified.
func (r *Registry) Snapshot(kind capability.Kind) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	table := r.entries[kind]
	out := make([]Entry, 0, len(table))
	for _, entry := range table {
		out = append(out, *entry)
	}
	return out
}

// Len returns the number of registered capabilities of one kind
func (r *Registry) Len(kind capability.Kind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries[kind])
}

// Changes returns a channel receiving one signal per mutation batch that
// affected the given kind. Signals are coalesced; consumers re-list on
// receipt.
func (r *Registry) Changes(kind capability.Kind) <-chan struct{} {
	notifier, ok := r.notifiers[kind]
	if !ok {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return notifier.subscriber()
}

// Close shuts down the change streams. The capability tables stay
// readable so in-flight dispatches can finish.
func (r *Registry) Close() {
	for _, notifier := range r.notifiers {
		notifier.close()
	}
}
