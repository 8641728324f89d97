package registry

import (
	"sync"
)

// changeNotifier is a small in-process pub-sub used to signal that a
// capability listing changed, so list-changed notifications can be sent
// to connected clients.
type changeNotifier struct {
	mu          sync.RWMutex
	subscribers []chan struct{}
	closed      bool
}

// notify signals every subscriber. Sends are non-blocking: a subscriber
// that has not drained its previous signal does not need another one, and
// a slow subscriber must not block the registry.
func (cn *changeNotifier) notify() {
	cn.mu.RLock()
	defer cn.mu.RUnlock()

	if cn.closed {
		return
	}

	for _, ch := range cn.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// subscriber returns a channel receiving one signal per change batch. The
// channel has capacity 1; coalesced signals are intended.
func (cn *changeNotifier) subscriber() <-chan struct{} {
	cn.mu.Lock()
	defer cn.mu.Unlock()

	if cn.closed {
		ch := make(chan struct{})
		close(ch)
		return ch
	}

	ch := make(chan struct{}, 1)
	cn.subscribers = append(cn.subscribers, ch)
	return ch
}

// close closes every subscriber channel and drops the list
func (cn *changeNotifier) close() {
	cn.mu.Lock()
	if cn.closed {
		cn.mu.Unlock()
		return
	}
	cn.closed = true
	subs := cn.subscribers
	cn.subscribers = nil
	cn.mu.Unlock()

	for _, ch := range subs {
		close(ch)
	}
}
