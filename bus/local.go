package bus

import (
	"context"
	"sort"
	"sync"

	"github.com/safedep/dry/log"
)

// Local is an in-process Channel. Subscribers are invoked synchronously in
// registration order; handler errors are logged and swallowed so a broken
// listener can never fail the sender.
type Local struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
}

// NewLocal creates an empty in-process channel.
func NewLocal() *Local {
	return &Local{handlers: make(map[int]Handler)}
}

// Subscribe registers a handler and returns its unsubscribe function. The
// returned function is safe to call multiple times.
func (l *Local) Subscribe(h Handler) func() {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.handlers[id] = h
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.handlers, id)
			l.mu.Unlock()
		})
	}
}

// Send delivers msg to every subscriber and returns the first non-nil
// response. No subscribers means a nil response, not an error.
func (l *Local) Send(ctx context.Context, msg Message) (*Message, error) {
	l.mu.RLock()
	ids := make([]int, 0, len(l.handlers))
	for id := range l.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]Handler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, l.handlers[id])
	}
	l.mu.RUnlock()

	var response *Message
	for _, h := range handlers {
		resp, err := h(ctx, msg)
		if err != nil {
			log.Debugf("bus: handler failed for %s: %v", msg.Type, err)
			continue
		}
		if resp != nil && response == nil {
			response = resp
		}
	}
	return response, nil
}

var _ Channel = (*Local)(nil)
