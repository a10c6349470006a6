// Package bus is the in-context message channel that replaces ambient
// window-message listeners: one Bus models one page's shared channel,
// carrying host-to-iframe commands, iframe replies, and chat-panel
// events between co-resident components.
package bus

import (
	"sync"

	"github.com/Linnore/PyTeach/pkg/protocol"
)

// Handler receives every envelope of the subscribed type. Handlers
// filter by task themselves and must tolerate co-resident traffic they
// do not recognize.
type Handler func(protocol.Envelope)

type subscription struct {
	id      int
	handler Handler
}

// Bus dispatches envelopes to subscribers by envelope type. Dispatch is
// synchronous on the publisher's goroutine, mirroring the cooperative
// single-threaded delivery of the window-message channel; handlers that
// perform network I/O decide for themselves whether to spawn.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[protocol.Type][]subscription
}

func New() *Bus {
	return &Bus{subs: make(map[protocol.Type][]subscription)}
}

// Subscribe registers a handler for one envelope type and returns a
// cancel function. Handlers subscribed to other types never see the
// envelope.
func (b *Bus) Subscribe(t protocol.Type, h Handler) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[t] = append(b.subs[t], subscription{id: id, handler: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[t]
		for i, s := range subs {
			if s.id == id {
				b.subs[t] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the envelope to every handler subscribed to its
// type, in subscription order. Delivery is best effort and unordered
// with respect to other envelope types; there is no acknowledgment.
func (b *Bus) Publish(env protocol.Envelope) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs[env.Type]))
	copy(subs, b.subs[env.Type])
	b.mu.Unlock()

	// Handlers run outside the lock so they may publish replies.
	for _, s := range subs {
		s.handler(env)
	}
}
