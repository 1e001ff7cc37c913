package realtime

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const subscriberBuffer = 16

// Hub fans changes out to subscribers. Delivery never blocks the publisher:
// a subscriber whose buffer is full misses the change, which is harmless
// because a pending signal already forces a re-query.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscription
	nextID uint64
	closed bool
	log    zerolog.Logger
}

type subscription struct {
	filter Filter
	ch     chan Change
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		subs: make(map[uint64]*subscription),
		log:  log.With().Str("component", "realtime-hub").Logger(),
	}
}

// Subscribe returns a channel of matching changes and a cancel func. The
// channel is closed by cancel or by Close.
func (h *Hub) Subscribe(f Filter) (<-chan Change, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Change, subscriberBuffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = &subscription{filter: f, ch: ch}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if s, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(s.ch)
			}
		})
	}
}

func (h *Hub) Publish(c Change) {
	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, s := range h.subs {
		if !s.filter.Match(c) {
			continue
		}
		select {
		case s.ch <- c:
		default:
			h.log.Warn().
				Str("table", string(c.Table)).
				Str("id", c.ID).
				Msg("subscriber buffer full, change dropped")
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close ends every subscription. Later publishes are no-ops.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, s := range h.subs {
		close(s.ch)
		delete(h.subs, id)
	}
}
