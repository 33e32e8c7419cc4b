// Package notify fans state-change messages out to the listeners of a game.
package notify

import (
	"sync"
	"time"

	"game_dashboard/pkg/logger"

	"go.uber.org/zap"
)

const subscriberBuffer = 16

type Message struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

type Hub struct {
	mu     sync.RWMutex
	subs   map[int64]map[chan Message]struct{}
	now    func() time.Time
	closed bool
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[int64]map[chan Message]struct{}),
		now:  time.Now,
	}
}

// Subscribe registers a listener for gameID. The returned cancel func
// unregisters it and closes the channel.
func (h *Hub) Subscribe(gameID int64) (<-chan Message, func()) {
	ch := make(chan Message, subscriberBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	if h.subs[gameID] == nil {
		h.subs[gameID] = make(map[chan Message]struct{})
	}
	h.subs[gameID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[gameID][ch]; !ok {
				return
			}
			delete(h.subs[gameID], ch)
			if len(h.subs[gameID]) == 0 {
				delete(h.subs, gameID)
			}
			close(ch)
		})
	}
}

// Notify delivers a change message without blocking; slow listeners miss it.
func (h *Hub) Notify(gameID int64, kind string) {
	msg := Message{
		Type: "changed",
		Payload: map[string]any{
			"game_id": gameID,
			"kind":    kind,
			"at":      h.now().UTC().Format(time.RFC3339),
		},
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[gameID] {
		select {
		case ch <- msg:
		default:
			logger.Logger().Debug("dropped notification for slow listener",
				zap.Int64("game_id", gameID),
				zap.String("kind", kind))
		}
	}
}

func (h *Hub) Subscribers(gameID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[gameID])
}

// Close disconnects every listener.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for gameID, chans := range h.subs {
		for ch := range chans {
			close(ch)
		}
		delete(h.subs, gameID)
	}
	h.closed = true
}
