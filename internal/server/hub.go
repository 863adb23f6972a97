package server

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/holdemtable/internal/game"
)

// subscriptionBuffer is how many snapshots a subscriber may fall behind
// before it is dropped.
const subscriptionBuffer = 32

// Subscription receives the snapshots of one game as seen by one viewer.
// C is closed when the game is discarded, the subscriber falls behind or
// Unsubscribe is called.
type Subscription struct {
	GameID string
	Viewer string
	C      <-chan game.Snapshot

	ch        chan game.Snapshot
	closeOnce sync.Once
}

func (s *Subscription) close() {
	s.closeOnce.Do(func() { close(s.ch) })
}

// offer queues snap without blocking and reports whether it fit
func (s *Subscription) offer(snap game.Snapshot) bool {
	select {
	case s.ch <- snap:
		return true
	default:
		return false
	}
}

// Hub fans table changes out to subscribers
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*Subscription]struct{}
	logger *log.Logger
}

// NewHub creates an empty hub
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		logger: logger.WithPrefix("hub"),
	}
}

// Subscribe registers a viewer for a game
func (h *Hub) Subscribe(gameID, viewer string) *Subscription {
	ch := make(chan game.Snapshot, subscriptionBuffer)
	sub := &Subscription{GameID: gameID, Viewer: viewer, C: ch, ch: ch}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[gameID] == nil {
		h.subs[gameID] = make(map[*Subscription]struct{})
	}
	h.subs[gameID][sub] = struct{}{}
	h.logger.Debug("Subscribed", "game", gameID, "viewer", viewer, "subscribers", len(h.subs[gameID]))
	return sub
}

// Unsubscribe removes a subscription and closes its channel
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	h.remove(sub)
	h.mu.Unlock()
}

// remove requires h.mu
func (h *Hub) remove(sub *Subscription) {
	if subs, ok := h.subs[sub.GameID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subs, sub.GameID)
		}
	}
	sub.close()
}

// Subscribers returns the number of subscriptions for a game
func (h *Hub) Subscribers(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[gameID])
}

// Publish sends every subscriber of the game its own view. state is called
// once per distinct viewer. Publish never blocks; subscribers that cannot
// keep up are dropped.
func (h *Hub) Publish(gameID string, state func(viewer string) game.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subs[gameID]
	if len(subs) == 0 {
		return
	}

	views := make(map[string]game.Snapshot)
	for sub := range subs {
		snap, ok := views[sub.Viewer]
		if !ok {
			snap = state(sub.Viewer)
			views[sub.Viewer] = snap
		}
		if !sub.offer(snap) {
			h.logger.Warn("Subscriber buffer full, dropping", "game", gameID, "viewer", sub.Viewer)
			h.remove(sub)
		}
	}
	h.logger.Debug("Published state", "game", gameID, "subscribers", len(subs), "views", len(views))
}

// CloseGame closes every subscription of a game
func (h *Hub) CloseGame(gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[gameID] {
		sub.close()
	}
	delete(h.subs, gameID)
}

// Close closes all subscriptions
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, subs := range h.subs {
		for sub := range subs {
			sub.close()
		}
		delete(h.subs, id)
	}
}
