package animate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/MrWong99/ishara/internal/observe"
)

const (
	defaultSubscriberBuffer = 16
	writeTimeout            = 5 * time.Second
)

// Event announces that a gesture should be performed.
type Event struct {
	GestureID string    `json:"gesture_id"`
	Language  string    `json:"language"`
	Source    string    `json:"source"`
	SessionID string    `json:"session_id"`
	Animation Animation `json:"animation"`
	Timestamp time.Time `json:"timestamp"`
}

// Subscription is a live registration with a [Hub]. C is closed when the
// subscription ends, either through Close, Hub.Close, or because the
// subscriber fell behind.
type Subscription struct {
	C <-chan Event

	hub    *Hub
	ch     chan Event
	reason string // set before ch is closed
}

// Close unregisters the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.hub.remove(s, "unsubscribed")
}

// Reason reports why C was closed. It is only meaningful after C is closed.
func (s *Subscription) Reason() string { return s.reason }

// HubOption is a functional option for configuring a [Hub].
type HubOption func(*Hub)

// WithSubscriberBuffer sets how many events may queue per subscriber before
// it is dropped. Default: 16.
func WithSubscriberBuffer(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// WithOriginPatterns sets the host patterns allowed to open websocket
// connections from browsers. See [websocket.AcceptOptions].
func WithOriginPatterns(patterns ...string) HubOption {
	return func(h *Hub) {
		h.originPatterns = patterns
	}
}

// WithMetrics tracks the subscriber count in m.AnimationSubscribers.
func WithMetrics(m *observe.Metrics) HubOption {
	return func(h *Hub) { h.metrics = m }
}

// Hub fans animation events out to subscribers. Publishing never blocks: a
// subscriber whose buffer is full is dropped. All methods are safe for
// concurrent use.
type Hub struct {
	buffer         int
	originPatterns []string
	metrics        *observe.Metrics

	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool
}

// NewHub returns an empty [Hub].
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		buffer: defaultSubscriberBuffer,
		subs:   make(map[*Subscription]struct{}),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Subscribe registers a new subscriber. After [Hub.Close] the returned
// subscription is already closed.
func (h *Hub) Subscribe() *Subscription {
	ch := make(chan Event, h.buffer)
	s := &Subscription{C: ch, hub: h, ch: ch}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		s.reason = "hub closed"
		close(ch)
		return s
	}
	h.subs[s] = struct{}{}
	if h.metrics != nil {
		h.metrics.AnimationSubscribers.Add(context.Background(), 1)
	}
	return s
}

// Publish delivers ev to every subscriber and returns how many received it.
// Subscribers that cannot keep up are dropped.
func (h *Hub) Publish(ev Event) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for s := range h.subs {
		select {
		case s.ch <- ev:
			delivered++
		default:
			slog.Warn("dropping slow animation subscriber", "gesture_id", ev.GestureID)
			h.removeLocked(s, "too slow")
		}
	}
	return delivered
}

// Subscribers returns the number of live subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close ends every subscription. Later subscriptions are closed immediately.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for s := range h.subs {
		h.removeLocked(s, "hub closed")
	}
}

func (h *Hub) remove(s *Subscription, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(s, reason)
}

// removeLocked must be called with h.mu held.
func (h *Hub) removeLocked(s *Subscription, reason string) {
	if _, ok := h.subs[s]; !ok {
		return
	}
	delete(h.subs, s)
	s.reason = reason
	close(s.ch)
	if h.metrics != nil {
		h.metrics.AnimationSubscribers.Add(context.Background(), -1)
	}
}

// ServeHTTP upgrades the request to a websocket and streams events to it as
// JSON text frames until the client disconnects or the subscription ends.
// Messages sent by the client are discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Debug("animation websocket accept failed", "error", err)
		return
	}

	sub := h.Subscribe()
	defer sub.Close()

	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case ev, ok := <-sub.C:
			if !ok {
				conn.Close(websocket.StatusGoingAway, sub.Reason())
				return
			}
			if err := writeEvent(ctx, conn, ev); err != nil {
				slog.Debug("animation websocket write failed", "error", err)
				conn.Close(websocket.StatusInternalError, "write failed")
				return
			}
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}
