// Package window maintains the per-client sliding-window buffer of raw
// detection events. Every connected client owns an independent buffer
// bounded by both age and size; a client's buffer is consumed at most once
// per aggregation window.
package window

import (
	"sync"
	"time"

	"github.com/intelevision/go-intelevision/pkg/sensor"
)

// clientState holds one client's buffered events and trigger bookkeeping.
type clientState struct {
	events        []sensor.DetectionEvent
	lastProcessed time.Time
}

// Store is the thread-safe registry of per-client window buffers.
// All mutations on one client (append, prune, evict) happen under the
// store mutex, so the reaper cannot race a concurrent append.
type Store struct {
	mu      sync.RWMutex
	clients map[string]*clientState

	windowDuration time.Duration
	maxBufferSize  int
}

// NewStore creates a window store. windowDuration bounds entry age and
// maxBufferSize bounds entry count per client.
func NewStore(windowDuration time.Duration, maxBufferSize int) *Store {
	return &Store{
		clients:        make(map[string]*clientState),
		windowDuration: windowDuration,
		maxBufferSize:  maxBufferSize,
	}
}

// Record appends an event to the client's buffer, stamping ReceivedAt if
// the source omitted a timestamp, then prunes entries older than the
// window and trims to the maximum buffer size (oldest dropped first).
// Returns a copy of the resulting buffer.
func (s *Store) Record(clientID string, ev sensor.DetectionEvent) []sensor.DetectionEvent {
	now := time.Now()
	if ev.ReceivedAt.IsZero() {
		ev.Stamp(now)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[clientID]
	if !ok {
		c = &clientState{}
		s.clients[clientID] = c
	}

	c.events = append(c.events, ev)
	c.events = pruneByAge(c.events, now, s.windowDuration)
	if len(c.events) > s.maxBufferSize {
		c.events = c.events[len(c.events)-s.maxBufferSize:]
	}

	buf := make([]sensor.DetectionEvent, len(c.events))
	copy(buf, c.events)
	return buf
}

// ShouldTrigger reports whether a full window has elapsed since the
// client's last processing pass and the buffer is non-empty. Read-only;
// no state changes until Take is called.
func (s *Store) ShouldTrigger(clientID string, now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[clientID]
	if !ok || len(c.events) == 0 {
		return false
	}
	return now.Sub(c.lastProcessed) >= s.windowDuration
}

// Take marks the client as processed at now, clears its buffer, and
// returns the buffered events. Each event is summarized at most once:
// a second Take within the same window returns nothing.
func (s *Store) Take(clientID string, now time.Time) []sensor.DetectionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[clientID]
	if !ok {
		return nil
	}
	c.lastProcessed = now
	events := c.events
	c.events = nil
	return events
}

// Remove deletes the client's state outright (disconnect).
func (s *Store) Remove(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, clientID)
}

// ClientCount returns the number of currently tracked clients.
func (s *Store) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Reap prunes expired entries from every buffer and evicts clients whose
// buffers end up empty. Returns the number of evicted clients. Called
// periodically, independent of client activity.
func (s *Store) Reap(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, c := range s.clients {
		c.events = pruneByAge(c.events, now, s.windowDuration)
		if len(c.events) == 0 {
			delete(s.clients, id)
			evicted++
		}
	}
	return evicted
}

// pruneByAge drops events older than the window. The whole slice is
// scanned: sources stamp their own timestamps, so arrival order and
// event age need not agree.
func pruneByAge(events []sensor.DetectionEvent, now time.Time, window time.Duration) []sensor.DetectionEvent {
	kept := events[:0]
	for _, ev := range events {
		if now.Sub(ev.ReceivedAt) < window {
			kept = append(kept, ev)
		}
	}
	return kept
}
