package relevance

import (
	"sync"
	"time"

	"github.com/intelevision/go-intelevision/pkg/summary"
)

// Snapshot is the last summary actually reported to a client, kept only
// for change comparison.
type Snapshot struct {
	People  []summary.PersonCluster
	Objects []summary.ObjectCluster
	At      time.Time
}

// Store keeps one Snapshot per client, evicted after an inactivity
// timeout or on disconnect.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*Snapshot
	ttl     time.Duration
}

// NewStore creates a snapshot store with the given inactivity timeout.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]*Snapshot),
		ttl:     ttl,
	}
}

// Get returns the client's last-reported snapshot, or nil if none exists.
func (s *Store) Get(clientID string) *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[clientID]
}

// Put overwrites the client's snapshot with the people/objects of the
// summary that was just reported.
func (s *Store) Put(clientID string, sum *summary.SceneSummary, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[clientID] = &Snapshot{
		People:  sum.People,
		Objects: sum.Objects,
		At:      at,
	}
}

// Remove deletes the client's snapshot (disconnect).
func (s *Store) Remove(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, clientID)
}

// Reap evicts snapshots older than the inactivity timeout and returns the
// number removed.
func (s *Store) Reap(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, snap := range s.entries {
		if now.Sub(snap.At) > s.ttl {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}

// Size returns the number of stored snapshots.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
