package pipeline

import "sync"

// Counters is a point-in-time snapshot of pipeline activity.
type Counters struct {
	EventsReceived  int64 `json:"events_received"`
	Suppressed      int64 `json:"suppressed"`       // windows rejected by the relevance filter
	EmptyResults    int64 `json:"empty_results"`    // describer output judged "nothing to report"
	Described       int64 `json:"described"`        // results actually emitted
	FallbacksServed int64 `json:"fallbacks_served"` // emitted results that used the local generator
}

// Metrics tracks pipeline counters. Goroutine-safe; every client session
// increments through the same instance.
type Metrics struct {
	mu       sync.Mutex
	counters Counters
}

// NewMetrics creates a zeroed metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// IncEvents counts one received detection event.
func (m *Metrics) IncEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters.EventsReceived++
}

// IncSuppressed counts one window rejected by the relevance filter.
func (m *Metrics) IncSuppressed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters.Suppressed++
}

// IncEmpty counts one describer reply judged "nothing to report".
func (m *Metrics) IncEmpty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters.EmptyResults++
}

// IncDescribed counts one emitted result.
func (m *Metrics) IncDescribed(fallback bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters.Described++
	if fallback {
		m.counters.FallbacksServed++
	}
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() Counters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters
}
