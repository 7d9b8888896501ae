// Package sensor defines the wire types exchanged with perception clients.
// One DetectionEvent is a single frame's worth of detections for one client;
// the envelope Message wraps everything that travels over the websocket.
package sensor

import "time"

// Categorical motion states reported by the perception source for objects.
const (
	MotionApproaching = "approaching"
	MotionReceding    = "receding"
	MotionStatic      = "static"
	MotionCrossing    = "crossing"
)

// GestureNone is the sentinel the perception source sends when a person
// shows no recognizable gesture.
const GestureNone = "none"

// MicroSignal is a named, scored facial sub-indicator (a blendshape
// activation) used to refine expression classification. Scores are in [0,1].
type MicroSignal struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// PersonDetection is one detected person in one frame.
type PersonDetection struct {
	Position     string        `json:"position"`  // front, left, right, ...
	Proximity    string        `json:"proximity"` // categorical distance band
	Expression   string        `json:"expression"`
	Gesture      string        `json:"gesture"` // "none" when absent
	MicroSignals []MicroSignal `json:"microSignals,omitempty"`
}

// ObjectDetection is one detected object in one frame.
type ObjectDetection struct {
	Kind      string `json:"kind"` // source vocabulary, free-form
	Motion    string `json:"motion"`
	Direction string `json:"direction"`
	Proximity string `json:"proximity"`
}

// DetectionEvent is one raw sample from the perception source.
// ReceivedAt is stamped by the pipeline when the source omits a timestamp.
type DetectionEvent struct {
	ReceivedAt time.Time         `json:"-"`
	Timestamp  int64             `json:"timestamp,omitempty"` // Unix milliseconds, optional
	People     []PersonDetection `json:"people,omitempty"`
	Objects    []ObjectDetection `json:"objects,omitempty"`
}

// Stamp fills ReceivedAt from the wire timestamp, or from now when the
// source omitted it.
func (e *DetectionEvent) Stamp(now time.Time) {
	if e.Timestamp > 0 {
		e.ReceivedAt = time.UnixMilli(e.Timestamp)
		return
	}
	e.ReceivedAt = now
	e.Timestamp = now.UnixMilli()
}
