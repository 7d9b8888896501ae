// Package summary folds a window of raw detection events into a deduplicated
// scene summary. Repeated detections of the "same" entity are clustered by a
// fingerprint over their categorical attributes, and noisy micro-signal
// scores are merged with a running mean.
package summary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/intelevision/go-intelevision/pkg/sensor"
)

// Micro-signals below this score are treated as noise and excluded from the
// person fingerprint.
const fingerprintScoreThreshold = 0.3

// maxFingerprintSignals bounds fingerprint cardinality: only the strongest
// few micro-signals participate in cluster identity.
const maxFingerprintSignals = 3

// PersonCluster is a group of person detections that share a fingerprint.
// MicroSignals holds the running-mean merge of every member's signals.
type PersonCluster struct {
	Position        string               `json:"position"`
	Proximity       string               `json:"proximity"`
	Expression      string               `json:"expression"`
	Gesture         string               `json:"gesture"`
	MicroSignals    []sensor.MicroSignal `json:"microSignals,omitempty"`
	OccurrenceCount int                  `json:"count"`
}

// ObjectCluster is a group of object detections that share a fingerprint.
// Kind carries the display vocabulary; OriginalKind keeps what the source sent.
type ObjectCluster struct {
	Kind            string `json:"kind"`
	OriginalKind    string `json:"originalKind"`
	Motion          string `json:"motion"`
	Direction       string `json:"direction"`
	Proximity       string `json:"proximity"`
	OccurrenceCount int    `json:"count"`
}

// SceneSummary is the deduplicated view of one aggregation window.
// Clusters are sorted by descending occurrence count; ties keep the order
// in which the cluster was first encountered.
type SceneSummary struct {
	People      []PersonCluster `json:"people"`
	Objects     []ObjectCluster `json:"objects"`
	SampleCount int             `json:"sampleCount"`
}

// IsEmpty reports whether the summary contains no clusters at all.
func (s *SceneSummary) IsEmpty() bool {
	return len(s.People) == 0 && len(s.Objects) == 0
}

// signalAccum tracks the running mean of one named micro-signal.
type signalAccum struct {
	score float64
	count int
}

// personAccum is a person cluster under construction.
type personAccum struct {
	cluster PersonCluster
	signals map[string]*signalAccum
	order   []string // signal names in first-seen order
}

// Summarize clusters every detection across events into a SceneSummary.
// The result is independent of the order in which equal detections arrive
// (fingerprinting is order-independent; see tests).
func Summarize(events []sensor.DetectionEvent) *SceneSummary {
	out := &SceneSummary{
		People:      []PersonCluster{},
		Objects:     []ObjectCluster{},
		SampleCount: len(events),
	}
	if len(events) == 0 {
		return out
	}

	people := make(map[string]*personAccum)
	var peopleOrder []string
	objects := make(map[string]*ObjectCluster)
	var objectOrder []string

	for _, ev := range events {
		for _, p := range ev.People {
			key := personFingerprint(p)
			acc, ok := people[key]
			if !ok {
				acc = newPersonAccum(p)
				people[key] = acc
				peopleOrder = append(peopleOrder, key)
				continue
			}
			acc.cluster.OccurrenceCount++
			acc.merge(p.MicroSignals)
		}

		for _, o := range ev.Objects {
			display := DisplayKind(o.Kind)
			key := display + "-" + o.Motion + "-" + o.Direction
			c, ok := objects[key]
			if !ok {
				objects[key] = &ObjectCluster{
					Kind:            display,
					OriginalKind:    o.Kind,
					Motion:          o.Motion,
					Direction:       o.Direction,
					Proximity:       o.Proximity,
					OccurrenceCount: 1,
				}
				objectOrder = append(objectOrder, key)
				continue
			}
			c.OccurrenceCount++
		}
	}

	for _, key := range peopleOrder {
		out.People = append(out.People, people[key].finish())
	}
	for _, key := range objectOrder {
		out.Objects = append(out.Objects, *objects[key])
	}

	// Descending count; SliceStable keeps encounter order for ties.
	sort.SliceStable(out.People, func(i, j int) bool {
		return out.People[i].OccurrenceCount > out.People[j].OccurrenceCount
	})
	sort.SliceStable(out.Objects, func(i, j int) bool {
		return out.Objects[i].OccurrenceCount > out.Objects[j].OccurrenceCount
	})

	return out
}

// personFingerprint derives the cluster identity of a person detection.
// Proximity is deliberately excluded: the same person drifting between
// distance bands still folds into one cluster.
func personFingerprint(p sensor.PersonDetection) string {
	return p.Position + "-" + p.Expression + "-" + p.Gesture + "-" + microSignalsKey(p.MicroSignals)
}

// microSignalsKey renders the up-to-3 strongest micro-signals above the
// noise threshold as "name:score%" pairs. Returns "none" when nothing
// qualifies, so silent faces share one fingerprint bucket.
func microSignalsKey(signals []sensor.MicroSignal) string {
	significant := make([]sensor.MicroSignal, 0, len(signals))
	for _, s := range signals {
		if s.Score > fingerprintScoreThreshold {
			significant = append(significant, s)
		}
	}
	if len(significant) == 0 {
		return "none"
	}

	sort.SliceStable(significant, func(i, j int) bool {
		return significant[i].Score > significant[j].Score
	})
	if len(significant) > maxFingerprintSignals {
		significant = significant[:maxFingerprintSignals]
	}

	parts := make([]string, len(significant))
	for i, s := range significant {
		parts[i] = fmt.Sprintf("%s:%d", s.Name, int(s.Score*100+0.5))
	}
	return strings.Join(parts, "|")
}

func newPersonAccum(p sensor.PersonDetection) *personAccum {
	acc := &personAccum{
		cluster: PersonCluster{
			Position:        p.Position,
			Proximity:       p.Proximity,
			Expression:      p.Expression,
			Gesture:         p.Gesture,
			OccurrenceCount: 1,
		},
		signals: make(map[string]*signalAccum),
	}
	for _, s := range p.MicroSignals {
		if _, ok := acc.signals[s.Name]; ok {
			continue
		}
		acc.signals[s.Name] = &signalAccum{score: s.Score, count: 1}
		acc.order = append(acc.order, s.Name)
	}
	return acc
}

// merge folds one more detection's micro-signals into the cluster using an
// incremental mean. Signals present in only one of the two sets carry
// through unchanged; a signal may appear and disappear between frames.
func (a *personAccum) merge(signals []sensor.MicroSignal) {
	for _, s := range signals {
		existing, ok := a.signals[s.Name]
		if !ok {
			a.signals[s.Name] = &signalAccum{score: s.Score, count: 1}
			a.order = append(a.order, s.Name)
			continue
		}
		existing.score = (existing.score*float64(existing.count) + s.Score) / float64(existing.count+1)
		existing.count++
	}
}

func (a *personAccum) finish() PersonCluster {
	c := a.cluster
	for _, name := range a.order {
		c.MicroSignals = append(c.MicroSignals, sensor.MicroSignal{
			Name:  name,
			Score: a.signals[name].score,
		})
	}
	return c
}
