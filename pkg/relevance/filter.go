// Package relevance decides whether a new scene summary differs enough from
// the last summary reported to a client to be worth describing again.
// It is a heuristic pre-filter: it suppresses describer calls for unchanged
// scenes and deliberately trades the occasional missed subtle change for
// call-volume reduction. The describer applies its own independent
// "nothing to report" judgment downstream.
package relevance

import (
	"github.com/intelevision/go-intelevision/pkg/sensor"
	"github.com/intelevision/go-intelevision/pkg/summary"
)

// IsRelevant reports whether sum should be described given what was last
// reported. last is nil when the client has never received a report.
func IsRelevant(sum *summary.SceneSummary, last *Snapshot) bool {
	// Nothing in the scene: nothing to say.
	if sum.IsEmpty() {
		return false
	}

	// First report for this client always goes through.
	if last == nil {
		return true
	}

	if len(sum.People) != len(last.People) {
		return true
	}

	for _, p := range sum.People {
		prev, ok := findPerson(last.People, p.Position)
		if !ok {
			return true
		}
		if p.Expression != prev.Expression ||
			p.Gesture != prev.Gesture ||
			p.Proximity != prev.Proximity {
			return true
		}
	}

	for _, o := range sum.Objects {
		prev, ok := findObject(last.Objects, o.Kind)
		if !ok {
			return true
		}
		// Approaching or crossing objects are urgent regardless of whether
		// anything changed since the last report.
		if o.Motion == sensor.MotionApproaching || o.Motion == sensor.MotionCrossing {
			return true
		}
		if o.Motion != prev.Motion || o.Direction != prev.Direction {
			return true
		}
	}

	return false
}

// findPerson matches a previously reported person cluster by position.
func findPerson(people []summary.PersonCluster, position string) (summary.PersonCluster, bool) {
	for _, p := range people {
		if p.Position == position {
			return p, true
		}
	}
	return summary.PersonCluster{}, false
}

// findObject matches a previously reported object cluster by display kind.
func findObject(objects []summary.ObjectCluster, kind string) (summary.ObjectCluster, bool) {
	for _, o := range objects {
		if o.Kind == kind {
			return o, true
		}
	}
	return summary.ObjectCluster{}, false
}
