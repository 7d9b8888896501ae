package summary

import (
	"math"
	"testing"

	"github.com/intelevision/go-intelevision/pkg/sensor"
)

const floatTolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func person(position, expression, gesture string, signals ...sensor.MicroSignal) sensor.PersonDetection {
	return sensor.PersonDetection{
		Position:     position,
		Proximity:    "near",
		Expression:   expression,
		Gesture:      gesture,
		MicroSignals: signals,
	}
}

func TestSummarize_Empty(t *testing.T) {
	sum := Summarize(nil)

	if sum.SampleCount != 0 {
		t.Errorf("SampleCount: got %d, want 0", sum.SampleCount)
	}
	if len(sum.People) != 0 || len(sum.Objects) != 0 {
		t.Errorf("Expected empty summary, got %d people, %d objects", len(sum.People), len(sum.Objects))
	}
	if !sum.IsEmpty() {
		t.Error("Expected IsEmpty to be true")
	}
}

func TestSummarize_ClustersRepeatedPeople(t *testing.T) {
	events := []sensor.DetectionEvent{
		{People: []sensor.PersonDetection{person("front", "neutral", "none")}},
		{People: []sensor.PersonDetection{person("front", "neutral", "none")}},
		{People: []sensor.PersonDetection{person("left", "happy", "wave")}},
	}

	sum := Summarize(events)

	if sum.SampleCount != 3 {
		t.Errorf("SampleCount: got %d, want 3", sum.SampleCount)
	}
	if len(sum.People) != 2 {
		t.Fatalf("Expected 2 person clusters, got %d", len(sum.People))
	}

	// Sorted by descending count
	if sum.People[0].OccurrenceCount != 2 {
		t.Errorf("Top cluster count: got %d, want 2", sum.People[0].OccurrenceCount)
	}
	if sum.People[0].Position != "front" {
		t.Errorf("Top cluster position: got %s, want front", sum.People[0].Position)
	}
	if sum.People[1].OccurrenceCount != 1 {
		t.Errorf("Second cluster count: got %d, want 1", sum.People[1].OccurrenceCount)
	}
}

func TestSummarize_OrderIndependent(t *testing.T) {
	a := person("front", "happy", "none", sensor.MicroSignal{Name: "mouthSmile_L", Score: 0.8})
	b := person("left", "sad", "none")
	c := person("right", "neutral", "wave")

	forward := Summarize([]sensor.DetectionEvent{
		{People: []sensor.PersonDetection{a, b}},
		{People: []sensor.PersonDetection{c, a}},
	})
	reversed := Summarize([]sensor.DetectionEvent{
		{People: []sensor.PersonDetection{a, c}},
		{People: []sensor.PersonDetection{b, a}},
	})

	if len(forward.People) != len(reversed.People) {
		t.Fatalf("Cluster counts differ: %d vs %d", len(forward.People), len(reversed.People))
	}

	counts := func(s *SceneSummary) map[string]int {
		m := make(map[string]int)
		for _, p := range s.People {
			m[p.Position+"/"+p.Expression+"/"+p.Gesture] = p.OccurrenceCount
		}
		return m
	}
	fc, rc := counts(forward), counts(reversed)
	for key, n := range fc {
		if rc[key] != n {
			t.Errorf("Cluster %s: got %d in reversed, want %d", key, rc[key], n)
		}
	}
}

func TestSummarize_MicroSignalRunningMean(t *testing.T) {
	// The weak eyeBlink_L signal stays below the fingerprint threshold, so
	// all three detections land in one cluster and its score is averaged.
	events := []sensor.DetectionEvent{
		{People: []sensor.PersonDetection{person("front", "happy", "none",
			sensor.MicroSignal{Name: "mouthSmile_L", Score: 0.8},
			sensor.MicroSignal{Name: "eyeBlink_L", Score: 0.1},
		)}},
		{People: []sensor.PersonDetection{person("front", "happy", "none",
			sensor.MicroSignal{Name: "mouthSmile_L", Score: 0.8},
			sensor.MicroSignal{Name: "eyeBlink_L", Score: 0.2},
		)}},
		{People: []sensor.PersonDetection{person("front", "happy", "none",
			sensor.MicroSignal{Name: "mouthSmile_L", Score: 0.8},
			sensor.MicroSignal{Name: "eyeBlink_L", Score: 0.3},
		)}},
	}

	sum := Summarize(events)
	if len(sum.People) != 1 {
		t.Fatalf("Expected 1 cluster, got %d", len(sum.People))
	}
	cluster := sum.People[0]
	if cluster.OccurrenceCount != 3 {
		t.Errorf("OccurrenceCount: got %d, want 3", cluster.OccurrenceCount)
	}

	var blink float64
	found := false
	for _, s := range cluster.MicroSignals {
		if s.Name == "eyeBlink_L" {
			blink = s.Score
			found = true
		}
	}
	if !found {
		t.Fatal("eyeBlink_L missing from merged signals")
	}
	// Running mean: ((0.1*1+0.2)/2 = 0.15; (0.15*2+0.3)/3 = 0.2)
	if !floatEquals(blink, 0.2) {
		t.Errorf("Merged eyeBlink_L: got %v, want 0.2", blink)
	}
}

func TestSummarize_MergeCarriesUnsharedSignals(t *testing.T) {
	events := []sensor.DetectionEvent{
		{People: []sensor.PersonDetection{person("front", "neutral", "none",
			sensor.MicroSignal{Name: "jawOpen", Score: 0.25},
		)}},
		{People: []sensor.PersonDetection{person("front", "neutral", "none",
			sensor.MicroSignal{Name: "eyeBlink_R", Score: 0.15},
		)}},
	}

	sum := Summarize(events)
	if len(sum.People) != 1 {
		t.Fatalf("Expected 1 cluster, got %d", len(sum.People))
	}

	got := make(map[string]float64)
	for _, s := range sum.People[0].MicroSignals {
		got[s.Name] = s.Score
	}
	if !floatEquals(got["jawOpen"], 0.25) {
		t.Errorf("jawOpen: got %v, want 0.25 (carried through unchanged)", got["jawOpen"])
	}
	if !floatEquals(got["eyeBlink_R"], 0.15) {
		t.Errorf("eyeBlink_R: got %v, want 0.15 (carried through unchanged)", got["eyeBlink_R"])
	}
}

func TestMicroSignalsKey(t *testing.T) {
	tests := []struct {
		name    string
		signals []sensor.MicroSignal
		want    string
	}{
		{
			name: "no signals",
			want: "none",
		},
		{
			name: "all below threshold",
			signals: []sensor.MicroSignal{
				{Name: "eyeBlink_L", Score: 0.3},
				{Name: "eyeBlink_R", Score: 0.1},
			},
			want: "none",
		},
		{
			name: "sorted descending and capped at three",
			signals: []sensor.MicroSignal{
				{Name: "browDown_L", Score: 0.4},
				{Name: "mouthSmile_L", Score: 0.9},
				{Name: "mouthSmile_R", Score: 0.7},
				{Name: "cheekSquint_L", Score: 0.5},
			},
			want: "mouthSmile_L:90|mouthSmile_R:70|cheekSquint_L:50",
		},
		{
			name: "score rounding",
			signals: []sensor.MicroSignal{
				{Name: "browInnerUp", Score: 0.666},
			},
			want: "browInnerUp:67",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := microSignalsKey(tt.signals); got != tt.want {
				t.Errorf("microSignalsKey: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummarize_ObjectTranslationAndClustering(t *testing.T) {
	events := []sensor.DetectionEvent{
		{Objects: []sensor.ObjectDetection{
			{Kind: "motorbike", Motion: "approaching", Direction: "front", Proximity: "near"},
			{Kind: "unicorn", Motion: "static", Direction: "left", Proximity: "far"},
		}},
		{Objects: []sensor.ObjectDetection{
			{Kind: "motorbike", Motion: "approaching", Direction: "front", Proximity: "near"},
		}},
	}

	sum := Summarize(events)
	if len(sum.Objects) != 2 {
		t.Fatalf("Expected 2 object clusters, got %d", len(sum.Objects))
	}

	top := sum.Objects[0]
	if top.Kind != "motorcycle" {
		t.Errorf("Translated kind: got %q, want motorcycle", top.Kind)
	}
	if top.OriginalKind != "motorbike" {
		t.Errorf("OriginalKind: got %q, want motorbike", top.OriginalKind)
	}
	if top.OccurrenceCount != 2 {
		t.Errorf("Top object count: got %d, want 2", top.OccurrenceCount)
	}

	// Unknown kinds pass through unchanged
	if sum.Objects[1].Kind != "unicorn" {
		t.Errorf("Unknown kind: got %q, want unicorn", sum.Objects[1].Kind)
	}
}

func TestSummarize_StableTieBreak(t *testing.T) {
	events := []sensor.DetectionEvent{
		{Objects: []sensor.ObjectDetection{
			{Kind: "chair", Motion: "static", Direction: "left"},
			{Kind: "cup", Motion: "static", Direction: "right"},
		}},
	}

	sum := Summarize(events)
	if len(sum.Objects) != 2 {
		t.Fatalf("Expected 2 clusters, got %d", len(sum.Objects))
	}
	// Equal counts keep encounter order
	if sum.Objects[0].Kind != "chair" || sum.Objects[1].Kind != "cup" {
		t.Errorf("Tie-break order: got [%s %s], want [chair cup]", sum.Objects[0].Kind, sum.Objects[1].Kind)
	}
}

func TestDisplayKind(t *testing.T) {
	if got := DisplayKind("cell phone"); got != "phone" {
		t.Errorf("DisplayKind(cell phone): got %q, want phone", got)
	}
	if got := DisplayKind("escalator"); got != "escalator" {
		t.Errorf("DisplayKind(escalator): got %q, want passthrough", got)
	}
}
