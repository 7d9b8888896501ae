package pipeline

import "testing"

func TestNothingToReport(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty string", "", true},
		{"whitespace only", "   \n\t", true},
		{"empty quote token", `""`, true},
		{"empty quote token padded", `  ""  `, true},
		{"bracketed not relevant", "[NOT RELEVANT]", true},
		{"not relevant phrase", "This is Not Relevant right now", true},
		{"clear path", "Clear path ahead", true},
		{"all quiet", "all quiet", true},
		{"clear area", "The area looks clear, clear area", true},
		{"real description", "person approaching quickly", false},
		{"short real description", "car crossing left", false},
		{"quote inside text", `person saying ""hello""`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NothingToReport(tt.text); got != tt.want {
				t.Errorf("NothingToReport(%q): got %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestNothingToReport_Idempotent(t *testing.T) {
	// A text judged empty stays empty on repeat evaluation.
	for _, text := range []string{"", `""`, "all quiet"} {
		if !NothingToReport(text) || !NothingToReport(text) {
			t.Errorf("Expected %q to be consistently empty", text)
		}
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	m.IncEvents()
	m.IncEvents()
	m.IncSuppressed()
	m.IncEmpty()
	m.IncDescribed(false)
	m.IncDescribed(true)

	snap := m.Snapshot()
	if snap.EventsReceived != 2 {
		t.Errorf("EventsReceived: got %d, want 2", snap.EventsReceived)
	}
	if snap.Suppressed != 1 {
		t.Errorf("Suppressed: got %d, want 1", snap.Suppressed)
	}
	if snap.EmptyResults != 1 {
		t.Errorf("EmptyResults: got %d, want 1", snap.EmptyResults)
	}
	if snap.Described != 2 {
		t.Errorf("Described: got %d, want 2", snap.Described)
	}
	if snap.FallbacksServed != 1 {
		t.Errorf("FallbacksServed: got %d, want 1", snap.FallbacksServed)
	}
}
