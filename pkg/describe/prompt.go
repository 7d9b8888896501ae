package describe

import (
	"fmt"
	"strings"

	"github.com/intelevision/go-intelevision/pkg/sensor"
	"github.com/intelevision/go-intelevision/pkg/summary"
)

// emotionNotes expands an expression label for the prompt.
var emotionNotes = map[string]string{
	"happy":     "cheerful and positive",
	"sad":       "may need support",
	"surprised": "astonished",
	"angry":     "tense or upset",
	"neutral":   "calm",
}

// gestureNotes expands a gesture label for the prompt.
var gestureNotes = map[string]string{
	"wave":             "waving a greeting",
	"hands_up":         "both hands raised",
	"hand_raised":      "one hand raised, asking for attention",
	"arm_extended":     "pointing a direction",
	"arms_down":        "arms relaxed",
	sensor.GestureNone: "no gesture",
}

// BuildPrompt renders a scene summary as the structured request sent to a
// remote describer. The instruction block demands an exact empty-string
// reply for unremarkable scenes; the pipeline's emptiness policy depends
// on that contract.
func BuildPrompt(sum *summary.SceneSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze this sensor scene summary (%d samples):\n\n", sum.SampleCount)

	if len(sum.People) > 0 {
		b.WriteString("PEOPLE DETECTED:\n")
		for _, p := range sum.People {
			fmt.Fprintf(&b, "- %dx: %s (%s) - %s - %s",
				p.OccurrenceCount, p.Position, p.Proximity,
				noteOr(emotionNotes, p.Expression), noteOr(gestureNotes, p.Gesture))
			if signals := significantSignals(p.MicroSignals); signals != "" {
				fmt.Fprintf(&b, "\n  Micro-expressions: %s", signals)
			}
			b.WriteString("\n")
		}
	}

	if len(sum.Objects) > 0 {
		b.WriteString("OBJECTS DETECTED:\n")
		for _, o := range sum.Objects {
			fmt.Fprintf(&b, "- %dx: %s %s toward %s (%s)\n",
				o.OccurrenceCount, o.Kind, o.Motion, o.Direction, o.Proximity)
		}
	}

	if sum.IsEmpty() {
		return "No people or objects detected. Reply with exactly: \"\""
	}

	b.WriteString(`
INSTRUCTIONS:
- If the situation is routine, repetitive, or needs no special attention, reply with EXACTLY an empty message: ""
- If there are important changes, people interacting, vehicles in motion, or situations that require attention, give a useful description in at most 5 words
- Prioritize ONLY critical or novel information for a visually impaired person

WHEN TO SEND AN EMPTY MESSAGE (""):
- Person standing the same as before
- Same object in the same place
- Situation without significant changes
- Repetitive movement with no relevance
- Known static objects

WHEN TO DESCRIBE (at most 5 words):
- Person approaching or moving away
- Vehicle crossing or in motion
- New person detected
- Expression changed (happy to sad, etc.)
- New or significant gesture
- Object moving dangerously
- Important change of distance

FORMAT: If relevant, use at most 5 descriptive words. If not relevant, reply with exactly: ""`)

	return b.String()
}

func noteOr(notes map[string]string, label string) string {
	if note, ok := notes[label]; ok {
		return note
	}
	return label
}

// significantSignals renders micro-signals above the pattern threshold for
// the prompt, e.g. "mouthSmile_L (72%), cheekSquint_L (55%)".
func significantSignals(signals []sensor.MicroSignal) string {
	var parts []string
	for _, s := range signals {
		if s.Score > patternScoreThreshold {
			parts = append(parts, fmt.Sprintf("%s (%d%%)", s.Name, int(s.Score*100+0.5)))
		}
	}
	return strings.Join(parts, ", ")
}
