package describe

import (
	"github.com/intelevision/go-intelevision/pkg/sensor"
	"github.com/intelevision/go-intelevision/pkg/summary"
)

// expressionPhrases maps an expression label to a short person phrase.
var expressionPhrases = map[string]string{
	"happy":     "cheerful person",
	"sad":       "someone sad",
	"surprised": "astonished person",
	"angry":     "upset person",
	"neutral":   "calm person",
}

// Fallback is the local deterministic describer used when every remote
// describer fails or times out. It is a pure function of the summary,
// always returns plain short text, and never errors. An empty string means
// there is nothing to report.
func Fallback(sum *summary.SceneSummary) string {
	// People take priority, highest-occurrence cluster first.
	if len(sum.People) > 0 {
		p := sum.People[0]

		if phrase, ok := MicroExpression(p.MicroSignals); ok {
			return phrase + " " + p.Position
		}
		if p.Gesture != sensor.GestureNone {
			return gesturePhrase(p.Gesture, p.Expression) + " " + p.Position
		}
		return expressionPhrase(p.Expression) + " " + p.Position
	}

	// Moving objects next, phrased by urgency.
	for _, o := range sum.Objects {
		if o.Motion == sensor.MotionStatic {
			continue
		}
		return o.Kind + " " + urgencyPhrase(o.Motion, o.Kind) + " " + o.Direction
	}

	// A static object is still worth a terse mention.
	if len(sum.Objects) > 0 {
		o := sum.Objects[0]
		return o.Kind + " " + o.Direction
	}

	return ""
}

func expressionPhrase(expression string) string {
	if phrase, ok := expressionPhrases[expression]; ok {
		return phrase
	}
	return "person looking " + expression
}

// gesturePhrase combines a gesture with the expression it was made with.
func gesturePhrase(gesture, expression string) string {
	switch gesture {
	case "wave":
		if expression == "happy" {
			return "cheerful wave"
		}
		return "wave"
	case "hands_up":
		if expression == "happy" {
			return "celebrating"
		}
		return "asking for help"
	case "hand_raised":
		return "asking for attention"
	case "arm_extended":
		return "pointing a direction"
	case "arms_down":
		return "relaxed"
	case sensor.GestureNone:
		return expressionPhrase(expression)
	}
	return gesture
}

// urgencyPhrase grades how a moving object should be announced.
func urgencyPhrase(motion, kind string) string {
	if motion == sensor.MotionApproaching {
		return "approaching"
	}
	if motion == sensor.MotionCrossing {
		return "crossing"
	}
	if kind == "car" || kind == "bike" {
		return "passing"
	}
	return motion
}
