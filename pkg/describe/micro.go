package describe

import (
	"sort"

	"github.com/intelevision/go-intelevision/pkg/sensor"
)

// Micro-signals at or below this score do not participate in pattern
// matching. Higher than the fingerprint threshold: identity tolerates more
// noise than interpretation does.
const patternScoreThreshold = 0.4

// minPatternSignals is how many of a pattern's defining signals must be
// present before the pattern is accepted.
const minPatternSignals = 2

// microPattern names a facial pattern and the blendshape signals that
// define it.
type microPattern struct {
	name    string
	signals []string
	phrase  string
}

// microPatterns is evaluated in declaration order; the first pattern with
// the highest match count wins ties.
var microPatterns = []microPattern{
	{
		name:    "happiness",
		signals: []string{"mouthSmile_L", "mouthSmile_R", "cheekSquint_L", "cheekSquint_R"},
		phrase:  "smiling warmly",
	},
	{
		name:    "surprise",
		signals: []string{"browInnerUp", "browOuterUp_L", "browOuterUp_R", "eyeWide_L", "eyeWide_R"},
		phrase:  "wide-eyed astonished",
	},
	{
		name:    "sadness",
		signals: []string{"mouthFrown_L", "mouthFrown_R", "browDown_L", "browDown_R"},
		phrase:  "sad lowered brows",
	},
	{
		name:    "anger",
		signals: []string{"browDown_L", "browDown_R", "noseSneer_L", "noseSneer_R"},
		phrase:  "upset furrowed brows",
	},
	{
		name:    "concentration",
		signals: []string{"eyeSquint_L", "eyeSquint_R", "browDown_L", "browDown_R"},
		phrase:  "focused narrowed gaze",
	},
}

// signalPhrases describes a single strong signal when no pattern reaches
// the acceptance threshold.
var signalPhrases = map[string]string{
	"mouthSmile_L":  "slightly smiling",
	"mouthSmile_R":  "slightly smiling",
	"browInnerUp":   "brows raised",
	"browOuterUp_L": "left brow raised",
	"browOuterUp_R": "right brow raised",
	"eyeWide_L":     "left eye wide open",
	"eyeWide_R":     "right eye wide open",
	"mouthOpen":     "mouth open",
	"eyeBlink_L":    "blinking",
	"eyeBlink_R":    "blinking",
}

// MicroExpression interprets a cluster's merged micro-signals as a short
// phrase. It returns false when no signal is strong enough to say anything.
func MicroExpression(signals []sensor.MicroSignal) (string, bool) {
	significant := make([]sensor.MicroSignal, 0, len(signals))
	for _, s := range signals {
		if s.Score > patternScoreThreshold {
			significant = append(significant, s)
		}
	}
	if len(significant) == 0 {
		return "", false
	}

	sort.SliceStable(significant, func(i, j int) bool {
		return significant[i].Score > significant[j].Score
	})

	present := make(map[string]bool, len(significant))
	for _, s := range significant {
		present[s.Name] = true
	}

	best := -1
	bestCount := 0
	for i, pattern := range microPatterns {
		count := 0
		for _, name := range pattern.signals {
			if present[name] {
				count++
			}
		}
		if count > bestCount {
			bestCount = count
			best = i
		}
	}

	if best >= 0 && bestCount >= minPatternSignals {
		return microPatterns[best].phrase, true
	}

	// No clear pattern: describe the strongest individual signal if we
	// have a phrase for it.
	if phrase, ok := signalPhrases[significant[0].Name]; ok {
		return phrase, true
	}
	return "", false
}
