package pipeline

import "strings"

// emptyQuoteToken is the literal reply describers are instructed to send
// for unremarkable scenes.
const emptyQuoteToken = `""`

// noChangePhrases are free-text markers a describer may produce when it
// independently judges the scene not worth reporting. Matched
// case-insensitively as substrings. This list deliberately overlaps with
// the relevance pre-filter without replacing it: the two checks guard
// different stages.
var noChangePhrases = []string{
	"[not relevant]",
	"not relevant",
	"clear path",
	"all quiet",
	"clear area",
}

// NothingToReport applies the emptiness policy to describer output: a
// blank reply, the literal empty-quote token, or any no-change phrase all
// mean the client should receive nothing. Idempotent: an already-empty
// result stays empty.
func NothingToReport(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed == emptyQuoteToken {
		return true
	}

	lower := strings.ToLower(trimmed)
	for _, phrase := range noChangePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
