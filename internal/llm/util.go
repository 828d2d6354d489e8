package llm

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	turnStart     = regexp.MustCompile(`<\|im_start\|>(?:\s*(?:assistant|system|user)\b)?`)
	controlTokens = regexp.MustCompile(`<\|im_end\|>|<\|endoftext\|>|<\|eot_id\|>|</?s>|\[/?INST\]`)
	leadingRole   = regexp.MustCompile(`(?i)^\s*assistant\s*(?::|\n)\s*`)
	modelScore    = regexp.MustCompile(`(?i)fit score(?:\s*\([^)\n]*\))?[^\d\n(]*(\d+)`)
)

// StripControlTokens removes chat-template markers that some models leak into their output.
// Ordinary uses of the word "assistant" in the narrative are kept.
func StripControlTokens(raw string) string {
	text := turnStart.ReplaceAllString(raw, "")
	text = controlTokens.ReplaceAllString(text, "")
	text = leadingRole.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ParseModelScore finds the first "Fit Score ... N" on a line of the narrative.
// A parenthesised range such as "(0-100)" after the label is skipped. Values above 100 are capped.
func ParseModelScore(text string) (int, bool) {
	m := modelScore.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return min(n, 100), true
}
