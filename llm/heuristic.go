package llm

import (
	"regexp"
	"strings"
)

// ValidDurations are the duration buckets the coach works in, in minutes.
var ValidDurations = []int{5, 15, 30, 60, 120}

var (
	tagSeparators = regexp.MustCompile(`[_\s]+`)
	tagDisallowed = regexp.MustCompile(`[^a-z0-9-]`)
	tagHyphenRuns = regexp.MustCompile(`-+`)
)

// NormalizeTag converts a raw tag to lowercase hyphenated form:
// "Code Review" -> "code-review", "API_Design" -> "api-design".
func NormalizeTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	tag = tagSeparators.ReplaceAllString(tag, "-")
	tag = tagDisallowed.ReplaceAllString(tag, "")
	tag = tagHyphenRuns.ReplaceAllString(tag, "-")
	return strings.Trim(tag, "-")
}

// actionVerbs is the vagueness heuristic's allow-list: a title starting with
// one of these reads as a concrete next action and skips coaching.
var actionVerbs = map[string]bool{
	"add": true, "ask": true, "book": true, "build": true, "buy": true,
	"call": true, "cancel": true, "check": true, "clean": true, "create": true,
	"draft": true, "email": true, "file": true, "find": true, "finish": true,
	"fix": true, "install": true, "order": true, "pay": true, "plan": true,
	"print": true, "read": true, "renew": true, "reply": true, "research": true,
	"review": true, "schedule": true, "send": true, "set": true, "submit": true,
	"test": true, "update": true, "write": true,
}

// IsVagueTitle reports whether a title lacks a leading actionable verb.
func IsVagueTitle(title string) bool {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(title)))
	if len(fields) == 0 {
		return true
	}
	return !actionVerbs[fields[0]]
}

// EstimateDurationHeuristic buckets a title's effort by wordiness when the
// LLM estimate is unavailable. Short imperative titles read as quick tasks.
func EstimateDurationHeuristic(title string) int {
	words := len(strings.Fields(title))
	switch {
	case words <= 3:
		return 15
	case words <= 7:
		return 30
	default:
		return 60
	}
}

// SnapDuration rounds an arbitrary minute estimate to the nearest valid
// duration bucket.
func SnapDuration(minutes int) int {
	best := ValidDurations[0]
	for _, d := range ValidDurations {
		if abs(minutes-d) < abs(minutes-best) {
			best = d
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
