package extraction

import (
	"regexp"
	"strings"

	"github.com/aicf-dev/aicf/internal/aicf"
)

// minIntentLength is the spec.md §4.3 cutoff below which a short
// acknowledgement ("ok", "yes") never carries an intent.
const minIntentLength = 15

// DefaultIntentPatterns classifies a user utterance by keyword family.
// Grounded on the teacher's DefaultPatterns() table shape (named, weighted
// regexes), generalized from "decision keywords" to "intent keywords".
func DefaultIntentPatterns() []Pattern {
	return []Pattern{
		{Name: "question", Regex: `(?i)^\s*(how do i|how can i|how to|what is|what's|why (is|does|do)|where (is|do)|can you|could you)\b`, Weight: 0.9},
		{Name: "request", Regex: `(?i)^\s*(please|could you please|i need you to|can you)\b`, Weight: 0.8},
		{Name: "imperative", Regex: `(?i)^\s*(add|fix|remove|create|update|implement|refactor|write|build|run|check|investigate|explain)\b`, Weight: 0.7},
		{Name: "clarification", Regex: `(?i)\b(what do you mean|i don't understand|can you clarify)\b`, Weight: 0.7},
	}
}

// acknowledgementPattern matches bare acknowledgements regardless of
// length, so "ok thanks" is excluded even past minIntentLength.
var acknowledgementPattern = regexp.MustCompile(`(?i)^\s*(ok|okay|yes|no|yep|yup|nope|sure|thanks|thank you|got it|cool|sounds good)\s*[.!]*\s*$`)

// IntentExtractor classifies each user utterance into (intent,
// confidence) per spec.md §4.3. Short acknowledgements emit no intent.
type IntentExtractor struct {
	patterns []*compiledPattern
}

// NewIntentExtractor builds an IntentExtractor from patterns, falling
// back to DefaultIntentPatterns when none are supplied.
func NewIntentExtractor(patterns []Pattern) *IntentExtractor {
	if len(patterns) == 0 {
		patterns = DefaultIntentPatterns()
	}
	return &IntentExtractor{patterns: compilePatterns(patterns)}
}

// Extract classifies every user message in messages.
func (e *IntentExtractor) Extract(messages []aicf.Message) []aicf.UserIntent {
	var intents []aicf.UserIntent

	for _, msg := range messages {
		if msg.Role != "user" {
			continue
		}
		text := strings.TrimSpace(msg.Text)
		if len(text) < minIntentLength || acknowledgementPattern.MatchString(text) {
			continue
		}

		match := bestMatch(e.patterns, text)
		if match == nil {
			continue
		}

		intents = append(intents, aicf.UserIntent{
			Timestamp:  msg.Timestamp,
			Intent:     match.Name,
			Confidence: confidenceFromWeight(match.Weight),
		})
	}

	return intents
}

// confidenceFromWeight buckets a pattern weight into the closed
// Confidence sum type; thresholds chosen so the "explicit decision"
// style patterns (weight ≥0.85) land HIGH and looser heuristics land
// MEDIUM/LOW, mirroring the teacher's own confidenceThreshold /
// llmRefineThreshold split.
func confidenceFromWeight(weight float64) aicf.Confidence {
	switch {
	case weight >= 0.85:
		return aicf.ConfidenceHigh
	case weight >= 0.6:
		return aicf.ConfidenceMedium
	default:
		return aicf.ConfidenceLow
	}
}
