package extraction

import (
	"regexp"
	"strings"

	"github.com/aicf-dev/aicf/internal/aicf"
)

// decisionMaxChars is the spec.md §4.3 cap: the extracted decision is
// always one sentence, truncated to 200 characters, never the whole
// message.
const decisionMaxChars = 200

// DefaultDecisionPatterns carries forward the teacher's own
// DefaultPatterns() table verbatim in spirit (same keyword families:
// "let's use", "decided to", "choosing X over Y", rejection verbs,
// "remember this"), generalized to operate per-sentence instead of
// per-message.
func DefaultDecisionPatterns() []Pattern {
	return []Pattern{
		{Name: "lets_use", Regex: `(?i)let's (go with|use|choose|pick)`, Weight: 0.9},
		{Name: "decided_to", Regex: `(?i)\bdecided to\b`, Weight: 0.9},
		{Name: "will_use", Regex: `(?i)\b(will|we'll|i'll) (use|implement|go with)\b`, Weight: 0.8},
		{Name: "choosing_over", Regex: `(?i)choos(e|ing) .+ over`, Weight: 0.9},
		{Name: "prefer", Regex: `(?i)\bprefer\b`, Weight: 0.7},
		{Name: "avoid_because", Regex: `(?i)\b(avoid|don't (do|use))\b.*\bbecause\b`, Weight: 0.8},
		{Name: "remember_this", Regex: `(?i)\bremember (this|that)\b`, Weight: 1.0},
	}
}

// sentenceSplit splits text into rough sentences on ., !, ? boundaries.
// Good enough for bounding a decision to "the sentence itself" per
// spec.md §4.3 without reaching for a full NLP sentence tokenizer, which
// no repo in the retrieval pack carries.
var sentenceSplit = regexp.MustCompile(`(?:[.!?]+\s+|\n+)`)

var (
	architecturePattern = regexp.MustCompile(`(?i)\b(architecture|schema|backward compat|breaking change)\b`)
	behaviorPattern     = regexp.MustCompile(`(?i)\b(behavior|component|endpoint|api)\b`)
)

// DecisionExtractor finds decision sentences per spec.md §4.3: one
// sentence containing a decision keyword plus a qualifying context
// window, truncated to 200 characters, graded HIGH/MEDIUM/LOW by impact.
type DecisionExtractor struct {
	patterns      []*compiledPattern
	contextWindow int
}

// NewDecisionExtractor builds a DecisionExtractor from patterns, falling
// back to DefaultDecisionPatterns when none are supplied. contextWindow
// is the number of preceding messages folded into Context, mirroring the
// teacher's own ContextWindowMessages default of 3.
func NewDecisionExtractor(patterns []Pattern, contextWindow int) *DecisionExtractor {
	if len(patterns) == 0 {
		patterns = DefaultDecisionPatterns()
	}
	if contextWindow <= 0 {
		contextWindow = 3
	}
	return &DecisionExtractor{patterns: compilePatterns(patterns), contextWindow: contextWindow}
}

// Extract finds decision sentences across every assistant message.
func (e *DecisionExtractor) Extract(messages []aicf.Message) []aicf.Decision {
	var decisions []aicf.Decision

	for i, msg := range messages {
		if msg.Role != "assistant" {
			continue
		}

		for _, sentence := range sentenceSplit.Split(msg.Text, -1) {
			sentence = strings.TrimSpace(sentence)
			if sentence == "" {
				continue
			}
			if bestMatch(e.patterns, sentence) == nil {
				continue
			}

			decisions = append(decisions, aicf.Decision{
				Timestamp: msg.Timestamp,
				Decision:  truncateToRunes(sentence, decisionMaxChars),
				Impact:    gradeImpact(sentence),
				Context:   e.buildContext(messages, i),
			})
		}
	}

	return decisions
}

// gradeImpact grades a decision sentence per spec.md §4.3: HIGH if it
// mentions architecture/schema/backward-compatibility, MEDIUM if it
// changes a component's behavior, LOW otherwise.
func gradeImpact(sentence string) aicf.Impact {
	switch {
	case architecturePattern.MatchString(sentence):
		return aicf.ImpactHigh
	case behaviorPattern.MatchString(sentence):
		return aicf.ImpactMedium
	default:
		return aicf.ImpactLow
	}
}

func (e *DecisionExtractor) buildContext(messages []aicf.Message, idx int) string {
	start := idx - e.contextWindow
	if start < 0 {
		start = 0
	}

	var lines []string
	for i := start; i < idx; i++ {
		lines = append(lines, capitalizeFirst(messages[i].Role)+": "+truncateToRunes(messages[i].Text, 200))
	}
	return strings.Join(lines, "\n")
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
