package session

import (
	"regexp"
	"strings"
	"time"

	"github.com/aicf-dev/aicf/internal/aicf"
)

// maxDecisions and maxActions bound how many items from the analysis
// survive into a session row, per spec.md §4.7's "first few items".
const (
	maxDecisions = 5
	maxActions   = 5
)

// summaryMarkers are the keywords spec.md §4.7 names for locating a
// summary sentence inside the analysis text.
var summaryMarkers = []string{"tldr", "in short", "result", "completed", "implemented"}

// completionMarkers classify an action as past-tense-complete, deciding
// a session's overall status.
var completionPattern = regexp.MustCompile(`(?i)\b(fixed|implemented|completed|resolved|finished|done|shipped|merged|deployed)\b`)

var sentenceSplitPattern = regexp.MustCompile(`[.!?]+\s+|\n+`)

// Essentials is the derived, condensed view of one conversation written
// into a session file's @DATA row (spec.md §4.7 step 3).
type Essentials struct {
	ConversationID string
	Timestamp      time.Time
	Title          string
	Summary        string
	AIModel        aicf.Source
	Decisions      []string
	Actions        []string
	Status         string
}

// deriveEssentials condenses one conversation's AnalysisResult into its
// session-row essentials.
func deriveEssentials(result aicf.AnalysisResult) Essentials {
	decisions := make([]string, 0, maxDecisions)
	for _, d := range result.Decisions {
		if len(decisions) >= maxDecisions {
			break
		}
		decisions = append(decisions, d.Decision)
	}

	actions := make([]string, 0, maxActions)
	for _, a := range result.AIActions {
		if len(actions) >= maxActions {
			break
		}
		actions = append(actions, a.Details)
	}

	return Essentials{
		ConversationID: result.ConversationID,
		Timestamp:      result.Timestamp,
		Title:          deriveTitle(result.FirstUserMessage),
		Summary:        deriveSummary(result),
		AIModel:        result.Source,
		Decisions:      decisions,
		Actions:        actions,
		Status:         deriveStatus(result),
	}
}

// deriveSummary returns the first sentence across decisions, actions,
// and technical work that contains one of summaryMarkers, else "".
func deriveSummary(result aicf.AnalysisResult) string {
	var candidates []string
	for _, d := range result.Decisions {
		candidates = append(candidates, d.Decision)
	}
	for _, a := range result.AIActions {
		candidates = append(candidates, a.Details)
	}
	for _, w := range result.TechnicalWork {
		candidates = append(candidates, w.Description)
	}

	for _, text := range candidates {
		for _, sentence := range sentenceSplitPattern.Split(text, -1) {
			lower := strings.ToLower(sentence)
			for _, marker := range summaryMarkers {
				if strings.Contains(lower, marker) {
					return strings.TrimSpace(sentence)
				}
			}
		}
	}
	return ""
}

// deriveStatus reports COMPLETED if any action phrase matches a
// past-tense completion marker, else ONGOING.
func deriveStatus(result aicf.AnalysisResult) string {
	for _, a := range result.AIActions {
		if completionPattern.MatchString(a.Type) || completionPattern.MatchString(a.Details) {
			return "COMPLETED"
		}
	}
	return "ONGOING"
}
