// Package analysis composes the six internal/extraction extractors into
// one aicf.AnalysisResult per conversation (spec.md §4.4). Grounded on
// the teacher's internal/orchestrator composition pattern: one stage
// wires independently-testable components together, and no component
// holds a reference to any sibling.
package analysis

import (
	"strings"

	"github.com/aicf-dev/aicf/internal/aicf"
	"github.com/aicf-dev/aicf/internal/extraction"
)

// Orchestrator runs every extractor over a conversation's messages and
// composes the results into a single AnalysisResult, deduplicated.
type Orchestrator struct {
	intent    *extraction.IntentExtractor
	action    *extraction.ActionExtractor
	technical *extraction.TechnicalWorkExtractor
	decision  *extraction.DecisionExtractor
	flow      *extraction.FlowExtractor
	state     *extraction.StateExtractor
}

// New builds an Orchestrator wired to the default pattern tables for
// every extractor.
func New() *Orchestrator {
	return &Orchestrator{
		intent:    extraction.NewIntentExtractor(nil),
		action:    extraction.NewActionExtractor(nil),
		technical: extraction.NewTechnicalWorkExtractor(nil, nil),
		decision:  extraction.NewDecisionExtractor(nil, 0),
		flow:      extraction.NewFlowExtractor(),
		state:     extraction.NewStateExtractor(),
	}
}

// Analyze runs all six extractors over one conversation's messages and
// returns the composed, deduplicated AnalysisResult. source is carried
// through to AnalysisResult.Source untouched by any extractor.
func (o *Orchestrator) Analyze(conversationID string, source aicf.Source, messages []aicf.Message) aicf.AnalysisResult {
	result := aicf.AnalysisResult{
		ConversationID: conversationID,
		Source:         source,
		UserIntents:    o.intent.Extract(messages),
		AIActions:      o.action.Extract(messages),
		TechnicalWork:  o.technical.Extract(messages),
		Decisions:      o.decision.Extract(messages),
		Flow:           o.flow.Extract(messages),
		WorkingState:   o.state.Extract(messages),
	}

	if len(messages) > 0 {
		result.Timestamp = messages[0].Timestamp
	}
	result.FirstUserMessage = firstUserMessage(messages)

	dedupe(&result)
	return result
}

func firstUserMessage(messages []aicf.Message) string {
	for _, msg := range messages {
		if msg.Role == "user" {
			return strings.TrimSpace(msg.Text)
		}
	}
	return ""
}

// dedupe removes duplicate entries from every array field by
// case-sensitive string equality of the field's identifying content, per
// spec.md §4.4. Order of first occurrence is preserved.
func dedupe(result *aicf.AnalysisResult) {
	result.UserIntents = dedupeSlice(result.UserIntents, func(i aicf.UserIntent) string {
		return i.Intent
	})
	result.AIActions = dedupeSlice(result.AIActions, func(a aicf.AIAction) string {
		return a.Type + "\x00" + a.Details
	})
	result.TechnicalWork = dedupeSlice(result.TechnicalWork, func(w aicf.TechnicalWork) string {
		return w.Type + "\x00" + w.Description
	})
	result.Decisions = dedupeSlice(result.Decisions, func(d aicf.Decision) string {
		return d.Decision
	})
	result.WorkingState.Blockers = dedupeStrings(result.WorkingState.Blockers)
}

func dedupeSlice[T any](items []T, key func(T) string) []T {
	seen := make(map[string]bool, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, item)
	}
	return out
}

func dedupeStrings(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
