package memoryfile

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aicf-dev/aicf/internal/aicf"
)

// RenderAICF renders an AnalysisResult to the pipe-delimited AICF grammar
// of spec.md §3, plus two trailing supplemental lines the Session
// Consolidation Agent needs and spec.md §3 doesn't otherwise carry:
// aiModel (the session schema's AI_MODEL column, SPEC_FULL.md §4.7) and
// firstUserMessage (the raw text the session title is derived from,
// spec.md §4.7's "first meaningful line of the user intent"). Every
// reserved delimiter inside a value is escaped via escapeField before
// being written.
func RenderAICF(result aicf.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "version|%s\n", aicf.SpecVersion)
	fmt.Fprintf(&b, "timestamp|%s\n", result.Timestamp.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "conversationId|%s\n", escapeField(result.ConversationID))
	fmt.Fprintf(&b, "userIntents|%s\n", joinIntents(result.UserIntents))
	fmt.Fprintf(&b, "aiActions|%s\n", joinActions(result.AIActions))
	fmt.Fprintf(&b, "technicalWork|%s\n", joinTechnicalWork(result.TechnicalWork))
	fmt.Fprintf(&b, "decisions|%s\n", joinDecisions(result.Decisions))
	fmt.Fprintf(&b, "flow|%s\n", renderFlow(result.Flow))
	fmt.Fprintf(&b, "workingState|%s\n", renderWorkingState(result.WorkingState))
	fmt.Fprintf(&b, "aiModel|%s\n", result.Source)
	fmt.Fprintf(&b, "firstUserMessage|%s\n", escapeField(result.FirstUserMessage))

	return b.String()
}

func joinIntents(items []aicf.UserIntent) string {
	entries := make([]string, 0, len(items))
	for _, it := range items {
		entries = append(entries, strings.Join([]string{
			it.Timestamp.UTC().Format(time.RFC3339),
			escapeField(it.Intent),
			string(it.Confidence),
		}, fieldDelim))
	}
	return strings.Join(entries, multiValueDelim)
}

func joinActions(items []aicf.AIAction) string {
	entries := make([]string, 0, len(items))
	for _, it := range items {
		entries = append(entries, strings.Join([]string{
			it.Timestamp.UTC().Format(time.RFC3339),
			escapeField(it.Type),
			escapeField(it.Details),
		}, fieldDelim))
	}
	return strings.Join(entries, multiValueDelim)
}

func joinTechnicalWork(items []aicf.TechnicalWork) string {
	entries := make([]string, 0, len(items))
	for _, it := range items {
		entries = append(entries, strings.Join([]string{
			it.Timestamp.UTC().Format(time.RFC3339),
			escapeField(it.Type),
			escapeField(it.Description),
		}, fieldDelim))
	}
	return strings.Join(entries, multiValueDelim)
}

func joinDecisions(items []aicf.Decision) string {
	entries := make([]string, 0, len(items))
	for _, it := range items {
		entries = append(entries, strings.Join([]string{
			it.Timestamp.UTC().Format(time.RFC3339),
			escapeField(it.Decision),
			string(it.Impact),
		}, fieldDelim))
	}
	return strings.Join(entries, multiValueDelim)
}

func renderFlow(flow aicf.Flow) string {
	return strings.Join([]string{
		strconv.Itoa(flow.TurnCount),
		string(flow.DominantRole),
		strings.Join(flow.Sequence, ","),
	}, fieldDelim)
}

func renderWorkingState(state aicf.WorkingState) string {
	return strings.Join([]string{
		escapeField(state.CurrentTask),
		escapeField(strings.Join(state.Blockers, ",")),
		escapeField(state.NextAction),
	}, fieldDelim)
}
