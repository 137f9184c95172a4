package memoryfile

import (
	"fmt"
	"strings"
	"time"

	"github.com/aicf-dev/aicf/internal/aicf"
)

// RenderMarkdown renders an AnalysisResult to the human-readable markdown
// companion file. Its exact form is non-normative (spec.md §6): an H1
// title plus one H2 section per AnalysisResult field.
func RenderMarkdown(result aicf.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Conversation Analysis\n\n")
	fmt.Fprintf(&b, "- Conversation: `%s`\n", result.ConversationID)
	fmt.Fprintf(&b, "- Source: %s\n", result.Source)
	fmt.Fprintf(&b, "- Timestamp: %s\n\n", result.Timestamp.UTC().Format(time.RFC3339))

	b.WriteString("## User Intents\n\n")
	if len(result.UserIntents) == 0 {
		b.WriteString("_none detected_\n\n")
	} else {
		for _, it := range result.UserIntents {
			fmt.Fprintf(&b, "- [%s] %s (%s)\n", it.Timestamp.UTC().Format(time.RFC3339), it.Intent, it.Confidence)
		}
		b.WriteString("\n")
	}

	b.WriteString("## AI Actions\n\n")
	if len(result.AIActions) == 0 {
		b.WriteString("_none detected_\n\n")
	} else {
		for _, a := range result.AIActions {
			fmt.Fprintf(&b, "- [%s] **%s**: %s\n", a.Timestamp.UTC().Format(time.RFC3339), a.Type, a.Details)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Technical Work\n\n")
	if len(result.TechnicalWork) == 0 {
		b.WriteString("_none detected_\n\n")
	} else {
		for _, w := range result.TechnicalWork {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", w.Timestamp.UTC().Format(time.RFC3339), w.Type, w.Description)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Decisions\n\n")
	if len(result.Decisions) == 0 {
		b.WriteString("_none detected_\n\n")
	} else {
		for _, d := range result.Decisions {
			fmt.Fprintf(&b, "- [%s] (%s) %s\n", d.Timestamp.UTC().Format(time.RFC3339), d.Impact, d.Decision)
			if d.Context != "" {
				fmt.Fprintf(&b, "  - context: %s\n", strings.ReplaceAll(d.Context, "\n", " "))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## Flow\n\n")
	fmt.Fprintf(&b, "- Turn count: %d\n", result.Flow.TurnCount)
	fmt.Fprintf(&b, "- Dominant role: %s\n", result.Flow.DominantRole)
	fmt.Fprintf(&b, "- Sequence: %s\n\n", strings.Join(result.Flow.Sequence, " → "))

	b.WriteString("## Working State\n\n")
	fmt.Fprintf(&b, "- Current task: %s\n", emptyToDash(result.WorkingState.CurrentTask))
	fmt.Fprintf(&b, "- Blockers: %s\n", emptyToDash(strings.Join(result.WorkingState.Blockers, ", ")))
	fmt.Fprintf(&b, "- Next action: %s\n", emptyToDash(result.WorkingState.NextAction))

	return b.String()
}

func emptyToDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
