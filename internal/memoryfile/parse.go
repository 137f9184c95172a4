package memoryfile

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aicf-dev/aicf/internal/aicf"
)

// ParseAICF reverses RenderAICF: it reconstructs an AnalysisResult from
// the on-disk pipe-delimited text of a recent/ file. The Session
// Consolidation Agent is the only consumer — by the time a conversation
// reaches session consolidation its cache chunk is long gone, so the
// AICF file itself is the only remaining source of truth.
func ParseAICF(text string) (aicf.AnalysisResult, error) {
	var result aicf.AnalysisResult

	fields := make(map[string]string)
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, fieldDelim)
		if !ok {
			continue
		}
		fields[key] = value
	}

	result.ConversationID = unescapeField(fields["conversationId"])
	result.Source = aicf.Source(fields["aiModel"])
	result.FirstUserMessage = unescapeField(fields["firstUserMessage"])

	ts, err := time.Parse(time.RFC3339, fields["timestamp"])
	if err != nil {
		return result, fmt.Errorf("parsing timestamp: %w", err)
	}
	result.Timestamp = ts

	result.UserIntents = parseIntents(fields["userIntents"])
	result.AIActions = parseActions(fields["aiActions"])
	result.TechnicalWork = parseTechnicalWork(fields["technicalWork"])
	result.Decisions = parseDecisions(fields["decisions"])
	result.Flow = parseFlow(fields["flow"])
	result.WorkingState = parseWorkingState(fields["workingState"])

	return result, nil
}

func splitEntries(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, multiValueDelim)
}

func parseIntents(value string) []aicf.UserIntent {
	var out []aicf.UserIntent
	for _, entry := range splitEntries(value) {
		parts := strings.SplitN(entry, fieldDelim, 3)
		if len(parts) != 3 {
			continue
		}
		ts, _ := time.Parse(time.RFC3339, parts[0])
		out = append(out, aicf.UserIntent{
			Timestamp:  ts,
			Intent:     unescapeField(parts[1]),
			Confidence: aicf.Confidence(parts[2]),
		})
	}
	return out
}

func parseActions(value string) []aicf.AIAction {
	var out []aicf.AIAction
	for _, entry := range splitEntries(value) {
		parts := strings.SplitN(entry, fieldDelim, 3)
		if len(parts) != 3 {
			continue
		}
		ts, _ := time.Parse(time.RFC3339, parts[0])
		out = append(out, aicf.AIAction{
			Timestamp: ts,
			Type:      unescapeField(parts[1]),
			Details:   unescapeField(parts[2]),
		})
	}
	return out
}

func parseTechnicalWork(value string) []aicf.TechnicalWork {
	var out []aicf.TechnicalWork
	for _, entry := range splitEntries(value) {
		parts := strings.SplitN(entry, fieldDelim, 3)
		if len(parts) != 3 {
			continue
		}
		ts, _ := time.Parse(time.RFC3339, parts[0])
		out = append(out, aicf.TechnicalWork{
			Timestamp:   ts,
			Type:        unescapeField(parts[1]),
			Description: unescapeField(parts[2]),
		})
	}
	return out
}

func parseDecisions(value string) []aicf.Decision {
	var out []aicf.Decision
	for _, entry := range splitEntries(value) {
		parts := strings.SplitN(entry, fieldDelim, 3)
		if len(parts) != 3 {
			continue
		}
		ts, _ := time.Parse(time.RFC3339, parts[0])
		out = append(out, aicf.Decision{
			Timestamp: ts,
			Decision:  unescapeField(parts[1]),
			Impact:    aicf.Impact(parts[2]),
		})
	}
	return out
}

func parseFlow(value string) aicf.Flow {
	parts := strings.SplitN(value, fieldDelim, 3)
	if len(parts) != 3 {
		return aicf.Flow{}
	}
	turns, _ := strconv.Atoi(parts[0])

	var sequence []string
	if parts[2] != "" {
		sequence = strings.Split(parts[2], ",")
	}

	return aicf.Flow{
		TurnCount:    turns,
		DominantRole: aicf.DominantRole(parts[1]),
		Sequence:     sequence,
	}
}

func parseWorkingState(value string) aicf.WorkingState {
	parts := strings.SplitN(value, fieldDelim, 3)
	if len(parts) != 3 {
		return aicf.WorkingState{}
	}

	var blockers []string
	if unescaped := unescapeField(parts[1]); unescaped != "" {
		blockers = strings.Split(unescaped, ",")
	}

	return aicf.WorkingState{
		CurrentTask: unescapeField(parts[0]),
		Blockers:    blockers,
		NextAction:  unescapeField(parts[2]),
	}
}
