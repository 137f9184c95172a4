package memoryfile

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aicf-dev/aicf/internal/aicf"
)

func sampleResult() aicf.AnalysisResult {
	ts := time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC)
	return aicf.AnalysisResult{
		ConversationID:   "conv-1",
		Source:           aicf.SourceClaudeCLI,
		Timestamp:        ts,
		FirstUserMessage: "Can you help me pick a database for the cache layer?",
		UserIntents: []aicf.UserIntent{
			{Timestamp: ts, Intent: "question", Confidence: aicf.ConfidenceHigh},
		},
		AIActions: []aicf.AIAction{
			{Timestamp: ts, Type: "fixed", Details: "fixed the | pipe bug"},
		},
		TechnicalWork: []aicf.TechnicalWork{
			{Timestamp: ts, Type: "technology", Description: "golang"},
		},
		Decisions: []aicf.Decision{
			{Timestamp: ts, Decision: "We decided to use sqlite.", Impact: aicf.ImpactMedium, Context: "prior discussion"},
		},
		Flow: aicf.Flow{TurnCount: 2, DominantRole: aicf.RoleBalanced, Sequence: []string{"user", "ai"}},
		WorkingState: aicf.WorkingState{
			CurrentTask: "write memoryfile writer",
			Blockers:    []string{"none"},
			NextAction:  "write tests",
		},
	}
}

func TestRenderAICF_HasExpectedLines(t *testing.T) {
	text := RenderAICF(sampleResult())
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")

	assert.Equal(t, "version|3.0", lines[0])
	assert.Contains(t, lines[2], "conversationId|conv-1")
	assert.Contains(t, lines[3], "userIntents|")
	assert.Contains(t, lines[3], "question|high")
	assert.Contains(t, lines[4], "aiActions|")
	assert.Equal(t, "aiModel|claude-cli", lines[9])
	assert.Equal(t, "firstUserMessage|Can you help me pick a database for the cache layer?", lines[10])
}

func TestRenderAICF_EscapesReservedDelimiters(t *testing.T) {
	text := RenderAICF(sampleResult())
	assert.Contains(t, text, "fixed the ¦ pipe bug")
	assert.NotContains(t, text, "fixed the | pipe bug")
}

func TestRenderAICF_EmptyResult(t *testing.T) {
	text := RenderAICF(aicf.AnalysisResult{ConversationID: "empty"})
	assert.Contains(t, text, "conversationId|empty")
	assert.Contains(t, text, "userIntents|\n")
}
