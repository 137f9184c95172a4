package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aicf-dev/aicf/internal/aicf"
	"github.com/aicf-dev/aicf/internal/memoryfile"
)

func writeRecent(t *testing.T, root string, result aicf.AnalysisResult) {
	t.Helper()
	w := memoryfile.New(root, nil)
	_, _, err := w.Write(result)
	require.NoError(t, err)
}

func TestAgent_Run_GroupsByDayAndWritesSessionFile(t *testing.T) {
	root := t.TempDir()
	day := time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC)

	writeRecent(t, root, aicf.AnalysisResult{
		ConversationID:   "conv-1",
		Source:           aicf.SourceClaudeCLI,
		Timestamp:        day,
		FirstUserMessage: "Please help me choose a caching strategy for the pipeline",
		Decisions: []aicf.Decision{
			{Timestamp: day, Decision: "We implemented an LRU cache for chunk lookups.", Impact: aicf.ImpactMedium},
		},
		AIActions: []aicf.AIAction{
			{Timestamp: day, Type: "implemented", Details: "Implemented the LRU cache."},
		},
	})
	writeRecent(t, root, aicf.AnalysisResult{
		ConversationID:   "conv-2",
		Source:           aicf.SourceAugment,
		Timestamp:        day.Add(2 * time.Hour),
		FirstUserMessage: "Can you investigate the flaky reader test please",
	})

	agent := NewAgent(root)
	result, err := agent.Run()
	require.NoError(t, err)

	assert.Equal(t, 1, result.DaysWritten)
	assert.Equal(t, 2, result.ConversationsTotal)
	assert.Equal(t, 2, result.ConversationsAbsorbed)
	assert.Equal(t, 0, result.Duplicates)

	sessionPath := filepath.Join(root, ".aicf", "sessions", "2026-07-30-session.aicf")
	data, err := os.ReadFile(sessionPath)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "@CONVERSATIONS")
	assert.Contains(t, text, "C#|TIMESTAMP|TITLE|SUMMARY|AI_MODEL|DECISIONS|ACTIONS|STATUS")
	assert.Contains(t, text, "COMPLETED")
	assert.Contains(t, text, "ONGOING")
	assert.Contains(t, text, "- Total conversations: 2")
	assert.Contains(t, text, "- Unique conversations: 2")
	assert.Contains(t, text, "- Duplicates removed: 0")

	recentEntries, err := os.ReadDir(filepath.Join(root, ".aicf", "recent"))
	require.NoError(t, err)
	assert.Empty(t, recentEntries)
}

func TestAgent_Run_DedupesIdenticalContent(t *testing.T) {
	root := t.TempDir()
	day := time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC)
	result := aicf.AnalysisResult{
		ConversationID:   "conv-1",
		Source:           aicf.SourceClaudeCLI,
		Timestamp:        day,
		FirstUserMessage: "Please add retry support to the augment reader",
	}

	// Two sources capturing the same event: write the identical rendered
	// AICF text under two different conversation IDs/filenames.
	w := memoryfile.New(root, nil)
	_, _, err := w.Write(result)
	require.NoError(t, err)

	dup := result
	dupPath := filepath.Join(root, ".aicf", "recent", "2026-07-30_conv-1-dup.aicf")
	text := memoryfile.RenderAICF(dup)
	require.NoError(t, os.WriteFile(dupPath, []byte(text), 0o644))

	agent := NewAgent(root)
	res, err := agent.Run()
	require.NoError(t, err)

	assert.Equal(t, 2, res.ConversationsTotal)
	assert.Equal(t, 1, res.ConversationsAbsorbed)
	assert.Equal(t, 1, res.Duplicates)
}

func TestAgent_Run_NoRecentDirIsNotAnError(t *testing.T) {
	root := t.TempDir()
	agent := NewAgent(root)
	result, err := agent.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, result.DaysWritten)
}

func TestDeriveTitle_SkipsFillerAndShortLines(t *testing.T) {
	assert.Equal(t, "", deriveTitle("ok\nyes\nlet me"))
	assert.Equal(t, "", deriveTitle("short"))
	assert.Equal(t, "Please add retry support to the client", deriveTitle("ok\nPlease add retry support to the client"))
}

func TestDeriveEssentials_StatusCompletedOnPastTenseAction(t *testing.T) {
	e := deriveEssentials(aicf.AnalysisResult{
		AIActions: []aicf.AIAction{{Type: "fixed", Details: "Fixed the timeout bug."}},
	})
	assert.Equal(t, "COMPLETED", e.Status)
}

func TestDeriveEssentials_SummaryFindsMarkerSentence(t *testing.T) {
	e := deriveEssentials(aicf.AnalysisResult{
		Decisions: []aicf.Decision{{Decision: "TLDR we chose sqlite for local storage."}},
	})
	assert.True(t, strings.Contains(strings.ToLower(e.Summary), "tldr"))
}
