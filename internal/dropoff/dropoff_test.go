package dropoff

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTierFile(t *testing.T, root, tier, day, text string) {
	t.Helper()
	dir := filepath.Join(root, ".aicf", tier)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, day+"-session.aicf")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
}

func fullFileText(rows []Row) string {
	return renderRows("2026-07-20", "FULL", rows)
}

func TestDropTier_SessionsToMediumFiltersEmptyRows(t *testing.T) {
	root := t.TempDir()
	day := "2026-07-20" // old enough to cross the 2-day sessions threshold
	rows := []Row{
		{Timestamp: time.Date(2026, 7, 20, 9, 0, 0, 0, time.UTC), Title: "Picked a cache backend", Decisions: "Use LRU cache", Status: "COMPLETED"},
		{Timestamp: time.Date(2026, 7, 20, 10, 0, 0, 0, time.UTC), Title: "Just said thanks", Status: "ONGOING"},
	}
	writeTierFile(t, root, sessionsDir, day, fullFileText(rows))

	agent := NewAgent(root)
	now := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	result, err := agent.run(now)
	require.NoError(t, err)

	assert.Equal(t, 1, result.FullToSummary)

	_, err = os.Stat(filepath.Join(root, ".aicf", sessionsDir, day+"-session.aicf"))
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(filepath.Join(root, ".aicf", mediumDir, day+"-session.aicf"))
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "Picked a cache backend")
	assert.NotContains(t, text, "Just said thanks")
}

func TestDropTier_NotYetAgedIsNoOp(t *testing.T) {
	root := t.TempDir()
	day := "2026-07-29"
	rows := []Row{{Timestamp: time.Date(2026, 7, 29, 9, 0, 0, 0, time.UTC), Title: "Too recent to move", Status: "ONGOING"}}
	writeTierFile(t, root, sessionsDir, day, fullFileText(rows))

	agent := NewAgent(root)
	now := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	result, err := agent.run(now)
	require.NoError(t, err)

	assert.Equal(t, 0, result.FullToSummary)
	_, err = os.Stat(filepath.Join(root, ".aicf", sessionsDir, day+"-session.aicf"))
	assert.NoError(t, err)
}

func TestDropTier_KeyPointsPreservesTitleAsAdditiveColumn(t *testing.T) {
	root := t.TempDir()
	day := "2026-07-10"
	rows := []Row{
		{Timestamp: time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC), Title: "Migrated the reader to LevelDB", Decisions: "Use goleveldb", Status: "COMPLETED"},
	}
	writeTierFile(t, root, mediumDir, day, fullFileText(rows))

	agent := NewAgent(root)
	now := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	result, err := agent.run(now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.SummaryToKey)

	data, err := os.ReadFile(filepath.Join(root, ".aicf", oldDir, day+"-session.aicf"))
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "C#|TIMESTAMP|AI_MODEL|DECISIONS|ACTIONS|STATUS|TITLE")
	assert.Contains(t, text, "Migrated the reader to LevelDB")
}

func TestDropTier_OldToArchiveProducesSingleLinePerConversation(t *testing.T) {
	root := t.TempDir()
	day := "2026-07-01"
	var b strings.Builder
	b.WriteString("@CONVERSATIONS\n@SCHEMA\nC#|TIMESTAMP|AI_MODEL|DECISIONS|ACTIONS|STATUS|TITLE\n@DATA\n")
	b.WriteString(renderKeyPointsRow(Row{
		Index: 1, Timestamp: time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC),
		Title: "Rewrote the consolidation agent", Status: "COMPLETED",
	}))
	b.WriteString("\n@NOTES\n")
	writeTierFile(t, root, oldDir, day, b.String())

	agent := NewAgent(root)
	now := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	result, err := agent.run(now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.KeyToSingleLine)

	data, err := os.ReadFile(filepath.Join(root, ".aicf", archiveDir, day+"-session.aicf"))
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "@SESSION|2026-07-01|Age: 29 days")
	assert.Contains(t, text, "Rewrote the consolidation agent")
}

func TestRun_CascadesThroughMultipleTiersInOneCall(t *testing.T) {
	root := t.TempDir()
	day := "2026-06-01" // aged past all three thresholds at once
	rows := []Row{{Timestamp: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC), Title: "Set up the cron scheduler", Decisions: "Use robfig/cron", Status: "COMPLETED"}}
	writeTierFile(t, root, sessionsDir, day, fullFileText(rows))

	agent := NewAgent(root)
	now := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	result, err := agent.run(now)
	require.NoError(t, err)

	assert.Equal(t, 1, result.FullToSummary)
	assert.Equal(t, 1, result.SummaryToKey)
	assert.Equal(t, 1, result.KeyToSingleLine)

	data, err := os.ReadFile(filepath.Join(root, ".aicf", archiveDir, day+"-session.aicf"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Set up the cron scheduler")

	for _, tier := range []string{sessionsDir, mediumDir, oldDir} {
		_, err := os.Stat(filepath.Join(root, ".aicf", tier, day+"-session.aicf"))
		assert.True(t, os.IsNotExist(err), "tier %s should have been vacated", tier)
	}
}

func TestRun_NoTierDirsIsNotAnError(t *testing.T) {
	root := t.TempDir()
	agent := NewAgent(root)
	result, err := agent.Run()
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
}
