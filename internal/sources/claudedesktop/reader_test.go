package claudedesktop

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/aicf-dev/aicf/internal/project"
)

func openTestDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestReader_Available(t *testing.T) {
	dir := t.TempDir()
	r := &Reader{DBPath: filepath.Join(dir, "missing.sqlite")}
	assert.False(t, r.Available())

	require.NoError(t, os.WriteFile(r.DBPath, []byte{}, 0o644))
	assert.True(t, r.Available())
}

func TestReader_ReadAll_MissingTables_DegradesGracefully(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "conversations.sqlite")
	db := openTestDB(t, dbPath)
	_, err := db.Exec(`CREATE TABLE unrelated (id TEXT)`)
	require.NoError(t, err)
	db.Close()

	var diagnostics []string
	r := &Reader{DBPath: dbPath, Diagnostic: func(s string) { diagnostics = append(diagnostics, s) }}
	ws, err := project.Resolve(t.TempDir())
	require.NoError(t, err)

	records, stats, err := r.ReadAll(context.Background(), ws)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, stats.RecordsSeen)
	assert.NotEmpty(t, diagnostics)
}

func TestReader_ReadAll_ParsesConversationsAndMessages(t *testing.T) {
	workspaceRoot := t.TempDir()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "conversations.sqlite")
	db := openTestDB(t, dbPath)

	_, err := db.Exec(`CREATE TABLE conversations (id TEXT, workspace TEXT, title TEXT, created_at TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE messages (conversation_id TEXT, role TEXT, content TEXT, created_at TEXT)`)
	require.NoError(t, err)

	ws, err := project.Resolve(workspaceRoot)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO conversations VALUES (?, ?, ?, ?)`, "conv-1", ws.Name, "a title", "2026-07-30 09:00:00")
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO messages VALUES (?, ?, ?, ?)`, "conv-1", "user", "hello", "2026-07-30 09:00:00")
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO messages VALUES (?, ?, ?, ?)`, "conv-1", "assistant", "hi there", "2026-07-30 09:00:05")
	require.NoError(t, err)
	db.Close()

	r := &Reader{DBPath: dbPath}
	records, stats, err := r.ReadAll(context.Background(), ws)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "conv-1", rec.ConversationID)
	require.Len(t, rec.Messages, 2)
	assert.Equal(t, "hello", rec.Messages[0].Text)
	assert.Equal(t, "hi there", rec.Messages[1].Text)
	assert.Equal(t, 2, stats.RecordsSeen)
}

func TestReader_ReadAll_FiltersByWorkspace(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "conversations.sqlite")
	db := openTestDB(t, dbPath)

	_, err := db.Exec(`CREATE TABLE conversations (id TEXT, workspace TEXT, title TEXT, created_at TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE messages (conversation_id TEXT, role TEXT, content TEXT, created_at TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO conversations VALUES (?, ?, ?, ?)`, "conv-1", "some-other-workspace", "t", "2026-07-30 09:00:00")
	require.NoError(t, err)
	db.Close()

	r := &Reader{DBPath: dbPath}
	ws, err := project.Resolve(t.TempDir())
	require.NoError(t, err)

	records, _, err := r.ReadAll(context.Background(), ws)
	require.NoError(t, err)
	assert.Empty(t, records)
}
