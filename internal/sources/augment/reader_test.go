package augment

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/aicf-dev/aicf/internal/project"
)

func seedWorkspace(t *testing.T, storageRoot, workspaceID, folder string, exchanges map[string]exchangeValue) {
	t.Helper()
	workspaceDir := filepath.Join(storageRoot, workspaceID)
	require.NoError(t, os.MkdirAll(workspaceDir, 0o755))

	wj, err := json.Marshal(workspaceJSON{Folder: "file://" + folder})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(workspaceDir, "workspace.json"), wj, 0o644))

	storeDir := filepath.Join(workspaceDir, "Augment.vscode-augment", "augment-kv-store")
	db, err := leveldb.OpenFile(storeDir, nil)
	require.NoError(t, err)
	defer db.Close()

	for key, val := range exchanges {
		data, err := json.Marshal(val)
		require.NoError(t, err)
		require.NoError(t, db.Put([]byte(key), data, nil))
	}
	require.NoError(t, db.Put([]byte("other:not-an-exchange"), []byte("irrelevant"), nil))
}

func TestReader_Available(t *testing.T) {
	root := t.TempDir()
	r := &Reader{WorkspaceStorageRoot: filepath.Join(root, "workspaceStorage")}
	assert.False(t, r.Available())

	require.NoError(t, os.MkdirAll(r.WorkspaceStorageRoot, 0o755))
	assert.True(t, r.Available())
}

func TestReader_ReadAll_FiltersByWorkspaceAndExtractsExchanges(t *testing.T) {
	workspaceRoot := t.TempDir()
	storageRoot := t.TempDir()

	seedWorkspace(t, storageRoot, "ws-alpha", workspaceRoot, map[string]exchangeValue{
		"exchange:1": {
			ConversationID: "conv-1",
			RequestMessage: "what does this do",
			ResponseText:   "it does a thing",
			ModelID:        "model-a",
			Timestamp:      "2026-07-30T09:00:00Z",
		},
	})
	seedWorkspace(t, storageRoot, "ws-other", filepath.Join(t.TempDir(), "unrelated-project"), map[string]exchangeValue{
		"exchange:1": {ConversationID: "conv-x", RequestMessage: "ignored", Timestamp: "2026-07-30T09:00:00Z"},
	})

	r := &Reader{WorkspaceStorageRoot: storageRoot}
	ws, err := project.Resolve(workspaceRoot)
	require.NoError(t, err)

	records, stats, err := r.ReadAll(context.Background(), ws)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "conv-1", rec.ConversationID)
	require.Len(t, rec.Messages, 2)
	assert.Equal(t, "user", rec.Messages[0].Role)
	assert.Equal(t, "what does this do", rec.Messages[0].Text)
	assert.Equal(t, "assistant", rec.Messages[1].Role)
	assert.Equal(t, "it does a thing", rec.Messages[1].Text)

	assert.Equal(t, 1, stats.RecordsSeen)
	assert.Equal(t, 0, stats.RecordsSkipped)
}

func TestReader_ReadAll_NoMatchingWorkspace(t *testing.T) {
	storageRoot := t.TempDir()
	seedWorkspace(t, storageRoot, "ws-other", filepath.Join(t.TempDir(), "some-other-project"), map[string]exchangeValue{
		"exchange:1": {ConversationID: "conv-x", RequestMessage: "ignored", Timestamp: "2026-07-30T09:00:00Z"},
	})

	r := &Reader{WorkspaceStorageRoot: storageRoot}
	ws, err := project.Resolve(t.TempDir())
	require.NoError(t, err)

	records, _, err := r.ReadAll(context.Background(), ws)
	require.NoError(t, err)
	assert.Empty(t, records)
}
