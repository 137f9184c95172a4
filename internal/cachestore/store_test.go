package cachestore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aicf-dev/aicf/internal/aicf"
)

func record(convID string, payload map[string]any) aicf.RawRecord {
	return aicf.RawRecord{
		ConversationID: convID,
		WorkspaceName:  "alpha",
		Source:         aicf.SourceAugment,
		Timestamp:      time.Date(2025, 10, 21, 9, 0, 0, 0, time.UTC),
		LastModified:   time.Date(2025, 10, 21, 9, 0, 0, 0, time.UTC),
		RawData:        payload,
	}
}

func TestStore_WriteAllocatesAscendingIDs(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)

	r1, err := store.Write(record("conv-1", map[string]any{"text": "first"}))
	require.NoError(t, err)
	assert.False(t, r1.Duplicate)
	assert.Equal(t, 0, r1.Chunk.ChunkID)

	r2, err := store.Write(record("conv-2", map[string]any{"text": "second"}))
	require.NoError(t, err)
	assert.Equal(t, 1, r2.Chunk.ChunkID)
}

func TestStore_DuplicateContentSkipped(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)

	payload := map[string]any{"text": "same"}
	r1, err := store.Write(record("conv-1", payload))
	require.NoError(t, err)
	require.False(t, r1.Duplicate)

	r2, err := store.Write(record("conv-2", payload))
	require.NoError(t, err)
	assert.True(t, r2.Duplicate)
	assert.Equal(t, r1.Chunk.ChunkID, r2.Chunk.ChunkID)

	chunks, err := store.List()
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}

func TestStore_ReopenResumesIDAllocation(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)

	_, err = store.Write(record("conv-1", map[string]any{"text": "a"}))
	require.NoError(t, err)
	_, err = store.Write(record("conv-2", map[string]any{"text": "b"}))
	require.NoError(t, err)

	reopened, err := Open(dir)
	require.NoError(t, err)

	r3, err := reopened.Write(record("conv-3", map[string]any{"text": "c"}))
	require.NoError(t, err)
	assert.Equal(t, 2, r3.Chunk.ChunkID)
}

func TestStore_DeleteRemovesChunkFile(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)

	r1, err := store.Write(record("conv-1", map[string]any{"text": "a"}))
	require.NoError(t, err)

	require.NoError(t, store.Delete(r1.Chunk.ChunkID))

	_, statErr := os.Stat(filepath.Join(dir, "chunk-0.json"))
	assert.Error(t, statErr)
}

func TestSourceDir(t *testing.T) {
	got := SourceDir("/proj/.cache", aicf.SourceClaudeCLI)
	assert.Equal(t, "/proj/.cache/llm/claude-cli", got)
}
