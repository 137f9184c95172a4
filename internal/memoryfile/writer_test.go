package memoryfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_Write_CreatesPairedFiles(t *testing.T) {
	root := t.TempDir()
	w := New(root, nil)

	aicfPath, mdPath, err := w.Write(sampleResult())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, ".aicf", "recent", "2026-07-30_conv-1.aicf"), aicfPath)
	assert.Equal(t, filepath.Join(root, ".ai", "conv-1.md"), mdPath)

	_, err = os.Stat(aicfPath)
	require.NoError(t, err)
	_, err = os.Stat(mdPath)
	require.NoError(t, err)
}

func TestWriter_Write_NoLeftoverTempFiles(t *testing.T) {
	root := t.TempDir()
	w := New(root, nil)

	_, _, err := w.Write(sampleResult())
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(root, ".aicf", "recent"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-")
	}
}
