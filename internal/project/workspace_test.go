package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	projectDir := filepath.Join(dir, "foo-core")
	require.NoError(t, os.Mkdir(projectDir, 0755))

	ws, err := Resolve(projectDir)
	require.NoError(t, err)
	assert.Equal(t, "foo-core", ws.Name)
	assert.Equal(t, "", ws.Branch)
}

func TestResolve_EmptyRoot(t *testing.T) {
	_, err := Resolve("")
	assert.ErrorIs(t, err, ErrEmptyRoot)
}

func TestWorkspace_Matches_ExactOnly(t *testing.T) {
	ws := &Workspace{Name: "foo-core"}

	assert.True(t, ws.Matches("foo-core"))
	assert.False(t, ws.Matches("foo-core-meta"))
	assert.False(t, ws.Matches("foo"))
	assert.False(t, ws.Matches(""))
}
