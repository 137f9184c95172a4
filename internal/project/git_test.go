package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectBranch(t *testing.T) {
	tests := []struct {
		name    string
		head    string
		want    string
		wantErr bool
	}{
		{name: "main branch", head: "ref: refs/heads/main\n", want: "main"},
		{name: "feature branch", head: "ref: refs/heads/feature/v3-rebuild\n", want: "feature/v3-rebuild"},
		{name: "detached head", head: "a1b2c3d4e5f6\n", want: "detached"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			gitDir := filepath.Join(dir, ".git")
			require.NoError(t, os.Mkdir(gitDir, 0755))
			require.NoError(t, os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte(tt.head), 0644))

			branch, err := DetectBranch(dir)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, branch)
		})
	}
}

func TestDetectBranch_NotAGitRepo(t *testing.T) {
	dir := t.TempDir()
	_, err := DetectBranch(dir)
	assert.ErrorIs(t, err, ErrNotGitRepo)
}

func TestDetectRemote_NotAGitRepo(t *testing.T) {
	dir := t.TempDir()
	_, ok := DetectRemote(dir)
	assert.False(t, ok)
}
