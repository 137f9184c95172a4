// Package project resolves the identity of the workspace (project directory)
// the watcher is running against, and filters foreign source records down to
// that workspace by exact name match.
//
// Cross-project leakage was historically caused by substring matching
// ("foo-core" matching both "foo-core" and "foo-core-meta"); every filter
// in this package is exact-match only.
package project

import (
	"errors"
	"fmt"

	"github.com/aicf-dev/aicf/internal/sanitize"
)

var (
	// ErrEmptyRoot indicates an empty workspace root path was supplied.
	ErrEmptyRoot = errors.New("workspace root cannot be empty")
)

// Workspace identifies the project directory a cycle is running against.
type Workspace struct {
	// Root is the absolute, validated filesystem path of the project directory.
	Root string

	// Name is the workspace identity used for exact-match filtering: the
	// basename of Root.
	Name string

	// Branch is the current git branch, or "" if Root is not a git
	// repository or the branch could not be determined. Informational only.
	Branch string
}

// Resolve derives a Workspace from a project root path. It validates the
// path, extracts the basename as the filter identity, and best-effort
// detects the current git branch for diagnostic logging.
func Resolve(root string) (*Workspace, error) {
	if root == "" {
		return nil, ErrEmptyRoot
	}

	name, err := sanitize.SafeBasename(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace name: %w", err)
	}

	absRoot, err := sanitize.ValidateWorkspacePath(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}

	branch, err := DetectBranch(absRoot)
	if err != nil {
		branch = ""
	}

	return &Workspace{
		Root:   absRoot,
		Name:   name,
		Branch: branch,
	}, nil
}

// Matches reports whether a foreign-store-reported workspace name refers to
// this workspace. The comparison is exact; callers must never fall back to
// substring or prefix matching here.
func (w *Workspace) Matches(candidateName string) bool {
	return candidateName == w.Name
}
