package project

import (
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
)

// githubRemotePattern extracts the "owner/repo" portion from both SSH and
// HTTPS GitHub remote URL forms.
var githubRemotePattern = regexp.MustCompile(`github\.com[:/]([^/]+/[^/.]+)`)

// DetectRemote best-effort opens root as a git repository and returns the
// "owner/repo" slug of its "origin" remote, for diagnostic logging only. It
// never participates in workspace-filter identity, which is basename-only.
func DetectRemote(root string) (string, bool) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return "", false
	}

	remote, err := repo.Remote("origin")
	if err != nil || len(remote.Config().URLs) == 0 {
		return "", false
	}

	return parseGitHubSlug(remote.Config().URLs[0])
}

func parseGitHubSlug(url string) (string, bool) {
	match := githubRemotePattern.FindStringSubmatch(url)
	if match == nil {
		return "", false
	}
	return strings.TrimSuffix(match[1], ".git"), true
}
