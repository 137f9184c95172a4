// Package memoryfile renders an aicf.AnalysisResult to the paired
// on-disk AICF (pipe-delimited) and markdown files of spec.md §4.5, and
// writes them atomically under a project's .aicf/recent and .ai trees.
package memoryfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aicf-dev/aicf/internal/aicf"
	"github.com/aicf-dev/aicf/internal/redact"
)

// RecentDir and MarkdownDir are the fixed on-disk locations of spec.md
// §6's external layout, relative to the project's .aicf root and project
// root respectively.
const (
	RecentDir   = "recent"
	MarkdownDir = ".ai"
)

// Writer renders and persists AICF/markdown pairs. Grounded on
// internal/cachestore.Store's atomic write-then-rename discipline —
// every write goes through a temp file in the same directory, then
// os.Rename, so a killed process never leaves a half-written pair.
type Writer struct {
	// AicfDir is the project's .aicf directory.
	AicfDir string
	// ProjectRoot is the project root, parent of .ai and .aicf.
	ProjectRoot string
	// Scrubber redacts secrets from rendered text before it ever
	// reaches disk (SPEC_FULL.md §4.5 supplemental feature). Required.
	Scrubber *redact.Scrubber
}

// New returns a Writer rooted at projectRoot.
func New(projectRoot string, scrubber *redact.Scrubber) *Writer {
	return &Writer{
		AicfDir:     filepath.Join(projectRoot, ".aicf"),
		ProjectRoot: projectRoot,
		Scrubber:    scrubber,
	}
}

// Write renders result to AICF and markdown, redacts secrets from both,
// and writes the pair atomically. The filename stem is derived from
// result.Timestamp (the conversation's original timestamp), not
// wall-clock time, so historical records land in the correct date
// partition even when processed months later.
func (w *Writer) Write(result aicf.AnalysisResult) (aicfPath, mdPath string, err error) {
	stem := fmt.Sprintf("%s_%s", result.Timestamp.UTC().Format("2006-01-02"), result.ConversationID)

	aicfText := RenderAICF(result)
	mdText := RenderMarkdown(result)

	if w.Scrubber != nil {
		aicfText, _ = w.Scrubber.Redact(aicfText)
		mdText, _ = w.Scrubber.Redact(mdText)
	}

	recentDir := filepath.Join(w.AicfDir, RecentDir)
	if err := os.MkdirAll(recentDir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating %s: %w", recentDir, err)
	}
	markdownDir := filepath.Join(w.ProjectRoot, MarkdownDir)
	if err := os.MkdirAll(markdownDir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating %s: %w", markdownDir, err)
	}

	aicfPath = filepath.Join(recentDir, stem+".aicf")
	mdPath = filepath.Join(markdownDir, result.ConversationID+".md")

	// Write the markdown file first, then AICF: the pipeline treats the
	// pair as valid only once the AICF file lands, so any crash between
	// the two writes leaves, at worst, an orphaned markdown file a
	// later cycle can overwrite — never an AICF with no markdown.
	if err := AtomicWrite(mdPath, mdText); err != nil {
		return "", "", fmt.Errorf("writing markdown %s: %w", mdPath, err)
	}
	if err := AtomicWrite(aicfPath, aicfText); err != nil {
		return "", "", fmt.Errorf("writing aicf %s: %w", aicfPath, err)
	}

	return aicfPath, mdPath, nil
}

// AtomicWrite writes content to path via a temp file in the same
// directory followed by os.Rename, so a killed process never leaves a
// half-written file behind. Shared by every stage that persists a
// tier file: this Writer, internal/session, and internal/dropoff.
func AtomicWrite(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}
