// Package dropoff implements the Memory Dropoff Agent (spec.md §4.8):
// it ages session files through four tiers — sessions/ (FULL, 0-2
// days), medium/ (SUMMARY, 2-7 days), old/ (KEY_POINTS, 7-14 days),
// archive/ (SINGLE_LINE, 14+ days, terminal) — narrowing each file's
// schema as it crosses a threshold and deleting the wider-schema
// source once the narrower one is flushed.
//
// Two Open Questions from SPEC_FULL.md are resolved here:
//
//   - A FULL file that a user has hand-edited after its recent/
//     sources were already deleted by session consolidation is still
//     aged through these tiers on its own schedule. Nothing re-derives
//     it from recent/ — once session consolidation absorbs a
//     conversation, the session file *is* the authoritative record,
//     edited or not.
//   - Archive roll-up stays one file per original session day. A
//     day's archive/YYYY-MM-DD-session.aicf is never merged with
//     neighboring days into a per-month file; spec.md's size argument
//     for shrinking old conversations is about per-conversation detail,
//     not about file count.
package dropoff

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/aicf-dev/aicf/internal/memoryfile"
)

const (
	sessionsDir = "sessions"
	mediumDir   = "medium"
	oldDir      = "old"
	archiveDir  = "archive"

	sessionsMaxAge = 2 * 24 * time.Hour
	mediumMaxAge   = 7 * 24 * time.Hour
	oldMaxAge      = 14 * 24 * time.Hour
)

var sessionFileName = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-session\.aicf$`)

// Result tallies one Run's work across all three tier transitions.
type Result struct {
	FullToSummary   int
	SummaryToKey    int
	KeyToSingleLine int
}

// Agent ages the session files under one project's .aicf tree.
type Agent struct {
	ProjectRoot string
}

// NewAgent builds a dropoff Agent rooted at projectRoot.
func NewAgent(projectRoot string) *Agent {
	return &Agent{ProjectRoot: projectRoot}
}

// Run processes all three tier boundaries in ascending order. Each
// pass re-lists its source directory, so a file the first pass just
// wrote into medium/ is visible to the second pass within the same
// call — letting a file that ages past more than one threshold
// between polling cycles cascade all the way to archive/ in one Run.
func (a *Agent) Run() (Result, error) {
	return a.run(time.Now())
}

func (a *Agent) run(now time.Time) (Result, error) {
	var result Result

	n, err := a.dropTier(now, sessionsDir, sessionsMaxAge, mediumDir, projectSummary)
	if err != nil {
		return result, fmt.Errorf("sessions->medium: %w", err)
	}
	result.FullToSummary = n

	n, err = a.dropTier(now, mediumDir, mediumMaxAge, oldDir, projectKeyPoints)
	if err != nil {
		return result, fmt.Errorf("medium->old: %w", err)
	}
	result.SummaryToKey = n

	n, err = a.dropTier(now, oldDir, oldMaxAge, archiveDir, func(day, text string) (string, error) {
		return projectSingleLine(now, day, text)
	})
	if err != nil {
		return result, fmt.Errorf("old->archive: %w", err)
	}
	result.KeyToSingleLine = n

	return result, nil
}

// project functions read one tier's file text and rows and return the
// next tier's rendered file text.
type projectFunc func(day string, text string) (string, error)

func (a *Agent) dropTier(now time.Time, fromTier string, maxAge time.Duration, toTier string, project projectFunc) (int, error) {
	fromDir := filepath.Join(a.ProjectRoot, ".aicf", fromTier)
	entries, err := os.ReadDir(fromDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading %s: %w", fromDir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	moved := 0
	for _, name := range names {
		m := sessionFileName.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		day := m[1]
		sessionDate, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		if now.Sub(sessionDate) < maxAge {
			continue
		}

		srcPath := filepath.Join(fromDir, name)
		data, err := os.ReadFile(srcPath)
		if err != nil {
			// Leave it for next cycle; mirrors the Cache/Session agents'
			// non-fatal per-item failure handling.
			continue
		}

		projected, err := project(day, string(data))
		if err != nil {
			continue
		}

		dstPath := filepath.Join(a.ProjectRoot, ".aicf", toTier, day+"-session.aicf")
		if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
			return moved, err
		}
		if err := memoryfile.AtomicWrite(dstPath, projected); err != nil {
			return moved, fmt.Errorf("writing %s: %w", dstPath, err)
		}
		if err := os.Remove(srcPath); err != nil {
			return moved, fmt.Errorf("removing %s after projecting to %s: %w", srcPath, toTier, err)
		}
		moved++
	}
	return moved, nil
}

// projectSummary narrows a FULL sessions/ file to the SUMMARY schema
// medium/ uses: the same eight columns, with rows filtered to only
// those carrying a non-empty decision or action (spec.md §4.8).
func projectSummary(day, text string) (string, error) {
	rows := parseFullRows(strings.Split(text, "\n"))
	var kept []Row
	for _, r := range rows {
		if r.hasContent() {
			kept = append(kept, r)
		}
	}
	return renderRows(day, "SUMMARY", kept), nil
}

// projectKeyPoints narrows a SUMMARY medium/ file (same 8-column
// schema as FULL) to the KEY_POINTS schema old/ uses.
func projectKeyPoints(day, text string) (string, error) {
	rows := parseFullRows(strings.Split(text, "\n"))
	var b strings.Builder
	b.WriteString("@CONVERSATIONS\n")
	b.WriteString("@SCHEMA\n")
	b.WriteString("C#|TIMESTAMP|AI_MODEL|DECISIONS|ACTIONS|STATUS|TITLE\n")
	b.WriteString("@DATA\n")
	for i, r := range rows {
		r.Index = i + 1
		b.WriteString(renderKeyPointsRow(r))
		b.WriteString("\n")
	}
	b.WriteString("@NOTES\n")
	fmt.Fprintf(&b, "- Session: %s\n", day)
	fmt.Fprintf(&b, "- Tier: KEY_POINTS\n")
	fmt.Fprintf(&b, "- Conversations: %d\n", len(rows))
	return b.String(), nil
}

// projectSingleLine narrows an old/ KEY_POINTS file to the terminal
// SINGLE_LINE archive/ schema: an @SESSION header naming the day and
// its age, followed by one TIMESTAMP|TITLE line per conversation.
// archive/ files are never read back by this package; there is no
// matching parser.
func projectSingleLine(now time.Time, day, text string) (string, error) {
	rows := parseKeyPointsRows(strings.Split(text, "\n"))
	sessionDate, err := time.Parse("2006-01-02", day)
	if err != nil {
		return "", err
	}
	age := int(now.Sub(sessionDate).Hours() / 24)

	var b strings.Builder
	fmt.Fprintf(&b, "@SESSION|%s|Age: %d days\n", day, age)
	for _, r := range rows {
		fmt.Fprintf(&b, "%s|%s\n", r.Timestamp.UTC().Format(time.RFC3339), escapeCell(r.Title))
	}
	return b.String(), nil
}

func renderRows(day, tier string, rows []Row) string {
	var b strings.Builder
	b.WriteString("@CONVERSATIONS\n")
	b.WriteString("@SCHEMA\n")
	b.WriteString("C#|TIMESTAMP|TITLE|SUMMARY|AI_MODEL|DECISIONS|ACTIONS|STATUS\n")
	b.WriteString("@DATA\n")
	for i, r := range rows {
		r.Index = i + 1
		b.WriteString(renderFullRow(r))
		b.WriteString("\n")
	}
	b.WriteString("@NOTES\n")
	fmt.Fprintf(&b, "- Session: %s\n", day)
	fmt.Fprintf(&b, "- Tier: %s\n", tier)
	fmt.Fprintf(&b, "- Conversations: %d\n", len(rows))
	return b.String()
}
