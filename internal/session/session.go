// Package session implements the Session Consolidation Agent (spec.md
// §4.7): it groups the per-conversation files in .aicf/recent by
// calendar day, deduplicates by content hash, derives each surviving
// conversation's "session essentials", and emits one FULL-schema
// sessions/YYYY-MM-DD-session.aicf file per day, deleting the
// per-conversation files it absorbed.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aicf-dev/aicf/internal/cachestore"
	"github.com/aicf-dev/aicf/internal/memoryfile"
)

// sessionsDir is the tier directory FULL-schema session files live in,
// per spec.md §6's external layout. The input side reuses
// memoryfile.RecentDir directly rather than duplicating the constant.
const sessionsDir = "sessions"

// Result summarizes one run of the agent.
type Result struct {
	DaysWritten           int
	ConversationsTotal    int
	ConversationsAbsorbed int
	Duplicates            int
}

// Agent runs the Session Consolidation algorithm against one project's
// .aicf tree.
type Agent struct {
	ProjectRoot string
}

// NewAgent builds a session Agent rooted at projectRoot.
func NewAgent(projectRoot string) *Agent {
	return &Agent{ProjectRoot: projectRoot}
}

type parsedFile struct {
	path        string
	mdPath      string
	contentHash string
	essentials  Essentials
	day         string
	technical   []string
}

// Run absorbs every file currently in .aicf/recent into day-grouped
// session files.
func (a *Agent) Run() (Result, error) {
	var result Result

	recentDir := filepath.Join(a.ProjectRoot, ".aicf", memoryfile.RecentDir)
	entries, err := os.ReadDir(recentDir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return result, fmt.Errorf("reading %s: %w", recentDir, err)
	}

	byDay := map[string][]parsedFile{}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".aicf") {
			continue
		}
		path := filepath.Join(recentDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			// An unreadable file is skipped for this run; it remains in
			// recent/ for the next one, mirroring the Cache Consolidation
			// Agent's per-item non-fatal failure handling.
			continue
		}
		text := string(data)

		parsed, err := memoryfile.ParseAICF(text)
		if err != nil {
			continue
		}

		hash, err := cachestore.ContentHash(map[string]any{"text": text})
		if err != nil {
			continue
		}

		technical := make([]string, 0, len(parsed.TechnicalWork))
		for _, w := range parsed.TechnicalWork {
			technical = append(technical, w.Type)
		}

		day := parsed.Timestamp.UTC().Format("2006-01-02")
		byDay[day] = append(byDay[day], parsedFile{
			path:        path,
			mdPath:      filepath.Join(a.ProjectRoot, memoryfile.MarkdownDir, parsed.ConversationID+".md"),
			contentHash: hash,
			essentials:  deriveEssentials(parsed),
			day:         day,
			technical:   technical,
		})
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	for _, day := range days {
		files := byDay[day]
		sort.Slice(files, func(i, j int) bool {
			return files[i].essentials.Timestamp.Before(files[j].essentials.Timestamp)
		})

		seen := map[string]bool{}
		var unique []parsedFile
		duplicates := 0
		for _, f := range files {
			if seen[f.contentHash] {
				duplicates++
				continue
			}
			seen[f.contentHash] = true
			unique = append(unique, f)
		}

		if err := a.writeSessionFile(day, unique, len(files), duplicates); err != nil {
			return result, fmt.Errorf("writing session file for %s: %w", day, err)
		}

		for _, f := range files {
			os.Remove(f.path)
			os.Remove(f.mdPath)
		}

		result.DaysWritten++
		result.ConversationsTotal += len(files)
		result.ConversationsAbsorbed += len(unique)
		result.Duplicates += duplicates
	}

	return result, nil
}

func (a *Agent) writeSessionFile(day string, files []parsedFile, total, duplicates int) error {
	var b strings.Builder

	b.WriteString("@CONVERSATIONS\n")
	b.WriteString("@SCHEMA\n")
	b.WriteString("C#|TIMESTAMP|TITLE|SUMMARY|AI_MODEL|DECISIONS|ACTIONS|STATUS\n")
	b.WriteString("@DATA\n")

	focusCounts := map[string]int{}
	for i, f := range files {
		e := f.essentials
		fmt.Fprintf(&b, "%d|%s|%s|%s|%s|%s|%s|%s\n",
			i+1,
			e.Timestamp.UTC().Format(time.RFC3339),
			escapeRow(e.Title),
			escapeRow(e.Summary),
			e.AIModel,
			escapeRow(strings.Join(e.Decisions, "; ")),
			escapeRow(strings.Join(e.Actions, "; ")),
			e.Status,
		)
		for _, t := range f.technical {
			focusCounts[t]++
		}
	}

	b.WriteString("@NOTES\n")
	fmt.Fprintf(&b, "- Session: %s\n", day)
	fmt.Fprintf(&b, "- Total conversations: %d\n", total)
	fmt.Fprintf(&b, "- Unique conversations: %d\n", len(files))
	fmt.Fprintf(&b, "- Duplicates removed: %d\n", duplicates)
	fmt.Fprintf(&b, "- Duration: %s\n", durationSpan(files))
	fmt.Fprintf(&b, "- Focus: %s\n", dominantFocus(focusCounts))

	path := filepath.Join(a.ProjectRoot, ".aicf", sessionsDir, day+"-session.aicf")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return memoryfile.AtomicWrite(path, b.String())
}

func escapeRow(s string) string {
	s = strings.ReplaceAll(s, "|", "¦")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

func durationSpan(files []parsedFile) string {
	if len(files) == 0 {
		return ""
	}
	first := files[0].essentials.Timestamp.UTC()
	last := files[len(files)-1].essentials.Timestamp.UTC()
	return first.Format(time.RFC3339) + ".." + last.Format(time.RFC3339)
}

func dominantFocus(counts map[string]int) string {
	best := ""
	bestCount := 0
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best
}
