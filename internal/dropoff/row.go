package dropoff

import (
	"strconv"
	"strings"
	"time"
)

// Row is one conversation's row as it flows through the tier
// projections. It always carries every field the FULL schema has;
// each renderer below picks only the columns its tier's schema names.
type Row struct {
	Index     int
	Timestamp time.Time
	Title     string
	Summary   string
	AIModel   string
	Decisions string
	Actions   string
	Status    string
}

// hasContent reports whether a row has a non-empty decisions or
// actions cell, the filter spec.md §4.8's medium/ (SUMMARY) tier
// applies.
func (r Row) hasContent() bool {
	return r.Decisions != "" || r.Actions != ""
}

func renderFullRow(r Row) string {
	return strings.Join([]string{
		strconv.Itoa(r.Index),
		r.Timestamp.UTC().Format(time.RFC3339),
		escapeCell(r.Title),
		escapeCell(r.Summary),
		r.AIModel,
		escapeCell(r.Decisions),
		escapeCell(r.Actions),
		r.Status,
	}, "|")
}

// renderKeyPointsRow prints the six columns spec.md §4.8 names for
// old/ (`C#|TIMESTAMP|AI_MODEL|DECISIONS|ACTIONS|STATUS`), plus a
// trailing TITLE column — a documented supplement (DESIGN.md), since
// without it the archive/ tier's TIMESTAMP|TITLE line could never be
// produced once a row has passed through old/.
func renderKeyPointsRow(r Row) string {
	return strings.Join([]string{
		strconv.Itoa(r.Index),
		r.Timestamp.UTC().Format(time.RFC3339),
		r.AIModel,
		escapeCell(r.Decisions),
		escapeCell(r.Actions),
		r.Status,
		escapeCell(r.Title),
	}, "|")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "¦")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

func unescapeCell(s string) string {
	return strings.ReplaceAll(s, "¦", "|")
}

// ParseFullRows reads the 8-column FULL/SUMMARY rows out of a
// sessions/ or medium/ file's text. Exported so internal/recall can
// index decisions and titles without this package's unexported line
// grammar leaking into a second implementation.
func ParseFullRows(text string) []Row {
	return parseFullRows(strings.Split(text, "\n"))
}

// ParseKeyPointsRows reads the 7-column KEY_POINTS rows out of an
// old/ file's text, for the same reason as ParseFullRows.
func ParseKeyPointsRows(text string) []Row {
	return parseKeyPointsRows(strings.Split(text, "\n"))
}

// parseDataRows extracts the rows between a @DATA marker and the next
// @-prefixed section marker (or end of text), in the 8-column
// FULL/SUMMARY layout.
func parseFullRows(lines []string) []Row {
	var rows []Row
	for _, line := range linesAfterMarker(lines, "@DATA") {
		parts := strings.SplitN(line, "|", 8)
		if len(parts) != 8 {
			continue
		}
		idx, _ := strconv.Atoi(parts[0])
		ts, _ := time.Parse(time.RFC3339, parts[1])
		rows = append(rows, Row{
			Index:     idx,
			Timestamp: ts,
			Title:     unescapeCell(parts[2]),
			Summary:   unescapeCell(parts[3]),
			AIModel:   parts[4],
			Decisions: unescapeCell(parts[5]),
			Actions:   unescapeCell(parts[6]),
			Status:    parts[7],
		})
	}
	return rows
}

// parseKeyPointsRows parses the seven-column old/ tier layout
// (six spec.md columns plus the supplemental trailing TITLE).
func parseKeyPointsRows(lines []string) []Row {
	var rows []Row
	for _, line := range linesAfterMarker(lines, "@DATA") {
		parts := strings.SplitN(line, "|", 7)
		if len(parts) != 7 {
			continue
		}
		idx, _ := strconv.Atoi(parts[0])
		ts, _ := time.Parse(time.RFC3339, parts[1])
		rows = append(rows, Row{
			Index:     idx,
			Timestamp: ts,
			AIModel:   parts[2],
			Decisions: unescapeCell(parts[3]),
			Actions:   unescapeCell(parts[4]),
			Status:    parts[5],
			Title:     unescapeCell(parts[6]),
		})
	}
	return rows
}

func linesAfterMarker(lines []string, marker string) []string {
	start := -1
	for i, line := range lines {
		if line == marker {
			start = i + 1
			break
		}
	}
	if start == -1 {
		return nil
	}
	var out []string
	for _, line := range lines[start:] {
		if strings.HasPrefix(line, "@") {
			break
		}
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
