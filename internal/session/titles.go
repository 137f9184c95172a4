package session

import "strings"

// minTitleLength is spec.md §4.7's cutoff: a title shorter than this is
// treated as not meaningful and the title is left empty.
const minTitleLength = 15

// maxTitleLength caps a derived title so one long unbroken first line
// doesn't blow out the session row's TITLE column.
const maxTitleLength = 120

// TitleFillerPhrases are lines that never qualify as a session title,
// even past minTitleLength, because they're acknowledgements or
// conversational filler rather than the substance of what was asked.
// Exported so a caller can extend it without forking the package — an
// open question spec.md calls out without resolving ("skipping filler
// (ok, yes, let me, code blocks)") and leaves as an ad-hoc, not
// exhaustive, list.
var TitleFillerPhrases = []string{
	"ok", "okay", "yes", "no", "sure",
	"thanks", "thank you", "got it",
	"let me", "let's",
	"sounds good", "looks good",
}

// deriveTitle picks the first meaningful line of firstUserMessage per
// spec.md §4.7: skip filler lines and fenced code blocks, require at
// least minTitleLength characters, truncate long lines.
func deriveTitle(firstUserMessage string) string {
	for _, line := range strings.Split(firstUserMessage, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < minTitleLength || isFillerLine(line) {
			continue
		}
		return truncateTitle(line)
	}
	return ""
}

func isFillerLine(line string) bool {
	if strings.HasPrefix(line, "```") {
		return true
	}
	lower := strings.ToLower(strings.Trim(line, ".!? "))
	for _, phrase := range TitleFillerPhrases {
		if lower == phrase {
			return true
		}
	}
	return false
}

func truncateTitle(s string) string {
	runes := []rune(s)
	if len(runes) <= maxTitleLength {
		return s
	}
	return string(runes[:maxTitleLength]) + "…"
}
