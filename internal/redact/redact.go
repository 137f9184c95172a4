// Package redact scrubs secrets out of text destined for a long-lived,
// git-committable .aicf/ tree (spec.md §4.5 expansion). A foreign
// conversation log routinely contains pasted .env contents, bearer tokens
// echoed back by a tool call, or API keys typed into a debugging session;
// writing those verbatim would be a disclosure bug.
//
// Detection is grounded on zricethezav/gitleaks/v8's default rule set, the
// same library the teacher uses in pkg/secrets/detector.go. The
// replacement marker format is ␀REDACTED:<rule-name>␀, deliberately
// distinct from the "|"/"¦" delimiter-substitution rule used elsewhere in
// the AICF format, so the two lossy transforms are never confused when
// auditing output.
package redact

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zricethezav/gitleaks/v8/detect"
)

const markerChar = "␀" // NUL symbol, visually distinct and never legitimately typed

// Scrubber detects and redacts secrets from plain text.
type Scrubber struct {
	detector *detect.Detector
}

// New builds a Scrubber using gitleaks' default detection ruleset.
func New() (*Scrubber, error) {
	detector, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("initializing secret detector: %w", err)
	}
	return &Scrubber{detector: detector}, nil
}

// Redact scans text for secrets and replaces each match with
// ␀REDACTED:<rule-name>␀. Text with no findings is returned unchanged. The
// number of redactions performed is returned alongside for cycle-summary
// counters.
func (s *Scrubber) Redact(text string) (string, int) {
	if text == "" {
		return text, 0
	}

	findings := s.detector.DetectString(text)
	if len(findings) == 0 {
		return text, 0
	}

	// Replace from the end of the string backwards so earlier offsets stay
	// valid as later ones are substituted.
	sorted := make([]struct {
		start, end int
		rule       string
	}, 0, len(findings))
	for _, f := range findings {
		idx := strings.Index(text, f.Secret)
		if idx < 0 {
			continue
		}
		sorted = append(sorted, struct {
			start, end int
			rule       string
		}{start: idx, end: idx + len(f.Secret), rule: f.RuleID})
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start > sorted[j].start })

	redacted := text
	count := 0
	for _, f := range sorted {
		if f.start < 0 || f.end > len(redacted) || f.start > f.end {
			continue
		}
		marker := markerChar + "REDACTED:" + f.rule + markerChar
		redacted = redacted[:f.start] + marker + redacted[f.end:]
		count++
	}

	return redacted, count
}
