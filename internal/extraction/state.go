package extraction

import (
	"regexp"
	"strings"

	"github.com/aicf-dev/aicf/internal/aicf"
)

// stateMarkers finds spec.md §4.3's explicit markers (TODO, blocker,
// next) that fill WorkingState's three fields. Each captures the rest of
// its line as the field value.
var (
	currentTaskPattern = regexp.MustCompile(`(?i)\b(currently (working on|doing)|in progress)\s*:?\s*(.+)`)
	blockerPattern     = regexp.MustCompile(`(?i)\b(blocker|blocked (by|on)|TODO)\s*:?\s*(.+)`)
	nextActionPattern  = regexp.MustCompile(`(?i)\bnext(?: step| action)?\s*:?\s*(.+)`)
)

// StateExtractor fills WorkingState from explicit markers per spec.md
// §4.3: the last matching line wins for currentTask/nextAction (the most
// recent statement of "what's next" supersedes an earlier one), while
// every blocker mention is accumulated.
type StateExtractor struct{}

// NewStateExtractor returns a StateExtractor. It carries no configuration.
func NewStateExtractor() *StateExtractor { return &StateExtractor{} }

// Extract scans every message's lines for the explicit markers.
func (e *StateExtractor) Extract(messages []aicf.Message) aicf.WorkingState {
	var state aicf.WorkingState

	for _, msg := range messages {
		for _, line := range strings.Split(msg.Text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			if m := currentTaskPattern.FindStringSubmatch(line); m != nil {
				state.CurrentTask = strings.TrimSpace(m[len(m)-1])
			}
			if m := blockerPattern.FindStringSubmatch(line); m != nil {
				state.Blockers = append(state.Blockers, strings.TrimSpace(m[len(m)-1]))
			}
			if m := nextActionPattern.FindStringSubmatch(line); m != nil {
				state.NextAction = strings.TrimSpace(m[len(m)-1])
			}
		}
	}

	return state
}
