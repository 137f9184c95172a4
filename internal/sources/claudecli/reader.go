// Package claudecli reads Claude CLI's JSONL session logs under
// ~/.claude/projects/<sanitized-project-path>/<session>.jsonl (spec.md
// §4.1). It is grounded directly on the teacher's
// internal/conversation/parser.go: the same two-shape message content
// handling (plain string vs. content-block array), the same tool_use/
// tool_result extraction, and the same 10MB scanner buffer bump for long
// lines.
package claudecli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aicf-dev/aicf/internal/aicf"
	"github.com/aicf-dev/aicf/internal/project"
	"github.com/aicf-dev/aicf/internal/sources"
)

const maxScanTokenSize = 10 * 1024 * 1024

// Reader implements sources.Reader for Claude CLI's JSONL store.
type Reader struct {
	// ProjectsRoot defaults to ~/.claude/projects; overridable for tests.
	ProjectsRoot string
}

// New returns a Reader rooted at the user's ~/.claude/projects directory.
func New() (*Reader, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	return &Reader{ProjectsRoot: filepath.Join(home, ".claude", "projects")}, nil
}

func (r *Reader) Source() aicf.Source { return aicf.SourceClaudeCLI }

func (r *Reader) Available() bool {
	info, err := os.Stat(r.ProjectsRoot)
	return err == nil && info.IsDir()
}

// sanitizedProjectDir mirrors Claude CLI's own convention of naming a
// project's log directory after its absolute path with slashes replaced
// by dashes (e.g. /Users/foo/code/project becomes
// -Users-foo-code-project — the leading dash is part of the real format
// and is not trimmed).
func sanitizedProjectDir(workspaceRoot string) string {
	return strings.ReplaceAll(workspaceRoot, string(filepath.Separator), "-")
}

func (r *Reader) ReadAll(ctx context.Context, ws *project.Workspace) ([]aicf.RawRecord, sources.ReadStats, error) {
	var stats sources.ReadStats

	if !r.Available() {
		return nil, stats, sources.ErrSourceUnavailable
	}

	projectDir := filepath.Join(r.ProjectsRoot, sanitizedProjectDir(ws.Root))
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, stats, nil
		}
		return nil, stats, fmt.Errorf("reading %s: %w", projectDir, err)
	}

	var records []aicf.RawRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}

		sessionPath := filepath.Join(projectDir, entry.Name())
		sessionID := strings.TrimSuffix(entry.Name(), ".jsonl")

		lines, messages, seen, skipped, err := parseSession(sessionPath, sessionID)
		if err != nil {
			return nil, stats, fmt.Errorf("parsing session %s: %w", sessionPath, err)
		}
		stats.RecordsSeen += seen
		stats.RecordsSkipped += skipped

		if len(messages) == 0 {
			continue
		}

		// Claude CLI has no separate workspace-name field in its JSONL
		// records; the sanitized project directory itself is the exact
		// workspace boundary, already applied by the os.ReadDir(projectDir)
		// above, so no further per-record filtering is needed here.
		first, last := messages[0].Timestamp, messages[0].Timestamp
		for _, m := range messages {
			if m.Timestamp.Before(first) {
				first = m.Timestamp
			}
			if m.Timestamp.After(last) {
				last = m.Timestamp
			}
		}

		records = append(records, aicf.RawRecord{
			ConversationID: sessionID,
			WorkspaceID:    ws.Root,
			WorkspaceName:  ws.Name,
			Source:         aicf.SourceClaudeCLI,
			Timestamp:      first,
			LastModified:   last,
			RawData: map[string]any{
				"sessionId": sessionID,
				"lines":     lines,
			},
			Messages: messages,
		})
	}

	return records, stats, nil
}

type jsonlEvent struct {
	UUID      string          `json:"uuid"`
	Type      string          `json:"type"`
	Message   json.RawMessage `json:"message,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
	Cwd       string          `json:"cwd,omitempty"`
	GitBranch string          `json:"gitBranch,omitempty"`
}

// claudeMessage's Content is itself two-shaped, the same way the outer
// jsonlEvent.Message is: a plain string for a simple turn, or an array
// of content blocks for anything with tool calls, thinking, or mixed
// content. json.RawMessage here lets parseContent branch on the actual
// shape instead of assuming it is always the block-array form.
type claudeMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
	Usage   *tokenUsage     `json:"usage,omitempty"`
}

type tokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type contentBlock struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	Thinking string          `json:"thinking,omitempty"`
	Name     string          `json:"name,omitempty"`
	Input    json.RawMessage `json:"input,omitempty"`
	Content  string          `json:"content,omitempty"`
}

// parseSession reads one JSONL file and returns the raw lines kept (for
// hashing), the normalized messages, and seen/skipped counts.
func parseSession(path, sessionID string) ([]string, []aicf.Message, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, 0, 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxScanTokenSize)

	var lines []string
	var messages []aicf.Message
	seen, skipped := 0, 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		seen++

		var ev jsonlEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			skipped++
			continue
		}
		if ev.Type != "message" && ev.Type != "user" && ev.Type != "assistant" {
			continue
		}

		msg, ok := parseEvent(ev)
		if !ok {
			skipped++
			continue
		}

		lines = append(lines, line)
		messages = append(messages, msg)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, seen, skipped, err
	}

	return lines, messages, seen, skipped, nil
}

func parseEvent(ev jsonlEvent) (aicf.Message, bool) {
	role := ev.Type
	if role == "message" {
		role = "user"
	}

	timestamp := time.Now()
	if ev.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, ev.Timestamp); err == nil {
			timestamp = ts
		}
	}

	// Messages are either a bare string or a {role, content} structure;
	// both shapes must be accepted.
	var plain string
	if err := json.Unmarshal(ev.Message, &plain); err == nil && plain != "" {
		return aicf.Message{Role: role, Text: plain, Timestamp: timestamp, Metadata: eventMetadata(ev, nil, "")}, true
	}

	var cm claudeMessage
	if err := json.Unmarshal(ev.Message, &cm); err != nil {
		return aicf.Message{}, false
	}
	if cm.Role != "" {
		role = cm.Role
	}

	text, toolCalls, thinking := parseContent(cm.Content)
	if text == "" && len(toolCalls) == 0 && thinking == "" {
		return aicf.Message{}, false
	}

	return aicf.Message{
		Role:      role,
		Text:      text,
		Timestamp: timestamp,
		ToolCalls: toolCalls,
		Metadata:  eventMetadata(ev, cm.Usage, thinking),
	}, true
}

// eventMetadata carries the context spec.md §4.1 asks downstream
// extraction to have access to but that doesn't fit Message's
// normalized Role/Text/ToolCalls shape: token usage, thinking-block
// text, working directory, and git branch. Returns nil rather than an
// empty map when none of it is present, so callers with no metadata
// don't carry a pointless allocation through to the cache.
func eventMetadata(ev jsonlEvent, usage *tokenUsage, thinking string) map[string]any {
	meta := map[string]any{}
	if ev.Cwd != "" {
		meta["cwd"] = ev.Cwd
	}
	if ev.GitBranch != "" {
		meta["gitBranch"] = ev.GitBranch
	}
	if usage != nil {
		meta["inputTokens"] = usage.InputTokens
		meta["outputTokens"] = usage.OutputTokens
	}
	if thinking != "" {
		meta["thinking"] = thinking
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}

// parseContent accepts content's two shapes: a bare string for a
// simple turn, or an array of content blocks for anything with tool
// calls, thinking, or mixed content.
func parseContent(raw json.RawMessage) (string, []aicf.ToolCall, string) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil, ""
	}

	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return "", nil, ""
	}
	return extractContent(blocks)
}

func extractContent(blocks []contentBlock) (string, []aicf.ToolCall, string) {
	var textParts []string
	var thinkingParts []string
	var toolCalls []aicf.ToolCall

	for _, block := range blocks {
		switch block.Type {
		case "text":
			if block.Text != "" {
				textParts = append(textParts, block.Text)
			}
		case "thinking":
			if block.Thinking != "" {
				thinkingParts = append(thinkingParts, block.Thinking)
			}
		case "tool_use":
			toolCalls = append(toolCalls, aicf.ToolCall{Name: block.Name})
		case "tool_result":
			if block.Content != "" && len(toolCalls) > 0 {
				toolCalls[len(toolCalls)-1].Detail = block.Content
			}
		}
	}

	return strings.Join(textParts, "\n"), toolCalls, strings.Join(thinkingParts, "\n")
}
