package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aicf-dev/aicf/internal/aicf"
)

func TestActionExtractor_DetectsPastTenseVerb(t *testing.T) {
	e := NewActionExtractor(nil)
	messages := []aicf.Message{
		{Role: "assistant", Text: "I fixed the race condition in the file watcher.", Timestamp: time.Now()},
	}

	actions := e.Extract(messages)
	require.NotEmpty(t, actions)
	assert.Equal(t, "fixed", actions[0].Type)
}

func TestActionExtractor_DetectsFilePathMention(t *testing.T) {
	e := NewActionExtractor(nil)
	messages := []aicf.Message{
		{Role: "assistant", Text: "updated internal/cachestore/store.go to add duplicate detection", Timestamp: time.Now()},
	}

	actions := e.Extract(messages)
	var gotPath bool
	for _, a := range actions {
		if a.Type == "file_reference" {
			gotPath = true
			assert.Contains(t, a.Details, "internal/cachestore/store.go")
		}
	}
	assert.True(t, gotPath)
}

func TestActionExtractor_EmitsToolCallActions(t *testing.T) {
	e := NewActionExtractor(nil)
	messages := []aicf.Message{
		{
			Role:      "assistant",
			Text:      "running the edit now",
			Timestamp: time.Now(),
			ToolCalls: []aicf.ToolCall{{Name: "str-replace-editor", Detail: "internal/foo.go"}},
		},
	}

	actions := e.Extract(messages)
	var gotTool bool
	for _, a := range actions {
		if a.Type == "tool_call:str-replace-editor" {
			gotTool = true
		}
	}
	assert.True(t, gotTool)
}

func TestActionExtractor_IgnoresUserMessages(t *testing.T) {
	e := NewActionExtractor(nil)
	messages := []aicf.Message{
		{Role: "user", Text: "I fixed it myself already", Timestamp: time.Now()},
	}

	assert.Empty(t, e.Extract(messages))
}
