package memoryfile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aicf-dev/aicf/internal/aicf"
)

func TestRenderMarkdown_ContainsAllSections(t *testing.T) {
	md := RenderMarkdown(sampleResult())

	assert.Contains(t, md, "# Conversation Analysis")
	assert.Contains(t, md, "## User Intents")
	assert.Contains(t, md, "## AI Actions")
	assert.Contains(t, md, "## Technical Work")
	assert.Contains(t, md, "## Decisions")
	assert.Contains(t, md, "## Flow")
	assert.Contains(t, md, "## Working State")
	assert.Contains(t, md, "conv-1")
}

func TestRenderMarkdown_EmptySectionsSayNoneDetected(t *testing.T) {
	md := RenderMarkdown(aicf.AnalysisResult{ConversationID: "empty"})
	assert.Contains(t, md, "_none detected_")
}
