package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aicf-dev/aicf/internal/aicf"
)

func TestIntentExtractor_ClassifiesQuestion(t *testing.T) {
	e := NewIntentExtractor(nil)
	messages := []aicf.Message{
		{Role: "user", Text: "how do I configure the watcher polling interval", Timestamp: time.Now()},
	}

	intents := e.Extract(messages)
	assert.Len(t, intents, 1)
	assert.Equal(t, "question", intents[0].Intent)
	assert.Equal(t, aicf.ConfidenceHigh, intents[0].Confidence)
}

func TestIntentExtractor_SkipsShortAcknowledgements(t *testing.T) {
	e := NewIntentExtractor(nil)
	messages := []aicf.Message{
		{Role: "user", Text: "ok", Timestamp: time.Now()},
		{Role: "user", Text: "thanks!", Timestamp: time.Now()},
	}

	assert.Empty(t, e.Extract(messages))
}

func TestIntentExtractor_IgnoresAssistantMessages(t *testing.T) {
	e := NewIntentExtractor(nil)
	messages := []aicf.Message{
		{Role: "assistant", Text: "how do I know this will work", Timestamp: time.Now()},
	}

	assert.Empty(t, e.Extract(messages))
}
