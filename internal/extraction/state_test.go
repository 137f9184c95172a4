package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aicf-dev/aicf/internal/aicf"
)

func TestStateExtractor_FillsAllThreeFields(t *testing.T) {
	e := NewStateExtractor()
	messages := []aicf.Message{
		{Role: "assistant", Text: "Currently working on: the claudedesktop reader\nBlocker: waiting on schema confirmation\nNext: write the warp reader", Timestamp: time.Now()},
	}

	state := e.Extract(messages)
	assert.Equal(t, "the claudedesktop reader", state.CurrentTask)
	assert.Contains(t, state.Blockers, "waiting on schema confirmation")
	assert.Equal(t, "write the warp reader", state.NextAction)
}

func TestStateExtractor_LatestCurrentTaskWins(t *testing.T) {
	e := NewStateExtractor()
	messages := []aicf.Message{
		{Role: "assistant", Text: "Currently working on: reader A", Timestamp: time.Now()},
		{Role: "assistant", Text: "Currently working on: reader B", Timestamp: time.Now()},
	}

	state := e.Extract(messages)
	assert.Equal(t, "reader B", state.CurrentTask)
}

func TestStateExtractor_AccumulatesMultipleBlockers(t *testing.T) {
	e := NewStateExtractor()
	messages := []aicf.Message{
		{Role: "assistant", Text: "TODO: write tests\nblocked by: missing fixture", Timestamp: time.Now()},
	}

	state := e.Extract(messages)
	assert.Len(t, state.Blockers, 2)
}

func TestStateExtractor_NoMarkers(t *testing.T) {
	e := NewStateExtractor()
	state := e.Extract([]aicf.Message{{Role: "assistant", Text: "all done here", Timestamp: time.Now()}})
	assert.Equal(t, aicf.WorkingState{}, state)
}
