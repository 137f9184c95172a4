package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aicf-dev/aicf/internal/aicf"
)

func TestTechnicalWorkExtractor_DetectsLanguageAndArchitecture(t *testing.T) {
	e := NewTechnicalWorkExtractor(nil, nil)
	messages := []aicf.Message{
		{Role: "assistant", Text: "I updated the go.mod and wired a new kubernetes deployment.yaml", Timestamp: time.Now()},
	}

	work := e.Extract(messages)

	var sawGolang, sawK8s bool
	for _, w := range work {
		if w.Type == "technology" && w.Description == "golang" {
			sawGolang = true
		}
		if w.Type == "architecture" && w.Description == "kubernetes" {
			sawK8s = true
		}
	}
	assert.True(t, sawGolang)
	assert.True(t, sawK8s)
}

func TestTechnicalWorkExtractor_DeduplicatesAcrossMessages(t *testing.T) {
	e := NewTechnicalWorkExtractor(nil, nil)
	messages := []aicf.Message{
		{Role: "assistant", Text: "using golang for this", Timestamp: time.Now()},
		{Role: "assistant", Text: "golang again here", Timestamp: time.Now()},
	}

	work := e.Extract(messages)
	count := 0
	for _, w := range work {
		if w.Description == "golang" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
