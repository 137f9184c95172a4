package cachestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHash_KeyOrderIndependent(t *testing.T) {
	a := map[string]any{"b": 1, "a": 2}
	b := map[string]any{"a": 2, "b": 1}

	ha, err := ContentHash(a)
	require.NoError(t, err)
	hb, err := ContentHash(b)
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
}

func TestContentHash_DifferentContentDiffers(t *testing.T) {
	a := map[string]any{"text": "hello"}
	b := map[string]any{"text": "world"}

	ha, err := ContentHash(a)
	require.NoError(t, err)
	hb, err := ContentHash(b)
	require.NoError(t, err)

	assert.NotEqual(t, ha, hb)
}

func TestContentHash_NestedKeysSorted(t *testing.T) {
	a := map[string]any{
		"outer": map[string]any{"z": 1, "y": 2},
	}
	b := map[string]any{
		"outer": map[string]any{"y": 2, "z": 1},
	}

	ha, err := ContentHash(a)
	require.NoError(t, err)
	hb, err := ContentHash(b)
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
}

func TestContentHash_Deterministic(t *testing.T) {
	data := map[string]any{"conversationId": "abc", "text": "hi there"}

	h1, err := ContentHash(data)
	require.NoError(t, err)
	h2, err := ContentHash(data)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}
