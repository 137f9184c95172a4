package recall

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashedNGramVectorizer_SimilarTextsScoreHigherThanUnrelated(t *testing.T) {
	v := NewHashedNGramVectorizer()
	ctx := context.Background()

	a, err := v.Embed(ctx, "decided to use an LRU cache for chunk lookups")
	require.NoError(t, err)
	b, err := v.Embed(ctx, "decided to use an LRU cache for record lookups")
	require.NoError(t, err)
	c, err := v.Embed(ctx, "switched the deployment target to a bare-metal cluster")
	require.NoError(t, err)

	assert.Greater(t, cosine(a, b), cosine(a, c))
}

func TestHashedNGramVectorizer_IsDeterministic(t *testing.T) {
	v := NewHashedNGramVectorizer()
	ctx := context.Background()

	a, err := v.Embed(ctx, "configure the cache layer")
	require.NoError(t, err)
	b, err := v.Embed(ctx, "configure the cache layer")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestHashedNGramVectorizer_HandlesEmptyText(t *testing.T) {
	v := NewHashedNGramVectorizer()
	vec, err := v.Embed(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, vec, hashedNGramDim)
}

func cosine(a, b []float32) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}
