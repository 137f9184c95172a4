package recall

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	chromem "github.com/philippgille/chromem-go"
)

// hashedNGramDim is the embedding width. chromem-go stores vectors as
// plain float32 slices, so any fixed width works as long as every
// call uses the same one; 512 keeps hash collisions rare for the
// short decision/title strings this index holds.
const hashedNGramDim = 512

// HashedNGramVectorizer is a local, dependency-free text embedder: it
// hashes character trigrams into a fixed-width bag-of-n-grams vector
// and L2-normalizes it, so cosine similarity behaves like a cheap
// lexical-overlap score. This replaces the teacher's fastembed-go
// ONNX embedder, which needs a model binary download at runtime — out
// of place for a tool whose whole premise is operating purely on
// local state (see DESIGN.md).
type HashedNGramVectorizer struct {
	dim int
	n   int
}

// NewHashedNGramVectorizer builds a vectorizer with the package's
// fixed dimension and trigram width.
func NewHashedNGramVectorizer() *HashedNGramVectorizer {
	return &HashedNGramVectorizer{dim: hashedNGramDim, n: 3}
}

// Embed implements chromem.EmbeddingFunc's signature so it can be
// passed directly to chromem.DB.GetOrCreateCollection.
func (v *HashedNGramVectorizer) Embed(_ context.Context, text string) ([]float32, error) {
	return v.vector(text), nil
}

// AsChromemFunc adapts Embed to chromem.EmbeddingFunc's named type.
func (v *HashedNGramVectorizer) AsChromemFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return v.Embed(ctx, text)
	}
}

func (v *HashedNGramVectorizer) vector(text string) []float32 {
	vec := make([]float32, v.dim)
	normalized := normalize(text)
	if len(normalized) < v.n {
		if len(normalized) > 0 {
			bucket(vec, normalized)
		}
		return l2Normalize(vec)
	}
	for i := 0; i+v.n <= len(normalized); i++ {
		bucket(vec, normalized[i:i+v.n])
	}
	return l2Normalize(vec)
}

func bucket(vec []float32, gram string) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(gram))
	vec[int(h.Sum32())%len(vec)]++
}

func normalize(text string) string {
	var b strings.Builder
	lastWasSpace := true
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastWasSpace = false
		case !lastWasSpace:
			b.WriteRune(' ')
			lastWasSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

func l2Normalize(vec []float32) []float32 {
	var sumSquares float64
	for _, x := range vec {
		sumSquares += float64(x) * float64(x)
	}
	if sumSquares == 0 {
		return vec
	}
	norm := float32(1.0 / math.Sqrt(sumSquares))
	for i := range vec {
		vec[i] *= norm
	}
	return vec
}
