package semantic

import (
	"context"
	"math"
	"strings"

	"github.com/bottega-lab/maestro/pkg/domain/interfaces"
	"github.com/bottega-lab/maestro/pkg/domain/model"
)

// HashEmbedder produces deterministic fixed-dimension pseudo-embeddings
// with no external dependency. Whole words are hashed into slots, and for
// words longer than two characters every contiguous 2-character substring
// contributes half weight, which captures partial morphological overlap
// between related word forms. The trade-off is hash collisions and no true
// semantics, in exchange for zero network latency.
type HashEmbedder struct {
	dimension int
}

var _ interfaces.Embedder = &HashEmbedder{}

// NewHashEmbedder creates an embedder with the store's fixed dimension
func NewHashEmbedder() *HashEmbedder {
	return &HashEmbedder{dimension: model.EmbeddingDimension}
}

// Dimension returns the fixed length of produced vectors
func (e *HashEmbedder) Dimension() int {
	return e.dimension
}

// Embed computes the embedding of the content. The result is L2-normalized;
// content with no tokens yields the zero vector.
func (e *HashEmbedder) Embed(ctx context.Context, content string) ([]float64, error) {
	vec := make([]float64, e.dimension)

	for _, token := range tokenize(content) {
		runes := []rune(token)
		vec[e.slot(runes)] += 1.0

		if len(runes) > 2 {
			for i := 0; i+2 <= len(runes); i++ {
				vec[e.slot(runes[i:i+2])] += 0.5
			}
		}
	}

	normalize(vec)
	return vec, nil
}

// slot maps a rune sequence to a vector index with a multiply-and-add
// rolling hash
func (e *HashEmbedder) slot(runes []rune) int {
	var h uint64
	for _, r := range runes {
		h = h*31 + uint64(r)
	}
	return int(h % uint64(e.dimension))
}

// tokenize lowercases the content, strips everything outside letters,
// digits, accented vowels and whitespace, and splits on whitespace
func tokenize(content string) []string {
	lowered := strings.ToLower(content)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if isTokenRune(r) {
			b.WriteRune(r)
		}
	}

	return strings.Fields(b.String())
}

func isTokenRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		return true
	}
	switch r {
	case 'à', 'á', 'â', 'ä', 'è', 'é', 'ê', 'ë', 'ì', 'í', 'î', 'ï', 'ò', 'ó', 'ô', 'ö', 'ù', 'ú', 'û', 'ü':
		return true
	}
	return false
}

func normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}
