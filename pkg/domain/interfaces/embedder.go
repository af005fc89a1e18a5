package interfaces

import "context"

// Embedder converts content into a fixed-dimension vector. The reference
// implementation is a deterministic hash-based pseudo-embedding; a real
// embedding service can be substituted here without touching search logic.
type Embedder interface {
	// Embed returns the embedding of the content. Content with no tokens
	// yields the zero vector.
	Embed(ctx context.Context, content string) ([]float64, error)

	// Dimension returns the fixed length of produced vectors
	Dimension() int
}
