package model

import (
	"time"

	"github.com/bottega-lab/maestro/pkg/domain/types"
)

// EmbeddingDimension is the fixed length of every stored embedding.
// All entries share it so cosine similarity is always well-defined.
const EmbeddingDimension = 256

// MemoryEntry is a unit of stored knowledge in the semantic store
type MemoryEntry struct {
	ID        types.MemoryID
	Namespace types.Namespace
	Content   string
	Metadata  map[string]any
	Source    string
	Tags      []string
	Embedding []float64

	AccessCount    int
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// MemoryMatch pairs an entry with its similarity score for one search
type MemoryMatch struct {
	Entry *MemoryEntry
	Score float64
}

// MemoryStats summarizes the store contents
type MemoryStats struct {
	Total       int
	ByNamespace map[types.Namespace]int
}
