package semantic

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/bottega-lab/maestro/pkg/domain/interfaces"
	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/bottega-lab/maestro/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// DefaultSearchLimit caps results when the caller gives no limit
	DefaultSearchLimit = 5
	// DefaultMinScore drops matches below this similarity when the caller
	// gives no threshold
	DefaultMinScore = 0.1
)

// SearchQuery describes one semantic search
type SearchQuery struct {
	Query     string
	Namespace *types.Namespace
	// Tags filters to entries carrying at least one of these tags
	Tags  []string
	Limit int
	// MinScore drops matches below this similarity. Zero means
	// DefaultMinScore; pass a negative value for no threshold.
	MinScore float64
}

// Service is the namespace-partitioned semantic store. Every query is a
// brute-force cosine scan over the candidate set, which is acceptable for a
// small process-local corpus.
type Service struct {
	memories interfaces.MemoryRepository
	embedder interfaces.Embedder
}

// New creates a semantic store over the given repository and embedder
func New(memories interfaces.MemoryRepository, embedder interfaces.Embedder) *Service {
	return &Service{
		memories: memories,
		embedder: embedder,
	}
}

// Store embeds the content and persists a new entry
func (s *Service) Store(ctx context.Context, namespace types.Namespace, content string, metadata map[string]any, source string, tags []string) (*model.MemoryEntry, error) {
	if content == "" {
		return nil, goerr.New("memory content is required")
	}
	if !namespace.IsValid() {
		return nil, goerr.New("invalid memory namespace", goerr.V("namespace", namespace))
	}

	embedding, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed content")
	}

	entry := &model.MemoryEntry{
		Namespace: namespace,
		Content:   content,
		Metadata:  metadata,
		Source:    source,
		Tags:      tags,
		Embedding: embedding,
	}

	created, err := s.memories.Create(ctx, entry)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store memory entry")
	}

	logging.From(ctx).Debug("memory stored",
		"memoryID", created.ID, "namespace", namespace, "tags", tags)
	return created, nil
}

// Search embeds the query, scores every candidate by cosine similarity,
// keeps matches at or above MinScore and returns the top Limit, best first.
// Search is not read-only: every returned entry has its access count
// incremented and its last-accessed time refreshed.
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]*model.MemoryMatch, error) {
	if q.Query == "" {
		return nil, goerr.New("search query is required")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	minScore := q.MinScore
	switch {
	case minScore == 0:
		minScore = DefaultMinScore
	case minScore < 0:
		minScore = 0
	}

	queryVec, err := s.embedder.Embed(ctx, q.Query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed query")
	}

	candidates, err := s.memories.List(ctx, q.Namespace)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list memory entries")
	}

	var matches []*model.MemoryMatch
	for _, entry := range candidates {
		if len(q.Tags) > 0 && !anyTagMatches(entry.Tags, q.Tags) {
			continue
		}
		score := cosineSimilarity(queryVec, entry.Embedding)
		if score >= minScore {
			matches = append(matches, &model.MemoryMatch{Entry: entry, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	if len(matches) > 0 {
		now := time.Now().UTC()
		ids := make([]types.MemoryID, 0, len(matches))
		for _, m := range matches {
			ids = append(ids, m.Entry.ID)
			m.Entry.AccessCount++
			m.Entry.LastAccessedAt = now
		}
		if err := s.memories.Touch(ctx, ids, now); err != nil {
			logging.From(ctx).Error("failed to record memory access", "error", err)
		}
	}

	return matches, nil
}

// Get retrieves an entry by ID
func (s *Service) Get(ctx context.Context, id types.MemoryID) (*model.MemoryEntry, error) {
	return s.memories.Get(ctx, id)
}

// Delete removes an entry. Deletion is the only way an entry leaves the
// store.
func (s *Service) Delete(ctx context.Context, id types.MemoryID) error {
	if err := s.memories.Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete memory entry", goerr.V("memoryID", id))
	}
	return nil
}

// List retrieves entries, optionally scoped to a namespace
func (s *Service) List(ctx context.Context, namespace *types.Namespace) ([]*model.MemoryEntry, error) {
	return s.memories.List(ctx, namespace)
}

// Stats summarizes the store contents
func (s *Service) Stats(ctx context.Context) (*model.MemoryStats, error) {
	return s.memories.Stats(ctx)
}

func anyTagMatches(entryTags, queryTags []string) bool {
	for _, qt := range queryTags {
		for _, et := range entryTags {
			if qt == et {
				return true
			}
		}
	}
	return false
}

// cosineSimilarity is well-defined for all stored entries because every
// embedding shares the same fixed dimension
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
