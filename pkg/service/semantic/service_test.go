package semantic_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/bottega-lab/maestro/pkg/repository/memory"
	"github.com/bottega-lab/maestro/pkg/service/semantic"
)

func newStore() *semantic.Service {
	return semantic.New(memory.New().Memories(), semantic.NewHashEmbedder())
}

func TestSemanticStore(t *testing.T) {
	ctx := context.Background()

	t.Run("store rejects empty content and bad namespace", func(t *testing.T) {
		store := newStore()

		_, err := store.Store(ctx, types.NamespaceProducts, "", nil, "test", nil)
		gt.Value(t, err).NotNil()

		_, err = store.Store(ctx, types.Namespace("warehouse"), "content", nil, "test", nil)
		gt.Value(t, err).NotNil()
	})

	t.Run("exact content scores ~1.0", func(t *testing.T) {
		store := newStore()

		_, err := store.Store(ctx, types.NamespaceProducts,
			"Milwaukee M18 cordless drill", nil, "test", nil)
		gt.NoError(t, err).Required()

		matches, err := store.Search(ctx, semantic.SearchQuery{
			Query: "Milwaukee M18 cordless drill",
		})
		gt.NoError(t, err).Required()
		gt.Array(t, matches).Length(1)
		gt.Bool(t, matches[0].Score > 0.999).True()
	})

	t.Run("overlapping words rank higher than unrelated content", func(t *testing.T) {
		store := newStore()

		drill, err := store.Store(ctx, types.NamespaceProducts,
			"Milwaukee M18 trapano a batteria compatto", nil, "test", nil)
		gt.NoError(t, err).Required()
		_, err = store.Store(ctx, types.NamespaceProducts,
			"garden hose fifty meters green", nil, "test", nil)
		gt.NoError(t, err).Required()

		matches, err := store.Search(ctx, semantic.SearchQuery{
			Query: "trapano Milwaukee",
		})
		gt.NoError(t, err).Required()
		gt.Bool(t, len(matches) >= 1).True()
		gt.Value(t, matches[0].Entry.ID).Equal(drill.ID)
		gt.Bool(t, matches[0].Score > 0.3).True()
	})

	t.Run("search increments access count of returned entries", func(t *testing.T) {
		store := newStore()

		created, err := store.Store(ctx, types.NamespaceProducts,
			"stainless kitchen knife set", nil, "test", nil)
		gt.NoError(t, err).Required()

		for i := 0; i < 3; i++ {
			matches, err := store.Search(ctx, semantic.SearchQuery{
				Query: "stainless kitchen knife set",
			})
			gt.NoError(t, err).Required()
			gt.Array(t, matches).Length(1)
		}

		entry, err := store.Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Number(t, entry.AccessCount).Equal(3)
	})

	t.Run("returned matches already carry the refreshed counters", func(t *testing.T) {
		store := newStore()

		_, err := store.Store(ctx, types.NamespaceContent,
			"spring sale landing page copy", nil, "test", nil)
		gt.NoError(t, err).Required()

		matches, err := store.Search(ctx, semantic.SearchQuery{
			Query: "spring sale landing page copy",
		})
		gt.NoError(t, err).Required()
		gt.Array(t, matches).Length(1)
		gt.Number(t, matches[0].Entry.AccessCount).Equal(1)
	})

	t.Run("namespace scoping excludes other namespaces", func(t *testing.T) {
		store := newStore()

		_, err := store.Store(ctx, types.NamespaceProducts,
			"blue running shoes size 42", nil, "test", nil)
		gt.NoError(t, err).Required()

		ns := types.NamespaceOrders
		matches, err := store.Search(ctx, semantic.SearchQuery{
			Query:     "blue running shoes",
			Namespace: &ns,
		})
		gt.NoError(t, err).Required()
		gt.Array(t, matches).Length(0)
	})

	t.Run("tag filter keeps entries sharing at least one tag", func(t *testing.T) {
		store := newStore()

		_, err := store.Store(ctx, types.NamespaceContent,
			"holiday gift guide for gadgets", nil, "test", []string{"seasonal"})
		gt.NoError(t, err).Required()
		_, err = store.Store(ctx, types.NamespaceContent,
			"holiday return policy for gadgets", nil, "test", []string{"policy"})
		gt.NoError(t, err).Required()

		matches, err := store.Search(ctx, semantic.SearchQuery{
			Query: "holiday gadgets",
			Tags:  []string{"seasonal"},
		})
		gt.NoError(t, err).Required()
		gt.Array(t, matches).Length(1)
		gt.Value(t, matches[0].Entry.Tags[0]).Equal("seasonal")
	})

	t.Run("limit caps results best first", func(t *testing.T) {
		store := newStore()

		_, err := store.Store(ctx, types.NamespaceProducts,
			"espresso machine with steel boiler", nil, "test", nil)
		gt.NoError(t, err).Required()
		_, err = store.Store(ctx, types.NamespaceProducts,
			"espresso machine compact model", nil, "test", nil)
		gt.NoError(t, err).Required()
		_, err = store.Store(ctx, types.NamespaceProducts,
			"espresso beans dark roast", nil, "test", nil)
		gt.NoError(t, err).Required()

		matches, err := store.Search(ctx, semantic.SearchQuery{
			Query: "espresso machine",
			Limit: 2,
		})
		gt.NoError(t, err).Required()
		gt.Array(t, matches).Length(2)
		gt.Bool(t, matches[0].Score >= matches[1].Score).True()
	})

	t.Run("negative min score disables the threshold", func(t *testing.T) {
		store := newStore()

		_, err := store.Store(ctx, types.NamespaceProducts,
			"leather office chair black", nil, "test", nil)
		gt.NoError(t, err).Required()

		// No shared words, so the score falls under the default threshold
		matches, err := store.Search(ctx, semantic.SearchQuery{
			Query: "yoga mat non slip",
		})
		gt.NoError(t, err).Required()
		gt.Array(t, matches).Length(0)

		matches, err = store.Search(ctx, semantic.SearchQuery{
			Query:    "yoga mat non slip",
			MinScore: -1,
		})
		gt.NoError(t, err).Required()
		gt.Array(t, matches).Length(1)
	})

	t.Run("empty query is rejected", func(t *testing.T) {
		store := newStore()

		_, err := store.Search(ctx, semantic.SearchQuery{Query: ""})
		gt.Value(t, err).NotNil()
	})
}
