package semantic_test

import (
	"context"
	"math"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/service/semantic"
)

func TestHashEmbedder(t *testing.T) {
	ctx := context.Background()
	embedder := semantic.NewHashEmbedder()

	t.Run("dimension is fixed", func(t *testing.T) {
		gt.Number(t, embedder.Dimension()).Equal(model.EmbeddingDimension)

		vec, err := embedder.Embed(ctx, "anything at all")
		gt.NoError(t, err).Required()
		gt.Array(t, vec).Length(model.EmbeddingDimension)
	})

	t.Run("same content embeds identically", func(t *testing.T) {
		a, err := embedder.Embed(ctx, "cordless drill with two batteries")
		gt.NoError(t, err).Required()
		b, err := embedder.Embed(ctx, "cordless drill with two batteries")
		gt.NoError(t, err).Required()

		gt.Value(t, a).Equal(b)
	})

	t.Run("result is L2 normalized", func(t *testing.T) {
		vec, err := embedder.Embed(ctx, "normalize me please")
		gt.NoError(t, err).Required()

		var sum float64
		for _, v := range vec {
			sum += v * v
		}
		gt.Bool(t, math.Abs(sum-1.0) < 1e-9).True()
	})

	t.Run("case and punctuation do not matter", func(t *testing.T) {
		a, err := embedder.Embed(ctx, "Milwaukee M18 Drill!")
		gt.NoError(t, err).Required()
		b, err := embedder.Embed(ctx, "milwaukee m18 drill")
		gt.NoError(t, err).Required()

		gt.Value(t, a).Equal(b)
	})

	t.Run("accented vowels survive tokenization", func(t *testing.T) {
		a, err := embedder.Embed(ctx, "café")
		gt.NoError(t, err).Required()
		b, err := embedder.Embed(ctx, "caf")
		gt.NoError(t, err).Required()

		gt.Value(t, a).NotEqual(b)
	})

	t.Run("empty content yields the zero vector", func(t *testing.T) {
		vec, err := embedder.Embed(ctx, "!!! ???")
		gt.NoError(t, err).Required()

		for _, v := range vec {
			gt.Value(t, v).Equal(0.0)
		}
	})
}
