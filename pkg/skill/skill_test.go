package skill_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/bottega-lab/maestro/pkg/domain/interfaces"
	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/bottega-lab/maestro/pkg/repository/memory"
	"github.com/bottega-lab/maestro/pkg/service/notify"
	"github.com/bottega-lab/maestro/pkg/service/registry"
	"github.com/bottega-lab/maestro/pkg/service/semantic"
	"github.com/bottega-lab/maestro/pkg/skill"
)

// blockingMemories parks the first List call until released, holding a
// maintenance pass open so an overlapping run can be observed
type blockingMemories struct {
	interfaces.MemoryRepository
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (r *blockingMemories) List(ctx context.Context, ns *types.Namespace) ([]*model.MemoryEntry, error) {
	r.once.Do(func() {
		close(r.entered)
		<-r.release
	})
	return r.MemoryRepository.List(ctx, ns)
}

func newMemoryService() *semantic.Service {
	return semantic.New(memory.New().Memories(), semantic.NewHashEmbedder())
}

func sctxWith(payload map[string]any) *model.SkillContext {
	return model.NewSkillContext(payload, types.TriggerKindManual, "test")
}

func TestProductEnrichment(t *testing.T) {
	ctx := context.Background()

	t.Run("validate requires a product id", func(t *testing.T) {
		s := skill.NewProductEnrichment(newMemoryService())

		gt.Value(t, s.Validate(ctx, sctxWith(nil))).NotEqual("")
		gt.Value(t, s.Validate(ctx, sctxWith(map[string]any{"id": 42}))).NotEqual("")
		gt.Value(t, s.Validate(ctx, sctxWith(map[string]any{"id": "p1"}))).Equal("")
	})

	t.Run("stores title and description into the products namespace", func(t *testing.T) {
		mem := newMemoryService()
		s := skill.NewProductEnrichment(mem)

		result, err := s.Execute(ctx, sctxWith(map[string]any{
			"id":          "p1",
			"title":       "Cordless Drill",
			"description": "18V compact driver",
		}))
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Success).True()

		ns := types.NamespaceProducts
		entries, err := mem.List(ctx, &ns)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(1)
		gt.String(t, entries[0].Content).Contains("Cordless Drill")
		gt.Value(t, entries[0].Metadata["productID"]).Equal("p1")
	})

	t.Run("payload without content is skipped", func(t *testing.T) {
		s := skill.NewProductEnrichment(newMemoryService())

		result, err := s.Execute(ctx, sctxWith(map[string]any{"id": "p1"}))
		gt.NoError(t, err).Required()
		gt.Value(t, result.Status).Equal(types.ResultStatusSkipped)
	})
}

func TestMemoryMaintenance(t *testing.T) {
	ctx := context.Background()

	t.Run("prunes only stale never-accessed entries", func(t *testing.T) {
		repo := memory.New()
		mem := semantic.New(repo.Memories(), semantic.NewHashEmbedder())

		stale, err := mem.Store(ctx, types.NamespaceContent, "stale never read", nil, "test", nil)
		gt.NoError(t, err).Required()
		read, err := mem.Store(ctx, types.NamespaceContent, "stale but read once", nil, "test", nil)
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.Memories().Touch(ctx, []types.MemoryID{read.ID}, time.Now().UTC()))

		// A very short retention makes both entries old enough to consider
		time.Sleep(5 * time.Millisecond)
		s := skill.NewMemoryMaintenance(mem, time.Millisecond)

		result, err := s.Execute(ctx, sctxWith(nil))
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Success).True()
		gt.Value(t, result.Data["pruned"]).Equal(1)

		_, err = mem.Get(ctx, stale.ID)
		gt.Value(t, err).NotNil()
		_, err = mem.Get(ctx, read.ID)
		gt.NoError(t, err)
	})

	t.Run("fresh entries survive", func(t *testing.T) {
		mem := newMemoryService()
		_, err := mem.Store(ctx, types.NamespaceContent, "brand new", nil, "test", nil)
		gt.NoError(t, err).Required()

		s := skill.NewMemoryMaintenance(mem, skill.DefaultRetention)
		result, err := s.Execute(ctx, sctxWith(nil))
		gt.NoError(t, err).Required()
		gt.Value(t, result.Data["pruned"]).Equal(0)
	})

	t.Run("overlapping run reports skipped", func(t *testing.T) {
		slow := &blockingMemories{
			MemoryRepository: memory.New().Memories(),
			entered:          make(chan struct{}),
			release:          make(chan struct{}),
		}
		mem := semantic.New(slow, semantic.NewHashEmbedder())
		s := skill.NewMemoryMaintenance(mem, skill.DefaultRetention)

		firstDone := make(chan *model.SkillResult, 1)
		go func() {
			result, _ := s.Execute(ctx, sctxWith(nil))
			firstDone <- result
		}()
		<-slow.entered

		second, err := s.Execute(ctx, sctxWith(nil))
		gt.NoError(t, err).Required()
		gt.Value(t, second.Status).Equal(types.ResultStatusSkipped)

		close(slow.release)
		first := <-firstDone
		gt.Bool(t, first.Success).True()
	})
}

func TestHealthReport(t *testing.T) {
	ctx := context.Background()

	t.Run("summarizes registry health into a notification", func(t *testing.T) {
		repo := memory.New()
		reg := registry.New(repo.Executions())
		n := notify.New(repo.Notifications())

		mem := semantic.New(repo.Memories(), semantic.NewHashEmbedder())
		reg.Register(ctx, skill.NewProductEnrichment(mem))
		reg.Register(ctx, skill.NewMemoryMaintenance(mem, skill.DefaultRetention))

		s := skill.NewHealthReport(reg, n, types.ChannelConsole)
		result, err := s.Execute(ctx, sctxWith(nil))
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Success).True()
		gt.Value(t, result.Data["skills"]).Equal(2)

		history, err := n.History(ctx, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, history).Length(1)
		gt.String(t, history[0].Title).Contains("Health report")
	})

	t.Run("invalid channel falls back to console", func(t *testing.T) {
		repo := memory.New()
		reg := registry.New(repo.Executions())
		n := notify.New(repo.Notifications())

		s := skill.NewHealthReport(reg, n, types.Channel("pager"))
		_, err := s.Execute(ctx, sctxWith(nil))
		gt.NoError(t, err).Required()

		history, err := n.History(ctx, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, history).Length(1)
		gt.Value(t, history[0].Channel).Equal(types.ChannelConsole)
	})
}
