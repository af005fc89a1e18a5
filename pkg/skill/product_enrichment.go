package skill

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bottega-lab/maestro/pkg/domain/interfaces"
	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/bottega-lab/maestro/pkg/service/semantic"
)

// ProductEnrichment records what a product enrichment run worked with into
// the products namespace, so later runs and searches can build on it. The
// enrichment content itself comes from the triggering payload.
type ProductEnrichment struct {
	memory *semantic.Service
}

var _ interfaces.Skill = &ProductEnrichment{}

// NewProductEnrichment creates the skill over the memory store
func NewProductEnrichment(memory *semantic.Service) *ProductEnrichment {
	return &ProductEnrichment{memory: memory}
}

func (s *ProductEnrichment) Metadata() model.SkillMetadata {
	return model.SkillMetadata{
		Name:        NameProductEnrichment,
		Version:     "1.0.0",
		Description: "Records product enrichment notes into semantic memory",
		Tags:        []string{"products", "content"},
		Triggers:    []types.TriggerKind{types.TriggerKindEvent, types.TriggerKindWebhook, types.TriggerKindManual},
		MaxDuration: 30 * time.Second,
	}
}

func (s *ProductEnrichment) Validate(ctx context.Context, sctx *model.SkillContext) string {
	if sctx == nil || sctx.Payload == nil {
		return "payload is required"
	}
	id, ok := sctx.Payload["id"].(string)
	if !ok || id == "" {
		return "payload must carry a product id"
	}
	return ""
}

func (s *ProductEnrichment) Execute(ctx context.Context, sctx *model.SkillContext) (*model.SkillResult, error) {
	id := sctx.Payload["id"].(string)

	var parts []string
	if title, ok := sctx.Payload["title"].(string); ok && title != "" {
		parts = append(parts, title)
	}
	if desc, ok := sctx.Payload["description"].(string); ok && desc != "" {
		parts = append(parts, desc)
	}
	if len(parts) == 0 {
		return model.NewSkippedResult(fmt.Sprintf("product %s has no content to enrich", id)), nil
	}

	entry, err := s.memory.Store(ctx,
		types.NamespaceProducts,
		strings.Join(parts, " "),
		map[string]any{"productID": id},
		"skill:"+NameProductEnrichment,
		[]string{"enrichment"},
	)
	if err != nil {
		return nil, err
	}

	return model.NewSuccessResult(
		fmt.Sprintf("recorded enrichment note for product %s", id),
		map[string]any{"memoryID": entry.ID.String()},
	), nil
}

func (s *ProductEnrichment) Status() model.SkillStatus {
	return model.SkillStatus{Available: true}
}
