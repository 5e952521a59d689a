package producer

import (
	"context"
	"fmt"

	"github.com/eventhub/datagen/internal/models"
)

// Fallback synthesizes a deterministic field set for the seq-th record of an
// entity type. Used to pad short or failed producer batches so a batch problem
// never fails the run.
func Fallback(entity models.EntityType, seq int) FieldSet {
	switch entity {
	case models.EntityUsers:
		return FieldSet{
			"full_name": fmt.Sprintf("Placeholder User %d", seq),
			"email":     fmt.Sprintf("user%d@example.com", seq),
		}
	case models.EntityVenues:
		return FieldSet{
			"name":    fmt.Sprintf("Venue %d", seq),
			"address": fmt.Sprintf("%d Main Street", 100+seq),
		}
	case models.EntityEvents:
		return FieldSet{
			"title":       fmt.Sprintf("Event %d", seq),
			"description": "Details to be announced.",
		}
	case models.EntityTickets:
		return FieldSet{
			"subject":     fmt.Sprintf("Support request %d", seq),
			"description": "Customer reported an issue with their account.",
		}
	case models.EntityKBArticles:
		return FieldSet{
			"title":   fmt.Sprintf("Help Article %d", seq),
			"content": "This article is being written.",
			"tags":    "general",
		}
	}
	return FieldSet{}
}

// Static is a FieldProducer that only ever returns Fallback values. Useful for
// offline runs and tests.
type Static struct {
	seq map[models.EntityType]int
}

func NewStatic() *Static {
	return &Static{seq: make(map[models.EntityType]int)}
}

func (s *Static) ProduceFields(_ context.Context, entity models.EntityType, count int, _ map[string]string) ([]FieldSet, error) {
	sets := make([]FieldSet, 0, count)
	for i := 0; i < count; i++ {
		s.seq[entity]++
		sets = append(sets, Fallback(entity, s.seq[entity]))
	}
	return sets, nil
}
