// Package generator contains one record generator per entity type. All
// generators share the same contract: compose creative fields from the
// producer with allocator identifiers and rule-table fields, submit the
// candidate to the tracker, and append accepted records to the sink.
package generator

import (
	"context"
	"log"
	"math/rand"

	"github.com/eventhub/datagen/internal/ident"
	"github.com/eventhub/datagen/internal/models"
	"github.com/eventhub/datagen/internal/producer"
	"github.com/eventhub/datagen/internal/sink"
	"github.com/eventhub/datagen/internal/tracker"
)

// maxAttempts bounds how many fresh candidates a generator tries for a single
// slot before counting it unfilled.
const maxAttempts = 5

// Deps carries everything a generator needs for one batch. The tracker is the
// only invariant authority; generators never share mutable state directly.
type Deps struct {
	Tracker  *tracker.Tracker
	Alloc    *ident.Allocator
	Sink     sink.Sink
	Producer producer.FieldProducer
	Rand     *rand.Rand
	Upstream Upstream
}

// Upstream holds the fully materialized collections a dependent generator
// samples from. The orchestrator loads only the fields its generator declares.
type Upstream struct {
	Users        []models.User
	Venues       []models.Venue
	Events       []models.Event
	Reservations []models.Reservation
}

// Generator produces records for one entity type.
type Generator interface {
	EntityType() models.EntityType
	Dependencies() []models.EntityType
	// GenerateBatch tries to append count records and returns how many were
	// actually accepted.
	GenerateBatch(ctx context.Context, count int, deps *Deps) (int, error)
}

// All returns one generator per entity type in canonical order.
func All() []Generator {
	return []Generator{
		Users{},
		Venues{},
		Events{},
		Articles{},
		Reservations{},
		Tickets{},
	}
}

// fetchFieldSets gathers exactly count creative field sets, requesting them in
// batches and padding shortfalls with deterministic fallbacks. Producer
// failures degrade; they never fail the run.
func fetchFieldSets(ctx context.Context, deps *Deps, entity models.EntityType, count int, genCtx map[string]string) []producer.FieldSet {
	batchSize := producerBatchSizes[entity]
	if batchSize <= 0 {
		batchSize = 10
	}

	sets := make([]producer.FieldSet, 0, count)
	for len(sets) < count {
		want := count - len(sets)
		if want > batchSize {
			want = batchSize
		}
		batch, err := deps.Producer.ProduceFields(ctx, entity, want, genCtx)
		if err != nil {
			log.Printf("[Generator] %s field batch failed, padding with fallbacks: %v", entity, err)
			break
		}
		if len(batch) < want {
			log.Printf("[Generator] %s field batch short: got %d of %d", entity, len(batch), want)
		}
		sets = append(sets, batch...)
		if len(batch) == 0 {
			break
		}
	}
	for i := len(sets); i < count; i++ {
		sets = append(sets, producer.Fallback(entity, i+1))
	}
	return sets
}

// field reads a producer field with a fallback default for missing keys.
func field(fs producer.FieldSet, key, def string) string {
	if v, ok := fs[key]; ok && v != "" {
		return v
	}
	return def
}
