// Package producer supplies the creative free-text fields (names, titles,
// descriptions) that generators compose with mechanical ones. Producers may
// fail or return short batches; callers pad with Fallback values.
package producer

import (
	"context"
	"errors"

	"github.com/eventhub/datagen/internal/models"
)

// ErrUnavailable is returned when the producer cannot be reached or returns
// an unusable response. Generation degrades to fallback fields instead of
// propagating it.
var ErrUnavailable = errors.New("field producer unavailable")

// FieldSet holds the creative fields for one record, keyed by field name.
type FieldSet map[string]string

// FieldProducer returns up to count field sets for an entity type. It may
// return fewer than count entries; callers must handle short batches.
type FieldProducer interface {
	ProduceFields(ctx context.Context, entity models.EntityType, count int, genCtx map[string]string) ([]FieldSet, error)
}
