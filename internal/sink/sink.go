// Package sink provides the append-only record stores that back the
// generation pipeline. A record is either fully appended or not appended at
// all; committed records are never edited in place.
package sink

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/eventhub/datagen/internal/models"
)

// ErrDuplicateID is returned by Append when a record with the same identifier
// already exists for the entity type.
var ErrDuplicateID = errors.New("duplicate record identifier")

// Sink is an append-only record store with one ordered collection per entity
// type. ReadAll returns raw JSON records in insertion order so callers can
// rebuild state after a restart. Clear is only used by rewrite mode.
type Sink interface {
	Append(entity models.EntityType, record models.Record) error
	ReadAll(entity models.EntityType) ([]json.RawMessage, error)
	Clear(entity models.EntityType) error
	Count(entity models.EntityType) (int, error)
}

// DecodeAll unmarshals raw sink records into a typed slice.
func DecodeAll[T any](raws []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raws))
	for i, raw := range raws {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReadAs reads and decodes the full collection for an entity type.
func ReadAs[T any](s Sink, entity models.EntityType) ([]T, error) {
	raws, err := s.ReadAll(entity)
	if err != nil {
		return nil, err
	}
	return DecodeAll[T](raws)
}
