package sink

import (
	"encoding/json"
	"fmt"

	"github.com/eventhub/datagen/internal/models"
)

// MemorySink keeps collections in memory with the same semantics as the file
// sink. Used for tests and dry runs.
type MemorySink struct {
	records map[models.EntityType][]json.RawMessage
	ids     map[models.EntityType]map[string]struct{}
}

func NewMemorySink() *MemorySink {
	return &MemorySink{
		records: make(map[models.EntityType][]json.RawMessage),
		ids:     make(map[models.EntityType]map[string]struct{}),
	}
}

func (s *MemorySink) Append(entity models.EntityType, record models.Record) error {
	id := record.RecordID()
	if _, ok := s.ids[entity][id]; ok {
		return fmt.Errorf("%s %q: %w", entity, id, ErrDuplicateID)
	}
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", entity, err)
	}
	if s.ids[entity] == nil {
		s.ids[entity] = make(map[string]struct{})
	}
	s.records[entity] = append(s.records[entity], line)
	s.ids[entity][id] = struct{}{}
	return nil
}

func (s *MemorySink) ReadAll(entity models.EntityType) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(s.records[entity]))
	copy(out, s.records[entity])
	return out, nil
}

func (s *MemorySink) Clear(entity models.EntityType) error {
	delete(s.records, entity)
	delete(s.ids, entity)
	return nil
}

func (s *MemorySink) Count(entity models.EntityType) (int, error) {
	return len(s.records[entity]), nil
}
