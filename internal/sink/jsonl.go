package sink

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eventhub/datagen/internal/models"
)

// JSONLSink stores one records file per entity type (users.jsonl, ...) under a
// base directory. Appends are synced before returning so a resumed run sees
// every record a previous run reported as accepted.
type JSONLSink struct {
	dir string
	ids map[models.EntityType]map[string]struct{}
}

// NewJSONLSink opens (creating if needed) the data directory and indexes the
// identifiers already present in each entity file.
func NewJSONLSink(dir string) (*JSONLSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &JSONLSink{
		dir: dir,
		ids: make(map[models.EntityType]map[string]struct{}),
	}
	for _, entity := range models.AllEntityTypes() {
		seen := make(map[string]struct{})
		raws, err := s.ReadAll(entity)
		if err != nil {
			return nil, err
		}
		for _, raw := range raws {
			if id := recordID(entity, raw); id != "" {
				seen[id] = struct{}{}
			}
		}
		s.ids[entity] = seen
	}
	return s, nil
}

func (s *JSONLSink) path(entity models.EntityType) string {
	return filepath.Join(s.dir, string(entity)+".jsonl")
}

func (s *JSONLSink) Append(entity models.EntityType, record models.Record) error {
	id := record.RecordID()
	if _, ok := s.ids[entity][id]; ok {
		return fmt.Errorf("%s %q: %w", entity, id, ErrDuplicateID)
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", entity, err)
	}

	f, err := os.OpenFile(s.path(entity), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s sink: %w", entity, err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append %s record: %w", entity, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s sink: %w", entity, err)
	}

	s.ids[entity][id] = struct{}{}
	return nil
}

func (s *JSONLSink) ReadAll(entity models.EntityType) ([]json.RawMessage, error) {
	f, err := os.Open(s.path(entity))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s sink: %w", entity, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		records = append(records, json.RawMessage(bytes.Clone(line)))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s sink: %w", entity, err)
	}
	return records, nil
}

func (s *JSONLSink) Clear(entity models.EntityType) error {
	if err := os.Remove(s.path(entity)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear %s sink: %w", entity, err)
	}
	s.ids[entity] = make(map[string]struct{})
	return nil
}

func (s *JSONLSink) Count(entity models.EntityType) (int, error) {
	return len(s.ids[entity]), nil
}

// recordID extracts the identifying *_id field for the entity's collection.
func recordID(entity models.EntityType, raw json.RawMessage) string {
	var key string
	switch entity {
	case models.EntityUsers:
		key = "user_id"
	case models.EntityVenues:
		key = "venue_id"
	case models.EntityEvents:
		key = "event_id"
	case models.EntityReservations:
		key = "reservation_id"
	case models.EntityTickets:
		key = "ticket_id"
	case models.EntityKBArticles:
		key = "article_id"
	default:
		return ""
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ""
	}
	var id string
	if err := json.Unmarshal(fields[key], &id); err != nil {
		return ""
	}
	return id
}
