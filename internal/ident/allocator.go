// Package ident allocates collision-free sequential identifiers per entity
// type (u_00001, e_00042, kb_00007, ...).
package ident

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/eventhub/datagen/internal/models"
	"github.com/eventhub/datagen/internal/sink"
)

// Allocator hands out monotonically increasing identifiers. Identifiers given
// to candidates that are later rejected are never reissued; only appended
// records need to be collision-free.
type Allocator struct {
	next map[models.EntityType]int
}

// NewAllocator seeds every entity counter to one past the highest sequence
// number already present in the sink, so resumed runs never collide with
// earlier output.
func NewAllocator(s sink.Sink) (*Allocator, error) {
	a := &Allocator{next: make(map[models.EntityType]int)}
	for _, entity := range models.AllEntityTypes() {
		raws, err := s.ReadAll(entity)
		if err != nil {
			return nil, fmt.Errorf("seed %s allocator: %w", entity, err)
		}
		max := 0
		for _, raw := range raws {
			var rec struct {
				UserID        string `json:"user_id"`
				VenueID       string `json:"venue_id"`
				EventID       string `json:"event_id"`
				ReservationID string `json:"reservation_id"`
				TicketID      string `json:"ticket_id"`
				ArticleID     string `json:"article_id"`
			}
			if err := json.Unmarshal(raw, &rec); err != nil {
				continue
			}
			var id string
			switch entity {
			case models.EntityUsers:
				id = rec.UserID
			case models.EntityVenues:
				id = rec.VenueID
			case models.EntityEvents:
				id = rec.EventID
			case models.EntityReservations:
				id = rec.ReservationID
			case models.EntityTickets:
				id = rec.TicketID
			case models.EntityKBArticles:
				id = rec.ArticleID
			}
			if n, ok := Sequence(entity, id); ok && n > max {
				max = n
			}
		}
		a.next[entity] = max + 1
	}
	return a, nil
}

// NextID returns the next identifier for the entity type.
func (a *Allocator) NextID(entity models.EntityType) string {
	n := a.next[entity]
	if n == 0 {
		n = 1
	}
	a.next[entity] = n + 1
	return fmt.Sprintf("%s_%05d", entity.IDPrefix(), n)
}

// Sequence parses the numeric suffix of an identifier for the given entity
// type. It returns false for identifiers that do not match the expected
// prefix_NNNNN shape.
func Sequence(entity models.EntityType, id string) (int, bool) {
	prefix := entity.IDPrefix() + "_"
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
