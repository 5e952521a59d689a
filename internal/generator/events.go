package generator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/eventhub/datagen/internal/models"
	"github.com/eventhub/datagen/internal/tracker"
)

// Events generates events against loaded venues. Dependent on venues; the
// tracker rejects any candidate whose venue does not resolve and clamps the
// ticket allotment to the venue capacity.
type Events struct{}

func (Events) EntityType() models.EntityType { return models.EntityEvents }
func (Events) Dependencies() []models.EntityType {
	return []models.EntityType{models.EntityVenues}
}

func (g Events) GenerateBatch(ctx context.Context, count int, deps *Deps) (int, error) {
	venues := deps.Upstream.Venues
	if len(venues) == 0 {
		return 0, fmt.Errorf("events: no venues loaded")
	}

	sets := fetchFieldSets(ctx, deps, models.EntityEvents, count, nil)

	now := time.Now()
	appended := 0
	for _, fs := range sets {
		id := deps.Alloc.NextID(models.EntityEvents)
		venue := venues[deps.Rand.Intn(len(venues))]
		band := priceBands[venue.Category]
		priceMin := band.min + deps.Rand.Float64()*(band.max-band.min)*0.5
		priceMax := priceMin + deps.Rand.Float64()*(band.max-priceMin)

		// Ticket allotments run between 30% and 100% of the venue capacity.
		total := venue.Capacity * (30 + deps.Rand.Intn(71)) / 100
		if total < 1 {
			total = 1
		}

		e := models.Event{
			EventID:         id,
			Title:           field(fs, "title", "Event "+id),
			Description:     field(fs, "description", ""),
			VenueID:         venue.VenueID,
			EventDate:       now.AddDate(0, 0, 1+deps.Rand.Intn(180)),
			StartTime:       fmt.Sprintf("%02d:%02d", 10+deps.Rand.Intn(12), 15*deps.Rand.Intn(4)),
			DurationMinutes: 60 + 30*deps.Rand.Intn(7),
			PriceMin:        round2(priceMin),
			PriceMax:        round2(priceMax),
			TotalTickets:    total,
			TicketsSold:     0,
			IsPremium:       deps.Rand.Intn(100) < 20,
			Status:          models.EventActive,
		}

		e, err := deps.Tracker.ValidateEvent(e)
		if err != nil {
			if errors.Is(err, tracker.ErrUnknownVenue) {
				log.Printf("[Generator] dropped event candidate: %v", err)
				continue
			}
			return appended, err
		}
		if err := deps.Sink.Append(models.EntityEvents, e); err != nil {
			return appended, fmt.Errorf("append event %s: %w", e.EventID, err)
		}
		deps.Tracker.AddEvent(e)
		appended++
	}
	return appended, nil
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
