package generator

import (
	"context"
	"fmt"

	"github.com/eventhub/datagen/internal/models"
)

// Venues generates event venues with category-bounded capacities.
// Independent: no upstream input.
type Venues struct{}

func (Venues) EntityType() models.EntityType     { return models.EntityVenues }
func (Venues) Dependencies() []models.EntityType { return nil }

func (g Venues) GenerateBatch(ctx context.Context, count int, deps *Deps) (int, error) {
	sets := fetchFieldSets(ctx, deps, models.EntityVenues, count, nil)

	appended := 0
	for _, fs := range sets {
		id := deps.Alloc.NextID(models.EntityVenues)
		category := venueCategories[deps.Rand.Intn(len(venueCategories))]
		area := bayAreaCities[deps.Rand.Intn(len(bayAreaCities))]

		v := models.Venue{
			VenueID:      id,
			Name:         field(fs, "name", "Venue "+id),
			Address:      field(fs, "address", "1 Market Street"),
			Neighborhood: area.neighborhoods[deps.Rand.Intn(len(area.neighborhoods))],
			City:         area.city,
			State:        area.state,
			Capacity:     capacityRanges[category].sample(deps.Rand),
			Category:     category,
		}

		if err := deps.Sink.Append(models.EntityVenues, v); err != nil {
			return appended, fmt.Errorf("append venue %s: %w", v.VenueID, err)
		}
		deps.Tracker.AddVenue(v)
		appended++
	}
	return appended, nil
}
