package generator

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eventhub/datagen/internal/ident"
	"github.com/eventhub/datagen/internal/models"
	"github.com/eventhub/datagen/internal/producer"
	"github.com/eventhub/datagen/internal/sink"
	"github.com/eventhub/datagen/internal/tracker"
)

// newDeps builds a fully wired Deps over a fresh in-memory sink.
func newDeps(t *testing.T) (*Deps, *sink.MemorySink) {
	t.Helper()
	s := sink.NewMemorySink()
	alloc, err := ident.NewAllocator(s)
	require.NoError(t, err)
	return &Deps{
		Tracker:  tracker.New(time.Now()),
		Alloc:    alloc,
		Sink:     s,
		Producer: producer.NewStatic(),
		Rand:     rand.New(rand.NewSource(1)),
	}, s
}

func addVenue(t *testing.T, deps *Deps, s *sink.MemorySink, id string, capacity int) models.Venue {
	t.Helper()
	v := models.Venue{
		VenueID:  id,
		Name:     "Venue " + id,
		City:     "San Francisco",
		State:    "CA",
		Capacity: capacity,
		Category: models.CategoryComedy,
	}
	require.NoError(t, s.Append(models.EntityVenues, v))
	deps.Tracker.AddVenue(v)
	return v
}

func addUser(t *testing.T, deps *Deps, s *sink.MemorySink, id string, tier models.SubscriptionTier, blocked bool) models.User {
	t.Helper()
	u := models.User{
		UserID:                id,
		FullName:              "User " + id,
		Email:                 id + "@example.com",
		IsBlocked:             blocked,
		SubscriptionTier:      tier,
		SubscriptionStatus:    models.SubscriptionActive,
		MonthlyQuota:          tier.MonthlyQuota(),
		CreatedAt:             time.Now().AddDate(-1, 0, 0),
		SubscriptionStartedAt: time.Now().AddDate(-1, 0, 0),
	}
	require.NoError(t, s.Append(models.EntityUsers, u))
	deps.Tracker.AddUser(u)
	return u
}

func addEvent(t *testing.T, deps *Deps, s *sink.MemorySink, id, venueID string, total int, premium bool) models.Event {
	t.Helper()
	e := models.Event{
		EventID:      id,
		Title:        "Event " + id,
		VenueID:      venueID,
		EventDate:    time.Now().AddDate(0, 2, 0),
		PriceMin:     20,
		PriceMax:     60,
		TotalTickets: total,
		IsPremium:    premium,
		Status:       models.EventActive,
	}
	validated, err := deps.Tracker.ValidateEvent(e)
	require.NoError(t, err)
	require.NoError(t, s.Append(models.EntityEvents, validated))
	deps.Tracker.AddEvent(validated)
	return validated
}

// failingProducer always reports the gateway as unavailable.
type failingProducer struct{}

func (failingProducer) ProduceFields(context.Context, models.EntityType, int, map[string]string) ([]producer.FieldSet, error) {
	return nil, producer.ErrUnavailable
}

// shortProducer returns one field set regardless of the requested count.
type shortProducer struct{}

func (shortProducer) ProduceFields(_ context.Context, entity models.EntityType, _ int, _ map[string]string) ([]producer.FieldSet, error) {
	return []producer.FieldSet{producer.Fallback(entity, 999)}, nil
}
