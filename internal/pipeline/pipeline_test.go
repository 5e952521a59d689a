package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub/datagen/internal/models"
	"github.com/eventhub/datagen/internal/producer"
	"github.com/eventhub/datagen/internal/sink"
)

func testCounts() map[models.EntityType]int {
	return map[models.EntityType]int{
		models.EntityUsers:        20,
		models.EntityVenues:       4,
		models.EntityEvents:       8,
		models.EntityReservations: 15,
		models.EntityKBArticles:   3,
		models.EntityTickets:      10,
	}
}

func runPipeline(t *testing.T, s sink.Sink, opts Options) *Summary {
	t.Helper()
	summary, err := New(s, producer.NewStatic()).Run(context.Background(), opts)
	require.NoError(t, err)
	return summary
}

func result(t *testing.T, summary *Summary, entity models.EntityType) EntityResult {
	t.Helper()
	for _, r := range summary.Results {
		if r.Entity == entity {
			return r
		}
	}
	t.Fatalf("no result for %s", entity)
	return EntityResult{}
}

func TestRun_GeneratesAllEntitiesInOrder(t *testing.T) {
	s := sink.NewMemorySink()
	summary := runPipeline(t, s, Options{Mode: ModeAppend, Counts: testCounts(), Seed: 7})

	require.Len(t, summary.Results, 6)
	assert.NotEmpty(t, summary.RunID)

	for _, entity := range []models.EntityType{
		models.EntityUsers, models.EntityVenues, models.EntityEvents,
		models.EntityKBArticles, models.EntityTickets,
	} {
		r := result(t, summary, entity)
		assert.NoError(t, r.Err)
		assert.Equal(t, r.Requested, r.Appended, "%s should reach its target", entity)
	}
	// Reservations may leave slots unfilled when resampling exhausts, but
	// must never overshoot.
	res := result(t, summary, models.EntityReservations)
	assert.NoError(t, res.Err)
	assert.LessOrEqual(t, res.Appended, res.Requested)
}

func TestRun_ReferentialIntegrity(t *testing.T) {
	s := sink.NewMemorySink()
	runPipeline(t, s, Options{Mode: ModeAppend, Counts: testCounts(), Seed: 11})

	users, err := sink.ReadAs[models.User](s, models.EntityUsers)
	require.NoError(t, err)
	venues, err := sink.ReadAs[models.Venue](s, models.EntityVenues)
	require.NoError(t, err)
	events, err := sink.ReadAs[models.Event](s, models.EntityEvents)
	require.NoError(t, err)
	reservations, err := sink.ReadAs[models.Reservation](s, models.EntityReservations)
	require.NoError(t, err)
	tickets, err := sink.ReadAs[models.Ticket](s, models.EntityTickets)
	require.NoError(t, err)

	userIDs := make(map[string]bool)
	for _, u := range users {
		userIDs[u.UserID] = true
	}
	venueIDs := make(map[string]bool)
	for _, v := range venues {
		venueIDs[v.VenueID] = true
	}
	eventIDs := make(map[string]bool)
	totals := make(map[string]int)
	for _, e := range events {
		eventIDs[e.EventID] = true
		totals[e.EventID] = e.TotalTickets
		assert.True(t, venueIDs[e.VenueID], "event %s venue %s", e.EventID, e.VenueID)
	}
	reservationIDs := make(map[string]bool)
	sold := make(map[string]int)
	pairs := make(map[string]bool)
	for _, r := range reservations {
		reservationIDs[r.ReservationID] = true
		assert.True(t, userIDs[r.UserID], "reservation %s user %s", r.ReservationID, r.UserID)
		assert.True(t, eventIDs[r.EventID], "reservation %s event %s", r.ReservationID, r.EventID)
		if r.Status == models.ReservationCancelled {
			continue
		}
		key := r.UserID + "|" + r.EventID
		assert.False(t, pairs[key], "duplicate active pair %s", key)
		pairs[key] = true
		sold[r.EventID] += r.TicketCount
	}
	for eventID, n := range sold {
		assert.LessOrEqual(t, n, totals[eventID], "event %s oversold", eventID)
	}
	for _, tk := range tickets {
		assert.True(t, userIDs[tk.UserID], "ticket %s user %s", tk.TicketID, tk.UserID)
		if tk.EventID != "" {
			assert.True(t, eventIDs[tk.EventID], "ticket %s event %s", tk.TicketID, tk.EventID)
		}
		if tk.ReservationID != "" {
			assert.True(t, reservationIDs[tk.ReservationID], "ticket %s reservation %s", tk.TicketID, tk.ReservationID)
		}
	}
}

func TestRun_AppendTwiceIsIdempotent(t *testing.T) {
	s := sink.NewMemorySink()
	first := runPipeline(t, s, Options{Mode: ModeAppend, Counts: testCounts(), Seed: 3})
	second := runPipeline(t, s, Options{Mode: ModeAppend, Counts: testCounts(), Seed: 5})

	// The sink rejects duplicate identifiers, so a successful second run
	// already proves the allocator resumed past the first run's output.
	for _, entity := range models.AllEntityTypes() {
		count, err := s.Count(entity)
		require.NoError(t, err)
		expected := result(t, first, entity).Appended + result(t, second, entity).Appended
		assert.Equal(t, expected, count, "%s total should be the sum of both runs", entity)
	}
}

func TestRun_RewriteMatchesFreshRun(t *testing.T) {
	s := sink.NewMemorySink()
	runPipeline(t, s, Options{Mode: ModeAppend, Counts: testCounts(), Seed: 3})
	rewrite := runPipeline(t, s, Options{Mode: ModeRewrite, Counts: testCounts(), Seed: 3})

	fresh := runPipeline(t, sink.NewMemorySink(), Options{Mode: ModeAppend, Counts: testCounts(), Seed: 3})

	for _, entity := range models.AllEntityTypes() {
		count, err := s.Count(entity)
		require.NoError(t, err)
		assert.Equal(t, result(t, rewrite, entity).Appended, count, "%s rewrite should replace prior data", entity)
		assert.Equal(t, result(t, fresh, entity).Appended, result(t, rewrite, entity).Appended,
			"%s rewrite should match a from-scratch run", entity)
	}

	// Rewrite restarts numbering from one.
	users, err := sink.ReadAs[models.User](s, models.EntityUsers)
	require.NoError(t, err)
	assert.Equal(t, "u_00001", users[0].UserID)
}

func TestRun_SkipLeavesSinkUntouched(t *testing.T) {
	s := sink.NewMemorySink()
	runPipeline(t, s, Options{Mode: ModeAppend, Counts: testCounts(), Seed: 3})
	before, _ := s.Count(models.EntityUsers)

	summary := runPipeline(t, s, Options{
		Mode:   ModeAppend,
		Counts: testCounts(),
		Seed:   9,
		Skip:   []models.EntityType{models.EntityUsers},
	})

	assert.True(t, result(t, summary, models.EntityUsers).Skipped)
	after, _ := s.Count(models.EntityUsers)
	assert.Equal(t, before, after)

	// Downstream entities still run: users exist from the first run.
	assert.NoError(t, result(t, summary, models.EntityReservations).Err)
}

func TestRun_MissingUpstreamAbortsDependents(t *testing.T) {
	s := sink.NewMemorySink()
	summary := runPipeline(t, s, Options{
		Mode:   ModeAppend,
		Counts: testCounts(),
		Skip:   []models.EntityType{models.EntityVenues},
		Seed:   3,
	})

	// No venues were ever generated, so events abort, and everything
	// depending on events aborts with them.
	assert.Error(t, result(t, summary, models.EntityEvents).Err)
	assert.Error(t, result(t, summary, models.EntityReservations).Err)
	assert.Error(t, result(t, summary, models.EntityTickets).Err)

	// Independent entities are unaffected.
	assert.NoError(t, result(t, summary, models.EntityUsers).Err)
	assert.NoError(t, result(t, summary, models.EntityKBArticles).Err)

	count, _ := s.Count(models.EntityEvents)
	assert.Equal(t, 0, count)
}

func TestRun_FixedSeedIsDeterministic(t *testing.T) {
	s1 := sink.NewMemorySink()
	s2 := sink.NewMemorySink()
	runPipeline(t, s1, Options{Mode: ModeAppend, Counts: testCounts(), Seed: 42})
	runPipeline(t, s2, Options{Mode: ModeAppend, Counts: testCounts(), Seed: 42})

	r1, err := sink.ReadAs[models.Reservation](s1, models.EntityReservations)
	require.NoError(t, err)
	r2, err := sink.ReadAs[models.Reservation](s2, models.EntityReservations)
	require.NoError(t, err)
	require.Equal(t, len(r1), len(r2))
	for i := range r1 {
		assert.Equal(t, r1[i].UserID, r2[i].UserID)
		assert.Equal(t, r1[i].EventID, r2[i].EventID)
		assert.Equal(t, r1[i].TicketCount, r2[i].TicketCount)
	}
}
