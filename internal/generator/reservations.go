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

// Reservations generates bookings linking users to events. Dependent on users
// and events. Constraint violations (duplicate pair, capacity, premium tier,
// empty booking window) are resampled up to maxAttempts per slot; an exhausted
// slot stays unfilled.
type Reservations struct{}

func (Reservations) EntityType() models.EntityType { return models.EntityReservations }
func (Reservations) Dependencies() []models.EntityType {
	return []models.EntityType{models.EntityUsers, models.EntityEvents}
}

func (g Reservations) GenerateBatch(ctx context.Context, count int, deps *Deps) (int, error) {
	users := deps.Upstream.Users
	events := deps.Upstream.Events
	if len(users) == 0 || len(events) == 0 {
		return 0, fmt.Errorf("reservations: users and events must be loaded")
	}

	subjects := newSubjectSampler(users)
	now := time.Now()

	appended := 0
	skipped := 0
	for i := 0; i < count; i++ {
		accepted := false
		for attempt := 0; attempt < maxAttempts; attempt++ {
			user := subjects.sample(deps.Rand)
			event := events[deps.Rand.Intn(len(events))]

			candidate := g.newCandidate(deps, user, event, now)
			r, err := deps.Tracker.ValidateReservation(candidate)
			if err != nil {
				if isRetryable(err) {
					continue
				}
				return appended, err
			}
			if err := deps.Sink.Append(models.EntityReservations, r); err != nil {
				return appended, fmt.Errorf("append reservation %s: %w", r.ReservationID, err)
			}
			deps.Tracker.AddReservation(r)
			appended++
			accepted = true
			break
		}
		if !accepted {
			skipped++
		}
	}
	if skipped > 0 {
		log.Printf("[Generator] reservations: %d slots unfilled after %d attempts each", skipped, maxAttempts)
	}
	return appended, nil
}

func (g Reservations) newCandidate(deps *Deps, user models.User, event models.Event, now time.Time) models.Reservation {
	ticketCount := 1 + deps.Rand.Intn(4)
	price := event.PriceMin + deps.Rand.Float64()*(event.PriceMax-event.PriceMin)

	// Booked somewhere in the 90 days leading up to the event, capped at now.
	booking := event.EventDate.AddDate(0, 0, -1-deps.Rand.Intn(90))
	if booking.After(now) {
		booking = now
	}

	return models.Reservation{
		ReservationID: deps.Alloc.NextID(models.EntityReservations),
		UserID:        user.UserID,
		EventID:       event.EventID,
		TicketCount:   ticketCount,
		TotalPrice:    round2(price * float64(ticketCount)),
		Status:        pickWeighted(deps.Rand, reservationStatusMix),
		BookingDate:   booking,
		PaymentMethod: paymentMethods[deps.Rand.Intn(len(paymentMethods))],
	}
}

// isRetryable reports whether a validation failure warrants resampling with a
// different user/event pick rather than aborting the batch.
func isRetryable(err error) bool {
	return errors.Is(err, tracker.ErrDuplicateBooking) ||
		errors.Is(err, tracker.ErrCapacityExceeded) ||
		errors.Is(err, tracker.ErrPremiumRequired) ||
		errors.Is(err, tracker.ErrBookingWindow) ||
		errors.Is(err, tracker.ErrUnknownUser) ||
		errors.Is(err, tracker.ErrUnknownEvent)
}
