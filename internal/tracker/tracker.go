// Package tracker enforces cross-entity invariants while records are
// generated: reservation pair uniqueness, per-event ticket capacity, premium
// tier gating, and referential lookups for every dependent generator.
package tracker

import (
	"errors"
	"fmt"
	"time"

	"github.com/eventhub/datagen/internal/models"
	"github.com/eventhub/datagen/internal/sink"
)

var (
	ErrUnknownUser      = errors.New("user not found")
	ErrUnknownEvent     = errors.New("event not found")
	ErrUnknownVenue     = errors.New("venue not found")
	ErrDuplicateBooking = errors.New("user already has an active reservation for this event")
	ErrCapacityExceeded = errors.New("event does not have enough tickets left")
	ErrPremiumRequired  = errors.New("premium event requires a premium subscription")
	ErrBookingWindow    = errors.New("user subscribed after the event date")
)

// minCancellationLead is the shortest plausible interval between a
// subscription starting and being cancelled or paused. Candidates younger than
// this are forced back to an active subscription.
const minCancellationLead = 7 * 24 * time.Hour

// Tracker is the sole owner of uniqueness and capacity state. It is not safe
// for concurrent use; the pipeline runs generators strictly sequentially.
type Tracker struct {
	now time.Time

	users        map[string]models.User
	venues       map[string]models.Venue
	events       map[string]models.Event
	reservations map[string]models.Reservation

	// bookedPairs holds (user_id, event_id) pairs with a non-cancelled
	// reservation. Cancelled reservations do not claim the pair, so a new
	// attempt on the same pair is allowed.
	bookedPairs map[pair]struct{}

	// ticketsSoldByEvent counts tickets on non-cancelled reservations.
	ticketsSoldByEvent map[string]int
}

type pair struct {
	userID  string
	eventID string
}

// New returns an empty tracker that treats now as the generation time.
func New(now time.Time) *Tracker {
	return &Tracker{
		now:                now,
		users:              make(map[string]models.User),
		venues:             make(map[string]models.Venue),
		events:             make(map[string]models.Event),
		reservations:       make(map[string]models.Reservation),
		bookedPairs:        make(map[pair]struct{}),
		ticketsSoldByEvent: make(map[string]int),
	}
}

// Rebuild restores the full tracker state from sink contents. Called on
// startup so interrupted runs resume with the invariants intact.
func Rebuild(s sink.Sink, now time.Time) (*Tracker, error) {
	t := New(now)

	users, err := sink.ReadAs[models.User](s, models.EntityUsers)
	if err != nil {
		return nil, fmt.Errorf("rebuild user index: %w", err)
	}
	for _, u := range users {
		t.AddUser(u)
	}

	venues, err := sink.ReadAs[models.Venue](s, models.EntityVenues)
	if err != nil {
		return nil, fmt.Errorf("rebuild venue index: %w", err)
	}
	for _, v := range venues {
		t.AddVenue(v)
	}

	events, err := sink.ReadAs[models.Event](s, models.EntityEvents)
	if err != nil {
		return nil, fmt.Errorf("rebuild event index: %w", err)
	}
	for _, e := range events {
		t.AddEvent(e)
	}

	reservations, err := sink.ReadAs[models.Reservation](s, models.EntityReservations)
	if err != nil {
		return nil, fmt.Errorf("rebuild reservation state: %w", err)
	}
	for _, r := range reservations {
		t.AddReservation(r)
	}

	return t, nil
}

// AddUser indexes an appended user.
func (t *Tracker) AddUser(u models.User) { t.users[u.UserID] = u }

// AddVenue indexes an appended venue.
func (t *Tracker) AddVenue(v models.Venue) { t.venues[v.VenueID] = v }

// AddEvent indexes an appended event.
func (t *Tracker) AddEvent(e models.Event) {
	t.events[e.EventID] = e
	if _, ok := t.ticketsSoldByEvent[e.EventID]; !ok {
		t.ticketsSoldByEvent[e.EventID] = 0
	}
}

// AddReservation records an appended reservation: non-cancelled reservations
// claim their (user, event) pair and consume event capacity.
func (t *Tracker) AddReservation(r models.Reservation) {
	t.reservations[r.ReservationID] = r
	if r.Status == models.ReservationCancelled {
		return
	}
	t.bookedPairs[pair{r.UserID, r.EventID}] = struct{}{}
	t.ticketsSoldByEvent[r.EventID] += r.TicketCount
	if e, ok := t.events[r.EventID]; ok {
		e.TicketsSold = t.ticketsSoldByEvent[r.EventID]
		if e.TicketsSold >= e.TotalTickets {
			e.Status = models.EventSoldOut
		}
		t.events[r.EventID] = e
	}
}

// User looks up an indexed user.
func (t *Tracker) User(id string) (models.User, bool) {
	u, ok := t.users[id]
	return u, ok
}

// Event looks up an indexed event, reflecting the running tickets-sold total.
func (t *Tracker) Event(id string) (models.Event, bool) {
	e, ok := t.events[id]
	return e, ok
}

// Venue looks up an indexed venue.
func (t *Tracker) Venue(id string) (models.Venue, bool) {
	v, ok := t.venues[id]
	return v, ok
}

// Reservation looks up an indexed reservation.
func (t *Tracker) Reservation(id string) (models.Reservation, bool) {
	r, ok := t.reservations[id]
	return r, ok
}

// TicketsSold returns the running ticket total for an event.
func (t *Tracker) TicketsSold(eventID string) int {
	return t.ticketsSoldByEvent[eventID]
}

// ValidateUser degrades a user candidate until it satisfies the subscription
// invariants. It never rejects.
func (t *Tracker) ValidateUser(u models.User) models.User {
	if u.CreatedAt.After(t.now) {
		u.CreatedAt = t.now
	}
	if u.SubscriptionStartedAt.After(t.now) {
		u.SubscriptionStartedAt = t.now
	}
	if u.SubscriptionStartedAt.Before(u.CreatedAt) {
		u.SubscriptionStartedAt = u.CreatedAt
	}
	u.MonthlyQuota = u.SubscriptionTier.MonthlyQuota()

	switch u.SubscriptionStatus {
	case models.SubscriptionCancelled, models.SubscriptionPaused:
		// Too young a subscription cannot plausibly have ended yet.
		if t.now.Sub(u.SubscriptionStartedAt) < minCancellationLead {
			u.SubscriptionStatus = models.SubscriptionActive
			u.SubscriptionEndedAt = nil
			break
		}
		if u.SubscriptionEndedAt == nil || u.SubscriptionEndedAt.Before(u.SubscriptionStartedAt) {
			ended := u.SubscriptionStartedAt.Add(minCancellationLead)
			u.SubscriptionEndedAt = &ended
		}
		if u.SubscriptionEndedAt.After(t.now) {
			ended := t.now
			u.SubscriptionEndedAt = &ended
		}
	default:
		u.SubscriptionStatus = models.SubscriptionActive
		u.SubscriptionEndedAt = nil
	}
	return u
}

// ValidateEvent rejects events whose venue does not resolve and clamps the
// ticket allotment to the venue capacity. Venue-derived fields are
// denormalized onto the event.
func (t *Tracker) ValidateEvent(e models.Event) (models.Event, error) {
	venue, ok := t.venues[e.VenueID]
	if !ok {
		return models.Event{}, fmt.Errorf("event %s venue %q: %w", e.EventID, e.VenueID, ErrUnknownVenue)
	}

	e.VenueName = venue.Name
	e.City = venue.City
	e.Neighborhood = venue.Neighborhood
	e.Category = venue.Category

	if e.TotalTickets > venue.Capacity {
		e.TotalTickets = venue.Capacity
	}
	if e.TotalTickets < 1 {
		e.TotalTickets = 1
	}
	if e.TicketsSold > e.TotalTickets {
		e.TicketsSold = e.TotalTickets
	}
	if e.EventDate.Before(t.now) {
		e.EventDate = t.now.AddDate(0, 0, 1)
	}
	return e, nil
}

// ValidateReservation accepts, adjusts, or rejects a reservation candidate.
// Capacity, pair-uniqueness, and empty-booking-window violations are
// rejections: the generator must resample. Blocked users and recoverable
// booking dates are degradations.
func (t *Tracker) ValidateReservation(r models.Reservation) (models.Reservation, error) {
	user, ok := t.users[r.UserID]
	if !ok {
		return models.Reservation{}, fmt.Errorf("reservation %s user %q: %w", r.ReservationID, r.UserID, ErrUnknownUser)
	}
	event, ok := t.events[r.EventID]
	if !ok {
		return models.Reservation{}, fmt.Errorf("reservation %s event %q: %w", r.ReservationID, r.EventID, ErrUnknownEvent)
	}

	if _, booked := t.bookedPairs[pair{r.UserID, r.EventID}]; booked {
		return models.Reservation{}, fmt.Errorf("user %s event %s: %w", r.UserID, r.EventID, ErrDuplicateBooking)
	}
	if event.IsPremium && user.SubscriptionTier != models.TierPremium {
		return models.Reservation{}, fmt.Errorf("user %s event %s: %w", r.UserID, r.EventID, ErrPremiumRequired)
	}
	if r.TicketCount < 1 {
		r.TicketCount = 1
	}
	if t.ticketsSoldByEvent[r.EventID]+r.TicketCount > event.TotalTickets {
		return models.Reservation{}, fmt.Errorf("event %s (%d/%d sold): %w",
			r.EventID, t.ticketsSoldByEvent[r.EventID], event.TotalTickets, ErrCapacityExceeded)
	}

	// Denormalized copies come from the indexed upstream records, never from
	// the candidate.
	r.UserEmail = user.Email
	r.EventTitle = event.Title
	r.VenueID = event.VenueID
	r.VenueName = event.VenueName
	r.EventDate = event.EventDate
	r.IsPremiumBooking = event.IsPremium

	// Booking happens within the user's subscription, strictly before the
	// event. Resumed runs can pair a fresh subscriber with an event whose date
	// already passed; that window is empty, so the pair is unbookable.
	if !user.SubscriptionStartedAt.Before(event.EventDate) {
		return models.Reservation{}, fmt.Errorf("user %s subscribed %s, event %s dated %s: %w",
			r.UserID, user.SubscriptionStartedAt.Format("2006-01-02"),
			r.EventID, event.EventDate.Format("2006-01-02"), ErrBookingWindow)
	}
	if r.BookingDate.Before(user.SubscriptionStartedAt) {
		r.BookingDate = user.SubscriptionStartedAt
	}
	if !r.BookingDate.Before(event.EventDate) {
		r.BookingDate = event.EventDate.Add(-time.Hour)
		if r.BookingDate.Before(user.SubscriptionStartedAt) {
			r.BookingDate = user.SubscriptionStartedAt
		}
	}

	if user.IsBlocked {
		r.Status = models.ReservationCancelled
	}
	return r, nil
}

// ValidateTicket drops cross-references that do not resolve or that belong to
// a different user. It never rejects.
func (t *Tracker) ValidateTicket(tk models.Ticket) models.Ticket {
	if user, ok := t.users[tk.UserID]; ok {
		tk.UserEmail = user.Email
	}

	if tk.ReservationID != "" {
		res, ok := t.reservations[tk.ReservationID]
		if !ok || res.UserID != tk.UserID {
			tk.ReservationID = ""
			tk.EventID = ""
			tk.EventTitle = ""
		} else {
			tk.EventID = res.EventID
			tk.EventTitle = res.EventTitle
		}
	}
	if tk.EventID != "" {
		event, ok := t.events[tk.EventID]
		if !ok {
			tk.EventID = ""
			tk.EventTitle = ""
		} else {
			tk.EventTitle = event.Title
		}
	}
	if tk.CreatedAt.After(t.now) {
		tk.CreatedAt = t.now
	}
	if tk.Status == models.TicketResolved {
		if tk.ResolvedAt == nil || tk.ResolvedAt.After(t.now) {
			resolved := t.now
			tk.ResolvedAt = &resolved
		}
		if tk.ResolvedAt.Before(tk.CreatedAt) {
			tk.ResolvedAt = &tk.CreatedAt
		}
	} else {
		tk.ResolvedAt = nil
	}
	return tk
}
