package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/eventhub/datagen/internal/models"
)

// Tickets generates support tickets. Dependent on users, events, and
// reservations; reservation links are only kept when the reservation belongs
// to the ticket's user, which the tracker enforces.
type Tickets struct{}

func (Tickets) EntityType() models.EntityType { return models.EntityTickets }
func (Tickets) Dependencies() []models.EntityType {
	return []models.EntityType{models.EntityUsers, models.EntityEvents, models.EntityReservations}
}

func (g Tickets) GenerateBatch(ctx context.Context, count int, deps *Deps) (int, error) {
	users := deps.Upstream.Users
	if len(users) == 0 {
		return 0, fmt.Errorf("tickets: no users loaded")
	}

	byUser := make(map[string][]models.Reservation)
	for _, r := range deps.Upstream.Reservations {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}

	sets := fetchFieldSets(ctx, deps, models.EntityTickets, count, nil)

	now := time.Now()
	appended := 0
	for _, fs := range sets {
		id := deps.Alloc.NextID(models.EntityTickets)
		user := users[deps.Rand.Intn(len(users))]
		status := pickWeighted(deps.Rand, ticketStatusMix)

		tk := models.Ticket{
			TicketID:    id,
			UserID:      user.UserID,
			Category:    ticketCategories[deps.Rand.Intn(len(ticketCategories))],
			Subject:     field(fs, "subject", "Support request"),
			Description: field(fs, "description", ""),
			Status:      status,
			Priority:    pickWeighted(deps.Rand, ticketPriorityMix),
			CreatedAt:   now.AddDate(0, 0, -deps.Rand.Intn(365)),
		}

		// Roughly 60% of tickets concern one of the user's reservations.
		if own := byUser[user.UserID]; len(own) > 0 && deps.Rand.Intn(100) < 60 {
			tk.ReservationID = own[deps.Rand.Intn(len(own))].ReservationID
		}
		if status == models.TicketResolved {
			resolved := tk.CreatedAt.AddDate(0, 0, 1+deps.Rand.Intn(14))
			tk.ResolvedAt = &resolved
			tk.AgentNotes = "Resolved with customer."
		}

		tk = deps.Tracker.ValidateTicket(tk)
		if err := deps.Sink.Append(models.EntityTickets, tk); err != nil {
			return appended, fmt.Errorf("append ticket %s: %w", tk.TicketID, err)
		}
		appended++
	}
	return appended, nil
}
