package models

import "time"

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketEscalated  TicketStatus = "escalated"
)

type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"
)

type TicketCategory string

const (
	TicketGeneral      TicketCategory = "general"
	TicketRefund       TicketCategory = "refund"
	TicketTechnical    TicketCategory = "technical"
	TicketComplaint    TicketCategory = "complaint"
	TicketCancellation TicketCategory = "cancellation"
)

// Ticket is a customer support ticket. The reservation/event references are
// optional and only kept when they belong to the same user as the ticket.
type Ticket struct {
	TicketID      string         `gorm:"primaryKey" json:"ticket_id"`
	UserID        string         `gorm:"not null;index" json:"user_id"`
	UserEmail     string         `json:"user_email"`
	Category      TicketCategory `gorm:"type:varchar(20)" json:"category"`
	Subject       string         `gorm:"not null" json:"subject"`
	Description   string         `json:"description"`
	Status        TicketStatus   `gorm:"type:varchar(20)" json:"status"`
	Priority      TicketPriority `gorm:"type:varchar(20)" json:"priority"`
	CreatedAt     time.Time      `json:"created_at"`
	ResolvedAt    *time.Time     `json:"resolved_at,omitempty"`
	AgentNotes    string         `json:"agent_notes,omitempty"`
	EventID       string         `json:"event_id,omitempty"`
	EventTitle    string         `json:"event_title,omitempty"`
	ReservationID string         `json:"reservation_id,omitempty"`
}

func (t Ticket) RecordID() string { return t.TicketID }
