package models

import "time"

type EventStatus string

const (
	EventActive    EventStatus = "active"
	EventSoldOut   EventStatus = "soldout"
	EventCancelled EventStatus = "cancelled"
)

type Event struct {
	EventID         string        `gorm:"primaryKey" json:"event_id"`
	Title           string        `gorm:"not null" json:"title"`
	Description     string        `json:"description"`
	VenueID         string        `gorm:"not null" json:"venue_id"`
	VenueName       string        `json:"venue_name"`
	City            string        `json:"city"`
	Neighborhood    string        `json:"neighborhood"`
	Category        VenueCategory `gorm:"type:varchar(20)" json:"category"`
	EventDate       time.Time     `json:"event_date"`
	StartTime       string        `json:"start_time"`
	DurationMinutes int           `json:"duration_minutes"`
	PriceMin        float64       `json:"price_min"`
	PriceMax        float64       `json:"price_max"`
	TotalTickets    int           `json:"total_tickets"`
	TicketsSold     int           `json:"tickets_sold"`
	IsPremium       bool          `json:"is_premium"`
	Status          EventStatus   `gorm:"type:varchar(20)" json:"status"`
}

func (e Event) RecordID() string { return e.EventID }
