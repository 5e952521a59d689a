package models

import "time"

type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationPending   ReservationStatus = "pending"
)

type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentPayPal     PaymentMethod = "paypal"
	PaymentApplePay   PaymentMethod = "apple_pay"
	PaymentGooglePay  PaymentMethod = "google_pay"
)

type Reservation struct {
	ReservationID    string            `gorm:"primaryKey" json:"reservation_id"`
	UserID           string            `gorm:"not null;index" json:"user_id"`
	UserEmail        string            `json:"user_email"`
	EventID          string            `gorm:"not null;index" json:"event_id"`
	EventTitle       string            `json:"event_title"`
	VenueID          string            `json:"venue_id"`
	VenueName        string            `json:"venue_name"`
	EventDate        time.Time         `json:"event_date"`
	TicketCount      int               `json:"ticket_count"`
	TotalPrice       float64           `json:"total_price"`
	Status           ReservationStatus `gorm:"type:varchar(20)" json:"status"`
	BookingDate      time.Time         `json:"booking_date"`
	PaymentMethod    PaymentMethod     `gorm:"type:varchar(20)" json:"payment_method"`
	IsPremiumBooking bool              `json:"is_premium_booking"`
}

func (r Reservation) RecordID() string { return r.ReservationID }
