package models

import "time"

// NATS event subjects
const (
	EventBookingCommitted = "booking.committed"
	EventConcertCreated   = "concert.created"
)

// BookingCommittedEvent is published after a booking transaction commits
type BookingCommittedEvent struct {
	BookingID  int64     `json:"booking_id"`
	ConcertID  int64     `json:"concert_id"`
	Date       time.Time `json:"date"`
	UserID     int64     `json:"user_id"`
	SeatLabels []string  `json:"seat_labels"`
	Timestamp  time.Time `json:"timestamp"`
}

// ConcertCreatedEvent is published when a concert is added to the catalog
type ConcertCreatedEvent struct {
	ConcertID int64     `json:"concert_id"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
}
