package models

import "time"

// DateTimeLayout is the wire format for performance dates. The catalog
// stores naive local datetimes, so RFC3339 zone suffixes are not used.
const DateTimeLayout = "2006-01-02T15:04:05"

// ParseDateTime parses a performance date in the wire format
func ParseDateTime(s string) (time.Time, error) {
	return time.Parse(DateTimeLayout, s)
}

// FormatDateTime renders a performance date in the wire format
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// LoginRequest - credentials for POST /login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// MakeBookingRequest - body of POST /bookings
type MakeBookingRequest struct {
	ConcertID  int64    `json:"concert_id" binding:"required"`
	Date       string   `json:"date" binding:"required"`
	SeatLabels []string `json:"seat_labels" binding:"required"`
}

// MakeBookingResponse points at the created booking
type MakeBookingResponse struct {
	ID int64 `json:"id"`
}

// SeatResponseItem - one seat in a listing
type SeatResponseItem struct {
	Label  string `json:"label"`
	Date   string `json:"date"`
	Price  int64  `json:"price"`
	Booked bool   `json:"booked"`
}

// BookingResponse - a booking with its reserved seats
type BookingResponse struct {
	ID        int64              `json:"id"`
	ConcertID int64              `json:"concert_id"`
	Date      string             `json:"date"`
	Seats     []SeatResponseItem `json:"seats"`
}

// SubscriptionRequest - body of POST /subscribe/concertInfo
type SubscriptionRequest struct {
	ConcertID        int64  `json:"concert_id" binding:"required"`
	Date             string `json:"date" binding:"required"`
	PercentageBooked int    `json:"percentage_booked" binding:"min=0,max=100"`
}

// AvailabilityNotification is delivered to a subscriber once the booked
// percentage for its concert date reaches the requested threshold.
type AvailabilityNotification struct {
	RemainingSeats int `json:"remaining_seats"`
}

// CreateConcertRequest - body of POST /concerts. Dates use DateTimeLayout.
type CreateConcertRequest struct {
	Title        string   `json:"title" binding:"required"`
	ImageName    string   `json:"image_name"`
	Blurb        string   `json:"blurb"`
	Dates        []string `json:"dates" binding:"required"`
	PerformerIDs []int64  `json:"performer_ids"`
}

// CreateConcertResponse - model of the concert creation response
type CreateConcertResponse struct {
	ID int64 `json:"id"`
}

// ConcertSummaryResponseItem - compact concert listing entry
type ConcertSummaryResponseItem struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	ImageName string `json:"image_name"`
}
