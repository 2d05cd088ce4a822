package models

import (
	"time"
)

// User represents a registered account. Token holds the current session
// token; it is nil until the user has logged in.
type User struct {
	ID           int64   `json:"id" db:"id"`
	Username     string  `json:"username" db:"username"`
	PasswordHash string  `json:"-" db:"password_hash"`
	Token        *string `json:"-" db:"token"`
	Version      int64   `json:"-" db:"version"`
}

// Performer represents an artist appearing at one or more concerts
type Performer struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	ImageName string `json:"image_name" db:"image_name"`
	Genre     string `json:"genre" db:"genre"`
}

// Concert represents a concert with its scheduled dates and performers.
// Dates and Performers are not columns of the concerts table; they are
// filled separately from the join tables.
type Concert struct {
	ID         int64       `json:"id" db:"id"`
	Title      string      `json:"title" db:"title"`
	ImageName  string      `json:"image_name" db:"image_name"`
	Blurb      string      `json:"blurb" db:"blurb"`
	Dates      []time.Time `json:"dates,omitempty"`
	Performers []Performer `json:"performers,omitempty"`
}

// IsScheduledOn reports whether the concert has a performance at the
// given date and time.
func (c *Concert) IsScheduledOn(date time.Time) bool {
	for _, d := range c.Dates {
		if d.Equal(date) {
			return true
		}
	}
	return false
}

// Seat represents one bookable seat for a single performance date.
// Labels are unique within a date. Version is the optimistic counter
// bumped on every committed mutation.
type Seat struct {
	ID      int64     `json:"id" db:"id"`
	Label   string    `json:"label" db:"label"`
	Date    time.Time `json:"date" db:"date"`
	Price   int64     `json:"price" db:"price"`
	Booked  bool      `json:"booked" db:"booked"`
	Version int64     `json:"-" db:"version"`
}

// Booking represents an atomic reservation of seats for one user.
// Seats is filled separately from booking_seats; the set never changes
// after the booking transaction commits.
type Booking struct {
	ID        int64     `json:"id" db:"id"`
	ConcertID int64     `json:"concert_id" db:"concert_id"`
	Date      time.Time `json:"date" db:"date"`
	UserID    int64     `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Version   int64     `json:"-" db:"version"`
	Seats     []Seat    `json:"seats,omitempty"`
}

// SeatStatus filters seat listings by booked state
type SeatStatus string

const (
	SeatStatusAny      SeatStatus = "Any"
	SeatStatusBooked   SeatStatus = "Booked"
	SeatStatusUnbooked SeatStatus = "Unbooked"
)

// ParseSeatStatus maps a query parameter onto a SeatStatus, defaulting to Any
func ParseSeatStatus(s string) (SeatStatus, bool) {
	switch s {
	case "", string(SeatStatusAny):
		return SeatStatusAny, true
	case string(SeatStatusBooked):
		return SeatStatusBooked, true
	case string(SeatStatusUnbooked):
		return SeatStatusUnbooked, true
	}
	return SeatStatusAny, false
}
