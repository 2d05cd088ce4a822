package repository

import (
	"ovation/internal/database"
)

type Repositories struct {
	Users      *UserRepository
	Performers *PerformerRepository
	Concerts   *ConcertRepository
	Seats      *SeatRepository
	Bookings   *BookingRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(db),
		Performers: NewPerformerRepository(db),
		Concerts:   NewConcertRepository(db),
		Seats:      NewSeatRepository(db),
		Bookings:   NewBookingRepository(db),
	}
}
