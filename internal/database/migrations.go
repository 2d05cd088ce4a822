package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createPerformersTable,
		createConcertsTable,
		createConcertDatesTable,
		createConcertPerformersTable,
		createSeatsTable,
		createBookingsTable,
		createBookingSeatsTable,
		createSeatsDateIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username VARCHAR(100) UNIQUE NOT NULL,
    password_hash VARCHAR(100) NOT NULL,
    token VARCHAR(64) UNIQUE,
    version BIGINT NOT NULL DEFAULT 0
);`

const createPerformersTable = `
CREATE TABLE IF NOT EXISTS performers (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    image_name VARCHAR(255) NOT NULL DEFAULT '',
    genre VARCHAR(100) NOT NULL DEFAULT ''
);`

const createConcertsTable = `
CREATE TABLE IF NOT EXISTS concerts (
    id SERIAL PRIMARY KEY,
    title VARCHAR(500) NOT NULL,
    image_name VARCHAR(255) NOT NULL DEFAULT '',
    blurb VARCHAR(1024) NOT NULL DEFAULT ''
);`

const createConcertDatesTable = `
CREATE TABLE IF NOT EXISTS concert_dates (
    concert_id INTEGER NOT NULL REFERENCES concerts(id) ON DELETE CASCADE,
    date TIMESTAMP NOT NULL,

    UNIQUE(concert_id, date)
);`

const createConcertPerformersTable = `
CREATE TABLE IF NOT EXISTS concert_performers (
    concert_id INTEGER NOT NULL REFERENCES concerts(id) ON DELETE CASCADE,
    performer_id INTEGER NOT NULL REFERENCES performers(id) ON DELETE CASCADE,

    UNIQUE(concert_id, performer_id)
);`

const createSeatsTable = `
CREATE TABLE IF NOT EXISTS seats (
    id SERIAL PRIMARY KEY,
    label VARCHAR(10) NOT NULL,
    date TIMESTAMP NOT NULL,
    price BIGINT NOT NULL DEFAULT 0,
    booked BOOLEAN NOT NULL DEFAULT FALSE,
    version BIGINT NOT NULL DEFAULT 0,

    UNIQUE(label, date)
);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id SERIAL PRIMARY KEY,
    concert_id INTEGER NOT NULL REFERENCES concerts(id),
    date TIMESTAMP NOT NULL,
    user_id INTEGER NOT NULL REFERENCES users(id),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    version BIGINT NOT NULL DEFAULT 0
);`

const createBookingSeatsTable = `
CREATE TABLE IF NOT EXISTS booking_seats (
    booking_id INTEGER NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
    seat_id INTEGER NOT NULL REFERENCES seats(id),

    UNIQUE(booking_id, seat_id)
);`

const createSeatsDateIndex = `
CREATE INDEX IF NOT EXISTS idx_seats_date_booked ON seats(date, booked);`
