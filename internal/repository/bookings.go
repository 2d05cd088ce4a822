package repository

import (
	"context"
	"database/sql"
	"fmt"

	"ovation/internal/database"
	apperrors "ovation/internal/errors"
	"ovation/internal/models"

	"github.com/lib/pq"
)

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateWithSeats reserves the given seat labels and records the booking
// in one transaction. The whole transaction aborts with
// apperrors.ErrSeatsUnavailable when any requested seat is already
// booked, missing for the date, or advanced by a concurrent transaction
// between selection and update. No partial state survives an abort.
//
// seatLabels must already be deduplicated by the caller.
func (r *BookingRepository) CreateWithSeats(ctx context.Context, booking *models.Booking, seatLabels []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	selectQuery := `
		SELECT id, label, date, price, booked, version
		FROM seats
		WHERE date = $1 AND booked = FALSE AND label = ANY($2)`

	rows, err := tx.QueryContext(ctx, selectQuery, booking.Date, pq.Array(seatLabels))
	if err != nil {
		return err
	}

	var seats []models.Seat
	for rows.Next() {
		var seat models.Seat
		if err := rows.Scan(&seat.ID, &seat.Label, &seat.Date, &seat.Price, &seat.Booked, &seat.Version); err != nil {
			rows.Close()
			return err
		}
		seats = append(seats, seat)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	// Partial bookings are never permitted: every requested label must
	// still be unbooked at this point.
	if len(seats) < len(seatLabels) {
		return apperrors.ErrSeatsUnavailable
	}

	for _, seat := range seats {
		updateQuery := `
			UPDATE seats
			SET booked = TRUE, version = version + 1
			WHERE id = $1 AND version = $2 AND booked = FALSE`

		result, err := tx.ExecContext(ctx, updateQuery, seat.ID, seat.Version)
		if err != nil {
			return err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		// A concurrent transaction advanced this seat's version between
		// our select and this update. Treated the same as a sold seat.
		if affected == 0 {
			return apperrors.ErrSeatsUnavailable
		}
	}

	insertQuery := `
		INSERT INTO bookings (concert_id, date, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version`

	err = tx.QueryRowContext(ctx, insertQuery,
		booking.ConcertID,
		booking.Date,
		booking.UserID,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.Version)
	if err != nil {
		return err
	}

	for _, seat := range seats {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO booking_seats (booking_id, seat_id) VALUES ($1, $2)`,
			booking.ID, seat.ID)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}

	booking.Seats = seats
	for i := range booking.Seats {
		booking.Seats[i].Booked = true
		booking.Seats[i].Version++
	}

	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `
		SELECT id, concert_id, date, user_id, created_at, version
		FROM bookings
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.ConcertID,
		&booking.Date,
		&booking.UserID,
		&booking.CreatedAt,
		&booking.Version,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return booking, err
}

func (r *BookingRepository) GetByUserID(ctx context.Context, userID int64) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `
		SELECT id, concert_id, date, user_id, created_at, version
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var booking models.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.ConcertID,
			&booking.Date,
			&booking.UserID,
			&booking.CreatedAt,
			&booking.Version,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *BookingRepository) GetSeats(ctx context.Context, bookingID int64) ([]models.Seat, error) {
	var seats []models.Seat
	query := `
		SELECT s.id, s.label, s.date, s.price, s.booked, s.version
		FROM seats s
		JOIN booking_seats bs ON s.id = bs.seat_id
		WHERE bs.booking_id = $1
		ORDER BY s.label`

	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var seat models.Seat
		err := rows.Scan(
			&seat.ID,
			&seat.Label,
			&seat.Date,
			&seat.Price,
			&seat.Booked,
			&seat.Version,
		)
		if err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}

	return seats, rows.Err()
}
