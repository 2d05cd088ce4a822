package repository

import (
	"context"
	"testing"
	"time"

	"ovation/internal/database"
	apperrors "ovation/internal/errors"
	"ovation/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookingDate = time.Date(2026, 10, 3, 20, 0, 0, 0, time.UTC)

func newMockBookingRepo(t *testing.T) (*BookingRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBookingRepository(&database.DB{DB: db}), mock
}

func seatColumns() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "label", "date", "price", "booked", "version"})
}

func TestCreateWithSeats_VersionConflictRollsBack(t *testing.T) {
	repo, mock := newMockBookingRepo(t)

	// Both seats look free at selection time, but a concurrent
	// transaction advances A1's version before our update lands.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, label, date, price, booked, version`).
		WithArgs(bookingDate, sqlmock.AnyArg()).
		WillReturnRows(seatColumns().
			AddRow(int64(1), "A1", bookingDate, int64(15000), false, int64(3)).
			AddRow(int64(2), "A2", bookingDate, int64(15000), false, int64(0)))
	mock.ExpectExec(`UPDATE seats`).
		WithArgs(int64(1), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	booking := &models.Booking{ConcertID: 1, Date: bookingDate, UserID: 7}
	err := repo.CreateWithSeats(context.Background(), booking, []string{"A1", "A2"})

	assert.ErrorIs(t, err, apperrors.ErrSeatsUnavailable)
	assert.Zero(t, booking.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithSeats_MissingSeatRollsBack(t *testing.T) {
	repo, mock := newMockBookingRepo(t)

	// A2 is already booked so the selection comes back short. No seat
	// may be updated in that case.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, label, date, price, booked, version`).
		WithArgs(bookingDate, sqlmock.AnyArg()).
		WillReturnRows(seatColumns().
			AddRow(int64(1), "A1", bookingDate, int64(15000), false, int64(0)))
	mock.ExpectRollback()

	booking := &models.Booking{ConcertID: 1, Date: bookingDate, UserID: 7}
	err := repo.CreateWithSeats(context.Background(), booking, []string{"A1", "A2"})

	assert.ErrorIs(t, err, apperrors.ErrSeatsUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithSeats_Commits(t *testing.T) {
	repo, mock := newMockBookingRepo(t)
	createdAt := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, label, date, price, booked, version`).
		WithArgs(bookingDate, sqlmock.AnyArg()).
		WillReturnRows(seatColumns().
			AddRow(int64(1), "A1", bookingDate, int64(15000), false, int64(3)))
	mock.ExpectExec(`UPDATE seats`).
		WithArgs(int64(1), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO bookings`).
		WithArgs(int64(1), bookingDate, int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "version"}).
			AddRow(int64(42), createdAt, int64(0)))
	mock.ExpectExec(`INSERT INTO booking_seats`).
		WithArgs(int64(42), int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	booking := &models.Booking{ConcertID: 1, Date: bookingDate, UserID: 7}
	err := repo.CreateWithSeats(context.Background(), booking, []string{"A1"})

	require.NoError(t, err)
	assert.Equal(t, int64(42), booking.ID)
	require.Len(t, booking.Seats, 1)
	assert.True(t, booking.Seats[0].Booked)
	assert.Equal(t, int64(4), booking.Seats[0].Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}
