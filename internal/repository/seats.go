package repository

import (
	"context"
	"fmt"
	"time"

	"ovation/internal/database"
	"ovation/internal/models"
)

// Theatre layout seeded for every new performance date. Front rows cost
// more; prices are in cents.
var venueRows = []struct {
	Label string
	Seats int
	Price int64
}{
	{"A", 12, 15000},
	{"B", 12, 15000},
	{"C", 12, 12000},
	{"D", 12, 12000},
	{"E", 12, 10000},
	{"F", 12, 10000},
	{"G", 12, 8000},
	{"H", 12, 8000},
	{"I", 12, 6000},
	{"J", 12, 6000},
}

type SeatRepository struct {
	db *database.DB
}

func NewSeatRepository(db *database.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

// CreateSeatsForDate seeds the theatre layout for a performance date.
// Re-seeding an already seeded date is a no-op: booked flags and
// versions of existing seats are never touched.
func (r *SeatRepository) CreateSeatsForDate(ctx context.Context, date time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, row := range venueRows {
		for seat := 1; seat <= row.Seats; seat++ {
			label := fmt.Sprintf("%s%d", row.Label, seat)

			query := `
				INSERT INTO seats (label, date, price)
				VALUES ($1, $2, $3)
				ON CONFLICT (label, date) DO NOTHING`

			if _, err := tx.ExecContext(ctx, query, label, date, row.Price); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// GetByDate lists seats for a performance date filtered by booked status
func (r *SeatRepository) GetByDate(ctx context.Context, date time.Time, status models.SeatStatus) ([]models.Seat, error) {
	query := `
		SELECT id, label, date, price, booked, version
		FROM seats
		WHERE date = $1`
	args := []interface{}{date}

	if status != models.SeatStatusAny {
		query += ` AND booked = $2`
		args = append(args, status == models.SeatStatusBooked)
	}

	query += ` ORDER BY label`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []models.Seat
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

// CountByDate returns the number of unbooked seats and the total number
// of seats for a performance date in one read
func (r *SeatRepository) CountByDate(ctx context.Context, date time.Time) (remaining, total int64, err error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE NOT booked), COUNT(*)
		FROM seats
		WHERE date = $1`

	err = r.db.QueryRowContext(ctx, query, date).Scan(&remaining, &total)
	return remaining, total, err
}
