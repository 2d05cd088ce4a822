package repository

import (
	"context"
	"database/sql"
	"time"

	"ovation/internal/database"
	"ovation/internal/models"

	"github.com/lib/pq"
)

type ConcertRepository struct {
	db *database.DB
}

func NewConcertRepository(db *database.DB) *ConcertRepository {
	return &ConcertRepository{db: db}
}

// Create inserts a concert with its scheduled dates and performer links
// in a single transaction
func (r *ConcertRepository) Create(ctx context.Context, concert *models.Concert, performerIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO concerts (title, image_name, blurb)
		VALUES ($1, $2, $3)
		RETURNING id`

	err = tx.QueryRowContext(ctx, query,
		concert.Title,
		concert.ImageName,
		concert.Blurb,
	).Scan(&concert.ID)
	if err != nil {
		return err
	}

	for _, date := range concert.Dates {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO concert_dates (concert_id, date) VALUES ($1, $2)`,
			concert.ID, date)
		if err != nil {
			return err
		}
	}

	for _, performerID := range performerIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO concert_performers (concert_id, performer_id) VALUES ($1, $2)`,
			concert.ID, performerID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *ConcertRepository) GetByID(ctx context.Context, id int64) (*models.Concert, error) {
	concert := &models.Concert{}
	query := `
		SELECT id, title, image_name, blurb
		FROM concerts
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&concert.ID,
		&concert.Title,
		&concert.ImageName,
		&concert.Blurb,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if concert.Dates, err = r.getDates(ctx, id); err != nil {
		return nil, err
	}
	if concert.Performers, err = r.getPerformers(ctx, id); err != nil {
		return nil, err
	}

	return concert, nil
}

func (r *ConcertRepository) List(ctx context.Context) ([]models.Concert, error) {
	query := `
		SELECT id, title, image_name, blurb
		FROM concerts
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	concerts, err := scanConcerts(rows)
	if err != nil {
		return nil, err
	}

	for i := range concerts {
		if concerts[i].Dates, err = r.getDates(ctx, concerts[i].ID); err != nil {
			return nil, err
		}
		if concerts[i].Performers, err = r.getPerformers(ctx, concerts[i].ID); err != nil {
			return nil, err
		}
	}

	return concerts, nil
}

// ListByIDs loads the given concerts preserving the order of ids,
// used to resolve search results against the store
func (r *ConcertRepository) ListByIDs(ctx context.Context, ids []int64) ([]models.Concert, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, title, image_name, blurb
		FROM concerts
		WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	concerts, err := scanConcerts(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]models.Concert, len(concerts))
	for _, c := range concerts {
		byID[c.ID] = c
	}

	ordered := make([]models.Concert, 0, len(concerts))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}

	return ordered, nil
}

func (r *ConcertRepository) getDates(ctx context.Context, concertID int64) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date FROM concert_dates WHERE concert_id = $1 ORDER BY date`, concertID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}

	return dates, rows.Err()
}

func (r *ConcertRepository) getPerformers(ctx context.Context, concertID int64) ([]models.Performer, error) {
	query := `
		SELECT p.id, p.name, p.image_name, p.genre
		FROM performers p
		JOIN concert_performers cp ON p.id = cp.performer_id
		WHERE cp.concert_id = $1
		ORDER BY p.id`

	rows, err := r.db.QueryContext(ctx, query, concertID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var performers []models.Performer
	for rows.Next() {
		var performer models.Performer
		err := rows.Scan(
			&performer.ID,
			&performer.Name,
			&performer.ImageName,
			&performer.Genre,
		)
		if err != nil {
			return nil, err
		}
		performers = append(performers, performer)
	}

	return performers, rows.Err()
}

func scanConcerts(rows *sql.Rows) ([]models.Concert, error) {
	var concerts []models.Concert
	for rows.Next() {
		var concert models.Concert
		err := rows.Scan(
			&concert.ID,
			&concert.Title,
			&concert.ImageName,
			&concert.Blurb,
		)
		if err != nil {
			return nil, err
		}
		concerts = append(concerts, concert)
	}

	return concerts, rows.Err()
}
