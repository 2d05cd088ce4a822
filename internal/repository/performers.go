package repository

import (
	"context"
	"database/sql"

	"ovation/internal/database"
	"ovation/internal/models"
)

type PerformerRepository struct {
	db *database.DB
}

func NewPerformerRepository(db *database.DB) *PerformerRepository {
	return &PerformerRepository{db: db}
}

func (r *PerformerRepository) Create(ctx context.Context, performer *models.Performer) error {
	query := `
		INSERT INTO performers (name, image_name, genre)
		VALUES ($1, $2, $3)
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		performer.Name,
		performer.ImageName,
		performer.Genre,
	).Scan(&performer.ID)
}

func (r *PerformerRepository) GetByID(ctx context.Context, id int64) (*models.Performer, error) {
	performer := &models.Performer{}
	query := `
		SELECT id, name, image_name, genre
		FROM performers
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&performer.ID,
		&performer.Name,
		&performer.ImageName,
		&performer.Genre,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return performer, err
}

func (r *PerformerRepository) List(ctx context.Context) ([]models.Performer, error) {
	var performers []models.Performer
	query := `
		SELECT id, name, image_name, genre
		FROM performers
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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
