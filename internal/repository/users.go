package repository

import (
	"context"
	"database/sql"

	"ovation/internal/database"
	"ovation/internal/models"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, version`

	return r.db.QueryRowContext(ctx, query,
		user.Username,
		user.PasswordHash,
	).Scan(&user.ID, &user.Version)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, password_hash, token, version
		FROM users
		WHERE username = $1`

	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Token,
		&user.Version,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return user, err
}

// GetByToken resolves a session token to its user. Tokens are unique
// across users, enforced by the schema.
func (r *UserRepository) GetByToken(ctx context.Context, token string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, password_hash, token, version
		FROM users
		WHERE token = $1`

	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Token,
		&user.Version,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return user, err
}

// UpdateToken rotates the user's session token
func (r *UserRepository) UpdateToken(ctx context.Context, userID int64, token string) error {
	query := `UPDATE users SET token = $1, version = version + 1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, token, userID)
	return err
}
