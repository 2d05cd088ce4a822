package auth

import (
	"context"
	"fmt"

	"ovation/internal/cache"
	apperrors "ovation/internal/errors"
	"ovation/internal/logger"
	"ovation/internal/models"
	"ovation/internal/repository"
)

// Resolver maps an opaque session token to a user identity. Resolution
// is read-only: a token is either current for exactly one user or the
// request is unauthenticated.
type Resolver struct {
	users *repository.UserRepository
	cache *cache.Client // optional
}

func NewResolver(users *repository.UserRepository, cacheClient *cache.Client) *Resolver {
	return &Resolver{users: users, cache: cacheClient}
}

// Resolve returns the user owning the given session token, or
// apperrors.ErrUnauthenticated
func (r *Resolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	if r.cache != nil {
		if userID, err := r.cache.GetUserIDByToken(ctx, token); err == nil {
			return &models.User{ID: userID}, nil
		}
	}

	user, err := r.users.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrUnauthenticated
	}

	if r.cache != nil {
		if err := r.cache.SetUserIDByToken(ctx, token, user.ID); err != nil {
			logger.WithContext(ctx).Warn("Failed to cache session token", "error", err)
		}
	}

	return user, nil
}
