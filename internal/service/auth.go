package service

import (
	"context"
	"fmt"

	"ovation/internal/cache"
	apperrors "ovation/internal/errors"
	"ovation/internal/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues session tokens. Tokens are opaque UUIDs stored on
// the user row; logging in again rotates the token.
type AuthService struct {
	users UserStore
	cache *cache.Client // optional
}

func NewAuthService(users UserStore, cacheClient *cache.Client) *AuthService {
	return &AuthService{users: users, cache: cacheClient}
}

// Login verifies the credentials and returns a fresh session token
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", apperrors.ErrUnauthenticated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperrors.ErrUnauthenticated
	}

	token := uuid.New().String()
	if err := s.users.UpdateToken(ctx, user.ID, token); err != nil {
		return "", fmt.Errorf("failed to store session token: %w", err)
	}

	// Invalidate any cached mapping for the old token and prime the new
	// one; both are best-effort.
	if s.cache != nil {
		if user.Token != nil {
			if err := s.cache.DeleteToken(ctx, *user.Token); err != nil {
				logger.WithContext(ctx).Warn("Failed to invalidate old session token", "error", err)
			}
		}
		if err := s.cache.SetUserIDByToken(ctx, token, user.ID); err != nil {
			logger.WithContext(ctx).Warn("Failed to cache session token", "error", err)
		}
	}

	return token, nil
}
