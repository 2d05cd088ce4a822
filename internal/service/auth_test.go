package service

import (
	"context"
	"testing"

	apperrors "ovation/internal/errors"
	"ovation/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubUsers struct {
	users  map[string]*models.User
	tokens map[int64]string
}

func newStubUsers() *stubUsers {
	return &stubUsers{
		users:  make(map[string]*models.User),
		tokens: make(map[int64]string),
	}
}

func (s *stubUsers) add(t *testing.T, id int64, username, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	s.users[username] = &models.User{ID: id, Username: username, PasswordHash: string(hash)}
}

func (s *stubUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.users[username], nil
}

func (s *stubUsers) UpdateToken(ctx context.Context, userID int64, token string) error {
	s.tokens[userID] = token
	return nil
}

func TestLogin_Success(t *testing.T) {
	users := newStubUsers()
	users.add(t, 1, "alice", "s3cret")
	svc := NewAuthService(users, nil)

	token, err := svc.Login(context.Background(), "alice", "s3cret")

	require.NoError(t, err)
	_, err = uuid.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, token, users.tokens[1])
}

func TestLogin_RotatesToken(t *testing.T) {
	users := newStubUsers()
	users.add(t, 1, "alice", "s3cret")
	svc := NewAuthService(users, nil)

	first, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, second, users.tokens[1])
}

func TestLogin_WrongPassword(t *testing.T) {
	users := newStubUsers()
	users.add(t, 1, "alice", "s3cret")
	svc := NewAuthService(users, nil)

	_, err := svc.Login(context.Background(), "alice", "wrong")

	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	assert.Empty(t, users.tokens)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := NewAuthService(newStubUsers(), nil)

	_, err := svc.Login(context.Background(), "nobody", "s3cret")

	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}
