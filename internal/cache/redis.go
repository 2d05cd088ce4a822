package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client caches session-token lookups so the hot booking path does not
// hit the users table on every request. Entries expire after TokenTTL;
// a logout or token rotation invalidates explicitly.
type Client struct {
	rdb      *redis.Client
	tokenTTL time.Duration
}

type Config struct {
	Addr     string
	Password string
	TokenTTL time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb, tokenTTL: cfg.TokenTTL}, nil
}

func tokenKey(token string) string {
	return "session:" + token
}

// GetUserIDByToken returns the cached user id for a session token
func (c *Client) GetUserIDByToken(ctx context.Context, token string) (int64, error) {
	val, err := c.rdb.Get(ctx, tokenKey(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, fmt.Errorf("token not found in cache")
		}
		return 0, fmt.Errorf("cache lookup error: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID in cache: %w", err)
	}

	return userID, nil
}

// SetUserIDByToken stores a session token to user id mapping
func (c *Client) SetUserIDByToken(ctx context.Context, token string, userID int64) error {
	return c.rdb.Set(ctx, tokenKey(token), strconv.FormatInt(userID, 10), c.tokenTTL).Err()
}

// DeleteToken removes a session token from the cache
func (c *Client) DeleteToken(ctx context.Context, token string) error {
	return c.rdb.Del(ctx, tokenKey(token)).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
