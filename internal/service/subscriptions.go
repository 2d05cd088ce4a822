package service

import (
	"context"
	"fmt"
	"time"

	apperrors "ovation/internal/errors"
	"ovation/internal/subscription"
)

// SubscriptionService validates subscription requests and registers them
// with the availability registry. Validation mirrors the booking path:
// an unauthenticated or invalid request is rejected up front and never
// registered.
type SubscriptionService struct {
	concerts ConcertStore
	resolver IdentityResolver
	registry *subscription.Registry
}

func NewSubscriptionService(concerts ConcertStore, resolver IdentityResolver, registry *subscription.Registry) *SubscriptionService {
	return &SubscriptionService{
		concerts: concerts,
		resolver: resolver,
		registry: registry,
	}
}

// Subscribe registers a request to be notified once the booked
// percentage for the concert date reaches threshold. The returned
// handle receives exactly one notification; the caller must Cancel it
// if it stops waiting.
func (s *SubscriptionService) Subscribe(ctx context.Context, token string, concertID int64, date time.Time, threshold int) (*subscription.Handle, error) {
	if _, err := s.resolver.Resolve(ctx, token); err != nil {
		return nil, err
	}

	if threshold < 0 || threshold > 100 {
		return nil, apperrors.ErrInvalidRequest
	}

	concert, err := s.concerts.GetByID(ctx, concertID)
	if err != nil {
		return nil, fmt.Errorf("failed to get concert: %w", err)
	}
	if concert == nil || !concert.IsScheduledOn(date) {
		return nil, apperrors.ErrInvalidRequest
	}

	return s.registry.Subscribe(concertID, date, threshold), nil
}

// Cancel deregisters an abandoned subscription. Safe to call on handles
// that already resolved.
func (s *SubscriptionService) Cancel(h *subscription.Handle) {
	s.registry.Cancel(h)
}
