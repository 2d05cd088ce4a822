package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "ovation/internal/errors"
	"ovation/internal/logger"
	"ovation/internal/metrics"
	"ovation/internal/models"
)

// BookingService is the booking transaction engine: it validates a
// request, reserves seats atomically through the store, and triggers
// the post-commit availability sweep off the response path.
type BookingService struct {
	bookings BookingStore
	concerts ConcertStore
	seats    SeatStore
	resolver IdentityResolver
	notifier AvailabilityNotifier
	events   Publisher
}

func NewBookingService(bookings BookingStore, concerts ConcertStore, seats SeatStore, resolver IdentityResolver, notifier AvailabilityNotifier, events Publisher) *BookingService {
	return &BookingService{
		bookings: bookings,
		concerts: concerts,
		seats:    seats,
		resolver: resolver,
		notifier: notifier,
		events:   events,
	}
}

// Make attempts to reserve the given seat labels for the concert date.
// Either every requested seat is booked and a booking is recorded, or
// nothing is mutated. Contention with a concurrent booking for any of
// the same seats surfaces as ErrSeatsUnavailable and is never retried
// here.
func (s *BookingService) Make(ctx context.Context, token string, concertID int64, date time.Time, seatLabels []string) (*models.Booking, error) {
	user, err := s.resolver.Resolve(ctx, token)
	if err != nil {
		metrics.BookingsTotal.WithLabelValues("unauthenticated").Inc()
		return nil, err
	}

	concert, err := s.concerts.GetByID(ctx, concertID)
	if err != nil {
		metrics.BookingsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to get concert: %w", err)
	}
	if concert == nil || !concert.IsScheduledOn(date) {
		metrics.BookingsTotal.WithLabelValues("invalid").Inc()
		return nil, apperrors.ErrInvalidRequest
	}

	labels := dedupeLabels(seatLabels)
	if len(labels) == 0 {
		metrics.BookingsTotal.WithLabelValues("invalid").Inc()
		return nil, apperrors.ErrInvalidRequest
	}

	booking := &models.Booking{
		ConcertID: concertID,
		Date:      date,
		UserID:    user.ID,
	}

	if err := s.bookings.CreateWithSeats(ctx, booking, labels); err != nil {
		if errors.Is(err, apperrors.ErrSeatsUnavailable) {
			metrics.BookingsTotal.WithLabelValues("unavailable").Inc()
			return nil, err
		}
		metrics.BookingsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	metrics.BookingsTotal.WithLabelValues("committed").Inc()
	metrics.BookedSeatsTotal.Add(float64(len(labels)))

	// Availability has changed for this concert date. The trigger is
	// fire-and-forget: sweep latency must never delay the booking
	// response.
	s.notifier.NotifyBookingCommitted(concertID, date)

	if s.events != nil {
		event := models.BookingCommittedEvent{
			BookingID:  booking.ID,
			ConcertID:  concertID,
			Date:       date,
			UserID:     user.ID,
			SeatLabels: labels,
			Timestamp:  time.Now(),
		}
		if err := s.events.Publish(models.EventBookingCommitted, event); err != nil {
			logger.WithContext(ctx).Error("Failed to publish booking committed event",
				"error", err,
				"booking_id", booking.ID,
				"event_type", models.EventBookingCommitted)
		}
	}

	return booking, nil
}

// Get returns a booking by id. Only the user who made the booking may
// read it; ownership is decided by comparing user ids.
func (s *BookingService) Get(ctx context.Context, token string, id int64) (*models.Booking, error) {
	user, err := s.resolver.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrNotFound
	}
	if booking.UserID != user.ID {
		return nil, apperrors.ErrForbidden
	}

	if booking.Seats, err = s.bookings.GetSeats(ctx, booking.ID); err != nil {
		return nil, fmt.Errorf("failed to get booking seats: %w", err)
	}

	return booking, nil
}

// ListForUser returns all bookings made by the authenticated user
func (s *BookingService) ListForUser(ctx context.Context, token string) ([]models.Booking, error) {
	user, err := s.resolver.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}

	for i := range bookings {
		if bookings[i].Seats, err = s.bookings.GetSeats(ctx, bookings[i].ID); err != nil {
			return nil, fmt.Errorf("failed to get booking seats: %w", err)
		}
	}

	return bookings, nil
}

// Seats lists seats for a performance date filtered by booked status
func (s *BookingService) Seats(ctx context.Context, date time.Time, status models.SeatStatus) ([]models.Seat, error) {
	seats, err := s.seats.GetByDate(ctx, date, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get seats: %w", err)
	}
	return seats, nil
}

// dedupeLabels drops duplicate labels preserving first-seen order
func dedupeLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	var out []string
	for _, label := range labels {
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}
