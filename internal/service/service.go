package service

import (
	"context"
	"time"

	"ovation/internal/auth"
	"ovation/internal/cache"
	"ovation/internal/messaging"
	"ovation/internal/models"
	"ovation/internal/repository"
	"ovation/internal/search"
	"ovation/internal/subscription"
)

// Stores the services depend on. Declared here rather than using the
// repository types directly so that the contention-sensitive paths can
// be exercised against in-memory implementations in tests.

type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

type ConcertStore interface {
	Create(ctx context.Context, concert *models.Concert, performerIDs []int64) error
	GetByID(ctx context.Context, id int64) (*models.Concert, error)
	List(ctx context.Context) ([]models.Concert, error)
	ListByIDs(ctx context.Context, ids []int64) ([]models.Concert, error)
}

type PerformerStore interface {
	GetByID(ctx context.Context, id int64) (*models.Performer, error)
	List(ctx context.Context) ([]models.Performer, error)
}

type SeatStore interface {
	CreateSeatsForDate(ctx context.Context, date time.Time) error
	GetByDate(ctx context.Context, date time.Time, status models.SeatStatus) ([]models.Seat, error)
	CountByDate(ctx context.Context, date time.Time) (remaining, total int64, err error)
}

type BookingStore interface {
	CreateWithSeats(ctx context.Context, booking *models.Booking, seatLabels []string) error
	GetByID(ctx context.Context, id int64) (*models.Booking, error)
	GetByUserID(ctx context.Context, userID int64) ([]models.Booking, error)
	GetSeats(ctx context.Context, bookingID int64) ([]models.Seat, error)
}

type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateToken(ctx context.Context, userID int64, token string) error
}

// Publisher emits domain events to the message broker, best-effort
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// AvailabilityNotifier receives the post-commit availability trigger
type AvailabilityNotifier interface {
	NotifyBookingCommitted(concertID int64, date time.Time)
}

// Searcher indexes and queries the concert catalog
type Searcher interface {
	IndexConcert(ctx context.Context, doc *search.ConcertDocument) error
	Search(ctx context.Context, query string, size int) ([]int64, error)
}

type Services struct {
	Auth          *AuthService
	Concerts      *ConcertService
	Bookings      *BookingService
	Subscriptions *SubscriptionService
}

func NewServices(repos *repository.Repositories, resolver *auth.Resolver, registry *subscription.Registry, natsClient *messaging.NATSClient, searchClient *search.Client, cacheClient *cache.Client) *Services {
	// The concrete NATS and Elasticsearch clients may be absent; the
	// services degrade rather than carry typed nils in interface fields.
	var publisher Publisher
	if natsClient != nil {
		publisher = natsClient
	}
	var searcher Searcher
	if searchClient != nil {
		searcher = searchClient
	}

	return &Services{
		Auth:          NewAuthService(repos.Users, cacheClient),
		Concerts:      NewConcertService(repos.Concerts, repos.Performers, repos.Seats, searcher, publisher),
		Bookings:      NewBookingService(repos.Bookings, repos.Concerts, repos.Seats, resolver, registry, publisher),
		Subscriptions: NewSubscriptionService(repos.Concerts, resolver, registry),
	}
}
