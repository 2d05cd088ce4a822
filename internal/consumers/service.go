package consumers

import (
	"log/slog"

	"ovation/internal/config"
	"ovation/internal/database"
	"ovation/internal/messaging"
	"ovation/internal/models"
	"ovation/internal/repository"
)

// Service runs the event consumers: audit and metrics over the domain
// event stream published by the API.
type Service struct {
	db       *database.DB
	nats     *messaging.NATSClient
	handlers *Handlers
}

func NewService(cfg *config.Config) (*Service, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		db.Close()
		return nil, err
	}

	repos := repository.NewRepositories(db)

	return &Service{
		db:       db,
		nats:     natsClient,
		handlers: NewHandlers(repos.Bookings),
	}, nil
}

func (s *Service) Start() error {
	slog.Info("Starting NATS consumers...")

	// Queue group so booking events are processed once across replicas.
	_, err := s.nats.SubscribeQueue(models.EventBookingCommitted, "audit", s.handlers.HandleBookingCommitted)
	if err != nil {
		return err
	}

	_, err = s.nats.Subscribe(models.EventConcertCreated, s.handlers.HandleConcertCreated)
	if err != nil {
		return err
	}

	slog.Info("All consumers started successfully")
	return nil
}

func (s *Service) Shutdown() error {
	slog.Info("Shutting down consumer service...")

	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
