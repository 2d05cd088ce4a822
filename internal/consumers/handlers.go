package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ovation/internal/logger"
	"ovation/internal/metrics"
	"ovation/internal/models"

	"github.com/nats-io/stan.go"
)

// BookingReader loads booking details to enrich audit entries
type BookingReader interface {
	GetSeats(ctx context.Context, bookingID int64) ([]models.Seat, error)
}

// Handlers process domain events off the NATS stream. Processing is
// additive only (audit log, metrics); a handler failure never touches
// booked state, the message is simply not acked and redelivered.
type Handlers struct {
	bookings BookingReader
}

func NewHandlers(bookings BookingReader) *Handlers {
	return &Handlers{bookings: bookings}
}

// HandleBookingCommitted consumes booking.committed
func (h *Handlers) HandleBookingCommitted(m *stan.Msg) {
	if err := h.processBookingCommitted(m.Data); err != nil {
		logger.Get().Error("Failed to process booking committed event", "error", err)
		return
	}
	m.Ack()
}

// HandleConcertCreated consumes concert.created
func (h *Handlers) HandleConcertCreated(m *stan.Msg) {
	if err := h.processConcertCreated(m.Data); err != nil {
		logger.Get().Error("Failed to process concert created event", "error", err)
		return
	}
	m.Ack()
}

func (h *Handlers) processBookingCommitted(data []byte) error {
	var event models.BookingCommittedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to unmarshal booking committed event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	seats, err := h.bookings.GetSeats(ctx, event.BookingID)
	if err != nil {
		return fmt.Errorf("failed to load booking seats: %w", err)
	}

	var amount int64
	for _, seat := range seats {
		amount += seat.Price
	}

	metrics.EventsConsumedTotal.WithLabelValues(models.EventBookingCommitted).Inc()
	logger.Get().Info("Booking committed",
		"booking_id", event.BookingID,
		"concert_id", event.ConcertID,
		"date", models.FormatDateTime(event.Date),
		"user_id", event.UserID,
		"seats", len(event.SeatLabels),
		"amount", amount)

	return nil
}

func (h *Handlers) processConcertCreated(data []byte) error {
	var event models.ConcertCreatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to unmarshal concert created event: %w", err)
	}

	metrics.EventsConsumedTotal.WithLabelValues(models.EventConcertCreated).Inc()
	logger.Get().Info("Concert created",
		"concert_id", event.ConcertID,
		"title", event.Title)

	return nil
}
