package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingsTotal counts booking attempts by outcome
	// (committed, unavailable, invalid, unauthenticated, error).
	BookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ovation_bookings_total",
		Help: "Booking attempts by outcome",
	}, []string{"outcome"})

	// BookedSeatsTotal counts seats reserved by committed bookings
	BookedSeatsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ovation_booked_seats_total",
		Help: "Seats reserved by committed bookings",
	})

	// SubscriptionsActive tracks currently registered availability subscriptions
	SubscriptionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ovation_subscriptions_active",
		Help: "Currently registered availability subscriptions",
	})

	// NotificationsTotal counts delivered availability notifications
	NotificationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ovation_availability_notifications_total",
		Help: "Delivered availability notifications",
	})

	// SweepsDroppedTotal counts availability sweeps dropped because the
	// task queue was full. Dropped sweeps are non-fatal: the next booking
	// for the same concert date re-triggers evaluation.
	SweepsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ovation_availability_sweeps_dropped_total",
		Help: "Availability sweeps dropped due to a full task queue",
	})

	// EventsConsumedTotal counts domain events processed by the consumers
	// binary, by subject
	EventsConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ovation_events_consumed_total",
		Help: "Domain events consumed from the stream by subject",
	}, []string{"subject"})
)
