package subscription

import (
	"context"
	"math"
	"sync"
	"time"

	"ovation/internal/logger"
	"ovation/internal/metrics"
	"ovation/internal/models"
)

// SeatCounter reads seat availability for a performance date
type SeatCounter interface {
	CountByDate(ctx context.Context, date time.Time) (remaining, total int64, err error)
}

// Handle is the completion side of one subscription. It receives exactly
// one outcome; the transport layer adapts it to its own suspension
// mechanism (a handler blocked on Outcome, a long-poll, etc).
type Handle struct {
	ch   chan models.AvailabilityNotification
	once sync.Once
}

func newHandle() *Handle {
	// Buffered so delivery never blocks on a subscriber that already
	// abandoned its wait.
	return &Handle{ch: make(chan models.AvailabilityNotification, 1)}
}

// Outcome returns the channel on which the notification is delivered
func (h *Handle) Outcome() <-chan models.AvailabilityNotification {
	return h.ch
}

func (h *Handle) complete(n models.AvailabilityNotification) {
	h.once.Do(func() {
		h.ch <- n
	})
}

type subscription struct {
	concertID int64
	date      time.Time
	threshold int
}

type task struct {
	concertID int64
	date      time.Time
}

// Registry holds pending availability subscriptions and resolves them
// asynchronously after booking commits. It is process-local: entries do
// not survive a restart.
//
// One mutex guards registration, the sweep's snapshot read, and removal.
// The slow part of a sweep (counting seats) runs outside the lock so
// booking throughput is never serialized behind it.
type Registry struct {
	seats SeatCounter

	mu   sync.Mutex
	subs map[*Handle]subscription

	tasks chan task
	wg    sync.WaitGroup

	closeOnce sync.Once
	done      chan struct{}
}

// NewRegistry starts a registry with the given sweep worker pool
func NewRegistry(seats SeatCounter, workers, queueSize int) *Registry {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}

	r := &Registry{
		seats: seats,
		subs:  make(map[*Handle]subscription),
		tasks: make(chan task, queueSize),
		done:  make(chan struct{}),
	}

	r.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go r.worker()
	}

	return r
}

// Subscribe registers a pending notification request for the given
// concert date and booked-percentage threshold. The caller must have
// validated the concert and date already.
func (r *Registry) Subscribe(concertID int64, date time.Time, threshold int) *Handle {
	h := newHandle()

	r.mu.Lock()
	r.subs[h] = subscription{concertID: concertID, date: date, threshold: threshold}
	r.mu.Unlock()

	metrics.SubscriptionsActive.Inc()
	return h
}

// Cancel removes a subscription whose caller abandoned its wait.
// Idempotent: cancelling an already resolved or cancelled handle is a
// no-op.
func (r *Registry) Cancel(h *Handle) {
	r.mu.Lock()
	_, present := r.subs[h]
	if present {
		delete(r.subs, h)
	}
	r.mu.Unlock()

	if present {
		metrics.SubscriptionsActive.Dec()
	}
}

// NotifyBookingCommitted schedules an availability sweep for the given
// concert date. Never blocks: if the queue is full the sweep is dropped,
// which is non-fatal since the next booking for the same date
// re-triggers evaluation.
func (r *Registry) NotifyBookingCommitted(concertID int64, date time.Time) {
	r.mu.Lock()
	empty := len(r.subs) == 0
	r.mu.Unlock()
	if empty {
		return
	}

	select {
	case r.tasks <- task{concertID: concertID, date: date}:
	case <-r.done:
	default:
		metrics.SweepsDroppedTotal.Inc()
		logger.Get().Warn("Availability sweep dropped, queue full",
			"concert_id", concertID, "date", date)
	}
}

// Close stops the worker pool. Pending subscriptions are left
// unresolved; their callers time out on their own. The task channel is
// never closed so a late post-commit trigger cannot panic.
func (r *Registry) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
	})
	r.wg.Wait()
}

func (r *Registry) worker() {
	defer r.wg.Done()
	for {
		select {
		case <-r.done:
			return
		case t := <-r.tasks:
			r.sweep(t.concertID, t.date)
		}
	}
}

func (r *Registry) sweep(concertID int64, date time.Time) {
	log := logger.WithFields("concert_id", concertID, "date", models.FormatDateTime(date))

	// Snapshot matching entries, then release the lock before touching
	// the seat store.
	var matches []*Handle
	r.mu.Lock()
	for h, sub := range r.subs {
		if sub.concertID == concertID && sub.date.Equal(date) {
			matches = append(matches, h)
		}
	}
	r.mu.Unlock()

	if len(matches) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	remaining, total, err := r.seats.CountByDate(ctx, date)
	if err != nil {
		// Abandon this sweep; committed bookings are unaffected and the
		// next booking event re-triggers evaluation.
		log.Error("Failed to count remaining seats, sweep abandoned", "error", err)
		return
	}
	if total == 0 {
		log.Error("No seats exist for date, sweep abandoned")
		return
	}

	// Booked percentage is computed directly and rounded once, so a
	// threshold of T resolves exactly when round(booked share) >= T.
	percentageBooked := int(math.Round(100 * (1 - float64(remaining)/float64(total))))
	notification := models.AvailabilityNotification{RemainingSeats: int(remaining)}

	log.Debug("Availability sweep",
		"remaining", remaining, "total", total, "percentage_booked", percentageBooked)

	// Remove satisfied entries under the lock, deliver after releasing
	// it. The handle's one-shot guard makes delivery at-most-once even
	// if two sweeps race on the same entry.
	var resolved []*Handle
	r.mu.Lock()
	for _, h := range matches {
		sub, present := r.subs[h]
		if !present || sub.threshold > percentageBooked {
			continue
		}
		delete(r.subs, h)
		resolved = append(resolved, h)
	}
	r.mu.Unlock()

	for _, h := range resolved {
		h.complete(notification)
		metrics.SubscriptionsActive.Dec()
		metrics.NotificationsTotal.Inc()
	}
}
