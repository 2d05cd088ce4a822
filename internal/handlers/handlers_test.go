package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "ovation/internal/errors"
	"ovation/internal/models"
	"ovation/internal/service"
	"ovation/internal/subscription"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var perfDate = time.Date(2026, 10, 3, 20, 0, 0, 0, time.UTC)

// fakeStore backs the booking and seat interfaces with a mutex-guarded
// map, preserving the all-or-nothing reservation contract.
type fakeStore struct {
	mu            sync.Mutex
	seats         map[int64]*models.Seat
	bookings      map[int64]*models.Booking
	bookingSeats  map[int64][]int64
	nextSeatID    int64
	nextBookingID int64
}

func newFakeStore(date time.Time, labels ...string) *fakeStore {
	s := &fakeStore{
		seats:        make(map[int64]*models.Seat),
		bookings:     make(map[int64]*models.Booking),
		bookingSeats: make(map[int64][]int64),
	}
	for _, label := range labels {
		s.nextSeatID++
		s.seats[s.nextSeatID] = &models.Seat{ID: s.nextSeatID, Label: label, Date: date, Price: 10000}
	}
	return s
}

func (s *fakeStore) CreateWithSeats(ctx context.Context, booking *models.Booking, seatLabels []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var selected []*models.Seat
	for _, label := range seatLabels {
		for _, seat := range s.seats {
			if seat.Date.Equal(booking.Date) && seat.Label == label && !seat.Booked {
				selected = append(selected, seat)
			}
		}
	}
	if len(selected) < len(seatLabels) {
		return apperrors.ErrSeatsUnavailable
	}

	var seatIDs []int64
	for _, seat := range selected {
		seat.Booked = true
		seat.Version++
		seatIDs = append(seatIDs, seat.ID)
		booking.Seats = append(booking.Seats, *seat)
	}

	s.nextBookingID++
	booking.ID = s.nextBookingID
	booking.CreatedAt = time.Now()

	stored := *booking
	s.bookings[booking.ID] = &stored
	s.bookingSeats[booking.ID] = seatIDs
	return nil
}

func (s *fakeStore) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *booking
	return &copied, nil
}

func (s *fakeStore) GetByUserID(ctx context.Context, userID int64) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var bookings []models.Booking
	for _, booking := range s.bookings {
		if booking.UserID == userID {
			bookings = append(bookings, *booking)
		}
	}
	return bookings, nil
}

func (s *fakeStore) GetSeats(ctx context.Context, bookingID int64) ([]models.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var seats []models.Seat
	for _, seatID := range s.bookingSeats[bookingID] {
		seats = append(seats, *s.seats[seatID])
	}
	return seats, nil
}

func (s *fakeStore) CreateSeatsForDate(ctx context.Context, date time.Time) error {
	return nil
}

func (s *fakeStore) GetByDate(ctx context.Context, date time.Time, status models.SeatStatus) ([]models.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var seats []models.Seat
	for _, seat := range s.seats {
		if !seat.Date.Equal(date) {
			continue
		}
		if status == models.SeatStatusBooked && !seat.Booked {
			continue
		}
		if status == models.SeatStatusUnbooked && seat.Booked {
			continue
		}
		seats = append(seats, *seat)
	}
	return seats, nil
}

func (s *fakeStore) CountByDate(ctx context.Context, date time.Time) (remaining, total int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, seat := range s.seats {
		if !seat.Date.Equal(date) {
			continue
		}
		total++
		if !seat.Booked {
			remaining++
		}
	}
	return remaining, total, nil
}

type fakeConcerts struct {
	concert *models.Concert
}

func (f *fakeConcerts) Create(ctx context.Context, concert *models.Concert, performerIDs []int64) error {
	return nil
}

func (f *fakeConcerts) GetByID(ctx context.Context, id int64) (*models.Concert, error) {
	if f.concert != nil && f.concert.ID == id {
		return f.concert, nil
	}
	return nil, nil
}

func (f *fakeConcerts) List(ctx context.Context) ([]models.Concert, error) {
	return nil, nil
}

func (f *fakeConcerts) ListByIDs(ctx context.Context, ids []int64) ([]models.Concert, error) {
	return nil, nil
}

type fakeResolver struct {
	users map[string]*models.User
}

func (f *fakeResolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	user, ok := f.users[token]
	if !ok {
		return nil, apperrors.ErrUnauthenticated
	}
	return user, nil
}

type testEnv struct {
	router   *gin.Engine
	store    *fakeStore
	registry *subscription.Registry
}

func newTestEnv(t *testing.T, labels ...string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newFakeStore(perfDate, labels...)
	concerts := &fakeConcerts{concert: &models.Concert{
		ID: 1, Title: "Symphony No. 9", Dates: []time.Time{perfDate},
	}}
	resolver := &fakeResolver{users: map[string]*models.User{
		"token-alice": {ID: 1, Username: "alice"},
		"token-bob":   {ID: 2, Username: "bob"},
	}}

	registry := subscription.NewRegistry(store, 2, 16)
	t.Cleanup(registry.Close)

	services := &service.Services{
		Bookings:      service.NewBookingService(store, concerts, store, resolver, registry, nil),
		Subscriptions: service.NewSubscriptionService(concerts, resolver, registry),
	}

	h := NewHandlers(services, 500*time.Millisecond)

	router := gin.New()
	router.POST("/api/bookings", h.MakeBooking)
	router.GET("/api/bookings", h.ListBookings)
	router.GET("/api/bookings/:id", h.GetBooking)
	router.GET("/api/seats/:date", h.ListSeats)
	router.POST("/api/subscribe/concertInfo", h.SubscribeConcertInfo)

	return &testEnv{router: router, store: store, registry: registry}
}

func (e *testEnv) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func bookingBody(labels ...string) string {
	body, _ := json.Marshal(models.MakeBookingRequest{
		ConcertID:  1,
		Date:       models.FormatDateTime(perfDate),
		SeatLabels: labels,
	})
	return string(body)
}

func TestMakeBookingEndpoint_Created(t *testing.T) {
	env := newTestEnv(t, "A1", "A2", "A3")

	w := env.do(http.MethodPost, "/api/bookings", "token-alice", bookingBody("A1", "A2"))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/bookings/1", w.Header().Get("Location"))

	var resp models.MakeBookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
}

func TestMakeBookingEndpoint_AuthViaCookie(t *testing.T) {
	env := newTestEnv(t, "A1")

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(bookingBody("A1")))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "auth", Value: "token-alice"})
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestMakeBookingEndpoint_Unauthorized(t *testing.T) {
	env := newTestEnv(t, "A1")

	w := env.do(http.MethodPost, "/api/bookings", "", bookingBody("A1"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMakeBookingEndpoint_BadDate(t *testing.T) {
	env := newTestEnv(t, "A1")

	body := `{"concert_id":1,"date":"not-a-date","seat_labels":["A1"]}`
	w := env.do(http.MethodPost, "/api/bookings", "token-alice", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMakeBookingEndpoint_UnscheduledDate(t *testing.T) {
	env := newTestEnv(t, "A1")

	body, _ := json.Marshal(models.MakeBookingRequest{
		ConcertID:  1,
		Date:       models.FormatDateTime(perfDate.AddDate(0, 0, 1)),
		SeatLabels: []string{"A1"},
	})
	w := env.do(http.MethodPost, "/api/bookings", "token-alice", string(body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMakeBookingEndpoint_SeatTaken(t *testing.T) {
	env := newTestEnv(t, "A1", "A2")

	w := env.do(http.MethodPost, "/api/bookings", "token-alice", bookingBody("A1"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(http.MethodPost, "/api/bookings", "token-bob", bookingBody("A1", "A2"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The loser's other seat stays free.
	remaining, _, err := env.store.CountByDate(context.Background(), perfDate)
	require.NoError(t, err)
	assert.Equal(t, int64(1), remaining)
}

func TestGetBookingEndpoint_OwnerOnly(t *testing.T) {
	env := newTestEnv(t, "A1")

	w := env.do(http.MethodPost, "/api/bookings", "token-alice", bookingBody("A1"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(http.MethodGet, "/api/bookings/1", "token-alice", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
	require.Len(t, resp.Seats, 1)
	assert.Equal(t, "A1", resp.Seats[0].Label)

	w = env.do(http.MethodGet, "/api/bookings/1", "token-bob", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetBookingEndpoint_NotFound(t *testing.T) {
	env := newTestEnv(t, "A1")

	w := env.do(http.MethodGet, "/api/bookings/99", "token-alice", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListBookingsEndpoint(t *testing.T) {
	env := newTestEnv(t, "A1", "A2")

	w := env.do(http.MethodPost, "/api/bookings", "token-alice", bookingBody("A1"))
	require.Equal(t, http.StatusCreated, w.Code)
	w = env.do(http.MethodPost, "/api/bookings", "token-bob", bookingBody("A2"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(http.MethodGet, "/api/bookings", "token-alice", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp []models.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
}

func TestListSeatsEndpoint_StatusFilter(t *testing.T) {
	env := newTestEnv(t, "A1", "A2", "A3")

	w := env.do(http.MethodPost, "/api/bookings", "token-alice", bookingBody("A1"))
	require.Equal(t, http.StatusCreated, w.Code)

	path := fmt.Sprintf("/api/seats/%s?status=Unbooked", models.FormatDateTime(perfDate))
	w = env.do(http.MethodGet, path, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var seats []models.SeatResponseItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &seats))
	assert.Len(t, seats, 2)
	for _, seat := range seats {
		assert.False(t, seat.Booked)
	}
}

func TestListSeatsEndpoint_BadStatus(t *testing.T) {
	env := newTestEnv(t, "A1")

	path := fmt.Sprintf("/api/seats/%s?status=Maybe", models.FormatDateTime(perfDate))
	w := env.do(http.MethodGet, path, "", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func subscribeBody(threshold int) string {
	body, _ := json.Marshal(models.SubscriptionRequest{
		ConcertID:        1,
		Date:             models.FormatDateTime(perfDate),
		PercentageBooked: threshold,
	})
	return string(body)
}

func TestSubscribeEndpoint_ResolvesAfterBooking(t *testing.T) {
	env := newTestEnv(t, "A1", "A2")

	type result struct {
		code int
		body []byte
	}
	done := make(chan result, 1)

	go func() {
		w := env.do(http.MethodPost, "/api/subscribe/concertInfo", "token-bob", subscribeBody(50))
		done <- result{w.Code, w.Body.Bytes()}
	}()

	// Let the subscription register before booking.
	time.Sleep(50 * time.Millisecond)

	w := env.do(http.MethodPost, "/api/bookings", "token-alice", bookingBody("A1"))
	require.Equal(t, http.StatusCreated, w.Code)

	select {
	case res := <-done:
		require.Equal(t, http.StatusOK, res.code)
		var notification models.AvailabilityNotification
		require.NoError(t, json.Unmarshal(res.body, &notification))
		assert.Equal(t, 1, notification.RemainingSeats)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber was never resolved")
	}
}

func TestSubscribeEndpoint_TimesOut(t *testing.T) {
	env := newTestEnv(t, "A1", "A2")

	// Threshold cannot be met without bookings; the handler gives up at
	// its configured wait timeout.
	w := env.do(http.MethodPost, "/api/subscribe/concertInfo", "token-bob", subscribeBody(90))

	assert.Equal(t, http.StatusRequestTimeout, w.Code)
}

func TestSubscribeEndpoint_BadThreshold(t *testing.T) {
	env := newTestEnv(t, "A1")

	w := env.do(http.MethodPost, "/api/subscribe/concertInfo", "token-bob", subscribeBody(101))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/subscribe/concertInfo", "token-bob", subscribeBody(-5))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscribeEndpoint_UnknownConcert(t *testing.T) {
	env := newTestEnv(t, "A1")

	body, _ := json.Marshal(models.SubscriptionRequest{
		ConcertID: 42,
		Date:      models.FormatDateTime(perfDate),
	})
	w := env.do(http.MethodPost, "/api/subscribe/concertInfo", "token-bob", string(body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscribeEndpoint_Unauthorized(t *testing.T) {
	env := newTestEnv(t, "A1")

	w := env.do(http.MethodPost, "/api/subscribe/concertInfo", "", subscribeBody(50))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
