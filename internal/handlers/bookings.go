package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"ovation/internal/models"

	"github.com/gin-gonic/gin"
)

// Bookings handlers

// MakeBooking - POST /api/bookings
// Books the requested seats atomically; 403 when any seat is taken
func (h *Handlers) MakeBooking(c *gin.Context) {
	var req models.MakeBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := models.ParseDateTime(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	booking, err := h.services.Bookings.Make(c.Request.Context(), authToken(c), req.ConcertID, date, req.SeatLabels)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/bookings/%d", booking.ID))
	c.JSON(http.StatusCreated, models.MakeBookingResponse{ID: booking.ID})
}

// GetBooking - GET /api/bookings/:id
// Only the booking's owner may read it
func (h *Handlers) GetBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, err := h.services.Bookings.Get(c.Request.Context(), authToken(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookingResponse(booking))
}

// ListBookings - GET /api/bookings
// Lists the authenticated user's bookings
func (h *Handlers) ListBookings(c *gin.Context) {
	bookings, err := h.services.Bookings.ListForUser(c.Request.Context(), authToken(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]models.BookingResponse, len(bookings))
	for i := range bookings {
		response[i] = bookingResponse(&bookings[i])
	}

	c.JSON(http.StatusOK, response)
}

func bookingResponse(booking *models.Booking) models.BookingResponse {
	seats := make([]models.SeatResponseItem, len(booking.Seats))
	for i, seat := range booking.Seats {
		seats[i] = models.SeatResponseItem{
			Label:  seat.Label,
			Date:   models.FormatDateTime(seat.Date),
			Price:  seat.Price,
			Booked: seat.Booked,
		}
	}

	return models.BookingResponse{
		ID:        booking.ID,
		ConcertID: booking.ConcertID,
		Date:      models.FormatDateTime(booking.Date),
		Seats:     seats,
	}
}
