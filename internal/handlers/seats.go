package handlers

import (
	"net/http"

	"ovation/internal/models"

	"github.com/gin-gonic/gin"
)

// Seats handlers

// ListSeats - GET /api/seats/:date
// Lists seats for a performance date, optionally filtered by status
// (Any, Booked, Unbooked)
func (h *Handlers) ListSeats(c *gin.Context) {
	date, err := models.ParseDateTime(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	status, ok := models.ParseSeatStatus(c.Query("status"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be Any, Booked or Unbooked"})
		return
	}

	seats, err := h.services.Bookings.Seats(c.Request.Context(), date, status)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]models.SeatResponseItem, len(seats))
	for i, seat := range seats {
		response[i] = models.SeatResponseItem{
			Label:  seat.Label,
			Date:   models.FormatDateTime(seat.Date),
			Price:  seat.Price,
			Booked: seat.Booked,
		}
	}

	c.JSON(http.StatusOK, response)
}
