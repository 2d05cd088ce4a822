package handlers

import (
	"net/http"
	"time"

	"ovation/internal/models"

	"github.com/gin-gonic/gin"
)

// Subscriptions handlers

// SubscribeConcertInfo - POST /api/subscribe/concertInfo
// Suspends the request until the booked percentage for the concert date
// reaches the requested threshold, then responds with the remaining
// seat count. The wait is bounded by the configured timeout; a client
// disconnect deregisters the subscription.
func (h *Handlers) SubscribeConcertInfo(c *gin.Context) {
	var req models.SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := models.ParseDateTime(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	handle, err := h.services.Subscriptions.Subscribe(c.Request.Context(), authToken(c), req.ConcertID, date, req.PercentageBooked)
	if err != nil {
		respondError(c, err)
		return
	}

	timeout := time.NewTimer(h.subscribeWaitTimeout)
	defer timeout.Stop()

	select {
	case notification := <-handle.Outcome():
		c.JSON(http.StatusOK, notification)

	case <-timeout.C:
		h.services.Subscriptions.Cancel(handle)
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "Subscription timed out"})

	case <-c.Request.Context().Done():
		// Client went away; drop the registry entry so it cannot leak.
		h.services.Subscriptions.Cancel(handle)
	}
}
