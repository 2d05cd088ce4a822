package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "ovation/internal/errors"
	"ovation/internal/models"
	"ovation/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services *service.Services

	// How long a subscriber's request is held open before the wait is
	// abandoned server-side.
	subscribeWaitTimeout time.Duration
}

func NewHandlers(services *service.Services, subscribeWaitTimeout time.Duration) *Handlers {
	return &Handlers{
		services:             services,
		subscribeWaitTimeout: subscribeWaitTimeout,
	}
}

// authToken extracts the session token from the auth cookie or the
// Authorization header
func authToken(c *gin.Context) string {
	if cookie, err := c.Cookie("auth"); err == nil && cookie != "" {
		return cookie
	}
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// respondError maps service errors onto HTTP statuses. Seat contention
// maps to 403 like any other refused booking.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperrors.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
	case errors.Is(err, apperrors.ErrSeatsUnavailable):
		c.JSON(http.StatusForbidden, gin.H{"error": "Seats unavailable"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		slog.Error("Request failed", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// Concerts handlers

// CreateConcert - POST /api/concerts
func (h *Handlers) CreateConcert(c *gin.Context) {
	var req models.CreateConcertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	concert, err := h.services.Concerts.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.CreateConcertResponse{ID: concert.ID})
}

// ListConcerts - GET /api/concerts
func (h *Handlers) ListConcerts(c *gin.Context) {
	query := c.Query("query")

	concerts, err := h.services.Concerts.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, concerts)
}

// ListConcertSummaries - GET /api/concerts/summaries
func (h *Handlers) ListConcertSummaries(c *gin.Context) {
	concerts, err := h.services.Concerts.List(c.Request.Context(), "")
	if err != nil {
		respondError(c, err)
		return
	}

	summaries := make([]models.ConcertSummaryResponseItem, len(concerts))
	for i, concert := range concerts {
		summaries[i] = models.ConcertSummaryResponseItem{
			ID:        concert.ID,
			Title:     concert.Title,
			ImageName: concert.ImageName,
		}
	}

	c.JSON(http.StatusOK, summaries)
}

// GetConcert - GET /api/concerts/:id
func (h *Handlers) GetConcert(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid concert id"})
		return
	}

	concert, err := h.services.Concerts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, concert)
}

// Performers handlers

// ListPerformers - GET /api/performers
func (h *Handlers) ListPerformers(c *gin.Context) {
	performers, err := h.services.Concerts.ListPerformers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, performers)
}

// GetPerformer - GET /api/performers/:id
func (h *Handlers) GetPerformer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid performer id"})
		return
	}

	performer, err := h.services.Concerts.GetPerformer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, performer)
}
