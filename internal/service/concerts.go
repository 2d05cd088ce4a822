package service

import (
	"context"
	"fmt"
	"time"

	apperrors "ovation/internal/errors"
	"ovation/internal/logger"
	"ovation/internal/models"
	"ovation/internal/search"
)

// ConcertService serves the catalog: concerts, performers, search, and
// seeding of the theatre layout for new performance dates. Plain reads,
// no contention concerns.
type ConcertService struct {
	concerts   ConcertStore
	performers PerformerStore
	seats      SeatStore
	searcher   Searcher
	events     Publisher
}

func NewConcertService(concerts ConcertStore, performers PerformerStore, seats SeatStore, searcher Searcher, events Publisher) *ConcertService {
	return &ConcertService{
		concerts:   concerts,
		performers: performers,
		seats:      seats,
		searcher:   searcher,
		events:     events,
	}
}

// Create adds a concert to the catalog, seeds seats for each new date,
// and indexes the concert for search
func (c *ConcertService) Create(ctx context.Context, req *models.CreateConcertRequest) (*models.Concert, error) {
	dates := make([]time.Time, 0, len(req.Dates))
	for _, raw := range req.Dates {
		date, err := models.ParseDateTime(raw)
		if err != nil {
			return nil, apperrors.ErrInvalidRequest
		}
		dates = append(dates, date)
	}
	if len(dates) == 0 {
		return nil, apperrors.ErrInvalidRequest
	}

	var performerNames []string
	for _, id := range req.PerformerIDs {
		performer, err := c.performers.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get performer: %w", err)
		}
		if performer == nil {
			return nil, apperrors.ErrInvalidRequest
		}
		performerNames = append(performerNames, performer.Name)
	}

	concert := &models.Concert{
		Title:     req.Title,
		ImageName: req.ImageName,
		Blurb:     req.Blurb,
		Dates:     dates,
	}

	if err := c.concerts.Create(ctx, concert, req.PerformerIDs); err != nil {
		return nil, fmt.Errorf("failed to create concert: %w", err)
	}

	for _, date := range dates {
		if err := c.seats.CreateSeatsForDate(ctx, date); err != nil {
			return nil, fmt.Errorf("failed to seed seats for date: %w", err)
		}
	}

	if c.searcher != nil {
		doc := &search.ConcertDocument{
			ID:         concert.ID,
			Title:      concert.Title,
			Blurb:      concert.Blurb,
			Performers: performerNames,
		}
		if err := c.searcher.IndexConcert(ctx, doc); err != nil {
			logger.WithContext(ctx).Error("Failed to index concert", "error", err, "concert_id", concert.ID)
		}
	}

	if c.events != nil {
		event := models.ConcertCreatedEvent{
			ConcertID: concert.ID,
			Title:     concert.Title,
			Timestamp: time.Now(),
		}
		if err := c.events.Publish(models.EventConcertCreated, event); err != nil {
			logger.WithContext(ctx).Error("Failed to publish concert created event",
				"error", err,
				"event_type", models.EventConcertCreated)
		}
	}

	return concert, nil
}

// Get returns a concert by id
func (c *ConcertService) Get(ctx context.Context, id int64) (*models.Concert, error) {
	concert, err := c.concerts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get concert: %w", err)
	}
	if concert == nil {
		return nil, apperrors.ErrNotFound
	}
	return concert, nil
}

// List returns the catalog; a non-empty query goes through the search
// index first, falling back to a plain listing when search is down
func (c *ConcertService) List(ctx context.Context, query string) ([]models.Concert, error) {
	if query != "" && c.searcher != nil {
		ids, err := c.searcher.Search(ctx, query, 20)
		if err == nil {
			return c.concerts.ListByIDs(ctx, ids)
		}
		logger.WithContext(ctx).Error("Concert search failed, falling back to listing", "error", err)
	}

	concerts, err := c.concerts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list concerts: %w", err)
	}
	return concerts, nil
}

// GetPerformer returns a performer by id
func (c *ConcertService) GetPerformer(ctx context.Context, id int64) (*models.Performer, error) {
	performer, err := c.performers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get performer: %w", err)
	}
	if performer == nil {
		return nil, apperrors.ErrNotFound
	}
	return performer, nil
}

// ListPerformers returns all performers
func (c *ConcertService) ListPerformers(ctx context.Context) ([]models.Performer, error) {
	performers, err := c.performers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list performers: %w", err)
	}
	return performers, nil
}
