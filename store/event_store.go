package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/cpclub/clubhub/models"
)

// EventStore performs lookups against the events table.
type EventStore struct {
	db *gorm.DB
}

// NewEventStore creates an EventStore.
func NewEventStore(db *gorm.DB) *EventStore {
	return &EventStore{db: db}
}

// Create inserts an event.
func (s *EventStore) Create(ctx context.Context, event *models.Event) error {
	return translateError(s.db.WithContext(ctx).Create(event).Error)
}

// Get returns the event by id or ErrNotFound.
func (s *EventStore) Get(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &event, nil
}

// Available returns events matching the query that are not yet attached to
// the given ranklist, newest first.
func (s *EventStore) Available(ctx context.Context, ranklistID uint, query string, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	q := s.db.WithContext(ctx).Model(&models.Event{}).
		Where("id NOT IN (?)", s.db.Model(&models.RanklistEvent{}).
			Select("event_id").
			Where("ranklist_id = ?", ranklistID))
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(title) LIKE ?", like)
	}

	var events []models.Event
	if err := q.Order("starts_at DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
