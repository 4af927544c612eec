package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/cpclub/clubhub/models"
)

// RanklistStore manages ranklists plus their event and member associations.
type RanklistStore struct {
	db *gorm.DB
}

// NewRanklistStore creates a RanklistStore.
func NewRanklistStore(db *gorm.DB) *RanklistStore {
	return &RanklistStore{db: db}
}

// Create inserts a ranklist.
func (s *RanklistStore) Create(ctx context.Context, ranklist *models.Ranklist) error {
	return translateError(s.db.WithContext(ctx).Create(ranklist).Error)
}

// Get returns the ranklist by id or ErrNotFound.
func (s *RanklistStore) Get(ctx context.Context, id uint) (*models.Ranklist, error) {
	var ranklist models.Ranklist
	if err := s.db.WithContext(ctx).First(&ranklist, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &ranklist, nil
}

// List returns all ranklists, newest first.
func (s *RanklistStore) List(ctx context.Context) ([]models.Ranklist, error) {
	var ranklists []models.Ranklist
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&ranklists).Error
	if err != nil {
		return nil, err
	}
	return ranklists, nil
}

// AttachEvent links an event to a ranklist with the given weight. Both rows
// must exist; attaching the same event twice yields ErrDuplicate.
func (s *RanklistStore) AttachEvent(ctx context.Context, ranklistID, eventID uint, weight float64) (*models.RanklistEvent, error) {
	if _, err := s.Get(ctx, ranklistID); err != nil {
		return nil, err
	}
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, eventID).Error; err != nil {
		return nil, translateError(err)
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.RanklistEvent{}).
		Where("ranklist_id = ? AND event_id = ?", ranklistID, eventID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicate
	}

	attachment := models.RanklistEvent{
		RanklistID: ranklistID,
		EventID:    eventID,
		Weight:     weight,
	}
	if err := s.db.WithContext(ctx).Create(&attachment).Error; err != nil {
		return nil, translateError(err)
	}
	attachment.Event = event
	return &attachment, nil
}

// DetachEvent removes an event attachment.
func (s *RanklistStore) DetachEvent(ctx context.Context, ranklistID, eventID uint) error {
	var attachment models.RanklistEvent
	err := s.db.WithContext(ctx).
		Where("ranklist_id = ? AND event_id = ?", ranklistID, eventID).
		First(&attachment).Error
	if err != nil {
		return translateError(err)
	}
	return s.db.WithContext(ctx).Delete(&attachment).Error
}

// Events returns a ranklist's attachments with their events preloaded.
func (s *RanklistStore) Events(ctx context.Context, ranklistID uint) ([]models.RanklistEvent, error) {
	var attachments []models.RanklistEvent
	err := s.db.WithContext(ctx).Preload("Event").
		Where("ranklist_id = ?", ranklistID).
		Order("created_at ASC").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

// AddMember tracks a user on a ranklist. Both rows must exist; adding the
// same user twice yields ErrDuplicate.
func (s *RanklistStore) AddMember(ctx context.Context, ranklistID, userID uint) (*models.RanklistMember, error) {
	if _, err := s.Get(ctx, ranklistID); err != nil {
		return nil, err
	}
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, translateError(err)
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.RanklistMember{}).
		Where("ranklist_id = ? AND user_id = ?", ranklistID, userID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicate
	}

	member := models.RanklistMember{
		RanklistID: ranklistID,
		UserID:     userID,
	}
	if err := s.db.WithContext(ctx).Create(&member).Error; err != nil {
		return nil, translateError(err)
	}
	member.User = user
	return &member, nil
}

// Members returns a ranklist's tracked users.
func (s *RanklistStore) Members(ctx context.Context, ranklistID uint) ([]models.RanklistMember, error) {
	var members []models.RanklistMember
	err := s.db.WithContext(ctx).Preload("User").
		Where("ranklist_id = ?", ranklistID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}
