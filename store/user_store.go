package store

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/cpclub/clubhub/models"
)

// UserStore performs lookups and writes against the users table.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a UserStore.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a user after pre-checking email uniqueness.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", user.Email).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return translateError(s.db.WithContext(ctx).Create(user).Error)
}

// Get returns the user by id or ErrNotFound.
func (s *UserStore) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// GetByEmail returns the user by email or ErrNotFound.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// UpdatePassword replaces the stored hash and stamps UpdatedAt.
func (s *UserStore) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return translateError(err)
	}
	return s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    time.Now(),
	}).Error
}

// Search returns users matching the query on name, email or student id,
// case-insensitively.
func (s *UserStore) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 20
	}
	q := s.db.WithContext(ctx).Model(&models.User{})
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(student_id) LIKE ?", like, like, like)
	}

	var users []models.User
	if err := q.Order("name ASC").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SearchAvailable returns users matching the query that are not yet members
// of the given ranklist. Name, email and student id are matched
// case-insensitively.
func (s *UserStore) SearchAvailable(ctx context.Context, ranklistID uint, query string, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 20
	}
	q := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id NOT IN (?)", s.db.Model(&models.RanklistMember{}).
			Select("user_id").
			Where("ranklist_id = ?", ranklistID))
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(student_id) LIKE ?", like, like, like)
	}

	var users []models.User
	if err := q.Order("name ASC").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
