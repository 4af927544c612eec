package store

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/cpclub/clubhub/models"
)

// PostStore performs keyed lookups, uniqueness checks and paginated listing
// against the posts table.
type PostStore struct {
	db *gorm.DB
}

// NewPostStore creates a PostStore.
func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// PostUpdate carries the merged fields applied by Update.
type PostUpdate struct {
	Title         string
	Slug          string
	Author        string
	Content       string
	Status        string
	FeaturedImage string
	PublishedAt   *time.Time
	Featured      bool
}

// Create inserts a post after pre-checking title/slug uniqueness. A
// concurrent duplicate slipping past the pre-check is still reported as
// ErrDuplicate via the store constraint.
func (s *PostStore) Create(ctx context.Context, post *models.Post) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("title = ? OR slug = ?", post.Title, post.Slug).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return translateError(s.db.WithContext(ctx).Create(post).Error)
}

// Update applies a partial merge onto an existing post and stamps UpdatedAt.
// Collisions against other rows on title or slug yield ErrDuplicate.
func (s *PostStore) Update(ctx context.Context, id uint, upd PostUpdate) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translateError(err)
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("(title = ? OR slug = ?) AND id <> ?", upd.Title, upd.Slug, id).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicate
	}

	post.Title = upd.Title
	post.Slug = upd.Slug
	post.Author = upd.Author
	post.Content = upd.Content
	post.Status = upd.Status
	post.FeaturedImage = upd.FeaturedImage
	post.PublishedAt = upd.PublishedAt
	post.Featured = upd.Featured
	post.UpdatedAt = time.Now()

	if err := s.db.WithContext(ctx).Save(&post).Error; err != nil {
		return nil, translateError(err)
	}
	return &post, nil
}

// Delete removes a post and returns the deleted row so callers can report
// its display name.
func (s *PostStore) Delete(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translateError(err)
	}
	if err := s.db.WithContext(ctx).Delete(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Get returns the full record or ErrNotFound.
func (s *PostStore) Get(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &post, nil
}

// List returns one page ordered by creation time descending. A search term
// matches title, author or content case-insensitively.
func (s *PostStore) List(ctx context.Context, page, pageSize int, search string) ([]models.Post, Pagination, error) {
	q := s.db.WithContext(ctx).Model(&models.Post{})
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(content) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var posts []models.Post
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&posts).Error
	if err != nil {
		return nil, Pagination{}, err
	}
	return posts, NewPagination(page, pageSize, total), nil
}

// ListPublished returns one page of published posts for the public view.
func (s *PostStore) ListPublished(ctx context.Context, page, pageSize int) ([]models.Post, Pagination, error) {
	q := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("status = ?", models.PostStatusPublished)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var posts []models.Post
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&posts).Error
	if err != nil {
		return nil, Pagination{}, err
	}
	return posts, NewPagination(page, pageSize, total), nil
}
