package controllers

import (
	"context"

	"github.com/cpclub/clubhub/models"
	"github.com/cpclub/clubhub/store"
)

// Store interfaces consumed by the controllers. The gorm implementations
// live in the store package; tests substitute in-memory fakes.

// BlogStore is the accessor behind the blog admin actions.
type BlogStore interface {
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, id uint, upd store.PostUpdate) (*models.Post, error)
	Delete(ctx context.Context, id uint) (*models.Post, error)
	Get(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, page, pageSize int, search string) ([]models.Post, store.Pagination, error)
	ListPublished(ctx context.Context, page, pageSize int) ([]models.Post, store.Pagination, error)
}

// UserDirectory is the accessor behind authentication and user search.
type UserDirectory interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	Search(ctx context.Context, query string, limit int) ([]models.User, error)
	SearchAvailable(ctx context.Context, ranklistID uint, query string, limit int) ([]models.User, error)
}

// EventDirectory serves event creation and the available-events search.
type EventDirectory interface {
	Create(ctx context.Context, event *models.Event) error
	Get(ctx context.Context, id uint) (*models.Event, error)
	Available(ctx context.Context, ranklistID uint, query string, limit int) ([]models.Event, error)
}

// RanklistDirectory manages ranklists and their associations.
type RanklistDirectory interface {
	Create(ctx context.Context, ranklist *models.Ranklist) error
	Get(ctx context.Context, id uint) (*models.Ranklist, error)
	List(ctx context.Context) ([]models.Ranklist, error)
	AttachEvent(ctx context.Context, ranklistID, eventID uint, weight float64) (*models.RanklistEvent, error)
	DetachEvent(ctx context.Context, ranklistID, eventID uint) error
	Events(ctx context.Context, ranklistID uint) ([]models.RanklistEvent, error)
	AddMember(ctx context.Context, ranklistID, userID uint) (*models.RanklistMember, error)
	Members(ctx context.Context, ranklistID uint) ([]models.RanklistMember, error)
}
