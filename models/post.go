package models

import "time"

// Post statuses. Drafts are only visible through the admin surface.
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// Post represents a blog post managed through the admin surface.
// Title and slug each carry a unique index; the store layer pre-checks both
// before writes so concurrent duplicates still collapse to one error.
type Post struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"size:255;not null;uniqueIndex" json:"title"`
	Slug          string     `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Author        string     `gorm:"size:128;not null" json:"author"`
	Content       string     `gorm:"type:text;not null" json:"content"`
	Status        string     `gorm:"size:16;not null;default:'draft'" json:"status"`
	FeaturedImage string     `gorm:"size:512" json:"featured_image,omitempty"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	Featured      bool       `gorm:"default:false" json:"featured"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
