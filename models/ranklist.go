package models

import "time"

// Ranklist aggregates weighted events and tracked members for one season.
type Ranklist struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Session     string    `gorm:"size:64" json:"session,omitempty"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RanklistEvent attaches an event to a ranklist. Weight must stay inside
// [0.0, 1.0]; both the dialog and the attach action enforce it before the
// row is written.
type RanklistEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RanklistID uint      `gorm:"not null;uniqueIndex:idx_ranklist_event" json:"ranklist_id"`
	EventID    uint      `gorm:"not null;uniqueIndex:idx_ranklist_event" json:"event_id"`
	Weight     float64   `gorm:"not null;default:1" json:"weight"`
	CreatedAt  time.Time `json:"created_at"`
	Event      Event     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"event"`
}

// RanklistMember tracks a user on a ranklist.
type RanklistMember struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RanklistID uint      `gorm:"not null;uniqueIndex:idx_ranklist_member" json:"ranklist_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_ranklist_member" json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	User       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
}
