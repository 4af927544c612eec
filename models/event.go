package models

import "time"

// Event types. Anything that is neither a contest nor a class is "other".
const (
	EventTypeContest = "contest"
	EventTypeClass   = "class"
	EventTypeOther   = "other"
)

// Event is a club activity that can be attached to ranklists with a weight.
type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	StartsAt    time.Time `gorm:"not null;index" json:"starts_at"`
	Type        string    `gorm:"size:16;not null;default:'other'" json:"type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
