package models

import (
	"time"
)

// Category is a clan discussion board. Read-only from the forum engine's
// perspective: rows are seeded at migration time and never mutated per session.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ClanID      uint      `gorm:"not null;index;default:1" json:"clan_id"`
	Name        string    `gorm:"not null;unique" json:"name"`
	Slug        string    `gorm:"not null;uniqueIndex;size:50" json:"slug"`
	Description string    `json:"description"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
