package models

import (
	"time"
)

type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Pid        string    `gorm:"uniqueIndex;size:8;not null" json:"pid"`
	AuthorID   uint      `gorm:"not null;index" json:"author_id"`
	CategoryID *uint     `gorm:"index" json:"category_id"` // Nullable: uncategorized posts allowed
	Title      string    `gorm:"not null" json:"title"`
	Content    string    `gorm:"type:text" json:"content"`
	IsPinned   bool      `gorm:"default:false;index" json:"is_pinned"`
	IsLocked   bool      `gorm:"default:false" json:"is_locked"`
	Score      int       `gorm:"default:0" json:"score"`
	SourceType string    `json:"source_type"` // e.g., "event", "announcement"
	SourceID   string    `json:"source_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Not database columns; filled per session after querying.
	CommentCount int    `gorm:"-" json:"comment_count"`
	AuthorName   string `gorm:"-" json:"author_name"`
	CategoryName string `gorm:"-" json:"category_name"`
	CategorySlug string `gorm:"-" json:"category_slug"`
	UserVote     int    `gorm:"-" json:"user_vote"` // -1, 0 or 1 relative to the active user
}
