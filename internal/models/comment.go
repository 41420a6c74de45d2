package models

import (
	"time"
)

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Cid       string    `gorm:"uniqueIndex;size:8;not null" json:"cid"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	ParentID  *uint     `gorm:"index" json:"parent_id"` // Nullable for top-level comments
	Content   string    `gorm:"type:text;not null" json:"content"`
	Score     int       `gorm:"default:0" json:"score"`
	IsDeleted bool      `gorm:"default:false" json:"is_deleted"` // Soft delete keeps the reply subtree attached
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Not database columns; filled per session after querying.
	AuthorName string     `gorm:"-" json:"author_name"`
	UserVote   int        `gorm:"-" json:"user_vote"`
	Replies    []*Comment `gorm:"-" json:"replies"`
}
