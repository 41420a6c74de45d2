package models

import (
	"time"
)

// Vote is one row per (post|comment, user). Absence of a row means no vote.
// The composite unique indexes enforce the one-vote-per-user invariant;
// Postgres treats (user_id, post_id) as unique where post_id is not null.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_post_vote;uniqueIndex:idx_user_comment_vote" json:"user_id"`
	PostID    *uint     `gorm:"index;uniqueIndex:idx_user_post_vote" json:"post_id"`
	CommentID *uint     `gorm:"index;uniqueIndex:idx_user_comment_vote" json:"comment_id"`
	Value     int       `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
