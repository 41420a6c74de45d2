package models

import (
	"time"
)

// User exists so author names resolve and the moderator capability can be
// derived. Account creation and authentication live outside this service.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"not null;uniqueIndex" json:"username"`
	DisplayName string    `gorm:"size:50" json:"display_name"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Role        string    `gorm:"size:20;default:'member';not null" json:"role"` // member, moderator
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CanModerate is the boolean capability consumed by the forum engine
// (pin/lock/delete/edit-any-comment gating).
func (u *User) CanModerate() bool {
	return u != nil && u.Role == "moderator"
}

// Name returns what the rest of the site shows for this user.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Username != "" {
		return u.Username
	}
	return "Unknown"
}
