package services

import (
	"fmt"
	"log"

	"clanboard/internal/db"
	"clanboard/internal/models"
	"clanboard/internal/utils"
)

// DBNotifier persists user-visible messages as notification rows. It is the
// fire-and-forget sink the forum engine reports failures through: writes
// happen off the caller's goroutine and errors only get logged.
type DBNotifier struct{}

func NewDBNotifier() *DBNotifier {
	return &DBNotifier{}
}

func (n *DBNotifier) Notify(userID uint, key string) {
	if userID == 0 {
		return
	}
	go func() {
		notification := models.Notification{
			UserID: userID,
			Type:   models.NotificationTypeError,
			Reason: key,
		}
		if err := db.DB.Create(&notification).Error; err != nil {
			log.Printf("Failed to persist notification %q for user %d: %v", key, userID, err)
		}
	}()
}

// NotifyComment tells the relevant user about a new comment: the parent
// comment's author for replies, the post author otherwise. Self-notifications
// are skipped.
func NotifyComment(post *models.Post, comment *models.Comment, actorID uint) {
	go func() {
		excerpt := utils.Excerpt(comment.Content, 120)

		if comment.ParentID != nil {
			var parent models.Comment
			if err := db.DB.First(&parent, *comment.ParentID).Error; err != nil {
				return
			}
			if parent.AuthorID == actorID {
				return
			}
			notification := models.Notification{
				UserID:  parent.AuthorID,
				ActorID: &actorID,
				Type:    models.NotificationTypeReplyComment,
				Reason:  fmt.Sprintf("replied to your comment on %q: %s", post.Title, excerpt),
			}
			db.DB.Create(&notification)
			return
		}

		if post.AuthorID == actorID {
			return
		}
		notification := models.Notification{
			UserID:  post.AuthorID,
			ActorID: &actorID,
			Type:    models.NotificationTypeCommentPost,
			Reason:  fmt.Sprintf("commented on your post %q: %s", post.Title, excerpt),
		}
		db.DB.Create(&notification)
	}()
}
