// Package forum is the engine behind the clan community boards: it loads
// categories and post pages, builds comment trees, reconciles votes against
// the denormalized scores, and drives the list/create/detail view state.
package forum

import (
	"errors"

	"clanboard/internal/models"
)

// PageSize is the fixed post-listing window.
const PageSize = 20

// ErrNotFound is returned by a Store when the requested row does not exist.
// Engine callers treat it as a normal empty state, not a failure.
var ErrNotFound = errors.New("forum: not found")

type Sort string

const (
	SortNew Sort = "new" // created-time desc
	SortTop Sort = "top" // score desc
	SortHot Sort = "hot" // recency at the query level, hot-rank within the page
)

type EntityKind string

const (
	KindPost    EntityKind = "post"
	KindComment EntityKind = "comment"
)

// PostQuery describes one listing window.
type PostQuery struct {
	CategoryID *uint
	Search     string // case-insensitive contains over title/content
	Sort       Sort
	Offset     int
	Limit      int
}

// Store is the narrow query-capability contract the engine is written
// against. Any data-access layer providing windowed selection, partial
// updates, and conflict-keyed vote upserts is substitutable.
type Store interface {
	ListCategories() ([]models.Category, error)

	ListPosts(q PostQuery) ([]models.Post, int64, error)
	GetPostByPid(pid string) (*models.Post, error)
	InsertPost(post *models.Post) error
	UpdatePost(id uint, fields map[string]interface{}) error
	DeletePost(id uint) error

	ListComments(postID uint) ([]models.Comment, error)
	InsertComment(comment *models.Comment) error
	UpdateComment(id uint, fields map[string]interface{}) error

	// GetVotes batch-resolves the user's votes on the given entities.
	GetVotes(kind EntityKind, entityIDs []uint, userID uint) (map[uint]int, error)
	// ApplyVote persists the vote-row mutation (upsert when newVote is ±1,
	// delete when 0) together with the score delta. Both succeed or neither.
	ApplyVote(kind EntityKind, entityID, userID uint, newVote, delta int) error

	GetUsers(ids []uint) ([]models.User, error)
}

// Notifier is the fire-and-forget sink for user-visible messages. There is
// no acknowledgement contract; implementations must not block the caller.
type Notifier interface {
	Notify(userID uint, key string)
}

// Static message keys surfaced on remote-call failures. Calls are never
// retried automatically.
const (
	MsgVoteFailed    = "vote_failed"
	MsgLoadFailed    = "load_failed"
	MsgSubmitFailed  = "submit_failed"
	MsgDeleteFailed  = "delete_failed"
	MsgCommentFailed = "comment_failed"
	MsgPostLocked    = "post_locked"
)
