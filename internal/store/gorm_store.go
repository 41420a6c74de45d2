// Package store provides the PostgreSQL/GORM implementation of the forum
// engine's query-capability contract.
package store

import (
	"errors"
	"time"

	"clanboard/internal/forum"
	"clanboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ListCategories() ([]models.Category, error) {
	var cats []models.Category
	err := s.db.Order("sort_order ASC, id ASC").Find(&cats).Error
	return cats, err
}

// postQuery applies the filter part of a PostQuery; built fresh for the
// count and the window so GORM statement state is never reused.
func (s *GormStore) postQuery(q forum.PostQuery) *gorm.DB {
	tx := s.db.Model(&models.Post{})
	if q.CategoryID != nil {
		tx = tx.Where("category_id = ?", *q.CategoryID)
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		tx = tx.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
	}
	return tx
}

func (s *GormStore) ListPosts(q forum.PostQuery) ([]models.Post, int64, error) {
	var total int64
	if err := s.postQuery(q).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Pinned posts sort first under every directive. "hot" stays
	// recency-ordered here; the engine re-ranks the returned page.
	order := "is_pinned DESC, created_at DESC"
	if q.Sort == forum.SortTop {
		order = "is_pinned DESC, score DESC, created_at DESC"
	}

	var posts []models.Post
	err := s.postQuery(q).
		Order(order).
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	if err := s.fillCommentCounts(posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// fillCommentCounts batch-fills the derived comment count per post.
func (s *GormStore) fillCommentCounts(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		PostID uint
		Count  int
	}
	var results []countResult
	err := s.db.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results).Error
	if err != nil {
		return err
	}

	countMap := make(map[uint]int, len(results))
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}
	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
	return nil
}

func (s *GormStore) GetPostByPid(pid string) (*models.Post, error) {
	var post models.Post
	if err := s.db.Where("pid = ?", pid).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, forum.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (s *GormStore) InsertPost(post *models.Post) error {
	return s.db.Create(post).Error
}

func (s *GormStore) UpdatePost(id uint, fields map[string]interface{}) error {
	return s.db.Model(&models.Post{}).Where("id = ?", id).Updates(fields).Error
}

// DeletePost hard-deletes a post with its comments and every vote on either.
func (s *GormStore) DeletePost(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("post_id = ?", id)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

func (s *GormStore) ListComments(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.Where("post_id = ?", postID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

func (s *GormStore) InsertComment(comment *models.Comment) error {
	return s.db.Create(comment).Error
}

func (s *GormStore) UpdateComment(id uint, fields map[string]interface{}) error {
	return s.db.Model(&models.Comment{}).Where("id = ?", id).Updates(fields).Error
}

func (s *GormStore) GetVotes(kind forum.EntityKind, entityIDs []uint, userID uint) (map[uint]int, error) {
	votes := make(map[uint]int, len(entityIDs))
	if len(entityIDs) == 0 || userID == 0 {
		return votes, nil
	}

	var rows []models.Vote
	tx := s.db.Where("user_id = ?", userID)
	if kind == forum.KindPost {
		tx = tx.Where("post_id IN ?", entityIDs)
	} else {
		tx = tx.Where("comment_id IN ?", entityIDs)
	}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, v := range rows {
		if kind == forum.KindPost && v.PostID != nil {
			votes[*v.PostID] = v.Value
		} else if kind == forum.KindComment && v.CommentID != nil {
			votes[*v.CommentID] = v.Value
		}
	}
	return votes, nil
}

// ApplyVote runs the vote-row mutation and the score delta in one
// transaction. The upsert conflicts on the per-user uniqueness key, and the
// score update is an atomic column increment, so concurrent voters on the
// same entity cannot lose updates.
func (s *GormStore) ApplyVote(kind forum.EntityKind, entityID, userID uint, newVote, delta int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		voteWhere := tx.Where("user_id = ?", userID)
		if kind == forum.KindPost {
			voteWhere = voteWhere.Where("post_id = ?", entityID)
		} else {
			voteWhere = voteWhere.Where("comment_id = ?", entityID)
		}

		if newVote == 0 {
			if err := voteWhere.Delete(&models.Vote{}).Error; err != nil {
				return err
			}
		} else {
			vote := models.Vote{UserID: userID, Value: newVote}
			conflict := []clause.Column{{Name: "user_id"}}
			if kind == forum.KindPost {
				vote.PostID = &entityID
				conflict = append(conflict, clause.Column{Name: "post_id"})
			} else {
				vote.CommentID = &entityID
				conflict = append(conflict, clause.Column{Name: "comment_id"})
			}
			err := tx.Clauses(clause.OnConflict{
				Columns: conflict,
				DoUpdates: clause.Assignments(map[string]interface{}{
					"value":      newVote,
					"updated_at": time.Now(),
				}),
			}).Create(&vote).Error
			if err != nil {
				return err
			}
		}

		if delta == 0 {
			return nil
		}
		target := tx.Model(&models.Post{})
		if kind == forum.KindComment {
			target = tx.Model(&models.Comment{})
		}
		return target.Where("id = ?", entityID).
			UpdateColumn("score", gorm.Expr("score + ?", delta)).Error
	})
}

func (s *GormStore) GetUsers(ids []uint) ([]models.User, error) {
	var users []models.User
	err := s.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}
