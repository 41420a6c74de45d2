package forum

import (
	"errors"
	"fmt"
	"strings"

	"clanboard/internal/models"
)

var errStore = errors.New("store down")

// fakeStore is the in-memory Store used by the engine tests. It records
// call counts and the last listing query so tests can assert on windows and
// fetch suppression.
type fakeStore struct {
	categories []models.Category
	posts      []models.Post
	comments   []models.Comment
	votes      map[string]int
	users      []models.User

	lastQuery          PostQuery
	listCategoryCalls  int
	listPostCalls      int
	getPostCalls       int
	insertPostCalls    int
	updatePostCalls    int
	deletePostCalls    int
	listCommentCalls   int
	insertCommentCalls int
	updateCommentCalls int
	getVotesCalls      int
	applyVoteCalls     int
	getUsersCalls      int
	queriedUserIDs     [][]uint

	failListPosts     bool
	failApplyVote     bool
	failDeletePost    bool
	failUpdatePost    bool
	failInsertPost    bool
	failUpdateComment bool
	failInsertComment bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		categories: []models.Category{
			{ID: 1, ClanID: 1, Name: "General", Slug: "general", SortOrder: 1},
			{ID: 2, ClanID: 1, Name: "Strategy", Slug: "strategy", SortOrder: 2},
		},
		users: []models.User{
			{ID: 1, Username: "ares", DisplayName: "Ares"},
			{ID: 2, Username: "banshee"},
		},
		votes: make(map[string]int),
	}
}

func voteKey(kind EntityKind, entityID, userID uint) string {
	return fmt.Sprintf("%s:%d:%d", kind, entityID, userID)
}

func (s *fakeStore) totalCalls() int {
	return s.listCategoryCalls + s.listPostCalls + s.getPostCalls +
		s.listCommentCalls + s.getVotesCalls + s.getUsersCalls
}

func (s *fakeStore) ListCategories() ([]models.Category, error) {
	s.listCategoryCalls++
	return s.categories, nil
}

func (s *fakeStore) ListPosts(q PostQuery) ([]models.Post, int64, error) {
	s.listPostCalls++
	s.lastQuery = q
	if s.failListPosts {
		return nil, 0, errStore
	}

	var matched []models.Post
	for _, p := range s.posts {
		if q.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *q.CategoryID) {
			continue
		}
		if q.Search != "" {
			needle := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(p.Title), needle) &&
				!strings.Contains(strings.ToLower(p.Content), needle) {
				continue
			}
		}
		matched = append(matched, p)
	}

	total := int64(len(matched))
	if q.Offset >= len(matched) {
		return nil, total, nil
	}
	end := q.Offset + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return append([]models.Post(nil), matched[q.Offset:end]...), total, nil
}

func (s *fakeStore) GetPostByPid(pid string) (*models.Post, error) {
	s.getPostCalls++
	for i := range s.posts {
		if s.posts[i].Pid == pid {
			post := s.posts[i]
			return &post, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeStore) InsertPost(post *models.Post) error {
	s.insertPostCalls++
	if s.failInsertPost {
		return errStore
	}
	post.ID = uint(len(s.posts) + 1)
	s.posts = append(s.posts, *post)
	return nil
}

func (s *fakeStore) UpdatePost(id uint, fields map[string]interface{}) error {
	s.updatePostCalls++
	if s.failUpdatePost {
		return errStore
	}
	for i := range s.posts {
		if s.posts[i].ID == id {
			if v, ok := fields["title"].(string); ok {
				s.posts[i].Title = v
			}
			if v, ok := fields["content"].(string); ok {
				s.posts[i].Content = v
			}
			if v, ok := fields["is_pinned"].(bool); ok {
				s.posts[i].IsPinned = v
			}
			if v, ok := fields["is_locked"].(bool); ok {
				s.posts[i].IsLocked = v
			}
		}
	}
	return nil
}

func (s *fakeStore) DeletePost(id uint) error {
	s.deletePostCalls++
	if s.failDeletePost {
		return errStore
	}
	kept := s.posts[:0]
	for _, p := range s.posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.posts = kept
	return nil
}

func (s *fakeStore) ListComments(postID uint) ([]models.Comment, error) {
	s.listCommentCalls++
	var out []models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeStore) InsertComment(comment *models.Comment) error {
	s.insertCommentCalls++
	if s.failInsertComment {
		return errStore
	}
	comment.ID = uint(len(s.comments) + 1)
	s.comments = append(s.comments, *comment)
	return nil
}

func (s *fakeStore) UpdateComment(id uint, fields map[string]interface{}) error {
	s.updateCommentCalls++
	if s.failUpdateComment {
		return errStore
	}
	for i := range s.comments {
		if s.comments[i].ID == id {
			if v, ok := fields["content"].(string); ok {
				s.comments[i].Content = v
			}
			if v, ok := fields["is_deleted"].(bool); ok {
				s.comments[i].IsDeleted = v
			}
		}
	}
	return nil
}

func (s *fakeStore) GetVotes(kind EntityKind, entityIDs []uint, userID uint) (map[uint]int, error) {
	s.getVotesCalls++
	out := make(map[uint]int)
	for _, id := range entityIDs {
		if v, ok := s.votes[voteKey(kind, id, userID)]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func (s *fakeStore) ApplyVote(kind EntityKind, entityID, userID uint, newVote, delta int) error {
	s.applyVoteCalls++
	if s.failApplyVote {
		return errStore
	}
	key := voteKey(kind, entityID, userID)
	if newVote == 0 {
		delete(s.votes, key)
	} else {
		s.votes[key] = newVote
	}
	if kind == KindPost {
		for i := range s.posts {
			if s.posts[i].ID == entityID {
				s.posts[i].Score += delta
			}
		}
	} else {
		for i := range s.comments {
			if s.comments[i].ID == entityID {
				s.comments[i].Score += delta
			}
		}
	}
	return nil
}

func (s *fakeStore) GetUsers(ids []uint) ([]models.User, error) {
	s.getUsersCalls++
	s.queriedUserIDs = append(s.queriedUserIDs, append([]uint(nil), ids...))
	var out []models.User
	for _, u := range s.users {
		for _, id := range ids {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

// recordNotifier collects the message keys sent per user.
type recordNotifier struct {
	messages []string
}

func (n *recordNotifier) Notify(userID uint, key string) {
	n.messages = append(n.messages, key)
}
