package forum

import (
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"clanboard/internal/models"
	"clanboard/internal/utils"
)

type ViewMode string

const (
	ViewList   ViewMode = "list"
	ViewCreate ViewMode = "create"
	ViewDetail ViewMode = "detail"
)

// Validation errors returned to handlers. They never mutate controller state.
var (
	ErrTitleRequired   = errors.New("forum: title required")
	ErrContentRequired = errors.New("forum: content required")
	ErrNotAllowed      = errors.New("forum: not allowed")
	ErrSignedOut       = errors.New("forum: signed out")
	ErrPostLocked      = errors.New("forum: post locked")
)

// PostForm holds the create/edit form fields.
type PostForm struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID *uint  `json:"category_id"`
	IsPinned   bool   `json:"is_pinned"`
}

// composer is the single "currently replying or editing a comment" slot.
// At most one inline form is open at a time, enforced here, not by any
// backend lock.
type composer struct {
	replyTo        uint // parent comment id for a pending reply, 0 for top level
	editingComment uint // comment id being edited, 0 when composing new
}

// Controller is the session-scoped forum engine state machine. All remote
// access goes through the Store; every method leaves the controller in a
// valid, previously reachable state even when a call fails. The mutex is
// the Go rendering of the original single-threaded execution model: one
// session's operations are serialized, nothing is shared across sessions.
type Controller struct {
	mu       sync.Mutex
	store    Store
	notifier Notifier
	now      func() time.Time

	userID      uint
	canModerate bool
	ready       bool // sticky: false suppresses all queries for the session

	categories *CategoryDirectory

	mode         ViewMode
	page         int
	totalPosts   int64
	posts        []models.Post
	categorySlug string
	sortBy       Sort
	search       string

	selected        *models.Post
	comments        []*models.Comment
	form            PostForm
	editingPostID   uint
	pendingDeleteID uint
	commentDraft    string
	composer        composer
}

// NewController builds a controller for one session. ready comes from the
// startup schema probe; when false the controller serves an explanatory
// empty state and never touches the store.
func NewController(store Store, notifier Notifier, userID uint, canModerate bool, ready bool) (*Controller, error) {
	c := &Controller{
		store:       store,
		notifier:    notifier,
		now:         time.Now,
		userID:      userID,
		canModerate: canModerate,
		ready:       ready,
		mode:        ViewList,
		page:        1,
		sortBy:      SortHot,
		categories:  NewCategoryDirectory(nil),
	}
	if !ready {
		return c, nil
	}
	dir, err := LoadCategories(store)
	if err != nil {
		return nil, err
	}
	c.categories = dir
	return c, nil
}

// Bootstrap applies the navigational state supplied on load: an optional
// category slug filter and an optional deep-linked post id. The first page
// is loaded either way; the deep link then forces detail independently.
func (c *Controller) Bootstrap(categorySlug, deepLinkPid string) error {
	if err := c.SetFilters(categorySlug, SortHot, ""); err != nil {
		return err
	}
	if deepLinkPid != "" {
		return c.OpenPost(deepLinkPid)
	}
	return nil
}

// SetFilters replaces the category/sort/search directives and reloads page 1.
func (c *Controller) SetFilters(categorySlug string, sortBy Sort, search string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch sortBy {
	case SortNew, SortTop, SortHot:
	default:
		sortBy = SortHot
	}
	c.categorySlug = categorySlug
	c.sortBy = sortBy
	c.search = search
	return c.refreshPage(1)
}

// LoadPage loads the given 1-based page with the current filters.
func (c *Controller) LoadPage(page int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if page < 1 {
		page = 1
	}
	return c.refreshPage(page)
}

// refreshPage fetches the window [(page-1)*PageSize, +PageSize-1] and
// enriches it. Callers hold the mutex.
func (c *Controller) refreshPage(page int) error {
	if !c.ready {
		c.posts = nil
		c.totalPosts = 0
		c.page = page
		return nil
	}

	q := PostQuery{
		Search: c.search,
		Sort:   c.sortBy,
		Offset: (page - 1) * PageSize,
		Limit:  PageSize,
	}
	if c.categorySlug != "" {
		if cat, ok := c.categories.BySlug(c.categorySlug); ok {
			id := cat.ID
			q.CategoryID = &id
		}
	}

	posts, total, err := c.store.ListPosts(q)
	if err != nil {
		c.notifier.Notify(c.userID, MsgLoadFailed)
		return err
	}
	if err := c.enrichPosts(posts); err != nil {
		c.notifier.Notify(c.userID, MsgLoadFailed)
		return err
	}

	// "hot" is recency-ordered at the query level and re-ranked here,
	// within this page only. Pinned posts stay first.
	if c.sortBy == SortHot {
		now := c.now()
		sort.SliceStable(posts, func(i, j int) bool {
			if posts[i].IsPinned != posts[j].IsPinned {
				return posts[i].IsPinned
			}
			ri := utils.HotRank(posts[i].Score, posts[i].CreatedAt, now)
			rj := utils.HotRank(posts[j].Score, posts[j].CreatedAt, now)
			return ri > rj
		})
	}

	c.posts = posts
	c.totalPosts = total
	c.page = page
	return nil
}

// enrichPosts fills the session-relative derived fields: author names,
// category name/slug, and the active user's votes.
func (c *Controller) enrichPosts(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	authorIDs := make([]uint, 0, len(posts))
	postIDs := make([]uint, 0, len(posts))
	for i := range posts {
		authorIDs = append(authorIDs, posts[i].AuthorID)
		postIDs = append(postIDs, posts[i].ID)
	}

	names, err := ResolveAuthorNames(c.store, authorIDs)
	if err != nil {
		return err
	}

	votes := map[uint]int{}
	if c.userID != 0 {
		votes, err = c.store.GetVotes(KindPost, postIDs, c.userID)
		if err != nil {
			return err
		}
	}

	for i := range posts {
		posts[i].AuthorName = names[posts[i].AuthorID]
		if posts[i].CategoryID != nil {
			posts[i].CategoryName = c.categories.Name(*posts[i].CategoryID)
			posts[i].CategorySlug = c.categories.Slug(*posts[i].CategoryID)
		}
		posts[i].UserVote = votes[posts[i].ID]
	}
	return nil
}

// OpenCreate opens a blank post form. Valid from any state; all form fields
// reset and no post is being edited.
func (c *Controller) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = PostForm{}
	c.editingPostID = 0
	c.mode = ViewCreate
}

// EditPost opens the form prefilled from the given post, which becomes the
// post being edited. Valid from any state.
func (c *Controller) EditPost(pid string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	post := c.findPostByPid(pid)
	if post == nil {
		return ErrNotFound
	}
	if c.userID == 0 || (post.AuthorID != c.userID && !c.canModerate) {
		return ErrNotAllowed
	}

	c.form = PostForm{
		Title:      post.Title,
		Content:    post.Content,
		CategoryID: post.CategoryID,
		IsPinned:   post.IsPinned,
	}
	c.editingPostID = post.ID
	c.mode = ViewCreate
	return nil
}

// UpdateForm replaces the form fields in place.
func (c *Controller) UpdateForm(form PostForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = form
}

// OpenPost resolves one post by its public id and shows it in detail with
// its comment tree, independent of the pagination state. Idempotent: when
// detail already shows this exact pid no fetch or state churn happens.
// Opening a post clears any pending comment draft.
func (c *Controller) OpenPost(pid string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.openPost(pid)
}

func (c *Controller) openPost(pid string) error {
	if c.mode == ViewDetail && c.selected != nil && c.selected.Pid == pid {
		return nil
	}
	if !c.ready {
		return nil
	}

	post, err := c.store.GetPostByPid(pid)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.notifier.Notify(c.userID, MsgLoadFailed)
		}
		return err
	}

	single := []models.Post{*post}
	if err := c.enrichPosts(single); err != nil {
		c.notifier.Notify(c.userID, MsgLoadFailed)
		return err
	}
	enriched := single[0]

	comments, err := c.loadCommentTree(enriched.ID)
	if err != nil {
		c.notifier.Notify(c.userID, MsgLoadFailed)
		return err
	}
	enriched.CommentCount = countComments(comments)

	c.selected = &enriched
	c.comments = comments
	c.commentDraft = ""
	c.composer = composer{}
	c.pendingDeleteID = 0
	c.mode = ViewDetail
	return nil
}

// Back returns from detail to the list, keeping the loaded page as is.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
	c.comments = nil
	c.commentDraft = ""
	c.composer = composer{}
	c.pendingDeleteID = 0
	c.mode = ViewList
}

// SubmitPost persists the form. A new post lands back on the list; saving
// an edit returns to the refreshed detail of the edited post. On failure
// state is unchanged apart from the notification.
func (c *Controller) SubmitPost() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.userID == 0 {
		return ErrSignedOut
	}
	title := utils.SanitizeContent(c.form.Title)
	content := utils.SanitizeContent(c.form.Content)
	if title == "" {
		return ErrTitleRequired
	}

	pinned := c.form.IsPinned && c.canModerate

	if c.editingPostID != 0 {
		fields := map[string]interface{}{
			"title":       title,
			"content":     content,
			"category_id": c.form.CategoryID,
			"is_pinned":   pinned,
		}
		editedID := c.editingPostID
		if err := c.store.UpdatePost(editedID, fields); err != nil {
			c.notifier.Notify(c.userID, MsgSubmitFailed)
			return err
		}
		pid := ""
		if p := c.findPostByID(editedID); p != nil {
			pid = p.Pid
		}
		c.form = PostForm{}
		c.editingPostID = 0
		if pid == "" {
			c.mode = ViewList
			return c.refreshPage(c.page)
		}
		// Force a fresh fetch of the edited post.
		c.selected = nil
		c.mode = ViewList
		return c.openPost(pid)
	}

	post := models.Post{
		Pid:        utils.RandStringBytesMaskImpr(8),
		AuthorID:   c.userID,
		CategoryID: c.form.CategoryID,
		Title:      title,
		Content:    content,
		IsPinned:   pinned,
	}
	if err := c.store.InsertPost(&post); err != nil {
		c.notifier.Notify(c.userID, MsgSubmitFailed)
		return err
	}

	c.form = PostForm{}
	c.editingPostID = 0
	c.mode = ViewList
	return c.refreshPage(c.page)
}

// CancelForm abandons the form and returns to the list, whether the form
// was a fresh post or an edit.
func (c *Controller) CancelForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = PostForm{}
	c.editingPostID = 0
	c.selected = nil
	c.comments = nil
	c.commentDraft = ""
	c.composer = composer{}
	c.mode = ViewList
}

// RequestDelete arms the confirm-delete flag for the given post.
func (c *Controller) RequestDelete(pid string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	post := c.findPostByPid(pid)
	if post == nil {
		return ErrNotFound
	}
	if c.userID == 0 || (post.AuthorID != c.userID && !c.canModerate) {
		return ErrNotAllowed
	}
	c.pendingDeleteID = post.ID
	return nil
}

// CancelDelete clears the pending confirmation.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDeleteID = 0
}

// ConfirmDelete deletes the armed post. The pending flag is cleared either
// way; view mode and the selected post only change when the delete succeeds.
func (c *Controller) ConfirmDelete() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pendingDeleteID == 0 {
		return nil
	}
	id := c.pendingDeleteID
	c.pendingDeleteID = 0

	if err := c.store.DeletePost(id); err != nil {
		c.notifier.Notify(c.userID, MsgDeleteFailed)
		return err
	}

	kept := c.posts[:0]
	for _, p := range c.posts {
		if p.ID != id {
			kept = append(kept, p)
		} else if c.totalPosts > 0 {
			c.totalPosts--
		}
	}
	c.posts = kept

	if c.mode == ViewDetail && c.selected != nil && c.selected.ID == id {
		c.selected = nil
		c.comments = nil
		c.commentDraft = ""
		c.composer = composer{}
		c.mode = ViewList
	}
	return nil
}

// TogglePin flips the pinned flag on a post. Moderators only.
func (c *Controller) TogglePin(pid string) error {
	return c.toggleFlag(pid, "is_pinned", func(p *models.Post) *bool { return &p.IsPinned })
}

// ToggleLock flips the locked flag on a post. Moderators only.
func (c *Controller) ToggleLock(pid string) error {
	return c.toggleFlag(pid, "is_locked", func(p *models.Post) *bool { return &p.IsLocked })
}

func (c *Controller) toggleFlag(pid, column string, field func(*models.Post) *bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.canModerate {
		return ErrNotAllowed
	}
	post := c.findPostByPid(pid)
	if post == nil {
		return ErrNotFound
	}
	next := !*field(post)
	if err := c.store.UpdatePost(post.ID, map[string]interface{}{column: next}); err != nil {
		c.notifier.Notify(c.userID, MsgSubmitFailed)
		return err
	}
	for _, cached := range c.cachedCopies(post.ID) {
		*field(cached) = next
	}
	return nil
}

// loadCommentTree fetches the flat comment list and builds the enriched
// forest. Callers hold the mutex.
func (c *Controller) loadCommentTree(postID uint) ([]*models.Comment, error) {
	flat, err := c.store.ListComments(postID)
	if err != nil {
		return nil, err
	}
	if len(flat) == 0 {
		return nil, nil
	}

	authorIDs := make([]uint, 0, len(flat))
	commentIDs := make([]uint, 0, len(flat))
	for i := range flat {
		authorIDs = append(authorIDs, flat[i].AuthorID)
		commentIDs = append(commentIDs, flat[i].ID)
	}
	names, err := ResolveAuthorNames(c.store, authorIDs)
	if err != nil {
		return nil, err
	}
	votes := map[uint]int{}
	if c.userID != 0 {
		votes, err = c.store.GetVotes(KindComment, commentIDs, c.userID)
		if err != nil {
			return nil, err
		}
	}
	for i := range flat {
		flat[i].AuthorName = names[flat[i].AuthorID]
		flat[i].UserVote = votes[flat[i].ID]
	}
	return BuildCommentTree(flat), nil
}

func countComments(roots []*models.Comment) int {
	n := 0
	WalkComments(roots, func(*models.Comment) { n++ })
	return n
}

// cachedCopies returns every cached instance of a post so mutations stay
// consistent across the list page and the detail view.
func (c *Controller) cachedCopies(postID uint) []*models.Post {
	var copies []*models.Post
	for i := range c.posts {
		if c.posts[i].ID == postID {
			copies = append(copies, &c.posts[i])
		}
	}
	if c.selected != nil && c.selected.ID == postID {
		copies = append(copies, c.selected)
	}
	return copies
}

func (c *Controller) findPostByID(id uint) *models.Post {
	if c.selected != nil && c.selected.ID == id {
		return c.selected
	}
	for i := range c.posts {
		if c.posts[i].ID == id {
			return &c.posts[i]
		}
	}
	return nil
}

func (c *Controller) findPostByPid(pid string) *models.Post {
	if c.selected != nil && c.selected.Pid == pid {
		return c.selected
	}
	for i := range c.posts {
		if c.posts[i].Pid == pid {
			return &c.posts[i]
		}
	}
	return nil
}

// TotalPages derives the page count from the last loaded total.
func (c *Controller) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return pageCount(c.totalPosts)
}

func pageCount(total int64) int {
	pages := int(math.Ceil(float64(total) / float64(PageSize)))
	if pages == 0 {
		pages = 1
	}
	return pages
}

// Snapshot is a consistent copy of the controller state for serialization.
type Snapshot struct {
	Mode            ViewMode          `json:"mode"`
	Ready           bool              `json:"ready"`
	Page            int               `json:"page"`
	TotalPages      int               `json:"total_pages"`
	TotalPosts      int64             `json:"total_posts"`
	Sort            Sort              `json:"sort"`
	Search          string            `json:"search"`
	CategorySlug    string            `json:"category_slug"`
	Categories      []models.Category `json:"categories"`
	Posts           []models.Post     `json:"posts"`
	Selected        *models.Post      `json:"selected,omitempty"`
	Comments        []*models.Comment `json:"comments,omitempty"`
	Form            PostForm          `json:"form"`
	EditingPostID   uint              `json:"editing_post_id"`
	PendingDeleteID uint              `json:"pending_delete_id"`
	CommentDraft    string            `json:"comment_draft"`
	ReplyTo         uint              `json:"reply_to"`
	EditingComment  uint              `json:"editing_comment"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Mode:            c.mode,
		Ready:           c.ready,
		Page:            c.page,
		TotalPages:      pageCount(c.totalPosts),
		TotalPosts:      c.totalPosts,
		Sort:            c.sortBy,
		Search:          c.search,
		CategorySlug:    c.categorySlug,
		Categories:      c.categories.All(),
		Posts:           append([]models.Post(nil), c.posts...),
		Form:            c.form,
		EditingPostID:   c.editingPostID,
		PendingDeleteID: c.pendingDeleteID,
		CommentDraft:    c.commentDraft,
		ReplyTo:         c.composer.replyTo,
		EditingComment:  c.composer.editingComment,
	}
	if c.selected != nil {
		sel := *c.selected
		s.Selected = &sel
	}
	s.Comments = copyComments(c.comments)
	return s
}
