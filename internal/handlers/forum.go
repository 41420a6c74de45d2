package handlers

import (
	"fmt"
	"net/http"
	"time"

	"clanboard/internal/forum"
	"clanboard/internal/services"
	"clanboard/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const controllerTTL = 30 * time.Minute

// ForumHandler exposes the forum engine over HTTP. Each session gets one
// Controller, cached with a TTL and keyed by (session id, user id) so the
// session-relative vote enrichment is rebuilt whenever the active user
// changes.
type ForumHandler struct {
	store    forum.Store
	notifier forum.Notifier
	ready    bool
}

func NewForumHandler(store forum.Store, notifier forum.Notifier, ready bool) *ForumHandler {
	return &ForumHandler{store: store, notifier: notifier, ready: ready}
}

func (h *ForumHandler) controllerFor(c *gin.Context) (*forum.Controller, error) {
	session := sessions.Default(c)
	sid, _ := session.Get("sid").(string)
	if sid == "" {
		sid = utils.RandStringBytesMaskImpr(16)
		session.Set("sid", sid)
		if err := session.Save(); err != nil {
			return nil, err
		}
	}

	userID := uint(0)
	canModerate := false
	if user := currentUser(c); user != nil {
		userID = user.ID
		canModerate = user.CanModerate()
	}

	key := fmt.Sprintf("forum:ctrl:%s:%d", sid, userID)
	if cached := utils.GetCache().Get(key); cached != nil {
		if ctrl, ok := cached.(*forum.Controller); ok {
			return ctrl, nil
		}
	}

	ctrl, err := forum.NewController(h.store, h.notifier, userID, canModerate, h.ready)
	if err != nil {
		return nil, err
	}
	// A failed initial load still yields a usable controller in a
	// reachable state; the notifier already carried the message.
	_ = ctrl.Bootstrap(c.Query("category"), c.Query("post"))
	utils.GetCache().Set(key, ctrl, controllerTTL)
	return ctrl, nil
}

// State applies any filter or page directives present on the query string
// and returns the full view state.
func (h *ForumHandler) State(c *gin.Context) {
	ctrl, err := h.controllerFor(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("category") != "" || c.Query("sort") != "" || c.Query("q") != "" {
		// Filter changes reset to page 1; errors already notified.
		_ = ctrl.SetFilters(c.Query("category"), forum.Sort(c.Query("sort")), c.Query("q"))
	}
	if p := c.Query("page"); p != "" {
		_ = ctrl.LoadPage(utils.StringToInt(p))
	}
	respondState(c, ctrl)
}

// Detail deep-links one post by pid, forcing the detail view.
func (h *ForumHandler) Detail(c *gin.Context) {
	ctrl, err := h.controllerFor(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ctrl.OpenPost(c.Param("pid")); err != nil {
		respondError(c, err)
		return
	}
	respondState(c, ctrl)
}

// Back returns from detail to the list.
func (h *ForumHandler) Back(c *gin.Context) {
	ctrl, err := h.controllerFor(c)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Back()
	respondState(c, ctrl)
}

// ShowCreate opens the blank post form.
func (h *ForumHandler) ShowCreate(c *gin.Context) {
	ctrl, err := h.controllerFor(c)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.OpenCreate()
	respondState(c, ctrl)
}

// ShowEdit opens the form prefilled from an existing post.
func (h *ForumHandler) ShowEdit(c *gin.Context) {
	ctrl, err := h.controllerFor(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ctrl.EditPost(c.Param("pid")); err != nil {
		respondError(c, err)
		return
	}
	respondState(c, ctrl)
}

func formFromRequest(c *gin.Context) forum.PostForm {
	form := forum.PostForm{
		Title:    c.PostForm("title"),
		Content:  c.PostForm("content"),
		IsPinned: c.PostForm("is_pinned") == "true",
	}
	if idStr := c.PostForm("category_id"); idStr != "" {
		if id := utils.StringToUint(idStr); id != 0 {
			form.CategoryID = &id
		}
	}
	return form
}

// Submit persists the form: a fresh post lands on the list, a saved edit
// returns to the refreshed detail view.
func (h *ForumHandler) Submit(c *gin.Context) {
	ctrl, err := h.controllerFor(c)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.UpdateForm(formFromRequest(c))
	if err := ctrl.SubmitPost(); err != nil {
		respondError(c, err)
		return
	}
	respondState(c, ctrl)
}

// CancelForm abandons the create/edit form.
func (h *ForumHandler) CancelForm(c *gin.Context) {
	ctrl, err := h.controllerFor(c)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.CancelForm()
	respondState(c, ctrl)
}

// RequestDelete arms the confirm-delete flag.
func (h *ForumHandler) RequestDelete(c *gin.Context) {
	ctrl, err := h.controllerFor(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ctrl.RequestDelete(c.Param("pid")); err != nil {
		respondError(c, err)
		return
	}
	respondState(c, ctrl)
}

// CancelDelete disarms it.
func (h *ForumHandler) CancelDelete(c *gin.Context) {
	ctrl, err := h.controllerFor(c)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.CancelDelete()
	respondState(c, ctrl)
}

// ConfirmDelete deletes the armed post.
func (h *ForumHandler) ConfirmDelete(c *gin.Context) {
	ctrl, err := h.controllerFor(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ctrl.ConfirmDelete(); err != nil {
		respondError(c, err)
		return
	}
	respondState(c, ctrl)
}

// parseVoteParams validates the vote route parameters: :type must be "post"
// or "comment", :id a nonzero numeric id, :dir "up" or "down".
func parseVoteParams(typ, idStr, dirStr string) (forum.EntityKind, uint, int, bool) {
	var kind forum.EntityKind
	switch typ {
	case "post":
		kind = forum.KindPost
	case "comment":
		kind = forum.KindComment
	default:
		return "", 0, 0, false
	}

	var direction int
	switch dirStr {
	case "up":
		direction = 1
	case "down":
		direction = -1
	default:
		return "", 0, 0, false
	}

	id := utils.StringToUint(idStr)
	if id == 0 {
		return "", 0, 0, false
	}
	return kind, id, direction, true
}

// Vote toggles the current user's vote on a post or comment.
func (h *ForumHandler) Vote(c *gin.Context) {
	kind, id, direction, ok := parseVoteParams(c.Param("type"), c.Param("id"), c.Param("dir"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad vote request"})
		return
	}

	ctrl, err := h.controllerFor(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if kind == forum.KindPost {
		err = ctrl.VotePost(id, direction)
	} else {
		err = ctrl.VoteComment(id, direction)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	services.GetAuditService().Schedule(kind, id)
	respondState(c, ctrl)
}

// CreateComment submits the comment composer: top-level, reply, or edit.
func (h *ForumHandler) CreateComment(c *gin.Context) {
	ctrl, err := h.controllerFor(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if parent := utils.StringToUint(c.PostForm("parent_id")); parent != 0 {
		if err := ctrl.BeginReply(parent); err != nil {
			respondError(c, err)
			return
		}
	}
	ctrl.SetCommentDraft(c.PostForm("content"))

	comment, err := ctrl.SubmitComment()
	if err != nil {
		respondError(c, err)
		return
	}

	if selected := ctrl.Snapshot().Selected; selected != nil {
		services.NotifyComment(selected, comment, comment.AuthorID)
	}
	respondState(c, ctrl)
}

// EditComment edits one comment through the composer slot.
func (h *ForumHandler) EditComment(c *gin.Context) {
	ctrl, err := h.controllerFor(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := ctrl.BeginEditComment(utils.StringToUint(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	ctrl.SetCommentDraft(c.PostForm("content"))
	if _, err := ctrl.SubmitComment(); err != nil {
		respondError(c, err)
		return
	}
	respondState(c, ctrl)
}

// DeleteComment soft-deletes a comment by cid.
func (h *ForumHandler) DeleteComment(c *gin.Context) {
	ctrl, err := h.controllerFor(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ctrl.DeleteComment(c.Param("cid")); err != nil {
		respondError(c, err)
		return
	}
	respondState(c, ctrl)
}

// TogglePin pins or unpins a post. Moderator route.
func (h *ForumHandler) TogglePin(c *gin.Context) {
	ctrl, err := h.controllerFor(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ctrl.TogglePin(c.Param("pid")); err != nil {
		respondError(c, err)
		return
	}
	respondState(c, ctrl)
}

// ToggleLock locks or unlocks a post. Moderator route.
func (h *ForumHandler) ToggleLock(c *gin.Context) {
	ctrl, err := h.controllerFor(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ctrl.ToggleLock(c.Param("pid")); err != nil {
		respondError(c, err)
		return
	}
	respondState(c, ctrl)
}
