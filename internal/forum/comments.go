package forum

import (
	"clanboard/internal/models"
	"clanboard/internal/utils"
)

// DeletedCommentBody replaces the content of soft-deleted comments. The row
// stays so reply subtrees keep their parent.
const DeletedCommentBody = "[deleted]"

// SetCommentDraft replaces the composer text.
func (c *Controller) SetCommentDraft(draft string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commentDraft = draft
}

// BeginReply opens the single inline composer as a reply to the given
// comment, closing any comment edit in progress.
func (c *Controller) BeginReply(commentID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if findComment(c.comments, commentID) == nil {
		return ErrNotFound
	}
	c.composer = composer{replyTo: commentID}
	return nil
}

// BeginEditComment opens the single inline composer as an edit of the given
// comment, prefilled with its content.
func (c *Controller) BeginEditComment(commentID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	node := findComment(c.comments, commentID)
	if node == nil {
		return ErrNotFound
	}
	if c.userID == 0 || (node.AuthorID != c.userID && !c.canModerate) {
		return ErrNotAllowed
	}
	c.composer = composer{editingComment: commentID}
	c.commentDraft = node.Content
	return nil
}

// CancelComposer closes the inline form and drops the draft.
func (c *Controller) CancelComposer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.composer = composer{}
	c.commentDraft = ""
}

// SubmitComment persists the composer: a new top-level comment, a reply, or
// a comment edit, depending on the composer slot. The created or updated
// comment is returned so callers can fan out notifications.
func (c *Controller) SubmitComment() (*models.Comment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.userID == 0 {
		return nil, ErrSignedOut
	}
	if c.mode != ViewDetail || c.selected == nil {
		return nil, ErrNotFound
	}
	content := utils.SanitizeContent(c.commentDraft)
	if content == "" {
		return nil, ErrContentRequired
	}

	if c.composer.editingComment != 0 {
		return c.applyCommentEdit(c.composer.editingComment, content)
	}

	if c.selected.IsLocked && !c.canModerate {
		c.notifier.Notify(c.userID, MsgPostLocked)
		return nil, ErrPostLocked
	}

	comment := models.Comment{
		Cid:      utils.RandStringBytesMaskImpr(8),
		PostID:   c.selected.ID,
		AuthorID: c.userID,
		Content:  content,
	}
	if c.composer.replyTo != 0 {
		parentID := c.composer.replyTo
		comment.ParentID = &parentID
	}

	if err := c.store.InsertComment(&comment); err != nil {
		c.notifier.Notify(c.userID, MsgCommentFailed)
		return nil, err
	}

	// Reload so the new node carries its enrichment and tree position.
	tree, err := c.loadCommentTree(c.selected.ID)
	if err != nil {
		c.notifier.Notify(c.userID, MsgLoadFailed)
		return &comment, err
	}
	c.comments = tree
	for _, cached := range c.cachedCopies(c.selected.ID) {
		cached.CommentCount = countComments(tree)
	}
	c.commentDraft = ""
	c.composer = composer{}
	return &comment, nil
}

func (c *Controller) applyCommentEdit(commentID uint, content string) (*models.Comment, error) {
	node := findComment(c.comments, commentID)
	if node == nil {
		return nil, ErrNotFound
	}
	if node.AuthorID != c.userID && !c.canModerate {
		return nil, ErrNotAllowed
	}

	if err := c.store.UpdateComment(commentID, map[string]interface{}{"content": content}); err != nil {
		c.notifier.Notify(c.userID, MsgCommentFailed)
		return nil, err
	}

	node.Content = content
	c.commentDraft = ""
	c.composer = composer{}
	return node, nil
}

// DeleteComment soft-deletes a comment: its content becomes a tombstone and
// the row stays, so the reply subtree survives. Allowed for the author and
// for moderators.
func (c *Controller) DeleteComment(cid string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := findCommentByCid(c.comments, cid)
	if node == nil {
		return ErrNotFound
	}
	if c.userID == 0 || (node.AuthorID != c.userID && !c.canModerate) {
		return ErrNotAllowed
	}

	fields := map[string]interface{}{
		"content":    DeletedCommentBody,
		"is_deleted": true,
	}
	if err := c.store.UpdateComment(node.ID, fields); err != nil {
		c.notifier.Notify(c.userID, MsgDeleteFailed)
		return err
	}

	node.Content = DeletedCommentBody
	node.IsDeleted = true
	if c.composer.editingComment == node.ID || c.composer.replyTo == node.ID {
		c.composer = composer{}
		c.commentDraft = ""
	}
	return nil
}
