package forum

// Vote reconciliation. A vote call is a no-op when nobody is signed in or
// the entity is not in the currently loaded collections. Voting the same
// direction twice clears the vote; the opposite direction flips it. The
// store persists the vote row and the score delta together; only after that
// succeeds are the cached copies patched, so a failed call leaves local
// state exactly as it was.

// VotePost toggles the current user's vote on a loaded post.
// direction must be +1 or -1.
func (c *Controller) VotePost(postID uint, direction int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if direction != 1 && direction != -1 {
		return nil
	}
	if c.userID == 0 {
		return nil
	}
	post := c.findPostByID(postID)
	if post == nil {
		return nil
	}

	currentVote := post.UserVote
	newVote := direction
	if currentVote == direction {
		newVote = 0
	}
	delta := newVote - currentVote

	if err := c.store.ApplyVote(KindPost, postID, c.userID, newVote, delta); err != nil {
		c.notifier.Notify(c.userID, MsgVoteFailed)
		return err
	}

	for _, cached := range c.cachedCopies(postID) {
		cached.Score += delta
		cached.UserVote = newVote
	}
	return nil
}

// VoteComment toggles the current user's vote on a comment in the loaded
// tree. direction must be +1 or -1.
func (c *Controller) VoteComment(commentID uint, direction int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if direction != 1 && direction != -1 {
		return nil
	}
	if c.userID == 0 {
		return nil
	}
	node := findComment(c.comments, commentID)
	if node == nil {
		return nil
	}

	currentVote := node.UserVote
	newVote := direction
	if currentVote == direction {
		newVote = 0
	}
	delta := newVote - currentVote

	if err := c.store.ApplyVote(KindComment, commentID, c.userID, newVote, delta); err != nil {
		c.notifier.Notify(c.userID, MsgVoteFailed)
		return err
	}

	node.Score += delta
	node.UserVote = newVote
	return nil
}
