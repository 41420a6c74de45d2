package forum

import (
	"testing"

	"clanboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func votingController(t *testing.T) (*Controller, *fakeStore, *recordNotifier) {
	t.Helper()
	store := newFakeStore()
	seedPosts(store, 1)
	store.posts[0].Score = 5
	ctrl, notifier := newTestController(t, store, 1, false)
	require.NoError(t, ctrl.LoadPage(1))
	return ctrl, store, notifier
}

func TestVotePostToggle(t *testing.T) {
	ctrl, store, _ := votingController(t)

	// Fresh upvote.
	require.NoError(t, ctrl.VotePost(1, 1))
	snap := ctrl.Snapshot()
	assert.Equal(t, 6, snap.Posts[0].Score)
	assert.Equal(t, 1, snap.Posts[0].UserVote)
	assert.Equal(t, 1, store.votes[voteKey(KindPost, 1, 1)])

	// Same direction again clears the vote.
	require.NoError(t, ctrl.VotePost(1, 1))
	snap = ctrl.Snapshot()
	assert.Equal(t, 5, snap.Posts[0].Score)
	assert.Equal(t, 0, snap.Posts[0].UserVote)
	_, held := store.votes[voteKey(KindPost, 1, 1)]
	assert.False(t, held)
}

func TestVotePostFlip(t *testing.T) {
	ctrl, store, _ := votingController(t)

	require.NoError(t, ctrl.VotePost(1, 1))
	// Opposite direction swings the score by two.
	require.NoError(t, ctrl.VotePost(1, -1))

	snap := ctrl.Snapshot()
	assert.Equal(t, 4, snap.Posts[0].Score)
	assert.Equal(t, -1, snap.Posts[0].UserVote)
	assert.Equal(t, -1, store.votes[voteKey(KindPost, 1, 1)])
	assert.Equal(t, 4, store.posts[0].Score)
}

func TestVotePostNoOps(t *testing.T) {
	ctrl, store, _ := votingController(t)

	// Invalid direction, unknown post.
	require.NoError(t, ctrl.VotePost(1, 2))
	require.NoError(t, ctrl.VotePost(999, 1))
	assert.Equal(t, 0, store.applyVoteCalls)

	// Signed out.
	anon, _ := newTestController(t, store, 0, false)
	require.NoError(t, anon.LoadPage(1))
	require.NoError(t, anon.VotePost(1, 1))
	assert.Equal(t, 0, store.applyVoteCalls)
	assert.Equal(t, 5, store.posts[0].Score)
}

func TestVotePostFailureLeavesStateUntouched(t *testing.T) {
	ctrl, store, notifier := votingController(t)
	store.failApplyVote = true

	err := ctrl.VotePost(1, 1)

	require.Error(t, err)
	snap := ctrl.Snapshot()
	assert.Equal(t, 5, snap.Posts[0].Score)
	assert.Equal(t, 0, snap.Posts[0].UserVote)
	assert.Contains(t, notifier.messages, MsgVoteFailed)
}

func TestVotePostPatchesListAndDetail(t *testing.T) {
	ctrl, _, _ := votingController(t)
	require.NoError(t, ctrl.OpenPost("p1"))

	require.NoError(t, ctrl.VotePost(1, 1))

	snap := ctrl.Snapshot()
	require.NotNil(t, snap.Selected)
	assert.Equal(t, 6, snap.Selected.Score)
	assert.Equal(t, 1, snap.Selected.UserVote)
	// The list copy of the same post stays in sync.
	assert.Equal(t, 6, snap.Posts[0].Score)
	assert.Equal(t, 1, snap.Posts[0].UserVote)
}

func TestVoteCommentToggle(t *testing.T) {
	store := newFakeStore()
	seedPosts(store, 1)
	store.comments = []models.Comment{
		{ID: 1, Cid: "c1", PostID: 1, AuthorID: 2, Content: "nice", Score: 2},
		{ID: 2, Cid: "c2", PostID: 1, AuthorID: 1, ParentID: uintPtr(1), Content: "thanks"},
	}
	ctrl, _ := newTestController(t, store, 1, false)
	require.NoError(t, ctrl.OpenPost("p1"))

	// Vote on the nested reply, not the root.
	require.NoError(t, ctrl.VoteComment(2, 1))
	snap := ctrl.Snapshot()
	reply := snap.Comments[0].Replies[0]
	assert.Equal(t, 1, reply.Score)
	assert.Equal(t, 1, reply.UserVote)

	require.NoError(t, ctrl.VoteComment(2, 1))
	snap = ctrl.Snapshot()
	reply = snap.Comments[0].Replies[0]
	assert.Equal(t, 0, reply.Score)
	assert.Equal(t, 0, reply.UserVote)
	assert.Equal(t, 0, store.comments[1].Score)
}

func TestVoteCommentFailureLeavesTreeUntouched(t *testing.T) {
	store := newFakeStore()
	seedPosts(store, 1)
	store.comments = []models.Comment{
		{ID: 1, Cid: "c1", PostID: 1, AuthorID: 2, Content: "nice", Score: 2},
	}
	ctrl, notifier := newTestController(t, store, 1, false)
	require.NoError(t, ctrl.OpenPost("p1"))
	store.failApplyVote = true

	err := ctrl.VoteComment(1, -1)

	require.Error(t, err)
	snap := ctrl.Snapshot()
	assert.Equal(t, 2, snap.Comments[0].Score)
	assert.Equal(t, 0, snap.Comments[0].UserVote)
	assert.Contains(t, notifier.messages, MsgVoteFailed)
}

func TestSnapshotCommentsDetachedFromLiveTree(t *testing.T) {
	store := newFakeStore()
	seedPosts(store, 1)
	store.comments = []models.Comment{
		{ID: 1, Cid: "c1", PostID: 1, AuthorID: 2, Content: "nice"},
		{ID: 2, Cid: "c2", PostID: 1, AuthorID: 2, ParentID: uintPtr(1), Content: "deep"},
	}
	ctrl, _ := newTestController(t, store, 1, false)
	require.NoError(t, ctrl.OpenPost("p1"))

	// A snapshot taken before a vote must not observe the mutation; it is
	// serialized outside the controller lock.
	before := ctrl.Snapshot()
	require.NoError(t, ctrl.VoteComment(1, 1))
	require.NoError(t, ctrl.VoteComment(2, -1))

	assert.Equal(t, 0, before.Comments[0].Score)
	assert.Equal(t, 0, before.Comments[0].UserVote)
	assert.Equal(t, 0, before.Comments[0].Replies[0].Score)

	after := ctrl.Snapshot()
	assert.Equal(t, 1, after.Comments[0].Score)
	assert.Equal(t, -1, after.Comments[0].Replies[0].Score)
}

func TestVoteStartingFromStoredVote(t *testing.T) {
	store := newFakeStore()
	seedPosts(store, 1)
	store.posts[0].Score = 6
	store.votes[voteKey(KindPost, 1, 1)] = 1
	ctrl, _ := newTestController(t, store, 1, false)
	require.NoError(t, ctrl.LoadPage(1))

	// The enriched page already carries the persisted vote; a downvote
	// from there is a flip, not a fresh vote.
	require.NoError(t, ctrl.VotePost(1, -1))

	snap := ctrl.Snapshot()
	assert.Equal(t, 4, snap.Posts[0].Score)
	assert.Equal(t, -1, snap.Posts[0].UserVote)
}
