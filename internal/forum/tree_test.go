package forum

import (
	"testing"

	"clanboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestBuildCommentTreeNesting(t *testing.T) {
	flat := []models.Comment{
		{ID: 1},
		{ID: 2, ParentID: uintPtr(1)},
		{ID: 3, ParentID: uintPtr(2)},
	}

	roots := BuildCommentTree(flat)

	require.Len(t, roots, 1)
	require.Equal(t, uint(1), roots[0].ID)
	require.Len(t, roots[0].Replies, 1)
	assert.Equal(t, uint(2), roots[0].Replies[0].ID)

	// The grandchild hangs off comment 2, not comment 1.
	require.Len(t, roots[0].Replies[0].Replies, 1)
	assert.Equal(t, uint(3), roots[0].Replies[0].Replies[0].ID)
}

func TestBuildCommentTreeOrphanBecomesRoot(t *testing.T) {
	flat := []models.Comment{
		{ID: 1},
		{ID: 2, ParentID: uintPtr(99)},
	}

	roots := BuildCommentTree(flat)

	require.Len(t, roots, 2)
	assert.Equal(t, uint(1), roots[0].ID)
	assert.Equal(t, uint(2), roots[1].ID)
	assert.Empty(t, roots[1].Replies)
}

func TestBuildCommentTreeSiblingOrderPreserved(t *testing.T) {
	flat := []models.Comment{
		{ID: 1},
		{ID: 2, ParentID: uintPtr(1)},
		{ID: 3, ParentID: uintPtr(1)},
		{ID: 4, ParentID: uintPtr(1)},
	}

	roots := BuildCommentTree(flat)

	require.Len(t, roots, 1)
	require.Len(t, roots[0].Replies, 3)
	assert.Equal(t, uint(2), roots[0].Replies[0].ID)
	assert.Equal(t, uint(3), roots[0].Replies[1].ID)
	assert.Equal(t, uint(4), roots[0].Replies[2].ID)
}

func TestBuildCommentTreeDoesNotMutateInput(t *testing.T) {
	flat := []models.Comment{
		{ID: 1},
		{ID: 2, ParentID: uintPtr(1)},
	}

	BuildCommentTree(flat)

	assert.Nil(t, flat[0].Replies)
	assert.Nil(t, flat[1].Replies)
}

func TestBuildCommentTreeEmpty(t *testing.T) {
	assert.Empty(t, BuildCommentTree(nil))
}

func TestWalkCommentsVisitsEveryNode(t *testing.T) {
	flat := []models.Comment{
		{ID: 1},
		{ID: 2, ParentID: uintPtr(1)},
		{ID: 3, ParentID: uintPtr(2)},
		{ID: 4},
	}
	roots := BuildCommentTree(flat)

	assert.Equal(t, 4, countComments(roots))
	assert.NotNil(t, findComment(roots, 3))
	assert.Nil(t, findComment(roots, 99))
}
