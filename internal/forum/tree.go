package forum

import (
	"clanboard/internal/models"
)

// BuildCommentTree turns a flat, creation-ordered comment list into a forest
// of root comments with nested Replies. Pure function: the input slice is
// not modified, nodes are copies.
//
// Two passes, O(n): the first builds an id→node map with empty reply lists;
// the second attaches each comment under its parent when that parent exists
// in the map, otherwise the comment is a root. A node can only end up under
// a parent present in the scanned list, so the structure is acyclic. Depth
// is unbounded here; how deep the presentation nests is not this function's
// concern.
func BuildCommentTree(flat []models.Comment) []*models.Comment {
	nodes := make(map[uint]*models.Comment, len(flat))
	order := make([]*models.Comment, len(flat))
	for i := range flat {
		node := flat[i]
		node.Replies = nil
		nodes[node.ID] = &node
		order[i] = &node
	}

	roots := make([]*models.Comment, 0, len(flat))
	for _, node := range order {
		if node.ParentID != nil {
			if parent, ok := nodes[*node.ParentID]; ok && parent != node {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

// copyComments deep-copies a comment forest so the copy can be read without
// holding the lock that guards the original.
func copyComments(roots []*models.Comment) []*models.Comment {
	if roots == nil {
		return nil
	}
	out := make([]*models.Comment, len(roots))
	for i, n := range roots {
		node := *n
		node.Replies = copyComments(n.Replies)
		out[i] = &node
	}
	return out
}

// WalkComments visits every node of the forest depth-first.
func WalkComments(roots []*models.Comment, fn func(*models.Comment)) {
	for _, node := range roots {
		fn(node)
		WalkComments(node.Replies, fn)
	}
}

// findComment returns the node with the given id, or nil.
func findComment(roots []*models.Comment, id uint) *models.Comment {
	var found *models.Comment
	WalkComments(roots, func(n *models.Comment) {
		if n.ID == id {
			found = n
		}
	})
	return found
}

// findCommentByCid returns the node with the given public cid, or nil.
func findCommentByCid(roots []*models.Comment, cid string) *models.Comment {
	var found *models.Comment
	WalkComments(roots, func(n *models.Comment) {
		if n.Cid == cid {
			found = n
		}
	})
	return found
}
