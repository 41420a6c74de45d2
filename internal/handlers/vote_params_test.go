package handlers

import (
	"testing"

	"clanboard/internal/forum"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVoteParamsValid(t *testing.T) {
	kind, id, direction, ok := parseVoteParams("post", "42", "up")
	require.True(t, ok)
	assert.Equal(t, forum.KindPost, kind)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, 1, direction)

	kind, id, direction, ok = parseVoteParams("comment", "7", "down")
	require.True(t, ok)
	assert.Equal(t, forum.KindComment, kind)
	assert.Equal(t, uint(7), id)
	assert.Equal(t, -1, direction)
}

func TestParseVoteParamsRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		typ  string
		id   string
		dir  string
	}{
		{"unknown type", "story", "1", "up"},
		{"unknown direction", "post", "1", "sideways"},
		{"non-numeric id", "post", "abc", "up"},
		{"zero id", "post", "0", "up"},
		{"empty id", "comment", "", "down"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, ok := parseVoteParams(tc.typ, tc.id, tc.dir)
			assert.False(t, ok)
		})
	}
}
