package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHotRankDecreasesWithAge(t *testing.T) {
	now := time.Now()
	prev := HotRank(10, now, now)
	for _, age := range []time.Duration{time.Hour, 6 * time.Hour, 24 * time.Hour, 30 * 24 * time.Hour} {
		r := HotRank(10, now.Add(-age), now)
		assert.Less(t, r, prev, "rank must keep falling at age %s", age)
		prev = r
	}
}

func TestHotRankZeroScoreIsPureAgePenalty(t *testing.T) {
	now := time.Now()
	created := now.Add(-12 * time.Hour)
	assert.InDelta(t, -12.0/HotRankGravity, HotRank(0, created, now), 1e-9)
}

func TestHotRankSignSymmetry(t *testing.T) {
	now := time.Now()
	created := now.Add(-3 * time.Hour)
	up := HotRank(50, created, now)
	down := HotRank(-50, created, now)
	penalty := -3.0 / HotRankGravity
	assert.InDelta(t, (up-penalty)+(down-penalty), 0, 1e-9)
	assert.Greater(t, up, down)
}

func TestHotRankCompressesScore(t *testing.T) {
	now := time.Now()
	small := HotRank(10, now, now)
	big := HotRank(1000, now, now)
	assert.Greater(t, big, small)
	// Two orders of magnitude more votes buys well under 10 rank points.
	assert.Less(t, big-small, 10.0)
}

func TestHotRankFreshBeatsStaleHeavyweight(t *testing.T) {
	now := time.Now()
	fresh := HotRank(3, now.Add(-1*time.Hour), now)
	stale := HotRank(500, now.Add(-7*24*time.Hour), now)
	assert.Greater(t, fresh, stale)
}
