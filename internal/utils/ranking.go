package utils

import (
	"math"
	"time"
)

// HotRankGravity is the age penalty divisor: a post loses one rank point
// per six hours of age.
const HotRankGravity = 6.0

// HotRank scores a post for the "hot" sort.
//
//	sign(score) * log2(max(|score|, 1) + 1) - ageHours/6
//
// Monotonically decreasing in age for a fixed score, logarithmic compression
// of large score magnitudes, and symmetric sign handling so heavily
// downvoted posts rank symmetrically low.
//
// Callers apply this only to the page of posts already fetched (after
// pinned-first separation), not globally across all pages.
func HotRank(score int, createdAt, now time.Time) float64 {
	magnitude := math.Max(math.Abs(float64(score)), 1)
	sign := 0.0
	if score > 0 {
		sign = 1.0
	} else if score < 0 {
		sign = -1.0
	}

	ageHours := now.Sub(createdAt).Hours()
	return sign*math.Log2(magnitude+1) - ageHours/HotRankGravity
}
