package planner

import (
	"math"
	"math/rand/v2"

	"founder-hub/app/models"
)

// Bounds of the simulated engagement figures. Lower bound inclusive, upper
// bound exclusive.
const (
	minLikes    = 50
	maxLikes    = 550
	minComments = 5
	maxComments = 105
	minShares   = 2
	maxShares   = 52
	minViews    = 1000
	maxViews    = 11000
)

// SimulateMetrics draws engagement figures for a freshly published post.
// There is no analytics pipeline behind this; the numbers only need to look
// plausible.
func SimulateMetrics(r *rand.Rand) models.Metrics {
	m := models.Metrics{
		Likes:    between(r, minLikes, maxLikes),
		Comments: between(r, minComments, maxComments),
		Shares:   between(r, minShares, maxShares),
		Views:    between(r, minViews, maxViews),
	}
	m.EngagementRate = EngagementRate(m.Likes, m.Comments, m.Shares, m.Views)
	return m
}

// EngagementRate is (likes+comments+shares)/views as a percentage with two
// decimals. Zero views give a zero rate.
func EngagementRate(likes, comments, shares, views int) float64 {
	if views <= 0 {
		return 0
	}
	rate := float64(likes+comments+shares) / float64(views) * 100
	return round2(rate)
}

func between(r *rand.Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
