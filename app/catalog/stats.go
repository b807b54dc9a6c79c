package catalog

import (
	"math"

	"founder-hub/app/models"
)

// Stats are the header figures of a catalog page. They are always computed
// from the full catalog, so filtering the grid never moves them.
type Stats struct {
	Total     int     `json:"total"`
	Free      int     `json:"free"`
	Featured  int     `json:"featured"`
	Lessons   int     `json:"lessons"`
	Students  int     `json:"students"`
	Downloads int     `json:"downloads"`
	Reviews   int     `json:"reviews"`
	AvgRating float64 `json:"avg_rating"`
}

func Compute(items []models.Item) Stats {
	var (
		s       Stats
		sum     float64
		ratings int
	)
	for _, item := range items {
		s.Total++
		if item.Free {
			s.Free++
		}
		if item.Featured {
			s.Featured++
		}
		s.Lessons += item.Lessons
		s.Students += item.Students
		s.Downloads += item.Downloads
		s.Reviews += item.Reviews
		if item.Rating > 0 {
			sum += item.Rating
			ratings++
		}
	}
	if ratings > 0 {
		s.AvgRating = math.Round(sum/float64(ratings)*10) / 10
	}
	return s
}
