package selection

import (
	"math"

	"founder-hub/app/models"
)

// Progress returns completed/total as a whole percentage, rounded to the
// nearest integer. An empty checklist is 0% done.
func Progress(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed < 0 {
		completed = 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// ChecklistProgress is the progress figure shown on a checklist page.
type ChecklistProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

// CompletedIn counts the ids of set that belong to items. Ids of removed
// items stay in storage but are never counted.
func CompletedIn(set Set, items []models.Item) int {
	n := 0
	for _, item := range items {
		if set.Has(item.ID) {
			n++
		}
	}
	return n
}

// Checklist computes progress of a checklist catalog from its completed set.
func Checklist(c *models.Catalog, snap Snapshot) ChecklistProgress {
	done := CompletedIn(snap[models.TrackerCompleted], c.Items)
	return ChecklistProgress{
		Completed: done,
		Total:     len(c.Items),
		Percent:   Progress(done, len(c.Items)),
	}
}
