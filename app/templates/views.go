package templates

import (
	"html/template"

	"founder-hub/app/catalog"
	"founder-hub/app/filter"
	"founder-hub/app/models"
	"founder-hub/app/selection"
)

// CatalogCard is one entry of the home page.
type CatalogCard struct {
	Catalog  *models.Catalog
	Stats    catalog.Stats
	Progress *selection.ChecklistProgress
}

// CatalogPage is everything a catalog page shows. Stats always describe the
// whole catalog; Items is the filtered grid.
type CatalogPage struct {
	Catalog  *models.Catalog
	Query    filter.Query
	Items    []models.Item
	Stats    catalog.Stats
	Snapshot selection.Snapshot
	Progress *selection.ChecklistProgress
	Path     string
}

// Filtered reports whether the grid shows fewer items than the catalog.
func (p CatalogPage) Filtered() bool {
	return len(p.Items) != len(p.Catalog.Items)
}

// Shows reports whether the grid currently lists the item.
func (p CatalogPage) Shows(id string) bool {
	for _, item := range p.Items {
		if item.ID == id {
			return true
		}
	}
	return false
}

type ItemPage struct {
	Catalog  *models.Catalog
	Item     models.Item
	Body     template.HTML
	Snapshot selection.Snapshot
	Path     string
}

type PlannerPage struct {
	Bundle    models.PlannerBundle
	Stats     models.PlannerStats
	Platforms []models.Option
}

// PlatformOptions lists planner platforms in display order.
func PlatformOptions() []models.Option {
	ids := []string{models.PlatformTwitter, models.PlatformLinkedIn, models.PlatformInstagram, models.PlatformFacebook}
	out := make([]models.Option, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Option{ID: id, Label: models.GetPlatformName(id)})
	}
	return out
}
