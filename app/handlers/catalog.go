package handlers

import (
	"net/http"
	"net/url"

	"founder-hub/app/catalog"
	"founder-hub/app/filter"
	"founder-hub/app/models"
	"founder-hub/app/notify"
	"founder-hub/app/selection"
	"founder-hub/app/services"
	"founder-hub/app/templates"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

func (h *BaseHandler) Home(c echo.Context) error {
	cards := make([]templates.CatalogCard, 0, len(h.registry.List()))
	for _, cat := range h.registry.List() {
		card := templates.CatalogCard{Catalog: cat, Stats: catalog.Compute(cat.Items)}
		if cat.IsChecklist() {
			p := selection.Checklist(cat, h.snapshot(c, cat))
			card.Progress = &p
		}
		cards = append(cards, card)
	}
	return h.renderPage(c, "Home", templates.Home(cards))
}

// catalogPage evaluates the current filters against the full catalog.
// path is where tracker actions return to.
func (h *BaseHandler) catalogPage(c echo.Context, cat *models.Catalog, q filter.Query, path string) templates.CatalogPage {
	snap := h.snapshot(c, cat)
	page := templates.CatalogPage{
		Catalog:  cat,
		Query:    q,
		Items:    filter.Items(cat, q, snap.Has),
		Stats:    catalog.Compute(cat.Items),
		Snapshot: snap,
		Path:     path,
	}
	if cat.IsChecklist() {
		p := selection.Checklist(cat, snap)
		page.Progress = &p
	}
	return page
}

func (h *BaseHandler) CatalogPage(c echo.Context) error {
	cat, err := h.catalogParam(c)
	if err != nil {
		return err
	}

	q := filter.FromValues(cat, c.QueryParams())
	page := h.catalogPage(c, cat, q, c.Request().URL.RequestURI())

	// Return just the grid for HTMX filter requests
	if h.isHTMXRequest(c) {
		return h.render(c, templates.CatalogGrid(page))
	}
	return h.renderPage(c, cat.Title, templates.Catalog(page))
}

func (h *BaseHandler) ItemView(c echo.Context) error {
	cat, item, err := h.itemParam(c)
	if err != nil {
		return err
	}

	page := templates.ItemPage{
		Catalog:  cat,
		Item:     item,
		Body:     services.MarkdownToHTML(item.Body),
		Snapshot: h.snapshot(c, cat),
		Path:     c.Request().URL.Path,
	}
	return h.renderPage(c, item.Title, templates.ItemDetail(page))
}

// ItemGo follows an item's link, in-app or external.
func (h *BaseHandler) ItemGo(c echo.Context) error {
	_, item, err := h.itemParam(c)
	if err != nil {
		return err
	}
	if item.Href == "" {
		return echo.NewHTTPError(http.StatusNotFound, "Item has no link")
	}
	return c.Redirect(http.StatusSeeOther, item.Href)
}

func (h *BaseHandler) ToggleTracker(c echo.Context) error {
	cat, item, err := h.itemParam(c)
	if err != nil {
		return err
	}
	def, ok := cat.Tracker(c.Param("tracker"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Tracker not found")
	}
	return h.applyTracker(c, cat, item, def)
}

func (h *BaseHandler) Enroll(c echo.Context) error {
	cat, item, err := h.itemParam(c)
	if err != nil {
		return err
	}
	def, ok := cat.Tracker(models.TrackerEnrolled)
	if !ok || def.Mode != models.ModeEnroll {
		return echo.NewHTTPError(http.StatusNotFound, "Enrollment is not available here")
	}
	return h.applyTracker(c, cat, item, def)
}

// nextQuery recovers the filters of the catalog page a tracker form was
// posted from. Any other origin shows the whole catalog.
func nextQuery(cat *models.Catalog, next string) filter.Query {
	u, err := url.Parse(next)
	if err != nil || u.Path != templates.CatalogURL(cat.Slug) {
		return filter.Query{}
	}
	return filter.FromValues(cat, u.Query())
}

func (h *BaseHandler) applyTracker(c echo.Context, cat *models.Catalog, item models.Item, def models.TrackerDef) error {
	back := templates.ItemURL(cat.Slug, item.ID)

	res, err := selection.NewTracker(def).Apply(c.Request().Context(), h.backend(c), item.ID)
	if err != nil {
		h.log.Error("failed to persist selection",
			"error", err, "catalog", cat.Slug, "tracker", def.Name, "item", item.ID)
		n := notify.Fail("Could not save your change. Please try again.")
		if h.isHTMXRequest(c) {
			return h.render(c, templates.Toasts([]notify.Notice{n}))
		}
		h.pushNotice(c, n)
		return h.redirectBack(c, back)
	}

	h.log.Debug("selection updated",
		"catalog", cat.Slug, "tracker", def.Name, "item", item.ID,
		"added", res.Added, "changed", res.Changed)

	if h.isHTMXRequest(c) {
		next := h.trimFormValue(c, "next")
		page := h.catalogPage(c, cat, nextQuery(cat, next), next)
		// An empty swap drops the card when it no longer matches the filters.
		var parts []templ.Component
		if page.Shows(item.ID) {
			parts = append(parts, templates.ItemCard(page, item))
		}
		if page.Progress != nil {
			parts = append(parts, templates.ProgressBar(*page.Progress))
		}
		return h.renderFragment(c, templ.Join(parts...), res.Notice)
	}

	h.pushNotice(c, res.Notice)
	return h.redirectBack(c, back)
}
