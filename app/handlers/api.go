package handlers

import (
	"net/http"
	"strings"

	"founder-hub/app/catalog"
	"founder-hub/app/filter"
	"founder-hub/app/models"
	"founder-hub/app/selection"
	"founder-hub/app/templates"

	"github.com/labstack/echo/v4"
)

type catalogSummary struct {
	Slug        string                       `json:"slug"`
	Title       string                       `json:"title"`
	Kind        string                       `json:"kind"`
	Description string                       `json:"description"`
	Stats       catalog.Stats                `json:"stats"`
	Progress    *selection.ChecklistProgress `json:"progress,omitempty"`
}

type itemsResponse struct {
	Items []models.Item       `json:"items"`
	Stats catalog.Stats       `json:"stats"`
	Total int                 `json:"total"`
	Query filter.Query        `json:"query"`
	State map[string][]string `json:"state,omitempty"`
}

func (h *BaseHandler) APICatalogs(c echo.Context) error {
	out := make([]catalogSummary, 0, len(h.registry.List()))
	for _, cat := range h.registry.List() {
		s := catalogSummary{
			Slug:        cat.Slug,
			Title:       cat.Title,
			Kind:        cat.Kind,
			Description: cat.Description,
			Stats:       catalog.Compute(cat.Items),
		}
		if cat.IsChecklist() {
			p := selection.Checklist(cat, h.snapshot(c, cat))
			s.Progress = &p
		}
		out = append(out, s)
	}
	return c.JSON(http.StatusOK, out)
}

// APICatalogItems answers the same filter parameters as the catalog page.
// total is the number of matching items; stats describe the whole catalog.
func (h *BaseHandler) APICatalogItems(c echo.Context) error {
	cat, err := h.catalogParam(c)
	if err != nil {
		return err
	}
	q := filter.FromValues(cat, c.QueryParams())
	page := h.catalogPage(c, cat, q, "")

	state := make(map[string][]string, len(page.Snapshot))
	for name, set := range page.Snapshot {
		state[name] = set.IDs()
	}
	return c.JSON(http.StatusOK, itemsResponse{
		Items: page.Items,
		Stats: page.Stats,
		Total: len(page.Items),
		Query: q,
		State: state,
	})
}

func (h *BaseHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":   "ok",
		"catalogs": len(h.registry.List()),
	})
}

// HTTPErrorHandler renders errors as JSON for the API and as a page elsewhere.
func (h *BaseHandler) HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}
	if code >= http.StatusInternalServerError {
		h.log.Error("request failed", "error", err, "path", c.Request().URL.Path, "status", code)
	}

	var werr error
	switch {
	case c.Request().Method == http.MethodHead:
		werr = c.NoContent(code)
	case strings.HasPrefix(c.Request().URL.Path, "/api/"):
		werr = c.JSON(code, map[string]string{"error": message})
	default:
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
		c.Response().WriteHeader(code)
		page := templates.Layout(http.StatusText(code), c.Request().URL.Path, nil, templates.ErrorPage(code, message))
		werr = page.Render(c.Request().Context(), c.Response().Writer)
	}
	if werr != nil {
		h.log.Warn("failed to write error response", "error", werr)
	}
}
