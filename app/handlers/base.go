package handlers

import (
	"errors"
	"net/http"
	"strings"

	"founder-hub/app/catalog"
	"founder-hub/app/config"
	"founder-hub/app/logger"
	"founder-hub/app/models"
	"founder-hub/app/notify"
	"founder-hub/app/planner"
	"founder-hub/app/selection"
	"founder-hub/app/store"
	"founder-hub/app/templates"

	"github.com/a-h/templ"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
)

// BaseHandler consolidates all handler functionality
type BaseHandler struct {
	registry *catalog.Registry
	store    *sessions.CookieStore
	planner  *planner.Planner
	log      *logger.Logger
	cfg      *config.Config
}

func NewBaseHandler(cfg *config.Config, log *logger.Logger, registry *catalog.Registry) *BaseHandler {
	if registry == nil {
		registry = catalog.Default()
	}
	return &BaseHandler{
		registry: registry,
		store:    store.NewCookieStore(cfg.Session.Key, cfg.Session.MaxAge, cfg.Session.Secure),
		planner:  planner.New(models.NewValidator()),
		log:      log,
		cfg:      cfg,
	}
}

// Common utility methods
func (h *BaseHandler) render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	return component.Render(c.Request().Context(), c.Response().Writer)
}

// renderPage wraps content in the layout, draining queued notices.
func (h *BaseHandler) renderPage(c echo.Context, title string, content templ.Component) error {
	notices := notify.Pop(h.store, c.Request(), c.Response())
	return h.render(c, templates.Layout(title, c.Request().URL.Path, notices, content))
}

// renderFragment writes an HTMX partial followed by the notices as an
// out-of-band swap.
func (h *BaseHandler) renderFragment(c echo.Context, content templ.Component, n notify.Notice) error {
	var notices []notify.Notice
	if !n.IsZero() {
		notices = append(notices, n)
	}
	return h.render(c, templ.Join(content, templates.Toasts(notices)))
}

// backend is the device-local store of the current visitor.
func (h *BaseHandler) backend(c echo.Context) store.Backend {
	return store.NewSession(h.store, c.Request(), c.Response())
}

// plannerBackend holds the planner bundle, which outgrows a single cookie. Its
// cookies are only sent to the planner pages.
func (h *BaseHandler) plannerBackend(c echo.Context) store.Backend {
	session := store.NewSession(h.store, c.Request(), c.Response()).WithPath("/planner")
	return store.NewChunked(session, store.CookieChunkSize, store.CookieMaxChunks)
}

func (h *BaseHandler) pushNotice(c echo.Context, n notify.Notice) {
	if err := notify.Push(h.store, c.Request(), c.Response(), n); err != nil {
		h.log.Warn("failed to queue notice", "error", err, "path", c.Path())
	}
}

// snapshot loads every tracker of a catalog. Unreadable stored values are
// logged and replaced by their defaults.
func (h *BaseHandler) snapshot(c echo.Context, cat *models.Catalog) selection.Snapshot {
	snap, errs := selection.LoadAll(c.Request().Context(), h.backend(c), cat)
	h.logStateErrors(c, errs...)
	return snap
}

func (h *BaseHandler) logStateErrors(c echo.Context, errs ...error) {
	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, store.ErrCorrupt) {
			h.log.Warn("ignoring unreadable local state", "error", err, "path", c.Path())
			continue
		}
		h.log.Error("failed to read local state", "error", err, "path", c.Path())
	}
}

// Helper functions
func (h *BaseHandler) catalogParam(c echo.Context) (*models.Catalog, error) {
	cat, ok := h.registry.Get(c.Param("slug"))
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Catalog not found")
	}
	return cat, nil
}

func (h *BaseHandler) itemParam(c echo.Context) (*models.Catalog, models.Item, error) {
	cat, err := h.catalogParam(c)
	if err != nil {
		return nil, models.Item{}, err
	}
	item, ok := cat.ByID(c.Param("id"))
	if !ok {
		return nil, models.Item{}, echo.NewHTTPError(http.StatusNotFound, "Item not found")
	}
	return cat, item, nil
}

func (h *BaseHandler) trimFormValue(c echo.Context, key string) string {
	return strings.TrimSpace(c.FormValue(key))
}

// isHTMXRequest reports a request for a fragment. Boosted navigation also
// comes from HTMX but expects a full page.
func (h *BaseHandler) isHTMXRequest(c echo.Context) bool {
	hdr := c.Request().Header
	return hdr.Get("HX-Request") == "true" && hdr.Get("HX-Boosted") != "true"
}

// redirectBack returns to the page the action came from. Only local paths
// are followed.
func (h *BaseHandler) redirectBack(c echo.Context, fallback string) error {
	next := h.trimFormValue(c, "next")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		next = fallback
	}
	return c.Redirect(http.StatusSeeOther, next)
}

func (h *BaseHandler) confirmed(c echo.Context) bool {
	switch strings.ToLower(h.trimFormValue(c, "confirm")) {
	case "yes", "true", "on", "1":
		return true
	}
	return false
}
