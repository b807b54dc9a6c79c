package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"founder-hub/app/notify"
	"founder-hub/app/planner"
	"founder-hub/app/templates"

	"github.com/labstack/echo/v4"
)

// scheduleLayout is what an HTML datetime-local input submits.
const scheduleLayout = "2006-01-02T15:04"

func (h *BaseHandler) plannerPage(c echo.Context) templates.PlannerPage {
	bundle, err := h.planner.Load(c.Request().Context(), h.plannerBackend(c))
	h.logStateErrors(c, err)
	return templates.PlannerPage{
		Bundle:    bundle,
		Stats:     planner.Stats(bundle),
		Platforms: templates.PlatformOptions(),
	}
}

func (h *BaseHandler) PlannerPage(c echo.Context) error {
	return h.renderPage(c, "Social Media Planner", templates.Planner(h.plannerPage(c)))
}

// plannerDone finishes a planner action: HTMX callers get the refreshed
// planner, everyone else is redirected to it.
func (h *BaseHandler) plannerDone(c echo.Context, n notify.Notice) error {
	if h.isHTMXRequest(c) {
		return h.renderFragment(c, templates.Planner(h.plannerPage(c)), n)
	}
	h.pushNotice(c, n)
	return c.Redirect(http.StatusSeeOther, "/planner")
}

// plannerError maps planner failures onto notices or HTTP errors.
func (h *BaseHandler) plannerError(c echo.Context, err error) error {
	var verr *planner.ValidationError
	switch {
	case errors.As(err, &verr):
		return h.plannerDone(c, notify.Fail("Please check: "+strings.Join(verr.Fields, ", ")))
	case errors.Is(err, planner.ErrInvalid):
		return h.plannerDone(c, notify.Fail("Please check your input"))
	case errors.Is(err, planner.ErrConfirmationRequired):
		return h.plannerDone(c, notify.Note("Please confirm before deleting"))
	case errors.Is(err, planner.ErrFull):
		return h.plannerDone(c, notify.Fail("The planner is full. Delete some posts or ideas to make room."))
	case errors.Is(err, planner.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case errors.Is(err, planner.ErrImmutable):
		return echo.NewHTTPError(http.StatusConflict, "Published posts cannot be changed")
	}
	h.log.Error("planner action failed", "error", err, "path", c.Path())
	return h.plannerDone(c, notify.Fail("Could not save your change. Please try again."))
}

func (h *BaseHandler) CreatePost(c echo.Context) error {
	in := planner.PostInput{
		Platform: h.trimFormValue(c, "platform"),
		Content:  h.trimFormValue(c, "content"),
	}
	if raw := h.trimFormValue(c, "scheduled_for"); raw != "" {
		at, err := time.ParseInLocation(scheduleLayout, raw, time.UTC)
		if err != nil {
			return h.plannerDone(c, notify.Fail("Invalid schedule time"))
		}
		in.ScheduledFor = &at
	}

	post, err := h.planner.AddPost(c.Request().Context(), h.plannerBackend(c), in)
	if err != nil {
		return h.plannerError(c, err)
	}
	msg := "Post saved as draft"
	if post.ScheduledFor != nil {
		msg = "Post scheduled"
	}
	return h.plannerDone(c, notify.OK(msg))
}

func (h *BaseHandler) PublishPost(c echo.Context) error {
	post, err := h.planner.Publish(c.Request().Context(), h.plannerBackend(c), c.Param("id"))
	if err != nil {
		return h.plannerError(c, err)
	}
	h.log.Info("post published", "id", post.ID, "platform", post.Platform,
		"engagement_rate", post.Metrics.EngagementRate)
	return h.plannerDone(c, notify.OK("Post published!"))
}

func (h *BaseHandler) TogglePostStatus(c echo.Context) error {
	post, err := h.planner.ToggleStatus(c.Request().Context(), h.plannerBackend(c), c.Param("id"))
	if err != nil {
		return h.plannerError(c, err)
	}
	return h.plannerDone(c, notify.Note("Post moved to "+post.Status))
}

func (h *BaseHandler) DeletePost(c echo.Context) error {
	err := h.planner.DeletePost(c.Request().Context(), h.plannerBackend(c), c.Param("id"), h.confirmed(c))
	if err != nil {
		return h.plannerError(c, err)
	}
	return h.plannerDone(c, notify.Note("Post deleted"))
}

func (h *BaseHandler) CreateIdea(c echo.Context) error {
	_, err := h.planner.AddIdea(c.Request().Context(), h.plannerBackend(c),
		h.trimFormValue(c, "title"), h.trimFormValue(c, "platform"))
	if err != nil {
		return h.plannerError(c, err)
	}
	return h.plannerDone(c, notify.OK("Idea added"))
}

func (h *BaseHandler) ToggleIdea(c echo.Context) error {
	if _, err := h.planner.ToggleIdea(c.Request().Context(), h.plannerBackend(c), c.Param("id")); err != nil {
		return h.plannerError(c, err)
	}
	return h.plannerDone(c, notify.Notice{})
}

func (h *BaseHandler) DeleteIdea(c echo.Context) error {
	err := h.planner.DeleteIdea(c.Request().Context(), h.plannerBackend(c), c.Param("id"), h.confirmed(c))
	if err != nil {
		return h.plannerError(c, err)
	}
	return h.plannerDone(c, notify.Note("Idea deleted"))
}
