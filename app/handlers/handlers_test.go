package handlers

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"founder-hub/app/config"
	"founder-hub/app/logger"
	"founder-hub/app/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// client replays cookies between requests the way a browser would.
type client struct {
	t       *testing.T
	e       *echo.Echo
	h       *BaseHandler
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T) *client {
	t.Helper()
	cfg := &config.Config{}
	cfg.Session.Key = "test-secret-test-secret-test-secret"
	cfg.Session.MaxAge = 3600

	e := echo.New()
	h := NewBaseHandler(cfg, logger.Nop(), nil)
	h.Register(e)
	return &client{t: t, e: e, h: h, cookies: map[string]*http.Cookie{}}
}

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	cl.t.Helper()
	for _, c := range cl.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	cl.e.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(cl.cookies, c.Name)
			continue
		}
		cl.cookies[c.Name] = c
	}
	return rec
}

func (cl *client) get(target string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return cl.do(req)
}

func (cl *client) post(target string, form url.Values, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return cl.do(req)
}

func TestHome(t *testing.T) {
	cl := newClient(t)
	rec := cl.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Founder Courses")
	assert.Contains(t, rec.Body.String(), "0% complete")
}

func TestCatalogPage(t *testing.T) {
	cl := newClient(t)

	rec := cl.get("/c/courses")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, "Fundraising Fundamentals")
	assert.Contains(t, body, "<strong>93</strong> lessons")

	rec = cl.get("/c/courses?q=zzzz", "HX-Request", "true")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.NotContains(t, body, "<!doctype html>", "HTMX filter requests get the grid only")
	assert.Contains(t, body, "Nothing matches")
}

func TestCatalogPage_BoostedGetsFullPage(t *testing.T) {
	cl := newClient(t)
	rec := cl.get("/c/books", "HX-Request", "true", "HX-Boosted", "true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<!doctype html>")
}

func TestNotFound(t *testing.T) {
	cl := newClient(t)

	rec := cl.get("/c/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Catalog not found")

	rec = cl.get("/c/books/items/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = cl.post("/c/books/items/b1/toggle/enrolled", url.Values{})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = cl.get("/api/catalogs/unknown/items")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Catalog not found"}`, rec.Body.String())
}

func TestToggleSaved_PersistsAndNotifies(t *testing.T) {
	cl := newClient(t)

	rec := cl.post("/c/books/items/b2/toggle/saved", url.Values{"next": {"/c/books"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/c/books", rec.Header().Get(echo.HeaderLocation))
	require.Contains(t, cl.cookies, "saved-books")

	rec = cl.get("/c/books?tab=saved")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Saved!")
	assert.Contains(t, body, "Zero to One")
	assert.NotContains(t, body, "The Lean Startup")

	// The notice is shown once.
	rec = cl.get("/c/books")
	assert.NotContains(t, rec.Body.String(), "Saved!")

	rec = cl.post("/c/books/items/b2/toggle/saved", url.Values{"next": {"/c/books"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = cl.get("/c/books?tab=saved")
	body = rec.Body.String()
	assert.Contains(t, body, "Removed")
	assert.Contains(t, body, "Nothing matches")
}

func TestToggle_HTMXReturnsCard(t *testing.T) {
	cl := newClient(t)
	rec := cl.post("/c/books/items/b1/toggle/read", url.Values{"next": {"/c/books"}}, "HX-Request", "true")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="item-b1"`)
	assert.Contains(t, body, `aria-pressed="true"`)
	assert.Contains(t, body, "Marked as read")
	assert.NotContains(t, body, "<!doctype html>")
}

func TestToggle_HTMXDropsCardLeavingFilteredTab(t *testing.T) {
	cl := newClient(t)
	rec := cl.post("/c/books/items/b2/toggle/saved", url.Values{"next": {"/c/books"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = cl.post("/c/books/items/b2/toggle/saved", url.Values{"next": {"/c/books?tab=saved"}}, "HX-Request", "true")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, `id="item-b2"`)
	assert.Contains(t, body, "Removed")
	assert.Contains(t, body, `id="toasts"`)

	rec = cl.post("/c/books/items/b2/toggle/saved", url.Values{"next": {"/c/books?tab=saved"}}, "HX-Request", "true")
	assert.Contains(t, rec.Body.String(), `id="item-b2"`)
}

func TestToggle_HTMXRefreshesChecklistProgress(t *testing.T) {
	cl := newClient(t)
	rec := cl.post("/c/stage-idea/items/i1/toggle/completed", url.Values{"next": {"/c/stage-idea"}}, "HX-Request", "true")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="item-i1"`)
	assert.Contains(t, body, `<div id="progress" class="progress" hx-swap-oob="true">`)
	assert.Contains(t, body, "1 of 10 complete · 10%")

	rec = cl.post("/c/books/items/b1/toggle/read", url.Values{"next": {"/c/books"}}, "HX-Request", "true")
	assert.NotContains(t, rec.Body.String(), `id="progress"`)
}

func TestEnroll_AlreadyEnrolled(t *testing.T) {
	cl := newClient(t)

	rec := cl.post("/c/courses/items/2/enroll", url.Values{"next": {"/c/courses"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = cl.get("/c/courses")
	assert.Contains(t, rec.Body.String(), "Successfully enrolled!")

	rec = cl.post("/c/courses/items/2/enroll", url.Values{"next": {"/c/courses"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = cl.get("/api/catalogs/courses/items?tab=enrolled")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp itemsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, []string{"2"}, resp.State["enrolled"])

	rec = cl.get("/c/courses")
	assert.Contains(t, rec.Body.String(), "You are already enrolled in this course")
}

func TestEnroll_NotOfferedOnBooks(t *testing.T) {
	cl := newClient(t)
	rec := cl.post("/c/books/items/b1/enroll", url.Values{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRedirectBack_OnlyLocalPaths(t *testing.T) {
	cl := newClient(t)
	for _, next := range []string{"//evil.example", "https://evil.example", ""} {
		rec := cl.post("/c/books/items/b3/toggle/saved", url.Values{"next": {next}})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/c/books/items/b3", rec.Header().Get(echo.HeaderLocation), "next=%q", next)
	}
}

func TestItemGo(t *testing.T) {
	cl := newClient(t)

	rec := cl.get("/c/books/items/b1/go")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "https://theleanstartup.com", rec.Header().Get(echo.HeaderLocation))

	rec = cl.get("/c/books/items/b3/go")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItemView(t *testing.T) {
	cl := newClient(t)
	rec := cl.get("/c/books/items/b1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Eric Ries")
	assert.Contains(t, rec.Body.String(), `target="_blank" rel="noopener"`)
}

func TestAPICatalogItems_Filters(t *testing.T) {
	cl := newClient(t)

	rec := cl.get("/api/catalogs/courses/items")
	require.Equal(t, http.StatusOK, rec.Code)
	var all itemsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Equal(t, 8, all.Total)
	assert.Equal(t, 8, all.Stats.Total)

	rec = cl.get("/api/catalogs/courses/items?tab=free")
	var free itemsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &free))
	assert.Equal(t, 3, free.Total)
	assert.Equal(t, all.Stats, free.Stats, "header stats ignore filters")

	rec = cl.get("/api/catalogs/courses/items?level=expert")
	var none itemsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &none))
	assert.Equal(t, 0, none.Total)
	assert.NotNil(t, none.Items)
}

func TestAPICatalogs_AndHealthz(t *testing.T) {
	cl := newClient(t)

	rec := cl.get("/api/catalogs")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []catalogSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 8)
	assert.Equal(t, "courses", list[0].Slug)

	rec = cl.get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","catalogs":8}`, rec.Body.String())
}

func TestChecklistProgress(t *testing.T) {
	cl := newClient(t)
	for _, id := range []string{"i1", "i2", "i3", "i4"} {
		rec := cl.post("/c/stage-idea/items/"+id+"/toggle/completed", url.Values{"next": {"/c/stage-idea"}})
		require.Equal(t, http.StatusSeeOther, rec.Code)
	}

	rec := cl.get("/api/catalogs")
	var list []catalogSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	for _, s := range list {
		if s.Slug == "stage-idea" {
			require.NotNil(t, s.Progress)
			assert.Equal(t, 40, s.Progress.Percent)
		}
	}

	rec = cl.get("/c/stage-idea")
	assert.Contains(t, rec.Body.String(), "4 of 10 complete · 40%")
}

func TestCorruptCookieFallsBackToDefault(t *testing.T) {
	cl := newClient(t)
	cl.cookies["saved-books"] = &http.Cookie{Name: "saved-books", Value: "garbage"}

	rec := cl.get("/c/books?tab=saved")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nothing matches")

	rec = cl.post("/c/books/items/b4/toggle/saved", url.Values{"next": {"/c/books"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	// The write replaced the broken cookie.
	rec = cl.get("/c/books?tab=saved")
	assert.Contains(t, rec.Body.String(), `id="item-b4"`)
}

func TestPlannerFlow(t *testing.T) {
	cl := newClient(t)

	rec := cl.get("/planner")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Content ideas")

	rec = cl.post("/planner/posts", url.Values{"platform": {"twitter"}, "content": {"We are live"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/planner", rec.Header().Get(echo.HeaderLocation))

	rec = cl.post("/planner/posts", url.Values{"platform": {"twitter"}, "content": {""}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = cl.get("/planner")
	assert.Contains(t, rec.Body.String(), "Please check: content")

	bundle, err := cl.plannerBundle()
	require.NoError(t, err)
	require.Len(t, bundle.Posts, 1)
	id := bundle.Posts[0].ID

	rec = cl.post("/planner/posts/"+id+"/publish", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = cl.post("/planner/posts/"+id+"/publish", url.Values{})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = cl.post("/planner/posts/"+id, url.Values{"_method": {"DELETE"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = cl.get("/planner")
	assert.Contains(t, rec.Body.String(), "Please confirm before deleting")
	assert.Contains(t, rec.Body.String(), "We are live")

	rec = cl.post("/planner/posts/"+id, url.Values{"_method": {"DELETE"}, "confirm": {"yes"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = cl.get("/planner")
	assert.NotContains(t, rec.Body.String(), "We are live")

	rec = cl.post("/planner/posts/missing/status", url.Values{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlanner_KeepsManyLongPosts(t *testing.T) {
	cl := newClient(t)

	for i := range 20 {
		content := fmt.Sprintf("Update %d: ", i) + strings.Repeat("shipping the onboarding flow this week, ", 7)
		rec := cl.post("/planner/posts", url.Values{"platform": {"linkedin"}, "content": {content}})
		require.Equal(t, http.StatusSeeOther, rec.Code)
	}
	longest := strings.Repeat("a", models.MaxPostLength)
	rec := cl.post("/planner/posts", url.Values{"platform": {"twitter"}, "content": {longest}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = cl.get("/planner")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Post saved as draft")
	assert.Contains(t, rec.Body.String(), "Update 0: ")
	assert.Contains(t, rec.Body.String(), "Update 19: ")

	bundle, err := cl.plannerBundle()
	require.NoError(t, err)
	require.Len(t, bundle.Posts, 21)
	assert.Equal(t, longest, bundle.Posts[0].Content)

	for name, c := range cl.cookies {
		assert.Less(t, len(c.String()), 4096, name)
	}
}

func TestPlanner_FullStorageIsReported(t *testing.T) {
	cl := newClient(t)
	r := rand.New(rand.NewPCG(7, 11))
	noise := func() string {
		const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
		b := make([]byte, models.MaxPostLength)
		for i := range b {
			b[i] = letters[r.IntN(len(letters))]
		}
		return string(b)
	}

	saved := 0
	for range 40 {
		rec := cl.post("/planner/posts", url.Values{"platform": {"twitter"}, "content": {noise()}},
			"HX-Request", "true")
		require.Equal(t, http.StatusOK, rec.Code)
		if strings.Contains(rec.Body.String(), "The planner is full") {
			break
		}
		saved++
	}
	require.Less(t, saved, 40, "storage never filled up")
	assert.Positive(t, saved)

	bundle, err := cl.plannerBundle()
	require.NoError(t, err)
	assert.Len(t, bundle.Posts, saved)
}

func TestPlannerIdeas_HTMX(t *testing.T) {
	cl := newClient(t)

	rec := cl.post("/planner/ideas", url.Values{"title": {"Founder AMA"}}, "HX-Request", "true")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="planner"`)
	assert.Contains(t, body, "Founder AMA")
	assert.Contains(t, body, "Idea added")

	req := httptest.NewRequest(http.MethodDelete, "/planner/ideas/1?confirm=yes", nil)
	req.Header.Set("HX-Request", "true")
	rec = cl.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Idea deleted")
}

// plannerBundle reads the stored planner through the handler's own cookie
// store.
func (cl *client) plannerBundle() (models.PlannerBundle, error) {
	req := httptest.NewRequest(http.MethodGet, "/planner", nil)
	for _, c := range cl.cookies {
		req.AddCookie(c)
	}
	c := cl.e.NewContext(req, httptest.NewRecorder())
	return cl.h.planner.Load(req.Context(), cl.h.plannerBackend(c))
}
