package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"founder-hub/app/catalog"
	"founder-hub/app/filter"
	"founder-hub/app/models"
	"founder-hub/app/notify"
	"founder-hub/app/selection"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func booksPage(t *testing.T, q filter.Query, snap selection.Snapshot) CatalogPage {
	t.Helper()
	books, ok := catalog.Default().Get("books")
	require.True(t, ok)
	return CatalogPage{
		Catalog:  books,
		Query:    q,
		Items:    filter.Items(books, q, snap.Has),
		Stats:    catalog.Compute(books.Items),
		Snapshot: snap,
		Path:     "/c/books",
	}
}

func TestLayout_WrapsContentAndNotices(t *testing.T) {
	out := renderString(t, Layout("Books", "/c/books",
		[]notify.Notice{notify.OK("Saved!")},
		templ.Raw("<p>inner</p>")))

	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "<title>Books · Founder Hub</title>")
	assert.Contains(t, out, `<a href="/c/books" aria-current="page">Books</a>`)
	assert.Contains(t, out, `<a href="/c/courses">Courses</a>`)
	assert.Contains(t, out, "<p>inner</p>")
	assert.Contains(t, out, `toast-success`)
	assert.Contains(t, out, "Saved!")
}

func TestCatalog_EmptyState(t *testing.T) {
	page := booksPage(t, filter.Query{Search: "no such book anywhere"}, selection.Snapshot{})
	out := renderString(t, CatalogGrid(page))
	assert.Contains(t, out, "Nothing matches")
	assert.Contains(t, out, `href="/c/books"`)
}

func TestCatalog_CardsAndTrackers(t *testing.T) {
	snap := selection.Snapshot{models.TrackerSaved: selection.NewSet("b1")}
	page := booksPage(t, filter.Query{}, snap)
	out := renderString(t, Catalog(page))

	assert.Contains(t, out, `id="item-b1"`)
	assert.Contains(t, out, `action="/c/books/items/b1/toggle/saved"`)
	assert.Contains(t, out, `aria-pressed="true"`)
	assert.Contains(t, out, `target="_blank" rel="noopener"`)
	assert.NotContains(t, out, "Nothing matches")
}

func TestItemDetail(t *testing.T) {
	courses, _ := catalog.Default().Get("courses")
	item, ok := courses.ByID("2")
	require.True(t, ok)

	out := renderString(t, ItemDetail(ItemPage{
		Catalog:  courses,
		Item:     item,
		Snapshot: selection.Snapshot{models.TrackerEnrolled: selection.NewSet("2")},
		Path:     "/c/courses/items/2",
	}))
	assert.Contains(t, out, item.Title)
	assert.Contains(t, out, `action="/c/courses/items/2/enroll"`)
	assert.Contains(t, out, "Enrolled")
}

func TestPlanner(t *testing.T) {
	out := renderString(t, Planner(PlannerPage{
		Bundle: models.PlannerBundle{
			Posts: []models.Post{
				{ID: "1", Platform: "twitter", Content: "Hello", Status: models.StatusPublished,
					Metrics: &models.Metrics{Likes: 60, Views: 1200, EngagementRate: 5}},
				{ID: "2", Platform: "linkedin", Content: "Draft", Status: models.StatusDraft},
			},
			Ideas: []models.Idea{{ID: "9", Title: "AMA", Used: true}},
		},
		Platforms: PlatformOptions(),
	}))
	assert.Contains(t, out, "1.2k views")
	assert.Contains(t, out, `action="/planner/posts/2/publish"`)
	assert.NotContains(t, out, `action="/planner/posts/1/publish"`)
	assert.Contains(t, out, "AMA")
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "Free", formatPrice(models.Item{Free: true}))
	assert.Equal(t, "", formatPrice(models.Item{}))
	assert.Equal(t, "$10", formatPrice(models.Item{Price: 10}))
	assert.Equal(t, "$12.50", formatPrice(models.Item{Price: 12.5}))
	assert.Equal(t, "$13/mo · free plan", formatPrice(models.Item{Price: 13, Free: true}))

	assert.Equal(t, "950", formatCount(950))
	assert.Equal(t, "12k", formatCount(12000))
	assert.Equal(t, "1.5M", formatCount(1_500_000))
}

func TestFilterURL(t *testing.T) {
	q := filter.Query{Search: "lean"}
	assert.Equal(t, "/c/books?category=strategy&q=lean", FilterURL("books", q, "category", "strategy"))
	assert.Equal(t, "/c/books", FilterURL("books", filter.Query{}, "tab", "all"))
}

func TestProgressBar_OutOfBand(t *testing.T) {
	p := selection.ChecklistProgress{Completed: 4, Total: 10, Percent: 40}

	out := renderString(t, ProgressBar(p))
	assert.Contains(t, out, `id="progress"`)
	assert.Contains(t, out, `hx-swap-oob="true"`)
	assert.Contains(t, out, `value="40"`)
	assert.Contains(t, out, "4 of 10 complete · 40%")

	inline := renderString(t, progressBar(p, false))
	assert.NotContains(t, inline, "hx-swap-oob")
}

func TestTrackerHelpers(t *testing.T) {
	saved := models.TrackerDef{Name: models.TrackerSaved, Mode: models.ModeToggle, Label: "Save"}
	enroll := models.TrackerDef{Name: models.TrackerEnrolled, Mode: models.ModeEnroll, Label: "Enroll"}

	assert.Equal(t, "/c/books/items/b1/toggle/saved", trackerAction("books", "b1", saved))
	assert.Equal(t, "/c/courses/items/2/enroll", trackerAction("courses", "2", enroll))

	assert.Equal(t, "Save", trackerLabel(saved, false))
	assert.Equal(t, "✓ Save", trackerLabel(saved, true))
	assert.Equal(t, "Enroll", trackerLabel(enroll, false))
	assert.Equal(t, "Enrolled", trackerLabel(enroll, true))
}

func TestItemMetaAndFacts(t *testing.T) {
	books, ok := catalog.Default().Get("books")
	require.True(t, ok)
	item := models.Item{
		Category: books.Categories[0].ID,
		Author:   "Eric Ries",
		Rating:   4.5,
		Reviews:  120,
		Price:    18,
	}

	meta := itemMeta(books, item)
	assert.Equal(t, books.Categories[0].Label+" · Eric Ries · ★ 4.5 · $18", meta)

	facts := itemFacts(item)
	require.Len(t, facts, 3)
	assert.Equal(t, fact{label: "Rating", value: "★ 4.5 (120 reviews)"}, facts[1])
}

func TestCardSummary_FallsBackToBody(t *testing.T) {
	assert.Equal(t, "Short", cardSummary(models.Item{Description: "Short", Body: "Long body"}))
	assert.Equal(t, "Opening paragraph", cardSummary(models.Item{Body: "Opening **paragraph**\n\nMore."}))
}
