package filter

import (
	"net/url"
	"testing"

	"founder-hub/app/catalog"
	"founder-hub/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(items []models.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func greek() *models.Catalog {
	return &models.Catalog{
		Slug:       "greek",
		Categories: []models.Option{{ID: "x", Label: "X"}, {ID: "y", Label: "Y"}},
		Dimensions: []models.Dimension{
			{Name: "level", Field: "level", Options: []models.Option{{ID: "beginner"}, {ID: "advanced"}}},
			{Name: "type", Field: "type", Options: []models.Option{{ID: "guide"}, {ID: "tool"}, {ID: "course"}}},
		},
		Tabs: []models.Tab{
			{ID: "all"},
			{ID: "featured", Rule: models.TabRule{Flag: models.FlagFeatured}},
			{ID: "saved", Rule: models.TabRule{Selection: models.TrackerSaved}},
			{ID: "learning", Rule: models.TabRule{Types: []string{"guide", "course"}}},
		},
		Items: []models.Item{
			{ID: "1", Title: "Alpha", Description: "first letter", Category: "x", Level: "beginner", Type: "guide", Featured: true},
			{ID: "2", Title: "Beta", Description: "second letter", Category: "y", Level: "advanced", Type: "tool", Tags: []string{"almanac"}},
			{ID: "3", Title: "Gamma", Description: "third letter", Category: "x", Level: "advanced", Type: "course"},
		},
	}
}

func savedSet(saved ...string) Membership {
	return func(tracker, id string) bool {
		if tracker != models.TrackerSaved {
			return false
		}
		for _, s := range saved {
			if s == id {
				return true
			}
		}
		return false
	}
}

func TestApply_StableAndNeverNil(t *testing.T) {
	items := []int{5, 1, 4, 2, 3}
	even := func(n int) bool { return n%2 == 0 }

	assert.Equal(t, []int{4, 2}, Apply(items, even))

	none := Apply(items, Nothing[int]())
	require.NotNil(t, none)
	assert.Empty(t, none)

	assert.Equal(t, items, Apply(items))
}

func TestItems_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	c := greek()
	got := Items(c, Query{Search: "al"}, nil)
	assert.Equal(t, []string{"1"}, ids(got))

	got = Items(c, Query{Search: "  LETTER "}, nil)
	assert.Equal(t, []string{"1", "2", "3"}, ids(got))
}

func TestItems_SearchTagsOnlyWhenEnabled(t *testing.T) {
	c := greek()
	assert.Empty(t, Items(c, Query{Search: "almanac"}, nil))

	c.SearchTags = true
	assert.Equal(t, []string{"2"}, ids(Items(c, Query{Search: "almanac"}, nil)))
}

func TestItems_Dimensions(t *testing.T) {
	c := greek()
	member := savedSet("3", "2")

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"category", Query{Category: "x"}, []string{"1", "3"}},
		{"category all", Query{Category: "all"}, []string{"1", "2", "3"}},
		{"level", Query{Facets: map[string]string{"level": "advanced"}}, []string{"2", "3"}},
		{"category and level", Query{Category: "x", Facets: map[string]string{"level": "advanced"}}, []string{"3"}},
		{"type all", Query{Facets: map[string]string{"type": "all"}}, []string{"1", "2", "3"}},
		{"featured tab", Query{Tab: "featured"}, []string{"1"}},
		{"saved tab keeps catalog order", Query{Tab: "saved"}, []string{"2", "3"}},
		{"composite type tab", Query{Tab: "learning"}, []string{"1", "3"}},
		{"all tab", Query{Tab: "all"}, []string{"1", "2", "3"}},
		{"everything combined", Query{Search: "a", Category: "x", Tab: "saved", Facets: map[string]string{"type": "course"}}, []string{"3"}},
		{"unknown category", Query{Category: "z"}, []string{}},
		{"unknown level value", Query{Facets: map[string]string{"level": "expert"}}, []string{}},
		{"unknown dimension", Query{Facets: map[string]string{"colour": "red"}}, []string{}},
		{"unknown tab", Query{Tab: "archived"}, []string{}},
		{"no results", Query{Search: "zeta"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ids(Items(c, tt.q, member)))
		})
	}
}

func TestItems_SelectionTabWithoutState(t *testing.T) {
	assert.Empty(t, Items(greek(), Query{Tab: "saved"}, nil))
}

func TestItems_IdentityWhenUnconstrained(t *testing.T) {
	for _, c := range catalog.Default().List() {
		q := Query{Category: models.All, Tab: models.All, Facets: map[string]string{"level": models.All}}
		got := Items(c, q, nil)
		assert.Equal(t, c.Items, got, c.Slug)
	}
}

func TestItems_Idempotent(t *testing.T) {
	member := savedSet("1", "3", "r1", "r4", "b2")
	queries := []Query{
		{Search: "a"},
		{Category: "x", Tab: "saved"},
		{Facets: map[string]string{"level": "advanced"}, Search: "e"},
		{Tab: "learning"},
		{Tab: "featured", Search: "guide"},
	}

	catalogs := append([]*models.Catalog{greek()}, catalog.Default().List()...)
	for _, c := range catalogs {
		for _, q := range queries {
			once := Items(c, q, member)
			preds := q.Predicates(c, member)
			twice := Apply(once, preds...)
			assert.Equal(t, once, twice, "%s %+v", c.Slug, q)
		}
	}
}

func TestItems_HeaderStatsIgnoreFilters(t *testing.T) {
	c, _ := catalog.Default().Get("courses")
	before := catalog.Compute(c.Items)

	for _, q := range []Query{
		{Search: "marketing"},
		{Category: "fundraising", Tab: "free"},
		{Facets: map[string]string{"level": "advanced"}},
		{Tab: "enrolled"},
	} {
		visible := Items(c, q, savedSet())
		assert.LessOrEqual(t, len(visible), len(c.Items))
		assert.Equal(t, before, catalog.Compute(c.Items))
	}
}

func TestFromValues_RoundTrip(t *testing.T) {
	c := greek()
	vals := url.Values{
		"q":        {"alpha"},
		"category": {"x"},
		"level":    {"beginner"},
		"type":     {"all"},
		"tab":      {"featured"},
		"colour":   {"red"},
	}

	q := FromValues(c, vals)
	assert.Equal(t, "alpha", q.Search)
	assert.Equal(t, "x", q.Category)
	assert.Equal(t, "featured", q.Tab)
	assert.Equal(t, map[string]string{"level": "beginner"}, q.Facets, "undeclared and all-valued params are dropped")
	assert.Equal(t, "beginner", q.Facet("level"))
	assert.Equal(t, models.All, q.Facet("type"))

	back := q.Values()
	assert.Equal(t, "alpha", back.Get("q"))
	assert.Equal(t, "beginner", back.Get("level"))
	assert.False(t, back.Has("type"))
	assert.False(t, q.IsZero())
	assert.True(t, Query{Category: "all"}.IsZero())
}

func TestQuery_WithDoesNotMutate(t *testing.T) {
	q := Query{Facets: map[string]string{"level": "beginner"}}
	next := q.With("level", "advanced").With("tab", "saved")

	assert.Equal(t, "beginner", q.Facets["level"])
	assert.Equal(t, "advanced", next.Facets["level"])
	assert.Equal(t, "saved", next.Tab)
	assert.Empty(t, q.Tab)
}
