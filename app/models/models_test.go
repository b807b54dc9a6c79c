package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemField(t *testing.T) {
	item := Item{Level: LevelBeginner, Type: "guide", Format: "pdf"}
	assert.Equal(t, "beginner", item.Field("level"))
	assert.Equal(t, "guide", item.Field("type"))
	assert.Equal(t, "pdf", item.Field("format"))
	assert.Equal(t, "", item.Field("color"))
}

func TestItemFlag(t *testing.T) {
	item := Item{Featured: true, Free: true}
	assert.True(t, item.Flag(FlagFeatured))
	assert.True(t, item.Flag(FlagFree))
	assert.False(t, item.Flag(FlagPopular))
	assert.False(t, item.Flag("bogus"))
}

func TestItemIsExternal(t *testing.T) {
	assert.True(t, Item{Href: "https://example.com"}.IsExternal())
	assert.False(t, Item{Href: "/c/books"}.IsExternal())
	assert.False(t, Item{}.IsExternal())
}

func TestCatalogLookups(t *testing.T) {
	c := &Catalog{
		Kind:       KindChecklist,
		Categories: []Option{{ID: "legal", Label: "Legal"}},
		Dimensions: []Dimension{{Name: "level", Field: "level", Options: []Option{{ID: LevelAdvanced, Label: "Advanced"}}}},
		Tabs:       []Tab{{ID: "saved", Rule: TabRule{Selection: TrackerSaved}}},
		Trackers:   []TrackerDef{{Name: TrackerCompleted, Key: "k"}},
		Items:      []Item{{ID: "a", Title: "A"}},
	}

	item, ok := c.ByID("a")
	assert.True(t, ok)
	assert.Equal(t, "A", item.Title)
	_, ok = c.ByID("z")
	assert.False(t, ok)

	assert.True(t, c.HasCategory("legal"))
	assert.Equal(t, "Legal", c.CategoryLabel("legal"))
	assert.Equal(t, "other", c.CategoryLabel("other"))

	d, ok := c.Dimension("level")
	assert.True(t, ok)
	assert.True(t, d.HasOption(LevelAdvanced))
	assert.False(t, d.HasOption(LevelBeginner))

	_, ok = c.Tab("saved")
	assert.True(t, ok)
	_, ok = c.Tracker(TrackerCompleted)
	assert.True(t, ok)
	assert.True(t, c.IsChecklist())
}

func TestIsAll(t *testing.T) {
	assert.True(t, IsAll(""))
	assert.True(t, IsAll(All))
	assert.False(t, IsAll("beginner"))
	assert.Equal(t, "LinkedIn", GetPlatformName(PlatformLinkedIn))
	assert.True(t, IsValidPlatform(PlatformFacebook))
	assert.False(t, IsValidPlatform("myspace"))
}
