package models

import "strings"

// Option is one value of an enum declared alongside a catalog.
type Option struct {
	ID    string `json:"id" yaml:"id" validate:"required"`
	Label string `json:"label" yaml:"label" validate:"required"`
}

// Dimension is a secondary filter such as level, type or format.
// Field names the Item attribute the dimension constrains.
type Dimension struct {
	Name    string   `json:"name" yaml:"name" validate:"required"`
	Label   string   `json:"label" yaml:"label" validate:"required"`
	Field   string   `json:"field" yaml:"field" validate:"required,itemfield"`
	Options []Option `json:"options" yaml:"options" validate:"required,min=1,dive"`
}

func (d Dimension) HasOption(id string) bool {
	for _, o := range d.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// TabRule is the extra predicate a tab adds. The zero rule matches everything.
type TabRule struct {
	Flag      string   `json:"flag,omitempty" yaml:"flag,omitempty" validate:"omitempty,flag"`
	Selection string   `json:"selection,omitempty" yaml:"selection,omitempty"`
	Types     []string `json:"types,omitempty" yaml:"types,omitempty"`
}

type Tab struct {
	ID    string  `json:"id" yaml:"id" validate:"required"`
	Label string  `json:"label" yaml:"label" validate:"required"`
	Rule  TabRule `json:"rule" yaml:"rule"`
}

// TrackerDef declares a locally persisted id set attached to a catalog.
type TrackerDef struct {
	Name    string   `json:"name" yaml:"name" validate:"required"`
	Key     string   `json:"key" yaml:"key" validate:"required"`
	Mode    string   `json:"mode" yaml:"mode" validate:"required,mode"`
	Label   string   `json:"label" yaml:"label" validate:"required"`
	Added   string   `json:"added" yaml:"added" validate:"required"`
	Removed string   `json:"removed,omitempty" yaml:"removed,omitempty"`
	Already string   `json:"already,omitempty" yaml:"already,omitempty"`
	Seed    []string `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// Item is one catalog record. Not every catalog uses every field.
// Free and Price are authored independently and never reconciled.
type Item struct {
	ID          string   `json:"id" yaml:"id" validate:"required"`
	Title       string   `json:"title" yaml:"title" validate:"required"`
	Description string   `json:"description" yaml:"description"`
	Body        string   `json:"body,omitempty" yaml:"body,omitempty"`
	Category    string   `json:"category" yaml:"category" validate:"required"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	Level  string `json:"level,omitempty" yaml:"level,omitempty" validate:"omitempty,level"`
	Type   string `json:"type,omitempty" yaml:"type,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	Author     string `json:"author,omitempty" yaml:"author,omitempty"`
	Instructor string `json:"instructor,omitempty" yaml:"instructor,omitempty"`
	Duration   string `json:"duration,omitempty" yaml:"duration,omitempty"`

	Price float64 `json:"price" yaml:"price" validate:"gte=0"`
	Free  bool    `json:"free" yaml:"free"`

	Rating    float64 `json:"rating,omitempty" yaml:"rating,omitempty" validate:"gte=0,lte=5"`
	Reviews   int     `json:"reviews,omitempty" yaml:"reviews,omitempty" validate:"gte=0"`
	Students  int     `json:"students,omitempty" yaml:"students,omitempty" validate:"gte=0"`
	Downloads int     `json:"downloads,omitempty" yaml:"downloads,omitempty" validate:"gte=0"`
	Lessons   int     `json:"lessons,omitempty" yaml:"lessons,omitempty" validate:"gte=0"`

	Featured bool `json:"featured,omitempty" yaml:"featured,omitempty"`
	Popular  bool `json:"popular,omitempty" yaml:"popular,omitempty"`
	New      bool `json:"new,omitempty" yaml:"new,omitempty"`

	Href string `json:"href,omitempty" yaml:"href,omitempty"`
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Field returns the value of a classification attribute by name.
func (i Item) Field(name string) string {
	switch name {
	case "level":
		return i.Level
	case "type":
		return i.Type
	case "format":
		return i.Format
	}
	return ""
}

// Flag reports a promotional or commerce flag by name.
func (i Item) Flag(name string) bool {
	switch name {
	case FlagFeatured:
		return i.Featured
	case FlagPopular:
		return i.Popular
	case FlagNew:
		return i.New
	case FlagFree:
		return i.Free
	}
	return false
}

// IsExternal reports whether Href leaves the application.
func (i Item) IsExternal() bool {
	return strings.HasPrefix(i.Href, "http://") || strings.HasPrefix(i.Href, "https://")
}

type Catalog struct {
	Slug        string       `json:"slug" yaml:"slug" validate:"required"`
	Title       string       `json:"title" yaml:"title" validate:"required"`
	Kind        string       `json:"kind" yaml:"kind" validate:"required,kind"`
	Description string       `json:"description" yaml:"description"`
	SearchTags  bool         `json:"search_tags" yaml:"search_tags"`
	Categories  []Option     `json:"categories" yaml:"categories" validate:"required,min=1,dive"`
	Dimensions  []Dimension  `json:"dimensions,omitempty" yaml:"dimensions,omitempty" validate:"dive"`
	Tabs        []Tab        `json:"tabs,omitempty" yaml:"tabs,omitempty" validate:"dive"`
	Trackers    []TrackerDef `json:"trackers,omitempty" yaml:"trackers,omitempty" validate:"dive"`
	Items       []Item       `json:"items" yaml:"items" validate:"required,min=1,dive"`
}

// ByID looks an item up by id. Catalogs are small, a scan is enough.
func (c *Catalog) ByID(id string) (Item, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

func (c *Catalog) HasCategory(id string) bool {
	for _, o := range c.Categories {
		if o.ID == id {
			return true
		}
	}
	return false
}

func (c *Catalog) CategoryLabel(id string) string {
	for _, o := range c.Categories {
		if o.ID == id {
			return o.Label
		}
	}
	return id
}

func (c *Catalog) Dimension(name string) (Dimension, bool) {
	for _, d := range c.Dimensions {
		if d.Name == name {
			return d, true
		}
	}
	return Dimension{}, false
}

func (c *Catalog) Tab(id string) (Tab, bool) {
	for _, t := range c.Tabs {
		if t.ID == id {
			return t, true
		}
	}
	return Tab{}, false
}

func (c *Catalog) Tracker(name string) (TrackerDef, bool) {
	for _, t := range c.Trackers {
		if t.Name == name {
			return t, true
		}
	}
	return TrackerDef{}, false
}

// IsChecklist reports whether the catalog tracks completion progress.
func (c *Catalog) IsChecklist() bool {
	return c.Kind == KindChecklist
}
