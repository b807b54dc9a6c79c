package filter

import (
	"net/url"
	"slices"
	"strings"

	"founder-hub/app/models"
)

// Membership answers whether id belongs to the named selection set
// (saved, enrolled, read, completed) of the current device.
type Membership func(tracker, id string) bool

// Query is the live filter state of a catalog page.
type Query struct {
	Search   string            `json:"search,omitempty"`
	Category string            `json:"category,omitempty"`
	Facets   map[string]string `json:"facets,omitempty"`
	Tab      string            `json:"tab,omitempty"`
}

// FromValues reads q, category, tab and one parameter per declared dimension.
func FromValues(c *models.Catalog, vals url.Values) Query {
	q := Query{
		Search:   vals.Get("q"),
		Category: strings.TrimSpace(vals.Get("category")),
		Tab:      strings.TrimSpace(vals.Get("tab")),
	}
	for _, d := range c.Dimensions {
		if v := strings.TrimSpace(vals.Get(d.Name)); !models.IsAll(v) {
			if q.Facets == nil {
				q.Facets = make(map[string]string)
			}
			q.Facets[d.Name] = v
		}
	}
	return q
}

// Values is the inverse of FromValues, omitting unconstrained dimensions.
func (q Query) Values() url.Values {
	vals := url.Values{}
	if s := strings.TrimSpace(q.Search); s != "" {
		vals.Set("q", s)
	}
	if !models.IsAll(q.Category) {
		vals.Set("category", q.Category)
	}
	if !models.IsAll(q.Tab) {
		vals.Set("tab", q.Tab)
	}
	for name, v := range q.Facets {
		if !models.IsAll(v) {
			vals.Set(name, v)
		}
	}
	return vals
}

// With returns a copy of q with one dimension changed. Used to build filter links.
func (q Query) With(name, value string) Query {
	out := q
	out.Facets = make(map[string]string, len(q.Facets)+1)
	for k, v := range q.Facets {
		out.Facets[k] = v
	}
	switch name {
	case "q":
		out.Search = value
	case "category":
		out.Category = value
	case "tab":
		out.Tab = value
	default:
		out.Facets[name] = value
	}
	return out
}

// Facet returns the selected value for a dimension, or "all".
func (q Query) Facet(name string) string {
	if v := q.Facets[name]; !models.IsAll(v) {
		return v
	}
	return models.All
}

// IsZero reports whether no dimension is constrained.
func (q Query) IsZero() bool {
	return len(q.Values()) == 0
}

// Predicates translates q into item predicates for catalog c.
func (q Query) Predicates(c *models.Catalog, member Membership) []Predicate[models.Item] {
	preds := []Predicate[models.Item]{Search(q.Search, c.SearchTags)}

	if !models.IsAll(q.Category) {
		preds = append(preds, Category(q.Category))
	}

	for name, value := range q.Facets {
		if models.IsAll(value) {
			continue
		}
		d, ok := c.Dimension(name)
		if !ok {
			preds = append(preds, Nothing[models.Item]())
			continue
		}
		preds = append(preds, Field(d.Field, value))
	}

	if !models.IsAll(q.Tab) {
		tab, ok := c.Tab(q.Tab)
		if !ok {
			preds = append(preds, Nothing[models.Item]())
		} else {
			preds = append(preds, TabRule(tab.Rule, member))
		}
	}
	return preds
}

// Items filters the catalog by q.
func Items(c *models.Catalog, q Query, member Membership) []models.Item {
	return Apply(c.Items, q.Predicates(c, member)...)
}

// Search matches text case-insensitively against title and description, and
// against tags when withTags is set. Blank text matches everything.
func Search(text string, withTags bool) Predicate[models.Item] {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return nil
	}
	return func(item models.Item) bool {
		if strings.Contains(strings.ToLower(item.Title), needle) ||
			strings.Contains(strings.ToLower(item.Description), needle) {
			return true
		}
		if withTags {
			for _, tag := range item.Tags {
				if strings.Contains(strings.ToLower(tag), needle) {
					return true
				}
			}
		}
		return false
	}
}

// Category matches the exact category id. An id the catalog never declared
// simply matches nothing.
func Category(id string) Predicate[models.Item] {
	return func(item models.Item) bool { return item.Category == id }
}

// Field matches a classification attribute (level, type, format).
func Field(field, value string) Predicate[models.Item] {
	return func(item models.Item) bool { return item.Field(field) == value }
}

// Flag matches items with a promotional or commerce flag set.
func Flag(name string) Predicate[models.Item] {
	return func(item models.Item) bool { return item.Flag(name) }
}

// TabRule turns a tab definition into a predicate.
func TabRule(rule models.TabRule, member Membership) Predicate[models.Item] {
	var preds []Predicate[models.Item]
	if rule.Flag != "" {
		preds = append(preds, Flag(rule.Flag))
	}
	if rule.Selection != "" {
		if member == nil {
			return Nothing[models.Item]()
		}
		sel := rule.Selection
		preds = append(preds, func(item models.Item) bool { return member(sel, item.ID) })
	}
	if len(rule.Types) > 0 {
		types := rule.Types
		preds = append(preds, func(item models.Item) bool { return slices.Contains(types, item.Type) })
	}
	return And(preds...)
}
