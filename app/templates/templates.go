// Package templates holds the page components. Markup lives in the .templ
// files next to this one; run `templ generate` after editing them.
package templates

//go:generate templ generate

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"founder-hub/app/filter"
	"founder-hub/app/models"
	"founder-hub/app/services"
)

type navLink struct {
	href  string
	label string
}

var navLinks = []navLink{
	{href: "/c/courses", label: "Courses"},
	{href: "/c/books", label: "Books"},
	{href: "/c/resources", label: "Resources"},
	{href: "/c/templates", label: "Templates"},
	{href: "/planner", label: "Planner"},
}

func CatalogURL(slug string) string {
	return "/c/" + url.PathEscape(slug)
}

func ItemURL(slug, id string) string {
	return CatalogURL(slug) + "/items/" + url.PathEscape(id)
}

func TrackerURL(slug, id, tracker string) string {
	return ItemURL(slug, id) + "/toggle/" + url.PathEscape(tracker)
}

// FilterURL links to the catalog page with one dimension of q replaced.
func FilterURL(slug string, q filter.Query, name, value string) string {
	u := CatalogURL(slug)
	if enc := q.With(name, value).Values().Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

func plannerURL(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return "/planner/" + strings.Join(escaped, "/")
}

// isSelected treats every spelling of "all" as the same tab.
func isSelected(current, id string) bool {
	if models.IsAll(current) && models.IsAll(id) {
		return true
	}
	return current == id
}

func trackerAction(slug, id string, def models.TrackerDef) string {
	if def.Mode == models.ModeEnroll {
		return ItemURL(slug, id) + "/enroll"
	}
	return TrackerURL(slug, id, def.Name)
}

func trackerLabel(def models.TrackerDef, on bool) string {
	switch {
	case on && def.Mode == models.ModeEnroll:
		return "Enrolled"
	case on:
		return "✓ " + def.Label
	}
	return def.Label
}

// cardSummary falls back to the opening of the body for items authored
// without a description.
func cardSummary(item models.Item) string {
	if item.Description != "" {
		return item.Description
	}
	return services.Excerpt(item.Body, 160)
}

// itemMeta is the one-line summary under a card's description.
func itemMeta(cat *models.Catalog, item models.Item) string {
	parts := []string{cat.CategoryLabel(item.Category)}
	add := func(s string) {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if item.Level != "" {
		add(models.GetLevelName(item.Level))
	}
	add(item.Author)
	add(item.Instructor)
	add(item.Duration)
	if item.Lessons > 0 {
		add(strconv.Itoa(item.Lessons) + " lessons")
	}
	if item.Rating > 0 {
		add("★ " + trimZero(item.Rating))
	}
	add(formatPrice(item))
	return strings.Join(parts, " · ")
}

type fact struct {
	label string
	value string
}

func itemFacts(item models.Item) []fact {
	var out []fact
	add := func(label, value string) {
		if value != "" {
			out = append(out, fact{label: label, value: value})
		}
	}
	if item.Level != "" {
		add("Level", models.GetLevelName(item.Level))
	}
	add("Type", item.Type)
	add("Format", item.Format)
	add("Author", item.Author)
	add("Instructor", item.Instructor)
	add("Duration", item.Duration)
	if item.Lessons > 0 {
		add("Lessons", strconv.Itoa(item.Lessons))
	}
	if item.Students > 0 {
		add("Students", formatCount(item.Students))
	}
	if item.Downloads > 0 {
		add("Downloads", formatCount(item.Downloads))
	}
	if item.Rating > 0 {
		rating := "★ " + trimZero(item.Rating)
		if item.Reviews > 0 {
			rating += fmt.Sprintf(" (%d reviews)", item.Reviews)
		}
		add("Rating", rating)
	}
	add("Price", formatPrice(item))
	return out
}

func formatPrice(item models.Item) string {
	if item.Price <= 0 {
		if item.Free {
			return "Free"
		}
		return ""
	}
	p := strconv.FormatFloat(item.Price, 'f', 2, 64)
	p = strings.TrimSuffix(p, ".00")
	if item.Free {
		return fmt.Sprintf("$%s/mo · free plan", p)
	}
	return "$" + p
}

func formatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return trimZero(float64(n)/1_000_000) + "M"
	case n >= 1_000:
		return trimZero(float64(n)/1_000) + "k"
	}
	return strconv.Itoa(n)
}

func trimZero(v float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(v, 'f', 1, 64), ".0")
}
