// Package catalog holds the compiled-in catalogs served by the application.
// Seed data is embedded YAML, decoded and validated once at start-up.
package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"founder-hub/app/models"
	"founder-hub/app/notify"
	"founder-hub/app/planner"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var seedFS embed.FS

// Registry is the read-only set of catalogs, in declaration order.
type Registry struct {
	catalogs []*models.Catalog
	bySlug   map[string]*models.Catalog
}

// reservedKeys are device-local names owned by other features. A chunked
// value also occupies name.0, name.1 and so on.
var reservedKeys = []string{notify.SessionName, planner.StorageKey}

func reservedKey(key string) (string, bool) {
	for _, r := range reservedKeys {
		if key == r || strings.HasPrefix(key, r+".") {
			return r, true
		}
	}
	return "", false
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry built from the embedded seed data.
// The data ships with the binary, so a load failure is a programming error.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := Load(seedFS, "data")
		if err != nil {
			panic(err)
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// Load decodes every *.yaml file under dir (one catalog per file, sorted by
// file name) and validates the result.
func Load(fsys fs.FS, dir string) (*Registry, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("catalog: glob: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("catalog: no seed files in %s", dir)
	}

	catalogs := make([]*models.Catalog, 0, len(files))
	for _, name := range files {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", name, err)
		}
		c, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("catalog: decode %s: %w", name, err)
		}
		catalogs = append(catalogs, c)
	}

	return New(catalogs...)
}

// New validates the given catalogs and builds a registry over them.
func New(catalogs ...*models.Catalog) (*Registry, error) {
	v := models.NewValidator()
	reg := &Registry{
		catalogs: catalogs,
		bySlug:   make(map[string]*models.Catalog, len(catalogs)),
	}

	keys := make(map[string]string)
	for _, c := range catalogs {
		if err := Validate(v, c); err != nil {
			return nil, err
		}
		if _, dup := reg.bySlug[c.Slug]; dup {
			return nil, fmt.Errorf("catalog: duplicate slug %q", c.Slug)
		}
		reg.bySlug[c.Slug] = c

		for _, t := range c.Trackers {
			if r, ok := reservedKey(t.Key); ok {
				return nil, fmt.Errorf("catalog %s: storage key %q is reserved for %s", c.Slug, t.Key, r)
			}
			if owner, dup := keys[t.Key]; dup {
				return nil, fmt.Errorf("catalog: storage key %q used by %s and %s", t.Key, owner, c.Slug)
			}
			keys[t.Key] = c.Slug
		}
	}
	return reg, nil
}

func decode(raw []byte) (*models.Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var c models.Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Registry) Get(slug string) (*models.Catalog, bool) {
	c, ok := r.bySlug[slug]
	return c, ok
}

func (r *Registry) List() []*models.Catalog {
	return r.catalogs
}

// Validate checks the struct tags and the cross-field invariants: unique
// item ids, categories and dimension values drawn from the declared enums,
// tab rules that refer to existing trackers.
func Validate(v *validator.Validate, c *models.Catalog) error {
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("catalog %s: %w", c.Slug, err)
	}

	var errs []error
	seen := make(map[string]bool, len(c.Items))
	for _, item := range c.Items {
		if seen[item.ID] {
			errs = append(errs, fmt.Errorf("duplicate item id %q", item.ID))
		}
		seen[item.ID] = true

		if !c.HasCategory(item.Category) {
			errs = append(errs, fmt.Errorf("item %s: unknown category %q", item.ID, item.Category))
		}
		for _, d := range c.Dimensions {
			if val := item.Field(d.Field); val != "" && !d.HasOption(val) {
				errs = append(errs, fmt.Errorf("item %s: %s %q not declared", item.ID, d.Name, val))
			}
		}
	}

	for _, tab := range c.Tabs {
		if sel := tab.Rule.Selection; sel != "" {
			if _, ok := c.Tracker(sel); !ok {
				errs = append(errs, fmt.Errorf("tab %s: unknown tracker %q", tab.ID, sel))
			}
		}
	}

	for _, t := range c.Trackers {
		switch {
		case t.Mode == models.ModeToggle && t.Removed == "":
			errs = append(errs, fmt.Errorf("tracker %s: toggle needs a removed message", t.Name))
		case t.Mode == models.ModeEnroll && t.Already == "":
			errs = append(errs, fmt.Errorf("tracker %s: enroll needs an already message", t.Name))
		}
	}

	if c.IsChecklist() {
		if _, ok := c.Tracker(models.TrackerCompleted); !ok {
			errs = append(errs, errors.New("checklist without a completed tracker"))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog %s: %w", c.Slug, errors.Join(errs...))
	}
	return nil
}
