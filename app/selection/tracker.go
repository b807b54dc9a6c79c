package selection

import (
	"context"
	"slices"

	"founder-hub/app/models"
	"founder-hub/app/notify"
	"founder-hub/app/store"
)

// Tracker is one persisted selection set, e.g. the saved books of a device.
// It holds no state itself; every call goes through the given backend.
type Tracker struct {
	Def models.TrackerDef
	key store.Key[[]string]
}

func NewTracker(def models.TrackerDef) Tracker {
	seed := slices.Clone(def.Seed)
	return Tracker{
		Def: def,
		key: store.NewKey(def.Key, func() []string { return slices.Clone(seed) }),
	}
}

// Result describes the outcome of a mutation.
type Result struct {
	Set     Set
	Added   bool
	Changed bool
	Notice  notify.Notice
}

// Load reads the set. The returned set is always usable; a non-nil error
// reports that the stored value could not be read and the default was used.
func (t Tracker) Load(ctx context.Context, b store.Backend) (Set, error) {
	ids, err := t.key.Load(ctx, b)
	return NewSet(ids...), err
}

// current loads the set for a mutation. A corrupt entry is replaced by the
// default; a failing backend aborts the mutation so nothing is overwritten.
func (t Tracker) current(ctx context.Context, b store.Backend) (Set, error) {
	set, err := t.Load(ctx, b)
	if !store.Writable(err) {
		return Set{}, err
	}
	return set, nil
}

// Toggle flips membership of id and persists the whole set immediately.
func (t Tracker) Toggle(ctx context.Context, b store.Backend, id string) (Result, error) {
	set, err := t.current(ctx, b)
	if err != nil {
		return Result{}, err
	}
	added := set.Toggle(id)

	res := Result{Set: set, Added: added, Changed: true}
	if added {
		res.Notice = notify.OK(t.Def.Added)
	} else {
		res.Notice = notify.Note(t.Def.Removed)
	}

	if err := t.key.Save(ctx, b, set.IDs()); err != nil {
		return Result{}, err
	}
	return res, nil
}

// Enroll adds id unless it is already present, in which case nothing is
// written and an informational notice is returned instead.
func (t Tracker) Enroll(ctx context.Context, b store.Backend, id string) (Result, error) {
	set, err := t.current(ctx, b)
	if err != nil {
		return Result{}, err
	}
	if set.Has(id) {
		return Result{Set: set, Notice: notify.Note(t.Def.Already)}, nil
	}

	set.Add(id)
	if err := t.key.Save(ctx, b, set.IDs()); err != nil {
		return Result{}, err
	}
	return Result{Set: set, Added: true, Changed: true, Notice: notify.OK(t.Def.Added)}, nil
}

// Apply dispatches to Toggle or Enroll according to the tracker mode.
func (t Tracker) Apply(ctx context.Context, b store.Backend, id string) (Result, error) {
	if t.Def.Mode == models.ModeEnroll {
		return t.Enroll(ctx, b, id)
	}
	return t.Toggle(ctx, b, id)
}

// Snapshot holds the loaded sets of one catalog, keyed by tracker name.
type Snapshot map[string]Set

// LoadAll reads every tracker of a catalog. Unreadable values fall back to
// their defaults; the errors are returned for logging.
func LoadAll(ctx context.Context, b store.Backend, c *models.Catalog) (Snapshot, []error) {
	snap := make(Snapshot, len(c.Trackers))
	var errs []error
	for _, def := range c.Trackers {
		set, err := NewTracker(def).Load(ctx, b)
		if err != nil {
			errs = append(errs, err)
		}
		snap[def.Name] = set
	}
	return snap, errs
}

// Has reports membership; it has the shape of filter.Membership.
func (s Snapshot) Has(tracker, id string) bool {
	set, ok := s[tracker]
	return ok && set.Has(id)
}
