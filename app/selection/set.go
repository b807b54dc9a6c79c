// Package selection tracks a device's relationship to catalog items (saved,
// enrolled, read, completed) as persisted sets of item ids.
package selection

import "slices"

// Set is an insertion-ordered set of item ids.
type Set struct {
	ids []string
}

func NewSet(ids ...string) Set {
	var s Set
	for _, id := range ids {
		if id != "" && !s.Has(id) {
			s.ids = append(s.ids, id)
		}
	}
	return s
}

func (s Set) Has(id string) bool {
	return slices.Contains(s.ids, id)
}

func (s Set) Len() int {
	return len(s.ids)
}

// IDs returns a copy of the ids in insertion order, never nil.
func (s Set) IDs() []string {
	return append([]string{}, s.ids...)
}

// Toggle removes id when present and appends it otherwise. It reports
// whether id is in the set afterwards.
func (s *Set) Toggle(id string) bool {
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(slices.Clone(s.ids), i, i+1)
		return false
	}
	s.ids = append(slices.Clone(s.ids), id)
	return true
}

// Add inserts id and reports whether it was new.
func (s *Set) Add(id string) bool {
	if s.Has(id) {
		return false
	}
	s.ids = append(slices.Clone(s.ids), id)
	return true
}
