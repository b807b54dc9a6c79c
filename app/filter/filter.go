// Package filter reduces catalog sequences by search text, category,
// secondary dimensions and the active tab. Every dimension is a predicate and
// predicates combine with logical AND; results keep the input order.
package filter

// Predicate reports whether an item stays in the result.
type Predicate[T any] func(T) bool

// Apply returns the items accepted by every predicate, in their original
// order. The result is a fresh slice and is never nil.
func Apply[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matches(item, preds) {
			out = append(out, item)
		}
	}
	return out
}

// And folds predicates into one.
func And[T any](preds ...Predicate[T]) Predicate[T] {
	return func(item T) bool { return matches(item, preds) }
}

// Nothing rejects every item. Used for filter values the catalog never declared.
func Nothing[T any]() Predicate[T] {
	return func(T) bool { return false }
}

func matches[T any](item T, preds []Predicate[T]) bool {
	for _, p := range preds {
		if p != nil && !p(item) {
			return false
		}
	}
	return true
}
