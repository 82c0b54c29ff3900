// Package reconcile merges collections fetched from the backend with the
// collections held locally.
//
// An entity's identity is its durable ID when it has one and its local ID
// otherwise (see models.Identity). Merge lets the backend win for every
// identity it returns and keeps local entities it does not know about:
//
//	merged = incoming ++ (current entities whose identity is not in incoming)
//
// Merge is pure and idempotent, so overlapping refreshes may apply their
// results in any order without coordination.
package reconcile

import "github.com/WAVY91/front-project/internal/client/models"

// Keyed is any entity with a computed identity.
type Keyed interface {
	Key() models.Identity
}

// Merge returns incoming followed by the entities of current whose identity
// does not occur in incoming. Both inputs are left unmodified. Duplicate
// identities inside incoming are kept as given.
func Merge[T Keyed](incoming, current []T) []T {
	seen := make(map[models.Identity]struct{}, len(incoming))
	for _, e := range incoming {
		seen[e.Key()] = struct{}{}
	}

	merged := make([]T, 0, len(incoming)+len(current))
	merged = append(merged, incoming...)
	for _, e := range current {
		if _, ok := seen[e.Key()]; ok {
			continue
		}
		merged = append(merged, e)
	}
	return merged
}

// Upsert replaces the entity with the same identity as e by merge(old, e),
// or appends e when there is none. The returned bool is true when an
// existing entity was updated. list is not modified.
func Upsert[T Keyed](list []T, e T, merge func(old, patch T) T) ([]T, bool) {
	key := e.Key()
	out := make([]T, len(list), len(list)+1)
	copy(out, list)

	if !key.IsZero() {
		for i, old := range out {
			if old.Key().Equal(key) {
				out[i] = merge(old, e)
				return out, true
			}
		}
	}
	return append(out, e), false
}

// NextLocalID returns one more than the largest local ID in list.
func NextLocalID[T any](list []T, local func(T) int64) int64 {
	var max int64
	for _, e := range list {
		if n := local(e); n > max {
			max = n
		}
	}
	return max + 1
}

// Remove drops every entity for which match is true.
func Remove[T any](list []T, match func(T) bool) ([]T, int) {
	out := make([]T, 0, len(list))
	for _, e := range list {
		if !match(e) {
			out = append(out, e)
		}
	}
	return out, len(list) - len(out)
}
