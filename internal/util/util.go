// Package util contains small generic helpers shared by the other packages in
// the module.
package util

import (
	"sort"
)

// OrderedKeys returns the keys of m, ordered a particular way. The order is
// guaranteed to be the same on every run.
//
// As of this writing, the order is alphabetical, but this function does not
// guarantee this will always be the case.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// CustomComparable is an interface for items that may be checked against
// arbitrary other objects. In practice most will attempt to typecast to their
// own type and immediately return false if the argument is not the same, but in
// theory this allows for comparison to multiple types of things.
type CustomComparable interface {
	Equal(other any) bool
}

// EqualSlices checks that the two slices contain the same items in the same
// order. Equality of items is checked by calling the custom Equal function on
// each element of sl1 with the element of sl2 at the same index.
func EqualSlices[T CustomComparable](sl1 []T, sl2 []T) bool {
	if len(sl1) != len(sl2) {
		return false
	}

	for i := range sl1 {
		if !sl1[i].Equal(sl2[i]) {
			return false
		}
	}

	return true
}

// InSlice returns whether s is in the given slice.
func InSlice[E comparable](s E, slice []E) bool {
	for i := range slice {
		if slice[i] == s {
			return true
		}
	}
	return false
}

// SortBy returns a sorted copy of items, using the provided less function to
// order them. The original slice is not modified.
func SortBy[E any](items []E, less func(left, right E) bool) []E {
	sorted := make([]E, len(items))
	copy(sorted, items)

	sort.Slice(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	return sorted
}

// SliceRemove returns a copy of slice with every occurrence of s removed.
func SliceRemove[E comparable](s E, slice []E) []E {
	var updated []E
	for i := range slice {
		if slice[i] != s {
			updated = append(updated, slice[i])
		}
	}
	return updated
}
