// Package registry provides a generic index keyed record store used by all
// archive registries.
package registry

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Table stores records by an encoder assigned index. Every index can be written
// once during a decode run.
// K is the index type and T the type of record being stored.
type Table[K constraints.Unsigned, T any] struct {
	items map[K]T
}

// New creates a new empty table.
func New[K constraints.Unsigned, T any]() *Table[K, T] {
	return &Table[K, T]{
		items: make(map[K]T),
	}
}

// Get returns the item at the given index.
func (t *Table[K, T]) Get(index K) (T, bool) {
	item, ok := t.items[index]
	return item, ok
}

// Has returns whether an item exists at the given index.
func (t *Table[K, T]) Has(index K) bool {
	_, ok := t.items[index]
	return ok
}

// Insert stores the item at the given index. It returns false and leaves the
// table unchanged if the index is already taken.
func (t *Table[K, T]) Insert(index K, item T) bool {
	if _, ok := t.items[index]; ok {
		return false
	}
	t.items[index] = item
	return true
}

// Replace stores the item at the given index, overwriting any previous item.
func (t *Table[K, T]) Replace(index K, item T) {
	t.items[index] = item
}

// Len returns the number of items in the table.
func (t *Table[K, T]) Len() int {
	return len(t.items)
}

// Indices returns all used indices in ascending order.
func (t *Table[K, T]) Indices() []K {
	keys := maps.Keys(t.items)
	slices.Sort(keys)
	return keys
}

// Sorted returns all items ordered by ascending index.
func (t *Table[K, T]) Sorted() []T {
	keys := t.Indices()
	items := make([]T, 0, len(keys))
	for _, key := range keys {
		items = append(items, t.items[key])
	}
	return items
}
