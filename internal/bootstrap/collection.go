package bootstrap

import "github.com/leapstack-labs/sqllab/pkg/core"

// collection is an insertion-ordered set of entities keyed by id.
type collection[T any] struct {
	order []core.ID
	items map[core.ID]T
}

func newCollection[T any]() collection[T] {
	return collection[T]{items: make(map[core.ID]T)}
}

func (c collection[T]) get(id core.ID) (T, bool) {
	v, ok := c.items[id]
	return v, ok
}

// put inserts or replaces the entity stored under id. Replacing keeps the
// original position.
func (c *collection[T]) put(id core.ID, v T) {
	if _, ok := c.items[id]; !ok {
		c.order = append(c.order, id)
	}
	c.items[id] = v
}

func (c collection[T]) clone() collection[T] {
	cp := collection[T]{
		order: make([]core.ID, len(c.order)),
		items: make(map[core.ID]T, len(c.items)),
	}
	copy(cp.order, c.order)
	for k, v := range c.items {
		cp.items[k] = v
	}
	return cp
}

func (c collection[T]) len() int {
	return len(c.order)
}

// values returns the entities in insertion order. Never nil.
func (c collection[T]) values() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}
