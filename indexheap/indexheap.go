package indexheap

import (
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"
)

var (
	ErrNotFound     = errors.New("id not found")
	ErrDuplicateKey = errors.New("duplicate id")
)

// Number is the set of priority types a Heap orders by.
type Number interface {
	constraints.Integer | constraints.Float
}

// Element is a record stored in the heap. ID is its identity, Priority is mutable data.
type Element[K comparable, V any, P Number] struct {
	ID       K
	Value    V
	Priority P
}

// Heap is a max-heap with a position index, so any element can be found,
// re-prioritised or removed in O(log n). It is not safe for concurrent use.
type Heap[K comparable, V any, P Number] struct {
	items []Element[K, V, P] // index 0 is the root
	index map[K]int          // id -> slot in items
}

func New[K comparable, V any, P Number](size int) *Heap[K, V, P] {
	if size < 0 {
		size = 0
	}
	return &Heap[K, V, P]{
		items: make([]Element[K, V, P], 0, size),
		index: make(map[K]int, size),
	}
}

// Len returns the number of elements currently present.
func (h *Heap[K, V, P]) Len() int { return len(h.items) }

// Insert adds a new element. It fails with ErrDuplicateKey if id is already present.
func (h *Heap[K, V, P]) Insert(id K, value V, priority P) error {
	if _, exists := h.index[id]; exists {
		return fmt.Errorf("insert %v: %w", id, ErrDuplicateKey)
	}
	n := len(h.items)
	h.items = append(h.items, Element[K, V, P]{ID: id, Value: value, Priority: priority})
	h.index[id] = n
	h.up(n)
	return nil
}

// PeekMax returns the root without removing it.
func (h *Heap[K, V, P]) PeekMax() (Element[K, V, P], bool) {
	if len(h.items) == 0 {
		var zero Element[K, V, P]
		return zero, false
	}
	return h.items[0], true
}

func (h *Heap[K, V, P]) Get(id K) (Element[K, V, P], bool) {
	i, exists := h.index[id]
	if !exists {
		var zero Element[K, V, P]
		return zero, false
	}
	return h.items[i], true
}

func (h *Heap[K, V, P]) Contains(id K) bool {
	_, exists := h.index[id]
	return exists
}

// Remove deletes the element with the given id and returns it.
func (h *Heap[K, V, P]) Remove(id K) (Element[K, V, P], error) {
	i, exists := h.index[id]
	if !exists {
		var zero Element[K, V, P]
		return zero, fmt.Errorf("remove %v: %w", id, ErrNotFound)
	}

	last := len(h.items) - 1
	h.swap(i, last)
	removed := h.items[last]
	h.items[last] = Element[K, V, P]{} // avoid memory leak
	h.items = h.items[:last]
	delete(h.index, id)

	// the survivor moved into slot i may belong above or below it
	if i < len(h.items) {
		h.up(i)
		h.down(i)
	}
	return removed, nil
}

// PopMax removes and returns the root.
func (h *Heap[K, V, P]) PopMax() (Element[K, V, P], bool) {
	top, ok := h.PeekMax()
	if !ok {
		return top, false
	}
	// root is always indexed, Remove cannot fail here
	_, _ = h.Remove(top.ID)
	return top, true
}

// UpdatePriority overwrites the priority of id and restores heap order.
// The previous priority is returned so callers can report the change.
func (h *Heap[K, V, P]) UpdatePriority(id K, priority P) (old P, err error) {
	i, exists := h.index[id]
	if !exists {
		return old, fmt.Errorf("update %v: %w", id, ErrNotFound)
	}
	old = h.items[i].Priority
	h.items[i].Priority = priority
	if priority > old {
		h.up(i)
	} else {
		h.down(i)
	}
	return old, nil
}

// Clone returns an independent copy of h.
func (h *Heap[K, V, P]) Clone() *Heap[K, V, P] {
	c := &Heap[K, V, P]{
		items: make([]Element[K, V, P], len(h.items), cap(h.items)),
		index: make(map[K]int, len(h.index)),
	}
	copy(c.items, h.items)
	for id, i := range h.index {
		c.index[id] = i
	}
	return c
}

func parent(i int) int { return (i - 1) / 2 }
func left(i int) int   { return 2*i + 1 }
func right(i int) int  { return 2*i + 2 }

// swap exchanges two slots and repoints both ids in the index.
func (h *Heap[K, V, P]) swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.index[h.items[i].ID] = i
	h.index[h.items[j].ID] = j
}

func (h *Heap[K, V, P]) up(i int) {
	for i > 0 && h.items[i].Priority > h.items[parent(i)].Priority {
		h.swap(i, parent(i))
		i = parent(i)
	}
}

func (h *Heap[K, V, P]) down(i int) {
	n := len(h.items)
	for {
		largest := i
		// strict comparisons: the left child wins ties with the right one
		if l := left(i); l < n && h.items[l].Priority > h.items[largest].Priority {
			largest = l
		}
		if r := right(i); r < n && h.items[r].Priority > h.items[largest].Priority {
			largest = r
		}
		if largest == i {
			return
		}
		h.swap(i, largest)
		i = largest
	}
}
