// Package indexheap implements a max-heap augmented with a position index.
//
// Besides the usual insert and peek, the index maps every id to its current
// slot in the backing array, which lets Remove and UpdatePriority reach an
// arbitrary element in O(1) and restore heap order in O(log n).
//
// Elements are stored by value; the index holds plain slot numbers and is
// repaired on every swap, so both structures always describe the same set of
// ids. A Heap is not safe for concurrent use: callers sharing one across
// goroutines must serialise every call with a single lock.
//
//	h := indexheap.New[int, string, int](4)
//	_ = h.Insert(1, "alice", 100)
//	_ = h.Insert(2, "bob", 500)
//	top, _ := h.PeekMax() // bob
//	_, _ = h.UpdatePriority(1, 850)
//	top, _ = h.PeekMax() // alice
//
// Lookups of absent ids return ErrNotFound; inserting a present id returns
// ErrDuplicateKey. A failed call leaves the heap unchanged.
package indexheap
