package delayqueue

import "github.com/KFCxMcDonalds/leaderboard/indexheap"

// priorityQueue orders keys by earliest expiration. The heap underneath is
// max-only, so expirations are stored negated.
type priorityQueue[K comparable] struct {
	h *indexheap.Heap[K, struct{}, int64]
}

func newPriorityQueue[K comparable](size int) priorityQueue[K] {
	return priorityQueue[K]{h: indexheap.New[K, struct{}, int64](size)}
}

func (pq priorityQueue[K]) Len() int { return pq.h.Len() }

// set schedules key at expiration, rescheduling it if already queued.
// It reports whether key is now the earliest item.
func (pq priorityQueue[K]) set(key K, expiration int64) (first bool) {
	if pq.h.Contains(key) {
		_, _ = pq.h.UpdatePriority(key, -expiration)
	} else {
		_ = pq.h.Insert(key, struct{}{}, -expiration)
	}
	top, _ := pq.h.PeekMax()
	return top.ID == key
}

func (pq priorityQueue[K]) remove(key K) bool {
	_, err := pq.h.Remove(key)
	return err == nil
}

// first returns the earliest key and its expiration.
func (pq priorityQueue[K]) first() (key K, expiration int64, ok bool) {
	top, ok := pq.h.PeekMax()
	return top.ID, -top.Priority, ok
}

func (pq priorityQueue[K]) pop() {
	_, _ = pq.h.PopMax()
}
