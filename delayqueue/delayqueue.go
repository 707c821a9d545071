package delayqueue

import (
	"sync"
	"sync/atomic"
	"time"
)

// DelayQueue hands out keys on C once their expiration (unix ms) has passed.
type DelayQueue[K comparable] struct {
	pq priorityQueue[K]

	C        chan K
	wakeupCh chan struct{}

	mu    sync.Mutex
	sleep atomic.Int32
}

func New[K comparable](size int) *DelayQueue[K] {
	return &DelayQueue[K]{
		pq:       newPriorityQueue[K](size),
		C:        make(chan K, size), // buffered channel to avoid blocking
		wakeupCh: make(chan struct{}, 1),
	}
}

func (dq *DelayQueue[K]) Len() int {
	dq.mu.Lock()
	defer dq.mu.Unlock()
	return dq.pq.Len()
}

// use this function to peek the first key in pq, you have to hold the lock before calling it
func (dq *DelayQueue[K]) peek(now int64) (key K, after int64, ok bool) {
	key, expiration, ok := dq.pq.first()
	if !ok {
		return key, 0, false
	}
	// first key not due yet, return how long the poller should wait
	if expiration > now {
		var zero K
		return zero, expiration - now, false
	}
	dq.pq.pop()
	return key, 0, true
}

// Enqueue schedules key to fire at expiration. A key already queued is rescheduled.
func (dq *DelayQueue[K]) Enqueue(key K, expiration int64) {
	dq.mu.Lock()
	first := dq.pq.set(key, expiration)
	dq.mu.Unlock()
	if first {
		// new earliest key, wake up poller
		if dq.sleep.CompareAndSwap(1, 0) {
			select {
			case dq.wakeupCh <- struct{}{}:
			default: // a wakeup is already pending
			}
		}
	}
}

// Cancel drops key if it is still pending.
func (dq *DelayQueue[K]) Cancel(key K) bool {
	dq.mu.Lock()
	defer dq.mu.Unlock()
	return dq.pq.remove(key)
}

func (dq *DelayQueue[K]) Poll(exitCh <-chan struct{}, nowF func() int64) {
	for {
		now := nowF()

		dq.mu.Lock()
		key, after, ok := dq.peek(now)
		if !ok {
			dq.sleep.Store(1) // set sleep status
		}
		dq.mu.Unlock()

		if !ok {
			if after == 0 {
				// queue empty, wait for wakeupCh
				select {
				case <-exitCh:
					goto exit
				case <-dq.wakeupCh:
					continue
				}
			}
			// keys queued but none due, wait for the timer or wakeupCh
			timer := time.NewTimer(time.Duration(after) * time.Millisecond)
			select {
			case <-dq.wakeupCh:
				timer.Stop()
				continue
			case <-timer.C:
				// a wakeup sent meanwhile stays buffered and only costs one extra peek
				dq.sleep.Store(0)
				continue
			case <-exitCh:
				timer.Stop()
				goto exit
			}
		}

		select {
		case dq.C <- key:
		case <-exitCh:
			goto exit
		}
	}
exit:
	// reset sleep status
	dq.sleep.Store(0)
}
