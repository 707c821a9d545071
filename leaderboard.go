package leaderboard

import (
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"

	"github.com/KFCxMcDonalds/leaderboard/delayqueue"
	"github.com/KFCxMcDonalds/leaderboard/indexheap"
)

// LeaderChange describes the top of the board before and after a mutation.
type LeaderChange[K comparable, V any, P indexheap.Number] struct {
	Prev    indexheap.Element[K, V, P]
	HadPrev bool
	Next    indexheap.Element[K, V, P]
	HasNext bool
}

// Board is an indexed max-heap shared between goroutines. Every call holds one
// lock for its whole duration; on top of the heap it logs mutations, notifies
// leader-change hooks and folds entries whose deadline has passed.
type Board[K comparable, V any, P indexheap.Number] struct {
	mu      sync.Mutex
	heap    *indexheap.Heap[K, V, P]
	hooks   []func(LeaderChange[K, V, P])
	pending map[K]int64 // id -> timed fold deadline, ms

	folds *delayqueue.DelayQueue[K]

	logger       Logger
	panicHandler func(any)
	pool         *ants.Pool

	wg        sync.WaitGroup
	exitCh    chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

func New[K comparable, V any, P indexheap.Number](opts ...Option) *Board[K, V, P] {
	o := options{}
	for _, opt := range append(DefaultOptions(), opts...) {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logrus.New()
	}
	if o.panicHandler == nil {
		logger := o.logger
		o.panicHandler = func(p any) {
			logger.WithField("panic", p).Error("leader hook panic")
		}
	}

	// if goroutine pool is full, hooks degrade to plain goroutines
	pool, err := ants.NewPool(o.poolSize,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(o.panicHandler),
		ants.WithLogger(o.logger),
	)
	if err != nil {
		panic(fmt.Sprintf("leaderboard: create hook pool: %v", err))
	}

	return &Board[K, V, P]{
		heap:         indexheap.New[K, V, P](o.capacity),
		pending:      make(map[K]int64),
		folds:        delayqueue.New[K](o.capacity),
		logger:       o.logger,
		panicHandler: o.panicHandler,
		pool:         pool,
		exitCh:       make(chan struct{}),
	}
}

// Start runs the goroutines that carry out timed folds.
func (b *Board[K, V, P]) Start() {
	b.startOnce.Do(func() {
		// goroutine 1: poll delay queue
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			b.folds.Poll(b.exitCh, func() int64 {
				return time2MS(time.Now())
			})
		}()

		// goroutine 2: fold expired ids
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			for {
				select {
				case id := <-b.folds.C:
					b.expire(id)
				case <-b.exitCh:
					return
				}
			}
		}()
	})
}

// Stop halts timed folds and releases the hook pool. Hooks triggered after
// Stop still run, on plain goroutines.
func (b *Board[K, V, P]) Stop() {
	b.stopOnce.Do(func() {
		close(b.exitCh)
		b.wg.Wait()
		b.pool.Release()
	})
}

// OnLeaderChange registers fn to run asynchronously whenever the leader's id
// or score changes.
func (b *Board[K, V, P]) OnLeaderChange(fn func(LeaderChange[K, V, P])) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hooks = append(b.hooks, fn)
}

func (b *Board[K, V, P]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.heap.Len()
}

// Join adds id with the given score. It fails with indexheap.ErrDuplicateKey
// if id is already on the board.
func (b *Board[K, V, P]) Join(id K, value V, score P) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev, hadPrev := b.heap.PeekMax()
	if err := b.heap.Insert(id, value, score); err != nil {
		return err
	}
	b.logger.WithFields(logrus.Fields{"id": id, "priority": score}).Info("joined")
	b.notify(prev, hadPrev)
	return nil
}

// Leader returns the entry with the highest score.
func (b *Board[K, V, P]) Leader() (indexheap.Element[K, V, P], bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.heap.PeekMax()
}

func (b *Board[K, V, P]) Get(id K) (indexheap.Element[K, V, P], bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.heap.Get(id)
}

// Rescore changes the score of id.
func (b *Board[K, V, P]) Rescore(id K, score P) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev, hadPrev := b.heap.PeekMax()
	old, err := b.heap.UpdatePriority(id, score)
	if err != nil {
		return err
	}
	b.logger.WithFields(logrus.Fields{"id": id, "old": old, "new": score}).Info("score updated")
	b.notify(prev, hadPrev)
	return nil
}

// Fold removes id from the board and returns its entry. A pending timed fold
// for id is cancelled.
func (b *Board[K, V, P]) Fold(id K) (indexheap.Element[K, V, P], error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fold(id)
}

// FoldAfter schedules id to be folded once d has elapsed. Calling it again for
// the same id replaces the earlier deadline. Timed folds only happen while the
// board is started.
func (b *Board[K, V, P]) FoldAfter(id K, d time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.heap.Contains(id) {
		return fmt.Errorf("fold after %v: %w", id, indexheap.ErrNotFound)
	}
	deadline := time2MS(time.Now().Add(d))
	b.pending[id] = deadline
	b.folds.Enqueue(id, deadline)
	return nil
}

// Standings returns every entry, highest score first.
func (b *Board[K, V, P]) Standings() []indexheap.Element[K, V, P] {
	b.mu.Lock()
	h := b.heap.Clone()
	b.mu.Unlock()

	out := make([]indexheap.Element[K, V, P], 0, h.Len())
	for {
		e, ok := h.PopMax()
		if !ok {
			return out
		}
		out = append(out, e)
	}
}

// fold requires b.mu.
func (b *Board[K, V, P]) fold(id K) (indexheap.Element[K, V, P], error) {
	prev, hadPrev := b.heap.PeekMax()
	e, err := b.heap.Remove(id)
	if err != nil {
		return e, err
	}
	if _, ok := b.pending[id]; ok {
		delete(b.pending, id)
		b.folds.Cancel(id)
	}
	b.logger.WithFields(logrus.Fields{"id": id, "priority": e.Priority}).Info("folded")
	b.notify(prev, hadPrev)
	return e, nil
}

// expire folds id if its timed fold is still due. Keys cancelled or
// rescheduled after the delay queue released them are skipped.
func (b *Board[K, V, P]) expire(id K) {
	b.mu.Lock()
	defer b.mu.Unlock()

	deadline, ok := b.pending[id]
	if !ok || deadline > time2MS(time.Now()) {
		b.logger.WithField("id", id).Debug("stale timed fold ignored")
		return
	}
	if _, err := b.fold(id); err != nil {
		b.logger.WithError(err).WithField("id", id).Warn("timed fold failed")
	}
}

// notify requires b.mu.
func (b *Board[K, V, P]) notify(prev indexheap.Element[K, V, P], hadPrev bool) {
	if len(b.hooks) == 0 {
		return
	}
	next, hasNext := b.heap.PeekMax()
	if hadPrev == hasNext && (!hadPrev || (prev.ID == next.ID && prev.Priority == next.Priority)) {
		return
	}

	change := LeaderChange[K, V, P]{Prev: prev, HadPrev: hadPrev, Next: next, HasNext: hasNext}
	for _, hook := range b.hooks {
		b.submit(func() { hook(change) })
	}
}

func (b *Board[K, V, P]) submit(task func()) {
	if b.pool.Submit(task) == nil {
		return
	}
	// pool full or released
	go func() {
		defer func() {
			if p := recover(); p != nil {
				b.panicHandler(p)
			}
		}()
		task()
	}()
}
