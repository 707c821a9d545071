package leaderboard

import "github.com/sirupsen/logrus"

type Logger = logrus.FieldLogger

type options struct {
	logger       Logger
	panicHandler func(any)
	poolSize     int
	capacity     int
}

type Option func(*options)

func DefaultOptions() []Option {
	return []Option{
		WithPoolSize(1000),
		WithCapacity(16),
		WithLogger(logrus.New()),
		WithPanicHandler(func(p any) {
			logrus.Errorf("leaderboard hook panic: %v", p)
		}),
	}
}

func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPanicHandler sets the handler for panics raised by leader-change hooks.
func WithPanicHandler(handler func(any)) Option {
	return func(o *options) {
		o.panicHandler = handler
	}
}

// WithPoolSize caps the goroutines running leader-change hooks. Sizes <= 0
// mean unbounded.
func WithPoolSize(size int) Option {
	return func(o *options) {
		o.poolSize = size
	}
}

// WithCapacity presizes the board for the expected number of entries.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}
