package leaderboard_test

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/KFCxMcDonalds/leaderboard"
)

func ExampleBoard() {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	b := leaderboard.New[int, string, int](leaderboard.WithLogger(logger))
	defer b.Stop()

	_ = b.Join(1, "Alice", 320)
	_ = b.Join(2, "Bob", 410)
	_ = b.Join(3, "Charlie", 150)

	// the flop improves Alice's hand, Charlie folds
	_ = b.Rescore(1, 850)
	_, _ = b.Fold(3)

	for i, e := range b.Standings() {
		fmt.Printf("%d. %s %d\n", i+1, e.Value, e.Priority)
	}

	// Output:
	// 1. Alice 850
	// 2. Bob 410
}
