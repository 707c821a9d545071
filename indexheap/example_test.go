package indexheap_test

import (
	"errors"
	"fmt"

	"github.com/KFCxMcDonalds/leaderboard/indexheap"
)

func ExampleHeap() {
	h := indexheap.New[int, string, int](4)
	_ = h.Insert(1, "Alice", 100)
	_ = h.Insert(2, "Bob", 500)
	_ = h.Insert(3, "Charlie", 300)
	_ = h.Insert(4, "Dave", 200)

	top, _ := h.PeekMax()
	fmt.Printf("leader: %s (%d)\n", top.Value, top.Priority)

	old, _ := h.UpdatePriority(1, 850)
	top, _ = h.PeekMax()
	fmt.Printf("Alice %d -> 850, leader: %s\n", old, top.Value)

	folded, _ := h.Remove(4)
	fmt.Printf("%s folded, %d left\n", folded.Value, h.Len())

	if _, err := h.Remove(4); errors.Is(err, indexheap.ErrNotFound) {
		fmt.Println("Dave is already out")
	}

	// Output:
	// leader: Bob (500)
	// Alice 100 -> 850, leader: Alice
	// Dave folded, 3 left
	// Dave is already out
}
