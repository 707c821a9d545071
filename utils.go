package leaderboard

import "time"

func time2MS(t time.Time) int64 {
	// converte time to unix ms
	return t.UnixMilli()
}
