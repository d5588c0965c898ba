package chat

import (
	"sync"
	"time"

	"github.com/screenhall/roomctl/internal/domain"
)

// RateLimiter is a sliding-window limiter per (room, user).
type RateLimiter struct {
	mu       sync.Mutex
	history  map[string][]time.Time
	limit    int
	interval time.Duration
}

func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		history:  make(map[string][]time.Time),
		limit:    limit,
		interval: interval,
	}
}

func (rl *RateLimiter) Allow(roomID domain.RoomID, uid domain.UserID) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	key := string(roomID) + "|" + string(uid)
	now := time.Now()
	windowStart := now.Add(-rl.interval)

	attempts := rl.history[key]
	fresh := make([]time.Time, 0, len(attempts))
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}
	if len(fresh) >= rl.limit {
		rl.history[key] = fresh
		return false
	}
	fresh = append(fresh, now)
	rl.history[key] = fresh
	return true
}
