// Package presence implements the reconnection grace-period timer pool.
// A disconnect does not immediately evict a user: it arms a timer, and
// only commits the departure if, when the timer fires, the user has not
// rebound to a new live connection in the meantime. The liveness recheck
// at fire time — not the timer itself — is what decides the outcome,
// grounded on the grace-timer pattern in PufferBlow's media SFU server
// (scheduleRoomEndGrace: arm on empty, recheck peer count before acting).
package presence

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/screenhall/roomctl/internal/domain"
)

const DefaultGracePeriod = 7 * time.Second

// Controller owns one cancellable timer per userID awaiting departure.
type Controller struct {
	mu     sync.Mutex
	timers map[domain.UserID]*time.Timer
	grace  time.Duration
}

func New(grace time.Duration) *Controller {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	return &Controller{
		timers: make(map[domain.UserID]*time.Timer),
		grace:  grace,
	}
}

// Arm schedules onFire to run after the grace period unless Cancel is
// called first. Re-arming an already-armed user replaces the pending
// timer (the newer disconnect wins).
func (c *Controller) Arm(uid domain.UserID, onFire func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.timers[uid]; ok {
		t.Stop()
	}
	c.timers[uid] = time.AfterFunc(c.grace, func() {
		c.mu.Lock()
		delete(c.timers, uid)
		c.mu.Unlock()
		log.Info().Str("module", "presence").Str("user", string(uid)).Msg("grace period elapsed")
		onFire()
	})
	log.Info().Str("module", "presence").Str("user", string(uid)).Dur("grace", c.grace).Msg("grace timer armed")
}

// Cancel stops a pending departure timer for uid, if any. Returns true if
// a timer was actually canceled (the user reconnected in time).
func (c *Controller) Cancel(uid domain.UserID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.timers[uid]
	if !ok {
		return false
	}
	t.Stop()
	delete(c.timers, uid)
	log.Info().Str("module", "presence").Str("user", string(uid)).Msg("grace timer canceled")
	return true
}

// Pending reports whether uid currently has a departure timer armed.
func (c *Controller) Pending(uid domain.UserID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.timers[uid]
	return ok
}
