package users

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// AvailabilityFunc answers whether a username is free.
type AvailabilityFunc func(ctx context.Context, username string) (bool, error)

// AvailabilityChecker debounces username checks on the trailing edge. Every
// Check cancels the pending one, so only the last username typed within the
// window reaches the backend. Failed checks are logged and dropped.
type AvailabilityChecker struct {
	check AvailabilityFunc
	delay time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	seq    uint64
}

func NewAvailabilityChecker(check AvailabilityFunc, delay time.Duration) *AvailabilityChecker {
	return &AvailabilityChecker{check: check, delay: delay}
}

// Check schedules a lookup of username and calls onResult with the answer
// unless a newer Check supersedes it first.
func (a *AvailabilityChecker) Check(username string, onResult func(username string, available bool)) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopLocked()
	a.seq++
	seq := a.seq

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.timer = time.AfterFunc(a.delay, func() {
		available, err := a.check(ctx, username)
		if err != nil {
			if ctx.Err() == nil {
				log.Debug().Err(err).Str("username", username).Msg("Username availability check failed")
			}
			return
		}

		a.mu.Lock()
		current := a.seq == seq
		a.mu.Unlock()
		if current && onResult != nil {
			onResult(username, available)
		}
	})
}

// Stop cancels any pending or running check.
func (a *AvailabilityChecker) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
	a.seq++
}

func (a *AvailabilityChecker) stopLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}
