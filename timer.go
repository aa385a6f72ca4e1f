package main

import (
	"sync"
	"time"
)

// roundTimer is a cancellable fire-once action. cancel is idempotent and safe
// to call after the timer has fired or been cancelled already. A room keeps at
// most one live timer and additionally tags each with a generation number, so
// a fire that loses the race to cancel is ignored inside the room's critical
// section.
type roundTimer struct {
	mu    sync.Mutex
	timer *time.Timer
	done  bool
}

func schedule(d time.Duration, fn func()) *roundTimer {
	rt := &roundTimer{}
	rt.timer = time.AfterFunc(d, func() {
		rt.mu.Lock()
		rt.done = true
		rt.mu.Unlock()
		fn()
	})
	return rt
}

func (rt *roundTimer) cancel() {
	if rt == nil {
		return
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.done {
		return
	}
	rt.done = true
	rt.timer.Stop()
}
