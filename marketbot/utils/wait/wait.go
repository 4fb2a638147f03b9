// marketbot/utils/wait/wait.go
package wait

import "time"

// TickInterval is how often Pause re-checks its cancel func and reports
// the remaining time.
const TickInterval = 500 * time.Millisecond

// Until polls cond every interval until it returns true or timeout elapses.
// Returns true as soon as cond holds, false on timeout. A panicking cond is
// treated as false for that tick, so probes against half-rendered UI state
// can never take the caller down.
func Until(cond func() bool, interval, timeout time.Duration) bool {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	deadline := time.Now().Add(timeout)
	for {
		if safeCheck(cond) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(interval)
	}
}

func safeCheck(cond func() bool) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return cond()
}

// Pause sleeps up to d, waking every TickInterval to call onTick with the
// remaining duration and to re-check cancelled. Returns early, before the
// full duration, once cancelled() reports true. Both callbacks may be nil.
func Pause(d time.Duration, cancelled func() bool, onTick func(remaining time.Duration)) {
	end := time.Now().Add(d)
	for {
		if cancelled != nil && cancelled() {
			return
		}
		remaining := time.Until(end)
		if remaining <= 0 {
			return
		}
		if onTick != nil {
			onTick(remaining)
		}
		if remaining < TickInterval {
			time.Sleep(remaining)
		} else {
			time.Sleep(TickInterval)
		}
	}
}
