package reconcile

import (
	"sync"
	"time"
)

// Deferred runs a function once after a delay unless cancelled first.
//
// Cancelling only stops the function; it never undoes work done before scheduling.
type Deferred struct {
	mu        sync.Mutex
	timer     *time.Timer
	fired     bool
	cancelled bool
	done      chan struct{}
}

// Defer schedules fn to run after d.
func Defer(d time.Duration, fn func()) *Deferred {
	df := &Deferred{done: make(chan struct{})}
	df.mu.Lock()
	defer df.mu.Unlock()

	df.timer = time.AfterFunc(d, func() {
		df.mu.Lock()
		if df.cancelled {
			df.mu.Unlock()
			return
		}
		df.fired = true
		df.mu.Unlock()

		defer close(df.done)
		fn()
	})
	return df
}

// Cancel stops a pending run and reports whether it was still pending.
func (df *Deferred) Cancel() bool {
	df.mu.Lock()
	defer df.mu.Unlock()
	if df.fired || df.cancelled {
		return false
	}
	df.cancelled = true
	df.timer.Stop()
	close(df.done)
	return true
}

// Done is closed once the function has returned or the run was cancelled.
func (df *Deferred) Done() <-chan struct{} { return df.done }

// Fired reports whether the function started.
func (df *Deferred) Fired() bool {
	df.mu.Lock()
	defer df.mu.Unlock()
	return df.fired
}

// Pending reports whether the run is still scheduled.
func (df *Deferred) Pending() bool {
	df.mu.Lock()
	defer df.mu.Unlock()
	return !df.fired && !df.cancelled
}
