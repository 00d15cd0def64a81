// Package schedule abstracts the timers used by the storefront state slices so that
// production code runs on the wall clock while tests drive time by hand.
package schedule

import (
	"sync"
	"time"
)

// Timer is a pending one-shot or recurring callback.
type Timer interface {
	// Stop cancels future runs. It reports whether the timer was still pending.
	Stop() bool
}

// Scheduler creates timers.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Every(d time.Duration, f func()) Timer
	Now() time.Time
}

// System schedules callbacks on the runtime timer wheel.
type System struct{}

// AfterFunc runs f once after d.
func (System) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Every runs f every d until stopped. Non-positive periods never fire.
func (System) Every(d time.Duration, f func()) Timer {
	if d <= 0 {
		return stoppedTimer{}
	}
	t := &ticker{t: time.NewTicker(d), done: make(chan struct{})}
	go t.loop(f)
	return t
}

// Now returns the wall clock time.
func (System) Now() time.Time { return time.Now() }

type ticker struct {
	t    *time.Ticker
	done chan struct{}
	once sync.Once
}

func (t *ticker) loop(f func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.t.C:
			// a tick racing with Stop must lose
			select {
			case <-t.done:
				return
			default:
			}
			f()
		}
	}
}

func (t *ticker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.t.Stop()
		close(t.done)
		stopped = true
	})
	return stopped
}

type stoppedTimer struct{}

func (stoppedTimer) Stop() bool { return false }
