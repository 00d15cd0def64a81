// Package carousel drives the auto-advancing promotional banner.
package carousel

import (
	"errors"
	"sync"
	"time"

	"github.com/Gowri0016/Creator/internal/platform/schedule"
)

// DefaultInterval is the time between automatic advances.
const DefaultInterval = 5 * time.Second

// ErrIndexOutOfRange is returned by SelectIndex for an index outside [0, slideCount).
var ErrIndexOutOfRange = errors.New("carousel: index out of range")

// Option customises a Clock.
type Option func(*Clock)

// WithInterval overrides DefaultInterval. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(c *Clock) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithScheduler replaces the system scheduler.
func WithScheduler(s schedule.Scheduler) Option {
	return func(c *Clock) {
		if s != nil {
			c.sched = s
		}
	}
}

// WithObserver registers a callback run after every automatic advance, outside the lock.
func WithObserver(fn func(index int)) Option {
	return func(c *Clock) { c.observer = fn }
}

// Clock holds the current slide index and the recurring timer that advances it.
type Clock struct {
	mu       sync.Mutex
	count    int
	index    int
	interval time.Duration
	sched    schedule.Scheduler
	timer    schedule.Timer
	stopped  bool
	observer func(int)
}

// New returns a clock over slideCount slides, positioned at index 0 and not yet started.
func New(slideCount int, opts ...Option) *Clock {
	if slideCount < 0 {
		slideCount = 0
	}
	c := &Clock{
		count:    slideCount,
		interval: DefaultInterval,
		sched:    schedule.System{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins automatic advancing. Calling Start twice, or after Stop, does nothing.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil || c.stopped || c.count == 0 {
		return
	}
	c.timer = c.sched.Every(c.interval, c.tick)
}

// Stop cancels the recurring timer. No advance happens after Stop returns.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Running reports whether the recurring timer is live.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// Current returns the slide index.
func (c *Clock) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// SlideCount returns the number of slides.
func (c *Clock) SlideCount() int {
	return c.count
}

// Advance moves to the next slide, wrapping to 0 after the last.
func (c *Clock) Advance() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.advanceLocked()
}

// SelectIndex jumps to slide i. The automatic schedule keeps its phase.
func (c *Clock) SelectIndex(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= c.count {
		return ErrIndexOutOfRange
	}
	c.index = i
	return nil
}

func (c *Clock) tick() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	index := c.advanceLocked()
	observer := c.observer
	c.mu.Unlock()

	if observer != nil {
		observer(index)
	}
}

func (c *Clock) advanceLocked() int {
	if c.count == 0 {
		return 0
	}
	c.index = (c.index + 1) % c.count
	return c.index
}
