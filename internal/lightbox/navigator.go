// Package lightbox implements the full-screen gallery viewer state machine.
//
// The navigator is either Closed or Open. Open records a selection; Next and Prev step
// through the gallery with wraparound; Close hides the viewer at once but keeps the
// outgoing selection for a grace delay so an exit transition can still draw it.
package lightbox

import (
	"sync"
	"time"

	"github.com/Gowri0016/Creator/internal/catalog"
	"github.com/Gowri0016/Creator/internal/platform/schedule"
)

// DefaultGrace is how long the selection survives a Close.
const DefaultGrace = 300 * time.Millisecond

// State is a snapshot of the navigator.
type State struct {
	Open     bool
	Selected *catalog.GalleryImage
}

// Option customises a Navigator.
type Option func(*Navigator)

// WithGrace overrides DefaultGrace. Negative values are ignored.
func WithGrace(d time.Duration) Option {
	return func(n *Navigator) {
		if d >= 0 {
			n.grace = d
		}
	}
}

// WithScheduler replaces the system scheduler.
func WithScheduler(s schedule.Scheduler) Option {
	return func(n *Navigator) {
		if s != nil {
			n.sched = s
		}
	}
}

// Navigator is the lightbox state machine over an immutable gallery.
type Navigator struct {
	mu       sync.Mutex
	gallery  []catalog.GalleryImage
	open     bool
	selected *catalog.GalleryImage
	// gen changes on every Open and Close; a pending clear only applies to its own Close.
	gen     uint64
	pending schedule.Timer
	grace   time.Duration
	sched   schedule.Scheduler
}

// New returns a closed navigator over gallery.
func New(gallery []catalog.GalleryImage, opts ...Option) *Navigator {
	n := &Navigator{
		gallery: append([]catalog.GalleryImage(nil), gallery...),
		grace:   DefaultGrace,
		sched:   schedule.System{},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Open selects image and opens the viewer.
func (n *Navigator) Open(image catalog.GalleryImage) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelPendingLocked()
	n.gen++
	img := image
	n.selected = &img
	n.open = true
}

// Close hides the viewer and schedules the selection to be cleared after the grace
// delay. Closing a closed viewer does nothing.
func (n *Navigator) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.open {
		return
	}
	n.open = false
	n.gen++
	gen := n.gen
	n.cancelPendingLocked()
	n.pending = n.sched.AfterFunc(n.grace, func() { n.clear(gen) })
}

// Next selects the following image, wrapping to the first.
func (n *Navigator) Next() { n.step(1) }

// Prev selects the preceding image, wrapping to the last.
func (n *Navigator) Prev() { n.step(-1) }

// State returns a copy of the current state.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	st := State{Open: n.open}
	if n.selected != nil {
		img := *n.selected
		st.Selected = &img
	}
	return st
}

// Gallery returns the images the navigator steps through.
func (n *Navigator) Gallery() []catalog.GalleryImage {
	return append([]catalog.GalleryImage(nil), n.gallery...)
}

// Dispose cancels a pending clear. The navigator must not be used afterwards.
func (n *Navigator) Dispose() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelPendingLocked()
	n.gen++
}

func (n *Navigator) step(delta int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.open || n.selected == nil || len(n.gallery) == 0 {
		return
	}
	current := -1
	for i, img := range n.gallery {
		if img.ID == n.selected.ID {
			current = i
			break
		}
	}
	if current < 0 {
		return
	}
	size := len(n.gallery)
	next := n.gallery[(current+delta+size)%size]
	n.selected = &next
}

func (n *Navigator) clear(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.gen != gen || n.open {
		return
	}
	n.selected = nil
	n.pending = nil
}

func (n *Navigator) cancelPendingLocked() {
	if n.pending != nil {
		n.pending.Stop()
		n.pending = nil
	}
}
