package chrome

import (
	"errors"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/Gowri0016/Creator/internal/platform/schedule"
)

// DefaultFlash is how long the subscription confirmation stays visible.
const DefaultFlash = 3 * time.Second

// ErrInvalidEmail is returned for blank or malformed addresses.
var ErrInvalidEmail = errors.New("chrome: invalid email address")

// NewsletterOption customises a Newsletter.
type NewsletterOption func(*Newsletter)

// WithFlash overrides DefaultFlash.
func WithFlash(d time.Duration) NewsletterOption {
	return func(n *Newsletter) {
		if d > 0 {
			n.flash = d
		}
	}
}

// WithScheduler replaces the system scheduler.
func WithScheduler(s schedule.Scheduler) NewsletterOption {
	return func(n *Newsletter) {
		if s != nil {
			n.sched = s
		}
	}
}

// Newsletter is the footer subscription form. Addresses are not retained.
type Newsletter struct {
	mu         sync.Mutex
	subscribed bool
	gen        uint64
	pending    schedule.Timer
	flash      time.Duration
	sched      schedule.Scheduler
}

// NewNewsletter returns an idle form.
func NewNewsletter(opts ...NewsletterOption) *Newsletter {
	n := &Newsletter{flash: DefaultFlash, sched: schedule.System{}}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Subscribe validates email and shows the confirmation for the flash period.
func (n *Newsletter) Subscribe(email string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pending != nil {
		n.pending.Stop()
	}
	n.gen++
	gen := n.gen
	n.subscribed = true
	n.pending = n.sched.AfterFunc(n.flash, func() { n.reset(gen) })
	return nil
}

// Subscribed reports whether the confirmation is showing.
func (n *Newsletter) Subscribed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.subscribed
}

// Dispose cancels the pending reset.
func (n *Newsletter) Dispose() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pending != nil {
		n.pending.Stop()
		n.pending = nil
	}
	n.gen++
}

func (n *Newsletter) reset(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.gen != gen {
		return
	}
	n.subscribed = false
	n.pending = nil
}

// ValidateEmail accepts a single bare address.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}
