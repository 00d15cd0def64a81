// Package view composes the storefront state slices for one mounted page view and keeps
// the registry of live views.
package view

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/Gowri0016/Creator/internal/carousel"
	"github.com/Gowri0016/Creator/internal/catalog"
	"github.com/Gowri0016/Creator/internal/chrome"
	"github.com/Gowri0016/Creator/internal/content"
	"github.com/Gowri0016/Creator/internal/events"
	"github.com/Gowri0016/Creator/internal/ledger"
	"github.com/Gowri0016/Creator/internal/lightbox"
	"github.com/Gowri0016/Creator/internal/platform/schedule"
)

// Timing groups the delays of the timed state slices. Non-positive CarouselInterval and
// NewsletterFlash fall back to their package defaults; LightboxGrace is used as given and
// zero clears the selection on the next tick after Close.
type Timing struct {
	CarouselInterval time.Duration
	LightboxGrace    time.Duration
	NewsletterFlash  time.Duration
}

// DefaultTiming returns the storefront's stock delays.
func DefaultTiming() Timing {
	return Timing{
		CarouselInterval: carousel.DefaultInterval,
		LightboxGrace:    lightbox.DefaultGrace,
		NewsletterFlash:  chrome.DefaultFlash,
	}
}

// Publisher receives view events. *events.Hub satisfies it.
type Publisher interface {
	Publish(viewID string, ev events.Event)
}

// View is the state of one mounted page. The slices share no mutable state.
type View struct {
	ID        string
	MountedAt time.Time
	Content   *content.Content

	Browser    *catalog.Browser
	Cart       *ledger.Cart
	Wishlist   *ledger.Wishlist
	Carousel   *carousel.Clock
	Lightbox   *lightbox.Navigator
	Header     *chrome.Header
	Newsletter *chrome.Newsletter

	mu        sync.Mutex
	lastSeen  time.Time
	unmounted bool
}

type deps struct {
	content   *content.Content
	timing    Timing
	sched     schedule.Scheduler
	publisher Publisher
	logger    *zap.Logger
	meter     metric.Meter
}

func newView(id string, now time.Time, d deps) *View {
	v := &View{ID: id, MountedAt: now, Content: d.content, lastSeen: now}

	notifier := ledger.FlightNotifierFunc(func(_ context.Context, f ledger.Flight) error {
		if d.publisher != nil {
			d.publisher.Publish(id, events.NewEvent(events.CartFlight, f))
		}
		return nil
	})

	v.Browser = catalog.NewBrowser()
	v.Cart = ledger.NewCart(
		ledger.WithFlightNotifier(notifier),
		ledger.WithLogger(d.logger.With(zap.String("viewID", id))),
		ledger.WithMeter(d.meter),
	)
	v.Wishlist = ledger.NewWishlist()
	v.Carousel = carousel.New(len(d.content.Slides),
		carousel.WithScheduler(d.sched),
		carousel.WithInterval(d.timing.CarouselInterval),
		carousel.WithObserver(func(index int) {
			if d.publisher != nil {
				d.publisher.Publish(id, events.NewEvent(events.CarouselAdvance, map[string]int{"index": index}))
			}
		}),
	)
	v.Lightbox = lightbox.New(d.content.Gallery,
		lightbox.WithScheduler(d.sched),
		lightbox.WithGrace(d.timing.LightboxGrace),
	)
	v.Header = chrome.NewHeader()
	v.Newsletter = chrome.NewNewsletter(chrome.WithScheduler(d.sched), chrome.WithFlash(d.timing.NewsletterFlash))
	return v
}

// Mount starts the timed slices.
func (v *View) Mount() {
	v.Carousel.Start()
}

// Unmount stops every timer owned by the view. It reports false when already unmounted.
func (v *View) Unmount() bool {
	v.mu.Lock()
	if v.unmounted {
		v.mu.Unlock()
		return false
	}
	v.unmounted = true
	v.mu.Unlock()

	v.Carousel.Stop()
	v.Lightbox.Dispose()
	v.Newsletter.Dispose()
	return true
}

// Unmounted reports whether Unmount ran.
func (v *View) Unmounted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.unmounted
}

// Visible returns the services passing the current criteria.
func (v *View) Visible() []catalog.CatalogItem {
	return v.Browser.Visible(v.Content.Services)
}

func (v *View) touch(now time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastSeen = now
}

// LastSeen returns the time of the last request for this view.
func (v *View) LastSeen() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastSeen
}
