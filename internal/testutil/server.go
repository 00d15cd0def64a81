package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gowri0016/Creator/internal/content"
	"github.com/Gowri0016/Creator/internal/events"
	"github.com/Gowri0016/Creator/internal/httpserver"
	"github.com/Gowri0016/Creator/internal/platform/schedule"
	"github.com/Gowri0016/Creator/internal/view"
)

// Epoch is the start time of the manual clock used by test servers.
var Epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// Storefront is a running test server together with the state it serves.
type Storefront struct {
	Server   *httptest.Server
	Registry *view.Registry
	Hub      *events.Hub
	Clock    *schedule.Manual
	Content  *content.Content
}

// ServerOption customises the registry dependencies for tests.
type ServerOption func(*view.RegistryDeps)

// WithMaxViews caps the number of live views.
func WithMaxViews(n int) ServerOption {
	return func(d *view.RegistryDeps) {
		d.MaxViews = n
	}
}

// NewServer constructs an httptest server running the storefront stack on a manual clock.
func NewServer(t testing.TB, opts ...ServerOption) *Storefront {
	t.Helper()

	c, err := content.Default()
	if err != nil {
		t.Fatalf("load content: %v", err)
	}
	clock := schedule.NewManual(Epoch)
	hub := events.NewHub(8, nil)

	deps := view.RegistryDeps{
		Content:   c,
		Timing:    view.DefaultTiming(),
		Scheduler: clock,
		Publisher: hub,
		Closer:    hub,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	registry, err := view.NewRegistry(deps)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	handler, err := httpserver.NewHandler(httpserver.Config{
		Registry: registry,
		Hub:      hub,
	})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		registry.Shutdown()
		ts.Close()
	})
	return &Storefront{Server: ts, Registry: registry, Hub: hub, Clock: clock, Content: c}
}
