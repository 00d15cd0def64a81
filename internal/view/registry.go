package view

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/Gowri0016/Creator/internal/content"
	"github.com/Gowri0016/Creator/internal/platform/schedule"
)

const (
	defaultIdleTTL      = 30 * time.Minute
	defaultReapInterval = time.Minute
	metricNamespace     = "github.com/Gowri0016/Creator/internal/view"
)

// Reasons a view leaves the registry, recorded on the views.unmounted counter.
const (
	reasonUnmount  = "unmount"
	reasonIdle     = "idle"
	reasonShutdown = "shutdown"
)

var (
	errContentRequired = errors.New("view registry: content is required")

	// ErrTooManyViews is returned by Mount when the live view limit is reached.
	ErrTooManyViews = errors.New("view registry: too many live views")
	// ErrNotFound is returned for unknown or unmounted view ids.
	ErrNotFound = errors.New("view registry: view not found")
)

// Closer releases per-view resources outside the state slices (event subscribers).
type Closer interface {
	Close(viewID string)
}

// RegistryDeps wires the registry.
type RegistryDeps struct {
	Content      *content.Content
	Timing       Timing
	Scheduler    schedule.Scheduler
	Publisher    Publisher
	Closer       Closer
	Logger       *zap.Logger
	IdleTTL      time.Duration
	ReapInterval time.Duration
	MaxViews     int
	IDGenerator  func() string
	// Meter records view and cart counters. The global provider is used when nil.
	Meter metric.Meter
}

// Registry owns every mounted view.
type Registry struct {
	mu    sync.Mutex
	views map[string]*View

	deps         deps
	closer       Closer
	idleTTL      time.Duration
	reapInterval time.Duration
	maxViews     int
	newID        func() string

	mounted   metric.Int64Counter
	rejected  metric.Int64Counter
	unmounted metric.Int64Counter
	live      metric.Int64UpDownCounter
}

// NewRegistry validates deps and returns an empty registry.
func NewRegistry(d RegistryDeps) (*Registry, error) {
	if d.Content == nil {
		return nil, errContentRequired
	}
	sched := d.Scheduler
	if sched == nil {
		sched = schedule.System{}
	}
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	idGen := d.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}
	ttl := d.IdleTTL
	if ttl <= 0 {
		ttl = defaultIdleTTL
	}
	interval := d.ReapInterval
	if interval <= 0 {
		interval = defaultReapInterval
	}
	meter := d.Meter
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(metricNamespace)
	}
	r := &Registry{
		views: map[string]*View{},
		deps: deps{
			content:   d.Content,
			timing:    d.Timing,
			sched:     sched,
			publisher: d.Publisher,
			logger:    logger,
			meter:     meter,
		},
		closer:       d.Closer,
		idleTTL:      ttl,
		reapInterval: interval,
		maxViews:     d.MaxViews,
		newID:        idGen,
	}
	r.registerMetrics(meter)
	return r, nil
}

func (r *Registry) registerMetrics(meter metric.Meter) {
	var err error
	r.mounted, err = meter.Int64Counter("views.mounted", metric.WithDescription("Views mounted"))
	if err != nil {
		r.deps.logger.Warn("view registry: unable to register mounted metric", zap.Error(err))
	}
	r.rejected, err = meter.Int64Counter("views.rejected",
		metric.WithDescription("Mounts refused because the live view limit was reached"))
	if err != nil {
		r.deps.logger.Warn("view registry: unable to register rejected metric", zap.Error(err))
	}
	r.unmounted, err = meter.Int64Counter("views.unmounted",
		metric.WithDescription("Views released, by reason (unmount, idle, shutdown)"))
	if err != nil {
		r.deps.logger.Warn("view registry: unable to register unmounted metric", zap.Error(err))
	}
	r.live, err = meter.Int64UpDownCounter("views.live", metric.WithDescription("Views currently mounted"))
	if err != nil {
		r.deps.logger.Warn("view registry: unable to register live metric", zap.Error(err))
	}
}

// Mount creates a view, starts its timers and registers it.
func (r *Registry) Mount(ctx context.Context) (*View, error) {
	now := r.deps.sched.Now().UTC()

	r.mu.Lock()
	if r.maxViews > 0 && len(r.views) >= r.maxViews {
		r.mu.Unlock()
		if r.rejected != nil {
			r.rejected.Add(ctx, 1)
		}
		return nil, ErrTooManyViews
	}
	id := r.newID()
	v := newView(id, now, r.deps)
	r.views[id] = v
	r.mu.Unlock()

	if r.mounted != nil {
		r.mounted.Add(ctx, 1)
	}
	if r.live != nil {
		r.live.Add(ctx, 1)
	}

	v.Mount()
	r.deps.logger.Debug("view.mounted", zap.String("viewID", id))
	return v, nil
}

// Get returns a live view and marks it as seen.
func (r *Registry) Get(id string) (*View, error) {
	r.mu.Lock()
	v, ok := r.views[id]
	r.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	v.touch(r.deps.sched.Now().UTC())
	return v, nil
}

// Unmount removes a view and stops its timers. It reports whether the view was live.
func (r *Registry) Unmount(id string) bool {
	r.mu.Lock()
	v, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()
	if !ok {
		return false
	}
	r.release(v, reasonUnmount)
	return true
}

// Len returns the number of live views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Reap unmounts views idle for longer than the TTL and returns how many were removed.
func (r *Registry) Reap(now time.Time) int {
	cutoff := now.UTC().Add(-r.idleTTL)

	r.mu.Lock()
	var stale []*View
	for id, v := range r.views {
		if v.LastSeen().Before(cutoff) {
			stale = append(stale, v)
			delete(r.views, id)
		}
	}
	r.mu.Unlock()

	for _, v := range stale {
		r.release(v, reasonIdle)
	}
	if len(stale) > 0 {
		r.deps.logger.Info("view.reaped", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// Run reaps idle views on the configured interval until ctx is done, then unmounts every
// remaining view.
func (r *Registry) Run(ctx context.Context) {
	timer := r.deps.sched.Every(r.reapInterval, func() { r.Reap(r.deps.sched.Now()) })
	<-ctx.Done()
	timer.Stop()
	r.Shutdown()
}

// Shutdown unmounts every view.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.views))
	for id := range r.views {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	views := make([]*View, 0, len(ids))
	for _, id := range ids {
		views = append(views, r.views[id])
		delete(r.views, id)
	}
	r.mu.Unlock()
	for _, v := range views {
		r.release(v, reasonShutdown)
	}
}

func (r *Registry) release(v *View, reason string) {
	v.Unmount()
	if r.closer != nil {
		r.closer.Close(v.ID)
	}
	ctx := context.Background()
	if r.unmounted != nil {
		r.unmounted.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
	if r.live != nil {
		r.live.Add(ctx, -1)
	}
	r.deps.logger.Debug("view.unmounted", zap.String("viewID", v.ID), zap.String("reason", reason))
}
