// Package events fans out per-view notifications (cart flights, carousel ticks) to the
// page over Server-Sent Events. Delivery is best effort: a slow subscriber loses events
// rather than blocking the publisher.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const metricNamespace = "github.com/Gowri0016/Creator/internal/events"

// Kind names an event on the wire.
type Kind string

const (
	// CartFlight announces the add-to-cart animation.
	CartFlight Kind = "cart:flight"
	// CarouselAdvance carries the new banner index after an automatic advance.
	CarouselAdvance Kind = "carousel:advance"
	// Connected is sent once when a stream opens.
	Connected Kind = "connected"
)

const defaultBuffer = 16

// Event is one notification for a view.
type Event struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// NewEvent stamps an event with an id and the current time.
func NewEvent(kind Kind, data any) Event {
	return Event{ID: ulid.Make().String(), Kind: kind, Timestamp: time.Now().UTC(), Data: data}
}

// Hub routes events to the subscribers of a view.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[chan Event]struct{}
	buffer int
	logger *zap.Logger

	delivered metric.Int64Counter
	dropped   metric.Int64Counter
}

// HubOption customises a Hub.
type HubOption func(*hubConfig)

type hubConfig struct {
	meter metric.Meter
}

// WithMeter injects the meter for the delivery counters. The global provider is used
// otherwise.
func WithMeter(m metric.Meter) HubOption {
	return func(cfg *hubConfig) { cfg.meter = m }
}

// NewHub returns a hub whose subscriber channels hold buffer events.
func NewHub(buffer int, logger *zap.Logger, opts ...HubOption) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	var cfg hubConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	meter := cfg.meter
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(metricNamespace)
	}

	h := &Hub{subs: map[string]map[chan Event]struct{}{}, buffer: buffer, logger: logger}
	var err error
	h.delivered, err = meter.Int64Counter("events.delivered",
		metric.WithDescription("Events handed to a subscriber, by kind"))
	if err != nil {
		logger.Warn("events: unable to register delivered metric", zap.Error(err))
	}
	h.dropped, err = meter.Int64Counter("events.dropped",
		metric.WithDescription("Events dropped on a full subscriber buffer, by kind"))
	if err != nil {
		logger.Warn("events: unable to register dropped metric", zap.Error(err))
	}
	return h
}

// Subscribe registers a subscriber for viewID. The returned cancel func is idempotent;
// the channel is closed by cancel or by Close(viewID).
func (h *Hub) Subscribe(viewID string) (<-chan Event, func()) {
	ch := make(chan Event, h.buffer)
	h.mu.Lock()
	set, ok := h.subs[viewID]
	if !ok {
		set = map[chan Event]struct{}{}
		h.subs[viewID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() { h.remove(viewID, ch) })
	}
}

// Publish delivers ev to every subscriber of viewID without blocking.
func (h *Hub) Publish(viewID string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	kind := metric.WithAttributes(attribute.String("kind", string(ev.Kind)))
	for ch := range h.subs[viewID] {
		select {
		case ch <- ev:
			if h.delivered != nil {
				h.delivered.Add(context.Background(), 1, kind)
			}
		default:
			if h.dropped != nil {
				h.dropped.Add(context.Background(), 1, kind)
			}
			h.logger.Warn("events.dropped", zap.String("viewID", viewID), zap.String("kind", string(ev.Kind)))
		}
	}
}

// Close closes every subscriber of viewID.
func (h *Hub) Close(viewID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[viewID] {
		close(ch)
	}
	delete(h.subs, viewID)
}

// Subscribers returns the number of subscribers of viewID.
func (h *Hub) Subscribers(viewID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[viewID])
}

func (h *Hub) remove(viewID string, ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[viewID]
	if !ok {
		return
	}
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	close(ch)
	if len(set) == 0 {
		delete(h.subs, viewID)
	}
}
