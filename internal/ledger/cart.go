package ledger

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/Gowri0016/Creator/internal/catalog"
)

const metricNamespace = "github.com/Gowri0016/Creator/internal/ledger"

// CartAnchor is the element a flight lands on.
const CartAnchor = "cart-icon"

// Flight describes the cosmetic add-to-cart animation between two page anchors.
type Flight struct {
	ItemID int    `json:"itemId"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// AddButtonAnchor returns the anchor id of an item's add-to-cart control.
func AddButtonAnchor(itemID int) string {
	return "add-to-cart-" + strconv.Itoa(itemID)
}

// FlightNotifier receives flights after a successful add. Failures never reach the cart.
type FlightNotifier interface {
	NotifyFlight(ctx context.Context, f Flight) error
}

// FlightNotifierFunc adapts a function to FlightNotifier.
type FlightNotifierFunc func(context.Context, Flight) error

// NotifyFlight calls f.
func (f FlightNotifierFunc) NotifyFlight(ctx context.Context, flight Flight) error {
	return f(ctx, flight)
}

// CartOption customises a Cart.
type CartOption func(*Cart)

// WithFlightNotifier sets the notifier invoked after each successful add.
func WithFlightNotifier(n FlightNotifier) CartOption {
	return func(c *Cart) { c.notifier = n }
}

// WithLogger sets the logger used for swallowed notifier failures.
func WithLogger(logger *zap.Logger) CartOption {
	return func(c *Cart) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMeter injects the meter for the add and flight counters. The global provider is
// used otherwise.
func WithMeter(m metric.Meter) CartOption {
	return func(c *Cart) { c.meter = m }
}

// Cart is a ledger whose Add never duplicates a line.
type Cart struct {
	Ledger
	notifier FlightNotifier
	logger   *zap.Logger
	meter    metric.Meter
	adds     metric.Int64Counter
	flights  metric.Int64Counter
}

// NewCart returns an empty cart.
func NewCart(opts ...CartOption) *Cart {
	c := &Cart{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	if c.meter == nil {
		c.meter = otel.GetMeterProvider().Meter(metricNamespace)
	}

	var err error
	c.adds, err = c.meter.Int64Counter("cart.adds",
		metric.WithDescription("Add-to-cart requests by outcome (added, duplicate)"))
	if err != nil {
		c.logger.Warn("cart: unable to register adds metric", zap.Error(err))
	}
	c.flights, err = c.meter.Int64Counter("cart.flights",
		metric.WithDescription("Flight notifications by result (sent, failed)"))
	if err != nil {
		c.logger.Warn("cart: unable to register flights metric", zap.Error(err))
	}
	return c
}

// Add appends id unless it is already present and reports whether it was added. A
// successful add announces a flight.
func (c *Cart) Add(ctx context.Context, id int) bool {
	if !c.addIfAbsent(id) {
		c.count(ctx, c.adds, "outcome", "duplicate")
		return false
	}
	c.count(ctx, c.adds, "outcome", "added")
	c.announce(ctx, Flight{ItemID: id, From: AddButtonAnchor(id), To: CartAnchor})
	return true
}

func (c *Cart) announce(ctx context.Context, f Flight) {
	if c.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.count(ctx, c.flights, "result", "failed")
			c.logger.Warn("cart.flight_panicked", zap.Int("itemID", f.ItemID), zap.String("panic", fmt.Sprint(r)))
		}
	}()
	if err := c.notifier.NotifyFlight(ctx, f); err != nil {
		c.count(ctx, c.flights, "result", "failed")
		c.logger.Debug("cart.flight_failed", zap.Int("itemID", f.ItemID), zap.Error(err))
		return
	}
	c.count(ctx, c.flights, "result", "sent")
}

func (c *Cart) count(ctx context.Context, counter metric.Int64Counter, key, value string) {
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String(key, value)))
}

// Lines resolves the cart ids against items in insertion order, skipping ids the catalog
// does not know.
func (c *Cart) Lines(items []catalog.CatalogItem) []catalog.CatalogItem {
	ids := c.IDs()
	out := make([]catalog.CatalogItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := catalog.FindItem(items, id); ok {
			out = append(out, item)
		}
	}
	return out
}
