package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Gowri0016/Creator/internal/catalog"
	"github.com/Gowri0016/Creator/internal/testutil/metrictest"
)

func TestCartAddIgnoresDuplicates(t *testing.T) {
	t.Parallel()

	cart := NewCart()
	ctx := context.Background()
	seq := []int{3, 1, 3, 2, 1, 1, 99}

	distinct := map[int]struct{}{}
	for _, id := range seq {
		cart.Add(ctx, id)
		distinct[id] = struct{}{}
	}

	require.Equal(t, len(distinct), cart.Count())
	require.Equal(t, []int{3, 1, 2, 99}, cart.IDs(), "insertion order is kept")
}

func TestCartAddReportsWhetherAdded(t *testing.T) {
	t.Parallel()

	cart := NewCart()
	require.True(t, cart.Add(context.Background(), 4))
	require.False(t, cart.Add(context.Background(), 4))
	require.True(t, cart.Contains(4))
}

func TestToggleSymmetry(t *testing.T) {
	t.Parallel()

	starts := [][]int{nil, {1}, {2, 7}, {7, 2, 5}}
	for _, start := range starts {
		w := NewWishlist()
		for _, id := range start {
			w.Toggle(id)
		}
		before := w.Contains(7)
		beforeCount := w.Count()

		w.Toggle(7)
		require.NotEqual(t, before, w.Contains(7))
		w.Toggle(7)

		require.Equal(t, before, w.Contains(7), "start %v", start)
		require.Equal(t, beforeCount, w.Count(), "start %v", start)
	}
}

func TestCartToggleRemovesLine(t *testing.T) {
	t.Parallel()

	cart := NewCart()
	cart.Add(context.Background(), 1)
	cart.Add(context.Background(), 2)

	require.False(t, cart.Toggle(1))
	require.Equal(t, []int{2}, cart.IDs())
	require.True(t, cart.Toggle(1))
	require.Equal(t, []int{2, 1}, cart.IDs())
}

func TestLedgerAcceptsUnknownIDs(t *testing.T) {
	t.Parallel()

	var l Ledger
	require.True(t, l.Toggle(-5))
	require.True(t, l.Contains(-5))
	require.Equal(t, 1, l.Count())
}

func TestIDsReturnsCopy(t *testing.T) {
	t.Parallel()

	var l Ledger
	l.Toggle(1)
	got := l.IDs()
	got[0] = 42
	require.Equal(t, []int{1}, l.IDs())
}

func TestCartAnnouncesFlightOnlyOnAdd(t *testing.T) {
	t.Parallel()

	var flights []Flight
	cart := NewCart(WithFlightNotifier(FlightNotifierFunc(func(_ context.Context, f Flight) error {
		flights = append(flights, f)
		return nil
	})))

	ctx := context.Background()
	cart.Add(ctx, 2)
	cart.Add(ctx, 2)
	cart.Toggle(3)

	require.Equal(t, []Flight{{ItemID: 2, From: "add-to-cart-2", To: CartAnchor}}, flights)
}

func TestCartSwallowsNotifierFailures(t *testing.T) {
	t.Parallel()

	failing := NewCart(WithLogger(zap.NewNop()), WithFlightNotifier(FlightNotifierFunc(func(context.Context, Flight) error {
		return errors.New("anchor missing")
	})))
	require.True(t, failing.Add(context.Background(), 1))
	require.Equal(t, 1, failing.Count())

	panicking := NewCart(WithFlightNotifier(FlightNotifierFunc(func(context.Context, Flight) error {
		panic("no document")
	})))
	require.NotPanics(t, func() { panicking.Add(context.Background(), 1) })
	require.True(t, panicking.Contains(1))
}

func TestCartCountsAddsAndFlights(t *testing.T) {
	t.Parallel()

	rec := metrictest.New(t)
	fail := false
	cart := NewCart(WithMeter(rec.Meter()), WithFlightNotifier(FlightNotifierFunc(func(context.Context, Flight) error {
		if fail {
			return errors.New("no subscriber")
		}
		return nil
	})))

	ctx := context.Background()
	cart.Add(ctx, 1)
	cart.Add(ctx, 1)
	fail = true
	cart.Add(ctx, 2)

	require.EqualValues(t, 2, rec.Sum(t, "cart.adds", attribute.String("outcome", "added")))
	require.EqualValues(t, 1, rec.Sum(t, "cart.adds", attribute.String("outcome", "duplicate")))
	require.EqualValues(t, 1, rec.Sum(t, "cart.flights", attribute.String("result", "sent")))
	require.EqualValues(t, 1, rec.Sum(t, "cart.flights", attribute.String("result", "failed")))
}

func TestCartLinesSkipsOrphans(t *testing.T) {
	t.Parallel()

	items := []catalog.CatalogItem{{ID: 1, Name: "Invites"}, {ID: 2, Name: "Cards"}}
	cart := NewCart()
	ctx := context.Background()
	cart.Add(ctx, 2)
	cart.Add(ctx, 77)
	cart.Add(ctx, 1)

	lines := cart.Lines(items)
	require.Len(t, lines, 2)
	require.Equal(t, "Cards", lines[0].Name)
	require.Equal(t, "Invites", lines[1].Name)
	require.Equal(t, 3, cart.Count(), "orphans stay in the ledger")
}
