package carousel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Gowri0016/Creator/internal/platform/schedule"
)

func newManualClock(t *testing.T, count int, opts ...Option) (*Clock, *schedule.Manual) {
	t.Helper()
	m := schedule.NewManual(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	c := New(count, append([]Option{WithScheduler(m)}, opts...)...)
	return c, m
}

func TestAdvanceWrapsAround(t *testing.T) {
	t.Parallel()

	c, _ := newManualClock(t, 4)
	require.NoError(t, c.SelectIndex(3))

	var got []int
	for i := 0; i < 8; i++ {
		got = append(got, c.Advance())
	}
	require.Equal(t, []int{0, 1, 2, 3, 0, 1, 2, 3}, got)
}

func TestSelectIndex(t *testing.T) {
	t.Parallel()

	c, _ := newManualClock(t, 4)
	for _, start := range []int{0, 1, 3} {
		require.NoError(t, c.SelectIndex(start))
		require.NoError(t, c.SelectIndex(2))
		require.Equal(t, 2, c.Current())
	}

	require.ErrorIs(t, c.SelectIndex(4), ErrIndexOutOfRange)
	require.ErrorIs(t, c.SelectIndex(-1), ErrIndexOutOfRange)
	require.Equal(t, 2, c.Current())
}

func TestTimerAdvancesOnInterval(t *testing.T) {
	t.Parallel()

	c, m := newManualClock(t, 4)
	require.Equal(t, 0, c.Current())
	c.Start()
	require.True(t, c.Running())

	m.Advance(4999 * time.Millisecond)
	require.Equal(t, 0, c.Current())
	m.Advance(time.Millisecond)
	require.Equal(t, 1, c.Current())
	m.Advance(3 * DefaultInterval)
	require.Equal(t, 0, c.Current())
}

func TestSelectIndexKeepsTimerPhase(t *testing.T) {
	t.Parallel()

	c, m := newManualClock(t, 4)
	c.Start()

	m.Advance(4 * time.Second)
	require.NoError(t, c.SelectIndex(2))

	// the next tick is still due one second later, not five
	m.Advance(time.Second)
	require.Equal(t, 3, c.Current())
}

func TestStopCancelsTimer(t *testing.T) {
	t.Parallel()

	var observed []int
	c, m := newManualClock(t, 3, WithObserver(func(i int) { observed = append(observed, i) }))
	c.Start()
	m.Advance(DefaultInterval)
	require.Equal(t, []int{1}, observed)

	c.Stop()
	require.False(t, c.Running())
	require.Zero(t, m.Pending())

	m.Advance(10 * DefaultInterval)
	require.Equal(t, 1, c.Current(), "no advance after stop")
	require.Equal(t, []int{1}, observed)

	c.Start()
	require.False(t, c.Running(), "a stopped clock stays stopped")
}

func TestStartIsIdempotent(t *testing.T) {
	t.Parallel()

	c, m := newManualClock(t, 4)
	c.Start()
	c.Start()
	require.Equal(t, 1, m.Pending(), "exactly one recurring timer")

	m.Advance(DefaultInterval)
	require.Equal(t, 1, c.Current())
}

func TestCustomInterval(t *testing.T) {
	t.Parallel()

	c, m := newManualClock(t, 2, WithInterval(time.Second))
	c.Start()
	m.Advance(time.Second)
	require.Equal(t, 1, c.Current())
}

func TestEmptyCarouselNeverAdvances(t *testing.T) {
	t.Parallel()

	c, m := newManualClock(t, 0)
	c.Start()
	require.False(t, c.Running())
	require.Equal(t, 0, c.Advance())
	require.ErrorIs(t, c.SelectIndex(0), ErrIndexOutOfRange)
	m.Advance(time.Minute)
	require.Equal(t, 0, c.Current())
}
