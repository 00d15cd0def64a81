package schedule

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSystemEveryTicksUntilStopped(t *testing.T) {
	t.Parallel()

	var ticks atomic.Int64
	timer := System{}.Every(5*time.Millisecond, func() { ticks.Add(1) })

	require.Eventually(t, func() bool { return ticks.Load() >= 2 }, 2*time.Second, time.Millisecond)
	require.True(t, timer.Stop())
	require.False(t, timer.Stop(), "second stop is a no-op")

	// a callback already running when Stop returned may still finish
	time.Sleep(20 * time.Millisecond)
	settled := ticks.Load()
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, settled, ticks.Load())
}

func TestSystemEveryNonPositiveNeverFires(t *testing.T) {
	t.Parallel()

	timer := System{}.Every(0, func() { t.Error("unexpected tick") })
	require.False(t, timer.Stop())
}

func TestSystemAfterFuncFiresOnceUnlessStopped(t *testing.T) {
	t.Parallel()

	fired := make(chan struct{}, 2)
	System{}.AfterFunc(time.Millisecond, func() { fired <- struct{}{} })
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}

	var stoppedRan atomic.Bool
	stopped := System{}.AfterFunc(time.Hour, func() { stoppedRan.Store(true) })
	require.True(t, stopped.Stop())

	time.Sleep(20 * time.Millisecond)
	require.Len(t, fired, 0, "one-shot fires once")
	require.False(t, stoppedRan.Load())
}
