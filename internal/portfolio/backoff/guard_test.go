package backoff_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/subham12r/portfolio/internal/portfolio/backoff"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestGuard_StartsClear(t *testing.T) {
	t.Parallel()

	g := backoff.New(backoff.Config{})
	require.False(t, g.ShouldBackOff())
	require.Zero(t, g.Remaining())

	snap := g.Snapshot()
	require.Zero(t, snap.Consecutive429Count)
	require.Nil(t, snap.BackoffUntil)
}

func TestGuard_ExponentialWindows(t *testing.T) {
	t.Parallel()

	want := []time.Duration{
		1 * time.Minute,
		2 * time.Minute,
		4 * time.Minute,
		8 * time.Minute,
		10 * time.Minute,
		10 * time.Minute,
		10 * time.Minute,
	}

	clock := newFakeClock()
	g := backoff.New(backoff.Config{Clock: clock.Now})

	for i, w := range want {
		g.RecordThrottled()
		require.True(t, g.ShouldBackOff(), "throttle %d", i+1)
		require.Equal(t, w, g.Remaining(), "throttle %d", i+1)
		require.Equal(t, i+1, g.Snapshot().Consecutive429Count)

		// A few seconds between throttles is well inside the decay window.
		clock.Advance(5 * time.Second)
	}
}

func TestGuard_LargeCountDoesNotOverflow(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	g := backoff.New(backoff.Config{Clock: clock.Now})
	for range 200 {
		g.RecordThrottled()
	}
	require.Equal(t, 10*time.Minute, g.Remaining())
}

func TestGuard_WindowExpires(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	g := backoff.New(backoff.Config{Clock: clock.Now})

	g.RecordThrottled()
	clock.Advance(59 * time.Second)
	require.True(t, g.ShouldBackOff())
	require.Equal(t, time.Second, g.Remaining())

	clock.Advance(time.Second)
	require.False(t, g.ShouldBackOff())
	require.Zero(t, g.Remaining())

	// The window lapsing does not reset the count on its own.
	require.Equal(t, 1, g.Snapshot().Consecutive429Count)
}

func TestGuard_RecordSuccessAlwaysClears(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	g := backoff.New(backoff.Config{Clock: clock.Now})

	for range 4 {
		g.RecordThrottled()
	}
	require.True(t, g.ShouldBackOff())

	g.RecordSuccess()
	require.False(t, g.ShouldBackOff())

	snap := g.Snapshot()
	require.Zero(t, snap.Consecutive429Count)
	require.Nil(t, snap.BackoffUntil)
	require.Nil(t, snap.LastThrottledAt)

	// Clearing twice is harmless.
	g.RecordSuccess()
	require.False(t, g.ShouldBackOff())
}

func TestGuard_NoCompoundingAfterSuccess(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	g := backoff.New(backoff.Config{Clock: clock.Now})

	g.RecordThrottled()
	g.RecordThrottled()
	g.RecordThrottled()
	require.Equal(t, 4*time.Minute, g.Remaining())

	clock.Advance(4 * time.Minute)
	require.False(t, g.ShouldBackOff())
	g.RecordSuccess()

	g.RecordThrottled()
	require.Equal(t, time.Minute, g.Remaining())
}

func TestGuard_IdleDecay(t *testing.T) {
	t.Parallel()

	t.Run("one step per idle window", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		g := backoff.New(backoff.Config{Clock: clock.Now})
		for range 3 {
			g.RecordThrottled()
		}
		require.Equal(t, 3, g.Snapshot().Consecutive429Count)

		clock.Advance(29 * time.Minute)
		require.Equal(t, 3, g.Snapshot().Consecutive429Count)

		clock.Advance(time.Minute)
		require.Equal(t, 2, g.Snapshot().Consecutive429Count)

		clock.Advance(30 * time.Minute)
		require.Equal(t, 1, g.Snapshot().Consecutive429Count)
	})

	t.Run("floored at zero", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		g := backoff.New(backoff.Config{Clock: clock.Now})
		g.RecordThrottled()

		clock.Advance(10 * time.Hour)
		require.Zero(t, g.Snapshot().Consecutive429Count)
	})

	t.Run("decay applies before the next increment", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		g := backoff.New(backoff.Config{Clock: clock.Now})
		g.RecordThrottled()
		g.RecordThrottled()

		// Two idle windows take the count from 2 back to 0, so the next
		// throttle is treated as the first one again.
		clock.Advance(time.Hour)
		g.RecordThrottled()
		require.Equal(t, 1, g.Snapshot().Consecutive429Count)
		require.Equal(t, time.Minute, g.Remaining())
	})

	t.Run("new throttle restarts the idle window", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		g := backoff.New(backoff.Config{Clock: clock.Now})
		g.RecordThrottled()

		clock.Advance(20 * time.Minute)
		g.RecordThrottled()

		clock.Advance(20 * time.Minute)
		require.Equal(t, 2, g.Snapshot().Consecutive429Count)
	})

	t.Run("spread out throttles decay from the last one", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		g := backoff.New(backoff.Config{Clock: clock.Now})
		g.RecordThrottled()
		clock.Advance(time.Minute)
		g.RecordThrottled()
		clock.Advance(2 * time.Minute)
		g.RecordThrottled()

		clock.Advance(30 * time.Minute)
		require.Equal(t, 2, g.Snapshot().Consecutive429Count)

		clock.Advance(30 * time.Minute)
		require.Equal(t, 1, g.Snapshot().Consecutive429Count)
	})
}

func TestGuard_CustomConfig(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	g := backoff.New(backoff.Config{
		BaseWindow: 10 * time.Second,
		MaxBackoff: 30 * time.Second,
		DecayAfter: time.Minute,
		Clock:      clock.Now,
	})

	g.RecordThrottled()
	require.Equal(t, 10*time.Second, g.Remaining())
	g.RecordThrottled()
	require.Equal(t, 20*time.Second, g.Remaining())
	g.RecordThrottled()
	require.Equal(t, 30*time.Second, g.Remaining())
}

func TestGuard_ConcurrentUse(t *testing.T) {
	t.Parallel()

	g := backoff.New(backoff.Config{})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.RecordThrottled()
			_ = g.ShouldBackOff()
			_ = g.Snapshot()
		}()
	}
	wg.Wait()

	require.Equal(t, 50, g.Snapshot().Consecutive429Count)
	require.True(t, g.ShouldBackOff())
}
