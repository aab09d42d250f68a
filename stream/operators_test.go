package stream

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually driven Clock for deterministic Debounce / Timeout
// tests. Now() invocations are counted so tests can synchronize with the
// operator before advancing time.
type fakeClock struct {
	mu       sync.Mutex
	now      time.Time
	nowCalls int
	waiters  []chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nowCalls++
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	c.mu.Lock()
	c.waiters = append(c.waiters, ch)
	c.mu.Unlock()
	return ch
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Fire delivers the current time to every pending After channel.
func (c *fakeClock) Fire() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, w := range c.waiters {
		w <- c.now
	}
	c.waiters = nil
}

func (c *fakeClock) awaitNowCalls(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		calls := c.nowCalls
		c.mu.Unlock()
		if calls >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Errorf("clock never reached %d Now() calls", n)
}

func (c *fakeClock) awaitWaiters(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		waiting := len(c.waiters)
		c.mu.Unlock()
		if waiting >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Errorf("clock never reached %d pending timers", n)
}

func TestFilter(t *testing.T) {
	p := New(context.Background(), intsProducer(10))
	even := p.Filter(func(v int) bool { return v%2 == 0 })

	got, err := even.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4, 6, 8}, got)
}

func TestFilter_PropagatesFailure(t *testing.T) {
	boom := errors.New("boom")
	p := New(context.Background(), func(ctx context.Context, out *Channel[int]) error {
		out.Write(1)
		out.Write(2)
		return boom
	})

	got, err := p.Filter(func(v int) bool { return v > 1 }).Collect(context.Background())
	assert.Equal(t, []int{2}, got)
	assert.ErrorIs(t, err, boom)
}

func TestMap(t *testing.T) {
	p := New(context.Background(), intsProducer(4))
	doubled := Map(p, func(v int) int { return v * 2 })

	got, err := doubled.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4, 6}, got)
}

func TestTake_ExactValues(t *testing.T) {
	p := New(context.Background(), intsProducer(10))

	got, err := p.Take(3).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestTake_CancelsInfiniteProducer(t *testing.T) {
	p := New(context.Background(), func(ctx context.Context, out *Channel[int]) error {
		for i := 0; ; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			out.Write(i)
		}
	})

	got, err := p.Take(3).Collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)
	awaitDone(t, p)
}

func TestTake_FewerUpstreamValuesThanN(t *testing.T) {
	p := New(context.Background(), intsProducer(2))

	got, err := p.Take(5).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, got)
}

func TestDrop(t *testing.T) {
	p := New(context.Background(), intsProducer(5))

	got, err := p.Drop(3).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, got)
}

func TestOnEach(t *testing.T) {
	var seen []int
	p := New(context.Background(), intsProducer(3))

	got, err := p.OnEach(func(v int) { seen = append(seen, v) }).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestOnEach_DoesNotSuppressFailure(t *testing.T) {
	boom := errors.New("boom")
	p := New(context.Background(), func(ctx context.Context, out *Channel[int]) error {
		return boom
	})

	_, err := p.OnEach(func(int) {}).Collect(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestCatchErrors_RecoversFailure(t *testing.T) {
	p := New(context.Background(), func(ctx context.Context, out *Channel[int]) error {
		out.Write(1)
		return errors.New("boom")
	})

	got, err := p.CatchErrors(func(error) int { return -1 }).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, -1}, got)
}

func TestCatchErrors_PassThroughOnSuccess(t *testing.T) {
	called := false
	p := New(context.Background(), intsProducer(2))

	got, err := p.CatchErrors(func(error) int { called = true; return -1 }).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, got)
	assert.False(t, called)
}

func TestDebounce_BurstKeepsFirstAndLast(t *testing.T) {
	fc := newFakeClock()
	p := New(context.Background(), intsProducer(5), WithClock(fc))

	// All values arrive at the same instant: the first is emitted on the
	// second arrival, intermediate ones collapse, the last is flushed on
	// completion.
	got, err := p.Debounce(100 * time.Millisecond).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4}, got)
}

func TestDebounce_EmitsAfterInterval(t *testing.T) {
	fc := newFakeClock()
	step := make(chan struct{})
	p := New(context.Background(), func(ctx context.Context, out *Channel[int]) error {
		out.Write(1)
		out.Write(2)
		<-step
		out.Write(3)
		return nil
	}, WithClock(fc))

	go func() {
		fc.awaitNowCalls(t, 2) // operator has consumed 1 and 2
		fc.Advance(200 * time.Millisecond)
		close(step)
	}()

	got, err := p.Debounce(100 * time.Millisecond).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestDebounce_SingleValueFlushed(t *testing.T) {
	fc := newFakeClock()
	p := New(context.Background(), intsProducer(1), WithClock(fc))

	got, err := p.Debounce(time.Hour).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{0}, got)
}

func TestTimeout_FiresOnSilentProducer(t *testing.T) {
	fc := newFakeClock()
	p := New(context.Background(), blockedProducer, WithClock(fc))

	go func() {
		fc.awaitWaiters(t, 1)
		fc.Fire()
	}()

	got, err := p.Timeout(time.Second).Collect(context.Background())
	assert.Empty(t, got)
	assert.ErrorIs(t, err, ErrTimeout)
	awaitDone(t, p)
}

func TestTimeout_DeliversEarlierValuesBeforeFailing(t *testing.T) {
	fc := newFakeClock()
	wrote := make(chan struct{})
	p := New(context.Background(), func(ctx context.Context, out *Channel[int]) error {
		out.Write(1)
		out.Write(2)
		close(wrote)
		<-ctx.Done()
		return ctx.Err()
	}, WithClock(fc))

	go func() {
		<-wrote
		fc.awaitWaiters(t, 1)
		fc.Fire()
	}()

	// Values emitted before the deadline drain first; ErrTimeout follows
	// once the buffer is empty.
	got, err := p.Timeout(time.Second).Collect(context.Background())
	assert.Equal(t, []int{1, 2}, got)
	assert.ErrorIs(t, err, ErrTimeout)
	awaitDone(t, p)
}

func TestTimeout_UpstreamCompletesFirst(t *testing.T) {
	fc := newFakeClock()
	p := New(context.Background(), intsProducer(3), WithClock(fc))

	got, err := p.Timeout(time.Hour).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestTimeout_UpstreamFailurePassesThrough(t *testing.T) {
	fc := newFakeClock()
	boom := errors.New("boom")
	p := New(context.Background(), func(ctx context.Context, out *Channel[int]) error {
		return boom
	}, WithClock(fc))

	_, err := p.Timeout(time.Hour).Collect(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestFirst(t *testing.T) {
	p := New(context.Background(), intsProducer(100))

	v, ok, err := p.First(context.Background(), func(v int) bool { return v > 4 })
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5, v)
	awaitDone(t, p)
}

func TestFirst_NoMatch(t *testing.T) {
	p := New(context.Background(), intsProducer(3))

	_, ok, err := p.First(context.Background(), func(v int) bool { return v > 10 })
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLast(t *testing.T) {
	p := New(context.Background(), intsProducer(5))

	v, ok, err := p.Last(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, v)
}

func TestLast_Empty(t *testing.T) {
	p := New(context.Background(), intsProducer(0))

	_, ok, err := p.Last(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReduce(t *testing.T) {
	p := New(context.Background(), intsProducer(5))

	sum, err := Reduce(context.Background(), p, 0, func(acc, v int) int { return acc + v })
	require.NoError(t, err)
	assert.Equal(t, 10, sum)
}

func TestCollectN(t *testing.T) {
	p := New(context.Background(), intsProducer(100))

	got, err := p.CollectN(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, got)
	awaitDone(t, p)
}

func TestOperatorChain(t *testing.T) {
	p := New(context.Background(), intsProducer(20))
	chained := Map(
		p.Filter(func(v int) bool { return v%2 == 0 }).Drop(1).Take(3),
		func(v int) int { return v * 10 },
	)

	got, err := chained.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{20, 40, 60}, got)
}
