package stream

import (
	"context"
	"sync"

	"github.com/slindgren720/eventflow/ring"
)

// DefaultCapacity is the channel capacity used when none is configured.
const DefaultCapacity = 100

// Channel is a bounded channel with a non-blocking overflow policy: Write
// never blocks, and when the buffer already holds capacity unread values the
// oldest one is dropped in favor of the new one. It is oriented towards a
// single producer goroutine and a single consumer goroutine.
//
// A channel must eventually be finished with Close or Fail; a consumer
// blocked in Receive on a channel that is never finished waits forever.
// Pipelines constructed with New discharge this contract automatically when
// the producer function returns. Buffered values written before Close/Fail
// remain drainable; the terminal error is reported only once the buffer is
// empty.
type Channel[T any] struct {
	mu     sync.Mutex
	buf    *ring.Buffer[T]
	closed bool
	err    error
	wake   chan struct{} // capacity 1, nudged on write and close
}

// NewChannel creates a channel with the given capacity. Non-positive
// capacities fall back to DefaultCapacity.
func NewChannel[T any](capacity int) *Channel[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Channel[T]{
		buf:  ring.New[T](capacity),
		wake: make(chan struct{}, 1),
	}
}

// Write appends a value without ever blocking the caller. Writes to a closed
// channel are silently discarded; at capacity the oldest buffered value is
// dropped.
func (c *Channel[T]) Write(v T) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.buf.Append(v)
	c.mu.Unlock()
	c.nudge()
}

// Close marks the channel finished without error. Further writes are
// discarded; buffered values remain drainable. Close after Close or Fail is
// a no-op.
func (c *Channel[T]) Close() { c.finish(nil) }

// Fail marks the channel finished with a terminal error that Receive reports
// once the buffer is drained. Fail with a nil error behaves like Close. The
// first Close/Fail wins.
func (c *Channel[T]) Fail(err error) { c.finish(err) }

func (c *Channel[T]) finish(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.err = err
	c.mu.Unlock()
	c.nudge()
}

// nudge wakes a consumer blocked in Receive. The buffer is re-checked on
// every loop iteration, so a single pending signal is always enough.
func (c *Channel[T]) nudge() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Receive returns the next buffered value, blocking while the channel is
// open and empty. Once the channel is finished and drained it returns
// ok=false together with the terminal error, if any. A ctx error is returned
// as-is when the caller's context ends the wait.
func (c *Channel[T]) Receive(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		c.mu.Lock()
		if v, ok := c.buf.PopFirst(); ok {
			c.mu.Unlock()
			return v, true, nil
		}
		if c.closed {
			err := c.err
			c.mu.Unlock()
			return zero, false, err
		}
		c.mu.Unlock()

		select {
		case <-c.wake:
		case <-ctx.Done():
			return zero, false, ctx.Err()
		}
	}
}

// Len returns the number of currently buffered values.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Len()
}

// Closed reports whether Close or Fail has been called.
func (c *Channel[T]) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
