package stream

import (
	"context"
	"errors"
	"time"
)

// Filter yields only the upstream values satisfying pred. Terminal state
// passes through unchanged.
func (p *Pipeline[T]) Filter(pred func(T) bool) *Pipeline[T] {
	return p.derived(func(ctx context.Context, out *Channel[T]) error {
		defer p.Stop()
		for p.Next(ctx) {
			if pred(p.Current()) {
				out.Write(p.Current())
			}
		}
		return p.Err()
	})
}

// Map transforms each upstream value with f. Terminal state passes through
// unchanged.
func Map[T, U any](p *Pipeline[T], f func(T) U) *Pipeline[U] {
	return New(p.ctx, func(ctx context.Context, out *Channel[U]) error {
		defer p.Stop()
		for p.Next(ctx) {
			out.Write(f(p.Current()))
		}
		return p.Err()
	}, WithCapacity(p.capacity), WithClock(p.clock))
}

// Take yields at most n upstream values, then closes normally and cancels
// the upstream producer.
func (p *Pipeline[T]) Take(n int) *Pipeline[T] {
	return p.derived(func(ctx context.Context, out *Channel[T]) error {
		defer p.Stop()
		taken := 0
		for taken < n && p.Next(ctx) {
			out.Write(p.Current())
			taken++
		}
		if taken >= n {
			return nil
		}
		return p.Err()
	})
}

// Drop discards the first n upstream values and yields the rest.
func (p *Pipeline[T]) Drop(n int) *Pipeline[T] {
	return p.derived(func(ctx context.Context, out *Channel[T]) error {
		defer p.Stop()
		skipped := 0
		for p.Next(ctx) {
			if skipped < n {
				skipped++
				continue
			}
			out.Write(p.Current())
		}
		return p.Err()
	})
}

// Debounce rate-limits the stream to at most one emission per interval d,
// holding a single pending value. When a value arrives at least d after the
// previous emission, the pending value is emitted and the new one becomes
// pending; within the interval the pending value is replaced. On upstream
// termination the pending value is flushed, so the last value of a burst is
// never lost.
func (p *Pipeline[T]) Debounce(d time.Duration) *Pipeline[T] {
	return p.derived(func(ctx context.Context, out *Channel[T]) error {
		defer p.Stop()
		var pending T
		hasPending := false
		var lastEmit time.Time
		for p.Next(ctx) {
			now := p.clock.Now()
			if hasPending && now.Sub(lastEmit) >= d {
				out.Write(pending)
				lastEmit = now
			}
			pending = p.Current()
			hasPending = true
		}
		if hasPending {
			out.Write(pending)
		}
		return p.Err()
	})
}

// Timeout races the upstream against a deadline of d for the whole stream.
// If the deadline elapses first the upstream is cancelled and the downstream
// terminates with ErrTimeout. Values that were handed downstream before the
// deadline stay drainable and are delivered ahead of the failure, following
// the Channel contract of reporting the terminal error only on an empty
// buffer. If the upstream finishes first its terminal state passes through
// unchanged and the timer is released.
func (p *Pipeline[T]) Timeout(d time.Duration) *Pipeline[T] {
	return p.derived(func(ctx context.Context, out *Channel[T]) error {
		defer p.Stop()

		tctx, tcancel := context.WithCancel(ctx)
		defer tcancel()
		fired := make(chan struct{})
		stop := make(chan struct{})
		defer close(stop)
		go func() {
			select {
			case <-p.clock.After(d):
				close(fired)
				tcancel()
			case <-stop:
			}
		}()

		for p.Next(tctx) {
			out.Write(p.Current())
		}

		err := p.Err()
		if errors.Is(err, ErrCancelled) {
			select {
			case <-fired:
				return ErrTimeout
			default:
			}
		}
		return err
	})
}

// OnEach invokes effect for every value and re-emits it unchanged. Effects
// never suppress or transform terminal errors.
func (p *Pipeline[T]) OnEach(effect func(T)) *Pipeline[T] {
	return p.derived(func(ctx context.Context, out *Channel[T]) error {
		defer p.Stop()
		for p.Next(ctx) {
			effect(p.Current())
			out.Write(p.Current())
		}
		return p.Err()
	})
}

// CatchErrors converts an upstream failure into exactly one value produced
// by handler, after which the downstream closes normally. Cancellation is
// not recoverable and passes through.
func (p *Pipeline[T]) CatchErrors(handler func(error) T) *Pipeline[T] {
	return p.derived(func(ctx context.Context, out *Channel[T]) error {
		defer p.Stop()
		for p.Next(ctx) {
			out.Write(p.Current())
		}
		err := p.Err()
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrCancelled) {
			return err
		}
		out.Write(handler(err))
		return nil
	})
}

// First drains the pipeline until a value satisfies pred (nil matches
// everything), cancels the upstream and returns it. ok is false when the
// pipeline ended without a match; err then carries the terminal error.
func (p *Pipeline[T]) First(ctx context.Context, pred func(T) bool) (T, bool, error) {
	defer p.Stop()
	for p.Next(ctx) {
		if pred == nil || pred(p.Current()) {
			return p.Current(), true, nil
		}
	}
	var zero T
	return zero, false, p.Err()
}

// Last fully drains the pipeline and returns its final value. ok is false
// when the pipeline emitted nothing.
func (p *Pipeline[T]) Last(ctx context.Context) (T, bool, error) {
	defer p.Stop()
	var last T
	seen := false
	for p.Next(ctx) {
		last = p.Current()
		seen = true
	}
	if err := p.Err(); err != nil {
		var zero T
		return zero, false, err
	}
	return last, seen, nil
}

// Collect fully drains the pipeline into a slice.
func (p *Pipeline[T]) Collect(ctx context.Context) ([]T, error) {
	defer p.Stop()
	var out []T
	for p.Next(ctx) {
		out = append(out, p.Current())
	}
	return out, p.Err()
}

// CollectN drains at most n values, cancelling the upstream once satisfied.
func (p *Pipeline[T]) CollectN(ctx context.Context, n int) ([]T, error) {
	defer p.Stop()
	var out []T
	for len(out) < n && p.Next(ctx) {
		out = append(out, p.Current())
	}
	if len(out) >= n {
		return out, nil
	}
	return out, p.Err()
}

// Reduce folds the pipeline into a single accumulated value.
func Reduce[T, A any](ctx context.Context, p *Pipeline[T], init A, combine func(A, T) A) (A, error) {
	defer p.Stop()
	acc := init
	for p.Next(ctx) {
		acc = combine(acc, p.Current())
	}
	if err := p.Err(); err != nil {
		return init, err
	}
	return acc, nil
}
