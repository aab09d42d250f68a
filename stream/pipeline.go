package stream

import (
	"context"
	"errors"
	"fmt"
)

// ProducerFunc generates the values of a pipeline. It runs on its own
// goroutine, writes zero or more values to out and returns when done: a nil
// return closes the pipeline normally, a non-nil return becomes its terminal
// error, and a panic is recovered into a ProducerError. The context is
// cancelled as soon as the consumer stops iterating; producers must treat it
// as a checkpoint before every write and inside every wait.
type ProducerFunc[T any] func(ctx context.Context, out *Channel[T]) error

// Options configures pipeline construction.
type Options struct {
	// Capacity bounds the pipeline's channel. Defaults to DefaultCapacity.
	Capacity int

	// Clock drives the Debounce and Timeout operators. Defaults to the wall
	// clock; tests inject a fake.
	Clock Clock
}

// Option mutates Options.
type Option func(*Options)

// WithCapacity overrides the channel capacity of the pipeline.
func WithCapacity(n int) Option {
	return func(o *Options) { o.Capacity = n }
}

// WithClock overrides the clock used by time-based operators.
func WithClock(c Clock) Option {
	return func(o *Options) { o.Clock = c }
}

// Pipeline is a single-pass, cancellable sequence of values backed by a
// producer goroutine. Consume it with Next/Current and inspect Err once Next
// returns false:
//
//	p := stream.New(ctx, produce)
//	for p.Next(ctx) {
//	    handle(p.Current())
//	}
//	if err := p.Err(); err != nil {
//	    // terminal failure
//	}
//
// Ending iteration early (Stop, or Next observing ctx cancellation) cancels
// the producer's context. Iteration is single-consumer: Next, Current and
// Err must be called from one goroutine.
type Pipeline[T any] struct {
	ch       *Channel[T]
	cancel   context.CancelFunc
	done     chan struct{}
	ctx      context.Context // base context, inherited by derived pipelines
	clock    Clock
	capacity int

	current  T
	err      error
	finished bool
}

// New starts producer on its own goroutine and returns the pipeline it feeds.
// The pipeline is iterable immediately.
func New[T any](ctx context.Context, producer ProducerFunc[T], opts ...Option) *Pipeline[T] {
	o := Options{Capacity: DefaultCapacity, Clock: realClock{}}
	for _, fn := range opts {
		fn(&o)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	pctx, cancel := context.WithCancel(ctx)
	p := &Pipeline[T]{
		ch:       NewChannel[T](o.Capacity),
		cancel:   cancel,
		done:     make(chan struct{}),
		ctx:      ctx,
		clock:    o.Clock,
		capacity: o.Capacity,
	}

	go func() {
		defer close(p.done)
		defer func() {
			if r := recover(); r != nil {
				p.ch.Fail(&ProducerError{Cause: fmt.Errorf("producer panic: %v", r)})
			}
		}()
		if err := producer(pctx, p.ch); err != nil {
			p.ch.Fail(coerceTerminal(err))
		} else {
			p.ch.Close()
		}
	}()

	return p
}

// Next advances to the next value, blocking until one is available or the
// pipeline terminates. It returns false when iteration is over; check Err
// afterwards to distinguish clean completion from failure. Passing a ctx
// lets the consumer bound the wait; its cancellation ends iteration with
// ErrCancelled and cancels the producer.
func (p *Pipeline[T]) Next(ctx context.Context) bool {
	if p.finished {
		return false
	}
	if ctx == nil {
		ctx = context.Background()
	}
	v, ok, err := p.ch.Receive(ctx)
	if !ok {
		p.finished = true
		p.cancel()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			err = ErrCancelled
		}
		p.err = err
		return false
	}
	p.current = v
	return true
}

// Current returns the value Next advanced to. Only valid after Next returned
// true.
func (p *Pipeline[T]) Current() T { return p.current }

// Err returns the pipeline's terminal error, or nil if it completed cleanly.
// Valid once Next has returned false.
func (p *Pipeline[T]) Err() error { return p.err }

// Stop abandons iteration and cancels the producer. It is idempotent and
// safe after natural termination. A stopped pipeline reports ErrCancelled
// unless it already reached a terminal state.
func (p *Pipeline[T]) Stop() {
	p.cancel()
	if !p.finished {
		p.finished = true
		p.err = ErrCancelled
	}
}

// Done is closed once the producer goroutine has exited. Useful to observe
// cancellation taking effect.
func (p *Pipeline[T]) Done() <-chan struct{} { return p.done }

// derived builds a downstream pipeline inheriting this pipeline's base
// context, capacity and clock.
func (p *Pipeline[T]) derived(producer ProducerFunc[T]) *Pipeline[T] {
	return New(p.ctx, producer, WithCapacity(p.capacity), WithClock(p.clock))
}
