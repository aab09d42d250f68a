package stream

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// MergePolicy selects how the merge coordinator reacts to a source failing.
type MergePolicy int

const (
	// FailFast fails the output with the first source failure and cancels
	// the remaining sources. Values a healthy source had buffered but not
	// yet relayed at that moment are discarded, not drained.
	FailFast MergePolicy = iota

	// ContinueAndCollect converts a source failure into one regular output
	// value via the configured failure mapper and keeps merging the
	// remaining sources.
	ContinueAndCollect

	// IgnoreErrors drops source failures silently and keeps merging.
	IgnoreErrors
)

// String returns the policy name for logs.
func (p MergePolicy) String() string {
	switch p {
	case FailFast:
		return "fail_fast"
	case ContinueAndCollect:
		return "continue_and_collect"
	case IgnoreErrors:
		return "ignore_errors"
	default:
		return "unknown"
	}
}

// MergeOptions configures Merge.
type MergeOptions[T any] struct {
	// Policy defaults to FailFast.
	Policy MergePolicy

	// FailureMapper turns a source failure into an output value. Required
	// for ContinueAndCollect, ignored otherwise.
	FailureMapper func(error) T

	// Capacity bounds the output channel. Defaults to DefaultCapacity.
	Capacity int
}

// MergeOption mutates MergeOptions.
type MergeOption[T any] func(*MergeOptions[T])

// WithMergePolicy selects the error-handling policy.
func WithMergePolicy[T any](p MergePolicy) MergeOption[T] {
	return func(o *MergeOptions[T]) { o.Policy = p }
}

// WithFailureMapper supplies the failure-as-value mapping used by
// ContinueAndCollect.
func WithFailureMapper[T any](fn func(error) T) MergeOption[T] {
	return func(o *MergeOptions[T]) { o.FailureMapper = fn }
}

// WithMergeCapacity overrides the output channel capacity.
func WithMergeCapacity[T any](n int) MergeOption[T] {
	return func(o *MergeOptions[T]) { o.Capacity = n }
}

// sourceResult is the envelope drain goroutines relay to the coordinator:
// either a value or a source's terminal failure.
type sourceResult[T any] struct {
	value T
	err   error
}

// Merge interleaves the given source pipelines into one output pipeline.
// Each source is drained by its own goroutine, but every write to the output
// goes through the single coordinator goroutine, so output writes never
// race. Per-source FIFO order is preserved; no order is guaranteed across
// sources. The output closes normally once every source has terminated,
// subject to the configured policy.
func Merge[T any](ctx context.Context, sources []*Pipeline[T], opts ...MergeOption[T]) *Pipeline[T] {
	o := MergeOptions[T]{Policy: FailFast, Capacity: DefaultCapacity}
	for _, fn := range opts {
		fn(&o)
	}

	return New(ctx, func(pctx context.Context, out *Channel[T]) error {
		defer func() {
			if r := recover(); r != nil {
				out.Fail(&CoordinatorError{Cause: fmt.Errorf("merge coordinator panic: %v", r)})
			}
		}()

		if o.Policy == ContinueAndCollect && o.FailureMapper == nil {
			return &CoordinatorError{Cause: errors.New("ContinueAndCollect requires a failure mapper")}
		}

		relay := make(chan sourceResult[T])
		sctx, scancel := context.WithCancel(pctx)
		defer scancel()

		var wg sync.WaitGroup
		for _, src := range sources {
			wg.Add(1)
			go func(src *Pipeline[T]) {
				defer wg.Done()
				defer src.Stop()
				for src.Next(sctx) {
					select {
					case relay <- sourceResult[T]{value: src.Current()}:
					case <-sctx.Done():
						return
					}
				}
				err := src.Err()
				if err == nil || errors.Is(err, ErrCancelled) {
					return
				}
				select {
				case relay <- sourceResult[T]{err: err}:
				case <-sctx.Done():
				}
			}(src)
		}
		go func() {
			wg.Wait()
			close(relay)
		}()

		// Single-writer discipline: this loop is the only code that
		// touches out.
		for res := range relay {
			if res.err == nil {
				out.Write(res.value)
				continue
			}
			switch o.Policy {
			case FailFast:
				scancel()
				return res.err
			case ContinueAndCollect:
				out.Write(o.FailureMapper(res.err))
			case IgnoreErrors:
			}
		}
		return nil
	}, WithCapacity(o.Capacity))
}
