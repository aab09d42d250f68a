package stream

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrTimeout is the terminal error of a pipeline whose Timeout operator
	// deadline elapsed before the upstream completed.
	ErrTimeout = errors.New("stream: timeout elapsed before upstream completed")

	// ErrCancelled is the terminal error of a pipeline whose consumer
	// abandoned iteration or whose context was cancelled.
	ErrCancelled = errors.New("stream: pipeline cancelled")
)

// ProducerError wraps a failure raised by a pipeline's production routine.
// It is surfaced through Pipeline.Err after iteration ends.
type ProducerError struct {
	Cause error
}

func (e *ProducerError) Error() string { return fmt.Sprintf("stream: producer failed: %v", e.Cause) }

// Unwrap exposes the producer's original error to errors.Is / errors.As.
func (e *ProducerError) Unwrap() error { return e.Cause }

// CoordinatorError marks a defect internal to the merge coordinator, as
// opposed to a failure of one of its sources.
type CoordinatorError struct {
	Cause error
}

func (e *CoordinatorError) Error() string {
	return fmt.Sprintf("stream: merge coordinator failed: %v", e.Cause)
}

// Unwrap exposes the underlying defect to errors.Is / errors.As.
func (e *CoordinatorError) Unwrap() error { return e.Cause }

// coerceTerminal normalizes a producer return value into the stream error
// taxonomy. Errors already belonging to the taxonomy pass through unchanged
// so operator chains propagate upstream terminal state verbatim; context
// cancellation collapses to ErrCancelled; anything else is a ProducerError.
func coerceTerminal(err error) error {
	if err == nil {
		return nil
	}
	var pe *ProducerError
	var ce *CoordinatorError
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrCancelled) ||
		errors.As(err, &pe) || errors.As(err, &ce) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrCancelled
	}
	return &ProducerError{Cause: err}
}
