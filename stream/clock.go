package stream

import "time"

// Clock abstracts time for operators that wait (Debounce, Timeout) so tests
// can drive them deterministically instead of sleeping.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
