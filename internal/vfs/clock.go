package vfs

import "time"

// Clock is injected wherever the engine stamps a timestamp, so tests can
// freeze time (spec.md §9, "Timestamp source is monotonic wall-clock
// seconds; time stands in as a testable clock injection").
type Clock interface {
	Now() int64
}

// SystemClock reads the real wall clock, truncated to whole seconds.
type SystemClock struct{}

func (SystemClock) Now() int64 { return time.Now().Unix() }

// FixedClock always returns the same instant; useful in tests.
type FixedClock int64

func (c FixedClock) Now() int64 { return int64(c) }
