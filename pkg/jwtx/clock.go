package jwtx

import "time"

// Clock abstracts "current time" so expiry checks can be pinned in tests.
// Production code uses SystemClock; tests use FixedClock.
type Clock interface {
	Now() time.Time
}

// SystemClock reports wall-clock time in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always reports T. Useful for exercising expiry boundaries.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }
