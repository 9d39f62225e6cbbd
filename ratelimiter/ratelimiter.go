/*
Package ratelimiter distributes a bounded supply of permits over wall-clock time, so that callers
requesting permits are made to wait (or refuse to wait) such that the long-run issuance rate
never exceeds a configured permits-per-second target. It is the coordination primitive beneath
admission control, outbound request pacing, and bulk-work throttling.

There are two variants. A Bursty limiter lets every permit accumulated during idle time be
redeemed immediately, up to a capped burst; build one with NewBursty or NewBurstyWithMaxBurst. A
WarmingUp limiter instead models a limiter that's gone cold during idle time: permits stored
above a threshold cost progressively more than the stable interval to redeem, ramping back down
to the stable interval as the limiter warms back up; build one with NewWarmingUp or
NewWarmingUpWithColdFactor.

Both variants share the same accounting engine and only differ in how many permits they can
store and what redeeming a stored permit costs — see policy.go.
*/
package ratelimiter

import "time"

// RateLimiter distributes permits at a configured permits-per-second rate. All methods are safe
// for concurrent use.
type RateLimiter interface {
	// SetRate changes the stable rate. Returns ErrInvalidArgument if permitsPerSecond is <= 0 or
	// NaN. +Inf is a legal rate: it disables rate limiting entirely.
	SetRate(permitsPerSecond float64) error

	// Rate returns the current stable rate.
	Rate() float64

	// Acquire blocks until one permit is available and returns how long the caller waited.
	Acquire() (time.Duration, error)

	// AcquireN blocks until permits permits are available and returns how long the caller
	// waited. Returns ErrInvalidArgument if permits <= 0.
	AcquireN(permits int) (time.Duration, error)

	// TryAcquire acquires one permit if it's available without any wait, returning whether it
	// succeeded. Never blocks.
	TryAcquire() (bool, error)

	// TryAcquireN acquires permits permits if they're available without any wait. Returns
	// ErrInvalidArgument if permits <= 0. Never blocks.
	TryAcquireN(permits int) (bool, error)

	// TryAcquireWithTimeout acquires one permit if it becomes available within timeout,
	// blocking for at most timeout. A negative timeout is treated as zero.
	TryAcquireWithTimeout(timeout time.Duration) (bool, error)

	// TryAcquireNWithTimeout acquires permits permits if they become available within timeout,
	// blocking for at most timeout. Returns ErrInvalidArgument if permits <= 0. A negative
	// timeout is treated as zero.
	TryAcquireNWithTimeout(permits int, timeout time.Duration) (bool, error)
}

// Builder configures and builds a RateLimiter.
type Builder interface {
	// WithStopwatch injects the clock and sleep primitive the limiter is built on, in place of
	// the default monotonic-clock implementation. Intended for tests and deterministic replay.
	WithStopwatch(stopwatch SleepingStopwatch) Builder

	// Build returns a new RateLimiter using the builder's configuration, or ErrInvalidArgument
	// if the configuration is invalid.
	Build() (RateLimiter, error)
}

type builder struct {
	permitsPerSecond float64
	policyFn         func() policy
	stopwatch        SleepingStopwatch
}

func (b *builder) WithStopwatch(stopwatch SleepingStopwatch) Builder {
	b.stopwatch = stopwatch
	return b
}

func (b *builder) Build() (RateLimiter, error) {
	sw := b.stopwatch
	if sw == nil {
		sw = newSystemStopwatch()
	}
	return newRateLimiter(b.policyFn(), b.permitsPerSecond, sw)
}

// NewBurstyBuilder returns a Builder for a bursty RateLimiter with the default 1-second max
// burst, for the given permits-per-second rate.
func NewBurstyBuilder(permitsPerSecond float64) Builder {
	return NewBurstyBuilderWithMaxBurst(permitsPerSecond, defaultMaxBurstSeconds)
}

// NewBurstyBuilderWithMaxBurst returns a Builder for a bursty RateLimiter whose stored-permit
// pool can accumulate up to maxBurstSeconds worth of permits at permitsPerSecond.
func NewBurstyBuilderWithMaxBurst(permitsPerSecond, maxBurstSeconds float64) Builder {
	return &builder{
		permitsPerSecond: permitsPerSecond,
		policyFn: func() policy {
			return &burstyPolicy{maxBurstSeconds: maxBurstSeconds}
		},
	}
}

// NewWarmingUpBuilder returns a Builder for a warming-up RateLimiter with a cold factor of 3.0.
func NewWarmingUpBuilder(permitsPerSecond float64, warmupPeriod time.Duration) Builder {
	return NewWarmingUpBuilderWithColdFactor(permitsPerSecond, warmupPeriod, 3.0)
}

// NewWarmingUpBuilderWithColdFactor returns a Builder for a warming-up RateLimiter. coldFactor
// must be > 1, except for the degenerate coldFactor == 1.0 case, which produces a flat ramp:
// every stored permit then costs exactly one stable interval, so the limiter paces at the stable
// rate with no burst.
func NewWarmingUpBuilderWithColdFactor(permitsPerSecond float64, warmupPeriod time.Duration, coldFactor float64) Builder {
	return &builder{
		permitsPerSecond: permitsPerSecond,
		policyFn: func() policy {
			return &warmingUpPolicy{
				warmupPeriodMicros: float64(warmupPeriod.Microseconds()),
				coldFactor:         coldFactor,
			}
		},
		stopwatch: nil,
	}
}

// NewBursty returns a bursty RateLimiter with the default 1-second max burst.
func NewBursty(permitsPerSecond float64) (RateLimiter, error) {
	return NewBurstyBuilder(permitsPerSecond).Build()
}

// NewBurstyWithMaxBurst returns a bursty RateLimiter whose stored-permit pool can accumulate up
// to maxBurstSeconds worth of permits.
func NewBurstyWithMaxBurst(permitsPerSecond, maxBurstSeconds float64) (RateLimiter, error) {
	return NewBurstyBuilderWithMaxBurst(permitsPerSecond, maxBurstSeconds).Build()
}

// NewWarmingUp returns a warming-up RateLimiter with a cold factor of 3.0.
func NewWarmingUp(permitsPerSecond float64, warmupPeriod time.Duration) (RateLimiter, error) {
	return NewWarmingUpBuilder(permitsPerSecond, warmupPeriod).Build()
}

// NewWarmingUpWithColdFactor returns a warming-up RateLimiter with an explicit cold factor.
func NewWarmingUpWithColdFactor(permitsPerSecond float64, warmupPeriod time.Duration, coldFactor float64) (RateLimiter, error) {
	return NewWarmingUpBuilderWithColdFactor(permitsPerSecond, warmupPeriod, coldFactor).Build()
}
