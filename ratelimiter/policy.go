package ratelimiter

// policy is the capability set (capacity, stored-permit rescale, cooldown interval, redemption
// cost, parameter validation) that distinguishes a bursty limiter from a warming-up one. Everything else — the mutex, the resync step, the
// reservation arithmetic, SetRate's locking — is shared by both variants in rateLimiter.
type policy interface {
	// maxPermitsFor computes maxPermits for the given rate and derives any internal constants
	// the policy needs (e.g. the warming-up ramp's threshold and slope), caching them for the
	// subsequent coolDownIntervalMicros/storedPermitsToWaitTime calls until the next call here.
	maxPermitsFor(permitsPerSecond, stableIntervalMicros float64) (maxPermits float64)

	// rescaleStoredPermits adjusts storedPermits for a maxPermits change caused by SetRate
	// (including the initial SetRate performed by construction, where oldMaxPermits is 0).
	rescaleStoredPermits(storedPermits, oldMaxPermits, newMaxPermits float64) float64

	// coolDownIntervalMicros is the idle time needed to accrue one stored permit.
	coolDownIntervalMicros(stableIntervalMicros, maxPermits float64) float64

	// storedPermitsToWaitTime is the microseconds needed to draw permitsToTake permits from a
	// stored level of storedPermits.
	storedPermitsToWaitTime(storedPermits, permitsToTake, stableIntervalMicros float64) float64

	// validate checks policy-specific construction parameters (e.g. warmup period, cold
	// factor), independent of the rate.
	validate() error
}
