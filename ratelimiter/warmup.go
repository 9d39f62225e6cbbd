package ratelimiter

import "math"

// warmingUpPolicy implements the warming-up variant: a limiter that has been idle behaves as if
// it were cold, charging more than the stable interval for permits stored above
// thresholdPermits, with the per-permit cost ramping linearly (the "slope") up to
// coldFactor*stableInterval at maxPermits. thresholdPermits and slope are derived constants that
// only change when the rate changes, so they're cached on the policy rather than recomputed per
// reservation.
type warmingUpPolicy struct {
	warmupPeriodMicros float64
	coldFactor         float64

	thresholdPermits float64
	slope            float64
}

func (p *warmingUpPolicy) maxPermitsFor(_, stableIntervalMicros float64) float64 {
	if stableIntervalMicros == 0 {
		// Infinite rate: no stable interval to ramp from, so the warmup ramp collapses.
		p.thresholdPermits = 0
		p.slope = 0
		return 0
	}

	coldIntervalMicros := p.coldFactor * stableIntervalMicros
	p.thresholdPermits = 0.5 * p.warmupPeriodMicros / stableIntervalMicros
	warmupPermits := 2 * p.warmupPeriodMicros / (stableIntervalMicros + coldIntervalMicros)
	maxPermits := p.thresholdPermits + warmupPermits
	p.slope = (coldIntervalMicros - stableIntervalMicros) / warmupPermits
	return maxPermits
}

func (p *warmingUpPolicy) rescaleStoredPermits(storedPermits, oldMaxPermits, newMaxPermits float64) float64 {
	if oldMaxPermits == 0 || math.IsInf(oldMaxPermits, 1) {
		return newMaxPermits
	}
	return newMaxPermits * (storedPermits / oldMaxPermits)
}

func (p *warmingUpPolicy) coolDownIntervalMicros(_, maxPermits float64) float64 {
	if maxPermits == 0 {
		return 0
	}
	return p.warmupPeriodMicros / maxPermits
}

// permitsToTime returns the per-permit cost, in micros, at an offset of permitsAboveThreshold
// permits above thresholdPermits.
func (p *warmingUpPolicy) permitsToTime(permitsAboveThreshold, stableIntervalMicros float64) float64 {
	return stableIntervalMicros + permitsAboveThreshold*p.slope
}

func (p *warmingUpPolicy) storedPermitsToWaitTime(storedPermits, permitsToTake, stableIntervalMicros float64) float64 {
	permitsAboveThreshold := storedPermits - p.thresholdPermits
	var cost float64
	k := 0.0
	if permitsAboveThreshold > 0 {
		k = math.Min(permitsToTake, permitsAboveThreshold)
		length := p.permitsToTime(permitsAboveThreshold, stableIntervalMicros) +
			p.permitsToTime(permitsAboveThreshold-k, stableIntervalMicros)
		cost = k * length / 2
	}
	remaining := permitsToTake - k
	return cost + remaining*stableIntervalMicros
}

func (p *warmingUpPolicy) validate() error {
	if p.warmupPeriodMicros < 0 {
		return invalidArgument("warmup period must be non-negative, got %v micros", p.warmupPeriodMicros)
	}
	if p.coldFactor < 1 {
		return invalidArgument("cold factor must be >= 1, got %v", p.coldFactor)
	}
	return nil
}
