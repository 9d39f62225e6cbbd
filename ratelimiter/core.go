package ratelimiter

import (
	"math"
	"sync"
	"time"

	"github.com/sergii-sakharov/ratelimiter/internal/util"
)

// rateLimiter is the shared permit-pool state machine. It is identical for both variants except
// for the plugged-in policy, which supplies the three numbers that differ between them: the
// capacity of the stored-permit pool, the idle-time cost of one stored permit, and the cost of
// redeeming stored permits.
type rateLimiter struct {
	mu        sync.Mutex
	stopwatch SleepingStopwatch
	policy    policy

	permitsPerSecond     float64
	stableIntervalMicros float64
	maxPermits           float64
	storedPermits        float64
	nextFreeTicketMicros int64
}

func newRateLimiter(p policy, permitsPerSecond float64, stopwatch SleepingStopwatch) (*rateLimiter, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	r := &rateLimiter{policy: p, stopwatch: stopwatch}
	if err := r.setRateLocked(permitsPerSecond); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *rateLimiter) SetRate(permitsPerSecond float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Resync against the rate in effect up to this instant before the new rate, and its derived
	// constants, take over.
	r.resync(r.stopwatch.ReadMicros())
	return r.setRateLocked(permitsPerSecond)
}

func (r *rateLimiter) setRateLocked(permitsPerSecond float64) error {
	if math.IsNaN(permitsPerSecond) || permitsPerSecond <= 0 {
		return invalidArgument("rate must be positive, got %v", permitsPerSecond)
	}

	if math.IsInf(permitsPerSecond, 1) {
		r.stableIntervalMicros = 0
	} else {
		r.stableIntervalMicros = 1e6 / permitsPerSecond
	}

	oldMaxPermits := r.maxPermits
	newMaxPermits := r.policy.maxPermitsFor(permitsPerSecond, r.stableIntervalMicros)
	r.storedPermits = r.policy.rescaleStoredPermits(r.storedPermits, oldMaxPermits, newMaxPermits)
	r.maxPermits = newMaxPermits
	r.permitsPerSecond = permitsPerSecond
	return nil
}

func (r *rateLimiter) Rate() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.permitsPerSecond
}

// resync credits storedPermits for any idle time since nextFreeTicketMicros and advances
// nextFreeTicketMicros to now. A no-op if now hasn't passed nextFreeTicketMicros yet.
func (r *rateLimiter) resync(nowMicros int64) {
	if nowMicros <= r.nextFreeTicketMicros {
		return
	}
	cooldown := r.policy.coolDownIntervalMicros(r.stableIntervalMicros, r.maxPermits)
	var newPermits float64
	if cooldown > 0 {
		newPermits = float64(nowMicros-r.nextFreeTicketMicros) / cooldown
	}
	r.storedPermits = math.Min(r.maxPermits, r.storedPermits+newPermits)
	r.nextFreeTicketMicros = nowMicros
}

// reserveAndGetWaitLength resyncs to now, commits a reservation for permits, and returns the
// instant (in stopwatch micros, as read by ReadMicros) at which that reservation may begin. The
// caller's actual wait is max(0, returned instant - now).
func (r *rateLimiter) reserveAndGetWaitLength(permits int, nowMicros int64) int64 {
	r.resync(nowMicros)

	returnValue := r.nextFreeTicketMicros
	storedPermitsToSpend := math.Min(float64(permits), r.storedPermits)
	freshPermits := float64(permits) - storedPermitsToSpend

	waitMicros := r.policy.storedPermitsToWaitTime(r.storedPermits, storedPermitsToSpend, r.stableIntervalMicros) +
		freshPermits*r.stableIntervalMicros

	r.nextFreeTicketMicros = util.SaturatingAdd(r.nextFreeTicketMicros, int64(math.Round(waitMicros)))
	r.storedPermits -= storedPermitsToSpend
	return returnValue
}

func (r *rateLimiter) AcquireN(permits int) (time.Duration, error) {
	if permits <= 0 {
		return 0, invalidArgument("permits must be positive, got %d", permits)
	}

	r.mu.Lock()
	now := r.stopwatch.ReadMicros()
	momentAvailable := r.reserveAndGetWaitLength(permits, now)
	r.mu.Unlock()

	waitMicros := waitFrom(momentAvailable, now)
	r.stopwatch.SleepMicrosUninterruptibly(waitMicros)
	return time.Duration(waitMicros) * time.Microsecond, nil
}

func (r *rateLimiter) Acquire() (time.Duration, error) {
	return r.AcquireN(1)
}

func (r *rateLimiter) TryAcquireN(permits int) (bool, error) {
	return r.TryAcquireNWithTimeout(permits, 0)
}

func (r *rateLimiter) TryAcquire() (bool, error) {
	return r.TryAcquireNWithTimeout(1, 0)
}

func (r *rateLimiter) TryAcquireWithTimeout(timeout time.Duration) (bool, error) {
	return r.TryAcquireNWithTimeout(1, timeout)
}

func (r *rateLimiter) TryAcquireNWithTimeout(permits int, timeout time.Duration) (bool, error) {
	if permits <= 0 {
		return false, invalidArgument("permits must be positive, got %d", permits)
	}
	timeoutMicros := timeout.Microseconds()
	if timeoutMicros < 0 {
		timeoutMicros = 0
	}

	r.mu.Lock()
	now := r.stopwatch.ReadMicros()
	if !r.canAcquireLocked(now, timeoutMicros) {
		r.mu.Unlock()
		return false, nil
	}
	momentAvailable := r.reserveAndGetWaitLength(permits, now)
	r.mu.Unlock()

	waitMicros := waitFrom(momentAvailable, now)
	r.stopwatch.SleepMicrosUninterruptibly(waitMicros)
	return true, nil
}

// canAcquireLocked reports whether the next reservation would start no later than timeoutMicros
// from now, without resyncing or mutating any state. Deliberately compares the pre-resync
// nextFreeTicketMicros: if enough idle time has passed that permits are already available,
// nextFreeTicketMicros is in the past and the comparison holds regardless.
func (r *rateLimiter) canAcquireLocked(nowMicros, timeoutMicros int64) bool {
	return util.SaturatingSub(r.nextFreeTicketMicros, timeoutMicros) <= nowMicros
}

func waitFrom(momentAvailable, now int64) int64 {
	if wait := momentAvailable - now; wait > 0 {
		return wait
	}
	return 0
}
