package ratelimiter

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned by constructors and permit-acquiring methods when the caller
// supplies a permits count or rate that the limiter cannot act on: permits <= 0, a rate that is
// non-positive or NaN, a negative warmup period, or a cold factor < 1.
var ErrInvalidArgument = errors.New("ratelimiter: invalid argument")

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidArgument)
}
