package cache

import (
	"errors"
	"fmt"
)

// Error taxonomy. Apart from an attached caller's ctx.Err() when its context
// is cancelled, these are the only error kinds Get returns. Options never
// produce an error: invalid values are ignored or replaced by defaults.
var (
	// ErrColdTimeout is returned when a worker times out for a key with no
	// stale Entry available to fall back on.
	ErrColdTimeout = errors.New("swrcache: cold timeout")

	// ErrColdRejection is returned when a worker returns an error (or panics)
	// for a key with no stale Entry available.
	ErrColdRejection = errors.New("swrcache: cold rejection")

	// ErrColdCooldown is returned when a Missing key is requested while its
	// WaitingRegistry entry is still live.
	ErrColdCooldown = errors.New("swrcache: cold cooldown")
)

func coldTimeoutErr(key string) error {
	return fmt.Errorf("%w: key=%s", ErrColdTimeout, key)
}

func coldRejectionErr(key string, cause error) error {
	return fmt.Errorf("%w: key=%s: %v", ErrColdRejection, key, cause)
}

func coldCooldownErr(key string) error {
	return fmt.Errorf("%w: key=%s", ErrColdCooldown, key)
}
