package cache

import (
	"time"

	"github.com/zoobzio/clockz"
)

// Clock is a monotonic time source. Production code uses clockz.RealClock;
// tests inject a fake so cooldown and TTL math is deterministic.
type Clock interface {
	Now() time.Time
}

// realClock is the default Clock, backed by zoobzio/clockz.
var realClock Clock = clockz.RealClock
