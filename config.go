package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Constants for fallback configuration values, mirroring the teacher's
// env-driven defaults but renamed to this cache's own vocabulary.
const (
	defaultTTLMinutesFallback           = 5
	defaultWorkerTimeoutSecondsFallback = 5
	defaultDeltaWaitSecondsFallback     = 10
	defaultMaxLengthFallback            = 10_000
)

// handlerConfig holds Manager-wide defaults.
type handlerConfig[T any] struct {
	initial           map[string]T
	maxLength         int
	log               Logger
	clock             Clock
	defaultTTL        time.Duration
	defaultWorkerWait time.Duration // workerTimeout default
	defaultDeltaWait  time.Duration
}

// parseEnvDuration parses envKey as a float64 and converts it to a
// time.Duration with the given unit, falling back when missing or invalid.
func parseEnvDuration(envKey string, unit time.Duration, fallback float64) (time.Duration, error) {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return time.Duration(fallback) * unit, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return time.Duration(fallback) * unit, fmt.Errorf("parse %s: %w", envKey, err)
	}
	if value <= 0 {
		return time.Duration(fallback) * unit, fmt.Errorf("%s must be > 0", envKey)
	}
	return time.Duration(value * float64(unit)), nil
}

// parseEnvInt parses envKey as an int, falling back when missing or invalid.
func parseEnvInt(envKey string, fallback int) (int, error) {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback, fmt.Errorf("parse %s: %w", envKey, err)
	}
	if value <= 0 {
		return fallback, fmt.Errorf("%s must be > 0", envKey)
	}
	return value, nil
}

// loadHandlerConfig loads Manager defaults from environment variables
// (optionally via a .env file). A missing value falls back to its package
// default; an invalid value makes it return an error.
func loadHandlerConfig[T any]() (handlerConfig[T], error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return handlerConfig[T]{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	defaultTTL, err := parseEnvDuration("SWRCACHE_DEFAULT_TTL_MINUTES", time.Minute, defaultTTLMinutesFallback)
	if err != nil {
		return handlerConfig[T]{}, err
	}
	defaultWorkerWait, err := parseEnvDuration("SWRCACHE_WORKER_TIMEOUT_SECONDS", time.Second, defaultWorkerTimeoutSecondsFallback)
	if err != nil {
		return handlerConfig[T]{}, err
	}
	defaultDeltaWait, err := parseEnvDuration("SWRCACHE_DELTA_WAIT_SECONDS", time.Second, defaultDeltaWaitSecondsFallback)
	if err != nil {
		return handlerConfig[T]{}, err
	}
	maxLength, err := parseEnvInt("SWRCACHE_MAX_LENGTH", defaultMaxLengthFallback)
	if err != nil {
		return handlerConfig[T]{}, err
	}

	return handlerConfig[T]{
		maxLength:         maxLength,
		log:               defaultLogger(),
		clock:             realClock,
		defaultTTL:        defaultTTL,
		defaultWorkerWait: defaultWorkerWait,
		defaultDeltaWait:  defaultDeltaWait,
	}, nil
}

// ---------------------------
// Factory options
// ---------------------------

// WithInitial preloads key→value entries. Each value is deep-copied so later
// mutation of the caller's map does not affect cached values (Invariant 5).
func WithInitial[T any](initial map[string]T) Option[T] {
	return func(c *handlerConfig[T]) { c.initial = initial }
}

// WithMaxLength bounds the Store's LRU capacity.
func WithMaxLength[T any](n int) Option[T] {
	return func(c *handlerConfig[T]) {
		if n > 0 {
			c.maxLength = n
		}
	}
}

// WithLogger supplies a diagnostics sink. An hclog.Logger satisfies Logger
// directly.
func WithLogger[T any](log Logger) Option[T] {
	return func(c *handlerConfig[T]) {
		if log != nil {
			c.log = log
		}
	}
}

// WithClock overrides the Manager's time source. Used by tests.
func WithClock[T any](clock Clock) Option[T] {
	return func(c *handlerConfig[T]) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithDefaultTTL sets the instance-wide default Entry TTL.
func WithDefaultTTL[T any](ttl time.Duration) Option[T] {
	return func(c *handlerConfig[T]) { c.defaultTTL = ttl }
}

// WithDefaultWorkerTimeout sets the instance-wide default worker timeout.
func WithDefaultWorkerTimeout[T any](d time.Duration) Option[T] {
	return func(c *handlerConfig[T]) { c.defaultWorkerWait = d }
}

// WithDefaultDeltaWait sets the instance-wide default cooldown duration.
func WithDefaultDeltaWait[T any](d time.Duration) Option[T] {
	return func(c *handlerConfig[T]) { c.defaultDeltaWait = d }
}

// ---------------------------
// Call options
// ---------------------------

// WithTTL stamps this call's produced Entry with a specific TTL.
func WithTTL(ttl time.Duration) CallOption {
	return func(c *callOpts) { c.ttl = ttl }
}

// WithWorkerTimeout overrides the worker timeout for this call.
func WithWorkerTimeout(d time.Duration) CallOption {
	return func(c *callOpts) { c.workerTimeout = d }
}

// WithDeltaWait overrides the cooldown duration armed by this call's failure.
func WithDeltaWait(d time.Duration) CallOption {
	return func(c *callOpts) { c.deltaWait = d }
}
