package cache

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Manager is the cache coordinator: it owns the Store, the WaitingRegistry,
// and the WorkerRegistry, and implements the Get state machine that ties
// them together. A Manager is a closed unit — there is no process-wide
// singleton, and two Managers share nothing.
type Manager[T any] struct {
	mu      sync.Mutex
	config  handlerConfig[T]
	store   *store[T]
	waiting *waitingRegistry
	workers *workerRegistry[T]
}

// New creates a Manager. Instance-wide defaults are loaded from the
// environment (see config.go), then overridden by opts in order.
func New[T any](opts ...Option[T]) *Manager[T] {
	config, err := loadHandlerConfig[T]()
	if err != nil {
		config = defaultHandlerConfig[T]()
	}
	for _, o := range opts {
		o(&config)
	}

	m := &Manager[T]{
		config:  config,
		store:   newStore[T](config.maxLength, config.log),
		waiting: newWaitingRegistry(),
		workers: newWorkerRegistry[T](),
	}

	// Seed in ascending key order so that, when the seed exceeds maxLength,
	// the keys evicted are deterministic (the ones sorting first).
	seedKeys := make([]string, 0, len(config.initial))
	for key := range config.initial {
		seedKeys = append(seedKeys, key)
	}
	sort.Strings(seedKeys)
	for _, key := range seedKeys {
		v := config.initial[key]
		cp, err := deepCopy(v)
		if err != nil {
			// Marshaling the caller's own seed failed; fall back to storing
			// it directly rather than dropping the seed entirely.
			cp = v
		}
		m.store.set(key, Entry[T]{
			Value:   cp,
			TTL:     m.config.defaultTTL,
			Created: m.config.clock.Now(),
			Cache:   CacheHit,
		})
	}

	return m
}

func defaultHandlerConfig[T any]() handlerConfig[T] {
	return handlerConfig[T]{
		maxLength:         defaultMaxLengthFallback,
		log:               defaultLogger(),
		clock:             realClock,
		defaultTTL:        defaultTTLMinutesFallback * time.Minute,
		defaultWorkerWait: defaultWorkerTimeoutSecondsFallback * time.Second,
		defaultDeltaWait:  defaultDeltaWaitSecondsFallback * time.Second,
	}
}

func (m *Manager[T]) resolveCallOpts(opts []CallOption) callOpts {
	co := callOpts{
		ttl:           m.config.defaultTTL,
		workerTimeout: m.config.defaultWorkerWait,
		deltaWait:     m.config.defaultDeltaWait,
	}
	for _, o := range opts {
		o(&co)
	}
	return co
}

// Get implements the request lifecycle state machine (spec §4.1). worker may
// be nil; a nil worker against a Stale or Missing key resolves to (nil, nil),
// except for the stale-entry-with-live-cooldown combination, where the stale
// Entry is handed back instead (see DESIGN.md's Open Question decisions —
// this is the one case spec.md leaves open, not a general no-worker
// shortcut).
func (m *Manager[T]) Get(ctx context.Context, key string, worker Generator[T], opts ...CallOption) (*Outcome[T], error) {
	co := m.resolveCallOpts(opts)

	m.mu.Lock()
	now := m.config.clock.Now()
	entry, exists := m.store.get(key)
	waitRec, hasWaitRec := m.waiting.get(key)
	inCooldown := hasWaitRec && waitRec.live(now)

	if exists && entry.fresh(now) {
		m.mu.Unlock()
		return &Outcome[T]{Value: entry.Value, Cache: CacheHit, Created: entry.Created, TTL: entry.TTL}, nil
	}

	if worker == nil {
		m.mu.Unlock()
		if exists && inCooldown {
			return &Outcome[T]{Value: entry.Value, Cache: CacheStale, Created: entry.Created, TTL: entry.TTL}, nil
		}
		return nil, nil
	}

	if inCooldown {
		m.config.log.Debug("swrcache: suppressing worker, key in cooldown", "key", key)
		m.mu.Unlock()
		if exists {
			return &Outcome[T]{Value: entry.Value, Cache: CacheStale, Created: entry.Created, TTL: entry.TTL}, nil
		}
		return nil, coldCooldownErr(key)
	}

	// Out of cooldown, Missing or Stale, worker supplied: single-flight.
	h, originator := m.workers.attachOrCreate(key, exists, entry)
	m.mu.Unlock()

	if !originator {
		if err := h.wait(ctx); err != nil {
			return nil, err
		}
		return h.outcomeFor(false)
	}

	result := invokeWithTimeout(worker, co.workerTimeout)
	m.settleWorker(key, h, exists, result, co)
	return h.outcomeFor(true)
}

// settleWorker applies the worker outcome table (spec §4.1): it mutates the
// Store and WaitingRegistry exactly once, populates the handle's shared
// result, and releases every attached caller. Only the originator calls
// this.
func (m *Manager[T]) settleWorker(key string, h *workerHandle[T], wasStale bool, result workerOutcome[T], co callOpts) {
	m.mu.Lock()
	now := m.config.clock.Now()

	switch {
	case !result.timedOut && result.err == nil:
		entry := Entry[T]{Value: result.value, TTL: co.ttl, Created: now, Cache: CacheHit}
		m.store.set(key, entry)
		m.waiting.clear(key)
		h.success = true
		h.value = result.value
		h.ttl = co.ttl
		h.created = now

	case result.timedOut:
		m.config.log.Warn("swrcache: worker timed out", "key", key)
		m.waiting.arm(key, now, co.deltaWait)
		if !wasStale {
			h.finalErr = coldTimeoutErr(key)
		}

	default:
		m.config.log.Warn("swrcache: worker rejected", "key", key, "error", result.err)
		m.waiting.arm(key, now, co.deltaWait)
		if !wasStale {
			h.finalErr = coldRejectionErr(key, result.err)
		}
	}

	m.mu.Unlock()
	m.workers.settle(key, h)
}

// Set inserts an Entry with the given value and TTL. It does not touch the
// WaitingRegistry or WorkerRegistry.
func (m *Manager[T]) Set(key string, value T, opts ...CallOption) {
	co := m.resolveCallOpts(opts)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.set(key, Entry[T]{
		Value:   value,
		TTL:     co.ttl,
		Created: m.config.clock.Now(),
		Cache:   CacheHit,
	})
}

// Has reports whether key is present in the Store.
func (m *Manager[T]) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.has(key)
}

// Del removes key from the Store.
func (m *Manager[T]) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.del(key)
}

// Clear empties the Store.
func (m *Manager[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.clear()
}

// Keys returns the Store's current keys, most-recently-used first.
func (m *Manager[T]) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.keys()
}

// Expire forces the TTL of every key matched by any pattern to 0, rendering
// them Stale on next read. Patterns are literal keys or a trailing "*"
// wildcard. Idempotent: expiring an already-expired key is a no-op.
func (m *Manager[T]) Expire(patterns []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range m.store.keys() {
		if matchesAny(key, patterns) {
			m.store.expireTTL(key)
		}
	}
}

// Waiting returns a snapshot of the WaitingRegistry, for inspection and
// tests.
func (m *Manager[T]) Waiting() map[string]WaitingRecord {
	return m.waiting.snapshot()
}

// Peek returns key's raw Entry without affecting recency or freshness
// classification, for inspection and tests.
func (m *Manager[T]) Peek(key string) (Entry[T], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.store.lru.Peek(key)
	if !ok {
		return Entry[T]{}, false
	}
	return *(v.(*Entry[T])), true
}
