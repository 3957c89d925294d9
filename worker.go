package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// workerHandle is the single-flight coalescing primitive: exactly one exists
// per key while a worker invocation is in flight (Invariant 1). The
// originator (the caller that created it) runs the worker and populates the
// result fields below before closing done; every attached caller only reads
// them.
type workerHandle[T any] struct {
	done chan struct{}

	// Captured at creation time, from the classification the originator saw.
	wasStale   bool
	staleEntry Entry[T]

	// Populated by the originator exactly once, before done is closed.
	success  bool
	value    T
	ttl      time.Duration
	created  time.Time
	finalErr error // non-nil only on the cold (missing-key) failure path
}

// outcomeFor builds the Outcome this particular caller observes. Only the
// success path distinguishes originator from attached caller (miss vs hit,
// per the single-flight tagging rule); failure outcomes are identical for
// everyone who attached, by construction.
func (h *workerHandle[T]) outcomeFor(originator bool) (*Outcome[T], error) {
	if h.finalErr != nil {
		return nil, h.finalErr
	}
	if h.success {
		tag := CacheMiss
		if !originator {
			tag = CacheHit
		}
		return &Outcome[T]{Value: h.value, Cache: tag, Created: h.created, TTL: h.ttl}, nil
	}
	// Timeout/rejection recovered locally against a stale Entry.
	return &Outcome[T]{
		Value:   h.staleEntry.Value,
		Cache:   CacheStale,
		Created: h.staleEntry.Created,
		TTL:     h.staleEntry.TTL,
	}, nil
}

// wait blocks an attached caller until the originator settles the handle, or
// until ctx is cancelled. Cancellation here is additive to spec.md: it only
// lets this caller stop waiting, and never affects the worker invocation or
// any other attachee.
func (h *workerHandle[T]) wait(ctx context.Context) error {
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// workerRegistry is the key → *workerHandle[T] single-flight map. It was
// evaluated against golang.org/x/sync/singleflight and hand-rolled instead:
// singleflight.Group.Do only reports whether a result was shared, which
// cannot express this spec's "first caller gets miss, every attached caller
// gets hit" rule. The locking shape below is grounded on the teacher's
// lock.go keyed mutex (a map of channels guarded by a mutex), extended to
// broadcast a shared result instead of just a permit.
type workerRegistry[T any] struct {
	mu      sync.Mutex
	handles map[string]*workerHandle[T]
}

func newWorkerRegistry[T any]() *workerRegistry[T] {
	return &workerRegistry[T]{handles: make(map[string]*workerHandle[T])}
}

// attachOrCreate returns the handle for key. If none exists, one is created
// with the given stale snapshot and originator is true: the caller must run
// the worker and settle the handle. Otherwise originator is false: the
// caller must attach via wait and read the shared result.
func (wr *workerRegistry[T]) attachOrCreate(key string, wasStale bool, staleEntry Entry[T]) (h *workerHandle[T], originator bool) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	if existing, ok := wr.handles[key]; ok {
		return existing, false
	}
	h = &workerHandle[T]{
		done:       make(chan struct{}),
		wasStale:   wasStale,
		staleEntry: staleEntry,
	}
	wr.handles[key] = h
	return h, true
}

// settle removes key's handle and then closes done, releasing every attached
// caller. Only the originator calls this, after populating the handle's
// result fields.
func (wr *workerRegistry[T]) settle(key string, h *workerHandle[T]) {
	wr.mu.Lock()
	if wr.handles[key] == h {
		delete(wr.handles, key)
	}
	wr.mu.Unlock()
	close(h.done)
}

// workerOutcome is the raw value-or-error of one worker invocation, before
// it's turned into a tagged Outcome.
type workerOutcome[T any] struct {
	value    T
	err      error
	timedOut bool
}

// invokeWithTimeout runs worker in its own goroutine against a context
// detached from any particular caller (mirroring the teacher's background
// helpers, which always derive from context.Background rather than a
// request context, so a cancelled caller never aborts work shared with
// other attachees). timeout is always armed, including zero or negative
// values — time.NewTimer fires those practically immediately, which is
// exactly the "never give a worker more than this" semantics a caller
// asks for by passing a zero workerTimeout. If timeout elapses first, the
// invocation is reported as timed out; the worker's eventual result,
// whenever it arrives, is simply never read again — the guard against a
// late resolution mutating cache state is structural, not a flag to check.
func invokeWithTimeout[T any](worker Generator[T], timeout time.Duration) workerOutcome[T] {
	type result struct {
		value T
		err   error
	}
	resultCh := make(chan result, 1)

	go func() {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		defer func() {
			if r := recover(); r != nil {
				var zero T
				resultCh <- result{value: zero, err: fmt.Errorf("worker panic: %v", r)}
			}
		}()
		v, err := worker(ctx)
		resultCh <- result{value: v, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r := <-resultCh:
		return workerOutcome[T]{value: r.value, err: r.err}
	case <-timer.C:
		var zero T
		return workerOutcome[T]{value: zero, timedOut: true}
	}
}
