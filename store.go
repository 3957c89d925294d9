package cache

import (
	lru "github.com/hashicorp/golang-lru"
)

// store is the bounded, string-keyed LRU container of Entry[T] records.
// TTL is a caller concern: Get returns the Entry as stored, expired or not,
// and never mutates it on read.
type store[T any] struct {
	lru *lru.Cache
}

func newStore[T any](maxLength int, log Logger) *store[T] {
	if maxLength <= 0 {
		maxLength = defaultMaxLengthFallback
	}
	c, err := lru.NewWithEvict(maxLength, func(key interface{}, _ interface{}) {
		log.Debug("swrcache: LRU eviction", "key", key)
	})
	if err != nil {
		// Only returned by golang-lru when size <= 0, which newStore already
		// guards against.
		panic(err)
	}
	return &store[T]{lru: c}
}

// get returns the Entry for key as stored, and whether it was present.
func (s *store[T]) get(key string) (Entry[T], bool) {
	v, ok := s.lru.Get(key)
	if !ok {
		return Entry[T]{}, false
	}
	return *(v.(*Entry[T])), true
}

// set inserts or updates key's Entry, evicting the least-recently-used entry
// if the Store is over capacity.
func (s *store[T]) set(key string, e Entry[T]) {
	s.lru.Add(key, &e)
}

// del removes key, if present.
func (s *store[T]) del(key string) {
	s.lru.Remove(key)
}

// has reports whether key is present, without affecting recency.
func (s *store[T]) has(key string) bool {
	return s.lru.Contains(key)
}

// clear empties the Store.
func (s *store[T]) clear() {
	s.lru.Purge()
}

// keys returns the current keys, most-recently-used first.
func (s *store[T]) keys() []string {
	raw := s.lru.Keys() // oldest to newest
	out := make([]string, len(raw))
	for i, k := range raw {
		out[len(raw)-1-i] = k.(string)
	}
	return out
}

// expireTTL forces key's TTL to 0, rendering it Stale on next read, without
// removing it from the Store. No-op if key is absent.
func (s *store[T]) expireTTL(key string) {
	v, ok := s.lru.Peek(key)
	if !ok {
		return
	}
	e := v.(*Entry[T])
	e.TTL = 0
}
