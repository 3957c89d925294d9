package cache

import (
	"testing"
	"time"
)

func TestStore(t *testing.T) {
	t.Run("BasicOps", func(t *testing.T) {
		s := newStore[string](10, defaultLogger())

		if _, ok := s.get("missing"); ok {
			t.Fatalf("expected missing key to be absent")
		}

		s.set("a", Entry[string]{Value: "1", TTL: time.Minute, Created: time.Unix(0, 0)})
		e, ok := s.get("a")
		if !ok || e.Value != "1" {
			t.Fatalf("unexpected entry: %+v, ok=%v", e, ok)
		}

		if !s.has("a") {
			t.Fatalf("expected has(a) to be true")
		}

		s.del("a")
		if s.has("a") {
			t.Fatalf("expected a to be removed")
		}
	})

	t.Run("CapacityEnforced", func(t *testing.T) {
		s := newStore[string](3, defaultLogger())
		for _, k := range []string{"a", "b", "c", "d", "e"} {
			s.set(k, Entry[string]{Value: k, TTL: time.Minute, Created: time.Unix(0, 0)})
			if len(s.keys()) > 3 {
				t.Fatalf("Store exceeded maxLength: %v", s.keys())
			}
		}
	})

	t.Run("ExpireTTLKeepsEntry", func(t *testing.T) {
		s := newStore[string](10, defaultLogger())
		s.set("a", Entry[string]{Value: "1", TTL: time.Minute, Created: time.Unix(0, 0)})
		s.expireTTL("a")
		e, ok := s.get("a")
		if !ok {
			t.Fatalf("expected entry to remain in Store after expireTTL")
		}
		if e.TTL != 0 {
			t.Fatalf("expected TTL forced to 0, got %v", e.TTL)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		s := newStore[string](10, defaultLogger())
		s.set("a", Entry[string]{Value: "1"})
		s.set("b", Entry[string]{Value: "2"})
		s.clear()
		if len(s.keys()) != 0 {
			t.Fatalf("expected empty Store after clear, got %v", s.keys())
		}
	})
}
