package cache

import (
	"testing"
	"time"
)

func TestWaitingRegistry(t *testing.T) {
	t.Run("ArmAndLive", func(t *testing.T) {
		r := newWaitingRegistry()
		now := time.Unix(100, 0)

		r.arm("k", now, 10*time.Millisecond)
		rec, ok := r.get("k")
		if !ok || rec.Wait != 10*time.Millisecond {
			t.Fatalf("unexpected record: %+v, ok=%v", rec, ok)
		}
		if !rec.live(now.Add(5 * time.Millisecond)) {
			t.Errorf("expected cooldown to still be live 5ms in")
		}
		if rec.live(now.Add(11 * time.Millisecond)) {
			t.Errorf("expected cooldown to have expired after 11ms")
		}
	})

	t.Run("ArmDoesNotResetLiveRecord", func(t *testing.T) {
		r := newWaitingRegistry()
		start := time.Unix(100, 0)
		r.arm("k", start, 100*time.Millisecond)

		// Re-arming while still live must not move Started forward.
		r.arm("k", start.Add(10*time.Millisecond), 100*time.Millisecond)

		rec, _ := r.get("k")
		if !rec.Started.Equal(start) {
			t.Fatalf("expected Started unchanged at %v, got %v", start, rec.Started)
		}
	})

	t.Run("ArmReplacesExpiredRecord", func(t *testing.T) {
		r := newWaitingRegistry()
		start := time.Unix(100, 0)
		r.arm("k", start, 10*time.Millisecond)

		later := start.Add(20 * time.Millisecond)
		r.arm("k", later, 10*time.Millisecond)

		rec, _ := r.get("k")
		if !rec.Started.Equal(later) {
			t.Fatalf("expected Started replaced with %v, got %v", later, rec.Started)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		r := newWaitingRegistry()
		r.arm("k", time.Unix(0, 0), time.Second)
		r.clear("k")
		if _, ok := r.get("k"); ok {
			t.Fatalf("expected record to be cleared")
		}
	})
}
