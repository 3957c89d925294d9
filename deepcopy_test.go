package cache

import "testing"

type seedVal struct {
	Tags []string `json:"tags"`
}

func TestDeepCopy(t *testing.T) {
	t.Run("SeedUnaffectedByLaterMutation", func(t *testing.T) {
		seed := map[string]seedVal{"k": {Tags: []string{"original"}}}
		m := New[seedVal](WithInitial[seedVal](seed))

		seed["k"].Tags[0] = "mutated" // mutate the backing array the caller still holds

		e, ok := m.Peek("k")
		if !ok {
			t.Fatalf("expected seeded key present")
		}
		if e.Value.Tags[0] != "original" {
			t.Fatalf("expected cached value unaffected by later seed mutation, got %+v", e.Value)
		}
	})
}
