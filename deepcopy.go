package cache

import (
	"encoding/json"
	"fmt"
)

// deepCopy round-trips v through JSON, the same technique the teacher uses
// for every value crossing the Redis boundary, repurposed here as an
// in-process deep copy so a seeded value can never be mutated through the
// caller's original reference (Invariant 5).
func deepCopy[T any](v T) (T, error) {
	var out T
	b, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("deep copy marshal: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("deep copy unmarshal: %w", err)
	}
	return out, nil
}
