package cache

import goglob "github.com/ryanuber/go-glob"

// matchesAny reports whether key matches any of patterns, using the go-glob
// matcher Consul uses for ACL and catalog pattern matching. A "*" matches any
// run of characters, so a trailing "*" matches any suffix, and a pattern
// without "*" matches only the identical key.
func matchesAny(key string, patterns []string) bool {
	for _, p := range patterns {
		if goglob.Glob(p, key) {
			return true
		}
	}
	return false
}
