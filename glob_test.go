package cache

import "testing"

func TestMatchesAny(t *testing.T) {
	cases := []struct {
		key      string
		patterns []string
		want     bool
	}{
		{"house/1", []string{"house/*"}, true},
		{"house/2", []string{"house/*"}, true},
		{"guest/2", []string{"house/*"}, false},
		{"house/1", []string{"literal", "house/*"}, true},
		{"literal", []string{"literal"}, true},
		{"literally-not", []string{"literal"}, false},
	}
	for _, c := range cases {
		t.Run(c.key+"/"+c.patterns[0], func(t *testing.T) {
			if got := matchesAny(c.key, c.patterns); got != c.want {
				t.Errorf("matchesAny(%q, %v) = %v, want %v", c.key, c.patterns, got, c.want)
			}
		})
	}
}
