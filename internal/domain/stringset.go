package domain

import (
	"strings"

	"github.com/samber/lo"
)

// StringSet is a set of strings that keeps insertion order for display.
// Equality is set equality; order carries no meaning.
type StringSet []string

// NewStringSet builds a set from values, trimming blanks and dropping duplicates.
func NewStringSet(values ...string) StringSet {
	out := make(StringSet, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || lo.Contains([]string(out), v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func (s StringSet) Contains(v string) bool { return lo.Contains([]string(s), v) }

// Toggle inserts v if absent and removes it if present.
func (s StringSet) Toggle(v string) StringSet {
	if s.Contains(v) {
		return StringSet(lo.Without([]string(s), v))
	}
	out := make(StringSet, 0, len(s)+1)
	out = append(out, s...)
	return append(out, v)
}

// Equal reports whether both sets hold the same values.
func (s StringSet) Equal(o StringSet) bool {
	if len(s) != len(o) {
		return false
	}
	for _, v := range s {
		if !o.Contains(v) {
			return false
		}
	}
	return true
}

// Clone returns a copy that never aliases s. A nil set clones to an empty one.
func (s StringSet) Clone() StringSet {
	out := make(StringSet, len(s))
	copy(out, s)
	return out
}
