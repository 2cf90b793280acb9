// Package identifier parses and orders step identifiers.
//
// A step identifier is a non-negative integer base with an optional single
// lowercase letter suffix: "0", "1", "1a", "10", "23z". Suffixed
// identifiers name alternative steps minted for the base they share.
// Ordering is by (base, suffix), so "2" < "10" and "1" < "1a" < "1b" < "2".
package identifier

import (
	"fmt"
	"regexp"
	"sort"
)

// MaxLen is the longest identifier the engine will mint or accept.
const MaxLen = 10

var pattern = regexp.MustCompile(`^(\d+)([a-z]?)$`)

// Key is the sortable form of an identifier.
type Key struct {
	Base   int
	Suffix string
}

// Parse converts an identifier to its sortable key. Malformed input (no
// leading digits, uppercase suffix, multi-letter suffix) yields (0, id),
// which sorts before every well-formed identifier. Callers that mint
// identifiers must check Valid first; Parse never fails.
func Parse(id string) Key {
	m := pattern.FindStringSubmatch(id)
	if m == nil {
		return Key{Base: 0, Suffix: id}
	}
	base := 0
	for _, c := range m[1] {
		base = base*10 + int(c-'0')
	}
	return Key{Base: base, Suffix: m[2]}
}

// Valid reports whether id matches the identifier grammar and length limit.
func Valid(id string) bool {
	return len(id) > 0 && len(id) <= MaxLen && pattern.MatchString(id)
}

// Format builds an identifier from a base and suffix.
func Format(base int, suffix string) string {
	return fmt.Sprintf("%d%s", base, suffix)
}

// Compare returns -1, 0 or +1 ordering a relative to b.
func Compare(a, b string) int {
	ka, kb := Parse(a), Parse(b)
	switch {
	case ka.Base != kb.Base:
		if ka.Base < kb.Base {
			return -1
		}
		return 1
	case ka.Suffix != kb.Suffix:
		if ka.Suffix < kb.Suffix {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// Less reports whether a sorts before b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// SortAll returns a new slice with ids in natural order. The input is not
// modified.
func SortAll(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	sort.SliceStable(out, func(i, j int) bool {
		return Less(out[i], out[j])
	})
	return out
}

// Next returns the smallest identifier in ids that sorts strictly after
// current. The second return is false at the end of the order. current
// itself does not have to appear in ids: a pointer resting on a blocked
// step still advances to the right successor.
func Next(current string, ids []string) (string, bool) {
	for _, id := range SortAll(ids) {
		if Less(current, id) {
			return id, true
		}
	}
	return "", false
}

// Previous returns the largest identifier in ids that sorts strictly
// before current. The second return is false at the start of the order.
func Previous(current string, ids []string) (string, bool) {
	sorted := SortAll(ids)
	for i := len(sorted) - 1; i >= 0; i-- {
		if Less(sorted[i], current) {
			return sorted[i], true
		}
	}
	return "", false
}
