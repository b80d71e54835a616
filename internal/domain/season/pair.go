package season

import (
	"sort"
	"strings"
)

// Pair is an unordered pair of player ids usable as a map key. The
// constructor enforces canonical ordering so (a,b) and (b,a) collide.
type Pair struct {
	A string
	B string
}

// NewPair builds the canonical pair for two ids.
func NewPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Combinations visits every unordered 2-combination of ids exactly once,
// after deduplication. Input order is preserved for the dedup pass so
// visit order stays deterministic.
func Combinations(ids []string, visit func(Pair)) {
	uniq := Dedup(ids)
	for i := 0; i < len(uniq); i++ {
		for j := i + 1; j < len(uniq); j++ {
			visit(NewPair(uniq[i], uniq[j]))
		}
	}
}

// UnitKey is the canonical identity of a full defensive unit: the sorted,
// deduplicated member ids joined into one string. Slices cannot key maps,
// so the joined form stands in; members are recovered via SplitUnitKey.
type UnitKey string

const unitKeySep = "\x1f"

// NewUnitKey canonicalizes a member list into a unit key. Returns "" when
// fewer than two distinct members remain after dedup.
func NewUnitKey(ids []string) UnitKey {
	uniq := Dedup(ids)
	if len(uniq) < 2 {
		return ""
	}
	sort.Strings(uniq)
	return UnitKey(strings.Join(uniq, unitKeySep))
}

// SplitUnitKey recovers the sorted member ids from a unit key.
func SplitUnitKey(k UnitKey) []string {
	if k == "" {
		return nil
	}
	return strings.Split(string(k), unitKeySep)
}

// Dedup returns the ids with duplicates and empties removed, first
// occurrence order preserved.
func Dedup(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
