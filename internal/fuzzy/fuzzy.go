// Package fuzzy ranks near-miss candidates for "did you mean" suggestions on
// unknown flags and child command aliases.
package fuzzy

import "strings"

// Matcher finds candidates within a bounded edit distance of an input.
type Matcher struct {
	maxDistance int
	minLength   int
}

// NewMatcher creates a matcher tolerating at most maxDistance edits. Inputs
// shorter than two characters never yield suggestions; almost anything is one
// edit away from them.
func NewMatcher(maxDistance int) *Matcher {
	return &Matcher{maxDistance: maxDistance, minLength: 2}
}

// Best returns the closest candidate to input within the distance bound, or
// "" when nothing qualifies. Comparison is case-insensitive; ties are broken
// by the longer common prefix with the input, then by candidate order.
func (m *Matcher) Best(input string, candidates []string) string {
	if len(input) < m.minLength {
		return ""
	}
	in := strings.ToLower(input)

	best := ""
	bestDist := m.maxDistance + 1
	bestPrefix := -1
	for _, candidate := range candidates {
		cl := strings.ToLower(candidate)
		if cl == in {
			continue
		}
		d := m.distance(in, cl)
		if d > m.maxDistance {
			continue
		}
		p := commonPrefix(in, cl)
		if d < bestDist || (d == bestDist && p > bestPrefix) {
			best, bestDist, bestPrefix = candidate, d, p
		}
	}
	return best
}

// distance is the Levenshtein distance between a and b, computed with two
// rolling rows and cut off early once every cell in a row exceeds the bound.
func (m *Matcher) distance(a, b string) int {
	if abs(len(a)-len(b)) > m.maxDistance {
		return m.maxDistance + 1
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	cur := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for i := 1; i <= len(b); i++ {
		cur[0] = i
		rowMin := i
		for j := 1; j <= len(a); j++ {
			cost := 0
			if a[j-1] != b[i-1] {
				cost = 1
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
			if cur[j] < rowMin {
				rowMin = cur[j]
			}
		}
		if rowMin > m.maxDistance {
			return m.maxDistance + 1
		}
		prev, cur = cur, prev
	}
	return prev[len(a)]
}

func commonPrefix(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// BestFlag suggests a flag name for a mistyped one, tolerating two edits.
func BestFlag(input string, flags []string) string {
	return NewMatcher(2).Best(input, flags)
}

// BestAlias suggests a child command alias for a mistyped one.
func BestAlias(input string, aliases []string) string {
	return NewMatcher(2).Best(input, aliases)
}
