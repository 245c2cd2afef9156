// Package glob implements the wildcard matching used by override files.
//
// The alphabet is deliberately small: '*' matches any run of characters
// (including none), '?' matches exactly one character, and everything
// else matches itself. There are no character classes and no special
// treatment of '/' or '.', unlike path.Match.
package glob

// Match reports whether text matches pattern.
//
// Runs in linear time using the two-pointer star-bookmark technique: on a
// mismatch after a '*', matching resumes just past the bookmarked star
// with one more text character consumed by it.
func Match(pattern, text string) bool {
	p, t := 0, 0
	star, mark := -1, 0

	for t < len(text) {
		switch {
		case p < len(pattern) && (pattern[p] == '?' || pattern[p] == text[t]):
			p++
			t++
		case p < len(pattern) && pattern[p] == '*':
			star = p
			mark = t
			p++
		case star >= 0:
			p = star + 1
			mark++
			t = mark
		default:
			return false
		}
	}

	// Only trailing stars may remain.
	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}

// MatchAny reports whether text matches at least one of the patterns.
func MatchAny(patterns []string, text string) bool {
	for _, pattern := range patterns {
		if Match(pattern, text) {
			return true
		}
	}
	return false
}
