// Package version parses and compares Arch Linux package versions.
//
// It handles the loosely structured formats seen in practice: semver
// ("1.2.3"), two-part ("1.2"), epoch-prefixed ("1:2.3.4"), pkgrel-suffixed
// ("1.2.3-1"), pre-release ("1.2.3alpha", "1.2.3-rc1") and date-based
// ("20240101", "2024.01.01") versions.
package version

import (
	"strconv"
	"strings"
)

// SegmentKind discriminates numeric from alphabetic version segments.
type SegmentKind int

const (
	// Numeric is a run of digits, e.g. 1, 23, 2024.
	Numeric SegmentKind = iota
	// Alpha is a run of non-digit characters, e.g. "alpha", "rc".
	Alpha
)

// Segment is a single piece of a version string. Exactly one of Num or
// Str is meaningful, selected by Kind.
type Segment struct {
	Kind SegmentKind
	Num  uint64
	Str  string
}

// NumericSegment returns a numeric segment.
func NumericSegment(n uint64) Segment {
	return Segment{Kind: Numeric, Num: n}
}

// AlphaSegment returns an alphabetic segment.
func AlphaSegment(s string) Segment {
	return Segment{Kind: Alpha, Str: s}
}

// compare orders two segments. At the same position a numeric segment
// always sorts after an alphabetic one, so "1.0" > "1.0rc1".
func (s Segment) compare(other Segment) int {
	switch {
	case s.Kind == Numeric && other.Kind == Numeric:
		switch {
		case s.Num < other.Num:
			return -1
		case s.Num > other.Num:
			return 1
		default:
			return 0
		}
	case s.Kind == Alpha && other.Kind == Alpha:
		return strings.Compare(s.Str, other.Str)
	case s.Kind == Numeric:
		return 1
	default:
		return -1
	}
}

// Version is a parsed package version. Pkgrel is excluded from version
// comparison; only the Always threshold looks at it.
type Version struct {
	// Epoch is the "1:" in "1:2.3.4-5". Defaults to 0.
	Epoch uint64
	// Segments hold the version body, non-empty for any parsed version.
	Segments []Segment
	// Pkgrel is the "-5" in "1:2.3.4-5", empty when absent. Digits and
	// dots only; "-rc1" style suffixes stay in the version body instead.
	Pkgrel string
}

// Parse parses a version string. The second return value is false when
// the input is empty, has an epoch prefix with nothing after it, or
// yields no segments. Callers treat a failed parse as "cannot determine
// magnitude" rather than an error.
func Parse(input string) (Version, bool) {
	if input == "" {
		return Version{}, false
	}

	remaining := input

	var epoch uint64
	if idx := strings.IndexByte(remaining, ':'); idx >= 0 {
		n, err := strconv.ParseUint(remaining[:idx], 10, 64)
		if err != nil {
			return Version{}, false
		}
		epoch = n
		remaining = remaining[idx+1:]
	}

	// The text after the last hyphen is a pkgrel only when it is purely
	// digits and dots; otherwise it is part of the version body, which
	// keeps pre-release suffixes like "-rc1" comparable.
	var pkgrel string
	if idx := strings.LastIndexByte(remaining, '-'); idx >= 0 {
		if candidate := remaining[idx+1:]; isPkgrel(candidate) {
			pkgrel = candidate
			remaining = remaining[:idx]
		}
	}

	segments := parseSegments(remaining)
	if len(segments) == 0 {
		return Version{}, false
	}

	return Version{Epoch: epoch, Segments: segments, Pkgrel: pkgrel}, true
}

// isPkgrel reports whether s is a valid pkgrel: non-empty, digits and
// dots only (subreleases like "1.1" included).
func isPkgrel(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if c := s[i]; (c < '0' || c > '9') && c != '.' {
			return false
		}
	}
	return true
}

// parseSegments splits a version body like "1.2.3alpha" into segments.
// The body splits on '.', '_' and '-'; within each piece, consecutive
// digit runs become numeric segments and consecutive non-digit runs
// become alpha segments, so "2.0beta3" is [2 0 "beta" 3].
func parseSegments(input string) []Segment {
	var segments []Segment

	for _, part := range strings.FieldsFunc(input, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	}) {
		start := 0
		digits := isDigit(part[0])
		for i := 1; i <= len(part); i++ {
			if i < len(part) && isDigit(part[i]) == digits {
				continue
			}
			run := part[start:i]
			if digits {
				if n, err := strconv.ParseUint(run, 10, 64); err == nil {
					segments = append(segments, NumericSegment(n))
				}
			} else {
				segments = append(segments, AlphaSegment(run))
			}
			if i < len(part) {
				start = i
				digits = isDigit(part[i])
			}
		}
	}

	return segments
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// nthNumeric returns the n-th (0-based) numeric segment, skipping alpha
// segments while counting.
func (v Version) nthNumeric(n int) (uint64, bool) {
	seen := 0
	for _, s := range v.Segments {
		if s.Kind != Numeric {
			continue
		}
		if seen == n {
			return s.Num, true
		}
		seen++
	}
	return 0, false
}

// Major returns the first numeric segment, if any.
func (v Version) Major() (uint64, bool) { return v.nthNumeric(0) }

// Minor returns the second numeric segment, if any.
func (v Version) Minor() (uint64, bool) { return v.nthNumeric(1) }

// Patch returns the third numeric segment, if any.
func (v Version) Patch() (uint64, bool) { return v.nthNumeric(2) }

// Compare orders two versions: negative when v < other, zero when equal,
// positive when v > other. Epoch wins outright. Segments compare index by
// index; when one side runs out, a trailing numeric segment on the longer
// side makes it greater ("1.2.3" > "1.2") while a trailing alpha segment
// makes it lesser ("1.0.0" > "1.0.0rc1"). Pkgrel never participates.
func (v Version) Compare(other Version) int {
	switch {
	case v.Epoch < other.Epoch:
		return -1
	case v.Epoch > other.Epoch:
		return 1
	}

	maxLen := len(v.Segments)
	if len(other.Segments) > maxLen {
		maxLen = len(other.Segments)
	}

	for i := 0; i < maxLen; i++ {
		switch {
		case i < len(v.Segments) && i < len(other.Segments):
			if c := v.Segments[i].compare(other.Segments[i]); c != 0 {
				return c
			}
		case i < len(v.Segments):
			if v.Segments[i].Kind == Numeric {
				return 1
			}
			return -1
		default:
			if other.Segments[i].Kind == Numeric {
				return -1
			}
			return 1
		}
	}

	return 0
}

// Equal reports whether the versions compare equal, ignoring pkgrel.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}
