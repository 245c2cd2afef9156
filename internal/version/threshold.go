package version

import "fmt"

// Threshold is the minimum version-change severity required to fire a
// trigger. Thresholds form a strict containment order: anything that
// clears Major also clears Minor, Patch and Always.
type Threshold int

const (
	// ThresholdMajor fires only on major version changes (1.x.x -> 2.x.x).
	ThresholdMajor Threshold = iota
	// ThresholdMinor fires on major or minor changes (1.1.x -> 1.2.x).
	ThresholdMinor
	// ThresholdPatch fires on any version change (1.1.1 -> 1.1.2).
	ThresholdPatch
	// ThresholdAlways fires on any change at all, pkgrel included.
	ThresholdAlways
)

// String returns the config-file spelling of the threshold.
func (t Threshold) String() string {
	switch t {
	case ThresholdMajor:
		return "major"
	case ThresholdMinor:
		return "minor"
	case ThresholdPatch:
		return "patch"
	case ThresholdAlways:
		return "always"
	default:
		return "unknown"
	}
}

// ParseThreshold parses a threshold name as spelled in config files.
func ParseThreshold(s string) (Threshold, error) {
	switch s {
	case "major":
		return ThresholdMajor, nil
	case "minor":
		return ThresholdMinor, nil
	case "patch":
		return ThresholdPatch, nil
	case "always":
		return ThresholdAlways, nil
	default:
		return 0, fmt.Errorf("invalid threshold %q, expected: major, minor, patch, always", s)
	}
}

// Exceeds reports whether the change from prev to next clears the
// threshold and should fire a trigger.
func Exceeds(prev, next Version, threshold Threshold) bool {
	switch threshold {
	case ThresholdAlways:
		// The only threshold sensitive to pkgrel.
		return !prev.Equal(next) || prev.Pkgrel != next.Pkgrel

	case ThresholdMajor:
		if prev.Epoch != next.Epoch {
			return true
		}
		oldMaj, oldOK := prev.Major()
		newMaj, newOK := next.Major()
		if oldOK && newOK {
			return oldMaj != newMaj
		}
		// Degenerate versions without a major component: any difference
		// counts.
		return !prev.Equal(next)

	case ThresholdMinor:
		if prev.Epoch != next.Epoch {
			return true
		}
		oldMaj, oldMajOK := prev.Major()
		newMaj, newMajOK := next.Major()
		if oldMajOK && newMajOK && oldMaj != newMaj {
			return true
		}
		oldMin, oldOK := prev.Minor()
		newMin, newOK := next.Minor()
		switch {
		case oldOK && newOK:
			return oldMin != newMin
		case oldOK != newOK:
			// "1" -> "1.1" gained a minor component; that is a change.
			return true
		default:
			return oldMajOK != newMajOK || oldMaj != newMaj
		}

	case ThresholdPatch:
		return prev.Epoch != next.Epoch || !prev.Equal(next)

	default:
		return true
	}
}
