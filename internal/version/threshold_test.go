package version

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseThreshold(t *testing.T) {
	for s, want := range map[string]Threshold{
		"major":  ThresholdMajor,
		"minor":  ThresholdMinor,
		"patch":  ThresholdPatch,
		"always": ThresholdAlways,
	} {
		got, err := ParseThreshold(s)
		require.NoError(t, err)
		require.Equal(t, want, got)
		require.Equal(t, s, got.String())
	}

	_, err := ParseThreshold("critical")
	require.Error(t, err)
}

func TestExceeds(t *testing.T) {
	tests := []struct {
		name      string
		old, new  string
		threshold Threshold
		want      bool
	}{
		{"major fires on major", "1.0.0", "2.0.0", ThresholdMajor, true},
		{"major ignores minor", "1.0.0", "1.1.0", ThresholdMajor, false},
		{"major ignores patch", "1.0.0", "1.0.1", ThresholdMajor, false},
		{"major fires on epoch", "1.0.0", "1:1.0.0", ThresholdMajor, true},

		{"minor fires on major", "1.0.0", "2.0.0", ThresholdMinor, true},
		{"minor fires on minor", "1.0.0", "1.1.0", ThresholdMinor, true},
		{"minor ignores patch", "1.0.0", "1.0.1", ThresholdMinor, false},
		{"minor fires on epoch", "1.0.0", "1:1.0.0", ThresholdMinor, true},
		{"minor fires when minor added", "1", "1.1", ThresholdMinor, true},

		{"patch fires on major", "1.0.0", "2.0.0", ThresholdPatch, true},
		{"patch fires on patch", "1.0.0", "1.0.1", ThresholdPatch, true},
		{"patch ignores pkgrel", "1.0.0-1", "1.0.0-2", ThresholdPatch, false},

		{"always fires on any change", "1.0.0", "1.0.0a", ThresholdAlways, true},
		{"always fires on pkgrel", "1.0.0-1", "1.0.0-2", ThresholdAlways, true},
		{"always quiet when identical", "1.0.0-1", "1.0.0-1", ThresholdAlways, false},

		// Real-world sensitivity checks.
		{"qt minor bump clears minor", "6.7.2", "6.8.0", ThresholdMinor, true},
		{"qt minor bump below major", "6.7.2", "6.8.0", ThresholdMajor, false},
		{"boost minor bump", "1.85.0", "1.86.0", ThresholdMinor, true},
		{"electron major bump", "30.0.0", "31.0.0", ThresholdMajor, true},
		{"protobuf patch bump clears patch", "27.0.0", "27.0.1", ThresholdPatch, true},
		{"protobuf patch bump below minor", "27.0.0", "27.0.1", ThresholdMinor, false},
		{"glibc stays within major", "2.39", "2.40", ThresholdMajor, false},
		{"glibc clears minor", "2.39", "2.40", ThresholdMinor, true},
		{"abseil date change", "20240116.2", "20240722.0", ThresholdAlways, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev, next := mustParse(t, tt.old), mustParse(t, tt.new)
			require.Equal(t, tt.want, Exceeds(prev, next, tt.threshold))
		})
	}
}

// versionGen draws plausible and degenerate version strings.
var versionGen = rapid.OneOf(
	rapid.StringMatching(`[0-9]{1,4}(\.[0-9]{1,3}){0,3}`),
	rapid.StringMatching(`[0-9]:[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}-[0-9]{1,2}`),
	rapid.StringMatching(`[0-9]{1,2}\.[0-9]{1,2}(alpha|beta|rc)[0-9]{0,2}`),
	rapid.StringMatching(`[0-9]{8}(\.[0-9])?`),
)

// Thresholds contain each other strictly: clearing Major implies
// clearing Minor, which implies Patch, which implies Always.
func TestExceedsContainmentChain(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		prev, okOld := Parse(versionGen.Draw(t, "old"))
		next, okNew := Parse(versionGen.Draw(t, "new"))
		if !okOld || !okNew {
			t.Skip("unparseable draw")
		}

		chain := []Threshold{ThresholdMajor, ThresholdMinor, ThresholdPatch, ThresholdAlways}
		for i := 0; i+1 < len(chain); i++ {
			if Exceeds(prev, next, chain[i]) && !Exceeds(prev, next, chain[i+1]) {
				t.Fatalf("exceeds(%v) without exceeds(%v) for %v -> %v",
					chain[i], chain[i+1], prev, next)
			}
		}
	})
}

// Compare is a total order: antisymmetric and consistent with Equal.
func TestCompareConsistency(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a, okA := Parse(versionGen.Draw(t, "a"))
		b, okB := Parse(versionGen.Draw(t, "b"))
		if !okA || !okB {
			t.Skip("unparseable draw")
		}

		ab, ba := a.Compare(b), b.Compare(a)
		if ab > 0 && ba >= 0 || ab < 0 && ba <= 0 || ab == 0 && ba != 0 {
			t.Fatalf("Compare not antisymmetric: %v vs %v -> %d, %d", a, b, ab, ba)
		}
		if a.Equal(b) != (ab == 0) {
			t.Fatalf("Equal inconsistent with Compare for %v vs %v", a, b)
		}
	})
}
