package overrides

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConf(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".conf"), []byte(content), 0o644))
}

func TestLoadMissingRoots(t *testing.T) {
	s := Load("/nonexistent/triggers", "/nonexistent/packages")
	_, ok := s.TriggerTargets("anything", []string{"pkg"})
	require.False(t, ok)
	require.True(t, s.ShouldMark("pkg", "anything"))
	require.False(t, s.IsUserTrigger("anything"))
	require.Empty(t, s.UserTriggers())
}

func TestTriggerTargets(t *testing.T) {
	triggers := t.TempDir()
	writeConf(t, triggers, "custom-lib", "custom-app\ncustom-*\n")

	s := Load(triggers, t.TempDir())
	universe := []string{"custom-app", "custom-tool", "custom-bin", "other-pkg"}

	targets, ok := s.TriggerTargets("custom-lib", universe)
	require.True(t, ok)
	require.Equal(t, []string{"custom-app", "custom-tool"}, targets)

	_, ok = s.TriggerTargets("unlisted", universe)
	require.False(t, ok)
}

func TestTriggerTargetsDisabled(t *testing.T) {
	triggers := t.TempDir()
	writeConf(t, triggers, "empty", "")
	writeConf(t, triggers, "comments", "# disabled on purpose\n\n   \n")

	s := Load(triggers, t.TempDir())
	universe := []string{"anything"}

	for _, name := range []string{"empty", "comments"} {
		targets, ok := s.TriggerTargets(name, universe)
		require.True(t, ok, name)
		require.Empty(t, targets, name)
		require.True(t, s.IsUserTrigger(name))
	}
}

func TestTriggerTargetsCommentsAndWhitespace(t *testing.T) {
	triggers := t.TempDir()
	writeConf(t, triggers, "lib", "# header comment\n  pkg-a  \n\npkg-b\n# trailing\n")

	s := Load(triggers, t.TempDir())
	targets, ok := s.TriggerTargets("lib", []string{"pkg-a", "pkg-b", "pkg-c"})
	require.True(t, ok)
	require.Equal(t, []string{"pkg-a", "pkg-b"}, targets)
}

func TestNonConfFilesIgnored(t *testing.T) {
	triggers := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(triggers, "notes.txt"), []byte("pkg"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(triggers, "README"), []byte("pkg"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(triggers, "sub.conf"), 0o755))

	s := Load(triggers, t.TempDir())
	require.Empty(t, s.UserTriggers())
}

func TestShouldMark(t *testing.T) {
	packages := t.TempDir()
	writeConf(t, packages, "picky-pkg", "qt6-*\nboost\n")
	writeConf(t, packages, "never-pkg", "")

	s := Load(t.TempDir(), packages)

	require.True(t, s.ShouldMark("unlisted-pkg", "anything"))

	require.True(t, s.ShouldMark("picky-pkg", "qt6-base"))
	require.True(t, s.ShouldMark("picky-pkg", "boost"))
	require.False(t, s.ShouldMark("picky-pkg", "openssl"))

	require.False(t, s.ShouldMark("never-pkg", "qt6-base"))
	require.False(t, s.ShouldMark("never-pkg", "anything-else"))
}

func TestUserTriggersSorted(t *testing.T) {
	triggers := t.TempDir()
	writeConf(t, triggers, "zlib-ng", "pkg")
	writeConf(t, triggers, "custom-lib", "pkg")
	writeConf(t, triggers, "abc", "pkg")

	s := Load(triggers, t.TempDir())
	require.Equal(t, []string{"abc", "custom-lib", "zlib-ng"}, s.UserTriggers())
}

func TestUnreadableFileSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits do not apply to root")
	}
	triggers := t.TempDir()
	writeConf(t, triggers, "good", "pkg-a")
	path := filepath.Join(triggers, "bad.conf")
	require.NoError(t, os.WriteFile(path, []byte("pkg-b"), 0o000))

	s := Load(triggers, t.TempDir())
	require.True(t, s.IsUserTrigger("good"))
	require.False(t, s.IsUserTrigger("bad"))
}
