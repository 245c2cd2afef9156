package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("KILN_CONFIG_DIR", "")
	t.Setenv("KILN_CONFIG", "")
	t.Setenv("KILN_DB_PATH", "")

	require.Equal(t, "/etc/kiln", ConfigDir())
	require.Equal(t, "/etc/kiln/config.yaml", ConfigFile())
	require.Equal(t, "/var/lib/kiln/kiln.db", DBPath())
	require.Equal(t, "/etc/kiln/triggers", TriggersDir())
	require.Equal(t, "/etc/kiln/packages", PackagesDir())
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("KILN_CONFIG_DIR", dir)
	t.Setenv("KILN_DB_PATH", filepath.Join(dir, "kiln.db"))

	require.Equal(t, dir, ConfigDir())
	require.Equal(t, filepath.Join(dir, "config.yaml"), ConfigFile())
	require.Equal(t, filepath.Join(dir, "kiln.db"), DBPath())
	require.Equal(t, filepath.Join(dir, "triggers"), TriggersDir())
	require.Equal(t, filepath.Join(dir, "packages"), PackagesDir())
}

func TestConfigFileOverrideWinsOverDir(t *testing.T) {
	t.Setenv("KILN_CONFIG_DIR", "/somewhere")
	t.Setenv("KILN_CONFIG", "/elsewhere/kiln.yaml")

	require.Equal(t, "/elsewhere/kiln.yaml", ConfigFile())
}
