// Package paths resolves kiln's filesystem locations. Environment
// variables override the system defaults, mainly for tests and
// non-root development.
package paths

import (
	"os"
	"path/filepath"
)

// System defaults.
const (
	DefaultConfigDir = "/etc/kiln"
	DefaultDBPath    = "/var/lib/kiln/kiln.db"
)

// ConfigDir returns the configuration root, honoring KILN_CONFIG_DIR.
func ConfigDir() string {
	if dir := os.Getenv("KILN_CONFIG_DIR"); dir != "" {
		return dir
	}
	return DefaultConfigDir
}

// ConfigFile returns the config file path, honoring KILN_CONFIG.
func ConfigFile() string {
	if path := os.Getenv("KILN_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DBPath returns the queue database path, honoring KILN_DB_PATH.
func DBPath() string {
	if path := os.Getenv("KILN_DB_PATH"); path != "" {
		return path
	}
	return DefaultDBPath
}

// TriggersDir returns the trigger override directory.
func TriggersDir() string {
	return filepath.Join(ConfigDir(), "triggers")
}

// PackagesDir returns the package override directory.
func PackagesDir() string {
	return filepath.Join(ConfigDir(), "packages")
}
