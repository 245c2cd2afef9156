// Package overrides loads user override catalogs from the filesystem.
//
// Two directory roots hold one file per entity, named <entity>.conf.
// Files under the triggers root customize which packages a trigger
// rebuilds; files under the packages root restrict which triggers may
// mark a package. An empty (or comment-only) file is a sentinel that
// blocks the entity entirely.
package overrides

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kilnworks/kiln/internal/glob"
	"github.com/kilnworks/kiln/internal/log"
)

const confExt = ".conf"

// Store holds both override catalogs, loaded once and immutable after.
// A nil pattern slice never occurs; an empty slice is the blocking
// sentinel (Disabled for triggers, NeverMark for packages).
type Store struct {
	triggers map[string][]string
	packages map[string][]string
}

// Load reads both catalogs. Missing roots and missing files mean no
// overrides. A file that cannot be read is skipped with a log entry;
// the remaining files still load.
func Load(triggersDir, packagesDir string) *Store {
	return &Store{
		triggers: loadDir(triggersDir),
		packages: loadDir(packagesDir),
	}
}

func loadDir(dir string) map[string][]string {
	out := make(map[string][]string)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn(log.CatTrigger, "override directory unreadable", "dir", dir, "error", err.Error())
		}
		return out
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), confExt) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), confExt)
		patterns, err := readPatterns(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Warn(log.CatTrigger, "skipping unreadable override file",
				"file", entry.Name(), "error", err.Error())
			continue
		}
		out[name] = patterns
	}
	return out
}

// readPatterns parses one override file: trimmed non-blank lines that do
// not start with '#', in file order. Zero surviving lines yields the
// empty (blocking) pattern list.
func readPatterns(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	patterns := []string{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}

// TriggerTargets resolves the override for a trigger against the AUR
// universe. The second return is false when no override file exists and
// the caller must fall back to reverse-dependency discovery. A Disabled
// override yields an empty list. Pattern overrides yield every universe
// member matching at least one pattern, minus -bin packages.
func (s *Store) TriggerTargets(trigger string, universe []string) ([]string, bool) {
	patterns, ok := s.triggers[trigger]
	if !ok {
		return nil, false
	}
	targets := []string{}
	if len(patterns) == 0 {
		return targets, true
	}
	for _, pkg := range universe {
		if strings.HasSuffix(pkg, "-bin") {
			continue
		}
		if glob.MatchAny(patterns, pkg) {
			targets = append(targets, pkg)
		}
	}
	return targets, true
}

// ShouldMark reports whether a package may be marked by a trigger.
// Default-allow when no package override exists; a NeverMark sentinel
// blocks every trigger; otherwise the trigger name must match one of
// the package's patterns.
func (s *Store) ShouldMark(pkg, trigger string) bool {
	patterns, ok := s.packages[pkg]
	if !ok {
		return true
	}
	return glob.MatchAny(patterns, trigger)
}

// IsUserTrigger reports whether a trigger-override file exists for the
// name, regardless of the curated registry.
func (s *Store) IsUserTrigger(name string) bool {
	_, ok := s.triggers[name]
	return ok
}

// UserTriggers returns the names of all user-defined triggers, sorted.
func (s *Store) UserTriggers() []string {
	names := make([]string, 0, len(s.triggers))
	for name := range s.triggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
