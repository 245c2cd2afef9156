// Package registry holds the curated list of ABI-sensitive trigger
// packages and their default thresholds. The list ships embedded in the
// binary and is immutable at runtime; user overrides extend it on disk.
package registry

import (
	"fmt"
	"sort"

	_ "embed"

	"gopkg.in/yaml.v3"

	"github.com/kilnworks/kiln/internal/version"
)

//go:embed registry.yaml
var registryYAML []byte

// Trigger is one curated entry: a package name and the threshold its
// upgrades must clear before dependents are marked.
type Trigger struct {
	Name      string
	Threshold version.Threshold
}

type rawRegistry struct {
	Version  int `yaml:"version"`
	Triggers []struct {
		Name      string `yaml:"name"`
		Threshold string `yaml:"threshold"`
	} `yaml:"triggers"`
}

var (
	listVersion int
	byName      map[string]version.Threshold
	ordered     []Trigger
)

func init() {
	var raw rawRegistry
	if err := yaml.Unmarshal(registryYAML, &raw); err != nil {
		panic(fmt.Sprintf("registry: embedded list unparseable: %v", err))
	}
	byName = make(map[string]version.Threshold, len(raw.Triggers))
	for _, t := range raw.Triggers {
		threshold, err := version.ParseThreshold(t.Threshold)
		if err != nil {
			panic(fmt.Sprintf("registry: trigger %q: %v", t.Name, err))
		}
		if _, dup := byName[t.Name]; dup {
			panic(fmt.Sprintf("registry: duplicate trigger %q", t.Name))
		}
		byName[t.Name] = threshold
		ordered = append(ordered, Trigger{Name: t.Name, Threshold: threshold})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })
	listVersion = raw.Version
}

// Lookup returns the curated threshold for a package name.
func Lookup(name string) (version.Threshold, bool) {
	t, ok := byName[name]
	return t, ok
}

// Contains reports whether the package is a curated trigger.
func Contains(name string) bool {
	_, ok := byName[name]
	return ok
}

// All returns every curated trigger, sorted by name. The returned slice
// is a copy.
func All() []Trigger {
	out := make([]Trigger, len(ordered))
	copy(out, ordered)
	return out
}

// ListVersion returns the version of the embedded curated list.
func ListVersion() int {
	return listVersion
}
