// Package trigger implements the rebuild decision pipeline. Given a
// batch of upgrade notifications it decides which AUR packages must be
// rebuilt, combining the curated registry, user overrides, and the
// pacman dependency graph.
package trigger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kilnworks/kiln/internal/log"
	"github.com/kilnworks/kiln/internal/overrides"
	"github.com/kilnworks/kiln/internal/registry"
	"github.com/kilnworks/kiln/internal/version"
)

// DependencyResolver answers reverse-dependency queries, typically by
// shelling out to pactree.
type DependencyResolver interface {
	ReverseDependencies(ctx context.Context, pkg string) ([]string, error)
}

// ForeignProvider enumerates foreign (non-repository) packages,
// typically via pacman -Qmq. Queried at most once per batch.
type ForeignProvider interface {
	ForeignPackages(ctx context.Context) ([]string, error)
}

// Input is one upgrade notification. Versions are either both present
// or both absent; absent means the change magnitude is unknown and the
// trigger fires unconditionally.
type Input struct {
	Name       string
	OldVersion string
	NewVersion string
}

// ParseInput parses a raw argument of the form name or name:old:new.
// The split happens on the first two colons only, so a new version may
// itself contain an epoch colon. Anything other than the exact
// three-part shape keeps the whole raw string as the name; a malformed
// spec must not be mistaken for a bare trigger that fires
// unconditionally.
func ParseInput(raw string) Input {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) == 3 {
		return Input{Name: parts[0], OldVersion: parts[1], NewVersion: parts[2]}
	}
	return Input{Name: raw}
}

// HasVersions reports whether the input carries version information.
func (in Input) HasVersions() bool {
	return in.OldVersion != "" && in.NewVersion != ""
}

// exceedsThreshold gates the input on version-change magnitude.
// Missing or unparseable versions fail open: a rebuild that was not
// needed is cheaper than one that was silently skipped.
func (in Input) exceedsThreshold(threshold version.Threshold) bool {
	if !in.HasVersions() {
		return true
	}
	prev, okOld := version.Parse(in.OldVersion)
	next, okNew := version.Parse(in.NewVersion)
	if !okOld || !okNew {
		log.Debug(log.CatTrigger, "unparseable version, failing open",
			"trigger", in.Name, "old", in.OldVersion, "new", in.NewVersion)
		return true
	}
	return version.Exceeds(prev, next, threshold)
}

// MarkedPackage attributes a rebuild decision to the trigger that
// caused it.
type MarkedPackage struct {
	Package string
	Trigger string
}

// Result is the outcome of one batch.
type Result struct {
	// Marked lists the packages to rebuild, deduplicated, in decision
	// order. The first trigger to claim a package wins.
	Marked []MarkedPackage
	// Skipped lists inputs that are not triggers at all.
	Skipped []string
	// BelowThreshold lists triggers whose version change was too small.
	BelowThreshold []string
}

// Process runs the decision pipeline over a batch of inputs. It is a
// pure function of its arguments and the collaborators' answers; all
// persistence is the caller's concern.
func Process(ctx context.Context, inputs []Input, defaultThreshold version.Threshold,
	store *overrides.Store, resolver DependencyResolver, foreign ForeignProvider) (Result, error) {

	ctx, span := otel.Tracer("kiln/trigger").Start(ctx, "trigger.Process",
		trace.WithAttributes(attribute.Int("inputs", len(inputs))))
	defer span.End()

	result := Result{
		Marked:         []MarkedPackage{},
		Skipped:        []string{},
		BelowThreshold: []string{},
	}

	// The foreign universe is fetched once and shared by every input.
	// Re-querying mid-batch could observe a different universe and make
	// inconsistent decisions.
	universe, err := foreign.ForeignPackages(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("listing foreign packages: %w", err)
	}
	universeSet := make(map[string]struct{}, len(universe))
	for _, pkg := range universe {
		universeSet[pkg] = struct{}{}
	}

	for _, in := range inputs {
		curated, isCurated := registry.Lookup(in.Name)
		if !isCurated && !store.IsUserTrigger(in.Name) {
			result.Skipped = append(result.Skipped, in.Name)
			continue
		}

		threshold := defaultThreshold
		if isCurated {
			threshold = curated
		}
		if !in.exceedsThreshold(threshold) {
			log.Debug(log.CatTrigger, "below threshold", "trigger", in.Name,
				"threshold", threshold.String(), "old", in.OldVersion, "new", in.NewVersion)
			result.BelowThreshold = append(result.BelowThreshold, in.Name)
			continue
		}

		candidates, err := resolveCandidates(ctx, in.Name, store, resolver, universe, universeSet)
		if err != nil {
			return Result{}, err
		}
		for _, pkg := range candidates {
			if store.ShouldMark(pkg, in.Name) {
				result.Marked = append(result.Marked, MarkedPackage{Package: pkg, Trigger: in.Name})
			}
		}
	}

	result.Marked = dedupe(result.Marked)
	span.SetAttributes(attribute.Int("marked", len(result.Marked)))
	return result, nil
}

// resolveCandidates finds the packages a trigger may mark: the override
// target list when one exists, else the trigger's reverse dependencies
// restricted to the foreign universe. Binary repackages (-bin) never
// need source rebuilds.
func resolveCandidates(ctx context.Context, trigger string, store *overrides.Store,
	resolver DependencyResolver, universe []string, universeSet map[string]struct{}) ([]string, error) {

	if targets, ok := store.TriggerTargets(trigger, universe); ok {
		return targets, nil
	}

	deps, err := resolver.ReverseDependencies(ctx, trigger)
	if err != nil {
		return nil, fmt.Errorf("resolving dependents of %s: %w", trigger, err)
	}
	candidates := []string{}
	for _, dep := range deps {
		if strings.HasSuffix(dep, "-bin") {
			continue
		}
		if _, foreign := universeSet[dep]; foreign {
			candidates = append(candidates, dep)
		}
	}
	return candidates, nil
}

func dedupe(marked []MarkedPackage) []MarkedPackage {
	seen := make(map[string]struct{}, len(marked))
	out := marked[:0]
	for _, m := range marked {
		if _, dup := seen[m.Package]; dup {
			continue
		}
		seen[m.Package] = struct{}{}
		out = append(out, m)
	}
	return out
}

// Entry is one row of the triggers listing: curated entries carry their
// own threshold, user entries the configured default.
type Entry struct {
	Name      string
	Threshold version.Threshold
	Source    string
}

// Sources for Entry.
const (
	SourceCurated = "curated"
	SourceUser    = "user"
)

// ListAll merges curated and user-defined triggers, sorted by name. A
// name present in both is listed once, as curated, since the curated
// threshold is the one that applies.
func ListAll(store *overrides.Store, defaultThreshold version.Threshold) []Entry {
	entries := []Entry{}
	curated := make(map[string]struct{})
	for _, trig := range registry.All() {
		curated[trig.Name] = struct{}{}
		entries = append(entries, Entry{Name: trig.Name, Threshold: trig.Threshold, Source: SourceCurated})
	}
	for _, name := range store.UserTriggers() {
		if _, dup := curated[name]; dup {
			continue
		}
		entries = append(entries, Entry{Name: name, Threshold: defaultThreshold, Source: SourceUser})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}
