package cmd

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kilnworks/kiln/internal/overrides"
	"github.com/kilnworks/kiln/internal/pacman"
	"github.com/kilnworks/kiln/internal/paths"
	"github.com/kilnworks/kiln/internal/trigger"
)

var triggerDryRun bool

var triggerCmd = &cobra.Command{
	Use:   "trigger [package[:oldver:newver]]...",
	Short: "Process triggers from upgraded packages",
	Long: `Decide which AUR dependents need rebuilding after the given packages
upgraded, and mark them in the queue. Meant to be driven by a pacman
hook; reads package specs from stdin when none are given as arguments.

Each spec is either a bare package name or name:oldver:newver. Without
version info the trigger fires unconditionally.`,
	RunE: runTrigger,
}

func init() {
	triggerCmd.Flags().BoolVar(&triggerDryRun, "dry-run", false,
		"show what would be marked without modifying the queue")
	rootCmd.AddCommand(triggerCmd)
}

func runTrigger(cmd *cobra.Command, args []string) error {
	if !triggerDryRun {
		if err := requireRoot(); err != nil {
			return err
		}
	}

	raw := args
	if len(raw) == 0 {
		raw = readStdinPackages()
	}
	if len(raw) == 0 {
		return nil
	}

	inputs := make([]trigger.Input, len(raw))
	for i, spec := range raw {
		inputs[i] = trigger.ParseInput(spec)
	}

	threshold, err := cfg.Threshold()
	if err != nil {
		return err
	}
	store := overrides.Load(paths.TriggersDir(), paths.PackagesDir())
	resolver := pacman.NewCachedResolver(pacman.Resolver{}, 5*time.Minute)

	result, err := trigger.Process(cmd.Context(), inputs, threshold,
		store, resolver, pacman.Provider{})
	if err != nil {
		return err
	}

	if len(result.BelowThreshold) > 0 {
		printer.Info("Skipped %d trigger(s) below threshold", len(result.BelowThreshold))
	}
	if len(result.Marked) == 0 {
		printer.Info("No packages to mark")
		return nil
	}

	if triggerDryRun {
		for _, m := range result.Marked {
			printer.PackageWithTrigger(m.Package, m.Trigger)
		}
		printer.Info("Would mark %d package(s) for rebuild", len(result.Marked))
		return nil
	}

	db, repo, err := openQueue()
	if err != nil {
		return err
	}
	defer db.Close()

	versions := make(map[string]string, len(inputs))
	for _, in := range inputs {
		versions[in.Name] = in.NewVersion
	}

	batch := uuid.NewString()
	newlyMarked := 0
	for _, m := range result.Marked {
		added, err := repo.Mark(m.Package, m.Trigger, versions[m.Trigger], batch)
		if err != nil {
			return err
		}
		if added {
			newlyMarked++
			printer.Status("Marked %s (triggered by %s)", m.Package, m.Trigger)
		}
	}
	printer.Info("Marked %d package(s) for rebuild", newlyMarked)
	return nil
}
