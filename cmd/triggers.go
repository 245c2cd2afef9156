package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilnworks/kiln/internal/overrides"
	"github.com/kilnworks/kiln/internal/paths"
	"github.com/kilnworks/kiln/internal/registry"
	"github.com/kilnworks/kiln/internal/trigger"
)

var triggersCmd = &cobra.Command{
	Use:   "triggers",
	Short: "List configured triggers",
	Long: `List all known triggers with their thresholds: the curated built-in
list plus any user-defined triggers from the override directory.`,
	Args: cobra.NoArgs,
	RunE: runTriggers,
}

func init() {
	rootCmd.AddCommand(triggersCmd)
}

func runTriggers(cmd *cobra.Command, args []string) error {
	threshold, err := cfg.Threshold()
	if err != nil {
		return err
	}
	store := overrides.Load(paths.TriggersDir(), paths.PackagesDir())

	printer.Header("Known triggers (curated list v%d)", registry.ListVersion())
	for _, entry := range trigger.ListAll(store, threshold) {
		if quiet {
			printer.Package(entry.Name)
			continue
		}
		printer.Package(fmt.Sprintf("%s (%s, %s)", entry.Name, entry.Threshold, entry.Source))
	}
	return nil
}
