package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear [trigger]",
	Short: "Reset the rebuild queue",
	Long: `Empty the rebuild queue after confirmation. With a trigger name, only
that trigger's event history is cleared and the queue stays intact.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false,
		"skip confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	if err := requireRoot(); err != nil {
		return err
	}

	db, repo, err := openQueue()
	if err != nil {
		return err
	}
	defer db.Close()

	if len(args) == 1 {
		trigger := args[0]
		count, err := repo.ClearTriggerEvents(trigger)
		if err != nil {
			return err
		}
		printer.Status("Cleared %d event(s) for trigger '%s'", count, trigger)
		return nil
	}

	entries, err := repo.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printer.Status("Queue is already empty")
		return nil
	}

	if err := checkQuietConfirm(clearForce); err != nil {
		return err
	}
	if !clearForce {
		if !confirm(fmt.Sprintf("Clear %d package(s) from queue?", len(entries))) {
			printer.Status("Cancelled")
			return nil
		}
	}

	count, err := repo.Clear()
	if err != nil {
		return err
	}
	printer.SuccessCount("Cleared", int(count))
	return nil
}
