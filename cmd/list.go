package cmd

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the current rebuild queue",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	db, repo, err := openQueueReadOnly()
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := repo.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printer.Status("No packages in queue")
		return nil
	}

	for _, entry := range entries {
		event, err := repo.LatestEvent(entry.Package)
		if err != nil {
			return err
		}
		switch {
		case event == nil:
			printer.Package(entry.Package)
		case event.Trigger == "":
			printer.PackageWithTrigger(entry.Package, "external")
		default:
			printer.PackageWithTrigger(entry.Package, event.Trigger)
		}
	}

	printer.Info("%d package(s) in queue", len(entries))
	return nil
}
