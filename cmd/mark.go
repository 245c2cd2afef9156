package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	markTrigger        string
	markTriggerVersion string
)

var markCmd = &cobra.Command{
	Use:   "mark <package>...",
	Short: "Add packages to the rebuild queue",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMark,
}

func init() {
	markCmd.Flags().StringVar(&markTrigger, "trigger", "",
		"trigger package that caused the mark")
	markCmd.Flags().StringVar(&markTriggerVersion, "trigger-version", "",
		"version of the trigger package")
	rootCmd.AddCommand(markCmd)
}

func runMark(cmd *cobra.Command, args []string) error {
	if err := requireRoot(); err != nil {
		return err
	}
	if markTriggerVersion != "" && markTrigger == "" {
		return fmt.Errorf("--trigger-version requires --trigger")
	}

	db, repo, err := openQueue()
	if err != nil {
		return err
	}
	defer db.Close()

	newlyMarked := 0
	for _, pkg := range args {
		added, err := repo.Mark(pkg, markTrigger, markTriggerVersion, "")
		if err != nil {
			return err
		}
		if added {
			newlyMarked++
		}
	}

	if markTrigger != "" {
		printer.Status("Marked %d package(s) for rebuild (trigger: %s)", newlyMarked, markTrigger)
	} else {
		printer.SuccessCount("Marked", newlyMarked)
	}
	return nil
}
