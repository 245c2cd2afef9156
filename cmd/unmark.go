package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var unmarkStrict bool

var unmarkCmd = &cobra.Command{
	Use:   "unmark [package]...",
	Short: "Remove packages from the rebuild queue",
	Long: `Remove packages from the rebuild queue. Reads package names from stdin,
one per line, when none are given as arguments. Event history is kept.`,
	RunE: runUnmark,
}

func init() {
	unmarkCmd.Flags().BoolVar(&unmarkStrict, "strict", false,
		"exit with code 2 if any package was not in the queue")
	rootCmd.AddCommand(unmarkCmd)
}

func runUnmark(cmd *cobra.Command, args []string) error {
	if err := requireRoot(); err != nil {
		return err
	}

	packages := args
	if len(packages) == 0 {
		packages = readStdinPackages()
	}
	if len(packages) == 0 {
		printer.Status("No packages specified")
		return nil
	}

	db, repo, err := openQueue()
	if err != nil {
		return err
	}
	defer db.Close()

	removed := 0
	var notFound []string
	for _, pkg := range packages {
		ok, err := repo.Unmark(pkg)
		if err != nil {
			return err
		}
		if ok {
			removed++
		} else {
			notFound = append(notFound, pkg)
		}
	}

	printer.SuccessCount("Removed", removed)

	if unmarkStrict && len(notFound) > 0 {
		printer.Warning("Not in queue: %s", strings.Join(notFound, ", "))
		return errNotFound
	}
	return nil
}
