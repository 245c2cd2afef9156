package cmd

import (
	"github.com/spf13/cobra"
)

var ismarkedCmd = &cobra.Command{
	Use:   "ismarked <package>",
	Short: "Check if a package is marked for rebuild",
	Long: `Exit with code 0 if the package is in the rebuild queue, 2 if not.
Prints nothing; meant for scripting.`,
	Args: cobra.ExactArgs(1),
	RunE: runIsMarked,
}

func init() {
	rootCmd.AddCommand(ismarkedCmd)
}

func runIsMarked(cmd *cobra.Command, args []string) error {
	db, repo, err := openQueueReadOnly()
	if err != nil {
		return err
	}
	defer db.Close()

	marked, err := repo.IsMarked(args[0])
	if err != nil {
		return err
	}
	if !marked {
		return errNotFound
	}
	return nil
}
