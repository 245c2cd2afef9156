package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <package>...",
	Short: "Print which of the given packages are in the queue",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	db, repo, err := openQueueReadOnly()
	if err != nil {
		return err
	}
	defer db.Close()

	matched, err := repo.Query(args)
	if err != nil {
		return err
	}
	for _, pkg := range matched {
		fmt.Fprintln(cmd.OutOrStdout(), pkg)
	}
	return nil
}
