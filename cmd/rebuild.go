package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilnworks/kiln/internal/rebuild"
)

var (
	rebuildForce        bool
	rebuildCheckrebuild bool
	rebuildHelperCmd    string
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild [package]... [-- helper-args...]",
	Short: "Rebuild queued packages with your AUR helper",
	Long: `Hand the rebuild queue to the configured AUR helper. With package
arguments, only those packages are rebuilt (they must be queued unless
-f is given). Arguments after -- are passed to the helper verbatim.
Successfully rebuilt packages are removed from the queue.`,
	RunE: runRebuild,
}

func init() {
	rebuildCmd.Flags().BoolVarP(&rebuildForce, "force", "f", false,
		"skip confirmation and allow unqueued packages")
	rebuildCmd.Flags().BoolVar(&rebuildCheckrebuild, "checkrebuild", false,
		"include packages detected by checkrebuild")
	rebuildCmd.Flags().StringVar(&rebuildHelperCmd, "cmd", "",
		"override the configured AUR helper")
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(cmd *cobra.Command, args []string) error {
	helperArgs := []string{}
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		helperArgs = args[dash:]
		args = args[:dash]
	}

	helper, err := rebuild.Detect(cfg.Helper, rebuildHelperCmd)
	if err != nil {
		return err
	}

	db, repo, err := openQueueReadOnly()
	if err != nil {
		return err
	}
	entries, err := repo.List()
	db.Close()
	if err != nil {
		return err
	}

	queued := make(map[string]bool, len(entries))
	for _, entry := range entries {
		queued[entry.Package] = true
	}

	var fromQueue []string
	if len(args) == 0 {
		for _, entry := range entries {
			fromQueue = append(fromQueue, entry.Package)
		}
	} else {
		for _, pkg := range args {
			if queued[pkg] {
				fromQueue = append(fromQueue, pkg)
			} else if !rebuildForce {
				return fmt.Errorf("package %q is not in the queue (use -f to force)", pkg)
			} else {
				fromQueue = append(fromQueue, pkg)
			}
		}
	}

	var fromCheckrebuild []string
	if rebuildCheckrebuild || cfg.IncludeCheckrebuild {
		found, err := rebuild.Checkrebuild(cmd.Context())
		if err != nil {
			// checkrebuild is optional tooling; missing is a warning.
			printer.Warning("%v", err)
		} else {
			inQueue := make(map[string]bool, len(fromQueue))
			for _, pkg := range fromQueue {
				inQueue[pkg] = true
			}
			for _, pkg := range found {
				if !inQueue[pkg] {
					fromCheckrebuild = append(fromCheckrebuild, pkg)
				}
			}
		}
	}

	total := len(fromQueue) + len(fromCheckrebuild)
	if total == 0 {
		printer.Status("No packages to rebuild")
		return nil
	}

	// The whole confirmation block goes to stderr, alongside the prompt,
	// so redirecting stdout never splits it.
	if len(fromQueue) > 0 {
		printer.HeaderErr("From queue:")
		for _, pkg := range fromQueue {
			printer.Detail(pkg)
		}
	}
	if len(fromCheckrebuild) > 0 {
		printer.HeaderErr("From checkrebuild:")
		for _, pkg := range fromCheckrebuild {
			printer.Detail(pkg)
		}
	}

	if err := checkQuietConfirm(rebuildForce); err != nil {
		return err
	}
	if !rebuildForce {
		if !confirm(fmt.Sprintf("Rebuild %d package(s)?", total)) {
			printer.Status("Cancelled")
			return nil
		}
	}

	all := append(append([]string{}, fromQueue...), fromCheckrebuild...)
	if err := rebuild.Run(cmd.Context(), helper, all, helperArgs); err != nil {
		return err
	}

	// The helper succeeded; drop the rebuilt packages from the queue.
	if len(fromQueue) > 0 {
		db, repo, err := openQueue()
		if err != nil {
			return err
		}
		defer db.Close()
		for _, pkg := range fromQueue {
			if _, err := repo.Unmark(pkg); err != nil {
				return err
			}
		}
	}

	printer.SuccessCount("Successfully rebuilt", total)
	return nil
}
