// Package cmd implements the kiln command-line interface.
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilnworks/kiln/internal/config"
	"github.com/kilnworks/kiln/internal/log"
	"github.com/kilnworks/kiln/internal/output"
	"github.com/kilnworks/kiln/internal/paths"
	"github.com/kilnworks/kiln/internal/queue"
	"github.com/kilnworks/kiln/internal/trace"
)

// Exit codes.
const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitNotFound = 2
)

// exitCodeError carries a specific exit code without an extra message;
// the command has already reported whatever needed reporting.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

var errNotFound = &exitCodeError{code: ExitNotFound}

var (
	cfg       config.Config
	printer   *output.Printer
	quiet     bool
	stopTrace trace.Shutdown
)

var rootCmd = &cobra.Command{
	Use:           "kiln",
	Short:         "Proactive AUR rebuild management for Arch Linux",
	Long: `kiln tracks which AUR packages need rebuilding after their ABI-sensitive
dependencies upgrade. Upgrades of known trigger packages (qt6-base,
boost, openssl, ...) mark dependent AUR packages in a persistent queue;
kiln rebuild hands the queue to your AUR helper.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := log.InitFromEnv(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		printer = output.New(quiet)

		var err error
		cfg, err = config.Load(paths.ConfigFile())
		if err != nil {
			return err
		}

		stopTrace, err = trace.Init(cmd.Context(), cfg.Tracing)
		if err != nil {
			printer.Warning("tracing disabled: %v", err)
			stopTrace = func(context.Context) error { return nil }
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if stopTrace != nil {
			_ = stopTrace(cmd.Context())
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress stdout decoration (errors still go to stderr)")
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var coded *exitCodeError
		if errors.As(err, &coded) {
			return coded.code
		}
		if printer != nil {
			printer.Error("%v", err)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		return ExitError
	}
	return ExitSuccess
}

// requireRoot rejects queue-modifying commands for unprivileged users.
func requireRoot() error {
	if os.Geteuid() != 0 {
		return fmt.Errorf("permission denied, this command requires root privileges")
	}
	return nil
}

// checkQuietConfirm rejects --quiet on commands that would need to
// prompt; prompting silently would just hang.
func checkQuietConfirm(force bool) error {
	if quiet && !force {
		return fmt.Errorf("cannot prompt for confirmation with --quiet, use -f to force")
	}
	return nil
}

// openQueue opens the database read-write with the configured event
// retention.
func openQueue() (*queue.DB, *queue.Repository, error) {
	db, err := queue.Open(paths.DBPath())
	if err != nil {
		return nil, nil, err
	}
	return db, db.Repository(cfg.RetentionDays), nil
}

// openQueueReadOnly opens the database for read commands, with a
// friendlier error when it does not exist yet.
func openQueueReadOnly() (*queue.DB, *queue.Repository, error) {
	db, err := queue.OpenReadOnly(paths.DBPath())
	if err != nil {
		if errors.Is(err, queue.ErrNoDatabase) {
			return nil, nil, fmt.Errorf(
				"no database found at %s, run a queue command as root first to create it",
				paths.DBPath())
		}
		return nil, nil, err
	}
	return db, db.Repository(0), nil
}

// readStdinPackages reads one package name per line from stdin, unless
// stdin is a terminal (a pacman hook pipes, a user at a prompt does
// not).
func readStdinPackages() []string {
	info, err := os.Stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice != 0 {
		return nil
	}
	var pkgs []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			pkgs = append(pkgs, line)
		}
	}
	return pkgs
}

// confirm prompts on stderr and reads a y/yes answer from stdin.
func confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, ":: %s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
