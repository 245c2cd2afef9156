// Package rebuild drives the AUR helper that rebuilds queued packages.
package rebuild

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/kilnworks/kiln/internal/config"
	"github.com/kilnworks/kiln/internal/log"
)

// ErrNoHelper is returned when no known AUR helper is installed and
// none is configured.
var ErrNoHelper = fmt.Errorf(
	"no AUR helper detected; set 'helper' in the config file (supported: %s)",
	strings.Join(config.KnownHelpers, ", "))

// AmbiguousHelperError is returned when several known helpers are
// installed and the config does not pick one.
type AmbiguousHelperError struct {
	Helpers []string
}

func (e *AmbiguousHelperError) Error() string {
	return fmt.Sprintf("multiple AUR helpers found: %s; set 'helper' in the config file",
		strings.Join(e.Helpers, ", "))
}

// NotFoundError is returned when the chosen helper is not in PATH.
type NotFoundError struct {
	Helper string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("AUR helper %q not found in PATH", e.Helper)
}

// HelperFailedError reports a helper that ran but exited non-zero.
type HelperFailedError struct {
	Code int
}

func (e *HelperFailedError) Error() string {
	return fmt.Sprintf("AUR helper exited with code %d", e.Code)
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Invocation is a resolved helper command line, before packages and
// pass-through arguments are appended.
type Invocation struct {
	Command  string
	BaseArgs []string
}

// forKnownHelper builds the rebuild invocation for a supported helper.
// aura namespaces AUR operations under -A; the rest reuse pacman's -S.
func forKnownHelper(name string) Invocation {
	if name == "aura" {
		return Invocation{Command: name, BaseArgs: []string{"-A", "--rebuild"}}
	}
	return Invocation{Command: name, BaseArgs: []string{"-S", "--rebuild"}}
}

func fromCustom(cmd string) Invocation {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return Invocation{Command: cmd}
	}
	return Invocation{Command: parts[0], BaseArgs: parts[1:]}
}

func isKnownHelper(name string) bool {
	for _, h := range config.KnownHelpers {
		if h == name {
			return true
		}
	}
	return false
}

// Detect resolves which helper to run. Priority: the command-line
// override, then the configured helper, then a PATH scan for known
// helpers. A PATH scan finding more than one helper is an error rather
// than a silent choice.
func Detect(configured, override string) (Invocation, error) {
	if override != "" {
		return resolve(override)
	}
	if configured != "" {
		return resolve(configured)
	}

	var found []string
	for _, h := range config.KnownHelpers {
		if _, err := lookPath(h); err == nil {
			found = append(found, h)
		}
	}
	switch len(found) {
	case 0:
		return Invocation{}, ErrNoHelper
	case 1:
		log.Debug(log.CatCLI, "auto-detected AUR helper", "helper", found[0])
		return forKnownHelper(found[0]), nil
	default:
		return Invocation{}, &AmbiguousHelperError{Helpers: found}
	}
}

// resolve turns a helper name or custom command line into an
// invocation, verifying the binary exists.
func resolve(helper string) (Invocation, error) {
	if isKnownHelper(helper) {
		if _, err := lookPath(helper); err != nil {
			return Invocation{}, &NotFoundError{Helper: helper}
		}
		return forKnownHelper(helper), nil
	}

	name := helper
	if fields := strings.Fields(helper); len(fields) > 0 {
		name = fields[0]
	}
	if _, err := lookPath(name); err != nil {
		return Invocation{}, &NotFoundError{Helper: name}
	}
	return fromCustom(helper), nil
}

// Run executes the helper on the given packages with the user's
// terminal attached, appending any pass-through arguments.
func Run(ctx context.Context, inv Invocation, packages, extraArgs []string) error {
	args := append(append(append([]string{}, inv.BaseArgs...), packages...), extraArgs...)
	log.Info(log.CatCLI, "running AUR helper", "command", inv.Command, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, inv.Command, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &HelperFailedError{Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("starting AUR helper: %w", err)
	}
	return nil
}

// Checkrebuild runs checkrebuild and returns the packages it flags.
// Output lines are "package changed-dependency"; only the package name
// matters. checkrebuild exits 0 whether or not anything needs a
// rebuild.
func Checkrebuild(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, "checkrebuild")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("running checkrebuild: %w", err)
	}
	return ParseCheckrebuild(stdout.String()), nil
}

// ParseCheckrebuild extracts package names from checkrebuild output.
func ParseCheckrebuild(out string) []string {
	pkgs := []string{}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 {
			pkgs = append(pkgs, fields[0])
		}
	}
	return pkgs
}
