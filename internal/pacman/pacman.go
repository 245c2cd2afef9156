// Package pacman wraps the pactree and pacman subprocesses behind the
// pipeline's collaborator interfaces.
package pacman

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kilnworks/kiln/internal/log"
)

// Resolver answers reverse-dependency queries with pactree.
type Resolver struct{}

// ReverseDependencies runs pactree -r -u on the package and returns its
// installed dependents, the package itself excluded. A non-zero exit
// means the package is not installed, which yields an empty result
// rather than an error; only a failure to spawn pactree is fatal.
func (Resolver) ReverseDependencies(ctx context.Context, pkg string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "pactree", "-r", "-u", pkg)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			log.Debug(log.CatPacman, "pactree non-zero exit, treating as no dependents",
				"package", pkg, "code", exitErr.ExitCode())
			return []string{}, nil
		}
		return nil, fmt.Errorf("running pactree: %w", err)
	}

	deps := []string{}
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == pkg {
			continue
		}
		deps = append(deps, line)
	}
	return deps, nil
}

// Provider enumerates foreign packages with pacman -Qmq.
type Provider struct{}

// ForeignPackages returns the names of all installed packages that are
// not in any sync repository. pacman exits 1 with empty output when no
// foreign packages exist; that is an empty result, not an error.
func (Provider) ForeignPackages(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, "pacman", "-Qmq")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && stdout.Len() == 0 {
			return []string{}, nil
		}
		return nil, fmt.Errorf("running pacman -Qmq: %w", err)
	}

	pkgs := []string{}
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			pkgs = append(pkgs, line)
		}
	}
	return pkgs, nil
}
