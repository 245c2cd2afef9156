package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubcommandsRegistered(t *testing.T) {
	want := []string{
		"mark", "unmark", "list", "clear", "rebuild",
		"ismarked", "query", "triggers", "trigger", "config",
	}
	have := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		require.True(t, have[name], "missing subcommand %q", name)
	}
}

func TestCheckQuietConfirm(t *testing.T) {
	orig := quiet
	t.Cleanup(func() { quiet = orig })

	quiet = false
	require.NoError(t, checkQuietConfirm(false))
	require.NoError(t, checkQuietConfirm(true))

	quiet = true
	require.NoError(t, checkQuietConfirm(true))
	require.ErrorContains(t, checkQuietConfirm(false), "--quiet")
}

func TestNotFoundExitCode(t *testing.T) {
	require.Equal(t, ExitNotFound, errNotFound.code)
	require.NotEqual(t, ExitSuccess, ExitError)
}
