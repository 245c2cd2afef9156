package rebuild

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func fakePath(t *testing.T, installed ...string) {
	t.Helper()
	orig := lookPath
	lookPath = func(name string) (string, error) {
		for _, h := range installed {
			if h == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
	t.Cleanup(func() { lookPath = orig })
}

func TestDetectOverrideWinsOverConfig(t *testing.T) {
	fakePath(t, "paru", "yay")

	inv, err := Detect("yay", "paru")
	require.NoError(t, err)
	require.Equal(t, "paru", inv.Command)
	require.Equal(t, []string{"-S", "--rebuild"}, inv.BaseArgs)
}

func TestDetectConfiguredHelper(t *testing.T) {
	fakePath(t, "aura")

	inv, err := Detect("aura", "")
	require.NoError(t, err)
	require.Equal(t, "aura", inv.Command)
	require.Equal(t, []string{"-A", "--rebuild"}, inv.BaseArgs)
}

func TestDetectConfiguredHelperMissing(t *testing.T) {
	fakePath(t)

	_, err := Detect("paru", "")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "paru", notFound.Helper)
}

func TestDetectAutoSingle(t *testing.T) {
	fakePath(t, "pikaur")

	inv, err := Detect("", "")
	require.NoError(t, err)
	require.Equal(t, "pikaur", inv.Command)
}

func TestDetectAutoNone(t *testing.T) {
	fakePath(t)

	_, err := Detect("", "")
	require.ErrorIs(t, err, ErrNoHelper)
}

func TestDetectAutoAmbiguous(t *testing.T) {
	fakePath(t, "paru", "yay", "trizen")

	_, err := Detect("", "")
	var ambiguous *AmbiguousHelperError
	require.ErrorAs(t, err, &ambiguous)
	require.Equal(t, []string{"paru", "yay", "trizen"}, ambiguous.Helpers)
}

func TestDetectCustomCommand(t *testing.T) {
	fakePath(t, "my-helper")

	inv, err := Detect("my-helper -S --rebuild --noconfirm", "")
	require.NoError(t, err)
	require.Equal(t, "my-helper", inv.Command)
	require.Equal(t, []string{"-S", "--rebuild", "--noconfirm"}, inv.BaseArgs)
}

func TestDetectCustomCommandMissing(t *testing.T) {
	fakePath(t)

	_, err := Detect("my-helper --rebuild", "")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "my-helper", notFound.Helper)
}

func TestParseCheckrebuild(t *testing.T) {
	out := "foo-git libalpm.so\nbar-bin openssl\n\n   \nbaz\n"
	require.Equal(t, []string{"foo-git", "bar-bin", "baz"}, ParseCheckrebuild(out))
	require.Empty(t, ParseCheckrebuild(""))
}
