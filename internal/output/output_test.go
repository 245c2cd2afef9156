package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func capture(quiet bool) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, err bytes.Buffer
	return NewForStreams(&out, &err, quiet), &out, &err
}

func TestPlainFormatting(t *testing.T) {
	p, out, errBuf := capture(false)

	p.Header("Processing %d triggers", 2)
	p.Status("querying dependents of %s", "qt6-base")
	p.Package("aur-app")
	p.PackageWithTrigger("aur-widget", "qt6-base")
	p.SuccessCount("Marked", 1)
	p.SuccessCount("Marked", 3)

	require.Equal(t,
		":: Processing 2 triggers\n"+
			"-> querying dependents of qt6-base\n"+
			"aur-app\n"+
			"aur-widget (qt6-base)\n"+
			"-> Marked 1 package\n"+
			"-> Marked 3 packages\n",
		out.String())
	require.Empty(t, errBuf.String())
}

func TestStderrMessages(t *testing.T) {
	p, out, errBuf := capture(false)

	p.Warning("no database at %s", "/var/lib/kiln/kiln.db")
	p.Error("pactree failed: %s", "boom")
	p.Info("running %s", "paru")

	require.Empty(t, out.String())
	require.Equal(t,
		"warning: no database at /var/lib/kiln/kiln.db\n"+
			"error: pactree failed: boom\n"+
			"-> running paru\n",
		errBuf.String())
}

// Confirmation blocks print entirely on stderr so a redirected stdout
// never splits the header from its items.
func TestConfirmationBlockStaysOnStderr(t *testing.T) {
	p, out, errBuf := capture(false)

	p.HeaderErr("From queue:")
	p.Detail("aur-app")
	p.Detail("aur-widget")

	require.Empty(t, out.String())
	require.Equal(t,
		":: From queue:\n"+
			"  aur-app\n"+
			"  aur-widget\n",
		errBuf.String())
}

func TestQuietSuppressesDecoration(t *testing.T) {
	p, out, errBuf := capture(true)

	p.Header("noise")
	p.HeaderErr("noise")
	p.Detail("noise")
	p.Status("noise")
	p.Warning("noise")
	p.Info("noise")
	p.SuccessCount("Marked", 5)
	p.Package("aur-app")
	p.PackageWithTrigger("aur-widget", "qt6-base")
	p.Error("still shown")

	require.Equal(t, "aur-app\naur-widget\n", out.String())
	require.Equal(t, "error: still shown\n", errBuf.String())
	require.True(t, p.Quiet())
}
