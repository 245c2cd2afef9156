// Package output renders terminal messages in pacman's visual style:
// "::" headers and "->" status lines in bold blue, package names in
// bold white, warnings yellow, errors red. Color is dropped when the
// stream is not a terminal.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	arrowStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	packageStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	countStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// Printer writes pacman-style messages to a pair of streams. The zero
// value is not usable; construct with New.
type Printer struct {
	out      io.Writer
	err      io.Writer
	colorOut bool
	colorErr bool
	quiet    bool
}

// New returns a printer on stdout/stderr with per-stream TTY color
// detection. Quiet suppresses everything except bare package names and
// errors, for script consumption.
func New(quiet bool) *Printer {
	return &Printer{
		out:      os.Stdout,
		err:      os.Stderr,
		colorOut: isTerminal(os.Stdout),
		colorErr: isTerminal(os.Stderr),
		quiet:    quiet,
	}
}

// NewForStreams returns a printer on explicit streams with color off,
// for tests.
func NewForStreams(out, err io.Writer, quiet bool) *Printer {
	return &Printer{out: out, err: err, quiet: quiet}
}

func isTerminal(f *os.File) bool {
	return termenv.NewOutput(f).EnvColorProfile() != termenv.Ascii && isatty(f)
}

func isatty(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// Quiet reports whether the printer is in quiet mode.
func (p *Printer) Quiet() bool {
	return p.quiet
}

// Header prints a ":: message" line.
func (p *Printer) Header(format string, args ...any) {
	if p.quiet {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if p.colorOut {
		fmt.Fprintf(p.out, "%s %s\n", arrowStyle.Render("::"), boldStyle.Render(msg))
		return
	}
	fmt.Fprintf(p.out, ":: %s\n", msg)
}

// Status prints a "-> message" line.
func (p *Printer) Status(format string, args ...any) {
	if p.quiet {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if p.colorOut {
		fmt.Fprintf(p.out, "%s %s\n", arrowStyle.Render("->"), msg)
		return
	}
	fmt.Fprintf(p.out, "-> %s\n", msg)
}

// Package prints a bare package name. Always printed, quiet included.
func (p *Printer) Package(name string) {
	if p.colorOut && !p.quiet {
		fmt.Fprintln(p.out, packageStyle.Render(name))
		return
	}
	fmt.Fprintln(p.out, name)
}

// PackageWithTrigger prints "name (trigger)"; in quiet mode just the
// name.
func (p *Printer) PackageWithTrigger(name, trigger string) {
	if p.quiet {
		fmt.Fprintln(p.out, name)
		return
	}
	if p.colorOut {
		fmt.Fprintf(p.out, "%s (%s)\n", packageStyle.Render(name), trigger)
		return
	}
	fmt.Fprintf(p.out, "%s (%s)\n", name, trigger)
}

// Warning prints "warning: message" to stderr.
func (p *Printer) Warning(format string, args ...any) {
	if p.quiet {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if p.colorErr {
		fmt.Fprintf(p.err, "%s %s\n", warnStyle.Render("warning:"), msg)
		return
	}
	fmt.Fprintf(p.err, "warning: %s\n", msg)
}

// Error prints "error: message" to stderr. Never suppressed.
func (p *Printer) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.colorErr {
		fmt.Fprintf(p.err, "%s %s\n", errorStyle.Render("error:"), msg)
		return
	}
	fmt.Fprintf(p.err, "error: %s\n", msg)
}

// SuccessCount prints "-> action N package(s)".
func (p *Printer) SuccessCount(action string, count int) {
	if p.quiet {
		return
	}
	word := "packages"
	if count == 1 {
		word = "package"
	}
	if p.colorOut {
		fmt.Fprintf(p.out, "%s %s %s %s\n",
			arrowStyle.Render("->"), action, countStyle.Render(fmt.Sprint(count)), word)
		return
	}
	fmt.Fprintf(p.out, "-> %s %d %s\n", action, count, word)
}

// HeaderErr prints a ":: message" line to stderr, for headers that
// belong with stderr content such as confirmation blocks.
func (p *Printer) HeaderErr(format string, args ...any) {
	if p.quiet {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if p.colorErr {
		fmt.Fprintf(p.err, "%s %s\n", arrowStyle.Render("::"), boldStyle.Render(msg))
		return
	}
	fmt.Fprintf(p.err, ":: %s\n", msg)
}

// Detail prints an indented item line to stderr, under a HeaderErr.
func (p *Printer) Detail(item string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.err, "  %s\n", item)
}

// Info prints a "-> message" progress line to stderr, keeping stdout
// clean for package lists.
func (p *Printer) Info(format string, args ...any) {
	if p.quiet {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if p.colorErr {
		fmt.Fprintf(p.err, "%s %s\n", arrowStyle.Render("->"), msg)
		return
	}
	fmt.Fprintf(p.err, "-> %s\n", msg)
}
