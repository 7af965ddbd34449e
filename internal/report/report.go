// Package report renders release activity for humans and machines. The
// engine emits events through the Reporter interface and stays unaware of
// the output format.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Reporter receives release activity events.
type Reporter interface {
	// Info reports a neutral progress message.
	Info(msg string)

	// Warning reports a non-fatal problem.
	Warning(msg string)

	// Separator marks a boundary between report sections.
	Separator()

	// Release reports one workspace version bump.
	Release(name, from, to string)

	// Rewrite reports one dependency range update in a dependent manifest.
	Rewrite(dependent, kind, target, from, to string)
}

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

// ConsoleReporter renders events as colored terminal output. Color is
// dropped automatically when the writer is not a TTY.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a ConsoleReporter writing to out.
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// Info prints a plain message.
func (r *ConsoleReporter) Info(msg string) {
	fmt.Fprintln(r.out, msg)
}

// Warning prints a warning message.
func (r *ConsoleReporter) Warning(msg string) {
	_, _ = warningColor.Fprintf(r.out, "⚠ %s\n", msg)
}

// Separator prints a blank line.
func (r *ConsoleReporter) Separator() {
	fmt.Fprintln(r.out)
}

// Release prints one version bump.
func (r *ConsoleReporter) Release(name, from, to string) {
	_, _ = successColor.Fprintf(r.out, "✓ %s", name)
	_, _ = dimColor.Fprintf(r.out, ": %s → %s\n", from, to)
}

// Rewrite prints one dependency range update.
func (r *ConsoleReporter) Rewrite(dependent, kind, target, from, to string) {
	_, _ = dimColor.Fprintf(r.out, "  %s (%s) %s: %s → %s\n", dependent, kind, target, from, to)
}
