package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const delimiterWidth = 72

// IO handles command output.
//
// Messages go to stdout and errors to stderr, each styled through a
// renderer bound to its writer, so pipes and test buffers get plain text.
// Warnings are collected and printed to stderr before the first stdout
// write and again by [IO.Finish].
type IO struct {
	out      io.Writer
	errOut   io.Writer
	message  lipgloss.Style
	errStyle lipgloss.Style
	warnings []string
	started  bool
}

// NewIO creates a new IO instance.
func NewIO(out, errOut io.Writer) *IO {
	return &IO{
		out:      out,
		errOut:   errOut,
		message:  lipgloss.NewRenderer(out).NewStyle().Foreground(lipgloss.Color("11")),
		errStyle: lipgloss.NewRenderer(errOut).NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Warn records a problem that did not stop the command.
// Any warning makes [IO.Finish] return 1.
func (o *IO) Warn(issue string) {
	o.warnings = append(o.warnings, issue)
}

// Println writes to stdout. On first call, any collected warnings
// are printed to stderr first.
func (o *IO) Println(a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout.
func (o *IO) Printf(format string, a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// Message writes a highlighted status line to stdout.
func (o *IO) Message(format string, a ...any) {
	o.Println(o.message.Render(fmt.Sprintf(format, a...)))
}

// Delimiter writes the separator printed between interactive commands.
func (o *IO) Delimiter() {
	o.Println(strings.Repeat("=", delimiterWidth))
}

// ErrPrintln writes to stderr.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// Error writes "error: <err>" to stderr.
func (o *IO) Error(err error) {
	o.ErrPrintln(o.errStyle.Render("error: " + err.Error()))
}

// Finish prints warnings to stderr and returns exit code.
// Returns 1 if any warnings, 0 otherwise.
func (o *IO) Finish() int {
	o.flushWarningsStart()

	for _, w := range o.warnings {
		_, _ = fmt.Fprintln(o.errOut, "warning:", w)
	}

	if len(o.warnings) > 0 {
		return 1
	}

	return 0
}

func (o *IO) flushWarningsStart() {
	if !o.started && len(o.warnings) > 0 {
		for _, w := range o.warnings {
			_, _ = fmt.Fprintln(o.errOut, "warning:", w)
		}

		o.started = true
	}
}
