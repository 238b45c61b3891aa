package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command defines a CLI command with unified help generation.
type Command struct {
	// Flags defines command-specific flags.
	// The FlagSet name is not used - command identity comes from Usage.
	Flags *flag.FlagSet

	// Usage is the freeform usage string shown after "charsheet" in help.
	// It starts with the command name, one or two words, followed by
	// its arguments and flags.
	// Examples: "mk ch -n <name> [flags]", "ls ch", "help [command]"
	Usage string

	// Short is a one-line description for the global help listing.
	Short string

	// Long is the full description shown in command help.
	// If empty, Short is used instead.
	Long string

	// Exec runs the command after flags are parsed.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name returns the command name: the leading words of Usage before the
// first flag or placeholder.
func (c *Command) Name() string {
	var words []string

	for _, w := range strings.Fields(c.Usage) {
		if strings.ContainsAny(w[:1], "-[<") {
			break
		}

		words = append(words, w)
	}

	return strings.Join(words, " ")
}

// HelpLine returns the short help line for the main usage display.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-42s %s", c.Usage, c.Short)
}

// PrintHelp prints the full help output for "charsheet <cmd> --help".
func (c *Command) PrintHelp(o *IO) {
	o.Println("Usage: charsheet", c.Usage)
	o.Println()

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	o.Println(desc)

	if c.Flags != nil && c.Flags.HasFlags() {
		o.Println()
		o.Println("Flags:")

		var buf strings.Builder
		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()
		o.Printf("%s", buf.String())
	}
}

// Run parses flags and executes the command. Returns exit code.
// Handles error printing internally for consistent output ordering.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(&strings.Builder{}) // discard pflag output

	err := c.Flags.Parse(gatherFlagValues(c.Flags, args))
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(o)

			return 0
		}

		o.Error(err)
		o.ErrPrintln()
		o.ErrPrintln("Usage: charsheet", c.Usage)

		return 1
	}

	if err := c.Exec(ctx, o, c.Flags.Args()); err != nil {
		o.Error(err)

		return 1
	}

	return 0
}

// gatherFlagValues rewrites args so that every free word after a valued flag
// up to the next flag becomes that flag's value:
//
//	-t met the baron -d 2024/01/05  =>  -t "met the baron" -d 2024/01/05
//
// Single-dash multi-letter flags naming a long flag (-id, -app) are turned
// into their double-dash form first, since pflag reads "-id" as "-i -d".
// Bool flags take no value and are left alone. Words before the first flag
// stay positional.
func gatherFlagValues(fs *flag.FlagSet, args []string) []string {
	out := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "--" {
			return append(out, args[i:]...)
		}

		if !isFlag(arg) {
			out = append(out, arg)

			continue
		}

		arg = longForm(fs, arg)
		out = append(out, arg)

		if strings.Contains(arg, "=") || !takesValue(fs, arg) {
			continue
		}

		var words []string

		for i+1 < len(args) && !isFlag(args[i+1]) {
			i++
			words = append(words, args[i])
		}

		if len(words) > 0 {
			out = append(out, strings.Join(words, " "))
		}
	}

	return out
}

func isFlag(arg string) bool {
	return len(arg) > 1 && arg[0] == '-'
}

// longForm maps "-app" to "--app" when "app" is a long flag of fs.
func longForm(fs *flag.FlagSet, arg string) string {
	if strings.HasPrefix(arg, "--") || len(arg) <= 2 {
		return arg
	}

	name, _, _ := strings.Cut(arg[1:], "=")
	if fs.Lookup(name) != nil {
		return "-" + arg
	}

	return arg
}

// takesValue reports whether the flag named by arg expects a value.
// Unknown flags report false and are left for pflag to reject.
func takesValue(fs *flag.FlagSet, arg string) bool {
	var f *flag.Flag

	if name, ok := strings.CutPrefix(arg, "--"); ok {
		f = fs.Lookup(name)
	} else if len(arg) == 2 {
		f = fs.ShorthandLookup(arg[1:])
	}

	return f != nil && f.Value.Type() != "bool"
}
