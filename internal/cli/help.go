package cli

import (
	"context"
	"fmt"
	"strings"
)

func helpCmd(a *app) *Command {
	return &Command{
		Flags: newFlagSet("help"),
		Usage: "help [command]",
		Short: "Show this command summary, or help for one command",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				printCommandList(o, a.commands())
				o.Println()
				o.Println("Flags take every word up to the next flag as their value, so quoting")
				o.Println("is optional: add rec -n Mara -t met at the docks")

				return nil
			}

			cmd, rest := lookup(a.commands(), args)
			if cmd == nil || len(rest) > 0 {
				return fmt.Errorf("%w: %s", ErrUnknownCommand, strings.Join(args, " "))
			}

			cmd.PrintHelp(o)

			return nil
		},
	}
}
