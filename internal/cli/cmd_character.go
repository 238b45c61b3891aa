package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/charsheet/internal/character"
)

// newFlagSet returns a FlagSet that also accepts the short legacy spelling
// "app" for "appearance".
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetNormalizeFunc(func(_ *flag.FlagSet, name string) flag.NormalizedName {
		if name == "app" {
			name = "appearance"
		}

		return flag.NormalizedName(name)
	})

	return fs
}

func mkCharacterCmd(a *app) *Command {
	fs := newFlagSet("mk ch")
	name := fs.StringP("name", "n", "", "Character `name` (required)")
	alias := fs.StringP("alias", "a", "", "Alias")
	appearance := fs.String("appearance", "", "Appearance (also -app)")
	birth := fs.StringP("date", "d", "", "Birth date as YYYY/MM/DD")

	return &Command{
		Flags: fs,
		Usage: "mk ch -n <name> [-a <alias>] [-app <appearance>] [-d <date>]",
		Short: "Create a new character",
		Long: "Create a new character file. Fails if a character with the same name\n" +
			"exists, ignoring case.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if err := noArgs(args); err != nil {
				return err
			}

			born, err := parseOptionalDate(*birth)
			if err != nil {
				return err
			}

			c := character.Character{Name: *name, Alias: *alias, Appearance: *appearance, BirthDate: born}

			repo, err := a.repository()
			if err != nil {
				return err
			}

			if err := repo.Create(c); err != nil {
				return err
			}

			o.Message("Character '%s' created successfully.", strings.TrimSpace(*name))

			return nil
		},
	}
}

func readCharacterCmd(a *app) *Command {
	fs := newFlagSet("read ch")
	name := fs.StringP("name", "n", "", "Character `name` (required)")
	raw := fs.Bool("raw", false, "Print the file exactly as stored")

	return &Command{
		Flags: fs,
		Usage: "read ch -n <name> [--raw]",
		Short: "Show a character sheet",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if err := noArgs(args); err != nil {
				return err
			}

			repo, err := a.repository()
			if err != nil {
				return err
			}

			if *raw {
				content, err := repo.Raw(*name)
				if err != nil {
					return err
				}

				o.Printf("%s", content)

				return nil
			}

			c, err := repo.Get(*name)
			if err != nil {
				return err
			}

			file, err := repo.Store().FileName(strings.TrimSpace(*name))
			if err != nil {
				return err
			}

			o.Message("Content of '%s':", file)
			o.Println()
			o.Printf("%s", character.DisplayText(c))

			return nil
		},
	}
}

func delCharacterCmd(a *app) *Command {
	fs := newFlagSet("del ch")
	name := fs.StringP("name", "n", "", "Character `name` (required)")

	return &Command{
		Flags: fs,
		Usage: "del ch -n <name>",
		Short: "Delete a character and all its notes",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if err := noArgs(args); err != nil {
				return err
			}

			repo, err := a.repository()
			if err != nil {
				return err
			}

			if err := repo.Delete(*name); err != nil {
				return err
			}

			o.Message("Character '%s' deleted successfully.", strings.TrimSpace(*name))

			return nil
		},
	}
}

func lsCharacterCmd(a *app) *Command {
	return &Command{
		Flags: newFlagSet("ls ch"),
		Usage: "ls ch",
		Short: "List stored characters",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if err := noArgs(args); err != nil {
				return err
			}

			repo, err := a.repository()
			if err != nil {
				return err
			}

			names, err := repo.List()
			if err != nil {
				return err
			}

			if len(names) == 0 {
				o.Message("No characters found in %s.", repo.Store().Dir())

				return nil
			}

			for _, n := range names {
				o.Println(n)
			}

			return nil
		},
	}
}

func exportCharacterCmd(a *app) *Command {
	fs := newFlagSet("export ch")
	name := fs.StringP("name", "n", "", "Character `name` (required)")
	format := fs.StringP("format", "f", "json", "Output `format`: json or yaml")

	return &Command{
		Flags: fs,
		Usage: "export ch -n <name> [--format json|yaml]",
		Short: "Print a character as JSON or YAML",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if err := noArgs(args); err != nil {
				return err
			}

			repo, err := a.repository()
			if err != nil {
				return err
			}

			c, err := repo.Get(*name)
			if err != nil {
				return err
			}

			data, err := export(c, *format)
			if err != nil {
				return err
			}

			o.Printf("%s", data)

			return nil
		},
	}
}

// parseOptionalDate parses s when set; an empty s yields the zero time.
func parseOptionalDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}

	return character.ParseDate(s)
}

func noArgs(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: %s", ErrUnexpectedArg, args[0])
	}

	return nil
}
