package cli

import (
	"context"
	"strings"

	"github.com/calvinalkan/charsheet/internal/character"
)

func addNoteCmd(a *app) *Command {
	fs := newFlagSet("add rec")
	name := fs.StringP("name", "n", "", "Character `name` (required)")
	text := fs.StringP("text", "t", "", "Note `text` (required)")
	date := fs.StringP("date", "d", "", "Note date as YYYY/MM/DD")

	return &Command{
		Flags: fs,
		Usage: "add rec -n <name> -t <text> [-d <date>]",
		Short: "Add a note to a character",
		Long: "Append a note to a character. The note gets the next free ID: one\n" +
			"more than the highest ID the character has used so far.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if err := noArgs(args); err != nil {
				return err
			}

			d, err := parseOptionalDate(*date)
			if err != nil {
				return err
			}

			repo, err := a.repository()
			if err != nil {
				return err
			}

			n, err := repo.AddNote(*name, character.Note{Date: d, Text: *text})
			if err != nil {
				return err
			}

			o.Message("Record %d added successfully to character '%s'.", n.ID, strings.TrimSpace(*name))

			return nil
		},
	}
}

func editNoteCmd(a *app) *Command {
	fs := newFlagSet("edit rec")
	name := fs.StringP("name", "n", "", "Character `name` (required)")
	id := fs.Int("id", 0, "Note `id` (required)")
	text := fs.StringP("text", "t", "", "New note `text` (required)")

	return &Command{
		Flags: fs,
		Usage: "edit rec -n <name> -id <id> -t <text>",
		Short: "Replace the text of a note",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if err := noArgs(args); err != nil {
				return err
			}

			if !fs.Changed("id") {
				return ErrIDRequired
			}

			repo, err := a.repository()
			if err != nil {
				return err
			}

			if err := repo.EditNote(*name, *id, *text); err != nil {
				return err
			}

			o.Message("Record %d successfully edited for character '%s'.", *id, strings.TrimSpace(*name))

			return nil
		},
	}
}

func delNoteCmd(a *app) *Command {
	fs := newFlagSet("del rec")
	name := fs.StringP("name", "n", "", "Character `name` (required)")
	id := fs.Int("id", 0, "Note `id` (required)")

	return &Command{
		Flags: fs,
		Usage: "del rec -n <name> -id <id>",
		Short: "Delete a note",
		Long:  "Delete a note. The remaining notes keep their IDs.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if err := noArgs(args); err != nil {
				return err
			}

			if !fs.Changed("id") {
				return ErrIDRequired
			}

			repo, err := a.repository()
			if err != nil {
				return err
			}

			if err := repo.DeleteNote(*name, *id); err != nil {
				return err
			}

			o.Message("Record %d successfully deleted for character '%s'.", *id, strings.TrimSpace(*name))

			return nil
		},
	}
}

func lsNoteCmd(a *app) *Command {
	fs := newFlagSet("ls rec")
	name := fs.StringP("name", "n", "", "Character `name` (required)")

	return &Command{
		Flags: fs,
		Usage: "ls rec -n <name>",
		Short: "List the notes of a character",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if err := noArgs(args); err != nil {
				return err
			}

			repo, err := a.repository()
			if err != nil {
				return err
			}

			notes, err := repo.Notes(*name)
			if err != nil {
				return err
			}

			if len(notes) == 0 {
				o.Message("No records available.")

				return nil
			}

			for _, n := range notes {
				first, _, _ := strings.Cut(n.Text, "\n")
				o.Printf("%d\t%s\t%s\n", n.ID, character.FormatDate(n.Date), first)
			}

			return nil
		},
	}
}

func showNoteCmd(a *app) *Command {
	fs := newFlagSet("show rec")
	name := fs.StringP("name", "n", "", "Character `name` (required)")
	id := fs.Int("id", 0, "Note `id` (required)")

	return &Command{
		Flags: fs,
		Usage: "show rec -n <name> -id <id>",
		Short: "Show a single note",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if err := noArgs(args); err != nil {
				return err
			}

			if !fs.Changed("id") {
				return ErrIDRequired
			}

			repo, err := a.repository()
			if err != nil {
				return err
			}

			n, err := repo.Note(*name, *id)
			if err != nil {
				return err
			}

			o.Printf("### Note %d - %s:\n%s\n", n.ID, character.FormatDate(n.Date), n.Text)

			return nil
		},
	}
}
