package cli

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func Test_GatherFlagValues_Joins_Words_Until_Next_Flag(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "multi word values",
			args: []string{"-n", "Mara", "-t", "met", "the", "baron", "-d", "2024/01/05"},
			want: []string{"-n", "Mara", "-t", "met the baron", "-d", "2024/01/05"},
		},
		{
			name: "legacy single dash long flags",
			args: []string{"-id", "3", "-app", "tall", "and", "grim"},
			want: []string{"--id", "3", "--app", "tall and grim"},
		},
		{
			name: "bool flag takes no value",
			args: []string{"-n", "Mara", "--raw"},
			want: []string{"-n", "Mara", "--raw"},
		},
		{
			name: "words before first flag stay positional",
			args: []string{"stray", "-n", "Mara"},
			want: []string{"stray", "-n", "Mara"},
		},
		{
			name: "inline value is left alone",
			args: []string{"--text=a b", "-n", "Mara"},
			want: []string{"--text=a b", "-n", "Mara"},
		},
		{
			name: "unknown flag passes through",
			args: []string{"--colour", "red", "-n", "Mara"},
			want: []string{"--colour", "red", "-n", "Mara"},
		},
		{
			name: "everything after double dash passes through",
			args: []string{"-t", "a", "b", "--", "-n", "x"},
			want: []string{"-t", "a b", "--", "-n", "x"},
		},
		{
			name: "flag without value",
			args: []string{"-n"},
			want: []string{"-n"},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := newFlagSet("test")
			fs.StringP("name", "n", "", "")
			fs.StringP("text", "t", "", "")
			fs.StringP("date", "d", "", "")
			fs.String("appearance", "", "")
			fs.Int("id", 0, "")
			fs.Bool("raw", false, "")

			got := gatherFlagValues(fs, tt.args)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("gatherFlagValues mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_SplitLine_Groups_Double_Quoted_Words(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		line string
		want []string
	}{
		{"ls ch", []string{"ls", "ch"}},
		{"  add   rec\t-n Mara  ", []string{"add", "rec", "-n", "Mara"}},
		{`add rec -t "two  spaces" -n Mara`, []string{"add", "rec", "-t", "two  spaces", "-n", "Mara"}},
		{`-t Mara's`, []string{"-t", "Mara's"}},
		{`-a ""`, []string{"-a", ""}},
		{`-n Ma"ra Ko"l`, []string{"-n", "Mara Kol"}},
	} {
		got, err := splitLine(tt.line)
		if err != nil {
			t.Fatalf("splitLine(%q): %v", tt.line, err)
		}

		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("splitLine(%q) mismatch (-want +got):\n%s", tt.line, diff)
		}
	}

	if _, err := splitLine(`mk ch -n "Mara`); !errors.Is(err, ErrUnterminatedQuote) {
		t.Fatalf("err=%v, want %v", err, ErrUnterminatedQuote)
	}
}

func Test_Command_Name_Stops_At_First_Flag_Or_Placeholder(t *testing.T) {
	t.Parallel()

	for usage, want := range map[string]string{
		"mk ch -n <name> [-a <alias>]": "mk ch",
		"ls ch":                        "ls ch",
		"help [command]":               "help",
		"init [--dir <dir>] [--force]": "init",
		"print-config":                 "print-config",
	} {
		if got := (&Command{Usage: usage}).Name(); got != want {
			t.Errorf("Name(%q)=%q, want=%q", usage, got, want)
		}
	}
}

func Test_Complete_Suggests_Commands_And_Character_Names(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	a := &app{}
	a.setStorageDir(dir, dir)

	repo, err := a.repository()
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.Store().Write("Mara", "# Mara ()\n"); err != nil {
		t.Fatal(err)
	}

	if err := repo.Store().Write("Bram", "# Bram ()\n"); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"ls ch", "ls rec"}, a.complete("ls")); diff != "" {
		t.Errorf("complete(ls) mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"export ch", "exit"}, a.complete("ex")); diff != "" {
		t.Errorf("complete(ex) mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"read ch -n Mara"}, a.complete("read ch -n m")); diff != "" {
		t.Errorf("complete(read ch -n m) mismatch (-want +got):\n%s", diff)
	}
}
