package cli_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/charsheet/internal/cli"
)

var delimiter = strings.Repeat("=", 72)

func Test_Repl_Runs_Commands_Until_Exit(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	writeFile(t, filepath.Join(c.Dir, ".charsheet.json"), `{"storage_dir": "characters"}`)

	input := strings.Join([]string{
		"mk ch -n Mara -a The Red",
		"",
		`add rec -n Mara -t "keeps  two spaces"`,
		"add rec -n Mara -t Mara's brother",
		"ls rec -n Mara",
		"exit",
		"ls ch",
	}, "\n") + "\n"

	stdout, stderr, code := c.RunWithInput(input)
	require.Equal(t, 0, code, stderr)

	cli.AssertContains(t, stdout, "charsheet - type 'help' for commands, 'exit' to quit.")
	cli.AssertContains(t, stdout, "Character 'Mara' created successfully.")
	cli.AssertContains(t, stdout, "1\tN/A\tkeeps  two spaces")
	cli.AssertContains(t, stdout, "2\tN/A\tMara's brother")
	cli.AssertContains(t, stdout, "Bye!")
	cli.AssertNotContains(t, stdout, "Storage directory for character files")

	assert.Equal(t, 4, strings.Count(stdout, delimiter), "one delimiter per command")
	assert.Equal(t, 6, strings.Count(stdout, "> "), "one prompt per line up to exit")

	content := c.ReadCharacter("Mara")
	cli.AssertContains(t, content, "# Mara (The Red)")
	cli.AssertContains(t, content, "### Note 2 - N/A:\nMara's brother\n")
}

func Test_Repl_Keeps_Going_After_Errors(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	input := "\n" + strings.Join([]string{
		"read ch -n Nobody",
		"teleport",
		`mk ch -n "Mara`,
		"mk ch -n Mara",
	}, "\n") + "\n"

	stdout, stderr, code := c.RunWithInput(input)
	require.Equal(t, 0, code, stderr)

	cli.AssertContains(t, stderr, "character not found: Nobody")
	cli.AssertContains(t, stderr, "unknown command: teleport")
	cli.AssertContains(t, stderr, "unterminated quote")
	cli.AssertContains(t, stdout, "Character 'Mara' created successfully.")
	cli.AssertContains(t, stdout, "\nBye!")
}

func Test_Repl_Asks_For_Storage_Directory_On_First_Run(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stdout, stderr, code := c.RunWithInput("vault\nmk ch -n Ada\n")
	require.Equal(t, 0, code, stderr)

	path := filepath.Join(c.Dir, ".charsheet.json")
	cli.AssertContains(t, stdout, "Storage directory for character files [characters]: ")
	cli.AssertContains(t, stdout, "Settings saved to "+path+".")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"storage_dir": "vault"}`, string(data))
	assert.FileExists(t, filepath.Join(c.Dir, "vault", "Ada.md"))

	// Second session finds the config and does not ask again.
	stdout, _, code = c.RunWithInput("ls ch\n")
	require.Equal(t, 0, code)
	cli.AssertNotContains(t, stdout, "Storage directory for character files")
	cli.AssertContains(t, stdout, "Ada")
}

func Test_Repl_Uses_Default_Directory_When_Answer_Is_Blank(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	_, stderr, code := c.RunWithInput("\nmk ch -n Ada\n")
	require.Equal(t, 0, code, stderr)

	assert.FileExists(t, filepath.Join(c.StorageDir(), "Ada.md"))
	assert.FileExists(t, filepath.Join(c.Dir, ".charsheet.json"))
}

func Test_Repl_Skips_Setup_When_Dir_Flag_Is_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stdout, stderr, code := c.RunWithInput("mk ch -n Ada\n", "--dir", "elsewhere")
	require.Equal(t, 0, code, stderr)

	cli.AssertNotContains(t, stdout, "Storage directory for character files")
	assert.FileExists(t, filepath.Join(c.Dir, "elsewhere", "Ada.md"))
	assert.NoFileExists(t, filepath.Join(c.Dir, ".charsheet.json"))
}
