package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/peterh/liner"
)

const replPrompt = "> "

// prompter reads one line of input per call. *liner.State satisfies it.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// repl runs the interactive command loop until exit, EOF, Ctrl-C at the
// prompt, or ctx cancellation.
func (a *app) repl(ctx context.Context, in io.Reader, o *IO) error {
	p := a.newPrompter(in, o.out)
	defer func() { _ = p.Close() }()

	o.Println("charsheet - type 'help' for commands, 'exit' to quit.")

	if err := a.firstRunSetup(p, o); err != nil {
		return err
	}

	for ctx.Err() == nil {
		line, err := p.Prompt(replPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				o.Println()
				o.Println("Bye!")

				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		p.AppendHistory(line)

		words, err := splitLine(line)
		if err != nil {
			o.Error(err)

			continue
		}

		switch strings.ToLower(words[0]) {
		case "exit", "quit", "q":
			o.Println("Bye!")

			return nil
		}

		a.dispatch(ctx, o, words)
		o.Delimiter()
	}

	return nil
}

// firstRunSetup asks for the storage directory when no config file was
// found and no --dir was given, and saves the answer as project config.
func (a *app) firstRunSetup(p prompter, o *IO) error {
	if a.dirOverride || a.cfg.Sources.Global != "" || a.cfg.Sources.Project != "" {
		return nil
	}

	answer, err := p.Prompt(fmt.Sprintf("Storage directory for character files [%s]: ", a.cfg.StorageDir))
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}

		return fmt.Errorf("reading input: %w", err)
	}

	dir := strings.TrimSpace(answer)
	if dir == "" {
		dir = a.cfg.StorageDir
	}

	path := a.cfg.ProjectPath()

	if err := a.saveStorageDir(path, dir); err != nil {
		return err
	}

	a.log.Info("saved storage directory", "path", path, "storage_dir", dir)
	o.Message("Settings saved to %s.", path)

	return nil
}

// newPrompter uses liner for an interactive terminal on stdin and a plain
// line scanner for anything else.
func (a *app) newPrompter(in io.Reader, out io.Writer) prompter {
	if in == nil {
		in = strings.NewReader("")
	}

	if f, ok := in.(*os.File); ok && f == os.Stdin && liner.TerminalSupported() {
		return newLinePrompter(historyPath(a.env), a.complete)
	}

	return &scanPrompter{scanner: bufio.NewScanner(in), out: out}
}

// linePrompter is a liner session that persists its history on Close.
type linePrompter struct {
	*liner.State

	historyPath string
}

func newLinePrompter(history string, completer liner.Completer) *linePrompter {
	l := liner.NewLiner()
	l.SetCtrlCAborts(true)
	l.SetCompleter(completer)

	if history != "" {
		if f, err := os.Open(history); err == nil {
			_, _ = l.ReadHistory(f)
			_ = f.Close()
		}
	}

	return &linePrompter{State: l, historyPath: history}
}

func (p *linePrompter) Close() error {
	if p.historyPath != "" {
		if f, err := os.Create(p.historyPath); err == nil {
			_, _ = p.WriteHistory(f)
			_ = f.Close()
		}
	}

	return p.State.Close()
}

// scanPrompter reads lines from a non-terminal reader.
type scanPrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (p *scanPrompter) Prompt(prompt string) (string, error) {
	_, _ = io.WriteString(p.out, prompt)

	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return p.scanner.Text(), nil
}

func (*scanPrompter) AppendHistory(string) {}

func (*scanPrompter) Close() error { return nil }

func historyPath(env map[string]string) string {
	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".charsheet_history")
	}

	return ""
}

// complete suggests command names and, after "-n ", stored character names.
func (a *app) complete(line string) []string {
	var out []string

	if i := strings.LastIndex(line, "-n "); i >= 0 {
		head, partial := line[:i+3], strings.ToLower(line[i+3:])

		repo, err := a.repository()
		if err != nil {
			return nil
		}

		names, err := repo.List()
		if err != nil {
			return nil
		}

		for _, n := range names {
			if strings.HasPrefix(strings.ToLower(n), partial) {
				out = append(out, head+n)
			}
		}

		return out
	}

	lower := strings.ToLower(line)

	for _, c := range a.commands() {
		if strings.HasPrefix(c.Name(), lower) {
			out = append(out, c.Name())
		}
	}

	if strings.HasPrefix("exit", lower) {
		out = append(out, "exit")
	}

	return out
}

// splitLine splits an input line into words at whitespace. Double quotes
// group words; single quotes are literal so "Mara's" needs no escaping.
func splitLine(line string) ([]string, error) {
	var (
		words   []string
		cur     strings.Builder
		inWord  bool
		inQuote bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			inWord = true
		case !inQuote && unicode.IsSpace(r):
			if inWord {
				words = append(words, cur.String())
				cur.Reset()

				inWord = false
			}
		default:
			cur.WriteRune(r)

			inWord = true
		}
	}

	if inQuote {
		return nil, ErrUnterminatedQuote
	}

	if inWord {
		words = append(words, cur.String())
	}

	return words, nil
}
