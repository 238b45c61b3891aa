// Package cli implements the charsheet command line: one-shot commands and
// the interactive prompt.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/charsheet/internal/character"
	"github.com/calvinalkan/charsheet/internal/config"
	"github.com/calvinalkan/charsheet/pkg/fs"
)

// Run is the main entry point. Returns exit code.
//
// With a command it runs that command once. Without one it starts the
// interactive prompt, reading lines from in. sigCh may be nil; a signal on
// it cancels the running command's context.
func Run(in io.Reader, out, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	o := NewIO(out, errOut)

	globals := flag.NewFlagSet("charsheet", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	flagCwd := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	flagConfig := globals.StringP("config", "c", "", "Use specified config `file`")
	flagDir := globals.String("dir", "", "Override character storage `dir`")
	flagVerbose := globals.BoolP("verbose", "v", false, "Log to stderr")
	flagHelp := globals.BoolP("help", "h", false, "Show help")

	if len(args) > 0 {
		args = args[1:]
	}

	if err := globals.Parse(args); err != nil {
		o.Error(err)
		printUsage(NewIO(errOut, errOut), globals)

		return 1
	}

	if globals.Changed("dir") && *flagDir == "" {
		o.Error(errors.New("--dir cannot be empty"))

		return 1
	}

	if *flagHelp {
		printUsage(o, globals)

		return 0
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride:    *flagCwd,
		ConfigPath:         *flagConfig,
		StorageDirOverride: *flagDir,
		Env:                env,
	})
	if err != nil {
		o.Error(err)

		return 1
	}

	log, closeLog, err := newLogger(errOut, *flagVerbose, cfg.LogFileAbs)
	if err != nil {
		o.Warn(err.Error())
	}

	defer func() { _ = closeLog() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	a := &app{
		cfg:         cfg,
		env:         env,
		log:         log,
		globals:     globals,
		dirOverride: *flagDir != "",
	}

	if globals.NArg() == 0 {
		if err := a.repl(ctx, in, o); err != nil {
			o.Error(err)

			return 1
		}

		return o.Finish()
	}

	if code := a.dispatch(ctx, o, globals.Args()); code != 0 {
		return code
	}

	return o.Finish()
}

// app is the state shared by all commands of one Run.
type app struct {
	cfg         config.Config
	env         map[string]string
	log         *slog.Logger
	globals     *flag.FlagSet
	dirOverride bool

	repo *character.Repository
}

// repository opens the character store on first use, creating the storage
// directory.
func (a *app) repository() (*character.Repository, error) {
	if a.repo != nil {
		return a.repo, nil
	}

	store, err := character.NewStore(fs.NewReal(), a.cfg.StorageDirAbs)
	if err != nil {
		return nil, err
	}

	a.repo = character.NewRepository(store)

	return a.repo, nil
}

// setStorageDir points the app at a new storage directory.
func (a *app) setStorageDir(dir, abs string) {
	a.cfg.StorageDir = dir
	a.cfg.StorageDirAbs = abs
	a.repo = nil
}

// commands returns a fresh set of commands. Flag values live in the FlagSets,
// so every dispatch needs new ones.
func (a *app) commands() []*Command {
	return []*Command{
		mkCharacterCmd(a),
		readCharacterCmd(a),
		delCharacterCmd(a),
		lsCharacterCmd(a),
		exportCharacterCmd(a),
		addNoteCmd(a),
		editNoteCmd(a),
		delNoteCmd(a),
		lsNoteCmd(a),
		showNoteCmd(a),
		initCmd(a),
		printConfigCmd(a),
		helpCmd(a),
	}
}

// lookup finds the command named by the leading words of args and returns
// it with the remaining args. Matching ignores case.
func lookup(cmds []*Command, args []string) (*Command, []string) {
	if len(args) >= 2 {
		name := strings.ToLower(args[0] + " " + args[1])
		for _, c := range cmds {
			if c.Name() == name {
				return c, args[2:]
			}
		}
	}

	if len(args) >= 1 {
		name := strings.ToLower(args[0])
		for _, c := range cmds {
			if c.Name() == name {
				return c, args[1:]
			}
		}
	}

	return nil, nil
}

// dispatch runs the command named by args and returns its exit code.
func (a *app) dispatch(ctx context.Context, o *IO, args []string) int {
	cmd, rest := lookup(a.commands(), args)
	if cmd == nil {
		o.Error(fmt.Errorf("%w: %s", ErrUnknownCommand, strings.Join(args[:min(2, len(args))], " ")))
		o.ErrPrintln("Type 'help' for a list of commands.")

		return 1
	}

	name := cmd.Name()
	exec := cmd.Exec
	cmd.Exec = func(ctx context.Context, o *IO, args []string) error {
		a.log.Debug("command started", "command", name, "args", args)

		err := exec(ctx, o, args)
		if err != nil {
			a.log.Error("command failed", "command", name, "error", err)
		} else {
			a.log.Info("command finished", "command", name)
		}

		return err
	}

	return cmd.Run(ctx, o, rest)
}

func printUsage(o *IO, globals *flag.FlagSet) {
	o.Println("charsheet - character sheets stored as markdown files")
	o.Println()
	o.Println("Usage: charsheet [global flags] <command> [flags]")
	o.Println("       charsheet [global flags]    (interactive prompt)")
	o.Println()
	o.Println("Global flags:")

	var buf strings.Builder
	globals.SetOutput(&buf)
	globals.PrintDefaults()
	globals.SetOutput(&strings.Builder{})
	o.Printf("%s", buf.String())

	o.Println()
	printCommandList(o, (&app{}).commands())
}

func printCommandList(o *IO, cmds []*Command) {
	o.Println("Commands:")

	for _, c := range cmds {
		o.Println(c.HelpLine())
	}
}
