package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/calvinalkan/charsheet/internal/config"
)

func printConfigCmd(a *app) *Command {
	return &Command{
		Flags: newFlagSet("print-config"),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if err := noArgs(args); err != nil {
				return err
			}

			return execPrintConfig(o, a.cfg)
		},
	}
}

func execPrintConfig(o *IO, cfg config.Config) error {
	o.Println("effective_cwd=" + cfg.EffectiveCwd)
	o.Println("storage_dir=" + cfg.StorageDirAbs)

	if cfg.LogFileAbs != "" {
		o.Println("log_file=" + cfg.LogFileAbs)
	}

	o.Println("")
	o.Println("# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		o.Println("(defaults only)")
	} else {
		if cfg.Sources.Global != "" {
			o.Println("global_config=" + cfg.Sources.Global)
		}

		if cfg.Sources.Project != "" {
			o.Println("project_config=" + cfg.Sources.Project)
		}
	}

	return nil
}

func initCmd(a *app) *Command {
	fs := newFlagSet("init")
	dir := fs.String("dir", "", "Storage `dir` to record (default: current setting)")
	force := fs.Bool("force", false, "Overwrite an existing config file")

	return &Command{
		Flags: fs,
		Usage: "init [--dir <dir>] [--force]",
		Short: "Write a project config file",
		Long: "Write " + config.FileName + " in the working directory with the storage\n" +
			"directory to use, and create that directory.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if err := noArgs(args); err != nil {
				return err
			}

			path := a.cfg.ProjectPath()

			if _, err := os.Stat(path); err == nil && !*force {
				return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
			}

			storageDir := a.cfg.StorageDir
			if *dir != "" {
				storageDir = *dir
			}

			if err := a.saveStorageDir(path, storageDir); err != nil {
				return err
			}

			if _, err := a.repository(); err != nil {
				return err
			}

			o.Message("Settings saved to %s (storage_dir=%s).", path, storageDir)

			return nil
		},
	}
}

// saveStorageDir writes a config file at path holding storageDir and
// switches the app over to it.
func (a *app) saveStorageDir(path, storageDir string) error {
	if err := config.SaveProject(path, config.Config{StorageDir: storageDir}); err != nil {
		return err
	}

	abs := storageDir
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(a.cfg.EffectiveCwd, abs)
	}

	a.setStorageDir(storageDir, abs)
	a.cfg.Sources.Project = path

	return nil
}
