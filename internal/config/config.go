// Package config loads charsheet configuration from JSONC files.
//
// Precedence, highest wins:
//  1. Defaults
//  2. Global user config ($XDG_CONFIG_HOME/charsheet/config.json or ~/.config/charsheet/config.json)
//  3. Project config file at the default location (.charsheet.json, if it exists)
//  4. Explicit config file via -c/--config (replaces 3)
//  5. CLI overrides
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

// Error variables for config loading.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrStorageDirEmpty    = errors.New("storage_dir cannot be empty")
)

// FileName is the project config file name.
const FileName = ".charsheet.json"

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	StorageDir string `json:"storage_dir"`
	LogFile    string `json:"log_file,omitempty"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd  string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	StorageDirAbs string `json:"-"` // Absolute path to the character directory
	LogFileAbs    string `json:"-"` // Absolute path to the log file, empty when unset

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		StorageDir: "characters",
	}
}

// GlobalPath returns the path of the global config file.
// Uses $XDG_CONFIG_HOME/charsheet/config.json if set, otherwise
// ~/.config/charsheet/config.json. Empty if neither variable is set.
func GlobalPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "charsheet", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "charsheet", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for [Load].
type LoadInput struct {
	WorkDirOverride    string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath         string            // -c/--config flag value
	StorageDirOverride string            // --dir flag value; empty means no override
	Env                map[string]string // environment variables
}

// Load resolves the effective configuration. All paths in the returned
// Config are absolute.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return Config{}, fmt.Errorf("resolving working directory: %w", err)
	}

	cfg := Defaults()

	globalCfg, globalPath, err := loadOptional(GlobalPath(input.Env))
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalPath
	cfg = merge(cfg, globalCfg)

	projectCfg, projectPath, err := loadProject(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = merge(cfg, projectCfg)

	if input.StorageDirOverride != "" {
		cfg.StorageDir = input.StorageDirOverride
	}

	if cfg.StorageDir == "" {
		return Config{}, ErrStorageDirEmpty
	}

	cfg.EffectiveCwd = workDir
	cfg.StorageDirAbs = resolve(workDir, cfg.StorageDir)

	if cfg.LogFile != "" {
		cfg.LogFileAbs = resolve(workDir, cfg.LogFile)
	}

	return cfg, nil
}

// ProjectPath returns where the project config for cfg lives: the file it
// was loaded from, or .charsheet.json in the working directory.
func (c Config) ProjectPath() string {
	if c.Sources.Project != "" {
		return c.Sources.Project
	}

	return filepath.Join(c.EffectiveCwd, FileName)
}

// SaveProject writes the serialized fields of cfg to path, replacing the
// file atomically.
func SaveProject(path string, cfg Config) error {
	data, err := Format(cfg)
	if err != nil {
		return err
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}

	return nil
}

// Format renders the serialized fields of cfg as indented JSON.
func Format(cfg Config) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}

	return append(data, '\n'), nil
}

func loadProject(workDir, configPath string) (Config, string, error) {
	if configPath == "" {
		return loadOptional(filepath.Join(workDir, FileName))
	}

	path := resolve(workDir, configPath)

	if _, err := os.Stat(path); err != nil {
		return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileRead, path)
	}

	cfg, err := parseFile(path, data)
	if err != nil {
		return Config{}, "", err
	}

	return cfg, path, nil
}

// loadOptional loads path if it exists. A missing file yields a zero Config
// and an empty source path.
func loadOptional(path string) (Config, string, error) {
	if path == "" {
		return Config{}, "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, "", nil
		}

		return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileRead, path)
	}

	cfg, err := parseFile(path, data)
	if err != nil {
		return Config{}, "", err
	}

	return cfg, path, nil
}

func parseFile(path string, data []byte) (Config, error) {
	cfg, explicitEmpty, err := parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	if explicitEmpty["storage_dir"] {
		return Config{}, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, ErrStorageDirEmpty)
	}

	return cfg, nil
}

func parse(data []byte) (Config, map[string]bool, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	explicitEmpty := make(map[string]bool)

	if val, ok := raw["storage_dir"].(string); ok && val == "" {
		explicitEmpty["storage_dir"] = true
	}

	return cfg, explicitEmpty, nil
}

func merge(base, overlay Config) Config {
	if overlay.StorageDir != "" {
		base.StorageDir = overlay.StorageDir
	}

	if overlay.LogFile != "" {
		base.LogFile = overlay.LogFile
	}

	return base
}

func resolve(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(workDir, path)
}
