package character

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/calvinalkan/charsheet/pkg/fs"
)

// FileExt is the extension of every character file.
const FileExt = ".md"

const dirPerms = 0o750

// Store maps character names to markdown files in a single directory.
//
// Name matching is case-insensitive: "mara" finds Mara.md. When no file
// exists yet, the name is used verbatim, so the casing given at creation is
// the casing kept on disk.
//
// Store moves raw text only. It does not parse or validate file content.
type Store struct {
	fs     fs.FS
	writer *fs.AtomicWriter
	dir    string
}

// NewStore returns a Store rooted at dir, creating the directory if missing.
func NewStore(fsys fs.FS, dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("storage directory is empty")
	}

	if err := fsys.MkdirAll(dir, dirPerms); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	return &Store{
		fs:     fsys,
		writer: fs.NewAtomicWriter(fsys),
		dir:    dir,
	}, nil
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the path a new file for name would get: <dir>/<name>.md.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+FileExt)
}

// Exists reports whether a file for name exists, ignoring case.
func (s *Store) Exists(name string) (bool, error) {
	_, found, err := s.resolve(name)

	return found, err
}

// FileName returns the name of the file stored for name, in its on-disk
// casing. Fails with [ErrNotFound] when there is none.
func (s *Store) FileName(name string) (string, error) {
	path, found, err := s.resolve(name)
	if err != nil {
		return "", err
	}

	if !found {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return filepath.Base(path), nil
}

// Read returns the content of the file for name.
// Fails with [ErrNotFound] when there is none.
func (s *Store) Read(name string) (string, error) {
	path, found, err := s.resolve(name)
	if err != nil {
		return "", err
	}

	if !found {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	return string(data), nil
}

// Write replaces the file for name with text, creating it if needed.
// An existing file is overwritten in place under its current casing.
// Callers decide whether overwriting is allowed.
func (s *Store) Write(name, text string) error {
	path, found, err := s.resolve(name)
	if err != nil {
		return err
	}

	if !found {
		path = s.Path(name)
	}

	if err := s.writer.Write(path, strings.NewReader(text)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

// Delete removes the file for name.
// Fails with [ErrNotFound] when there is none.
func (s *Store) Delete(name string) error {
	path, found, err := s.resolve(name)
	if err != nil {
		return err
	}

	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if err := s.fs.Remove(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}

	return nil
}

// List returns the names of all stored characters (file names without the
// extension), sorted case-insensitively.
func (s *Store) List() ([]string, error) {
	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading storage directory: %w", err)
	}

	var names []string

	for _, e := range entries {
		if name, ok := characterName(e.Name()); ok && !e.IsDir() {
			names = append(names, name)
		}
	}

	slices.SortFunc(names, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})

	return names, nil
}

// resolve finds the file backing name. An exact-case match wins over a
// case-insensitive one, which matters on case-sensitive filesystems where
// both Mara.md and mara.md can exist.
func (s *Store) resolve(name string) (string, bool, error) {
	if err := ValidateName(name); err != nil {
		return "", false, err
	}

	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		return "", false, fmt.Errorf("reading storage directory: %w", err)
	}

	want := name + FileExt
	match := ""

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		if e.Name() == want {
			return filepath.Join(s.dir, e.Name()), true, nil
		}

		if match == "" && strings.EqualFold(e.Name(), want) {
			match = e.Name()
		}
	}

	if match == "" {
		return "", false, nil
	}

	return filepath.Join(s.dir, match), true, nil
}

// characterName returns the character name for a directory entry, skipping
// hidden files (including in-flight temp files) and non-markdown files.
func characterName(fileName string) (string, bool) {
	if strings.HasPrefix(fileName, ".") {
		return "", false
	}

	if len(fileName) <= len(FileExt) || !strings.EqualFold(fileName[len(fileName)-len(FileExt):], FileExt) {
		return "", false
	}

	return fileName[:len(fileName)-len(FileExt)], true
}

// ValidateName checks that name can be used as a file name stem inside the
// storage directory.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}

	switch {
	case name != strings.TrimSpace(name):
		return fmt.Errorf("%w: %q has leading or trailing spaces", ErrInvalidName, name)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, "/\\\x00\r\n"):
		return fmt.Errorf("%w: %q contains a path separator or control character", ErrInvalidName, name)
	case strings.HasPrefix(name, "#") || strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q cannot start with '#' or '.'", ErrInvalidName, name)
	}

	return nil
}
