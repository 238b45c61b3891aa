package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
)

// ErrDirSync indicates the parent directory could not be synced after rename.
//
// When returned, the new file is in place but durability is not guaranteed.
var ErrDirSync = errors.New("dir sync")

// DefaultFilePerm is the mode character files are written with.
const DefaultFilePerm os.FileMode = 0o644

// AtomicWriter replaces files by writing a sibling temp file and renaming it
// over the target, so a reader never observes a half-written file.
type AtomicWriter struct {
	fs      FS
	perm    os.FileMode
	syncDir bool
}

// NewAtomicWriter creates an AtomicWriter on top of fsys that writes files
// with [DefaultFilePerm] and syncs the parent directory after each rename.
// Panics if fsys is nil.
func NewAtomicWriter(fsys FS) *AtomicWriter {
	if fsys == nil {
		panic("fs is nil")
	}

	return &AtomicWriter{fs: fsys, perm: DefaultFilePerm, syncDir: true}
}

// WithPerm returns a copy of w that writes files with the given mode.
func (w *AtomicWriter) WithPerm(perm os.FileMode) *AtomicWriter {
	cp := *w
	cp.perm = perm

	return &cp
}

// Write writes everything from r to path.
//
// The temp file is synced before the rename. If only the final directory
// sync fails, the returned error satisfies errors.Is(err, ErrDirSync).
func (w *AtomicWriter) Write(path string, r io.Reader) error {
	if r == nil {
		panic("reader is nil")
	}

	dir, base := filepath.Split(path)
	if base == "" || base == "." || base == string(os.PathSeparator) {
		return fmt.Errorf("invalid path %q", path)
	}

	if dir == "" {
		dir = "."
	}

	dir = filepath.Clean(dir)

	tmp, tmpPath, err := w.createTemp(dir, base)
	if err != nil {
		return err
	}

	discard := func() error {
		return errors.Join(closeFile("temp file", tmpPath, tmp), w.removeTemp(tmpPath))
	}

	if err := tmp.Chmod(w.perm); err != nil {
		return errors.Join(fmt.Errorf("chmod temp file %q: %w", tmpPath, err), discard())
	}

	if _, err := io.Copy(tmp, r); err != nil {
		return errors.Join(fmt.Errorf("write temp file %q: %w", tmpPath, err), discard())
	}

	if err := tmp.Sync(); err != nil {
		return errors.Join(fmt.Errorf("sync temp file %q: %w", tmpPath, err), discard())
	}

	if err := w.fs.Rename(tmpPath, path); err != nil {
		return errors.Join(fmt.Errorf("rename: %w", err), discard())
	}

	// The temp path is gone after a successful rename; only the handle is left.
	_ = closeFile("temp file", tmpPath, tmp)

	if w.syncDir {
		return w.fsyncDir(dir)
	}

	return nil
}

const maxTempAttempts = 10000

var tempCounter atomic.Uint64

func (w *AtomicWriter) createTemp(dir, base string) (File, string, error) {
	for range maxTempAttempts {
		path := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d", base, tempCounter.Add(1)))

		file, err := w.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, w.perm)
		if err == nil {
			return file, path, nil
		}

		if os.IsExist(err) {
			continue
		}

		return nil, "", fmt.Errorf("create temp file: %w", err)
	}

	return nil, "", fmt.Errorf("exhausted temp file attempts in %q", dir)
}

func (w *AtomicWriter) fsyncDir(dir string) error {
	d, err := w.fs.Open(dir)
	if err != nil {
		return errors.Join(ErrDirSync, fmt.Errorf("open dir %q: %w", dir, err))
	}

	syncErr := d.Sync()
	closeErr := closeFile("dir", dir, d)

	if syncErr != nil {
		return errors.Join(ErrDirSync, fmt.Errorf("%q: %w", dir, syncErr), closeErr)
	}

	return closeErr
}

func (w *AtomicWriter) removeTemp(path string) error {
	err := w.fs.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove temp file %q: %w", path, err)
	}

	return nil
}

func closeFile(kind, path string, f File) error {
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s %q: %w", kind, path, err)
	}

	return nil
}
