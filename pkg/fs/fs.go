// Package fs is the filesystem seam under the character store.
//
// [Real] talks to the disk through the os package. [Chaos] wraps any [FS]
// and fails a configurable share of calls, so error paths above it can be
// tested without a broken disk. [AtomicWriter] replaces whole files via a
// temp file and a rename on top of either.
package fs

import (
	"io"
	"os"
)

// File is an open file. *os.File satisfies it.
type File interface {
	io.ReadWriteCloser

	// Sync flushes the file to stable storage. See [os.File.Sync].
	Sync() error

	// Chmod sets the file mode. See [os.File.Chmod].
	Chmod(mode os.FileMode) error
}

// FS is the set of filesystem calls the store makes. Each method behaves
// like the os function of the same name and takes OS paths, not the
// slash-separated paths of io/fs.
type FS interface {
	Open(path string) (File, error)
	OpenFile(path string, flag int, perm os.FileMode) (File, error)
	ReadFile(path string) ([]byte, error)

	// ReadDir returns the entries of path sorted by file name.
	ReadDir(path string) ([]os.DirEntry, error)

	MkdirAll(path string, perm os.FileMode) error
	Remove(path string) error

	// Rename replaces newpath with oldpath. Atomic within one filesystem.
	Rename(oldpath, newpath string) error
}
