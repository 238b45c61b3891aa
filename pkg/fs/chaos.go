package fs

import (
	"errors"
	"io/fs"
	"math/rand/v2"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
)

// ChaosConfig controls fault injection probabilities.
// Each rate is a float64 from 0.0 (never) to 1.0 (always).
//
// The zero value disables all fault injection.
type ChaosConfig struct {
	// ReadFailRate controls how often FS.ReadFile fails. Returns EACCES or EIO.
	ReadFailRate float64

	// ReadDirFailRate controls how often FS.ReadDir fails. Returns EACCES or EIO.
	ReadDirFailRate float64

	// OpenFailRate controls how often FS.Open and FS.OpenFile fail.
	// Returns EACCES, EIO, or ENOSPC.
	OpenFailRate float64

	// WriteFailRate controls how often File.Write fails. Half of the injected
	// failures write a prefix of the data before failing.
	WriteFailRate float64

	// SyncFailRate controls how often File.Sync fails. Returns EIO or ENOSPC.
	SyncFailRate float64

	// RenameFailRate controls how often FS.Rename fails with an [*os.LinkError].
	RenameFailRate float64

	// RemoveFailRate controls how often FS.Remove fails. Returns EACCES or EBUSY.
	RemoveFailRate float64
}

// ChaosMode controls how [Chaos] behaves.
type ChaosMode uint8

const (
	// ChaosModeActive enables fault-rate injection.
	// This is the default mode for a new [Chaos].
	ChaosModeActive ChaosMode = iota

	// ChaosModeNoOp passes every operation directly to the underlying FS.
	ChaosModeNoOp
)

// chaosError marks an error as intentionally injected by [Chaos].
// It wraps the underlying error so errors.Is/As continue to work.
type chaosError struct {
	Err error
}

func (e *chaosError) Error() string {
	return "chaos: " + e.Err.Error()
}

func (e *chaosError) Unwrap() error {
	return e.Err
}

// IsChaosErr reports whether err (or any wrapped error) was injected by [Chaos].
func IsChaosErr(err error) bool {
	var injected *chaosError

	return errors.As(err, &injected)
}

// Chaos wraps an [FS] and injects random failures for testing.
//
// Injected errors are real [*fs.PathError] or [*os.LinkError] values carrying a
// [syscall.Errno], so os.IsPermission and friends behave as for real errors.
// Chaos never injects ENOENT; any os.IsNotExist result comes from the wrapped FS.
type Chaos struct {
	fs     FS
	config ChaosConfig
	mode   atomic.Uint32
	faults atomic.Int64

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewChaos creates a [Chaos] filesystem wrapping underlying.
// The seed makes fault injection reproducible. Panics if underlying is nil.
func NewChaos(underlying FS, seed int64, config ChaosConfig) *Chaos {
	if underlying == nil {
		panic("underlying fs is nil")
	}

	return &Chaos{
		fs:     underlying,
		config: config,
		rng:    rand.New(rand.NewPCG(uint64(seed), uint64(seed))),
	}
}

// SetMode switches between injecting faults and passing through.
// Safe to call concurrently with filesystem operations.
func (c *Chaos) SetMode(m ChaosMode) { c.mode.Store(uint32(m)) }

// TotalFaults returns how many faults have been injected so far.
func (c *Chaos) TotalFaults() int64 { return c.faults.Load() }

func (c *Chaos) Open(path string) (File, error) {
	return c.open(path, func() (File, error) { return c.fs.Open(path) })
}

func (c *Chaos) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	return c.open(path, func() (File, error) { return c.fs.OpenFile(path, flag, perm) })
}

func (c *Chaos) ReadFile(path string) ([]byte, error) {
	if c.should(c.config.ReadFailRate) {
		return nil, c.pathError("read", path, syscall.EACCES, syscall.EIO)
	}

	return c.fs.ReadFile(path)
}

func (c *Chaos) ReadDir(path string) ([]os.DirEntry, error) {
	if c.should(c.config.ReadDirFailRate) {
		return nil, c.pathError("readdir", path, syscall.EACCES, syscall.EIO)
	}

	return c.fs.ReadDir(path)
}

func (c *Chaos) MkdirAll(path string, perm os.FileMode) error {
	return c.fs.MkdirAll(path, perm)
}

func (c *Chaos) Remove(path string) error {
	if c.should(c.config.RemoveFailRate) {
		return c.pathError("remove", path, syscall.EACCES, syscall.EBUSY)
	}

	return c.fs.Remove(path)
}

func (c *Chaos) Rename(oldpath, newpath string) error {
	if c.should(c.config.RenameFailRate) {
		errno := c.pick(syscall.EACCES, syscall.EIO, syscall.EXDEV)

		return &chaosError{Err: &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: errno}}
	}

	return c.fs.Rename(oldpath, newpath)
}

func (c *Chaos) open(path string, openFn func() (File, error)) (File, error) {
	if c.should(c.config.OpenFailRate) {
		return nil, c.pathError("open", path, syscall.EACCES, syscall.EIO, syscall.ENOSPC)
	}

	f, err := openFn()
	if err != nil {
		return nil, err
	}

	return &chaosFile{File: f, chaos: c, path: path}, nil
}

// should reports whether to inject a fault, counting it when it does.
func (c *Chaos) should(rate float64) bool {
	if ChaosMode(c.mode.Load()) != ChaosModeActive || rate <= 0 {
		return false
	}

	c.rngMu.Lock()
	hit := c.rng.Float64() < rate
	c.rngMu.Unlock()

	if hit {
		c.faults.Add(1)
	}

	return hit
}

func (c *Chaos) intn(n int) int {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()

	return c.rng.IntN(n)
}

func (c *Chaos) pick(errnos ...syscall.Errno) syscall.Errno {
	return errnos[c.intn(len(errnos))]
}

func (c *Chaos) pathError(op, path string, errnos ...syscall.Errno) error {
	return &chaosError{Err: &fs.PathError{Op: op, Path: path, Err: c.pick(errnos...)}}
}

// chaosFile injects write and sync faults into an open file.
type chaosFile struct {
	File

	chaos *Chaos
	path  string
}

func (cf *chaosFile) Write(data []byte) (int, error) {
	if !cf.chaos.should(cf.chaos.config.WriteFailRate) {
		return cf.File.Write(data)
	}

	err := cf.chaos.pathError("write", cf.path, syscall.EIO, syscall.ENOSPC)

	if len(data) > 1 && cf.chaos.intn(2) == 1 {
		n, _ := cf.File.Write(data[:len(data)/2])

		return n, err
	}

	return 0, err
}

func (cf *chaosFile) Sync() error {
	if cf.chaos.should(cf.chaos.config.SyncFailRate) {
		return cf.chaos.pathError("sync", cf.path, syscall.EIO, syscall.ENOSPC)
	}

	return cf.File.Sync()
}

// Compile-time interface checks.
var (
	_ FS   = (*Chaos)(nil)
	_ File = (*chaosFile)(nil)
)
