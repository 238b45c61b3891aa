package fs_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calvinalkan/charsheet/pkg/fs"
)

const testContent = "# Mara (The Red)\n"

// renameFailFS fails every Rename and forwards everything else to Real.
type renameFailFS struct {
	*fs.Real
}

var errInjected = errors.New("injected rename failure")

func (renameFailFS) Rename(string, string) error {
	return errInjected
}

func Test_AtomicWriter_Write_Creates_File_With_Content(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "Mara.md")

	err := fs.NewAtomicWriter(fs.NewReal()).Write(path, strings.NewReader(testContent))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if string(got) != testContent {
		t.Fatalf("content=%q, want %q", string(got), testContent)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}

	if got, want := info.Mode().Perm(), fs.DefaultFilePerm; got != want {
		t.Fatalf("perm=%v, want=%v", got, want)
	}
}

func Test_AtomicWriter_Write_Replaces_Existing_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "Mara.md")
	writer := fs.NewAtomicWriter(fs.NewReal()).WithPerm(0o600)

	if err := writer.Write(path, strings.NewReader("old")); err != nil {
		t.Fatalf("first Write: %v", err)
	}

	if err := writer.Write(path, strings.NewReader(testContent)); err != nil {
		t.Fatalf("second Write: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if string(got) != testContent {
		t.Fatalf("content=%q, want %q", string(got), testContent)
	}
}

func Test_AtomicWriter_Write_Leaves_Target_And_No_Temp_Files_When_Rename_Fails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "Mara.md")

	if err := os.WriteFile(path, []byte("original"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	writer := fs.NewAtomicWriter(renameFailFS{fs.NewReal()})

	err := writer.Write(path, strings.NewReader(testContent))
	if !errors.Is(err, errInjected) {
		t.Fatalf("err=%v, want %v", err, errInjected)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if string(got) != "original" {
		t.Fatalf("content=%q, want %q", string(got), "original")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("dir has %d entries, want 1 (temp file leaked?)", len(entries))
	}
}
