package character_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/charsheet/internal/character"
	"github.com/calvinalkan/charsheet/pkg/fs"
)

func newStore(t *testing.T) *character.Store {
	t.Helper()

	store, err := character.NewStore(fs.NewReal(), filepath.Join(t.TempDir(), "characters"))
	require.NoError(t, err)

	return store
}

func Test_NewStore_Creates_Directory_When_Missing(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "a", "b")

	_, err := character.NewStore(fs.NewReal(), dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func Test_Store_Path_Joins_Dir_Name_And_Extension(t *testing.T) {
	t.Parallel()

	store := newStore(t)

	assert.Equal(t, filepath.Join(store.Dir(), "Mara.md"), store.Path("Mara"))
}

func Test_Store_Read_Finds_File_When_Case_Differs(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	require.NoError(t, store.Write("Mara", "content"))

	for _, name := range []string{"Mara", "mara", "MARA"} {
		exists, err := store.Exists(name)
		require.NoError(t, err)
		assert.True(t, exists, name)

		got, err := store.Read(name)
		require.NoError(t, err)
		assert.Equal(t, "content", got, name)
	}
}

func Test_Store_Write_Keeps_Original_Casing_When_Overwriting(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	require.NoError(t, store.Write("Mara", "v1"))
	require.NoError(t, store.Write("mara", "v2"))

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"Mara"}, names)

	data, err := os.ReadFile(store.Path("Mara"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func Test_Store_Read_Returns_ErrNotFound_When_File_Is_Missing(t *testing.T) {
	t.Parallel()

	store := newStore(t)

	_, err := store.Read("Nobody")
	require.ErrorIs(t, err, character.ErrNotFound)

	exists, err := store.Exists("Nobody")
	require.NoError(t, err)
	assert.False(t, exists)
}

func Test_Store_Delete_Removes_File_Or_Returns_ErrNotFound(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	require.NoError(t, store.Write("Mara", "x"))

	require.NoError(t, store.Delete("MARA"))

	_, err := os.Stat(store.Path("Mara"))
	assert.True(t, os.IsNotExist(err))

	require.ErrorIs(t, store.Delete("Mara"), character.ErrNotFound)
}

func Test_Store_List_Skips_Hidden_NonMarkdown_And_Directories(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	dir := store.Dir()

	require.NoError(t, store.Write("bram", "x"))
	require.NoError(t, store.Write("Ada", "x"))
	require.NoError(t, store.Write("Cole", "x"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".Mara.md.tmp-1"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.md"), 0o750))

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"Ada", "bram", "Cole"}, names)
}

func Test_Store_Rejects_Names_That_Escape_The_Directory(t *testing.T) {
	t.Parallel()

	store := newStore(t)

	for _, name := range []string{"../evil", "a/b", `a\b`, "..", ".hidden", "#title", " padded "} {
		err := store.Write(name, "x")
		require.ErrorIs(t, err, character.ErrInvalidName, name)
	}

	require.ErrorIs(t, store.Write("", "x"), character.ErrNameRequired)
}

var errInjected = errors.New("injected")

// failingFS fails every ReadDir call.
type failingFS struct {
	*fs.Real
}

func (failingFS) ReadDir(string) ([]os.DirEntry, error) {
	return nil, errInjected
}

func Test_Store_Returns_Storage_Error_When_Directory_Cannot_Be_Read(t *testing.T) {
	t.Parallel()

	store, err := character.NewStore(failingFS{fs.NewReal()}, t.TempDir())
	require.NoError(t, err)

	_, err = store.Read("Mara")
	require.ErrorIs(t, err, errInjected)
	assert.False(t, character.IsNotFound(err))

	_, err = store.List()
	require.ErrorIs(t, err, errInjected)
}

func Test_Store_FileName_Returns_On_Disk_Casing(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	require.NoError(t, store.Write("Mara", "# Mara ()\n"))

	got, err := store.FileName("MARA")
	require.NoError(t, err)
	assert.Equal(t, "Mara.md", got)

	_, err = store.FileName("Nobody")
	require.ErrorIs(t, err, character.ErrNotFound)
}
