package storage

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStorage(t *testing.T) *FileStorage {
	t.Helper()
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(fs.Close)
	return fs
}

func TestFileStorageSaveAndLoad(t *testing.T) {
	fs := newTestFileStorage(t)

	require.NoError(t, fs.SaveTextFile("exports", "hooks.txt", []byte("first")))
	data, err := fs.LoadTextFile("exports", "hooks.txt")
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	// a write must invalidate the cached body
	require.NoError(t, fs.SaveTextFile("exports", "hooks.txt", []byte("second")))
	data, err = fs.LoadTextFile("exports", "hooks.txt")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	assert.NoFileExists(t, fs.Path("exports", "hooks.txt.tmp"))
}

func TestFileStorageJSONRoundTrip(t *testing.T) {
	fs := newTestFileStorage(t)

	in := map[string]int{"a": 1}
	require.NoError(t, fs.SaveJSONFile("", "doc.json", in))

	var out map[string]int
	require.NoError(t, fs.LoadJSONFile("", "doc.json", &out))
	assert.Equal(t, in, out)
}

func TestFileStorageMissingFile(t *testing.T) {
	fs := newTestFileStorage(t)

	_, err := fs.LoadTextFile("nowhere", "missing.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, fs.FileExists("nowhere", "missing.txt"))

	assert.NoError(t, fs.DeleteFile("nowhere", "missing.txt"))
}

func TestFileStorageDeleteAndList(t *testing.T) {
	fs := newTestFileStorage(t)

	require.NoError(t, fs.SaveTextFile("exports", "a.csv", []byte("a")))
	require.NoError(t, fs.SaveTextFile("exports", "b.csv", []byte("b")))

	files, err := fs.ListFiles("exports")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	require.NoError(t, fs.DeleteFile("exports", "a.csv"))
	assert.False(t, fs.FileExists("exports", "a.csv"))
	_, err = fs.LoadTextFile("exports", "a.csv")
	assert.Error(t, err)

	files, err = fs.ListFiles("empty")
	require.NoError(t, err)
	assert.Empty(t, files)
}
