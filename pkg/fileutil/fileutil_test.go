package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.pdf")

	require.NoError(t, WriteAtomic(path, []byte("first"), 0o644, false))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	// No temp or lock files are left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteAtomicRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pdf")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	err := WriteAtomic(path, []byte("new"), 0o644, false)
	assert.ErrorIs(t, err, ErrExists)

	got, _ := os.ReadFile(path)
	assert.Equal(t, "old", string(got))

	require.NoError(t, WriteAtomic(path, []byte("new"), 0o644, true))
	got, _ = os.ReadFile(path)
	assert.Equal(t, "new", string(got))
}

func TestWriteAtomicLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pdf")

	held := flock.New(path + ".lock")
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	t.Cleanup(func() { _ = held.Unlock() })

	err = WriteAtomic(path, []byte("x"), 0o644, false)
	assert.ErrorIs(t, err, ErrLocked)
	assert.NoFileExists(t, path)
}
