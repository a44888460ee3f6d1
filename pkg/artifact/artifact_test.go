package artifact

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	boom := errors.New("disk full")

	r := &Result{}
	r.Add("outline", "a.gbr", nil)
	r.Add("drill", "a.drl", boom)
	assert.Equal(t, []string{"a.gbr"}, r.Files)
	require.Len(t, r.Failed, 1)
	assert.Equal(t, "drill a.drl: disk full", r.Failed[0].Error())

	other := &Result{}
	other.Add("top copper", "a-F_Cu.gbr", nil)
	r.Merge(other)
	r.Merge(nil)
	assert.Equal(t, []string{"a.gbr", "a-F_Cu.gbr"}, r.Files)

	err := r.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var fe *FileError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "a.drl", fe.Path)

	assert.NoError(t, (&Result{}).Err())
	assert.NoError(t, (*Result)(nil).Err())
}

func TestPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "blinky-F_Cu.gbr"), Path("out", "blinky", "-F_Cu", "gbr"))
	assert.Equal(t, filepath.Join("out", "blinky.drl"), Path("out", "blinky", "", "drl"))
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	EnsureDir(dir, zerolog.Nop())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Existing directory is left alone
	EnsureDir(dir, zerolog.Nop())
}

func TestEnsureDirFailureIsLogged(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	var buf bytes.Buffer
	EnsureDir(filepath.Join(blocker, "sub"), zerolog.New(&buf))
	assert.Contains(t, buf.String(), "could not create output directory")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	err := WriteFile(path, func(w *bufio.Writer) error {
		_, err := w.WriteString("M02*\n")
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "M02*\n", string(data))
}

func TestWriteFileErrors(t *testing.T) {
	boom := errors.New("render failed")
	path := filepath.Join(t.TempDir(), "out.txt")

	err := WriteFile(path, func(w *bufio.Writer) error {
		w.WriteString("G04 partial*\n")
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoFileExists(t, path, "a failed artifact is not left behind")

	// A failure replaces an existing artifact rather than keeping it stale
	require.NoError(t, os.WriteFile(path, []byte("M02*\n"), 0o600))
	err = WriteFile(path, func(w *bufio.Writer) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoFileExists(t, path)

	err = WriteFile(filepath.Join(t.TempDir(), "missing", "out.txt"), func(w *bufio.Writer) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create file")
}
