package compressor

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZipDirThenUnzip(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "conf/base/parameters"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "data/02_intermediate"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "README.md"), []byte("# iris\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "conf/base/parameters/iris_example.yml"), []byte("C: 1.0\n"), 0o644))

	archive := filepath.Join(t.TempDir(), "out", "project.zip")
	require.NoError(t, ZipDir(src, archive))
	require.NoError(t, ZipExists(archive))

	dest := t.TempDir()
	require.NoError(t, Unzip(archive, dest))

	data, err := os.ReadFile(filepath.Join(dest, "conf/base/parameters/iris_example.yml"))
	require.NoError(t, err)
	assert.Equal(t, "C: 1.0\n", string(data))
	assert.DirExists(t, filepath.Join(dest, "data/02_intermediate"))
}

func TestZipDir_MissingSource(t *testing.T) {
	err := ZipDir(filepath.Join(t.TempDir(), "nope"), filepath.Join(t.TempDir(), "x.zip"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestUnzipFromReader_RejectsTraversal(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("../evil.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	parent := t.TempDir()
	dest := filepath.Join(parent, "dest")
	err = UnzipFromReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()), dest)
	assert.ErrorIs(t, err, ErrIllegalPath)
	assert.NoFileExists(t, filepath.Join(parent, "evil.txt"))
}

func TestZipExists_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.zip")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
	assert.ErrorIs(t, ZipExists(path), os.ErrInvalid)

	empty := filepath.Join(t.TempDir(), "empty.zip")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	assert.ErrorIs(t, ZipExists(empty), os.ErrInvalid)

	assert.ErrorIs(t, Unzip(path, t.TempDir()), os.ErrInvalid)
}

func TestUnzip_FileRejectsTraversal(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("kedro-iris/../../escaped.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	archive := filepath.Join(t.TempDir(), "templates.zip")
	require.NoError(t, os.WriteFile(archive, buf.Bytes(), 0o644))

	parent := t.TempDir()
	err = Unzip(archive, filepath.Join(parent, "dest"))
	assert.ErrorIs(t, err, ErrIllegalPath)
	assert.NoFileExists(t, filepath.Join(parent, "escaped.txt"))
}
