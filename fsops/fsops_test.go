package fsops_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acrn-configurator/fsops"
)

func TestReadWrite(t *testing.T) {
	f := fsops.New(afero.NewMemMapFs())

	require.NoError(t, f.Write("/a/scenario.xml", "long original body"))
	require.NoError(t, f.Write("/a/scenario.xml", "short"))

	got, err := f.Read("/a/scenario.xml")
	require.NoError(t, err)
	assert.Equal(t, "short", got)
}

func TestReadRejectsInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "latin1.xml")
	require.NoError(t, os.WriteFile(p, []byte{0x3c, 0xe9, 0x3e}, 0o644))

	got, err := fsops.New(afero.NewOsFs()).Read(p)
	require.Error(t, err)
	assert.Empty(t, got)
	assert.Contains(t, err.Error(), "valid UTF-8")
	assert.Contains(t, err.Error(), "latin1.xml")

	// The file itself is untouched.
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x3c, 0xe9, 0x3e}, data)
}

func TestReadMissingSurfacesOSError(t *testing.T) {
	dir := t.TempDir()
	f := fsops.New(afero.NewOsFs())

	_, err := f.Read(filepath.Join(dir, "nope.xml"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, err.Error(), "nope.xml")
}

func TestIsFileIsDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	f := fsops.New(fs)
	require.NoError(t, fs.MkdirAll("/d", 0o755))
	require.NoError(t, f.Write("/d/f", "x"))

	assert.True(t, f.IsFile("/d/f"))
	assert.False(t, f.IsFile("/d"))
	assert.False(t, f.IsFile("/missing"))
	assert.True(t, f.IsDir("/d"))
	assert.False(t, f.IsDir("/d/f"))
	assert.False(t, f.IsDir("/missing"))
}

func TestCreateDir(t *testing.T) {
	dir := t.TempDir()
	f := fsops.New(afero.NewOsFs())

	assert.Error(t, f.CreateDir(filepath.Join(dir, "a", "b"), false))
	require.NoError(t, f.CreateDir(filepath.Join(dir, "a", "b"), true))
	assert.True(t, f.IsDir(filepath.Join(dir, "a", "b")))
	require.NoError(t, f.CreateDir(filepath.Join(dir, "c"), false))
	assert.Error(t, f.CreateDir(filepath.Join(dir, "c"), false))
}

func TestReadDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	f := fsops.New(fs)
	require.NoError(t, fs.MkdirAll("/w/sub/empty", 0o755))
	require.NoError(t, f.Write("/w/a.xml", ""))
	require.NoError(t, f.Write("/w/sub/b.xml", ""))

	flat, err := f.ReadDir("/w", false)
	require.NoError(t, err)
	require.Len(t, flat, 2)
	assert.Equal(t, "/w/a.xml", flat[0].Path)
	assert.Equal(t, "/w/sub", flat[1].Path)
	assert.Nil(t, flat[1].Children)

	tree, err := f.ReadDir("/w", true)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Nil(t, tree[0].Children)
	require.Len(t, tree[1].Children, 2)
	assert.Equal(t, "/w/sub/b.xml", tree[1].Children[0].Path)
	assert.Equal(t, "/w/sub/empty", tree[1].Children[1].Path)
	assert.NotNil(t, tree[1].Children[1].Children)
	assert.Empty(t, tree[1].Children[1].Children)

	data, err := json.Marshal(tree[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"path":"/w/a.xml","children":null}`, string(data))
}

func TestReadDirMissing(t *testing.T) {
	_, err := fsops.New(afero.NewMemMapFs()).ReadDir("/missing", true)
	assert.Error(t, err)
}

func TestRemove(t *testing.T) {
	fs := afero.NewMemMapFs()
	f := fsops.New(fs)
	require.NoError(t, f.Write("/r/x/y.xml", "y"))
	require.NoError(t, f.Write("/r/z.xml", "z"))

	assert.Error(t, f.RemoveFile("/r/x"))
	require.NoError(t, f.RemoveFile("/r/z.xml"))
	assert.False(t, f.IsFile("/r/z.xml"))
	assert.Error(t, f.RemoveFile("/r/z.xml"))

	require.NoError(t, f.Write("/r/keep.xml", "k"))
	err := f.RemoveDir("/r/keep.xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
	assert.True(t, f.IsFile("/r/keep.xml"), "RemoveDir must not delete a regular file")

	require.NoError(t, f.RemoveDir("/r"))
	assert.False(t, f.IsDir("/r"))
	assert.Error(t, f.RemoveDir("/r"))
}

func TestRemoveDirOnDiskFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "scenario.xml")
	require.NoError(t, os.WriteFile(p, []byte("<s/>"), 0o644))

	assert.Error(t, fsops.New(afero.NewOsFs()).RemoveDir(p))
	_, err := os.Stat(p)
	assert.NoError(t, err)
}

func TestRename(t *testing.T) {
	f := fsops.New(afero.NewMemMapFs())
	require.NoError(t, f.Write("/old.xml", "body"))

	require.NoError(t, f.Rename("/old.xml", "/new.xml"))
	assert.False(t, f.IsFile("/old.xml"))
	got, err := f.Read("/new.xml")
	require.NoError(t, err)
	assert.Equal(t, "body", got)

	assert.Error(t, f.Rename("/old.xml", "/other.xml"))
}

func TestHome(t *testing.T) {
	home := fsops.Home()
	if home == "" {
		t.Skip("no home directory in this environment")
	}
	assert.True(t, filepath.IsAbs(home))
}
