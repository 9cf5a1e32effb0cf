// Package fsops exposes the raw filesystem operations the configurator
// frontend calls directly. Errors are returned unwrapped so their text can be
// shown to the user as-is.
package fsops

import (
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

var (
	errIsDir       = errors.New("is a directory")
	errNotDir      = errors.New("not a directory")
	errInvalidUTF8 = errors.New("stream did not contain valid UTF-8")
)

// DirEntry is one node of a directory listing. Children is only set for
// directories in a recursive listing.
type DirEntry struct {
	Path     string     `json:"path"`
	Children []DirEntry `json:"children"`
}

type FS struct {
	fs afero.Fs
}

func New(fs afero.Fs) *FS {
	return &FS{fs: fs}
}

func (f *FS) Read(path string) (string, error) {
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return "", err
	}
	// Text that is not UTF-8 would be mangled on its way to the frontend.
	if !utf8.Valid(data) {
		return "", &os.PathError{Op: "read", Path: path, Err: errInvalidUTF8}
	}
	return string(data), nil
}

// Write creates or truncates path.
func (f *FS) Write(path, contents string) error {
	return afero.WriteFile(f.fs, path, []byte(contents), 0o644)
}

func (f *FS) IsFile(path string) bool {
	fi, err := f.fs.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func (f *FS) IsDir(path string) bool {
	ok, _ := afero.DirExists(f.fs, path)
	return ok
}

func (f *FS) CreateDir(path string, recursive bool) error {
	if recursive {
		return f.fs.MkdirAll(path, 0o755)
	}
	return f.fs.Mkdir(path, 0o755)
}

// ReadDir lists path. With recursive set, directories carry their own
// listing in Children.
func (f *FS) ReadDir(path string, recursive bool) ([]DirEntry, error) {
	infos, err := afero.ReadDir(f.fs, path)
	if err != nil {
		return nil, err
	}
	entries := make([]DirEntry, 0, len(infos))
	for _, fi := range infos {
		e := DirEntry{Path: filepath.Join(path, fi.Name())}
		if recursive && fi.IsDir() {
			children, err := f.ReadDir(e.Path, true)
			if err != nil {
				return nil, err
			}
			e.Children = children
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// RemoveDir removes the directory path and everything below it.
func (f *FS) RemoveDir(path string) error {
	fi, err := f.fs.Stat(path)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return &os.PathError{Op: "remove", Path: path, Err: errNotDir}
	}
	return f.fs.RemoveAll(path)
}

func (f *FS) RemoveFile(path string) error {
	fi, err := f.fs.Stat(path)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return &os.PathError{Op: "remove", Path: path, Err: errIsDir}
	}
	return f.fs.Remove(path)
}

func (f *FS) Rename(from, to string) error {
	return f.fs.Rename(from, to)
}

// Home returns the user's home directory, or "" if it cannot be found.
func Home() string {
	dir, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return dir
}
