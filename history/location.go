package history

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const (
	dirName  = ".acrn-configurator"
	fileName = "config.json"
)

// Swapped out in tests.
var (
	userConfigDir = os.UserConfigDir
	userHomeDir   = homedir.Dir
)

// baseDir returns the per-user config directory, falling back to the home
// directory when the platform has no notion of one.
func baseDir() (string, error) {
	if dir, err := userConfigDir(); err == nil && dir != "" {
		return dir, nil
	}
	dir, err := userHomeDir()
	if err != nil || dir == "" {
		return "", errors.Wrap(ErrLocationUnavailable, "no config or home directory")
	}
	return dir, nil
}

// Resolve returns the path of config.json, creating its directory and an
// empty document if they are missing. A non-empty base overrides the
// platform lookup. Every failure wraps ErrLocationUnavailable.
func Resolve(fs afero.Fs, base string) (string, error) {
	if base == "" {
		var err error
		if base, err = baseDir(); err != nil {
			return "", err
		}
	}

	dir := filepath.Join(base, dirName)
	if ok, _ := afero.DirExists(fs, dir); !ok {
		// The parent is expected to exist already.
		if err := fs.Mkdir(dir, 0o755); err != nil {
			return "", errors.Wrapf(ErrLocationUnavailable, "create %s: %v", dir, err)
		}
	}

	path := filepath.Join(dir, fileName)
	if ok, _ := isRegular(fs, path); !ok {
		if err := afero.WriteFile(fs, path, NewDocument().Marshal(), 0o644); err != nil {
			return "", errors.Wrapf(ErrLocationUnavailable, "create %s: %v", path, err)
		}
	}
	return path, nil
}

func isRegular(fs afero.Fs, path string) (bool, error) {
	fi, err := fs.Stat(path)
	if err != nil {
		return false, err
	}
	return fi.Mode().IsRegular(), nil
}
