package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// errFound stops the walk once the folder is located.
var errFound = errors.New("found")

// Discover walks root top-down in lexical order and returns the first
// directory that directly contains a sub-directory named folder. Each
// directory's own children are checked before any of them is entered, so a
// shallow match wins over one deeper in an earlier sibling. The returned path
// is the parent, so callers join it with folder and the file name.
//
// Unreadable sub-trees are skipped. When no match exists the error wraps
// ErrSourceNotFound.
func Discover(root, folder string) (string, error) {
	if folder == "" {
		return "", fmt.Errorf("discover: folder name must not be empty")
	}
	var parent string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if fi, err := os.Stat(filepath.Join(path, folder)); err == nil && fi.IsDir() {
			parent = path
			return errFound
		}
		return nil
	})
	switch {
	case errors.Is(err, errFound):
		return parent, nil
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("discover %q under %s: %w", folder, root, errors.Join(ErrSourceNotFound, err))
	case err != nil:
		return "", fmt.Errorf("discover %q under %s: %w", folder, root, err)
	}
	return "", fmt.Errorf("discover %q under %s: %w", folder, root, ErrSourceNotFound)
}
