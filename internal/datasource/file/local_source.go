// Package file implements the local filesystem data source used to read the
// CRM export files.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// ErrSourceNotFound reports that an input folder or file is absent. It is
// fatal for a load run and is returned before any transform starts.
var ErrSourceNotFound = errors.New("source not found")

// Local is a filesystem data source that opens files from the local disk.
type Local struct{ path string }

// NewLocal returns a new Local data source bound to the provided filesystem
// path. The returned value is safe for concurrent use by multiple goroutines
// as long as the underlying path location is valid for concurrent reads.
func NewLocal(path string) *Local { return &Local{path: path} }

// Path returns the filesystem path the source reads from.
func (l *Local) Path() string { return l.path }

// Open opens the configured path for reading and returns an io.ReadCloser.
//
// Behavior:
//   - If the context is already canceled or its deadline exceeded at the time
//     of the call, Open returns the context error immediately without touching
//     the filesystem.
//   - A missing file is reported as ErrSourceNotFound while still wrapping the
//     underlying error, so both errors.Is(err, ErrSourceNotFound) and
//     errors.Is(err, os.ErrNotExist) hold.
//   - Any other filesystem error is wrapped with the path for context.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", l.path, errors.Join(ErrSourceNotFound, err))
		}
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}
