// Package datasource defines where raw extract bytes come from.
package datasource

import (
	"context"
	"io"
)

// Source opens one input stream. Callers close the returned reader.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
