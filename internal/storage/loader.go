// This file implements the batched insert loop shared by the backends. Rows
// are handed to a backend-provided CopyFn in fixed-size batches; each backend
// implements CopyFn with its most efficient primitive (Postgres COPY, a
// prepared INSERT for SQLite).
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultBatchSize is used when Config.BatchSize is not set.
const DefaultBatchSize = 1000

// CopyFn inserts the provided rows (aligned to the table's column order) and
// returns the number of rows inserted.
type CopyFn func(ctx context.Context, rows [][]any) (int64, error)

// LoadBatches splits rows into batches of batchSize and calls copyFn for each
// batch. It returns the running total and the first error encountered.
//
// Progress is logged at debug level after every successful flush.
func LoadBatches(
	ctx context.Context,
	table string,
	rows [][]any,
	batchSize int,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total   int64
		batches int64
		start   = time.Now()
		last    = start
	)

	for lo := 0; lo < len(rows); lo += batchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		hi := min(lo+batchSize, len(rows))

		n, err := copyFn(ctx, rows[lo:hi])
		total += n
		if err != nil {
			slog.Error("loader: batch failed",
				"table", table, "batch", batches+1, "inserted", n, "total", total, "err", err)
			return total, err
		}

		batches++
		now := time.Now()
		rps := float64(0)
		if d := now.Sub(last); d > 0 {
			rps = float64(n) / d.Seconds()
		}
		slog.Debug("loader: batch flushed",
			"table", table,
			"batch", batches,
			"rps", int64(rps),
			"inserted", n,
			"total_inserted", total,
			"elapsed", now.Sub(start).Truncate(time.Millisecond),
		)
		last = now
	}
	return total, nil
}
