package indexing

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// perFileOverhead is the fixed per-file parse/symbol-build cost (10µs) in
// the work estimate; workEstimate adds a byte-proportional term (bytes/4
// nanoseconds) on top of it, per the discovery work-estimate rule.
const perFileOverhead = 10 * time.Microsecond

// sequentialThreshold: a batch estimated below this total cost runs
// sequentially — spinning up the worker pool for a sub-threshold batch
// would cost more than it saves.
const sequentialThreshold = 100 * time.Microsecond

// FileBatch is one chunk of discovery's file list, sized per
// Config.Indexing.BatchSize{Min,Max}.
type FileBatch struct {
	Files []string
}

// Chunk splits files into consecutive batches of max files each (50 when
// max <= 0); only the final batch is smaller, and it can fall below min.
// min is given a default but does not affect the batch sizes.
func Chunk(files []string, min, max int) []FileBatch {
	if max <= 0 {
		max = 50
	}
	if min <= 0 {
		min = 10
	}
	var batches []FileBatch
	for i := 0; i < len(files); i += max {
		end := i + max
		if end > len(files) {
			end = len(files)
		}
		batches = append(batches, FileBatch{Files: files[i:end]})
	}
	return batches
}

// workEstimate returns the estimated processing time for a batch, summing
// the byte-proportional and per-file fixed costs.
func workEstimate(batch FileBatch) time.Duration {
	var total time.Duration
	for _, f := range batch.Files {
		size := FileSize(f)
		total += time.Duration(size/4)*time.Nanosecond + perFileOverhead
	}
	return total
}

// ShouldParallelize reports whether batch is large enough to justify
// dispatching it across the worker pool rather than processing it inline:
// below the cost threshold, or with fewer than 5 files, sequential wins.
func ShouldParallelize(batch FileBatch) bool {
	if len(batch.Files) < 5 {
		return false
	}
	return workEstimate(batch) >= sequentialThreshold
}

// ProcessFunc indexes a single file. It returns only an error; any per-file
// result is folded into workspace state by the function itself.
type ProcessFunc func(ctx context.Context, path string) error

// ProgressFunc reports {total, done} at each batch boundary, the shape the
// dispatcher translates into an LSP `$/progress` notification.
type ProgressFunc func(total, done int)

// ProcessBatches runs every batch in order, choosing parallel or sequential
// per-batch via ShouldParallelize, and reports progress after each batch
// completes. Processing order across batches is sequential (so progress is
// monotonic and predictable); only within a parallel-eligible batch do
// files process concurrently.
func ProcessBatches(ctx context.Context, batches []FileBatch, process ProcessFunc, onProgress ProgressFunc) error {
	total := 0
	for _, b := range batches {
		total += len(b.Files)
	}
	done := 0

	for _, batch := range batches {
		var err error
		if ShouldParallelize(batch) {
			err = processParallel(ctx, batch, process)
		} else {
			err = processSequential(ctx, batch, process)
		}
		if err != nil {
			return err
		}
		done += len(batch.Files)
		if onProgress != nil {
			onProgress(total, done)
		}
	}
	return nil
}

func processSequential(ctx context.Context, batch FileBatch, process ProcessFunc) error {
	for _, f := range batch.Files {
		if err := process(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

func processParallel(ctx context.Context, batch FileBatch, process ProcessFunc) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, f := range batch.Files {
		f := f
		g.Go(func() error { return process(gctx, f) })
	}
	return g.Wait()
}
