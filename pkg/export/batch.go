package export

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BatchItem is the outcome of one file in a batch.
type BatchItem struct {
	Path   string
	Result *Result
	Err    error
}

// Batch exports every file with at most concurrency exports in flight. A
// failing file does not stop the others; cancelling ctx stops jobs that have
// not started yet. Items are returned in input order.
func (e *Exporter) Batch(ctx context.Context, paths []string, backendName string, concurrency int) ([]BatchItem, error) {
	if concurrency < 1 {
		concurrency = e.export.Concurrency
	}
	if concurrency < 1 {
		concurrency = 1
	}

	items := make([]BatchItem, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, p := range paths {
		i, p := i, p
		items[i].Path = p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				items[i].Err = err
				return err
			}
			res, err := e.ExportFile(gctx, p, backendName)
			items[i].Result = res
			items[i].Err = err
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return items, err
	}

	failed := 0
	for _, it := range items {
		if it.Err != nil {
			failed++
		}
	}
	e.log.WithField("files", len(paths)).WithField("failed", failed).Info("batch export finished")
	return items, ctx.Err()
}
