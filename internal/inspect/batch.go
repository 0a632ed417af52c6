package inspect

import (
	"context"
	"sort"
	"sync"

	"github.com/seclog/seclog/internal/model"
	"github.com/seclog/seclog/internal/rules"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many files a batch inspects at once.
const DefaultConcurrency = 8

// FileInspector inspects a single file. *Inspector satisfies it; the
// logger facade wraps it with record emission and satisfies it too.
type FileInspector interface {
	Inspect(ctx context.Context, path string) (*model.FileInspection, []rules.Match, error)
}

// Batch runs inspections over many paths with bounded concurrency and
// collects per-path failures instead of aborting on the first one.
type Batch struct {
	inspector   FileInspector
	concurrency int
}

// BatchOption configures a Batch.
type BatchOption func(*Batch)

// WithConcurrency bounds the number of simultaneous inspections.
func WithConcurrency(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatch creates a Batch over the given inspector.
func NewBatch(inspector FileInspector, opts ...BatchOption) *Batch {
	b := &Batch{
		inspector:   inspector,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run inspects every path and returns a report in the input order.
// A failing path lands in the report's failure list; only context
// cancellation stops the batch early.
func (b *Batch) Run(ctx context.Context, paths []string) (*model.ScanReport, error) {
	report := model.NewScanReport()
	if len(paths) == 0 {
		return report, nil
	}

	type slot struct {
		inspection *model.FileInspection
		failure    *model.ScanFailure
	}
	slots := make([]slot, len(paths))

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for idx, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			inspection, _, err := b.inspector.Inspect(ctx, path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// Cancellation is the batch's failure, not the file's.
				if ctx.Err() != nil {
					return err
				}
				slots[idx] = slot{failure: &model.ScanFailure{Path: path, Error: err.Error()}}
				return nil
			}
			slots[idx] = slot{inspection: inspection}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, s := range slots {
		switch {
		case s.inspection != nil:
			report.Inspections = append(report.Inspections, s.inspection)
		case s.failure != nil:
			report.Failures = append(report.Failures, *s.failure)
		}
	}
	sort.SliceStable(report.Failures, func(i, j int) bool {
		return report.Failures[i].Path < report.Failures[j].Path
	})
	return report, nil
}
