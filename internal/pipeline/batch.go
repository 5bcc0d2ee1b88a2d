package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/a11yagg/internal/dataset"
	"github.com/nao1215/a11yagg/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of datasets analyzed at once when
// WithConcurrency is not given.
const DefaultConcurrency = 4

// BatchProcessor analyzes several datasets concurrently.
//
// Design decision: Each dataset gets its own pipeline from the factory and
// its own report, so nothing is shared between concurrent analyses. The
// single-dataset pipeline itself stays sequential.
type BatchProcessor struct {
	pipelineFactory func() *Pipeline

	concurrency int

	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent analyses.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
// pipelineFactory is called once per dataset.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch analyzes every path and returns the reports in input order.
// A failed analysis does not stop the others; its report carries the error.
// The returned error is non-nil only when the batch was cancelled.
//
// Datasets are named with dataset.Names, so two files with the same base
// name in different directories never share output files or history.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, paths []string) ([]*model.AnalysisReport, error) {
	bp.logger.Debug("starting batch processing",
		"datasets", len(paths),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()
	names := dataset.Names(paths)
	results := make([]*model.AnalysisReport, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report := model.NewAnalysisReport(NewRunID(), names[i], path)
			if err := bp.pipelineFactory().Execute(ctx, report); err != nil {
				bp.logger.Warn("analysis failed",
					"dataset", path,
					"error", err,
				)
			}

			// Each goroutine writes only its own index.
			results[i] = report
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Debug("batch processing complete",
		"datasets", len(paths),
		"elapsed", time.Since(startTime),
	)

	return results, err
}
