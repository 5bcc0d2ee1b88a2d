package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/a11yagg/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the report
// filled in by the previous steps.
//
// Design decision: We use an interface rather than function types so that
// steps can carry their own configuration (column names, normalizer, shard
// count) and report a stable Name() for logging.
type Step interface {
	// Do executes the pipeline step against the report.
	Do(ctx context.Context, report *model.AnalysisReport) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	steps []Step

	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddSteps after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence and stops at the first
// failure, because every step depends on the output of the one before it.
// Cancellation is checked before each step; a step that has started runs
// to completion.
func (p *Pipeline) Execute(ctx context.Context, report *model.AnalysisReport) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			report.Error = ctx.Err().Error()
			return ctx.Err()
		default:
		}

		start := time.Now()
		p.logger.Debug("executing step",
			"step", step.Name(),
			"dataset", report.Dataset,
		)

		if err := step.Do(ctx, report); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"dataset", report.Dataset,
				"error", err,
			)
			report.Error = err.Error()
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"dataset", report.Dataset,
			"elapsed", time.Since(start),
		)
		report.StepsRun = append(report.StepsRun, step.Name())
	}

	return nil
}
