package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nao1215/a11yagg/internal/aggregate"
	"github.com/nao1215/a11yagg/internal/dataset"
	"github.com/nao1215/a11yagg/internal/extract"
	"github.com/nao1215/a11yagg/internal/model"
	"github.com/nao1215/a11yagg/internal/normalize"
	"github.com/nao1215/a11yagg/internal/rank"
)

// ErrNoInput is returned when the load step has neither a dataset nor a path.
var ErrNoInput = errors.New("no dataset to analyze")

// Settings configures the analysis steps.
type Settings struct {
	// Columns selects the dataset columns.
	Columns dataset.Options

	// Normalizer maps raw messages to labels. Nil uses the built-in rules.
	Normalizer *normalize.Normalizer

	// SampleLimit caps distinct sample messages per issue.
	SampleLimit int

	// Shards splits aggregation across goroutines. Values below 2 fold sequentially.
	Shards int

	// KeepBreakdown keeps the exploded per-error table on the report.
	KeepBreakdown bool
}

// DefaultSettings returns settings for the audit runner's default columns.
func DefaultSettings() Settings {
	return Settings{
		Columns:       dataset.DefaultOptions(),
		Normalizer:    normalize.New(),
		SampleLimit:   aggregate.DefaultSampleLimit,
		Shards:        1,
		KeepBreakdown: true,
	}
}

// NewRunID returns a fresh analysis run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// NewAnalysisPipeline builds the standard load → extract → classify →
// aggregate → rank pipeline.
func NewAnalysisPipeline(s Settings, opts ...Option) *Pipeline {
	if s.Normalizer == nil {
		s.Normalizer = normalize.New()
	}

	p := New(opts...)
	p.AddSteps(
		NewLoadStep(s.Columns),
		NewExtractStep(),
		NewClassifyStep(s.Normalizer, s.KeepBreakdown),
		NewAggregateStep(s.Normalizer, s.SampleLimit, s.Shards),
		NewRankStep(),
	)
	return p
}

// Analyze runs the standard pipeline over an in-memory dataset.
func Analyze(ctx context.Context, ds *model.Dataset, s Settings, opts ...Option) (*model.AnalysisReport, error) {
	report := model.NewAnalysisReport(NewRunID(), ds.Name, ds.Source)
	report.Input = ds
	if err := NewAnalysisPipeline(s, opts...).Execute(ctx, report); err != nil {
		return report, err
	}
	return report, nil
}

// LoadStep reads the dataset from report.Source unless report.Input is
// already set. The header is validated here, so a dataset missing a
// required column is rejected before extraction.
type LoadStep struct {
	columns dataset.Options
}

// NewLoadStep creates a load step for the given columns.
func NewLoadStep(columns dataset.Options) *LoadStep {
	return &LoadStep{columns: columns}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do executes the load step.
func (s *LoadStep) Do(_ context.Context, report *model.AnalysisReport) error {
	if report.Input != nil {
		return nil
	}
	if report.Source == "" {
		return ErrNoInput
	}

	ds, err := dataset.Load(report.Source, s.columns)
	if err != nil {
		return err
	}
	report.Input = ds
	if report.Dataset == "" {
		report.Dataset = ds.Name
	}
	return nil
}

// ExtractStep splits every row's composite error field into raw records
// and fills the row-level summary counters.
type ExtractStep struct{}

// NewExtractStep creates an extract step.
func NewExtractStep() *ExtractStep {
	return &ExtractStep{}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do executes the extract step.
func (s *ExtractStep) Do(_ context.Context, report *model.AnalysisReport) error {
	if report.Input == nil {
		return ErrNoInput
	}

	summary := &report.Summary
	summary.RowsAnalyzed = len(report.Input.Rows)
	for _, row := range report.Input.Rows {
		switch {
		case row.Status.HasErrors():
			summary.URLsWithErrors++
		case row.Status.IsFailure():
			summary.FailedURLs++
		case row.Status.Kind == model.StatusNoURL:
			summary.NoURLRows++
		}
	}

	report.Records = extract.FromDataset(report.Input)
	summary.TotalErrors = len(report.Records)
	summary.ComputeAverage()

	slog.Debug("extracted raw errors",
		"dataset", report.Dataset,
		"rows", summary.RowsAnalyzed,
		"errors", summary.TotalErrors,
	)
	return nil
}

// ClassifyStep builds the breakdown table and the category distribution.
type ClassifyStep struct {
	normalizer    *normalize.Normalizer
	keepBreakdown bool
}

// NewClassifyStep creates a classify step. When keepBreakdown is false the
// category distribution is still computed but the per-error rows are dropped.
func NewClassifyStep(n *normalize.Normalizer, keepBreakdown bool) *ClassifyStep {
	return &ClassifyStep{normalizer: n, keepBreakdown: keepBreakdown}
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return "classify"
}

// Do executes the classify step.
func (s *ClassifyStep) Do(_ context.Context, report *model.AnalysisReport) error {
	rows := make([]model.BreakdownRow, 0, len(report.Records))
	for _, rec := range report.Records {
		rows = append(rows, model.BreakdownRow{
			OriginalError:   rec.RawText,
			NormalizedError: s.normalizer.Normalize(rec.RawText),
			URL:             rec.SourceURL,
			WCAGCategory:    normalize.Classify(rec.RawText),
		})
	}

	report.Categories = rank.Categories(rows)
	if s.keepBreakdown {
		report.Breakdown = rows
	}
	return nil
}

// AggregateStep folds the extracted records into per-issue statistics.
type AggregateStep struct {
	normalizer  *normalize.Normalizer
	sampleLimit int
	shards      int
}

// NewAggregateStep creates an aggregate step.
func NewAggregateStep(n *normalize.Normalizer, sampleLimit, shards int) *AggregateStep {
	return &AggregateStep{normalizer: n, sampleLimit: sampleLimit, shards: shards}
}

// Name returns the step name.
func (s *AggregateStep) Name() string {
	return "aggregate"
}

// Do executes the aggregate step.
func (s *AggregateStep) Do(ctx context.Context, report *model.AnalysisReport) error {
	stats, err := aggregate.Sharded(ctx, s.normalizer, report.Records, s.shards, s.sampleLimit)
	if err != nil {
		return err
	}
	report.Stats = stats
	return nil
}

// RankStep orders the aggregated issues into the priority table.
type RankStep struct{}

// NewRankStep creates a rank step.
func NewRankStep() *RankStep {
	return &RankStep{}
}

// Name returns the step name.
func (s *RankStep) Name() string {
	return "rank"
}

// Do executes the rank step.
func (s *RankStep) Do(_ context.Context, report *model.AnalysisReport) error {
	report.Issues = rank.Rank(report.Stats)
	report.Summary.UniqueIssueTypes = len(report.Issues)
	return nil
}
