package report

import (
	"io"

	"github.com/nao1215/a11yagg/internal/model"
	"github.com/nao1215/a11yagg/internal/rank"
)

// Writer defines the interface for report output.
// Implementations write analysis results in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files or stdout with the same
// API, and lets the batch command pick a format once for all datasets.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.AnalysisReport) (int, error)
}

// Options controls which views of a report are rendered.
type Options struct {
	// TopN is the number of rows in the priority table.
	TopN int

	// ChartN is the number of issues in the chart view.
	ChartN int

	// RecommendationN is the number of issues that get remediation steps.
	// Zero omits the recommendations section.
	RecommendationN int

	// Guidance supplies remediation steps per label.
	Guidance model.GuidanceTable
}

// DefaultOptions returns the standard view sizes and built-in guidance.
func DefaultOptions() Options {
	return Options{
		TopN:            rank.TableSize,
		ChartN:          rank.ChartSize,
		RecommendationN: rank.RecommendationSize,
		Guidance:        model.DefaultGuidance(),
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
	opts   Options
}

// newBaseWriter creates a baseWriter with the given output destination.
// Zero-valued view sizes fall back to the defaults, except RecommendationN:
// zero there turns the recommendations off and only a negative value means
// "use the default".
func newBaseWriter(output io.Writer, opts Options) baseWriter {
	def := DefaultOptions()
	if opts.TopN <= 0 {
		opts.TopN = def.TopN
	}
	if opts.ChartN <= 0 {
		opts.ChartN = def.ChartN
	}
	if opts.RecommendationN < 0 {
		opts.RecommendationN = def.RecommendationN
	}
	if opts.Guidance == nil {
		opts.Guidance = def.Guidance
	}
	return baseWriter{output: output, opts: opts}
}

// top returns the priority table rows.
func (b baseWriter) top(report *model.AnalysisReport) []model.RankedIssue {
	return rank.Top(report.Issues, b.opts.TopN)
}

// chart returns the rows of the chart view.
func (b baseWriter) chart(report *model.AnalysisReport) []model.RankedIssue {
	return rank.Top(report.Issues, b.opts.ChartN)
}

// recommendations returns guidance for the top issues.
func (b baseWriter) recommendations(report *model.AnalysisReport) []model.Recommendation {
	return rank.Recommendations(report.Issues, b.opts.RecommendationN, b.opts.Guidance)
}
