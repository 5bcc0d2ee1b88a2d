package model

import (
	"math"
	"time"
)

// Summary holds the headline metrics of one analysis.
type Summary struct {
	// RowsAnalyzed is the number of dataset rows.
	RowsAnalyzed int `json:"rows_analyzed"`

	// TotalErrors is the number of raw errors extracted across all rows.
	TotalErrors int `json:"total_errors"`

	// UniqueIssueTypes is the number of distinct canonical labels.
	UniqueIssueTypes int `json:"unique_issue_types"`

	// URLsWithErrors counts rows whose status column reports a positive count.
	// Sentinel rows are excluded even when they carry error text.
	URLsWithErrors int `json:"urls_with_errors"`

	// AvgErrorsPerURL is TotalErrors / RowsAnalyzed rounded to one decimal.
	AvgErrorsPerURL float64 `json:"avg_errors_per_url"`

	// FailedURLs counts rows with FAILED, TIMEOUT or ERROR status.
	FailedURLs int `json:"failed_urls"`

	// NoURLRows counts rows with NO_URL status.
	NoURLRows int `json:"no_url_rows"`
}

// ComputeAverage fills AvgErrorsPerURL from TotalErrors and RowsAnalyzed.
func (s *Summary) ComputeAverage() {
	if s.RowsAnalyzed == 0 {
		s.AvgErrorsPerURL = 0
		return
	}
	avg := float64(s.TotalErrors) / float64(s.RowsAnalyzed)
	s.AvgErrorsPerURL = math.Round(avg*10) / 10
}

// AnalysisReport is the result of analyzing one dataset.
//
// Design decision: The report keeps both the aggregated view (Issues) and
// the exploded view (Breakdown) so that every output format can be rendered
// from the report alone, without re-running extraction.
type AnalysisReport struct {
	// RunID uniquely identifies this analysis run.
	RunID string `json:"run_id"`

	// Dataset is the dataset name.
	Dataset string `json:"dataset"`

	// Source is the path the dataset was read from.
	Source string `json:"source,omitempty"`

	// AnalyzedAt is when the analysis was performed.
	AnalyzedAt time.Time `json:"analyzed_at"`

	Summary Summary `json:"summary"`

	// Issues is the full priority table in rank order.
	Issues []RankedIssue `json:"issues"`

	// Categories is the per-raw-error category distribution in display order.
	Categories []CategoryCount `json:"categories"`

	// Breakdown is one row per extracted raw error.
	Breakdown []BreakdownRow `json:"breakdown,omitempty"`

	// Stats is the aggregated state keyed by label. It is not serialized;
	// detail lookups are only available on a report produced in-process.
	Stats map[string]*IssueStats `json:"-"`

	// Records are the extracted raw errors in input order. Not serialized.
	Records []RawErrorRecord `json:"-"`

	// Input is the dataset being analyzed. Not serialized.
	Input *Dataset `json:"-"`

	// StepsRun lists the pipeline steps that completed.
	StepsRun []string `json:"steps_run,omitempty"`

	// Error holds the message of the step that failed, if any.
	Error string `json:"error,omitempty"`
}

// NewAnalysisReport creates an empty report for a dataset.
func NewAnalysisReport(runID, dataset, source string) *AnalysisReport {
	return &AnalysisReport{
		RunID:      runID,
		Dataset:    dataset,
		Source:     source,
		AnalyzedAt: time.Now(),
		Issues:     []RankedIssue{},
		Stats:      make(map[string]*IssueStats),
	}
}

// HasIssues reports whether any raw error was found.
func (r *AnalysisReport) HasIssues() bool {
	return len(r.Issues) > 0
}
