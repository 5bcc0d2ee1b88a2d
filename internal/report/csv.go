package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/nao1215/a11yagg/internal/model"
)

// CSV headers of the exported tables.
var (
	priorityHeader  = []string{"Issue Type", "Total Occurrences", "URLs Affected", "Impact Score"}
	breakdownHeader = []string{"original_error", "normalized_error", "url", "wcag_category"}
)

// WritePriorityCSV writes the full priority table with a header row.
func WritePriorityCSV(w io.Writer, issues []model.RankedIssue) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(priorityHeader); err != nil {
		return err
	}
	for _, issue := range issues {
		if err := cw.Write([]string{
			issue.IssueType,
			strconv.Itoa(issue.TotalOccurrences),
			strconv.Itoa(issue.URLsAffected),
			strconv.Itoa(issue.ImpactScore),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBreakdownCSV writes one row per raw error with a header row.
func WriteBreakdownCSV(w io.Writer, rows []model.BreakdownRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(breakdownHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write([]string{
			row.OriginalError,
			row.NormalizedError,
			row.URL,
			row.WCAGCategory.String(),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
