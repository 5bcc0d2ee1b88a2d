package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/a11yagg/internal/dataset"
	"github.com/nao1215/a11yagg/internal/model"
	"github.com/nao1215/a11yagg/internal/normalize"
)

// newDataset builds an in-memory dataset from (url, all_errors) pairs.
func newDataset(pairs ...[2]string) *model.Dataset {
	ds := &model.Dataset{Name: "test"}
	for i, p := range pairs {
		ds.Rows = append(ds.Rows, model.Row{
			Index:     i + 1,
			URL:       p[0],
			AllErrors: p[1],
			Status:    model.ParseAuditStatus("1"),
		})
	}
	return ds
}

// issueByLabel returns the ranked row for label.
func issueByLabel(report *model.AnalysisReport, label string) (model.RankedIssue, bool) {
	for _, issue := range report.Issues {
		if issue.IssueType == label {
			return issue, true
		}
	}
	return model.RankedIssue{}, false
}

// analyze runs the standard pipeline and fails the test on error.
func analyze(t *testing.T, ds *model.Dataset) *model.AnalysisReport {
	t.Helper()
	report, err := Analyze(context.Background(), ds, DefaultSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return report
}

// TestAnalyze_ContrastError covers one contrast message on one page.
func TestAnalyze_ContrastError(t *testing.T) {
	t.Parallel()

	raw := "This element has insufficient contrast against its background. Expected ratio of at least 4.5:1"
	report := analyze(t, newDataset([2]string{"https://example.com/", raw}))

	if len(report.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(report.Records))
	}
	if len(report.Breakdown) != 1 {
		t.Fatalf("expected 1 breakdown row, got %d", len(report.Breakdown))
	}
	row := report.Breakdown[0]
	if row.NormalizedError != model.LabelContrast {
		t.Errorf("expected %q, got %q", model.LabelContrast, row.NormalizedError)
	}
	if row.WCAGCategory != model.CategoryColorsContrast {
		t.Errorf("expected %v, got %v", model.CategoryColorsContrast, row.WCAGCategory)
	}

	issue, ok := issueByLabel(report, model.LabelContrast)
	if !ok {
		t.Fatal("expected contrast issue")
	}
	if issue.TotalOccurrences != 1 || issue.URLsAffected != 1 || issue.ImpactScore != 1 {
		t.Errorf("expected 1/1/1, got %+v", issue)
	}
}

// TestAnalyze_SameURLTwoRows covers repeated errors on one page across rows.
func TestAnalyze_SameURLTwoRows(t *testing.T) {
	t.Parallel()

	raw := "This button element does not have a name available to an accessibility API."
	report := analyze(t, newDataset(
		[2]string{"https://example.com/a", raw},
		[2]string{"https://example.com/a", raw},
	))

	issue, ok := issueByLabel(report, model.LabelButtonName)
	if !ok {
		t.Fatal("expected button issue")
	}
	if issue.TotalOccurrences != 2 || issue.URLsAffected != 1 || issue.ImpactScore != 2 {
		t.Errorf("expected 2/1/2, got %+v", issue)
	}
}

// TestAnalyze_EmptyErrors covers a row with no errors.
func TestAnalyze_EmptyErrors(t *testing.T) {
	t.Parallel()

	report := analyze(t, newDataset([2]string{"https://example.com/", ""}))

	if len(report.Records) != 0 {
		t.Errorf("expected no records, got %d", len(report.Records))
	}
	if report.HasIssues() {
		t.Errorf("expected no issues, got %v", report.Issues)
	}
	if report.Stats == nil {
		t.Error("expected empty, non-nil stats")
	}
	if report.Summary.RowsAnalyzed != 1 || report.Summary.TotalErrors != 0 {
		t.Errorf("unexpected summary %+v", report.Summary)
	}
}

// TestAnalyze_UnknownLongMessage covers the truncation fallback end to end.
func TestAnalyze_UnknownLongMessage(t *testing.T) {
	t.Parallel()

	raw := "Some entirely novel 95-character-long error message text that matches none of the known patterns at all..."
	report := analyze(t, newDataset([2]string{"https://example.com/", raw}))

	if len(report.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(report.Issues))
	}
	label := report.Issues[0].IssueType
	if label != normalize.Truncate(raw) || !strings.HasSuffix(label, "…") {
		t.Errorf("unexpected label %q", label)
	}
	if []rune(label)[79] != []rune(raw)[79] {
		t.Errorf("expected first 80 characters to be kept, got %q", label)
	}
}

// TestAnalyze_DuplicateIDTwoURLs covers the same issue on two pages.
func TestAnalyze_DuplicateIDTwoURLs(t *testing.T) {
	t.Parallel()

	report := analyze(t, newDataset(
		[2]string{"https://example.com/a", "Duplicate id attribute value \"x\" found on the web page."},
		[2]string{"https://example.com/b", "Duplicate id attribute value \"y\" found on the web page."},
	))

	issue, ok := issueByLabel(report, model.LabelDuplicateID)
	if !ok {
		t.Fatal("expected duplicate id issue")
	}
	if issue.TotalOccurrences != 2 || issue.URLsAffected != 2 || issue.ImpactScore != 4 {
		t.Errorf("expected 2/2/4, got %+v", issue)
	}
}

// TestAnalyze_MissingErrorsColumn covers rejection before extraction.
func TestAnalyze_MissingErrorsColumn(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("URL,pa11y_errors\nhttps://example.com/,2\n"), 0600); err != nil {
		t.Fatal(err)
	}

	report := model.NewAnalysisReport(NewRunID(), "bad", path)
	err := NewAnalysisPipeline(DefaultSettings()).Execute(context.Background(), report)
	if !errors.Is(err, dataset.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	if len(report.StepsRun) != 0 {
		t.Errorf("expected no step to complete, got %v", report.StepsRun)
	}
	if report.Records != nil {
		t.Error("expected extraction not to run")
	}
}

// TestAnalyze_Summary tests the row-level summary counters.
func TestAnalyze_Summary(t *testing.T) {
	t.Parallel()

	data := `URL,pa11y_errors,all_errors
https://example.com/a,2,"Img element is missing alt text. missing alt text | This form field should be labelled in some way."
https://example.com/b,0,
https://example.com/c,FAILED,
https://example.com/d,TIMEOUT,Presentational markup used that has become obsolete in HTML5.
,NO_URL,
`
	ds, err := dataset.Read(strings.NewReader(data), "summary", dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := analyze(t, ds).Summary
	if s.RowsAnalyzed != 5 {
		t.Errorf("expected 5 rows, got %d", s.RowsAnalyzed)
	}
	if s.TotalErrors != 3 {
		t.Errorf("expected 3 errors, got %d", s.TotalErrors)
	}
	if s.UniqueIssueTypes != 3 {
		t.Errorf("expected 3 issue types, got %d", s.UniqueIssueTypes)
	}
	if s.URLsWithErrors != 1 {
		t.Errorf("expected 1 URL with errors, got %d", s.URLsWithErrors)
	}
	if s.FailedURLs != 2 {
		t.Errorf("expected 2 failed URLs, got %d", s.FailedURLs)
	}
	if s.NoURLRows != 1 {
		t.Errorf("expected 1 no-URL row, got %d", s.NoURLRows)
	}
	if s.AvgErrorsPerURL != 0.6 {
		t.Errorf("expected average 0.6, got %v", s.AvgErrorsPerURL)
	}
}

// TestAnalyze_Sharded tests that sharding does not change the result.
func TestAnalyze_Sharded(t *testing.T) {
	t.Parallel()

	var pairs [][2]string
	for i := 0; i < 50; i++ {
		url := "https://example.com/" + string(rune('a'+i%5))
		pairs = append(pairs, [2]string{url, "This form field should be labelled in some way. | Duplicate id attribute value found on the web page."})
	}
	ds := newDataset(pairs...)

	sequential := analyze(t, ds)

	settings := DefaultSettings()
	settings.Shards = 4
	sharded, err := Analyze(context.Background(), ds, settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sequential.Issues) != len(sharded.Issues) {
		t.Fatalf("issue count differs: %d vs %d", len(sequential.Issues), len(sharded.Issues))
	}
	for i := range sequential.Issues {
		if sequential.Issues[i] != sharded.Issues[i] {
			t.Errorf("row %d differs: %+v vs %+v", i, sequential.Issues[i], sharded.Issues[i])
		}
	}
}

// TestClassifyStep_WithoutBreakdown tests dropping the exploded table.
func TestClassifyStep_WithoutBreakdown(t *testing.T) {
	t.Parallel()

	report := createTestReport()
	report.Records = []model.RawErrorRecord{{SourceURL: "u", RawText: "contrast"}}

	step := NewClassifyStep(normalize.New(), false)
	if err := step.Do(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Breakdown != nil {
		t.Error("expected no breakdown rows")
	}
	if report.Categories[0].Count != 1 {
		t.Errorf("expected category counts to be kept, got %+v", report.Categories)
	}
}

// TestLoadStep_NoInput tests the load step without a dataset or path.
func TestLoadStep_NoInput(t *testing.T) {
	t.Parallel()

	err := NewLoadStep(dataset.DefaultOptions()).Do(context.Background(), createTestReport())
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("expected ErrNoInput, got %v", err)
	}
}
