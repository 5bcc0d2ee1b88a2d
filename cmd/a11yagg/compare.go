package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/a11yagg/internal/config"
	"github.com/nao1215/a11yagg/internal/database"
	"github.com/nao1215/a11yagg/internal/model"
	"github.com/spf13/cobra"
)

// Trend directions between two runs.
const (
	trendWorsened  = "worsened"
	trendImproved  = "improved"
	trendUnchanged = "unchanged"
)

// NewCompareCmd creates the compare command.
// This command compares analysis runs stored in the history database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [dataset]",
		Short: "Compare analysis results with historical runs",
		Long: `Compare displays differences between the latest and a previous analysis
of the same dataset.

This command reads the history saved by 'a11yagg analyze --save' and shows:
- New issues that appeared since the previous run
- Resolved issues that are no longer present
- Issues whose occurrence or affected URL counts changed

The dataset name is the file name of the analyzed CSV without its extension.
When files analyzed together share a name, their parent directories are
prefixed, so audits/x/site.csv becomes x-site.

Examples:
  # Compare the latest two runs of results.csv
  a11yagg compare results

  # List all runs of a dataset
  a11yagg compare --list results

  # Compare the latest run with a specific run (row ID or run ID)
  a11yagg compare --with-run 5 results

  # Compare runs since a specific date
  a11yagg compare --since 2026-01-01 results

  # Output comparison in JSON format
  a11yagg compare --json results

  # List all datasets with history
  a11yagg compare --list-datasets`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List run history for the specified dataset")
	cmd.Flags().BoolP("list-datasets", "L", false,
		"List all datasets in the history database")

	// Comparison target flags
	cmd.Flags().StringP("with-run", "i", "",
		"Compare with a specific run by row ID or run ID (use --list to see them)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first run on or after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	cmd.Flags().String("db", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	listDatasets, err := cmd.Flags().GetBool("list-datasets")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	var datasetName string
	if !listDatasets {
		if len(args) == 0 {
			return errors.New("dataset name is required (use --list-datasets to see available datasets)")
		}
		datasetName = args[0]
	}

	dbDir, err := cmd.Flags().GetString("db")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	if listDatasets {
		return listAnalyzedDatasets(ctx, db, out)
	}

	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listRunHistory(ctx, db, datasetName, out)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return config.ErrConflictingReportFormats
	}

	withRun, err := cmd.Flags().GetString("with-run")
	if err != nil {
		return err
	}
	sinceDate, err := cmd.Flags().GetString("since")
	if err != nil {
		return err
	}

	previousMeta, currentMeta, err := selectRuns(ctx, db, datasetName, withRun, sinceDate)
	if err != nil {
		return err
	}

	previous, err := loadRun(ctx, db, previousMeta)
	if err != nil {
		return err
	}
	current, err := loadRun(ctx, db, currentMeta)
	if err != nil {
		return err
	}

	comparison := compareRuns(datasetName, previous, current)

	switch {
	case jsonOutput:
		return outputComparisonJSON(out, comparison)
	case markdownOutput:
		return outputComparisonMarkdown(out, comparison)
	default:
		return outputComparisonText(out, comparison)
	}
}

// listAnalyzedDatasets lists all datasets with saved runs.
func listAnalyzedDatasets(ctx context.Context, db *database.AnalysisDB, out io.Writer) error {
	datasets, err := db.ListDatasets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list datasets: %w", err)
	}

	if len(datasets) == 0 {
		fmt.Fprintln(out, "No analyzed datasets found in the database.")
		fmt.Fprintln(out, "\nUse 'a11yagg analyze --save <dataset.csv>' to record a run.")
		return nil
	}

	fmt.Fprintf(out, "Analyzed datasets (%d):\n\n", len(datasets))
	for _, name := range datasets {
		fmt.Fprintf(out, "  • %s\n", name)
	}
	fmt.Fprintln(out, "\nUse 'a11yagg compare --list <dataset>' to see the run history of a dataset.")

	return nil
}

// listRunHistory lists all saved runs of a dataset.
func listRunHistory(ctx context.Context, db *database.AnalysisDB, datasetName string, out io.Writer) error {
	runs, err := db.GetHistoryWithMetadata(ctx, datasetName)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintf(out, "No run history found for %s\n", datasetName)
		fmt.Fprintln(out, "\nUse 'a11yagg analyze --save' to record a run of this dataset.")
		return nil
	}

	fmt.Fprintf(out, "Run history for %s (%d runs):\n\n", datasetName, len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %-36s  %s\n", "ID", "Date", "Run ID", "Summary")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 90))

	for _, meta := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %-36s  %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			meta.RunID,
			formatSummary(meta.Summary),
		)
	}

	fmt.Fprintln(out, "\nUse 'a11yagg compare <dataset>' to compare the latest two runs.")
	fmt.Fprintln(out, "Use 'a11yagg compare --with-run <id> <dataset>' to compare with a specific run.")

	return nil
}

// formatSummary formats run metrics for the history listing.
func formatSummary(s model.Summary) string {
	if s.TotalErrors == 0 {
		return "No errors"
	}
	return fmt.Sprintf("errors:%d issues:%d urls:%d", s.TotalErrors, s.UniqueIssueTypes, s.URLsWithErrors)
}

// selectRuns picks the current (latest) run and the run to compare it with
// from the dataset's run metadata.
func selectRuns(ctx context.Context, db *database.AnalysisDB, datasetName, withRun, sinceDate string) (previous, current database.RunMetadata, err error) {
	runs, err := db.GetHistoryWithMetadata(ctx, datasetName)
	if err != nil {
		return previous, current, fmt.Errorf("failed to get run history: %w", err)
	}

	if len(runs) == 0 {
		return previous, current, fmt.Errorf("no run history found for %s", datasetName)
	}

	if len(runs) < 2 && withRun == "" && sinceDate == "" {
		return previous, current, fmt.Errorf("at least 2 runs are required for comparison (found %d)", len(runs))
	}

	// Latest run is always the current one
	current = runs[0]

	switch {
	case withRun != "":
		id, convErr := strconv.ParseInt(withRun, 10, 64)
		found := false
		for _, meta := range runs {
			if (convErr == nil && meta.ID == id) || meta.RunID == withRun {
				previous, found = meta, true
				break
			}
		}
		if !found {
			return previous, current, fmt.Errorf("run %s not found in the history of %s", withRun, datasetName)
		}

	case sinceDate != "":
		parsedDate, parseErr := time.Parse("2006-01-02", sinceDate)
		if parseErr != nil {
			return previous, current, fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", parseErr)
		}

		// Runs are newest first, so walk backwards to find the oldest
		// run on or after the date.
		i := len(runs) - 1
		for i >= 0 && runs[i].Timestamp.Before(parsedDate) {
			i--
		}
		if i < 0 {
			return previous, current, fmt.Errorf("no runs found since %s", sinceDate)
		}
		if i == 0 {
			return previous, current, fmt.Errorf("only one run found since %s; at least 2 runs are required for comparison", sinceDate)
		}
		previous = runs[i]

	default:
		previous = runs[1]
	}

	return previous, current, nil
}

// storedRun is one saved run together with its stored priority table.
type storedRun struct {
	summary RunSummary
	issues  []model.RankedIssue
}

// loadRun reads the priority rows saved for meta.
func loadRun(ctx context.Context, db *database.AnalysisDB, meta database.RunMetadata) (storedRun, error) {
	issues, err := db.GetIssueRows(ctx, meta.RunID)
	if err != nil {
		return storedRun{}, fmt.Errorf("failed to get issues of run %s: %w", meta.RunID, err)
	}
	return newStoredRun(meta, issues), nil
}

// newStoredRun pairs run metadata with its priority rows.
func newStoredRun(meta database.RunMetadata, issues []model.RankedIssue) storedRun {
	total := 0
	for _, issue := range issues {
		total += issue.ImpactScore
	}
	return storedRun{
		summary: RunSummary{
			RunID:       meta.RunID,
			AnalyzedAt:  meta.Timestamp,
			Summary:     meta.Summary,
			TotalImpact: total,
		},
		issues: issues,
	}
}

// ComparisonResult holds the result of comparing two analysis runs.
type ComparisonResult struct {
	// Dataset is the compared dataset name.
	Dataset string `json:"dataset"`

	// PreviousRun contains metadata about the previous run.
	PreviousRun RunSummary `json:"previous_run"`

	// CurrentRun contains metadata about the current run.
	CurrentRun RunSummary `json:"current_run"`

	// NewIssues are issues present only in the current run, in its rank order.
	NewIssues []model.RankedIssue `json:"new_issues,omitempty"`

	// ResolvedIssues are issues present only in the previous run, in its rank order.
	ResolvedIssues []model.RankedIssue `json:"resolved_issues,omitempty"`

	// ChangedIssues are issues present in both runs with different counts.
	ChangedIssues []IssueChange `json:"changed_issues,omitempty"`

	// UnchangedCount is the number of issues with identical counts.
	UnchangedCount int `json:"unchanged_count"`

	Trend Trend `json:"trend"`
}

// RunSummary identifies one side of a comparison.
type RunSummary struct {
	RunID      string        `json:"run_id"`
	AnalyzedAt time.Time     `json:"analyzed_at"`
	Summary    model.Summary `json:"summary"`
	// TotalImpact is the sum of impact scores over all issues.
	TotalImpact int `json:"total_impact"`
}

// IssueChange describes how one issue's counts moved between runs.
type IssueChange struct {
	IssueType           string `json:"issue_type"`
	PreviousOccurrences int    `json:"previous_occurrences"`
	CurrentOccurrences  int    `json:"current_occurrences"`
	PreviousURLs        int    `json:"previous_urls"`
	CurrentURLs         int    `json:"current_urls"`
}

// Trend summarizes the overall change between two runs.
type Trend struct {
	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	TotalErrorsDelta      int `json:"total_errors_delta"`
	UniqueIssueTypesDelta int `json:"unique_issue_types_delta"`
	URLsWithErrorsDelta   int `json:"urls_with_errors_delta"`
	ImpactDelta           int `json:"impact_delta"`
}

// compareRuns compares the priority tables of two runs issue by issue.
func compareRuns(dataset string, previous, current storedRun) *ComparisonResult {
	result := &ComparisonResult{
		Dataset:     dataset,
		PreviousRun: previous.summary,
		CurrentRun:  current.summary,
	}

	previousIssues := make(map[string]model.RankedIssue, len(previous.issues))
	for _, issue := range previous.issues {
		previousIssues[issue.IssueType] = issue
	}
	currentIssues := make(map[string]struct{}, len(current.issues))

	for _, issue := range current.issues {
		currentIssues[issue.IssueType] = struct{}{}

		prev, existed := previousIssues[issue.IssueType]
		switch {
		case !existed:
			result.NewIssues = append(result.NewIssues, issue)
		case prev.TotalOccurrences != issue.TotalOccurrences || prev.URLsAffected != issue.URLsAffected:
			result.ChangedIssues = append(result.ChangedIssues, IssueChange{
				IssueType:           issue.IssueType,
				PreviousOccurrences: prev.TotalOccurrences,
				CurrentOccurrences:  issue.TotalOccurrences,
				PreviousURLs:        prev.URLsAffected,
				CurrentURLs:         issue.URLsAffected,
			})
		default:
			result.UnchangedCount++
		}
	}

	for _, issue := range previous.issues {
		if _, still := currentIssues[issue.IssueType]; !still {
			result.ResolvedIssues = append(result.ResolvedIssues, issue)
		}
	}

	result.Trend = calculateTrend(result.PreviousRun, result.CurrentRun)
	return result
}

// calculateTrend derives the overall direction from the total impact, which
// weighs widespread issues more than the raw error count does.
func calculateTrend(previous, current RunSummary) Trend {
	trend := Trend{
		TotalErrorsDelta:      current.Summary.TotalErrors - previous.Summary.TotalErrors,
		UniqueIssueTypesDelta: current.Summary.UniqueIssueTypes - previous.Summary.UniqueIssueTypes,
		URLsWithErrorsDelta:   current.Summary.URLsWithErrors - previous.Summary.URLsWithErrors,
		ImpactDelta:           current.TotalImpact - previous.TotalImpact,
	}

	switch {
	case trend.ImpactDelta < 0:
		trend.Direction = trendImproved
	case trend.ImpactDelta > 0:
		trend.Direction = trendWorsened
	default:
		trend.Direction = trendUnchanged
	}

	return trend
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(out io.Writer, result *ComparisonResult) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(out io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(out, "# Analysis Comparison: %s\n\n", result.Dataset)

	fmt.Fprintln(out, "## Summary")
	fmt.Fprintf(out, "\n**Trend:** %s\n\n", formatTrend(result.Trend.Direction))

	p, c := result.PreviousRun, result.CurrentRun
	fmt.Fprintln(out, "| Metric | Previous | Current | Change |")
	fmt.Fprintln(out, "|--------|----------|---------|--------|")
	fmt.Fprintf(out, "| Date | %s | %s | - |\n",
		p.AnalyzedAt.Format("2006-01-02 15:04"), c.AnalyzedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(out, "| Total Errors | %d | %d | %s |\n",
		p.Summary.TotalErrors, c.Summary.TotalErrors, formatDelta(result.Trend.TotalErrorsDelta))
	fmt.Fprintf(out, "| Issue Types | %d | %d | %s |\n",
		p.Summary.UniqueIssueTypes, c.Summary.UniqueIssueTypes, formatDelta(result.Trend.UniqueIssueTypesDelta))
	fmt.Fprintf(out, "| URLs With Errors | %d | %d | %s |\n",
		p.Summary.URLsWithErrors, c.Summary.URLsWithErrors, formatDelta(result.Trend.URLsWithErrorsDelta))
	fmt.Fprintf(out, "| **Total Impact** | **%d** | **%d** | **%s** |\n",
		p.TotalImpact, c.TotalImpact, formatDelta(result.Trend.ImpactDelta))

	if len(result.NewIssues) > 0 {
		fmt.Fprintf(out, "\n## New Issues (%d)\n\n", len(result.NewIssues))
		for _, issue := range result.NewIssues {
			fmt.Fprintf(out, "- **%s**: %d occurrence(s) on %d URL(s)\n",
				issue.IssueType, issue.TotalOccurrences, issue.URLsAffected)
		}
	}

	if len(result.ResolvedIssues) > 0 {
		fmt.Fprintf(out, "\n## Resolved Issues (%d)\n\n", len(result.ResolvedIssues))
		for _, issue := range result.ResolvedIssues {
			fmt.Fprintf(out, "- ~~**%s**: %d occurrence(s)~~\n", issue.IssueType, issue.TotalOccurrences)
		}
	}

	if len(result.ChangedIssues) > 0 {
		fmt.Fprintf(out, "\n## Changed Issues (%d)\n\n", len(result.ChangedIssues))
		fmt.Fprintln(out, "| Issue | Occurrences | URLs |")
		fmt.Fprintln(out, "|-------|-------------|------|")
		for _, ch := range result.ChangedIssues {
			fmt.Fprintf(out, "| %s | %d → %d (%s) | %d → %d (%s) |\n",
				strings.ReplaceAll(ch.IssueType, "|", `\|`),
				ch.PreviousOccurrences, ch.CurrentOccurrences,
				formatDelta(ch.CurrentOccurrences-ch.PreviousOccurrences),
				ch.PreviousURLs, ch.CurrentURLs,
				formatDelta(ch.CurrentURLs-ch.PreviousURLs))
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Fprintf(out, "\n---\n\n*%d issues unchanged*\n", result.UnchangedCount)
	}

	return nil
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(out io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(out, "Analysis Comparison: %s\n", result.Dataset)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nTrend: %s\n", formatTrend(result.Trend.Direction))

	p, c := result.PreviousRun, result.CurrentRun
	fmt.Fprintf(out, "\nPrevious run: %s  (%s)\n", p.AnalyzedAt.Format("2006-01-02 15:04:05"), p.RunID)
	fmt.Fprintf(out, "Current run:  %s  (%s)\n", c.AnalyzedAt.Format("2006-01-02 15:04:05"), c.RunID)

	fmt.Fprintln(out, "\nSummary:")
	fmt.Fprintf(out, "  %-18s  %-10s  %-10s  %-10s\n", "Metric", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 54))
	fmt.Fprintf(out, "  %-18s  %-10d  %-10d  %-10s\n", "Total Errors",
		p.Summary.TotalErrors, c.Summary.TotalErrors, formatDelta(result.Trend.TotalErrorsDelta))
	fmt.Fprintf(out, "  %-18s  %-10d  %-10d  %-10s\n", "Issue Types",
		p.Summary.UniqueIssueTypes, c.Summary.UniqueIssueTypes, formatDelta(result.Trend.UniqueIssueTypesDelta))
	fmt.Fprintf(out, "  %-18s  %-10d  %-10d  %-10s\n", "URLs With Errors",
		p.Summary.URLsWithErrors, c.Summary.URLsWithErrors, formatDelta(result.Trend.URLsWithErrorsDelta))
	fmt.Fprintln(out, "  "+strings.Repeat("-", 54))
	fmt.Fprintf(out, "  %-18s  %-10d  %-10d  %-10s\n", "Total Impact",
		p.TotalImpact, c.TotalImpact, formatDelta(result.Trend.ImpactDelta))

	if len(result.NewIssues) > 0 {
		fmt.Fprintf(out, "\nNew Issues (%d):\n", len(result.NewIssues))
		for _, issue := range result.NewIssues {
			fmt.Fprintf(out, "  [+] %s (%d occurrences, %d URLs)\n",
				issue.IssueType, issue.TotalOccurrences, issue.URLsAffected)
		}
	}

	if len(result.ResolvedIssues) > 0 {
		fmt.Fprintf(out, "\nResolved Issues (%d):\n", len(result.ResolvedIssues))
		for _, issue := range result.ResolvedIssues {
			fmt.Fprintf(out, "  [-] %s\n", issue.IssueType)
		}
	}

	if len(result.ChangedIssues) > 0 {
		fmt.Fprintf(out, "\nChanged Issues (%d):\n", len(result.ChangedIssues))
		for _, ch := range result.ChangedIssues {
			fmt.Fprintf(out, "  [~] %s: occurrences %s, URLs %s\n",
				ch.IssueType,
				formatDelta(ch.CurrentOccurrences-ch.PreviousOccurrences),
				formatDelta(ch.CurrentURLs-ch.PreviousURLs))
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d issues\n", result.UnchangedCount)
	}

	return nil
}

// formatTrend formats the trend direction for display.
func formatTrend(direction string) string {
	switch direction {
	case trendImproved:
		return "IMPROVED (impact decreased)"
	case trendWorsened:
		return "WORSENED (impact increased)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
