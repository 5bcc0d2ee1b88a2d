package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/a11yagg/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts and mermaid charts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts Options) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output, opts),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AnalysisReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writePriorityTable(md, report)
	w.writeCategories(md, report)
	w.writeChart(md, report)
	w.writeRecommendations(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H1("Accessibility Error Analysis")
	md.PlainText("")

	rows := [][]string{
		{"Dataset", "`" + report.Dataset + "`"},
	}
	if report.Source != "" {
		rows = append(rows, []string{"Source", "`" + report.Source + "`"})
	}
	rows = append(rows,
		[]string{"Analyzed At", report.AnalyzedAt.Format("2006-01-02 15:04:05 MST")},
		[]string{"Run ID", "`" + report.RunID + "`"},
		[]string{"Status", statusText(report)},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// statusText returns the status text based on report state.
func statusText(report *model.AnalysisReport) string {
	if report.Error != "" {
		return "❌ Error - " + report.Error
	}
	return "✅ Complete"
}

// writeSummary writes the headline metrics and an alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("Summary")
	md.PlainText("")

	s := report.Summary
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Rows Analyzed", strconv.Itoa(s.RowsAnalyzed)},
			{"Total Errors", strconv.Itoa(s.TotalErrors)},
			{"Unique Issue Types", strconv.Itoa(s.UniqueIssueTypes)},
			{"URLs With Errors", strconv.Itoa(s.URLsWithErrors)},
			{"Avg Errors per URL", strconv.FormatFloat(s.AvgErrorsPerURL, 'f', 1, 64)},
			{"Failed Audits", strconv.Itoa(s.FailedURLs)},
			{"Rows Without URL", strconv.Itoa(s.NoURLRows)},
		},
	})
	md.PlainText("")

	w.writeAlert(md, report)
}

// writeAlert writes an alert based on how widespread the top issue is.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.AnalysisReport) {
	switch {
	case report.Error != "":
		md.Cautionf("Analysis did not complete: %s", report.Error)
	case !report.HasIssues():
		md.Tip("No accessibility errors found.")
	case report.Summary.FailedURLs > 0:
		md.Warningf(
			"%d page(s) could not be audited. Their errors are not included in this report.",
			report.Summary.FailedURLs,
		)
	default:
		top := report.Issues[0]
		md.Importantf(
			"The most frequent issue is %q with %d occurrence(s) across %d URL(s).",
			top.IssueType, top.TotalOccurrences, top.URLsAffected,
		)
	}
	md.PlainText("")
}

// writePriorityTable writes the top-N priority table.
func (w *MarkdownWriter) writePriorityTable(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("Top " + strconv.Itoa(w.opts.TopN) + " Issues")
	md.PlainText("")

	top := w.top(report)
	if len(top) == 0 {
		md.PlainText("No accessibility errors found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(top))
	for i, issue := range top {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			escapeCell(issue.IssueType),
			strconv.Itoa(issue.TotalOccurrences),
			strconv.Itoa(issue.URLsAffected),
			strconv.Itoa(issue.ImpactScore),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"#", "Issue Type", "Total Occurrences", "URLs Affected", "Impact Score"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeCategories writes the WCAG category table and pie chart.
func (w *MarkdownWriter) writeCategories(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("WCAG Categories")
	md.PlainText("")

	rows := make([][]string, 0, len(report.Categories))
	for _, c := range report.Categories {
		rows = append(rows, []string{c.Category.String(), strconv.Itoa(c.Count)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Category", "Errors"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.Summary.TotalErrors == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("WCAG Category Distribution"),
		piechart.WithShowData(true),
	)
	for _, c := range report.Categories {
		if c.Count > 0 {
			chart.LabelAndIntValue(c.Category.String(), uint64(c.Count))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeChart writes the top-ChartN issues by occurrences as a pie chart.
func (w *MarkdownWriter) writeChart(md *markdown.Markdown, report *model.AnalysisReport) {
	issues := w.chart(report)
	if len(issues) == 0 {
		return
	}

	md.H2("Top " + strconv.Itoa(w.opts.ChartN) + " Issues by Occurrences")
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Occurrences"),
		piechart.WithShowData(true),
	)
	for _, issue := range issues {
		chart.LabelAndIntValue(chartLabel(issue.IssueType), uint64(issue.TotalOccurrences))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeRecommendations writes guidance for the top issues, with the
// sample messages folded into details blocks.
func (w *MarkdownWriter) writeRecommendations(md *markdown.Markdown, report *model.AnalysisReport) {
	recs := w.recommendations(report)
	if len(recs) == 0 {
		return
	}

	md.H2("Recommendations")
	md.PlainText("")

	for i, rec := range recs {
		md.H3(strconv.Itoa(i+1) + ". " + escapeCell(rec.Issue.IssueType))
		md.PlainText("")
		md.PlainTextf("%d occurrence(s) across %d URL(s).", rec.Issue.TotalOccurrences, rec.Issue.URLsAffected)
		md.PlainText("")
		md.BulletList(rec.Guidance...)
		md.PlainText("")

		if stats, ok := report.Stats[rec.Issue.IssueType]; ok && len(stats.Samples) > 0 {
			md.Details("Sample messages", "\n- "+strings.Join(stats.Samples, "\n- ")+"\n")
			md.PlainText("")
		}
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by a11yagg*")
}

// cellReplacer keeps a value on one table row. Fallback labels can carry
// line breaks from multi-line CSV cells.
var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

// chartReplacer does the same for mermaid pie labels, which are quoted.
var chartReplacer = strings.NewReplacer(`"`, "'", "\r\n", " ", "\n", " ", "\r", " ")

// escapeCell makes s safe inside a Markdown table cell.
func escapeCell(s string) string {
	return cellReplacer.Replace(s)
}

// chartLabel makes s safe as a mermaid pie label.
func chartLabel(s string) string {
	return chartReplacer.Replace(s)
}
