package report

import (
	"io"
	"strings"

	"github.com/nao1215/a11yagg/internal/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ruleWidth is the width of section separators in the text report.
const ruleWidth = 70

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section formatting.
//
// Design decision: Colour is off unless explicitly enabled, so output piped
// to files or other tools stays plain. The command layer turns it on for
// terminals with ColorEnabled.
type SimpleWriter struct {
	baseWriter

	// colors holds the terminal styles; plain when colour is disabled.
	colors palette

	// verbose adds the category table and sample messages.
	verbose bool

	// printer formats counts with thousands separators.
	printer *message.Printer
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithColor enables coloured output.
func WithColor(enabled bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.colors = newPalette(enabled)
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithSimpleOptions sets the view sizes and guidance.
func WithSimpleOptions(opts Options) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.baseWriter = newBaseWriter(w.output, opts)
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output, DefaultOptions()),
		printer:    message.NewPrinter(language.English),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.AnalysisReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writePriorityTable(&sb, report)
	w.writeCategories(&sb, report)
	w.writeRecommendations(&sb, report)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// writeSection writes a titled separator block.
func (w *SimpleWriter) writeSection(sb *strings.Builder, title string) {
	sb.WriteString(w.colors.render(w.colors.muted, strings.Repeat("-", ruleWidth)))
	sb.WriteString("\n")
	sb.WriteString(w.colors.render(w.colors.heading, title))
	sb.WriteString("\n")
	sb.WriteString(w.colors.render(w.colors.muted, strings.Repeat("-", ruleWidth)))
	sb.WriteString("\n\n")
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.AnalysisReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(w.colors.render(w.colors.bold, "                  ACCESSIBILITY ERROR ANALYSIS"))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	sb.WriteString(w.printer.Sprintf("Dataset:        %s\n", report.Dataset))
	if report.Source != "" {
		sb.WriteString(w.printer.Sprintf("Source:         %s\n", report.Source))
	}
	sb.WriteString(w.printer.Sprintf("Analyzed At:    %s\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(w.printer.Sprintf("Run ID:         %s\n", report.RunID))

	if report.Error != "" {
		sb.WriteString("Status:         " + w.colors.render(w.colors.failure, "ERROR - "+report.Error) + "\n")
	} else {
		sb.WriteString("Status:         " + w.colors.render(w.colors.success, "Complete") + "\n")
	}
	sb.WriteString("\n")
}

// writeSummary writes the headline metrics.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.AnalysisReport) {
	w.writeSection(sb, "SUMMARY")

	s := report.Summary
	sb.WriteString(w.printer.Sprintf("  Rows Analyzed:       %d\n", s.RowsAnalyzed))
	sb.WriteString(w.printer.Sprintf("  Total Errors:        %d\n", s.TotalErrors))
	sb.WriteString(w.printer.Sprintf("  Unique Issue Types:  %d\n", s.UniqueIssueTypes))
	sb.WriteString(w.printer.Sprintf("  URLs With Errors:    %d\n", s.URLsWithErrors))
	sb.WriteString(w.printer.Sprintf("  Avg Errors per URL:  %.1f\n", s.AvgErrorsPerURL))
	if s.FailedURLs > 0 {
		sb.WriteString(w.colors.render(w.colors.warning,
			w.printer.Sprintf("  Failed Audits:       %d", s.FailedURLs)))
		sb.WriteString("\n")
	}
	if s.NoURLRows > 0 {
		sb.WriteString(w.printer.Sprintf("  Rows Without URL:    %d\n", s.NoURLRows))
	}
	sb.WriteString("\n")
}

// writePriorityTable writes the top-N priority table.
func (w *SimpleWriter) writePriorityTable(sb *strings.Builder, report *model.AnalysisReport) {
	w.writeSection(sb, w.printer.Sprintf("TOP %d ISSUES", w.opts.TopN))

	top := w.top(report)
	if len(top) == 0 {
		sb.WriteString(w.colors.render(w.colors.success, "  No accessibility errors found"))
		sb.WriteString("\n\n")
		return
	}

	sb.WriteString(w.printer.Sprintf("  %-4s %-50s %11s %6s %8s\n", "#", "Issue Type", "Occurrences", "URLs", "Impact"))
	for i, issue := range top {
		sb.WriteString(w.printer.Sprintf("  %-4d %-50s %11d %6d %8d\n",
			i+1,
			truncateString(issue.IssueType, 50),
			issue.TotalOccurrences,
			issue.URLsAffected,
			issue.ImpactScore,
		))
	}
	if len(top) < len(report.Issues) {
		sb.WriteString(w.colors.render(w.colors.muted,
			w.printer.Sprintf("  ... and %d more issue types", len(report.Issues)-len(top))))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// writeCategories writes the WCAG category distribution.
func (w *SimpleWriter) writeCategories(sb *strings.Builder, report *model.AnalysisReport) {
	if report.Summary.TotalErrors == 0 && !w.verbose {
		return
	}

	w.writeSection(sb, "WCAG CATEGORIES")
	for _, c := range report.Categories {
		sb.WriteString(w.printer.Sprintf("  %-32s %8d\n", c.Category.String(), c.Count))
	}
	sb.WriteString("\n")
}

// writeRecommendations writes remediation steps for the top issues.
func (w *SimpleWriter) writeRecommendations(sb *strings.Builder, report *model.AnalysisReport) {
	recs := w.recommendations(report)
	if len(recs) == 0 {
		return
	}

	w.writeSection(sb, "RECOMMENDATIONS")
	for i, rec := range recs {
		sb.WriteString(w.printer.Sprintf("%d. %s ", i+1, w.colors.render(w.colors.bold, rec.Issue.IssueType)))
		sb.WriteString(w.colors.render(w.colors.muted,
			w.printer.Sprintf("(%d occurrences)", rec.Issue.TotalOccurrences)))
		sb.WriteString("\n")
		for _, step := range rec.Guidance {
			sb.WriteString("   * " + step + "\n")
		}
		if w.verbose {
			if stats, ok := report.Stats[rec.Issue.IssueType]; ok {
				for _, sample := range stats.Samples {
					sb.WriteString(w.colors.render(w.colors.muted, "   > "+truncateString(sample, 100)))
					sb.WriteString("\n")
				}
			}
		}
		sb.WriteString("\n")
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("Report generated by a11yagg\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}

// truncateString shortens s to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
