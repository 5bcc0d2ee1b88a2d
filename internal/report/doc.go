// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - MarkdownWriter: Markdown with tables, alerts and mermaid pie charts
//   - HTMLWriter: A standalone page rendered from the Markdown report
//   - JSONWriter: Structured JSON output for tool integration
//
// It also exports the priority and breakdown tables as CSV and renders the
// single-issue detail view.
//
// Design decision: We separate report writing from report data structures
// (which are in the model package) to follow the single responsibility
// principle. This allows adding new output formats without modifying
// the core data structures.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
