package report

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/nao1215/a11yagg/internal/model"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// HTMLWriter outputs a standalone HTML page rendered from the Markdown report.
//
// Design decision: The HTML report is the Markdown report run through
// goldmark with GitHub-flavored extensions, so both formats always carry the
// same content. Mermaid blocks stay as code blocks; a page that loads
// mermaid.js will render them.
type HTMLWriter struct {
	baseWriter

	renderer goldmark.Markdown
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer, opts Options) *HTMLWriter {
	return &HTMLWriter{
		baseWriter: newBaseWriter(output, opts),
		renderer:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.25rem 0.5rem; text-align: left; }
</style>
</head>
<body>
%s</body>
</html>
`

// Write outputs the report as HTML.
func (w *HTMLWriter) Write(report *model.AnalysisReport) (int, error) {
	var src bytes.Buffer
	if _, err := NewMarkdownWriter(&src, w.opts).Write(report); err != nil {
		return 0, fmt.Errorf("failed to render markdown: %w", err)
	}

	var body bytes.Buffer
	if err := w.renderer.Convert(src.Bytes(), &body); err != nil {
		return 0, fmt.Errorf("failed to convert markdown to html: %w", err)
	}

	title := html.EscapeString("Accessibility Error Analysis - " + report.Dataset)
	return fmt.Fprintf(w.output, htmlPage, title, body.String())
}
