package report

import (
	"io"
	"strings"

	"github.com/nao1215/a11yagg/internal/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteDetail writes the detail view of a single issue as text.
func WriteDetail(w io.Writer, detail model.IssueDetail) (int, error) {
	p := message.NewPrinter(language.English)
	var sb strings.Builder

	sb.WriteString(detail.Label + "\n")
	sb.WriteString(strings.Repeat("-", min(len([]rune(detail.Label)), ruleWidth)) + "\n\n")
	sb.WriteString(p.Sprintf("Total occurrences: %d\n", detail.TotalOccurrences))
	sb.WriteString(p.Sprintf("URLs affected:     %d\n\n", len(detail.URLs)))

	sb.WriteString("Affected URLs:\n")
	for _, u := range detail.URLs {
		sb.WriteString("  - " + u + "\n")
	}

	if len(detail.Samples) > 0 {
		sb.WriteString("\nSample error messages:\n")
		for i, s := range detail.Samples {
			sb.WriteString(p.Sprintf("  %d. %s\n", i+1, s))
		}
	}

	sb.WriteString("\nHow to fix:\n")
	for _, step := range detail.Guidance {
		sb.WriteString("  * " + step + "\n")
	}

	return io.WriteString(w, sb.String())
}
