package normalize

import (
	"strings"

	"github.com/nao1215/a11yagg/internal/model"
)

// bucket assigns category when any keyword occurs in the lower-cased message.
type bucket struct {
	keywords []string
	category model.WCAGCategory
}

// buckets are checked in order; a message matching several buckets lands in
// the first one.
var buckets = []bucket{
	{keywords: []string{"contrast", "color"}, category: model.CategoryColorsContrast},
	{keywords: []string{"button", "input", "form", "label", "name", "title"}, category: model.CategoryNavigationForms},
	{keywords: []string{"markup", "html5", "obsolete"}, category: model.CategoryCodeQuality},
	{keywords: []string{"alt", "image", "img"}, category: model.CategoryImagesMedia},
}

// Classify returns the WCAG bucket for raw. Messages matching no keyword
// are CategoryOther.
func Classify(raw string) model.WCAGCategory {
	lower := strings.ToLower(raw)
	for _, b := range buckets {
		for _, kw := range b.keywords {
			if strings.Contains(lower, kw) {
				return b.category
			}
		}
	}
	return model.CategoryOther
}
