package model

import (
	"encoding/json"
	"fmt"
)

// WCAGCategory is a coarse bucket for the accessibility principle a raw error
// relates to. It is assigned per raw error, not per canonical issue.
//
// Design decision: We use iota-based constants so the buckets have a fixed
// display order, and marshal them as their human-readable names so JSON and
// CSV output stay readable without a lookup table on the consumer side.
type WCAGCategory int

const (
	// CategoryColorsContrast covers colour and contrast problems.
	CategoryColorsContrast WCAGCategory = iota

	// CategoryNavigationForms covers buttons, inputs, labels and titles.
	CategoryNavigationForms

	// CategoryCodeQuality covers obsolete or presentational markup.
	CategoryCodeQuality

	// CategoryImagesMedia covers images and their text alternatives.
	CategoryImagesMedia

	// CategoryOther is the catch-all bucket.
	CategoryOther
)

// AllCategories lists every category in display order.
var AllCategories = []WCAGCategory{
	CategoryColorsContrast,
	CategoryNavigationForms,
	CategoryCodeQuality,
	CategoryImagesMedia,
	CategoryOther,
}

// String returns the display name of the category.
func (c WCAGCategory) String() string {
	switch c {
	case CategoryColorsContrast:
		return "Perceivable (Colors/Contrast)"
	case CategoryNavigationForms:
		return "Operable (Navigation/Forms)"
	case CategoryCodeQuality:
		return "Robust (Code Quality)"
	case CategoryImagesMedia:
		return "Perceivable (Images/Media)"
	default:
		return "Other"
	}
}

// ParseWCAGCategory converts a display name back to a category.
func ParseWCAGCategory(s string) (WCAGCategory, error) {
	for _, c := range AllCategories {
		if c.String() == s {
			return c, nil
		}
	}
	return CategoryOther, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// MarshalJSON encodes the category as its display name.
func (c WCAGCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a category from its display name.
func (c *WCAGCategory) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseWCAGCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText lets categories be used as JSON object keys.
func (c WCAGCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (c *WCAGCategory) UnmarshalText(text []byte) error {
	parsed, err := ParseWCAGCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// CategoryCount is one slice of the category distribution.
type CategoryCount struct {
	Category WCAGCategory `json:"category"`
	Count    int          `json:"count"`
}
