package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestWCAGCategory_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		category WCAGCategory
		want     string
	}{
		{CategoryColorsContrast, "Perceivable (Colors/Contrast)"},
		{CategoryNavigationForms, "Operable (Navigation/Forms)"},
		{CategoryCodeQuality, "Robust (Code Quality)"},
		{CategoryImagesMedia, "Perceivable (Images/Media)"},
		{CategoryOther, "Other"},
		{WCAGCategory(99), "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := tt.category.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseWCAGCategory(t *testing.T) {
	t.Parallel()

	t.Run("round trips every category", func(t *testing.T) {
		t.Parallel()
		for _, c := range AllCategories {
			got, err := ParseWCAGCategory(c.String())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c {
				t.Errorf("expected %v, got %v", c, got)
			}
		}
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		t.Parallel()
		_, err := ParseWCAGCategory("Understandable")
		if !errors.Is(err, ErrUnknownCategory) {
			t.Errorf("expected ErrUnknownCategory, got %v", err)
		}
	})
}

func TestWCAGCategory_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(CategoryCount{Category: CategoryCodeQuality, Count: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"category":"Robust (Code Quality)","count":2}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}

	var decoded CategoryCount
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Category != CategoryCodeQuality {
		t.Errorf("expected %v, got %v", CategoryCodeQuality, decoded.Category)
	}

	if err := json.Unmarshal([]byte(`{"category":"nope"}`), &decoded); err == nil {
		t.Error("expected error for unknown category")
	}
}
