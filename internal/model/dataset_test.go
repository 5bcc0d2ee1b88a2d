package model

import "testing"

func TestParseAuditStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		raw       string
		kind      StatusKind
		count     int
		hasErrors bool
		failure   bool
	}{
		{"positive count", "3", StatusCount, 3, true, false},
		{"zero count", "0", StatusCount, 0, false, false},
		{"float count", "3.0", StatusCount, 3, true, false},
		{"padded count", " 7 ", StatusCount, 7, true, false},
		{"failed", "FAILED", StatusFailed, 0, false, true},
		{"timeout lower case", "timeout", StatusTimeout, 0, false, true},
		{"error", "ERROR", StatusError, 0, false, true},
		{"no url", "NO_URL", StatusNoURL, 0, false, false},
		{"empty", "", StatusUnknown, 0, false, false},
		{"negative", "-1", StatusUnknown, 0, false, false},
		{"fraction", "2.5", StatusUnknown, 0, false, false},
		{"garbage", "n/a", StatusUnknown, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseAuditStatus(tt.raw)
			if got.Kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, got.Kind)
			}
			if got.Count != tt.count {
				t.Errorf("expected count %d, got %d", tt.count, got.Count)
			}
			if got.Raw != tt.raw {
				t.Errorf("expected raw %q, got %q", tt.raw, got.Raw)
			}
			if got.HasErrors() != tt.hasErrors {
				t.Errorf("expected HasErrors %v", tt.hasErrors)
			}
			if got.IsFailure() != tt.failure {
				t.Errorf("expected IsFailure %v", tt.failure)
			}
		})
	}
}
