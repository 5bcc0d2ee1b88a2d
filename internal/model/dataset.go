package model

import (
	"strconv"
	"strings"
)

// StatusKind classifies the per-row audit status column.
type StatusKind int

const (
	// StatusUnknown is an empty or unrecognised status value.
	StatusUnknown StatusKind = iota

	// StatusCount means the audit ran and reported a number of errors.
	StatusCount

	// StatusFailed means the audit tool exited abnormally.
	StatusFailed

	// StatusTimeout means the audit tool was stopped after its time limit.
	StatusTimeout

	// StatusError means the audit could not be run for the row.
	StatusError

	// StatusNoURL means the row had no URL to audit.
	StatusNoURL
)

// Sentinel values written by the audit runner in place of an error count.
const (
	SentinelFailed  = "FAILED"
	SentinelTimeout = "TIMEOUT"
	SentinelError   = "ERROR"
	SentinelNoURL   = "NO_URL"
)

// AuditStatus is the parsed value of a row's error-count column.
type AuditStatus struct {
	Kind  StatusKind
	Count int
	Raw   string
}

// ParseAuditStatus parses an error-count cell. Non-negative integers become
// StatusCount; the runner's sentinels map to their kinds; anything else is
// StatusUnknown.
func ParseAuditStatus(raw string) AuditStatus {
	trimmed := strings.TrimSpace(raw)
	status := AuditStatus{Raw: raw}

	switch strings.ToUpper(trimmed) {
	case SentinelFailed:
		status.Kind = StatusFailed
		return status
	case SentinelTimeout:
		status.Kind = StatusTimeout
		return status
	case SentinelError:
		status.Kind = StatusError
		return status
	case SentinelNoURL:
		status.Kind = StatusNoURL
		return status
	}

	// Spreadsheet exports sometimes write counts as floats ("3.0").
	if n, err := strconv.Atoi(trimmed); err == nil && n >= 0 {
		status.Kind = StatusCount
		status.Count = n
		return status
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && f >= 0 && f == float64(int(f)) {
		status.Kind = StatusCount
		status.Count = int(f)
		return status
	}

	status.Kind = StatusUnknown
	return status
}

// HasErrors reports whether the row was audited and reported at least one error.
func (s AuditStatus) HasErrors() bool {
	return s.Kind == StatusCount && s.Count > 0
}

// IsFailure reports whether the audit did not complete for the row.
// NO_URL rows are not failures: there was nothing to audit.
func (s AuditStatus) IsFailure() bool {
	return s.Kind == StatusFailed || s.Kind == StatusTimeout || s.Kind == StatusError
}

// Row is one input row of an audit dataset.
type Row struct {
	// Index is the 1-based data row number (header excluded).
	Index int

	// URL identifies the page. Rows without a URL column get "Row N".
	URL string

	// AllErrors is the composite " | "-joined error field.
	AllErrors string

	// Status is the parsed error-count column.
	Status AuditStatus
}

// Dataset is an in-memory audit result table.
type Dataset struct {
	// Name identifies the dataset in reports and history, usually the file base name.
	Name string

	// Source is where the dataset was read from.
	Source string

	Rows []Row
}
