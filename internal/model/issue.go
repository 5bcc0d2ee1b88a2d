package model

import "sort"

// Canonical issue labels produced by the built-in normalization rules.
const (
	LabelButtonName    = "Button missing accessible name"
	LabelTextInputName = "Text input missing accessible name"
	LabelFormLabel     = "Form field missing label"
	LabelContrast      = "Insufficient color contrast"
	LabelDuplicateID   = "Duplicate ID attribute"
	LabelIframeTitle   = "Iframe missing title attribute"
	LabelObsoleteHTML5 = "Obsolete HTML5 markup"
	LabelImageAlt      = "Image missing alt text"
	LabelLinkText      = "Link missing descriptive text"
)

// RawErrorRecord is one observed error instance on one page.
// Records are created during extraction and never modified afterwards.
type RawErrorRecord struct {
	// SourceURL is the page the error was found on.
	SourceURL string `json:"source_url"`

	// RawText is the unmodified message from the audit tool.
	RawText string `json:"raw_text"`
}

// IssueStats accumulates everything known about one canonical issue.
//
// Design decision: OccurrenceCount is a plain counter and AffectedURLs is a
// set. Keeping them separate is what makes ImpactScore meaningful: a page
// that reports the same issue five times adds five occurrences but only one
// affected URL.
type IssueStats struct {
	// Label is the canonical issue name.
	Label string `json:"label"`

	// OccurrenceCount is the number of raw errors that normalized to Label.
	OccurrenceCount int `json:"occurrence_count"`

	// AffectedURLs is the set of distinct pages reporting this issue.
	AffectedURLs map[string]struct{} `json:"-"`

	// Samples holds distinct raw messages in first-seen order, capped by
	// the aggregator's sample limit.
	Samples []string `json:"samples,omitempty"`
}

// NewIssueStats returns empty stats for label.
func NewIssueStats(label string) *IssueStats {
	return &IssueStats{
		Label:        label,
		AffectedURLs: make(map[string]struct{}),
	}
}

// URLCount returns the number of distinct affected URLs.
func (s *IssueStats) URLCount() int {
	return len(s.AffectedURLs)
}

// ImpactScore is occurrences multiplied by distinct affected URLs.
func (s *IssueStats) ImpactScore() int {
	return s.OccurrenceCount * len(s.AffectedURLs)
}

// SortedURLs returns the affected URLs in lexical order.
func (s *IssueStats) SortedURLs() []string {
	urls := make([]string, 0, len(s.AffectedURLs))
	for u := range s.AffectedURLs {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}

// HasSample reports whether raw is already one of the samples.
func (s *IssueStats) HasSample(raw string) bool {
	for _, sample := range s.Samples {
		if sample == raw {
			return true
		}
	}
	return false
}

// RankedIssue is one row of the priority table.
type RankedIssue struct {
	IssueType        string `json:"issue_type"`
	TotalOccurrences int    `json:"total_occurrences"`
	URLsAffected     int    `json:"urls_affected"`
	ImpactScore      int    `json:"impact_score"`
}

// BreakdownRow is one row of the exploded, unaggregated breakdown table.
type BreakdownRow struct {
	OriginalError   string       `json:"original_error"`
	NormalizedError string       `json:"normalized_error"`
	URL             string       `json:"url"`
	WCAGCategory    WCAGCategory `json:"wcag_category"`
}

// IssueDetail is the on-demand view of a single canonical issue.
type IssueDetail struct {
	Label            string   `json:"label"`
	TotalOccurrences int      `json:"total_occurrences"`
	URLs             []string `json:"urls"`
	Samples          []string `json:"samples"`
	Guidance         []string `json:"guidance"`
}

// Recommendation pairs a top-ranked issue with its remediation steps.
type Recommendation struct {
	Issue    RankedIssue `json:"issue"`
	Guidance []string    `json:"guidance"`
	// Known is false when the label has no entry in the guidance table.
	Known bool `json:"known"`
}
