// Package model defines the core data structures used throughout a11yagg.
//
// This package contains the following main types:
//   - Dataset and Row: an audit result table as read from CSV
//   - RawErrorRecord: one error message attributed to one page
//   - IssueStats: the aggregated state of one canonical issue
//   - RankedIssue: one row of the priority table
//   - AnalysisReport: the complete result of analyzing one dataset
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The extract, normalize, aggregate, rank and report packages
// all share these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage. Working state that only makes sense in-process (the
// label-keyed stats map, the raw records) is excluded from JSON.
package model
