// Package dataset reads audit result tables into model.Dataset values.
//
// A dataset is a CSV file with a header row. The errors column (all_errors by
// default) is required; a file without it is rejected before any row is read,
// and the error names the missing column. The URL column is optional: rows
// are labelled "Row N" when it is absent or blank. The status column carries
// either an error count or one of the audit runner's sentinels and is also
// optional.
//
// Design decision: Reading is strict about structure (header, required
// column) and lenient about content (ragged rows, blank cells), because the
// files are usually produced by spreadsheet tools that pad or trim trailing
// cells inconsistently.
package dataset
