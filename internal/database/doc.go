// Package database provides SQLite-based storage for analysis history.
//
// This package implements the AnalysisDB, which stores:
//   - Complete analysis reports as JSON, keyed by run ID
//   - The summary metrics of each run for quick listing
//   - The ranked priority rows of each run for comparisons
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
//
// Writers serialize through a lock file beside the database (see
// AcquireLock), so only one analysis pass saves history at a time.
package database
