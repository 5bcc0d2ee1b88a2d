// Package aggregate folds raw error records into per-issue statistics.
//
// For every record the Aggregator normalizes the raw text to a canonical
// label, increments that label's occurrence counter and inserts the record's
// URL into the label's affected-URL set. The fold is commutative and
// associative over counts and URL sets, so input order never changes the
// result and partial results from independent shards can be combined with
// Merge.
//
// Design decision: Sharded splits the input into contiguous chunks and merges
// the partial maps in chunk order. Besides producing identical counts and
// sets, this keeps the sample messages identical to a sequential fold: they
// are the first distinct messages in input order.
//
// An empty input is a valid result, an empty map, and never an error.
package aggregate
