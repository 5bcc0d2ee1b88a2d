// Package rank orders aggregated issues and builds the views derived from them.
//
// The priority table is sorted by occurrence count descending. Equal counts
// are broken by impact score descending and then by label in lexical order,
// so the ranking is fully deterministic regardless of map iteration order.
// Top-N views are prefix takes of the ranked table and never re-sort.
//
// Detail and Recommendations combine an issue's statistics with the static
// remediation guidance table from package model.
package rank
