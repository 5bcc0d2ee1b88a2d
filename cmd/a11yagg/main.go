// Package main provides the entry point for the a11yagg CLI.
//
// a11yagg normalizes, classifies and ranks the error messages produced by
// automated accessibility audits, turning thousands of near-duplicate
// messages into a short, prioritized list of issues.
//
// Usage:
//
//	a11yagg analyze results.csv
//	a11yagg analyze 'audits/**/*.csv' --markdown -o report.md
//	a11yagg compare results
//
// See --help for all available options.
package main

// main is the entry point for a11yagg.
func main() {
	Execute()
}
