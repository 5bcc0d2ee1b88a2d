// Package config provides configuration structures and utilities for a11yagg.
// It defines the dataset column names, report view sizes, concurrency
// settings and the optional extra normalization rules and guidance.
//
// Settings are resolved in this order, later sources winning: NewConfig
// defaults, the .a11yagg YAML file, A11YAGG_* environment variables, then
// CLI flags.
package config
