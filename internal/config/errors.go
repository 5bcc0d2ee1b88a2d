package config

import "errors"

// Configuration validation errors returned by Config.Validate().
//
// Design decision: Package-level sentinels let callers use errors.Is() while
// still giving the user a readable message.
var (
	// ErrNoTarget is returned when no dataset is given.
	ErrNoTarget = errors.New("no dataset specified: provide at least one CSV file or glob pattern")

	// ErrEmptyErrorsColumn is returned when the errors column name is blank.
	ErrEmptyErrorsColumn = errors.New("invalid errors column: name must not be empty")

	// ErrInvalidTopN is returned when the summary table size is not positive.
	ErrInvalidTopN = errors.New("invalid top: must be positive")

	// ErrInvalidChartN is returned when the chart size is not positive.
	ErrInvalidChartN = errors.New("invalid chart top: must be positive")

	// ErrInvalidSampleLimit is returned when the sample limit is not positive.
	ErrInvalidSampleLimit = errors.New("invalid sample limit: must be positive")

	// ErrInvalidRecommendationN is returned when the recommendation count is negative.
	ErrInvalidRecommendationN = errors.New("invalid recommendations: must be non-negative")

	// ErrInvalidShards is returned when the shard count is not positive.
	ErrInvalidShards = errors.New("invalid shards: must be positive")

	// ErrInvalidConcurrency is returned when the dataset concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrConflictingReportFormats is returned when more than one of --json,
	// --markdown and --html is given.
	ErrConflictingReportFormats = errors.New("conflicting report formats: use only one of --json, --markdown and --html")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidConfigFile is returned when the configuration file cannot be parsed.
	ErrInvalidConfigFile = errors.New("invalid configuration file")
)
