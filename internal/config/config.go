package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "a11yagg"

	// DefaultURLColumn is the page column written by the audit runner.
	DefaultURLColumn = "URL"

	// DefaultErrorsColumn is the composite error column written by the audit runner.
	DefaultErrorsColumn = "all_errors"

	// DefaultStatusColumn holds the per-page error count or a failure sentinel.
	DefaultStatusColumn = "pa11y_errors"

	// DefaultTopN is the number of issues in the summary table.
	DefaultTopN = 10

	// DefaultChartN is the number of issues in the chart view.
	DefaultChartN = 15

	// DefaultSampleLimit is the number of distinct sample messages kept per issue.
	DefaultSampleLimit = 3

	// DefaultRecommendationN is the number of top issues given remediation steps.
	DefaultRecommendationN = 3

	// DefaultShards of 1 keeps aggregation sequential. Larger values only pay
	// off for datasets with hundreds of thousands of raw errors.
	DefaultShards = 1

	// DefaultConcurrency is the number of datasets analyzed at the same time.
	DefaultConcurrency = 4
)

// Config holds all configuration options for a11yagg.
// It is populated from defaults, then the configuration file and environment,
// then CLI flags, and passed down explicitly rather than kept in globals.
//
// Design decision: We keep a single flat struct like the CLI surface it
// mirrors. Column names, view sizes and output selection are independent
// knobs and nesting them would only lengthen the flag plumbing.
type Config struct {
	// URLColumn names the column identifying the audited page.
	// Rows are labelled "Row N" when the column is missing or blank.
	URLColumn string

	// ErrorsColumn names the required composite error column.
	ErrorsColumn string

	// StatusColumn names the optional error count / sentinel column.
	StatusColumn string

	// TopN is the size of the summary table.
	TopN int

	// ChartN is the number of issues shown in the chart view.
	ChartN int

	// SampleLimit caps the distinct raw messages kept per issue.
	SampleLimit int

	// RecommendationN is the number of top issues in the recommendations section.
	RecommendationN int

	// Shards splits aggregation of one dataset across goroutines.
	Shards int

	// Concurrency is the number of datasets analyzed at the same time.
	Concurrency int

	// Verbose enables debug logging.
	Verbose bool

	// NoColor disables coloured terminal output even on a TTY.
	NoColor bool

	// JSONReport, MarkdownReport and HTMLReport select the output format.
	// At most one may be set; the plain text report is the default.
	JSONReport     bool
	MarkdownReport bool
	HTMLReport     bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// IssueLabel selects an issue for the detail view.
	IssueLabel string

	// ExportPriority is a CSV path for the priority table.
	ExportPriority string

	// ExportBreakdown is a CSV path for the breakdown table.
	ExportBreakdown string

	// Targets are the dataset paths to analyze, after glob expansion.
	Targets []string

	// SaveToDB persists each analysis to the history database.
	SaveToDB bool

	// DBDir is the directory holding the history database and its lock file.
	// Defaults to the XDG data directory.
	DBDir string

	// ConfigFilePath is an explicit configuration file. When empty, .a11yagg
	// is searched for in the current directory, then the home directory.
	ConfigFilePath string

	// Rules are extra normalization rules appended after the built-in ones.
	Rules []RuleConfig

	// Guidance overrides or extends the remediation guidance table.
	Guidance map[string][]string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		URLColumn:       DefaultURLColumn,
		ErrorsColumn:    DefaultErrorsColumn,
		StatusColumn:    DefaultStatusColumn,
		TopN:            DefaultTopN,
		ChartN:          DefaultChartN,
		SampleLimit:     DefaultSampleLimit,
		RecommendationN: DefaultRecommendationN,
		Shards:          DefaultShards,
		Concurrency:     DefaultConcurrency,
		DBDir:           XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for a11yagg.
// On Linux: ~/.local/share/a11yagg
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for a11yagg.
// On Linux: ~/.config/a11yagg
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.ErrorsColumn == "" {
		return ErrEmptyErrorsColumn
	}

	if c.TopN <= 0 {
		return ErrInvalidTopN
	}

	if c.ChartN <= 0 {
		return ErrInvalidChartN
	}

	if c.SampleLimit <= 0 {
		return ErrInvalidSampleLimit
	}

	if c.RecommendationN < 0 {
		return ErrInvalidRecommendationN
	}

	if c.Shards <= 0 {
		return ErrInvalidShards
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	formats := 0
	for _, on := range []bool{c.JSONReport, c.MarkdownReport, c.HTMLReport} {
		if on {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	return nil
}
