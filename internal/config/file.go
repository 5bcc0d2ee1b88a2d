package config

import (
	"fmt"

	"github.com/nao1215/a11yagg/internal/model"
	"github.com/nao1215/a11yagg/internal/normalize"
)

// RuleConfig is a user-defined normalization rule.
type RuleConfig struct {
	// Pattern is a regular expression matched case-insensitively anywhere in the message.
	Pattern string `yaml:"pattern" mapstructure:"pattern"`

	// Label is the canonical issue name for matching messages.
	Label string `yaml:"label" mapstructure:"label"`
}

// File represents the structure of the .a11yagg configuration file.
// Zero values mean "not set" and leave the corresponding default alone;
// RecommendationN uses nil for that instead.
type File struct {
	URLColumn    string `yaml:"url_column,omitempty" mapstructure:"url_column"`
	ErrorsColumn string `yaml:"errors_column,omitempty" mapstructure:"errors_column"`
	StatusColumn string `yaml:"status_column,omitempty" mapstructure:"status_column"`
	TopN         int    `yaml:"top_n,omitempty" mapstructure:"top_n"`
	ChartN       int    `yaml:"chart_n,omitempty" mapstructure:"chart_n"`
	SampleLimit  int    `yaml:"sample_limit,omitempty" mapstructure:"sample_limit"`
	Shards       int    `yaml:"shards,omitempty" mapstructure:"shards"`
	Concurrency  int    `yaml:"concurrency,omitempty" mapstructure:"concurrency"`
	DBDir        string `yaml:"db_dir,omitempty" mapstructure:"db_dir"`
	NoColor      bool   `yaml:"no_color,omitempty" mapstructure:"no_color"`

	// RecommendationN is a pointer because 0 is meaningful: it turns the
	// recommendations section off.
	RecommendationN *int `yaml:"recommendations,omitempty" mapstructure:"recommendations"`

	// Rules are appended after the built-in normalization rules.
	Rules []RuleConfig `yaml:"rules,omitempty" mapstructure:"-"`

	// Guidance maps canonical labels to remediation steps. An empty list
	// removes the built-in guidance for that label.
	Guidance map[string][]string `yaml:"guidance,omitempty" mapstructure:"-"`
}

// Apply copies every value set in the file onto c.
func (f *File) Apply(c *Config) {
	if f.URLColumn != "" {
		c.URLColumn = f.URLColumn
	}
	if f.ErrorsColumn != "" {
		c.ErrorsColumn = f.ErrorsColumn
	}
	if f.StatusColumn != "" {
		c.StatusColumn = f.StatusColumn
	}
	if f.TopN != 0 {
		c.TopN = f.TopN
	}
	if f.ChartN != 0 {
		c.ChartN = f.ChartN
	}
	if f.SampleLimit != 0 {
		c.SampleLimit = f.SampleLimit
	}
	if f.RecommendationN != nil {
		c.RecommendationN = *f.RecommendationN
	}
	if f.Shards != 0 {
		c.Shards = f.Shards
	}
	if f.Concurrency != 0 {
		c.Concurrency = f.Concurrency
	}
	if f.DBDir != "" {
		c.DBDir = f.DBDir
	}
	if f.NoColor {
		c.NoColor = true
	}
	if len(f.Rules) > 0 {
		c.Rules = append(c.Rules, f.Rules...)
	}
	if len(f.Guidance) > 0 {
		if c.Guidance == nil {
			c.Guidance = make(map[string][]string, len(f.Guidance))
		}
		for label, steps := range f.Guidance {
			c.Guidance[label] = steps
		}
	}
}

// Normalizer compiles the configured extra rules into a Normalizer.
func (c *Config) Normalizer() (*normalize.Normalizer, error) {
	extra := make([]normalize.Rule, 0, len(c.Rules))
	for i, rc := range c.Rules {
		rule, err := normalize.NewRule(rc.Pattern, rc.Label)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		extra = append(extra, rule)
	}
	return normalize.New(extra...), nil
}

// GuidanceTable returns the built-in guidance with configured overrides applied.
func (c *Config) GuidanceTable() model.GuidanceTable {
	return model.DefaultGuidance().With(c.Guidance)
}
