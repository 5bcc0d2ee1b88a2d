package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".a11yagg"

// EnvPrefix prefixes environment overrides, e.g. A11YAGG_TOP_N=20.
const EnvPrefix = "A11YAGG"

// envKeys are the scalar settings that may be overridden from the environment.
var envKeys = []string{
	"url_column", "errors_column", "status_column",
	"top_n", "chart_n", "sample_limit", "recommendations",
	"shards", "concurrency", "db_dir", "no_color",
}

// LoadConfigFile loads the configuration file at path and layers environment
// overrides on top. An empty path loads the environment only.
// If path does not exist, it returns ErrConfigNotFound.
//
// Design decision: The file is decoded twice. yaml.v3 decodes it strictly so
// misspelled keys are reported, and it alone handles the label-keyed
// guidance and rule sections because viper lower-cases map keys. viper then
// supplies the scalar settings with A11YAGG_* environment overrides applied.
func LoadConfigFile(path string) (*File, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var strict File
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
		if err != nil {
			if os.IsNotExist(err) {
				return nil, ErrConfigNotFound
			}
			return nil, err
		}

		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&strict); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfigFile, path, err)
		}

		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfigFile, path, err)
		}
	}

	var cf File
	if err := v.Unmarshal(&cf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfigFile, err)
	}
	cf.Rules = strict.Rules
	cf.Guidance = strict.Guidance

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .a11yagg in the current directory
// 3. Look for .a11yagg in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}
