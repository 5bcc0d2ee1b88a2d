package main

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/a11yagg/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

//go:embed templates/a11yagg.yaml
var configTemplate embed.FS

// templatePath is the embedded template location.
const templatePath = "templates/a11yagg.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new a11yagg configuration file",
		Long: `Initialize creates a new .a11yagg configuration file in the current directory.

The generated file includes:
- The dataset column names and report sizes with their defaults
- Commented examples of extra normalization rules
- Commented examples of remediation guidance overrides

Examples:
  # Create .a11yagg in current directory
  a11yagg init

  # Create config file at a specific path
  a11yagg init -o ~/.config/a11yagg/config.yaml

  # Force overwrite existing file
  a11yagg init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}
	if err := validateTemplate(content); err != nil {
		return err
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure settings such as:")
	fmt.Fprintln(out, "  - Dataset column names")
	fmt.Fprintln(out, "  - Report table and chart sizes")
	fmt.Fprintln(out, "  - Extra normalization rules and remediation guidance")

	return nil
}

// validateTemplate decodes the template strictly into the config file
// structure, so a key the loader would reject is never written out.
func validateTemplate(content []byte) error {
	var f config.File
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid config template: %w", err)
	}
	return nil
}
