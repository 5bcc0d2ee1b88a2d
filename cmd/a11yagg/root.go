package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nao1215/a11yagg/internal/log"
	"github.com/spf13/cobra"
)

const (
	logFormatText = "text"
	logFormatJSON = "json"
)

// errInvalidLogFormat is returned when --log-format is neither text nor json.
var errInvalidLogFormat = errors.New("invalid log format (use text or json)")

// NewRootCmd creates the root command for a11yagg.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "a11yagg",
		Short: "Aggregate and prioritize accessibility audit errors",
		Long: `a11yagg turns the raw error messages of automated accessibility audits into
a prioritized list of canonical issues.

Each message is mapped to a canonical label, classified into a WCAG category
and counted per issue and per affected URL. Issues are ranked by how often
they occur, and the most frequent ones come with remediation steps.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("log-format", logFormatText, "Log format written to stderr: text or json")

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger returns the masking logger for the requested format.
func newLogger(w io.Writer, format string, verbose bool) (*slog.Logger, error) {
	switch format {
	case logFormatText, "":
		return log.NewSecureLogger(w, verbose), nil
	case logFormatJSON:
		return log.NewSecureJSONLogger(w, verbose), nil
	default:
		return nil, fmt.Errorf("%w: %q", errInvalidLogFormat, format)
	}
}

// getLogFormatFlag retrieves the log format from the command or its parent.
func getLogFormatFlag(cmd *cobra.Command) string {
	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		format, err = cmd.Root().PersistentFlags().GetString("log-format")
		if err != nil {
			return logFormatText
		}
	}
	return format
}
