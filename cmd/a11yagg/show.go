package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/a11yagg/internal/config"
	"github.com/nao1215/a11yagg/internal/database"
	"github.com/nao1215/a11yagg/internal/model"
	"github.com/spf13/cobra"
)

// NewShowCmd creates the show command.
// This command renders a report stored in the history database.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <dataset>",
		Short: "Show a saved analysis report",
		Long: `Show renders a report saved by 'a11yagg analyze --save' without
re-reading the audited dataset.

The latest run of the dataset is shown unless --run selects another one.
Per-issue detail views need the raw messages and are only available from
'a11yagg analyze --issue'.

Examples:
  # Show the latest saved report of results.csv
  a11yagg show results

  # Show a specific run (row ID or run ID, see 'a11yagg compare --list')
  a11yagg show --run 3 results

  # Write a saved run as HTML
  a11yagg show --html -o report.html results`,
		Args: cobra.ExactArgs(1),
		RunE: runShowCmd,
	}

	cmd.Flags().StringP("run", "r", "",
		"Show a specific run by row ID or run ID instead of the latest")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown and --html)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json and --html)")
	cmd.Flags().Bool("html", false,
		"Output HTML report (mutually exclusive with --json and --markdown)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-color", false,
		"Disable coloured text output")

	cmd.Flags().IntP("top", "n", config.DefaultTopN,
		"Number of issues in the priority table")
	cmd.Flags().Int("chart-top", config.DefaultChartN,
		"Number of issues in the chart view")
	cmd.Flags().Int("recommendations", config.DefaultRecommendationN,
		"Number of top issues that get remediation steps")

	cmd.Flags().String("db", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// runShowCmd executes the show command.
func runShowCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildShowConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	runRef, err := cmd.Flags().GetString("run")
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	r, err := loadReport(context.Background(), db, args[0], runRef)
	if err != nil {
		return err
	}

	render := func(w io.Writer) error {
		_, err := newReportWriter(cfg, w).Write(r)
		return err
	}
	if cfg.ReportFile != "" {
		return writeFile(cfg.ReportFile, render)
	}
	return render(cmd.OutOrStdout())
}

// buildShowConfig maps the show flags onto a Config.
func buildShowConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Targets = args

	var err error
	flags := cmd.Flags()
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.HTMLReport, err = flags.GetBool("html"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.NoColor, err = flags.GetBool("no-color"); err != nil {
		return nil, err
	}
	if cfg.TopN, err = flags.GetInt("top"); err != nil {
		return nil, err
	}
	if cfg.ChartN, err = flags.GetInt("chart-top"); err != nil {
		return nil, err
	}
	if cfg.RecommendationN, err = flags.GetInt("recommendations"); err != nil {
		return nil, err
	}

	dbDir, err := flags.GetString("db")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}
	return cfg, nil
}

// loadReport returns the stored report selected by runRef, or the latest
// report of datasetName when runRef is empty.
func loadReport(ctx context.Context, db *database.AnalysisDB, datasetName, runRef string) (*model.AnalysisReport, error) {
	var (
		r   *model.AnalysisReport
		err error
	)
	switch id, convErr := strconv.ParseInt(runRef, 10, 64); {
	case runRef == "":
		r, err = db.GetLatestReport(ctx, datasetName)
	case convErr == nil:
		r, err = db.GetReportByID(ctx, id)
	default:
		r, err = db.GetReportByRunID(ctx, runRef)
	}
	if err != nil {
		return nil, err
	}

	if r == nil || r.Dataset != datasetName {
		if runRef == "" {
			return nil, fmt.Errorf("no run history found for %s", datasetName)
		}
		return nil, fmt.Errorf("run %s not found in the history of %s", runRef, datasetName)
	}
	return r, nil
}
