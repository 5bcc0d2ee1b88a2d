package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/nao1215/a11yagg/internal/config"
	"github.com/nao1215/a11yagg/internal/database"
	"github.com/nao1215/a11yagg/internal/dataset"
	"github.com/nao1215/a11yagg/internal/model"
	"github.com/nao1215/a11yagg/internal/pipeline"
	"github.com/nao1215/a11yagg/internal/rank"
	"github.com/nao1215/a11yagg/internal/report"
	"github.com/spf13/cobra"
)

var (
	// errDatasetsFailed is returned when at least one dataset could not be analyzed.
	errDatasetsFailed = errors.New("one or more datasets failed to analyze")

	// errIssueNotFound is returned when --issue names a label absent from a dataset.
	errIssueNotFound = errors.New("issue not found")
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <dataset.csv|glob>...",
		Short: "Analyze accessibility audit results",
		Long: `Analyze reads audit result datasets (CSV) and reports the most frequent
accessibility issues.

Each dataset needs an all_errors column holding the audit messages of a page,
joined with " | ". Messages are normalized to canonical issue labels,
classified into WCAG categories and ranked by number of occurrences.

Examples:
  # Analyze one dataset and print a text report
  a11yagg analyze results.csv

  # Analyze every dataset below audits/ concurrently
  a11yagg analyze 'audits/**/*.csv'

  # Write a Markdown report with the top 20 issues
  a11yagg analyze --markdown --top 20 -o report.md results.csv

  # Show URLs, sample messages and guidance for one issue
  a11yagg analyze --issue "Insufficient color contrast" results.csv

  # Export the priority and breakdown tables
  a11yagg analyze --export-priority priority.csv --export-breakdown breakdown.csv results.csv

  # Save the run to history for later comparison
  a11yagg analyze --save results.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyzeCmd,
	}

	// Report flags
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

	// View flags
	cmd.Flags().StringP("issue", "i", "",
		"Show the detail view of one issue label instead of the report")
	cmd.Flags().IntP("top", "n", config.DefaultTopN,
		"Number of issues in the priority table")
	cmd.Flags().Int("chart-top", config.DefaultChartN,
		"Number of issues in the chart view")
	cmd.Flags().Int("samples", config.DefaultSampleLimit,
		"Distinct sample messages kept per issue (the --issue view shows at most 3)")
	cmd.Flags().Int("recommendations", config.DefaultRecommendationN,
		"Number of top issues that get remediation steps")

	// Export flags
	cmd.Flags().String("export-priority", "",
		"Write the full priority table as CSV")
	cmd.Flags().String("export-breakdown", "",
		"Write one CSV row per raw error with its label and category")

	// Dataset flags
	cmd.Flags().String("url-column", config.DefaultURLColumn,
		"Name of the URL column")
	cmd.Flags().String("errors-column", config.DefaultErrorsColumn,
		"Name of the column holding the joined error messages")

	// Processing flags
	cmd.Flags().Int("shards", config.DefaultShards,
		"Split aggregation of each dataset across this many goroutines")
	cmd.Flags().IntP("concurrency", "c", config.DefaultConcurrency,
		"Number of datasets analyzed at once")

	// History flags
	cmd.Flags().Bool("save", false,
		"Save the analysis to the history database")
	cmd.Flags().String("db", "",
		"History database directory (default: XDG data directory)")

	// Configuration file
	cmd.Flags().String("config", "",
		"Configuration file path (default: .a11yagg in current or home directory)")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, err := newLogger(os.Stderr, getLogFormatFlag(cmd), cfg.Verbose)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runAnalyze(ctx, cfg, logger, cmd.OutOrStdout())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the configuration file (with
// environment overrides) and finally the flags the user actually set.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Targets = args

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit path must exist; otherwise a missing file just means the
	// environment alone is layered over the defaults.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath == "" && cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}
	file, err := config.LoadConfigFile(configPath)
	if err != nil {
		return nil, err
	}
	file.Apply(cfg)

	flags := cmd.Flags()
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"output", &cfg.ReportFile},
		{"issue", &cfg.IssueLabel},
		{"export-priority", &cfg.ExportPriority},
		{"export-breakdown", &cfg.ExportBreakdown},
		{"url-column", &cfg.URLColumn},
		{"errors-column", &cfg.ErrorsColumn},
		{"db", &cfg.DBDir},
	} {
		if flags.Changed(f.name) {
			if *f.dst, err = flags.GetString(f.name); err != nil {
				return nil, err
			}
		}
	}

	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"top", &cfg.TopN},
		{"chart-top", &cfg.ChartN},
		{"samples", &cfg.SampleLimit},
		{"recommendations", &cfg.RecommendationN},
		{"shards", &cfg.Shards},
		{"concurrency", &cfg.Concurrency},
	} {
		if flags.Changed(f.name) {
			if *f.dst, err = flags.GetInt(f.name); err != nil {
				return nil, err
			}
		}
	}

	for _, f := range []struct {
		name string
		dst  *bool
	}{
		{"json", &cfg.JSONReport},
		{"markdown", &cfg.MarkdownReport},
		{"html", &cfg.HTMLReport},
		{"save", &cfg.SaveToDB},
		{"no-color", &cfg.NoColor},
	} {
		if flags.Changed(f.name) {
			if *f.dst, err = flags.GetBool(f.name); err != nil {
				return nil, err
			}
		}
	}

	return cfg, nil
}

// settingsFromConfig builds the per-dataset pipeline settings.
func settingsFromConfig(cfg *config.Config) (pipeline.Settings, error) {
	normalizer, err := cfg.Normalizer()
	if err != nil {
		return pipeline.Settings{}, fmt.Errorf("configuration error: %w", err)
	}

	return pipeline.Settings{
		Columns: dataset.Options{
			URLColumn:    cfg.URLColumn,
			ErrorsColumn: cfg.ErrorsColumn,
			StatusColumn: cfg.StatusColumn,
		},
		Normalizer:    normalizer,
		SampleLimit:   cfg.SampleLimit,
		Shards:        cfg.Shards,
		KeepBreakdown: cfg.ExportBreakdown != "",
	}, nil
}

// runAnalyze analyzes every dataset named by cfg.Targets and writes the
// requested outputs. Datasets are analyzed concurrently; outputs are written
// in argument order.
func runAnalyze(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	paths, err := dataset.Expand(cfg.Targets)
	if err != nil {
		return err
	}

	settings, err := settingsFromConfig(cfg)
	if err != nil {
		return err
	}

	var db *database.AnalysisDB
	if cfg.SaveToDB {
		lock, err := database.AcquireLock(cfg.DBDir)
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("failed to release history lock", "path", lock.Path(), "error", err)
			}
		}()

		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Debug("database opened", "dir", cfg.DBDir)
	}

	logger.Debug("starting analysis",
		"datasets", len(paths),
		"concurrency", cfg.Concurrency,
		"shards", cfg.Shards,
		"saveToDB", cfg.SaveToDB,
	)
	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.NewAnalysisPipeline(settings, pipeline.WithLogger(logger))
		},
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithBatchLogger(logger),
	)

	reports, err := bp.ProcessBatch(ctx, paths)
	if err != nil {
		return err
	}

	logger.Debug("analysis complete", "elapsed", time.Since(startTime))

	multi := len(reports) > 1
	var failed, missing int
	for _, r := range reports {
		if r.Error != "" {
			failed++
			fmt.Fprintf(os.Stderr, "Analysis error for %s: %s\n", r.Source, r.Error)
			continue
		}

		if err := outputResults(cfg, r, stdout, multi); err != nil {
			if !errors.Is(err, errIssueNotFound) {
				return err
			}
			missing++
			fmt.Fprintln(os.Stderr, err)
		}

		if db != nil {
			if _, err := db.SaveReport(ctx, r); err != nil {
				logger.Error("failed to save analysis", "dataset", r.Dataset, "error", err)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errDatasetsFailed, failed, len(reports))
	}
	if missing == len(reports) {
		return fmt.Errorf("%w: %q", errIssueNotFound, cfg.IssueLabel)
	}
	return nil
}

// outputResults writes the report (or detail view) and the CSV exports of
// one analyzed dataset.
func outputResults(cfg *config.Config, r *model.AnalysisReport, stdout io.Writer, multi bool) error {
	if cfg.ExportPriority != "" {
		path := datasetPath(cfg.ExportPriority, r.Dataset, multi)
		if err := writeFile(path, func(w io.Writer) error {
			return report.WritePriorityCSV(w, r.Issues)
		}); err != nil {
			return fmt.Errorf("failed to export priority table: %w", err)
		}
	}

	if cfg.ExportBreakdown != "" {
		path := datasetPath(cfg.ExportBreakdown, r.Dataset, multi)
		if err := writeFile(path, func(w io.Writer) error {
			return report.WriteBreakdownCSV(w, r.Breakdown)
		}); err != nil {
			return fmt.Errorf("failed to export breakdown table: %w", err)
		}
	}

	render := func(w io.Writer) error {
		if cfg.IssueLabel != "" {
			return writeIssueDetail(cfg, r, w)
		}
		_, err := newReportWriter(cfg, w).Write(r)
		return err
	}

	if cfg.ReportFile != "" {
		return writeFile(datasetPath(cfg.ReportFile, r.Dataset, multi), render)
	}
	return render(stdout)
}

// writeIssueDetail writes the detail view for cfg.IssueLabel.
func writeIssueDetail(cfg *config.Config, r *model.AnalysisReport, w io.Writer) error {
	detail, ok := rank.Detail(r.Stats, cfg.IssueLabel, cfg.GuidanceTable())
	if !ok {
		return fmt.Errorf("%w in %s: %q", errIssueNotFound, r.Dataset, cfg.IssueLabel)
	}
	_, err := report.WriteDetail(w, detail)
	return err
}

// newReportWriter returns the writer for the configured format.
func newReportWriter(cfg *config.Config, w io.Writer) report.Writer {
	opts := report.Options{
		TopN:            cfg.TopN,
		ChartN:          cfg.ChartN,
		RecommendationN: cfg.RecommendationN,
		Guidance:        cfg.GuidanceTable(),
	}

	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(w,
			report.WithPrettyPrint(),
			report.WithVersion(getVersion()),
			report.WithJSONOptions(opts),
		)
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w, opts)
	case cfg.HTMLReport:
		return report.NewHTMLWriter(w, opts)
	default:
		return report.NewSimpleWriter(w,
			report.WithSimpleOptions(opts),
			report.WithColor(report.ColorEnabled(w, cfg.NoColor)),
			report.WithVerbose(cfg.Verbose),
		)
	}
}

// datasetPath returns path unchanged for a single dataset. With several
// datasets the dataset name is inserted before the extension so each gets
// its own file.
func datasetPath(path, name string, multi bool) string {
	if !multi {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + name + ext
}

// writeFile creates path (and its directories) and passes it to write.
// Reports may quote page content, so files are readable by the owner only.
func writeFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // output path is user-provided
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
