package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/a11yagg/internal/log"
	"github.com/nao1215/a11yagg/internal/model"
)

// writeCSV writes an audit CSV into dir and returns its path.
func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

const batchCSV = `URL,pa11y_errors,all_errors
https://example.com/,1,This element has insufficient contrast. Expected ratio of at least 4.5:1
`

// TestBatchProcessorNew tests the BatchProcessor constructor.
func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	t.Run("creates processor with defaults", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })

		if bp == nil {
			t.Fatal("expected non-nil processor")
		}
		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected default concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
	})

	t.Run("applies WithConcurrency option", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(2))

		if bp.concurrency != 2 {
			t.Errorf("expected concurrency 2, got %d", bp.concurrency)
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(0))

		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
	})

	t.Run("applies WithBatchLogger option", func(t *testing.T) {
		t.Parallel()

		logger := log.NewSecureLogger(io.Discard, false)
		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithBatchLogger(logger))

		if bp.logger != logger {
			t.Error("expected custom logger to be set")
		}
	})
}

// TestProcessBatch tests batch analysis of dataset files.
func TestProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("returns reports in input order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		paths := []string{
			writeCSV(t, dir, "first.csv", batchCSV),
			writeCSV(t, dir, "second.csv", batchCSV),
			writeCSV(t, dir, "third.csv", batchCSV),
		}

		bp := NewBatchProcessor(func() *Pipeline {
			return NewAnalysisPipeline(DefaultSettings())
		}, WithConcurrency(2))

		reports, err := bp.ProcessBatch(context.Background(), paths)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(reports) != 3 {
			t.Fatalf("expected 3 reports, got %d", len(reports))
		}

		want := []string{"first", "second", "third"}
		for i, r := range reports {
			if r.Dataset != want[i] {
				t.Errorf("report %d: expected dataset %q, got %q", i, want[i], r.Dataset)
			}
			if r.Error != "" {
				t.Errorf("report %d: unexpected error %q", i, r.Error)
			}
			if _, ok := issueByLabel(r, model.LabelContrast); !ok {
				t.Errorf("report %d: expected contrast issue", i)
			}
		}
	})

	t.Run("same base name in different directories", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		for _, sub := range []string{"x", "y"} {
			if err := os.MkdirAll(filepath.Join(dir, sub), 0750); err != nil {
				t.Fatalf("failed to create %s: %v", sub, err)
			}
		}
		paths := []string{
			writeCSV(t, dir, filepath.Join("x", "site.csv"), batchCSV),
			writeCSV(t, dir, filepath.Join("y", "site.csv"), batchCSV),
		}

		bp := NewBatchProcessor(func() *Pipeline {
			return NewAnalysisPipeline(DefaultSettings())
		})

		reports, err := bp.ProcessBatch(context.Background(), paths)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reports[0].Dataset != "x-site" || reports[1].Dataset != "y-site" {
			t.Errorf("expected datasets x-site and y-site, got %q and %q", reports[0].Dataset, reports[1].Dataset)
		}
	})

	t.Run("records per-dataset failures without stopping", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		paths := []string{
			writeCSV(t, dir, "good.csv", batchCSV),
			writeCSV(t, dir, "bad.csv", "URL,pa11y_errors\nhttps://example.com/,0\n"),
		}

		bp := NewBatchProcessor(func() *Pipeline {
			return NewAnalysisPipeline(DefaultSettings())
		})

		reports, err := bp.ProcessBatch(context.Background(), paths)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reports[0].Error != "" {
			t.Errorf("expected first dataset to succeed, got %q", reports[0].Error)
		}
		if reports[1].Error == "" {
			t.Error("expected second dataset to record an error")
		}
	})

	t.Run("respects cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })

		_, err := bp.ProcessBatch(ctx, []string{"a.csv", "b.csv"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
