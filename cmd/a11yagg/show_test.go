package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/a11yagg/internal/model"
)

// executeShow runs the show command and returns its output.
func executeShow(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewShowCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestNewShowCmd(t *testing.T) {
	t.Parallel()

	cmd := NewShowCmd()
	if cmd.Use != "show <dataset>" {
		t.Errorf("unexpected use %q", cmd.Use)
	}
	for _, name := range []string{"run", "json", "markdown", "html", "output", "no-color", "top", "chart-top", "recommendations", "db"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected %s flag", name)
		}
	}
	if err := cmd.Args(cmd, nil); err == nil {
		t.Error("expected error without dataset argument")
	}
}

func TestRunShowCmd(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	first := createTestReport("run-1", base, newRankedIssue(model.LabelContrast, 4, 2))
	second := createTestReport("run-2", base.Add(24*time.Hour),
		newRankedIssue(model.LabelContrast, 2, 1),
		newRankedIssue(model.LabelImageAlt, 1, 1),
	)

	t.Run("latest run", func(t *testing.T) {
		t.Parallel()
		dbDir := seedHistory(t, first, second)

		out, err := executeShow(t, "--db", dbDir, "--no-color", "results")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"Dataset:        results", "Run ID:         run-2", model.LabelImageAlt} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("run by row id", func(t *testing.T) {
		t.Parallel()
		dbDir := seedHistory(t, first, second)

		out, err := executeShow(t, "--db", dbDir, "--no-color", "--run", "1", "results")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Run ID:         run-1") || strings.Contains(out, model.LabelImageAlt) {
			t.Errorf("expected run-1 report, got:\n%s", out)
		}
	})

	t.Run("run by run id as json", func(t *testing.T) {
		t.Parallel()
		dbDir := seedHistory(t, first, second)

		out, err := executeShow(t, "--db", dbDir, "--json", "--run", "run-1", "results")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var decoded struct {
			Report model.AnalysisReport `json:"report"`
		}
		if err := json.Unmarshal([]byte(out), &decoded); err != nil {
			t.Fatalf("invalid JSON output: %v", err)
		}
		if decoded.Report.RunID != "run-1" || len(decoded.Report.Issues) != 1 {
			t.Errorf("unexpected report: %+v", decoded.Report)
		}
	})

	t.Run("markdown to file", func(t *testing.T) {
		t.Parallel()
		dbDir := seedHistory(t, first, second)
		path := filepath.Join(t.TempDir(), "out", "report.md")

		if _, err := executeShow(t, "--db", dbDir, "--markdown", "-o", path, "results"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, err := os.ReadFile(path) //nolint:gosec // test file
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(data), "# Accessibility Error Analysis") {
			t.Errorf("unexpected markdown:\n%s", data)
		}
	})

	t.Run("run of another dataset", func(t *testing.T) {
		t.Parallel()
		other := createTestReport("run-x", base, newRankedIssue(model.LabelContrast, 1, 1))
		other.Dataset = "other"
		dbDir := seedHistory(t, first, other)

		_, err := executeShow(t, "--db", dbDir, "--run", "run-x", "results")
		if err == nil || !strings.Contains(err.Error(), "not found in the history of results") {
			t.Errorf("expected error for foreign run, got %v", err)
		}
	})

	t.Run("unknown dataset", func(t *testing.T) {
		t.Parallel()
		dbDir := seedHistory(t, first)

		_, err := executeShow(t, "--db", dbDir, "other")
		if err == nil || !strings.Contains(err.Error(), "no run history found for other") {
			t.Errorf("expected error for dataset without history, got %v", err)
		}
	})

	t.Run("conflicting formats", func(t *testing.T) {
		t.Parallel()
		_, err := executeShow(t, "--db", t.TempDir(), "--json", "--html", "results")
		if err == nil {
			t.Error("expected error for conflicting formats")
		}
	})
}
