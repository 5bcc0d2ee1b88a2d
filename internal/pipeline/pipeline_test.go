package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/a11yagg/internal/log"
	"github.com/nao1215/a11yagg/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, report *model.AnalysisReport) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, report *model.AnalysisReport) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, report)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

// createTestReport returns an empty report for pipeline tests.
func createTestReport() *model.AnalysisReport {
	return model.NewAnalysisReport("run-1", "test", "")
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()
		p := New()
		if p == nil {
			t.Fatal("expected non-nil pipeline")
		}
		if len(p.steps) != 0 {
			t.Errorf("expected 0 steps, got %d", len(p.steps))
		}
	})
}

// TestPipelineAddSteps tests adding steps to the pipeline.
func TestPipelineAddSteps(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddSteps(&mockStep{name: "first"})
	p.AddSteps(&mockStep{name: "second"}, &mockStep{name: "third"})

	if len(p.steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(p.steps))
	}

	expected := []string{"first", "second", "third"}
	for i, step := range p.steps {
		if step.Name() != expected[i] {
			t.Errorf("step %d: got %q, expected %q", i, step.Name(), expected[i])
		}
	}
}

// TestPipelineExecute tests pipeline execution.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes all steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		p := New()
		for _, name := range []string{"a", "b", "c"} {
			p.AddSteps(&mockStep{name: name, doFunc: func(_ context.Context, _ *model.AnalysisReport) error {
				order = append(order, name)
				return nil
			}})
		}

		report := createTestReport()
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Join(order, ",") != "a,b,c" {
			t.Errorf("unexpected order %v", order)
		}
		if strings.Join(report.StepsRun, ",") != "a,b,c" {
			t.Errorf("unexpected steps run %v", report.StepsRun)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		errBoom := errors.New("boom")
		failing := &mockStep{name: "failing", doFunc: func(_ context.Context, _ *model.AnalysisReport) error {
			return errBoom
		}}
		after := &mockStep{name: "after"}

		p := New()
		p.AddSteps(failing, after)

		report := createTestReport()
		err := p.Execute(context.Background(), report)
		if !errors.Is(err, errBoom) {
			t.Fatalf("expected errBoom, got %v", err)
		}
		if after.callCount != 0 {
			t.Error("expected later step not to run")
		}
		if report.Error != "boom" {
			t.Errorf("expected error recorded on report, got %q", report.Error)
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "never"}
		p := New()
		p.AddSteps(step)

		report := createTestReport()
		if err := p.Execute(ctx, report); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("expected step not to run after cancellation")
		}
	})
}

// TestPipelineWithLogger tests that the pipeline logs through the given logger.
func TestPipelineWithLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.NewSecureLogger(&buf, true)

	p := New(WithLogger(logger))
	p.AddSteps(&mockStep{name: "logged-step"})

	if err := p.Execute(context.Background(), createTestReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "logged-step") {
		t.Errorf("expected step name in log output, got: %s", buf.String())
	}
}

// TestNewAnalysisPipeline tests the standard step list.
func TestNewAnalysisPipeline(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, t.TempDir(), "audit.csv", batchCSV)
	report := model.NewAnalysisReport("run-1", "audit", path)

	p := NewAnalysisPipeline(DefaultSettings())
	if err := p.Execute(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"load", "extract", "classify", "aggregate", "rank"}
	if strings.Join(report.StepsRun, ",") != strings.Join(expected, ",") {
		t.Errorf("expected steps %v, got %v", expected, report.StepsRun)
	}
}
