package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/a11yagg/internal/model"
)

// Default column names written by the audit runner.
const (
	DefaultURLColumn    = "URL"
	DefaultErrorsColumn = "all_errors"
	DefaultStatusColumn = "pa11y_errors"
)

// utf8BOM is stripped from the first header cell.
const utf8BOM = "\ufeff"

// Options selects the columns to read.
type Options struct {
	URLColumn    string
	ErrorsColumn string
	StatusColumn string
}

// DefaultOptions returns the runner's column names.
func DefaultOptions() Options {
	return Options{
		URLColumn:    DefaultURLColumn,
		ErrorsColumn: DefaultErrorsColumn,
		StatusColumn: DefaultStatusColumn,
	}
}

// Load reads the CSV file at path.
func Load(path string, opts Options) (*model.Dataset, error) {
	f, err := os.Open(path) //nolint:gosec // dataset path is user-provided by design
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	ds, err := Read(f, Name(path), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ds.Source = path
	return ds, nil
}

// Name derives a dataset name from a file path: the base name without extension.
func Name(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Read parses CSV data from r. The header is validated before any data row
// is consumed.
func Read(r io.Reader, name string, opts Options) (*model.Dataset, error) {
	if opts.ErrorsColumn == "" {
		opts.ErrorsColumn = DefaultErrorsColumn
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := indexColumns(header)
	errorsIdx, ok := columns[opts.ErrorsColumn]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, opts.ErrorsColumn)
	}
	urlIdx, hasURL := columns[opts.URLColumn]
	statusIdx, hasStatus := columns[opts.StatusColumn]

	ds := &model.Dataset{Name: name, Rows: []model.Row{}}
	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}
		if isBlankRecord(record) {
			line--
			continue
		}

		row := model.Row{
			Index:     line,
			AllErrors: cell(record, errorsIdx),
		}
		if hasURL {
			row.URL = strings.TrimSpace(cell(record, urlIdx))
		}
		if row.URL == "" {
			row.URL = fmt.Sprintf("Row %d", line)
		}
		if hasStatus {
			row.Status = model.ParseAuditStatus(cell(record, statusIdx))
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds, nil
}

// indexColumns maps trimmed header names to their positions. The first
// occurrence of a repeated name wins.
func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		if _, exists := columns[name]; !exists {
			columns[name] = i
		}
	}
	return columns
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
