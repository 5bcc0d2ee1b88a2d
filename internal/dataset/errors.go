package dataset

import "errors"

var (
	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("dataset is missing required column")

	// ErrEmptyDataset is returned when the input has no header row.
	ErrEmptyDataset = errors.New("dataset is empty: no header row")

	// ErrNoDatasets is returned when argument expansion matches no files.
	ErrNoDatasets = errors.New("no dataset files matched")
)
