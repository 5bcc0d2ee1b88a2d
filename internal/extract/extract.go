package extract

import (
	"strings"

	"github.com/nao1215/a11yagg/internal/model"
)

// Delimiter joins individual messages in the all_errors column.
const Delimiter = " | "

// missingMarkers are cell values that spreadsheet and dataframe exports
// write for an absent value.
var missingMarkers = map[string]struct{}{
	"nan":  {},
	"none": {},
	"null": {},
	"<na>": {},
	"n/a":  {},
}

// IsMissing reports whether a cell should be treated as having no value.
func IsMissing(field string) bool {
	trimmed := strings.TrimSpace(field)
	if trimmed == "" {
		return true
	}
	_, ok := missingMarkers[strings.ToLower(trimmed)]
	return ok
}

// SplitErrors splits a composite error field into trimmed, non-empty messages.
// The returned slice is never nil.
func SplitErrors(field string) []string {
	if IsMissing(field) {
		return []string{}
	}

	pieces := strings.Split(field, Delimiter)
	errs := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		errs = append(errs, piece)
	}
	return errs
}

// Records returns one RawErrorRecord per message in the row.
func Records(row model.Row) []model.RawErrorRecord {
	messages := SplitErrors(row.AllErrors)
	records := make([]model.RawErrorRecord, 0, len(messages))
	for _, msg := range messages {
		records = append(records, model.RawErrorRecord{
			SourceURL: row.URL,
			RawText:   msg,
		})
	}
	return records
}

// FromDataset extracts records from every row in input order.
func FromDataset(ds *model.Dataset) []model.RawErrorRecord {
	var records []model.RawErrorRecord
	for _, row := range ds.Rows {
		records = append(records, Records(row)...)
	}
	if records == nil {
		return []model.RawErrorRecord{}
	}
	return records
}
