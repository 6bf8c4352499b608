// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package gazetteer

import (
	"io"
	"slices"
)

// MissingTitleWarning is shown when an uploaded sheet has no 書名 column.
const MissingTitleWarning = "xlsx文件中需要有“書名”列！"

// EnrichedRow is an uploaded row with the catalog metadata of its title.
type EnrichedRow struct {
	Cells Row
	Record
	Matched bool
}

// Enriched is an uploaded sheet joined against the catalog.
type Enriched struct {
	Sheet *Sheet
	Rows  []EnrichedRow

	titled bool
}

// Enrich looks up every row title in the catalog. Unmatched titles get null
// metadata; no row is dropped and the row order is kept. When the sheet has
// no 書名 column it is returned unchanged and the second result is false.
func Enrich(sheet *Sheet, catalog *Catalog) (*Enriched, bool) {
	e := &Enriched{Sheet: sheet, Rows: make([]EnrichedRow, len(sheet.Rows))}

	titleIdx := sheet.Index(ColumnTitle)
	if titleIdx < 0 {
		for i, row := range sheet.Rows {
			e.Rows[i] = EnrichedRow{Cells: row}
		}

		return e, false
	}

	e.titled = true

	for i, row := range sheet.Rows {
		title := row[titleIdx]
		record, ok := catalog.Lookup(title)

		e.Rows[i] = EnrichedRow{
			Cells:   row,
			Record:  Record{Title: title, Metadata: record.Metadata},
			Matched: ok,
		}
	}

	return e, true
}

// Titled reports whether the sheet had a 書名 column and was enriched.
func (e *Enriched) Titled() bool {
	return e.titled
}

// Columns returns the uploaded columns followed by the metadata columns
// the upload did not already have. A metadata column already present in
// the upload is replaced in place.
func (e *Enriched) Columns() []string {
	columns := slices.Clone(e.Sheet.Columns)
	if !e.titled {
		return columns
	}

	for _, c := range MetadataColumns {
		if e.Sheet.Index(c) < 0 {
			columns = append(columns, c)
		}
	}

	return columns
}

// Values returns row i aligned with Columns; nil stands for null.
func (e *Enriched) Values(i int) []any {
	columns := e.Columns()
	row := e.Rows[i]

	values := make([]any, len(columns))
	for j, c := range columns {
		values[j] = e.value(row, j, c)
	}

	return values
}

func (e *Enriched) value(row EnrichedRow, j int, column string) any {
	if e.titled && slices.Contains(MetadataColumns, column) {
		return row.Value(column)
	}

	if j < len(row.Cells) {
		return row.Cells[j]
	}

	return nil
}

// Display returns the 書名 and metadata cells of every row, formatted for
// the table under the chart. Duplicated titles are all listed.
func (e *Enriched) Display() [][]string {
	out := make([][]string, len(e.Rows))
	for i, row := range e.Rows {
		cells := make([]string, 0, len(DisplayColumns))
		cells = append(cells, row.Title)

		for _, c := range MetadataColumns {
			cells = append(cells, FormatValue(row.Value(c)))
		}

		out[i] = cells
	}

	return out
}

// WriteXLSX writes the enriched sheet, every column included, as a workbook.
func (e *Enriched) WriteXLSX(w io.Writer) error {
	rows := make([][]any, len(e.Rows))
	for i := range e.Rows {
		rows[i] = e.Values(i)
	}

	return WriteWorkbook(w, e.Columns(), rows)
}

// MissingTitle is a distinct unmatched title with an optional hint.
type MissingTitle struct {
	Title      string `json:"title"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Summary counts how the upload matched the catalog.
type Summary struct {
	Rows      int            `json:"rows"`
	Matched   int            `json:"matched"`
	Unmatched int            `json:"unmatched"`
	Missing   []MissingTitle `json:"missing,omitempty"`
}

// Summarize counts matched and unmatched rows and lists the distinct
// unmatched titles, in upload order, with the catalog title they were
// probably meant to be.
func (e *Enriched) Summarize(catalog *Catalog) Summary {
	s := Summary{Rows: len(e.Rows)}
	seen := make(map[string]bool)

	for _, row := range e.Rows {
		if row.Matched {
			s.Matched++

			continue
		}

		s.Unmatched++

		if !e.titled || row.Title == "" || seen[row.Title] {
			continue
		}

		seen[row.Title] = true
		suggestion, _ := catalog.Suggest(row.Title)
		s.Missing = append(s.Missing, MissingTitle{Title: row.Title, Suggestion: suggestion})
	}

	return s
}
