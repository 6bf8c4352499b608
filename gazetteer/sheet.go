// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package gazetteer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is the first worksheet of a workbook: a header row naming the
// columns, then the data rows.
type Sheet struct {
	Name    string
	Columns []string
	Rows    []Row
}

// Row holds the cells of a data row, aligned with Sheet.Columns.
type Row []string

// Index returns the position of a column, or -1.
func (s *Sheet) Index(column string) int {
	for i, c := range s.Columns {
		if c == column {
			return i
		}
	}

	return -1
}

// Cell returns the value of a column in row i, or "" when absent.
func (s *Sheet) Cell(i int, column string) string {
	idx := s.Index(column)
	if idx < 0 || i < 0 || i >= len(s.Rows) {
		return ""
	}

	return s.Rows[i][idx]
}

// ReadSheet parses the first worksheet of an xlsx workbook.
func ReadSheet(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	return readFirstSheet(f)
}

// OpenSheet parses the first worksheet of the xlsx workbook at path.
func OpenSheet(path string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	return readFirstSheet(f)
}

func readFirstSheet(f *excelize.File) (*Sheet, error) {
	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, errors.New("workbook has no worksheets")
	}

	rows, err := f.GetRows(names[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading worksheet %q: %w", names[0], err)
	}

	sheet := &Sheet{Name: names[0]}
	if len(rows) == 0 {
		return sheet, nil
	}

	width := len(rows[0])
	for _, cells := range rows[1:] {
		if n := lastFilled(cells) + 1; n > width {
			width = n
		}
	}

	header := make([]string, width)
	copy(header, rows[0])
	sheet.Columns = headerColumns(header)

	for _, cells := range rows[1:] {
		if lastFilled(cells) < 0 {
			continue
		}

		row := make(Row, width)
		copy(row, cells)
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet, nil
}

// headerColumns names empty headers "Unnamed: <i>" and suffixes repeated
// ones with ".<n>", the same way spreadsheet tooling usually does. Header
// text is otherwise kept exactly as written.
func headerColumns(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))

	for i, name := range header {
		if name == "" {
			name = unnamedColumn(i)
		}

		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}

		columns[i] = name
	}

	return columns
}

func unnamedColumn(i int) string {
	return "Unnamed: " + strconv.Itoa(i)
}

// lastFilled returns the index of the last non-blank cell, or -1.
func lastFilled(cells []string) int {
	for i := len(cells) - 1; i >= 0; i-- {
		if strings.TrimSpace(cells[i]) != "" {
			return i
		}
	}

	return -1
}

// WriteWorkbook writes columns and rows as the single worksheet of an xlsx
// workbook. Nil values are left as empty cells.
func WriteWorkbook(w io.Writer, columns []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}
