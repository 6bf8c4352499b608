// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package gazetteer

import (
	"database/sql"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Catalog is the read-only reference index of gazetteers keyed by title.
// It is loaded once and shared by every request.
type Catalog struct {
	records map[string]Record
	folded  map[string]string // foldTitle(title) -> title
}

type catalogOptions struct {
	progress func(done, total int)
}

// CatalogOption configures LoadCatalog.
type CatalogOption func(*catalogOptions)

// WithProgress reports the number of catalog rows processed.
func WithProgress(fn func(done, total int)) CatalogOption {
	return func(o *catalogOptions) {
		o.progress = fn
	}
}

// LoadCatalog reads the reference workbook at path. The first worksheet
// must carry the 書名 column and every metadata column.
func LoadCatalog(path string, opts ...CatalogOption) (*Catalog, error) {
	var o catalogOptions
	for _, opt := range opts {
		opt(&o)
	}

	sheet, err := OpenSheet(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	records, err := parseCatalog(sheet, o.progress)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}

	return NewCatalog(records), nil
}

func parseCatalog(sheet *Sheet, progress func(done, total int)) ([]Record, error) {
	var missing []string

	for _, column := range DisplayColumns {
		if sheet.Index(column) < 0 {
			missing = append(missing, column)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns %s", strings.Join(missing, ", "))
	}

	text := func(row Row, column string) sql.Null[string] {
		v := row[sheet.Index(column)]
		if strings.TrimSpace(v) == "" {
			return sql.Null[string]{}
		}

		return sql.Null[string]{V: v, Valid: true}
	}

	number := func(row Row, column string, line int) (sql.Null[float64], error) {
		v := strings.TrimSpace(row[sheet.Index(column)])
		if v == "" {
			return sql.Null[float64]{}, nil
		}

		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return sql.Null[float64]{}, fmt.Errorf("row %d: parsing %s %q: %w", line, column, v, err)
		}

		if !finite(f) {
			return sql.Null[float64]{}, fmt.Errorf("row %d: %s %q is not a finite number", line, column, v)
		}

		return sql.Null[float64]{V: f, Valid: true}, nil
	}

	records := make([]Record, 0, len(sheet.Rows))
	titleIdx := sheet.Index(ColumnTitle)

	for i, row := range sheet.Rows {
		line := i + 2 // header is row 1

		if progress != nil {
			progress(i+1, len(sheet.Rows))
		}

		title := row[titleIdx]
		if strings.TrimSpace(title) == "" {
			continue
		}

		x, err := number(row, ColumnX, line)
		if err != nil {
			return nil, err
		}

		y, err := number(row, ColumnY, line)
		if err != nil {
			return nil, err
		}

		records = append(records, Record{
			Title: title,
			Metadata: Metadata{
				AuthorEra: text(row, ColumnAuthorEra),
				Edition:   text(row, ColumnEdition),
				Period:    text(row, ColumnPeriod),
				Region:    text(row, ColumnRegion),
				X:         x,
				Y:         y,
				SysID:     text(row, ColumnSysID),
				URI:       text(row, ColumnURI),
			},
		})
	}

	return records, nil
}

// NewCatalog indexes records by title. When a title repeats, the last
// record wins.
func NewCatalog(records []Record) *Catalog {
	c := &Catalog{
		records: make(map[string]Record, len(records)),
		folded:  make(map[string]string, len(records)),
	}

	for _, r := range records {
		c.records[r.Title] = r
	}

	titles := make([]string, 0, len(c.records))
	for title := range c.records {
		titles = append(titles, title)
	}

	slices.Sort(titles)

	for _, title := range titles {
		key := foldTitle(title)
		if _, ok := c.folded[key]; !ok {
			c.folded[key] = title
		}
	}

	return c
}

// Lookup finds a gazetteer by its exact title: no case, width or
// whitespace folding is applied.
func (c *Catalog) Lookup(title string) (Record, bool) {
	r, ok := c.records[title]

	return r, ok
}

// Len returns the number of gazetteers in the catalog.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Records returns every catalog record sorted by title.
func (c *Catalog) Records() []Record {
	records := make([]Record, 0, len(c.records))
	for _, r := range c.records {
		records = append(records, r)
	}

	slices.SortFunc(records, func(a, b Record) int {
		return strings.Compare(a.Title, b.Title)
	})

	return records
}

// Suggest returns the catalog title that differs from title only by width,
// compatibility forms or whitespace. It is only a hint for the user:
// Lookup never uses it.
func (c *Catalog) Suggest(title string) (string, bool) {
	if _, ok := c.records[title]; ok {
		return "", false
	}

	s, ok := c.folded[foldTitle(title)]

	return s, ok
}
