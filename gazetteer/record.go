// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package gazetteer

import (
	"database/sql"
	"encoding/json"
	"math"
	"strconv"

	"github.com/jcodagnone/chorography/spatial"
)

// Column names shared by the reference catalog and the enriched sheets.
const (
	ColumnTitle     = "書名"
	ColumnAuthorEra = "時代作者"
	ColumnEdition   = "版本"
	ColumnPeriod    = "時間段"
	ColumnRegion    = "地域"
	ColumnX         = "X"
	ColumnY         = "Y"
	ColumnSysID     = "sys_id"
	ColumnURI       = "uri"
)

// MetadataColumns lists the enrichment columns in the order they are appended.
var MetadataColumns = []string{
	ColumnAuthorEra,
	ColumnEdition,
	ColumnPeriod,
	ColumnRegion,
	ColumnX,
	ColumnY,
	ColumnSysID,
	ColumnURI,
}

// DisplayColumns is the title plus the enrichment columns, as shown under the chart.
var DisplayColumns = append([]string{ColumnTitle}, MetadataColumns...)

// Metadata is what the catalog knows about a gazetteer. Every field may be null.
type Metadata struct {
	AuthorEra sql.Null[string]
	Edition   sql.Null[string]
	Period    sql.Null[string]
	Region    sql.Null[string]
	X         sql.Null[float64]
	Y         sql.Null[float64]
	SysID     sql.Null[string]
	URI       sql.Null[string]
}

// Record is a catalog entry keyed by title.
type Record struct {
	Title string
	Metadata
}

// Era returns the era bucket of the 時間段 label.
func (m Metadata) Era() Era {
	if !m.Period.Valid {
		return EraUnknown
	}

	return ParseEra(m.Period.V)
}

// Point returns the coordinate, if both X and Y are present and finite.
func (m Metadata) Point() (spatial.Point, bool) {
	if !m.X.Valid || !m.Y.Valid || !finite(m.X.V) || !finite(m.Y.V) {
		return spatial.Point{}, false
	}

	return spatial.Point{X: m.X.V, Y: m.Y.V}, true
}

// Value returns the metadata field stored under one of MetadataColumns;
// nil stands for null.
func (m Metadata) Value(column string) any {
	switch column {
	case ColumnAuthorEra:
		return nullable(m.AuthorEra)
	case ColumnEdition:
		return nullable(m.Edition)
	case ColumnPeriod:
		return nullable(m.Period)
	case ColumnRegion:
		return nullable(m.Region)
	case ColumnX:
		return nullable(m.X)
	case ColumnY:
		return nullable(m.Y)
	case ColumnSysID:
		return nullable(m.SysID)
	case ColumnURI:
		return nullable(m.URI)
	}

	return nil
}

func (m Metadata) fields() map[string]any {
	out := make(map[string]any, len(MetadataColumns)+1)
	for _, column := range MetadataColumns {
		out[column] = m.Value(column)
	}

	return out
}

// MarshalJSON writes the metadata keyed by column name, with JSON nulls.
func (m Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.fields())
}

// MarshalJSON writes the record keyed by column name, with JSON nulls.
func (r Record) MarshalJSON() ([]byte, error) {
	out := r.fields()
	out[ColumnTitle] = r.Title

	return json.Marshal(out)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func nullable[T any](v sql.Null[T]) any {
	if !v.Valid {
		return nil
	}

	return v.V
}

// FormatValue renders a cell value for display; null is the empty string.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		b, _ := json.Marshal(x)

		return string(b)
	}
}
