// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package gazetteer

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func str(v string) sql.Null[string] {
	return sql.Null[string]{V: v, Valid: true}
}

func num(v float64) sql.Null[float64] {
	return sql.Null[float64]{V: v, Valid: true}
}

func located(title, period, region string, x, y float64) Record {
	return Record{
		Title: title,
		Metadata: Metadata{
			AuthorEra: str("（清）佚名"),
			Edition:   str("清刻本"),
			Period:    str(period),
			Region:    str(region),
			X:         num(x),
			Y:         num(y),
			SysID:     str("sys-" + title),
			URI:       str("http://example.org/" + title),
		},
	}
}

func testCatalog() *Catalog {
	return NewCatalog([]Record{
		located("X", "宋", "浙江", 100, 30),
		located("Y", "明", "江蘇", 119.5, 32.1),
		located("（乾隆）湖南通志174卷", "清", "湖南", 112.98, 28.19),
		located("民國杭州府志", "民國", "浙江", 120.15, 30.28),
		{Title: "NoCoords", Metadata: Metadata{Period: str("元"), Region: str("山西")}},
	})
}

func sheetOf(columns []string, rows ...[]string) *Sheet {
	s := &Sheet{Name: "Sheet1", Columns: columns}
	for _, r := range rows {
		s.Rows = append(s.Rows, Row(r))
	}

	return s
}

// writeWorkbookFile writes an xlsx fixture and returns its path.
func writeWorkbookFile(t *testing.T, name string, columns []string, rows [][]any) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, columns, rows))

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	return path
}
