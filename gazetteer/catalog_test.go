// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package gazetteer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogRow(title, period string, x, y any) []any {
	return []any{title, "（清）佚名", "清刻本", period, "湖南", x, y, "sys-" + title, "http://example.org/" + title}
}

func TestLoadCatalog(t *testing.T) {
	path := writeWorkbookFile(t, "catalog.xlsx", DisplayColumns, [][]any{
		catalogRow("（乾隆）湖南通志174卷", "清", 112.98, 28.19),
		catalogRow("X", "宋", 100.0, 30.0),
		catalogRow("NoCoords", "元", nil, nil),
		catalogRow("", "明", 1.0, 1.0),
		catalogRow("X", "明", 101.0, 31.0),
	})

	var calls, lastDone, lastTotal int

	catalog, err := LoadCatalog(path, WithProgress(func(done, total int) {
		calls++
		lastDone, lastTotal = done, total
	}))
	require.NoError(t, err)

	assert.Equal(t, 5, calls)
	assert.Equal(t, 5, lastDone)
	assert.Equal(t, 5, lastTotal)

	assert.Equal(t, 3, catalog.Len())

	rec, ok := catalog.Lookup("（乾隆）湖南通志174卷")
	require.True(t, ok)

	want := Metadata{
		AuthorEra: str("（清）佚名"),
		Edition:   str("清刻本"),
		Period:    str("清"),
		Region:    str("湖南"),
		X:         num(112.98),
		Y:         num(28.19),
		SysID:     str("sys-（乾隆）湖南通志174卷"),
		URI:       str("http://example.org/（乾隆）湖南通志174卷"),
	}
	if diff := cmp.Diff(want, rec.Metadata); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}

	// the last duplicate wins
	rec, ok = catalog.Lookup("X")
	require.True(t, ok)
	assert.Equal(t, "明", rec.Period.V)
	assert.InDelta(t, 101.0, rec.X.V, 1e-9)

	rec, ok = catalog.Lookup("NoCoords")
	require.True(t, ok)
	assert.False(t, rec.X.Valid)
	assert.False(t, rec.Y.Valid)

	_, ok = rec.Point()
	assert.False(t, ok)
}

func TestLoadCatalogMissingColumns(t *testing.T) {
	path := writeWorkbookFile(t, "catalog.xlsx", []string{ColumnTitle, ColumnPeriod}, [][]any{
		{"X", "宋"},
	})

	_, err := LoadCatalog(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ColumnAuthorEra)
	assert.Contains(t, err.Error(), ColumnURI)
}

func TestLoadCatalogBadCoordinate(t *testing.T) {
	path := writeWorkbookFile(t, "catalog.xlsx", DisplayColumns, [][]any{
		catalogRow("X", "宋", 100.0, 30.0),
		catalogRow("Y", "宋", "east", 30.0),
	})

	_, err := LoadCatalog(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(t.TempDir() + "/nope.xlsx")
	assert.Error(t, err)
}

func TestLookupIsExact(t *testing.T) {
	catalog := testCatalog()

	tests := []struct {
		title string
		found bool
	}{
		{"X", true},
		{"x", false},
		{"X ", false},
		{" X", false},
		{"Ｘ", false}, // fullwidth
		{"（乾隆）湖南通志174卷", true},
		{"(乾隆)湖南通志174卷", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.title, func(t *testing.T) {
			_, ok := catalog.Lookup(tc.title)
			assert.Equal(t, tc.found, ok)
		})
	}
}

func TestSuggest(t *testing.T) {
	catalog := testCatalog()

	tests := []struct {
		name  string
		title string
		want  string
		ok    bool
	}{
		{"exact match needs no hint", "X", "", false},
		{"fullwidth letter", "Ｘ", "X", true},
		{"trailing space", "X ", "X", true},
		{"halfwidth parentheses", "(乾隆)湖南通志174卷", "（乾隆）湖南通志174卷", true},
		{"inner whitespace", "民國 杭州府志", "民國杭州府志", true},
		{"unrelated", "不存在", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := catalog.Suggest(tc.title)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRecordsSorted(t *testing.T) {
	records := testCatalog().Records()

	titles := make([]string, len(records))
	for i, r := range records {
		titles[i] = r.Title
	}

	assert.IsNonDecreasing(t, titles)
	assert.Len(t, titles, 5)
}

func TestRecordMarshalJSON(t *testing.T) {
	rec := Record{Title: "X", Metadata: Metadata{Period: str("宋"), X: num(100)}}

	b, err := rec.MarshalJSON()
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"書名": "X",
		"時代作者": null,
		"版本": null,
		"時間段": "宋",
		"地域": null,
		"X": 100,
		"Y": null,
		"sys_id": null,
		"uri": null
	}`, string(b))
}
