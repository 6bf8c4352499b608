// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wgs84 = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// writeProvinces writes a two-province shapefile; the second province has a hole.
func writeProvinces(t *testing.T, dir string, prj string) string {
	t.Helper()

	path := filepath.Join(dir, "provinces.shp")

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	square := shp.Polygon(*shp.NewPolyLine([][]shp.Point{
		{{X: 100, Y: 20}, {X: 100, Y: 30}, {X: 110, Y: 30}, {X: 110, Y: 20}, {X: 100, Y: 20}},
	}))
	w.Write(&square)

	withHole := shp.Polygon(*shp.NewPolyLine([][]shp.Point{
		{{X: 110, Y: 20}, {X: 110, Y: 40}, {X: 120, Y: 40}, {X: 120, Y: 20}, {X: 110, Y: 20}},
		{{X: 112, Y: 22}, {X: 118, Y: 22}, {X: 118, Y: 28}, {X: 112, Y: 28}, {X: 112, Y: 22}},
	}))
	w.Write(&withHole)
	w.Close()

	if prj != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "provinces.prj"), []byte(prj), 0o600))
	}

	return path
}

func TestLoadBaseMap(t *testing.T) {
	path := writeProvinces(t, t.TempDir(), wgs84)

	bm, err := LoadBaseMap(path)
	require.NoError(t, err)

	require.Len(t, bm.Polygons, 2)
	assert.Len(t, bm.Polygons[0], 1)
	assert.Len(t, bm.Polygons[1], 2, "inner ring should be kept as a hole")
	assert.Equal(t, orb.Bound{Min: orb.Point{100, 20}, Max: orb.Point{120, 40}}, bm.Bound)
	assert.Equal(t, "GCS_WGS_1984", bm.CRS.Name)
	assert.False(t, bm.CRS.Projected)
}

func TestLoadBaseMapWithoutProjection(t *testing.T) {
	path := writeProvinces(t, t.TempDir(), "")

	bm, err := LoadBaseMap(path)
	require.NoError(t, err)

	assert.True(t, bm.CRS.IsZero())
	assert.Equal(t, "unknown", bm.CRS.String())
}

func TestLoadBaseMapMissing(t *testing.T) {
	_, err := LoadBaseMap(filepath.Join(t.TempDir(), "missing.shp"))
	assert.Error(t, err)
}

func TestParseCRS(t *testing.T) {
	tests := []struct {
		name      string
		wkt       string
		wantName  string
		projected bool
	}{
		{"geographic", wgs84, "GCS_WGS_1984", false},
		{"projected", `PROJCS["Asia_North_Albers_Equal_Area_Conic",GEOGCS["GCS_WGS_1984"]]`, "Asia_North_Albers_Equal_Area_Conic", true},
		{"wkt2", `GEOGCRS["WGS 84",DATUM["World Geodetic System 1984"]]`, "WGS 84", false},
		{"garbage", "not a crs", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			crs := ParseCRS(tc.wkt)
			assert.Equal(t, tc.wantName, crs.Name)
			assert.Equal(t, tc.projected, crs.Projected)
			assert.False(t, crs.IsZero())
		})
	}
}

func TestPointCell(t *testing.T) {
	p := Point{X: 112.98, Y: 28.19} // Changsha

	cell, err := p.Cell(CellResolution)
	require.NoError(t, err)
	assert.Equal(t, CellResolution, cell.Resolution())

	_, err = Point{X: 500000, Y: 3100000}.Cell(CellResolution)
	assert.ErrorIs(t, err, errNotGeographic)
}
