// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package gazetteer

import (
	"github.com/jcodagnone/chorography/spatial"
	"github.com/paulmach/orb/geojson"
	"github.com/uber/h3-go/v4"
)

// SpatialPoint is the plotted location of one gazetteer.
type SpatialPoint struct {
	Title  string
	Point  spatial.Point
	Era    Era
	Period string
	Region string
	Cell   h3.Cell // zero when the point is not a longitude/latitude pair
}

// PointLayer is the set of points drawn over the base map, in the base
// map reference system.
type PointLayer struct {
	CRS    spatial.CRS
	Points []SpatialPoint
}

// BuildPoints keeps the first row of every title and builds one point per
// title that has both coordinates. Rows with a null X or Y are skipped; they
// remain visible in the table.
func BuildPoints(e *Enriched, crs spatial.CRS) *PointLayer {
	layer := &PointLayer{CRS: crs}
	if !e.Titled() {
		return layer
	}

	seen := make(map[string]bool, len(e.Rows))

	for _, row := range e.Rows {
		if seen[row.Title] {
			continue
		}

		seen[row.Title] = true

		p, ok := row.Point()
		if !ok {
			continue
		}

		sp := SpatialPoint{
			Title:  row.Title,
			Point:  p,
			Era:    row.Era(),
			Period: row.Period.V,
			Region: row.Region.V,
		}

		if !crs.Projected {
			if cell, err := p.Cell(spatial.CellResolution); err == nil {
				sp.Cell = cell
			}
		}

		layer.Points = append(layer.Points, sp)
	}

	return layer
}

// Eras returns the known eras present in the layer, earliest first.
func (l *PointLayer) Eras() []Era {
	present := make(map[Era]bool)
	for _, p := range l.Points {
		present[p.Era] = true
	}

	var eras []Era

	for _, era := range Eras() {
		if present[era] {
			eras = append(eras, era)
		}
	}

	return eras
}

// ByEra returns the points of one era, in layer order.
func (l *PointLayer) ByEra(era Era) []SpatialPoint {
	var points []SpatialPoint

	for _, p := range l.Points {
		if p.Era == era {
			points = append(points, p)
		}
	}

	return points
}

// FeatureCollection returns the layer as GeoJSON. The reference system
// name, when known, is written as a "crs" foreign member.
func (l *PointLayer) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, p := range l.Points {
		f := geojson.NewFeature(p.Point.Orb())
		f.Properties["title"] = p.Title
		f.Properties["era"] = p.Era.String()
		f.Properties["period"] = p.Period
		f.Properties["region"] = p.Region

		if p.Cell != 0 {
			f.Properties["h3"] = p.Cell.String()
		}

		fc.Append(f)
	}

	if l.CRS.Name != "" {
		fc.ExtraMembers = geojson.Properties{
			"crs": map[string]any{
				"type":       "name",
				"properties": map[string]any{"name": l.CRS.Name},
			},
		}
	}

	return fc
}
