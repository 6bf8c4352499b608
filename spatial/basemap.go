// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

// BaseMap is the polygon layer drawn under the gazetteer points.
type BaseMap struct {
	Polygons []orb.Polygon
	CRS      CRS
	Bound    orb.Bound
}

// LoadBaseMap reads a polygon shapefile and the reference system from its
// .prj sidecar. A missing .prj leaves the CRS unknown.
func LoadBaseMap(path string) (*BaseMap, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening base map %s: %w", path, err)
	}
	defer reader.Close()

	bm := &BaseMap{}

	for reader.Next() {
		n, shape := reader.Shape()

		switch s := shape.(type) {
		case *shp.Polygon:
			bm.Polygons = append(bm.Polygons, polygonsFromParts(s.Parts, s.Points)...)
		case *shp.PolygonZ:
			bm.Polygons = append(bm.Polygons, polygonsFromParts(s.Parts, s.Points)...)
		case *shp.PolygonM:
			bm.Polygons = append(bm.Polygons, polygonsFromParts(s.Parts, s.Points)...)
		case *shp.Null:
			continue
		default:
			return nil, fmt.Errorf("base map %s: record %d has unsupported shape %T", path, n, shape)
		}
	}

	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("reading base map %s: %w", path, err)
	}

	if len(bm.Polygons) == 0 {
		return nil, fmt.Errorf("base map %s: no polygons found", path)
	}

	bm.Bound = orb.MultiPolygon(bm.Polygons).Bound()

	prj := strings.TrimSuffix(path, filepath.Ext(path)) + ".prj"

	data, err := os.ReadFile(prj) // #nosec G304 - path comes from the operator config
	switch {
	case err == nil:
		bm.CRS = ParseCRS(string(data))
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("reading projection %s: %w", prj, err)
	}

	return bm, nil
}

// Shapefile polygons list outer rings clockwise and holes counter-clockwise;
// every clockwise ring starts a new polygon.
func polygonsFromParts(parts []int32, points []shp.Point) []orb.Polygon {
	var polygons []orb.Polygon

	for i, start := range parts {
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}

		if start < 0 || start >= end || int(end) > len(points) {
			continue
		}

		ring := make(orb.Ring, 0, end-start)
		for _, p := range points[start:end] {
			ring = append(ring, orb.Point{p.X, p.Y})
		}

		if len(polygons) == 0 || ring.Orientation() != orb.CCW {
			polygons = append(polygons, orb.Polygon{ring})

			continue
		}

		last := len(polygons) - 1
		polygons[last] = append(polygons[last], ring)
	}

	return polygons
}
