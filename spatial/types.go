// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/uber/h3-go/v4"
)

// CellResolution is the H3 resolution used to bucket gazetteer points.
const CellResolution = 5

var errNotGeographic = errors.New("spatial: point is not a longitude/latitude pair")

// Point is a coordinate expressed in the reference system of the base map.
// For geographic systems X is the longitude and Y the latitude.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// String returns a WKT representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("POINT(%f %f)", p.X, p.Y)
}

// Orb returns the point as an orb geometry.
func (p Point) Orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// Geographic reports whether the point fits in longitude/latitude bounds.
func (p Point) Geographic() bool {
	return p.Y >= -90 && p.Y <= 90 && p.X >= -180 && p.X <= 180
}

// Cell returns the H3 cell containing the point at the given resolution.
func (p Point) Cell(res int) (h3.Cell, error) {
	if !p.Geographic() {
		return 0, errNotGeographic
	}

	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Y, p.X), res)
	if err != nil {
		return 0, fmt.Errorf("converting to h3 cell at res %d: %w", res, err)
	}

	return cell, nil
}
