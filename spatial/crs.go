// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"regexp"
	"strings"
)

var crsNameRegex = regexp.MustCompile(`^\s*(PROJCS|GEOGCS|PROJCRS|GEOGCRS|GEODCRS)\s*\[\s*"([^"]*)"`)

// CRS is the coordinate reference system of a layer, as found in the
// shapefile .prj sidecar.
type CRS struct {
	Name      string `json:"name"`
	WKT       string `json:"-"`
	Projected bool   `json:"projected"`
}

// ParseCRS extracts the name and kind of a WKT coordinate reference system.
// Unrecognised input yields a CRS that only carries the raw text.
func ParseCRS(wkt string) CRS {
	wkt = strings.TrimSpace(wkt)

	crs := CRS{WKT: wkt}
	if m := crsNameRegex.FindStringSubmatch(wkt); m != nil {
		crs.Name = m[2]
		crs.Projected = strings.HasPrefix(m[1], "PROJ")
	}

	return crs
}

// IsZero reports whether no reference system is known.
func (c CRS) IsZero() bool {
	return c.WKT == ""
}

func (c CRS) String() string {
	if c.Name == "" {
		return "unknown"
	}

	return c.Name
}
