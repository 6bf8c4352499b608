// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package chart

import (
	"slices"

	"github.com/jcodagnone/chorography/gazetteer"
)

// LegendHeading is the title of the era legend.
const LegendHeading = "時代"

// Plan is the era layout of a chart: which eras get a scatter and in what
// order they are painted, and which eras the legend lists.
type Plan struct {
	// DrawOrder paints the latest era first so the earliest, rarer eras stay
	// on top.
	DrawOrder []gazetteer.Era
	// Legend lists the same eras chronologically.
	Legend []gazetteer.Era
}

// PlanLayer computes the plan of the eras present in layer. Points of an
// unknown era are not planned.
func PlanLayer(layer *gazetteer.PointLayer) Plan {
	legend := layer.Eras()

	order := slices.Clone(legend)
	slices.Reverse(order)

	return Plan{DrawOrder: order, Legend: legend}
}

// ChartTitle is the chart heading for an uploaded file label.
func ChartTitle(label string) string {
	return "“" + label + "”空間分佈圖"
}
