// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

// Package chart draws gazetteer point layers over the province base map,
// one colour per era.
package chart

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/jcodagnone/chorography/gazetteer"
	"github.com/jcodagnone/chorography/spatial"
	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Format is an output image format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

const (
	// DefaultWidth and DefaultHeight are the figure size.
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 8 * vg.Inch
	// DPI of PNG output.
	DPI = 100

	// MarkerRadius gives markers the area of a 20 pt² scatter marker.
	MarkerRadius vg.Length = 2.24
	// LegendMarkerRadius is the radius of the opaque legend swatches.
	LegendMarkerRadius vg.Length = 3.5

	legendRaise = 0.25
)

// ErrInvalidAlpha is returned when the marker transparency is outside [0, 1].
var ErrInvalidAlpha = errors.New("alpha must be between 0 and 1")

// Request describes one chart.
type Request struct {
	// Title is the label of the uploaded file; the heading is ChartTitle(Title).
	Title   string
	Alpha   float64
	BaseMap *spatial.BaseMap
	Points  *gazetteer.PointLayer
	Format  Format
}

// Validate checks the request parameters.
func (r Request) Validate() error {
	if math.IsNaN(r.Alpha) || r.Alpha < 0 || r.Alpha > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidAlpha, r.Alpha)
	}

	switch r.Format {
	case "", FormatPNG, FormatSVG:
	default:
		return fmt.Errorf("unsupported format %q", r.Format)
	}

	return nil
}

// Renderer draws charts. The zero value is not usable; see NewRenderer.
type Renderer struct {
	Width  vg.Length
	Height vg.Length
}

// NewRenderer returns a renderer with the default figure size.
func NewRenderer() *Renderer {
	return &Renderer{Width: DefaultWidth, Height: DefaultHeight}
}

// Render draws the base map, then one scatter per era in draw order, and
// returns the encoded image.
func (r *Renderer) Render(ctx context.Context, req Request) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = ChartTitle(req.Title)

	crs := spatial.CRS{}
	if req.BaseMap != nil {
		crs = req.BaseMap.CRS

		if err := addBaseMap(p, req.BaseMap); err != nil {
			return nil, err
		}
	}

	layer := req.Points
	if layer == nil {
		layer = &gazetteer.PointLayer{CRS: crs}
	}

	if err := addEras(p, layer, req.Alpha); err != nil {
		return nil, err
	}

	equalAspect(p, aspectRatio(p, crs), r.Width, r.Height)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return r.encode(p, req.Format)
}

func addBaseMap(p *plot.Plot, base *spatial.BaseMap) error {
	for _, polygon := range base.Polygons {
		rings := make([]plotter.XYer, 0, len(polygon))
		for _, ring := range polygon {
			xys := make(plotter.XYs, len(ring))
			for i, pt := range ring {
				xys[i] = plotter.XY{X: pt.X(), Y: pt.Y()}
			}

			rings = append(rings, xys)
		}

		poly, err := plotter.NewPolygon(rings...)
		if err != nil {
			return fmt.Errorf("drawing base map: %w", err)
		}

		poly.Color = colornames.Silver
		poly.LineStyle.Color = color.White
		poly.LineStyle.Width = vg.Points(1)

		p.Add(poly)
	}

	return nil
}

func addEras(p *plot.Plot, layer *gazetteer.PointLayer, alpha float64) error {
	plan := PlanLayer(layer)

	for _, era := range plan.DrawOrder {
		points := layer.ByEra(era)

		xys := make(plotter.XYs, len(points))
		for i, pt := range points {
			xys[i] = plotter.XY{X: pt.Point.X, Y: pt.Point.Y}
		}

		s, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("plotting %s: %w", era, err)
		}

		s.GlyphStyle = draw.GlyphStyle{
			Color:  withAlpha(era.Color(), alpha),
			Radius: MarkerRadius,
			Shape:  draw.CircleGlyph{},
		}

		p.Add(s)
	}

	if len(plan.Legend) == 0 {
		return nil
	}

	p.Legend.Add(LegendHeading)

	for _, era := range plan.Legend {
		p.Legend.Add(era.String(), legendMarker{color: era.Color()})
	}

	p.Legend.Top = false
	p.Legend.Left = false

	return nil
}

// legendMarker draws an opaque era swatch whatever the scatter alpha is.
type legendMarker struct {
	color color.Color
}

func (m legendMarker) Thumbnail(c *draw.Canvas) {
	c.DrawGlyph(draw.GlyphStyle{
		Color:  m.color,
		Radius: LegendMarkerRadius,
		Shape:  draw.CircleGlyph{},
	}, c.Center())
}

func withAlpha(c color.RGBA, alpha float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(alpha * 255))}
}

// aspectRatio is the vertical stretch that keeps distances even: 1 for
// projected maps, 1/cos(latitude) at the centre of geographic ones.
func aspectRatio(p *plot.Plot, crs spatial.CRS) float64 {
	if crs.Projected {
		return 1
	}

	mid := (p.Y.Min + p.Y.Max) / 2
	if math.IsInf(mid, 0) || math.IsNaN(mid) || math.Abs(mid) >= 90 {
		return 1
	}

	return 1 / math.Cos(mid*math.Pi/180)
}

// equalAspect widens the narrower axis range so that one unit of X and
// aspect units of Y take the same length on a w by h canvas.
func equalAspect(p *plot.Plot, aspect float64, w, h vg.Length) {
	for _, v := range []float64{p.X.Min, p.X.Max, p.Y.Min, p.Y.Max} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return
		}
	}

	dx := p.X.Max - p.X.Min
	dy := p.Y.Max - p.Y.Min

	if dx <= 0 || dy <= 0 {
		return
	}

	want := float64(h / w)

	if dy*aspect/dx < want {
		grow := (want*dx/aspect - dy) / 2
		p.Y.Min -= grow
		p.Y.Max += grow
	} else {
		grow := (dy*aspect/want - dx) / 2
		p.X.Min -= grow
		p.X.Max += grow
	}
}

func (r *Renderer) encode(p *plot.Plot, format Format) ([]byte, error) {
	var c vg.CanvasWriterTo

	switch format {
	case FormatSVG:
		c = vgsvg.New(r.Width, r.Height)
	default:
		c = vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(r.Width, r.Height), vgimg.UseDPI(DPI))}
	}

	dc := draw.New(c)
	p.Legend.YOffs = (dc.Max.Y - dc.Min.Y) * legendRaise
	p.Draw(dc)

	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", format, err)
	}

	return buf.Bytes(), nil
}
