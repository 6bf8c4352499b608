// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"context"
	"encoding/base64"
	"errors"
	"html/template"
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jcodagnone/chorography/chart"
	"github.com/jcodagnone/chorography/gazetteer"
)

// upload is a parsed upload form.
type upload struct {
	label string
	sheet *gazetteer.Sheet
	alpha float64
}

// readUpload parses the "file" and "alpha" form fields.
func (s *Server) readUpload(ctx *gin.Context) (*upload, error) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, s.maxUpload)

	fh, err := ctx.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			return nil, &UploadError{Type: ErrorTypeTooLarge, Message: "文件過大", Err: err}
		}

		return nil, &UploadError{Type: ErrorTypeMissingFile, Message: UploadLabel, Err: err}
	}

	alpha, err := parseAlpha(ctx.PostForm("alpha"))
	if err != nil {
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, &UploadError{Type: ErrorTypeUnreadable, Message: "無法讀取上傳的文件", Err: err}
	}
	defer f.Close()

	sheet, err := gazetteer.ReadSheet(f)
	if err != nil {
		return nil, &UploadError{Type: ErrorTypeUnreadable, Message: "無法讀取xlsx文件", Err: err}
	}

	return &upload{label: fileLabel(fh.Filename), sheet: sheet, alpha: alpha}, nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}

	return strings.Contains(err.Error(), "request body too large")
}

// parseAlpha reads the slider value; empty means DefaultAlpha. Values between
// slider stops snap to the nearest tenth.
func parseAlpha(v string) (float64, error) {
	if v == "" {
		return DefaultAlpha, nil
	}

	alpha, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(alpha) || alpha < 0 || alpha > 1 {
		return 0, &UploadError{Type: ErrorTypeInvalidAlpha, Message: "透明度必須介於0和1之間", Err: err}
	}

	return math.Round(alpha*10) / 10, nil
}

// fileLabel is the file name without directory and extension.
func fileLabel(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))

	return strings.TrimSuffix(name, filepath.Ext(name))
}

// result is an upload joined against the catalog.
type result struct {
	enriched *gazetteer.Enriched
	summary  gazetteer.Summary
	layer    *gazetteer.PointLayer
}

func (r *result) titled() bool {
	return r.enriched.Titled()
}

func (s *Server) enrich(up *upload) *result {
	enriched, titled := gazetteer.Enrich(up.sheet, s.catalog)

	r := &result{enriched: enriched}
	if !titled {
		return r
	}

	r.summary = enriched.Summarize(s.catalog)
	r.layer = gazetteer.BuildPoints(enriched, s.crs())

	s.metrics.EnrichedRows.WithLabelValues("matched").Add(float64(r.summary.Matched))
	s.metrics.EnrichedRows.WithLabelValues("unmatched").Add(float64(r.summary.Unmatched))

	return r
}

func (s *Server) render(ctx context.Context, up *upload, r *result) ([]byte, error) {
	return s.renderer.Render(ctx, chart.Request{
		Title:   up.label,
		Alpha:   up.alpha,
		BaseMap: s.baseMap,
		Points:  r.layer,
		Format:  chart.FormatPNG,
	})
}

// startRun tags the response with a fresh render id.
func (s *Server) startRun(ctx *gin.Context) string {
	id := uuid.NewString()
	ctx.Header("X-Render-ID", id)

	return id
}

// buildView runs the whole pipeline for one page or fragment request.
func (s *Server) buildView(ctx *gin.Context) (*View, int) {
	start := s.clock.Now()

	v := newView()
	v.RenderID = s.startRun(ctx)

	up, err := s.readUpload(ctx)
	if err != nil {
		s.metrics.Uploads.WithLabelValues(OutcomeRejected).Inc()
		s.logger.Infow("upload rejected", "render_id", v.RenderID, "error", err)

		v.Error = err.Error()

		return v, statusCode(err)
	}

	v.Alpha = up.alpha
	v.Label = up.label

	r := s.enrich(up)
	if !r.titled() {
		s.metrics.Uploads.WithLabelValues(OutcomeMissingTitle).Inc()
		s.logger.Infow("upload without title column", "render_id", v.RenderID, "label", up.label)

		v.Warning = gazetteer.MissingTitleWarning

		return v, http.StatusOK
	}

	img, err := s.render(ctx.Request.Context(), up, r)
	if err != nil {
		s.metrics.Uploads.WithLabelValues(OutcomeFailed).Inc()
		s.logger.Errorw("rendering chart", "render_id", v.RenderID, "label", up.label, "error", err)

		v.Error = "繪圖失敗"

		return v, http.StatusInternalServerError
	}

	v.State = Rendered
	v.ChartTitle = chart.ChartTitle(up.label)
	v.Image = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(img))
	v.Columns = gazetteer.DisplayColumns
	v.Rows = r.enriched.Display()
	v.Summary = &r.summary

	elapsed := s.clock.Since(start)

	s.metrics.Uploads.WithLabelValues(OutcomeRendered).Inc()
	s.metrics.PointsPlotted.Observe(float64(len(r.layer.Points)))
	s.metrics.RenderDuration.Observe(elapsed.Seconds())

	s.logger.Infow("chart rendered",
		"render_id", v.RenderID,
		"label", up.label,
		"rows", r.summary.Rows,
		"matched", r.summary.Matched,
		"points", len(r.layer.Points),
		"alpha", up.alpha,
		"elapsed", elapsed,
	)

	return v, http.StatusOK
}
