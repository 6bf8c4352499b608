// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"bytes"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/chorography/gazetteer"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const defaultTopRegions = 10

func (s *Server) indexView(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "index.html", newView())
}

func (s *Server) submitView(ctx *gin.Context) {
	v, status := s.buildView(ctx)
	ctx.HTML(status, "index.html", v)
}

func (s *Server) renderFragment(ctx *gin.Context) {
	v, status := s.buildView(ctx)
	ctx.HTML(status, "result.html", v)
}

// enrichResponse is the JSON form of an enriched upload.
type enrichResponse struct {
	RenderID string             `json:"render_id"`
	Label    string             `json:"label"`
	Titled   bool               `json:"titled"`
	Warning  string             `json:"warning,omitempty"`
	Columns  []string           `json:"columns"`
	Rows     [][]any            `json:"rows"`
	Summary  *gazetteer.Summary `json:"summary,omitempty"`
}

// readAndEnrich is the shared prologue of the JSON endpoints. It writes the
// error response itself and returns false when the handler should stop.
func (s *Server) readAndEnrich(ctx *gin.Context) (*upload, *result, string, bool) {
	id := s.startRun(ctx)

	up, err := s.readUpload(ctx)
	if err != nil {
		s.metrics.Uploads.WithLabelValues(OutcomeRejected).Inc()
		ctx.JSON(statusCode(err), gin.H{"error": err.Error()})

		return nil, nil, id, false
	}

	return up, s.enrich(up), id, true
}

func (s *Server) enrichAPI(ctx *gin.Context) {
	up, r, id, ok := s.readAndEnrich(ctx)
	if !ok {
		return
	}

	resp := enrichResponse{
		RenderID: id,
		Label:    up.label,
		Titled:   r.titled(),
		Columns:  r.enriched.Columns(),
		Rows:     make([][]any, len(r.enriched.Rows)),
	}

	for i := range r.enriched.Rows {
		resp.Rows[i] = r.enriched.Values(i)
	}

	if r.titled() {
		resp.Summary = &r.summary
	} else {
		resp.Warning = gazetteer.MissingTitleWarning
	}

	ctx.JSON(http.StatusOK, resp)
}

func (s *Server) pointsAPI(ctx *gin.Context) {
	_, r, _, ok := s.readAndEnrich(ctx)
	if !ok {
		return
	}

	if !r.titled() {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": gazetteer.MissingTitleWarning})

		return
	}

	ctx.JSON(http.StatusOK, r.layer.FeatureCollection())
}

func (s *Server) exportAPI(ctx *gin.Context) {
	up, r, id, ok := s.readAndEnrich(ctx)
	if !ok {
		return
	}

	if !r.titled() {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": gazetteer.MissingTitleWarning})

		return
	}

	var buf bytes.Buffer
	if err := r.enriched.WriteXLSX(&buf); err != nil {
		s.logger.Errorw("exporting workbook", "render_id", id, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write workbook"})

		return
	}

	filename := up.label + "_enriched.xlsx"
	ctx.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (s *Server) catalogStats(ctx *gin.Context) {
	if s.repo == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog statistics are not available"})

		return
	}

	top := defaultTopRegions

	if v := ctx.Query("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "top must be a non-negative integer"})

			return
		}

		top = n
	}

	stats, err := s.repo.Stats(top)
	if err != nil {
		s.logger.Errorw("computing catalog stats", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute catalog stats"})

		return
	}

	ctx.JSON(http.StatusOK, stats)
}

func (s *Server) healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"gazetteers": s.catalog.Len(),
	})
}
