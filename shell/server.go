// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

// Package shell serves the upload form, the era map and the enrichment API.
package shell

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/chorography/chart"
	"github.com/jcodagnone/chorography/gazetteer"
	"github.com/jcodagnone/chorography/spatial"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxUploadBytes bounds the size of an upload request.
const DefaultMaxUploadBytes = 32 << 20

const shutdownTimeout = 10 * time.Second

//go:embed templates/*.html
var templateFS embed.FS

// Options tunes a Server. Zero values pick the defaults.
type Options struct {
	MaxUploadBytes int64
	Clock          clockwork.Clock
	Metrics        *Metrics
	Renderer       *chart.Renderer
}

// Server is the interactive shell. The catalog, base map and repository
// are shared read-only by every request.
type Server struct {
	catalog   *gazetteer.Catalog
	baseMap   *spatial.BaseMap
	repo      gazetteer.Repository
	renderer  *chart.Renderer
	logger    *zap.SugaredLogger
	metrics   *Metrics
	clock     clockwork.Clock
	maxUpload int64
	templates *template.Template
}

// NewServer creates a shell over the loaded reference data. repo may be nil,
// in which case catalog statistics are unavailable.
func NewServer(
	catalog *gazetteer.Catalog,
	baseMap *spatial.BaseMap,
	repo gazetteer.Repository,
	logger *zap.SugaredLogger,
	opts Options,
) *Server {
	s := &Server{
		catalog:   catalog,
		baseMap:   baseMap,
		repo:      repo,
		renderer:  opts.Renderer,
		logger:    logger,
		metrics:   opts.Metrics,
		clock:     opts.Clock,
		maxUpload: opts.MaxUploadBytes,
		templates: template.Must(template.New("").ParseFS(templateFS, "templates/*.html")),
	}

	if s.renderer == nil {
		s.renderer = chart.NewRenderer()
	}

	if s.logger == nil {
		s.logger = zap.NewNop().Sugar()
	}

	if s.metrics == nil {
		s.metrics = newMetrics()
	}

	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}

	if s.maxUpload <= 0 {
		s.maxUpload = DefaultMaxUploadBytes
	}

	return s
}

// Router returns the gin engine serving every route.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.MaxMultipartMemory = s.maxUpload
	r.SetHTMLTemplate(s.templates)

	r.GET("/", s.indexView)
	r.POST("/", s.submitView)
	r.POST("/render", s.renderFragment)

	r.POST("/api/enrich", s.enrichAPI)
	r.POST("/api/points", s.pointsAPI)
	r.POST("/api/export", s.exportAPI)
	r.GET("/api/catalog/stats", s.catalogStats)

	r.GET("/healthz", s.healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// Run listens on addr and serves until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done. It closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Infow("http server starting", "addr", ln.Addr().String())

		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		s.logger.Infow("http server stopping")

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := s.clock.Now()

		ctx.Next()

		s.logger.Debugw("request",
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", ctx.Writer.Status(),
			"latency", s.clock.Since(start),
		)
	}
}

func (s *Server) crs() spatial.CRS {
	if s.baseMap == nil {
		return spatial.CRS{}
	}

	return s.baseMap.CRS
}
