// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Upload outcomes counted by Metrics.Uploads.
const (
	OutcomeRendered     = "rendered"
	OutcomeMissingTitle = "missing_title"
	OutcomeRejected     = "rejected"
	OutcomeFailed       = "failed"
)

// Metrics holds the Prometheus collectors of the interactive shell.
type Metrics struct {
	Uploads        *prometheus.CounterVec // labels: outcome={rendered,missing_title,rejected,failed}
	EnrichedRows   *prometheus.CounterVec // labels: result={matched,unmatched}
	RenderDuration prometheus.Histogram
	PointsPlotted  prometheus.Histogram
}

func newMetrics() *Metrics {
	return &Metrics{
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chorography",
			Name:      "uploads_total",
			Help:      "Uploaded workbooks by outcome.",
		}, []string{"outcome"}),
		EnrichedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chorography",
			Name:      "enriched_rows_total",
			Help:      "Uploaded rows looked up in the catalog, by result.",
		}, []string{"result"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chorography",
			Name:      "render_duration_seconds",
			Help:      "Duration of a whole upload-to-chart pipeline run.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		PointsPlotted: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chorography",
			Name:      "points_plotted",
			Help:      "Number of distinct gazetteers plotted per chart.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
}

// NewMetrics creates the shell metrics and registers them with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.Uploads,
		m.EnrichedRows,
		m.RenderDuration,
		m.PointsPlotted,
	)

	return m
}

// NewMetricsForTesting creates unregistered metrics, so tests can build as
// many servers as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
