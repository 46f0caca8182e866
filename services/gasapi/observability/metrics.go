// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the gasapi
// service.
//
// Metrics are exposed via the /metrics endpoint. All operations are
// thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "gasline"

// Metrics holds all Prometheus metrics for the gasapi service.
// Initialize once at startup via NewMetrics() and pass by reference.
type Metrics struct {
	// IngestRowsTotal counts ingested rows by entity and outcome.
	// Labels: entity (location, connection, constraint, notice, oac,
	// flow, price, nomination), outcome (applied, ignored, error)
	IngestRowsTotal *prometheus.CounterVec

	// QueryDurationSeconds measures graph query latency.
	// Labels: operation
	QueryDurationSeconds *prometheus.HistogramVec

	// PathQueriesTotal counts path resolutions by mode and outcome.
	// Labels: mode (shortest, all_shortest), outcome (found,
	// not_found, error)
	PathQueriesTotal *prometheus.CounterVec

	// ActiveNoticeStreams tracks open websocket notice feeds.
	ActiveNoticeStreams prometheus.Gauge
}

// NewMetrics creates and registers all gasapi metrics with the
// default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		IngestRowsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "ingest",
			Name:      "rows_total",
			Help:      "Ingested rows by entity and outcome.",
		}, []string{"entity", "outcome"}),

		QueryDurationSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "graph",
			Name:      "query_duration_seconds",
			Help:      "Graph query latency by logical operation.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"operation"}),

		PathQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "paths",
			Name:      "queries_total",
			Help:      "Path resolutions by traversal mode and outcome.",
		}, []string{"mode", "outcome"}),

		ActiveNoticeStreams: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "notices",
			Name:      "active_streams",
			Help:      "Currently open websocket notice feeds.",
		}),
	}
}
