// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// NewMetrics registers with the default Prometheus registry via
// promauto, so it can only be called once per test binary. All
// subtests share this single instance.
func TestNewMetrics(t *testing.T) {
	m := NewMetrics()
	if m == nil {
		t.Fatal("NewMetrics() returned nil")
	}

	t.Run("all collectors initialized", func(t *testing.T) {
		if m.IngestRowsTotal == nil {
			t.Error("IngestRowsTotal should not be nil")
		}
		if m.QueryDurationSeconds == nil {
			t.Error("QueryDurationSeconds should not be nil")
		}
		if m.PathQueriesTotal == nil {
			t.Error("PathQueriesTotal should not be nil")
		}
		if m.ActiveNoticeStreams == nil {
			t.Error("ActiveNoticeStreams should not be nil")
		}
	})

	t.Run("ingest counter increments per label pair", func(t *testing.T) {
		m.IngestRowsTotal.WithLabelValues("notice", "applied").Add(3)
		m.IngestRowsTotal.WithLabelValues("notice", "ignored").Inc()

		applied := testutil.ToFloat64(m.IngestRowsTotal.WithLabelValues("notice", "applied"))
		if applied != 3 {
			t.Errorf("applied count = %v, want 3", applied)
		}
		ignored := testutil.ToFloat64(m.IngestRowsTotal.WithLabelValues("notice", "ignored"))
		if ignored != 1 {
			t.Errorf("ignored count = %v, want 1", ignored)
		}
	})

	t.Run("stream gauge tracks open connections", func(t *testing.T) {
		m.ActiveNoticeStreams.Inc()
		m.ActiveNoticeStreams.Inc()
		m.ActiveNoticeStreams.Dec()

		open := testutil.ToFloat64(m.ActiveNoticeStreams)
		if open != 1 {
			t.Errorf("active streams = %v, want 1", open)
		}
	})

	t.Run("path counter separates modes", func(t *testing.T) {
		m.PathQueriesTotal.WithLabelValues("shortest", "found").Inc()
		m.PathQueriesTotal.WithLabelValues("all_shortest", "not_found").Inc()

		found := testutil.ToFloat64(m.PathQueriesTotal.WithLabelValues("shortest", "found"))
		if found != 1 {
			t.Errorf("shortest/found count = %v, want 1", found)
		}
	})
}
