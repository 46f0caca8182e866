// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store holds the Cypher surface of the service: batch
// ingest upserts and the list/get read queries. All graph access
// outside of path traversal and capacity aggregation goes through
// here.
package store

import (
	"context"

	"go.opentelemetry.io/otel"

	"github.com/AleutianAI/gasline/services/gasapi/datatypes"
	"github.com/AleutianAI/gasline/services/gasapi/graphdb"
	"github.com/AleutianAI/gasline/services/gasapi/observability"
)

var tracer = otel.Tracer("gasline/services/gasapi/store")

// Store executes ingest and read queries against the graph.
type Store struct {
	exec    graphdb.Executor
	metrics *observability.Metrics
}

// NewStore creates a Store. metrics may be nil in tests.
func NewStore(exec graphdb.Executor, metrics *observability.Metrics) *Store {
	return &Store{exec: exec, metrics: metrics}
}

// applyBatch runs one UNWIND upsert over rows and folds the per-row
// `i`/`applied` results into an IngestResult, also returning the
// indices of the rows that applied. Rows the query never echoes back
// (e.g. skipped by a missing endpoint) are reported as row errors
// with missingMsg.
func (s *Store) applyBatch(ctx context.Context, entity, query string, rows []map[string]any, missingMsg string) (*datatypes.IngestResult, []int, error) {
	result := &datatypes.IngestResult{Received: len(rows)}
	if len(rows) == 0 {
		return result, nil, nil
	}

	out, err := s.exec.Write(ctx, query, map[string]any{"rows": rows})
	if err != nil {
		return nil, nil, err
	}

	var appliedIdx []int
	seen := make(map[int]bool, len(out))
	for _, rec := range out {
		i := int(graphdb.AsInt64(rec["i"]))
		seen[i] = true
		if graphdb.AsBool(rec["applied"]) {
			result.Applied++
			appliedIdx = append(appliedIdx, i)
		} else {
			result.Ignored++
		}
	}
	for i := range rows {
		if !seen[i] {
			result.RowErrors = append(result.RowErrors, datatypes.RowError{Index: i, Message: missingMsg})
		}
	}

	if s.metrics != nil {
		s.metrics.IngestRowsTotal.WithLabelValues(entity, "applied").Add(float64(result.Applied))
		s.metrics.IngestRowsTotal.WithLabelValues(entity, "ignored").Add(float64(result.Ignored))
		s.metrics.IngestRowsTotal.WithLabelValues(entity, "rejected").Add(float64(len(result.RowErrors)))
	}
	return result, appliedIdx, nil
}

func pageParams(params map[string]any, skip, limit int) {
	if skip < 0 {
		skip = 0
	}
	params["skip"] = int64(skip)
	params["limit"] = int64(limit)
}
