// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package capacity computes operationally-available-capacity views
// and runs the bounded-concurrency enrichment passes that join them
// onto contracts and path segments.
package capacity

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/AleutianAI/gasline/services/gasapi/datatypes"
	"github.com/AleutianAI/gasline/services/gasapi/graphdb"
	"github.com/AleutianAI/gasline/services/gasapi/observability"
	"github.com/AleutianAI/gasline/services/gasapi/traversal"
)

var tracer = otel.Tracer("gasline.gasapi.capacity")

// Result is a capacity lookup: the matching OAC snapshots newest
// first, plus summary percentages derived from the most recent one.
type Result struct {
	Records            []datatypes.CapacityView `json:"records"`
	AvailablePercent   *float64                 `json:"available_percent"`
	UtilizationPercent *float64                 `json:"utilization_percent"`
}

// Aggregator answers capacity/utilization lookups.
type Aggregator struct {
	exec    graphdb.Executor
	metrics *observability.Metrics
}

// NewAggregator creates an Aggregator. metrics may be nil in tests.
func NewAggregator(exec graphdb.Executor, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{exec: exec, metrics: metrics}
}

// CapacityAt returns OAC snapshots for one location, quantity type,
// and flow date, ordered by postingDatetime descending and capped at
// limit. cycle is an optional exact-match filter.
//
// The derived percentages are nil, never zero or an error, whenever
// operatingCapacity is absent or exactly zero.
func (a *Aggregator) CapacityAt(ctx context.Context, pipelineCode string, loc traversal.Ref, locQTI string, flowDate time.Time, cycle string, limit int) (*Result, error) {
	ctx, span := tracer.Start(ctx, "capacity.CapacityAt")
	defer span.End()

	start := time.Now()

	where := graphdb.NewWhere().
		MaybeEq("o.pipelineCode", pipelineCode).
		Eq("o.locQTI", locQTI).
		Eq("o.flowDate", flowDate.Format("2006-01-02")).
		MaybeEq("o.cycle", cycle)
	if loc.ID != nil {
		where.Eq("l.locationId", *loc.ID)
	} else {
		where.Eq("l.name", loc.Name)
	}
	clause, params := where.Render()
	params["limit"] = int64(limit)

	query := fmt.Sprintf(`MATCH (l:Location)-[:HAS_AVAILABLE_CAPACITY]->(o:AvailableCapacity)
%s
RETURN o.pipelineCode AS pipelineCode, o.cycle AS cycle, o.flowDate AS flowDate,
       l.locationId AS locationId, o.locQTI AS locQTI, o.postingDatetime AS postingDatetime,
       o.designCapacity AS designCapacity, o.operatingCapacity AS operatingCapacity,
       o.operationallyAvailableCapacity AS operationallyAvailableCapacity,
       o.totalScheduledQty AS totalScheduledQty
ORDER BY o.postingDatetime DESC
LIMIT $limit`, clause)

	rows, err := a.exec.Read(ctx, query, params)
	if err != nil {
		return nil, err
	}

	result := &Result{Records: make([]datatypes.CapacityView, 0, len(rows))}
	for _, row := range rows {
		view := datatypes.CapacityView{
			PipelineCode:                   graphdb.AsString(row["pipelineCode"]),
			Cycle:                          graphdb.AsString(row["cycle"]),
			FlowDate:                       graphdb.AsString(row["flowDate"]),
			LocationID:                     graphdb.AsInt64(row["locationId"]),
			LocQTI:                         graphdb.AsString(row["locQTI"]),
			PostingDatetime:                graphdb.AsString(row["postingDatetime"]),
			DesignCapacity:                 graphdb.AsFloatPtr(row["designCapacity"]),
			OperatingCapacity:              graphdb.AsFloatPtr(row["operatingCapacity"]),
			OperationallyAvailableCapacity: graphdb.AsFloatPtr(row["operationallyAvailableCapacity"]),
			TotalScheduledQty:              graphdb.AsFloatPtr(row["totalScheduledQty"]),
		}
		view.AvailablePercent = percentOf(view.OperationallyAvailableCapacity, view.OperatingCapacity)
		view.UtilizationPercent = percentOf(view.TotalScheduledQty, view.OperatingCapacity)
		result.Records = append(result.Records, view)
	}

	// Summary percentages come from the most recent snapshot.
	if len(result.Records) > 0 {
		result.AvailablePercent = result.Records[0].AvailablePercent
		result.UtilizationPercent = result.Records[0].UtilizationPercent
	}

	if a.metrics != nil {
		a.metrics.QueryDurationSeconds.WithLabelValues("capacity_at").Observe(time.Since(start).Seconds())
	}
	return result, nil
}

// percentOf computes 100 * numerator / operating, nil when either
// operand is absent or operating is exactly zero. Division by zero is
// special-cased, never raised or surfaced as Inf/NaN.
func percentOf(numerator, operating *float64) *float64 {
	if numerator == nil || operating == nil || *operating == 0 {
		return nil
	}
	v := 100 * *numerator / *operating
	return &v
}
