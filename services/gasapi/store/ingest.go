// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"context"
	"sort"
	"time"

	"github.com/AleutianAI/gasline/pkg/validation"
	"github.com/AleutianAI/gasline/services/gasapi/datatypes"
)

// UpsertLocations merges location rows unconditionally. Locations
// are versioned by their effective/end dates, never deleted.
func (s *Store) UpsertLocations(ctx context.Context, rows []datatypes.LocationRow) (*datatypes.IngestResult, error) {
	ctx, span := tracer.Start(ctx, "store.UpsertLocations")
	defer span.End()

	batch := make([]map[string]any, len(rows))
	for i, r := range rows {
		batch[i] = map[string]any{
			"i":                 int64(i),
			"pipelineCode":      r.PipelineCode,
			"locationId":        r.LocationID,
			"name":              r.Name,
			"direction":         datatypes.NormalizeDirection(r.Direction),
			"zone":              r.Zone,
			"marketArea":        r.MarketArea,
			"typeCode":          r.TypeCode,
			"effectiveDate":     r.EffectiveDate,
			"endDate":           nilIfEmpty(r.EndDate),
			"latitude":          floatOrNil(r.Latitude),
			"longitude":         floatOrNil(r.Longitude),
			"state":             r.State,
			"county":            r.County,
			"country":           r.Country,
			"primaryDataSource": r.PrimaryDataSource,
			"primaryDataAsOf":   timeOrNil(r.PrimaryDataAsOf),
		}
	}
	result, _, err := s.applyBatch(ctx, "locations", upsertLocationsCypher, batch, "unknown location")
	return result, err
}

// UpsertConnections merges directed edges between existing locations.
// Rows naming an endpoint that is not in the graph are rejected.
func (s *Store) UpsertConnections(ctx context.Context, rows []datatypes.ConnectionRow) (*datatypes.IngestResult, error) {
	ctx, span := tracer.Start(ctx, "store.UpsertConnections")
	defer span.End()

	batch := make([]map[string]any, len(rows))
	for i, r := range rows {
		batch[i] = map[string]any{
			"i":              int64(i),
			"pipelineCode":   r.PipelineCode,
			"fromLocationId": r.FromLocationID,
			"toLocationId":   r.ToLocationID,
			"version":        r.Version,
		}
	}
	result, _, err := s.applyBatch(ctx, "connections", upsertConnectionsCypher, batch, "unknown endpoint location")
	return result, err
}

// UpsertConstraints attaches constraint windows to existing
// locations, keyed by (pipeline, location, kind, effective instant).
func (s *Store) UpsertConstraints(ctx context.Context, rows []datatypes.ConstraintRow) (*datatypes.IngestResult, error) {
	ctx, span := tracer.Start(ctx, "store.UpsertConstraints")
	defer span.End()

	batch := make([]map[string]any, len(rows))
	for i, r := range rows {
		batch[i] = map[string]any{
			"i":                 int64(i),
			"pipelineCode":      r.PipelineCode,
			"locationId":        r.LocationID,
			"kind":              r.Kind,
			"reason":            r.Reason,
			"percent":           floatOrNil(r.Percent),
			"limit":             floatOrNil(r.Limit),
			"effectiveDatetime": r.EffectiveDatetime,
			"endDatetime":       timeOrNil(r.EndDatetime),
		}
	}
	result, _, err := s.applyBatch(ctx, "constraints", upsertConstraintsCypher, batch, "unknown location")
	return result, err
}

// UpsertNotices merges notices with a last-writer-wins guard on
// lastModifiedDatetime. Stale re-deliveries count as ignored. The
// second return value lists the indices of the rows that applied, so
// the caller can feed them to the live stream.
func (s *Store) UpsertNotices(ctx context.Context, rows []datatypes.NoticeRow) (*datatypes.IngestResult, []int, error) {
	ctx, span := tracer.Start(ctx, "store.UpsertNotices")
	defer span.End()

	batch := make([]map[string]any, len(rows))
	for i, r := range rows {
		batch[i] = map[string]any{
			"i":                    int64(i),
			"pipelineCode":         r.PipelineCode,
			"noticeId":             r.NoticeID,
			"category":             r.Category,
			"noticeType":           r.NoticeType,
			"status":               r.Status,
			"subject":              r.Subject,
			"content":              r.Content,
			"postingDatetime":      r.PostingDatetime,
			"effectiveDatetime":    r.EffectiveDatetime,
			"endDatetime":          timeOrNil(r.EndDatetime),
			"lastModifiedDatetime": r.LastModifiedDatetime,
			"priorNoticeId":        r.PriorNoticeID,
		}
	}
	return s.applyBatch(ctx, "notices", upsertNoticesCypher, batch, "unknown location")
}

// UpsertOAC merges capacity snapshots keyed by the ten-field
// composite, guarded by postingDatetime so the latest posting wins.
func (s *Store) UpsertOAC(ctx context.Context, rows []datatypes.OACRow) (*datatypes.IngestResult, error) {
	ctx, span := tracer.Start(ctx, "store.UpsertOAC")
	defer span.End()

	batch := make([]map[string]any, len(rows))
	for i, r := range rows {
		batch[i] = map[string]any{
			"i":                              int64(i),
			"pipelineCode":                   r.PipelineCode,
			"cycle":                          r.Cycle,
			"flowDate":                       r.FlowDate,
			"locationId":                     r.LocationID,
			"locPurpDesc":                    r.LocPurpDesc,
			"locQTI":                         r.LocQTI,
			"direction":                      datatypes.NormalizeDirection(r.Direction),
			"flowIndicator":                  r.FlowIndicator,
			"grossOrNet":                     r.GrossOrNet,
			"schedStatus":                    r.SchedStatus,
			"postingDatetime":                r.PostingDatetime,
			"designCapacity":                 floatOrNil(r.DesignCapacity),
			"operatingCapacity":              floatOrNil(r.OperatingCapacity),
			"operationallyAvailableCapacity": floatOrNil(r.OperationallyAvailableCapacity),
			"totalScheduledQty":              floatOrNil(r.TotalScheduledQty),
			"itIndicator":                    r.ITIndicator,
		}
	}
	result, _, err := s.applyBatch(ctx, "oac", upsertOACCypher, batch, "unknown location")
	return result, err
}

// UpsertFlows merges realized-flow rows onto existing locations.
func (s *Store) UpsertFlows(ctx context.Context, rows []datatypes.FlowRow) (*datatypes.IngestResult, error) {
	ctx, span := tracer.Start(ctx, "store.UpsertFlows")
	defer span.End()

	batch := make([]map[string]any, len(rows))
	for i, r := range rows {
		batch[i] = map[string]any{
			"i":                   int64(i),
			"pipelineCode":        r.PipelineCode,
			"locationId":          r.LocationID,
			"flowDate":            r.FlowDate,
			"cycle":               r.Cycle,
			"operationalCapacity": floatOrNil(r.OperationalCapacity),
			"scheduledVolume":     floatOrNil(r.ScheduledVolume),
			"utilization":         floatOrNil(r.Utilization),
		}
	}
	result, _, err := s.applyBatch(ctx, "flows", upsertFlowsCypher, batch, "unknown location")
	return result, err
}

// UpsertPrices merges price points under existing symbols. Rows
// with a malformed symbol are rejected before the query runs; rows
// naming a well-formed but unknown symbol are rejected by the query.
// Symbols are never auto-created.
func (s *Store) UpsertPrices(ctx context.Context, rows []datatypes.PriceRow) (*datatypes.IngestResult, error) {
	ctx, span := tracer.Start(ctx, "store.UpsertPrices")
	defer span.End()

	var batch []map[string]any
	var orig []int
	var rowErrors []datatypes.RowError
	for i, r := range rows {
		if err := validation.ValidateSymbol(r.Symbol); err != nil {
			rowErrors = append(rowErrors, datatypes.RowError{Index: i, Message: err.Error()})
			continue
		}
		batch = append(batch, map[string]any{
			"i":          int64(len(orig)),
			"symbol":     r.Symbol,
			"tradingDay": r.TradingDay,
			"price":      floatOrNil(r.Price),
			"volume":     floatOrNil(r.Volume),
		})
		orig = append(orig, i)
	}

	result, _, err := s.applyBatch(ctx, "prices", upsertPricesCypher, batch, "unknown symbol")
	if err != nil {
		return nil, err
	}
	result.Received = len(rows)
	for _, re := range result.RowErrors {
		re.Index = orig[re.Index]
		rowErrors = append(rowErrors, re)
	}
	sort.Slice(rowErrors, func(a, b int) bool { return rowErrors[a].Index < rowErrors[b].Index })
	result.RowErrors = rowErrors
	return result, nil
}

// CreateNominations creates nominations by nomId. A nomId already in
// the graph is left untouched and counted as ignored.
func (s *Store) CreateNominations(ctx context.Context, rows []datatypes.NominationRow) (*datatypes.IngestResult, error) {
	ctx, span := tracer.Start(ctx, "store.CreateNominations")
	defer span.End()

	batch := make([]map[string]any, len(rows))
	for i, r := range rows {
		batch[i] = map[string]any{
			"i":                  int64(i),
			"nomId":              r.NomID,
			"pipelineCode":       r.PipelineCode,
			"contractId":         r.ContractID,
			"receiptLocationId":  r.ReceiptLocationID,
			"deliveryLocationId": r.DeliveryLocationID,
			"flowDate":           r.FlowDate,
			"cycle":              r.Cycle,
			"receiptVolume":      floatOrNil(r.ReceiptVolume),
			"fuelLoss":           floatOrNil(r.FuelLoss),
			"deliveryVolume":     floatOrNil(r.DeliveryVolume),
		}
	}
	result, _, err := s.applyBatch(ctx, "nominations", createNominationsCypher, batch, "unknown location")
	return result, err
}

// The driver takes plain values or nil, not pointers, so optional
// fields are unwrapped here.

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func floatOrNil(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func timeOrNil(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}
