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
	"fmt"
	"time"

	"github.com/AleutianAI/gasline/services/gasapi/datatypes"
	"github.com/AleutianAI/gasline/services/gasapi/graphdb"
	"github.com/AleutianAI/gasline/services/gasapi/temporal"
)

// LocationFilter narrows a location listing. Zero values mean "any".
// AsOf is a YYYY-MM-DD date; when set, only locations whose
// effective/end date range covers it are returned.
type LocationFilter struct {
	PipelineCode string
	Zone         string
	MarketArea   string
	Direction    string
	Name         string
	AsOf         string
	Skip         int
	Limit        int
}

// ConstraintFilter narrows a constraint listing. When End is nil and
// Start is set, the filter is a single-instant as-of test; when both
// are set it is an interval overlap.
type ConstraintFilter struct {
	PipelineCode string
	LocationID   *int64
	Start        *time.Time
	End          *time.Time
	Skip         int
	Limit        int
}

// NoticeFilter narrows a notice listing, with the same window
// semantics as ConstraintFilter.
type NoticeFilter struct {
	PipelineCode string
	Category     string
	Status       string
	Start        *time.Time
	End          *time.Time
	Skip         int
	Limit        int
}

// ContractFilter narrows a contract listing.
type ContractFilter struct {
	PipelineCode string
	Shipper      string
	Skip         int
	Limit        int
}

// ListLocations returns locations matching the filter, ordered by
// location id.
func (s *Store) ListLocations(ctx context.Context, f LocationFilter) ([]datatypes.LocationView, error) {
	ctx, span := tracer.Start(ctx, "store.ListLocations")
	defer span.End()

	where := graphdb.NewWhere().
		MaybeEq("l.pipelineCode", f.PipelineCode).
		MaybeEq("l.zone", f.Zone).
		MaybeEq("l.marketArea", f.MarketArea).
		MaybeEq("l.direction", datatypes.NormalizeDirection(f.Direction)).
		MaybeEq("l.name", f.Name)
	if f.AsOf != "" {
		// Date strings compare correctly in YYYY-MM-DD form.
		where.Raw("l.effectiveDate <= $asOf AND (l.endDate IS NULL OR l.endDate >= $asOf)",
			map[string]any{"asOf": f.AsOf})
	}
	clause, params := where.Render()
	pageParams(params, f.Skip, f.Limit)

	query := fmt.Sprintf(`MATCH (l:Location)
%s
RETURN l.locationId AS locationId, l.pipelineCode AS pipelineCode,
       l.name AS name, l.direction AS direction,
       l.zone AS zone, l.marketArea AS marketArea,
       l.latitude AS latitude, l.longitude AS longitude
ORDER BY l.locationId
SKIP $skip LIMIT $limit`, clause)

	rows, err := s.exec.Read(ctx, query, params)
	if err != nil {
		return nil, err
	}
	views := make([]datatypes.LocationView, 0, len(rows))
	for _, row := range rows {
		views = append(views, datatypes.LocationView{
			LocationID:   graphdb.AsInt64(row["locationId"]),
			PipelineCode: graphdb.AsString(row["pipelineCode"]),
			Name:         graphdb.AsString(row["name"]),
			Direction:    graphdb.AsString(row["direction"]),
			Zone:         graphdb.AsString(row["zone"]),
			MarketArea:   graphdb.AsString(row["marketArea"]),
			Latitude:     graphdb.AsFloatPtr(row["latitude"]),
			Longitude:    graphdb.AsFloatPtr(row["longitude"]),
		})
	}
	return views, nil
}

// ListConstraints returns constraint windows matching the filter,
// newest effective first.
func (s *Store) ListConstraints(ctx context.Context, f ConstraintFilter) ([]datatypes.ConstraintView, error) {
	ctx, span := tracer.Start(ctx, "store.ListConstraints")
	defer span.End()

	where := graphdb.NewWhere().
		MaybeEq("c.pipelineCode", f.PipelineCode)
	if f.LocationID != nil {
		where.Eq("c.locationId", *f.LocationID)
	}
	applyWindow(where, "c", f.Start, f.End)
	clause, params := where.Render()
	pageParams(params, f.Skip, f.Limit)

	query := fmt.Sprintf(`MATCH (l:Location)-[:HAS_CONSTRAINT]->(c:Constraint)
%s
RETURN c.pipelineCode AS pipelineCode, c.locationId AS locationId,
       l.name AS locationName, c.kind AS kind, c.reason AS reason,
       c.percent AS percent, c.limit AS limit,
       c.effectiveDatetime AS effectiveDatetime, c.endDatetime AS endDatetime
ORDER BY c.effectiveDatetime DESC
SKIP $skip LIMIT $limit`, clause)

	rows, err := s.exec.Read(ctx, query, params)
	if err != nil {
		return nil, err
	}
	views := make([]datatypes.ConstraintView, 0, len(rows))
	for _, row := range rows {
		views = append(views, datatypes.ConstraintView{
			PipelineCode:      graphdb.AsString(row["pipelineCode"]),
			LocationID:        graphdb.AsInt64(row["locationId"]),
			LocationName:      graphdb.AsString(row["locationName"]),
			Kind:              graphdb.AsString(row["kind"]),
			Reason:            graphdb.AsString(row["reason"]),
			Percent:           graphdb.AsFloatPtr(row["percent"]),
			Limit:             graphdb.AsFloatPtr(row["limit"]),
			EffectiveDatetime: graphdb.AsString(row["effectiveDatetime"]),
			EndDatetime:       graphdb.AsStringPtr(row["endDatetime"]),
		})
	}
	return views, nil
}

// ListNotices returns notices matching the filter, most recently
// posted first.
func (s *Store) ListNotices(ctx context.Context, f NoticeFilter) ([]datatypes.NoticeView, error) {
	ctx, span := tracer.Start(ctx, "store.ListNotices")
	defer span.End()

	where := graphdb.NewWhere().
		MaybeEq("n.pipelineCode", f.PipelineCode).
		MaybeEq("n.category", f.Category).
		MaybeEq("n.status", f.Status)
	applyWindow(where, "n", f.Start, f.End)
	clause, params := where.Render()
	pageParams(params, f.Skip, f.Limit)

	query := fmt.Sprintf(`MATCH (n:Notice)
%s
RETURN n.pipelineCode AS pipelineCode, n.noticeId AS noticeId,
       n.category AS category, n.noticeType AS noticeType, n.status AS status,
       n.subject AS subject, n.content AS content,
       n.postingDatetime AS postingDatetime,
       n.effectiveDatetime AS effectiveDatetime, n.endDatetime AS endDatetime,
       n.lastModifiedDatetime AS lastModifiedDatetime,
       n.priorNoticeId AS priorNoticeId
ORDER BY n.postingDatetime DESC
SKIP $skip LIMIT $limit`, clause)

	rows, err := s.exec.Read(ctx, query, params)
	if err != nil {
		return nil, err
	}
	views := make([]datatypes.NoticeView, 0, len(rows))
	for _, row := range rows {
		views = append(views, noticeFromRow(row))
	}
	return views, nil
}

// GetNotice returns one notice, datatypes.ErrNotFound when absent.
func (s *Store) GetNotice(ctx context.Context, pipelineCode, noticeID string) (*datatypes.NoticeView, error) {
	ctx, span := tracer.Start(ctx, "store.GetNotice")
	defer span.End()

	rows, err := s.exec.Read(ctx, getNoticeCypher, map[string]any{
		"pipelineCode": pipelineCode,
		"noticeId":     noticeID,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: notice %s/%s", datatypes.ErrNotFound, pipelineCode, noticeID)
	}
	v := noticeFromRow(rows[0])
	return &v, nil
}

// GetNomination returns one nomination, datatypes.ErrNotFound when
// absent.
func (s *Store) GetNomination(ctx context.Context, nomID string) (*datatypes.NominationView, error) {
	ctx, span := tracer.Start(ctx, "store.GetNomination")
	defer span.End()

	rows, err := s.exec.Read(ctx, getNominationCypher, map[string]any{"nomId": nomID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: nomination %s", datatypes.ErrNotFound, nomID)
	}
	row := rows[0]
	return &datatypes.NominationView{
		NomID:              graphdb.AsString(row["nomId"]),
		PipelineCode:       graphdb.AsString(row["pipelineCode"]),
		ContractID:         graphdb.AsString(row["contractId"]),
		ReceiptLocationID:  graphdb.AsInt64(row["receiptLocationId"]),
		DeliveryLocationID: graphdb.AsInt64(row["deliveryLocationId"]),
		FlowDate:           graphdb.AsString(row["flowDate"]),
		Cycle:              graphdb.AsString(row["cycle"]),
		ReceiptVolume:      graphdb.AsFloatPtr(row["receiptVolume"]),
		FuelLoss:           graphdb.AsFloatPtr(row["fuelLoss"]),
		DeliveryVolume:     graphdb.AsFloatPtr(row["deliveryVolume"]),
	}, nil
}

// ListContracts returns contracts with their periods collected and
// ordered by effective date.
func (s *Store) ListContracts(ctx context.Context, f ContractFilter) ([]datatypes.ContractView, error) {
	ctx, span := tracer.Start(ctx, "store.ListContracts")
	defer span.End()

	where := graphdb.NewWhere().
		MaybeEq("k.pipelineCode", f.PipelineCode).
		MaybeEq("k.shipper", f.Shipper)
	clause, params := where.Render()
	pageParams(params, f.Skip, f.Limit)

	query := fmt.Sprintf(`MATCH (k:Contract)
%s
OPTIONAL MATCH (k)-[:HAS_PERIOD]->(p:Period)
WITH k, p ORDER BY p.effectiveDate
WITH k, collect(p {.*}) AS periods
RETURN k.contractId AS contractId, k.pipelineCode AS pipelineCode,
       k.shipper AS shipper, k.effectiveDate AS effectiveDate,
       k.endDate AS endDate, periods
ORDER BY k.contractId
SKIP $skip LIMIT $limit`, clause)

	rows, err := s.exec.Read(ctx, query, params)
	if err != nil {
		return nil, err
	}
	views := make([]datatypes.ContractView, 0, len(rows))
	for _, row := range rows {
		view := datatypes.ContractView{
			ContractID:    graphdb.AsString(row["contractId"]),
			PipelineCode:  graphdb.AsString(row["pipelineCode"]),
			Shipper:       graphdb.AsString(row["shipper"]),
			EffectiveDate: graphdb.AsString(row["effectiveDate"]),
			EndDate:       graphdb.AsStringPtr(row["endDate"]),
		}
		if ps, ok := row["periods"].([]any); ok {
			for _, p := range ps {
				pm, ok := p.(map[string]any)
				if !ok {
					continue
				}
				view.Periods = append(view.Periods, datatypes.ContractPeriodView{
					EffectiveDate:      graphdb.AsString(pm["effectiveDate"]),
					EndDate:            graphdb.AsStringPtr(pm["endDate"]),
					ReceiptLocationID:  graphdb.AsInt64(pm["receiptLocationId"]),
					DeliveryLocationID: graphdb.AsInt64(pm["deliveryLocationId"]),
					MDQ:                orZero(graphdb.AsFloatPtr(pm["mdq"])),
				})
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// applyWindow adds the overlap predicate for an optional query
// window: instant when only start is set, interval when both are.
func applyWindow(where *graphdb.Where, alias string, start, end *time.Time) {
	switch {
	case start == nil:
	case end == nil:
		where.Raw(temporal.InstantClause(alias, "winStart"), map[string]any{"winStart": *start})
	default:
		where.Raw(temporal.RangeClause(alias, "winStart", "winEnd"), map[string]any{
			"winStart": *start,
			"winEnd":   *end,
		})
	}
}

func noticeFromRow(row graphdb.Record) datatypes.NoticeView {
	return datatypes.NoticeView{
		PipelineCode:         graphdb.AsString(row["pipelineCode"]),
		NoticeID:             graphdb.AsString(row["noticeId"]),
		Category:             graphdb.AsString(row["category"]),
		NoticeType:           graphdb.AsString(row["noticeType"]),
		Status:               graphdb.AsString(row["status"]),
		Subject:              graphdb.AsString(row["subject"]),
		Content:              graphdb.AsString(row["content"]),
		PostingDatetime:      graphdb.AsString(row["postingDatetime"]),
		EffectiveDatetime:    graphdb.AsString(row["effectiveDatetime"]),
		EndDatetime:          graphdb.AsStringPtr(row["endDatetime"]),
		LastModifiedDatetime: graphdb.AsString(row["lastModifiedDatetime"]),
		PriorNoticeID:        graphdb.AsString(row["priorNoticeId"]),
	}
}

func orZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
