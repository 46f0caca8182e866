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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/gasline/services/gasapi/datatypes"
	"github.com/AleutianAI/gasline/services/gasapi/graphdb"
)

// fakeExec replays scripted responses in call order.
type fakeExec struct {
	responses [][]graphdb.Record
	errs      []error
	queries   []string
	params    []map[string]any
}

func (f *fakeExec) Read(_ context.Context, query string, params map[string]any) ([]graphdb.Record, error) {
	f.queries = append(f.queries, query)
	f.params = append(f.params, params)
	i := len(f.queries) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return nil, nil
}

func (f *fakeExec) Write(ctx context.Context, query string, params map[string]any) ([]graphdb.Record, error) {
	return f.Read(ctx, query, params)
}

func echo(i int64, applied bool) graphdb.Record {
	return graphdb.Record{"i": i, "applied": applied}
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestUpsertNotices_StaleRowIgnored(t *testing.T) {
	exec := &fakeExec{responses: [][]graphdb.Record{{
		echo(0, true),
		echo(1, false),
	}}}
	s := NewStore(exec, nil)

	rows := []datatypes.NoticeRow{
		{
			PipelineCode: "ANR", NoticeID: "N-1", Subject: "Maintenance at Sta 9",
			PostingDatetime:      ts("2025-11-01T08:00:00Z"),
			EffectiveDatetime:    ts("2025-11-02T09:00:00Z"),
			LastModifiedDatetime: ts("2025-11-01T08:00:00Z"),
		},
		{
			PipelineCode: "ANR", NoticeID: "N-1", Subject: "Stale duplicate",
			PostingDatetime:      ts("2025-10-30T08:00:00Z"),
			EffectiveDatetime:    ts("2025-11-02T09:00:00Z"),
			LastModifiedDatetime: ts("2025-10-30T08:00:00Z"),
		},
	}

	result, applied, err := s.UpsertNotices(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Received)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 1, result.Ignored)
	assert.Empty(t, result.RowErrors)
	assert.Equal(t, []int{0}, applied)

	require.Len(t, exec.queries, 1)
	assert.Contains(t, exec.queries[0], "n.lastModifiedDatetime <= row.lastModifiedDatetime")

	batch, ok := exec.params[0]["rows"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, batch, 2)
	assert.Equal(t, int64(0), batch[0]["i"])
	assert.Equal(t, "N-1", batch[0]["noticeId"])
	// Optional end datetime is a plain nil, never a typed pointer
	assert.Nil(t, batch[0]["endDatetime"])
}

func TestUpsertOAC_GuardAndKeyShape(t *testing.T) {
	exec := &fakeExec{responses: [][]graphdb.Record{{echo(0, true)}}}
	s := NewStore(exec, nil)

	op := 1000.0
	rows := []datatypes.OACRow{{
		PipelineCode: "ANR", Cycle: "TIMELY", FlowDate: "2025-11-01",
		LocationID: 9001, LocQTI: "RPQ", Direction: "R",
		PostingDatetime:   ts("2025-11-01T09:00:00Z"),
		OperatingCapacity: &op,
	}}

	result, err := s.UpsertOAC(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)

	q := exec.queries[0]
	assert.Contains(t, q, "o.postingDatetime <= row.postingDatetime")
	// All ten key fields anchor the MERGE
	for _, key := range []string{"cycle:", "flowDate:", "locPurpDesc:", "locQTI:", "direction:", "flowIndicator:", "grossOrNet:", "schedStatus:"} {
		assert.Contains(t, q, key)
	}

	batch := exec.params[0]["rows"].([]map[string]any)
	assert.Equal(t, 1000.0, batch[0]["operatingCapacity"])
	assert.Nil(t, batch[0]["designCapacity"])
}

func TestUpsertConnections_UnknownEndpointRejected(t *testing.T) {
	// Row 1 references a location the MATCH cannot find, so the
	// query only echoes row 0 back.
	exec := &fakeExec{responses: [][]graphdb.Record{{echo(0, true)}}}
	s := NewStore(exec, nil)

	rows := []datatypes.ConnectionRow{
		{PipelineCode: "ANR", FromLocationID: 1, ToLocationID: 2},
		{PipelineCode: "ANR", FromLocationID: 1, ToLocationID: 999999},
	}

	result, err := s.UpsertConnections(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Received)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 0, result.Ignored)
	require.Len(t, result.RowErrors, 1)
	assert.Equal(t, 1, result.RowErrors[0].Index)
	assert.Equal(t, "unknown endpoint location", result.RowErrors[0].Message)
}

func TestUpsertPrices_BadSymbolsRejected(t *testing.T) {
	// Row 0 is malformed and never reaches the graph. Row 1 is
	// well-formed but unknown, so the query drops it. Row 2 applies.
	exec := &fakeExec{responses: [][]graphdb.Record{{echo(1, true)}}}
	s := NewStore(exec, nil)

	price := 3.42
	rows := []datatypes.PriceRow{
		{Symbol: "hh", TradingDay: "2025-11-01", Price: &price},
		{Symbol: "NOPE", TradingDay: "2025-11-01", Price: &price},
		{Symbol: "HH", TradingDay: "2025-11-01", Price: &price},
	}

	result, err := s.UpsertPrices(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Received)
	assert.Equal(t, 1, result.Applied)
	require.Len(t, result.RowErrors, 2)
	assert.Equal(t, 0, result.RowErrors[0].Index)
	assert.Contains(t, result.RowErrors[0].Message, "invalid symbol format")
	assert.Equal(t, 1, result.RowErrors[1].Index)
	assert.Equal(t, "unknown symbol", result.RowErrors[1].Message)

	batch := exec.params[0]["rows"].([]map[string]any)
	require.Len(t, batch, 2)
	assert.Equal(t, "NOPE", batch[0]["symbol"])
}

func TestCreateNominations_DuplicateIgnored(t *testing.T) {
	exec := &fakeExec{responses: [][]graphdb.Record{{
		echo(0, true),
		echo(1, false),
	}}}
	s := NewStore(exec, nil)

	rows := []datatypes.NominationRow{
		{NomID: "NOM-1", PipelineCode: "ANR", ContractID: "K-1", ReceiptLocationID: 1, DeliveryLocationID: 2, FlowDate: "2025-11-01", Cycle: "TIMELY"},
		{NomID: "NOM-1", PipelineCode: "ANR", ContractID: "K-1", ReceiptLocationID: 1, DeliveryLocationID: 2, FlowDate: "2025-11-01", Cycle: "TIMELY"},
	}

	result, err := s.CreateNominations(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 1, result.Ignored)
}

func TestUpsertLocations_EmptyBatchNoQuery(t *testing.T) {
	exec := &fakeExec{}
	s := NewStore(exec, nil)

	result, err := s.UpsertLocations(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Received)
	assert.Empty(t, exec.queries)
}

func TestUpsertConstraints_ExecutorError(t *testing.T) {
	boom := errors.New("connection reset")
	exec := &fakeExec{errs: []error{boom}}
	s := NewStore(exec, nil)

	_, err := s.UpsertConstraints(context.Background(), []datatypes.ConstraintRow{{
		PipelineCode: "ANR", LocationID: 1, Kind: "OFO",
		EffectiveDatetime: ts("2025-11-01T00:00:00Z"),
	}})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
