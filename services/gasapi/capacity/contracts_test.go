// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package capacity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/gasline/services/gasapi/datatypes"
	"github.com/AleutianAI/gasline/services/gasapi/graphdb"
)

func strPtr(s string) *string { return &s }

func contract(id string, periods ...datatypes.ContractPeriodView) datatypes.ContractView {
	return datatypes.ContractView{
		ContractID:    id,
		PipelineCode:  "ANR",
		EffectiveDate: "2024-01-01",
		Periods:       periods,
	}
}

func period(effective string, end *string, receipt, delivery int64, mdq float64) datatypes.ContractPeriodView {
	return datatypes.ContractPeriodView{
		EffectiveDate:      effective,
		EndDate:            end,
		ReceiptLocationID:  receipt,
		DeliveryLocationID: delivery,
		MDQ:                mdq,
	}
}

func TestActivePeriod(t *testing.T) {
	c := contract("K-100",
		period("2024-01-01", strPtr("2024-12-31"), 1, 2, 5000),
		period("2025-01-01", nil, 3, 4, 8000),
	)

	flow, _ := time.Parse("2006-01-02", "2025-11-01")
	p := activePeriod(c, flow)
	require.NotNil(t, p)
	assert.Equal(t, int64(3), p.ReceiptLocationID)

	flow, _ = time.Parse("2006-01-02", "2024-06-15")
	p = activePeriod(c, flow)
	require.NotNil(t, p)
	assert.Equal(t, int64(1), p.ReceiptLocationID)

	// End date is end-inclusive
	flow, _ = time.Parse("2006-01-02", "2024-12-31")
	p = activePeriod(c, flow)
	require.NotNil(t, p)
	assert.Equal(t, int64(1), p.ReceiptLocationID)

	flow, _ = time.Parse("2006-01-02", "2023-06-15")
	assert.Nil(t, activePeriod(c, flow))
}

func TestEnrichContracts_MergesByIndex(t *testing.T) {
	// Two contracts; the fake executor answers every capacity query
	// with a single RPQ row, so both get identical capacity views but
	// keep their own identity and MDQ-derived fields.
	exec := &fakeExec{}
	// Four capacity lookups run in pass 3 (2 contracts x 2 sides),
	// plus none in passes 1-2. Seed enough identical responses.
	for i := 0; i < 4; i++ {
		exec.responses = append(exec.responses, []graphdb.Record{
			oacRow("2025-11-01T09:00:00Z", 1000.0, 400.0, 600.0),
		})
	}

	enricher := NewContractEnricher(NewAggregator(exec, nil), 2)

	contracts := []datatypes.ContractView{
		contract("K-1", period("2025-01-01", nil, 10, 20, 5000)),
		contract("K-2", period("2025-01-01", nil, 30, 40, 9000)),
	}

	flow, _ := time.Parse("2006-01-02", "2025-11-01")
	out, err := enricher.EnrichContracts(context.Background(), contracts, flow)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "K-1", out[0].ContractID)
	assert.Equal(t, "K-2", out[1].ContractID)

	require.NotNil(t, out[0].ScheduledQty)
	assert.Equal(t, 5000.0, *out[0].ScheduledQty)
	require.NotNil(t, out[1].MaxCapacity)
	assert.Equal(t, 9000.0, *out[1].MaxCapacity)

	require.NotNil(t, out[0].ReceiptCapacity)
	require.NotNil(t, out[0].DeliveryCapacity)
	assert.InDelta(t, 40.0, *out[0].ReceiptCapacity.AvailablePercent, 1e-9)
}

func TestEnrichContracts_NoActivePeriod(t *testing.T) {
	exec := &fakeExec{}
	enricher := NewContractEnricher(NewAggregator(exec, nil), 2)

	contracts := []datatypes.ContractView{
		contract("K-old", period("2020-01-01", strPtr("2020-12-31"), 1, 2, 5000)),
	}

	flow, _ := time.Parse("2006-01-02", "2025-11-01")
	out, err := enricher.EnrichContracts(context.Background(), contracts, flow)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Nil(t, out[0].ScheduledQty)
	assert.Nil(t, out[0].MaxCapacity)
	assert.Nil(t, out[0].ReceiptCapacity)
	assert.Nil(t, out[0].DeliveryCapacity)
	// No capacity lookups were issued at all
	assert.Empty(t, exec.queries)
}
