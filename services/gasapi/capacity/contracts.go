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
	"time"

	"github.com/AleutianAI/gasline/services/gasapi/datatypes"
	"github.com/AleutianAI/gasline/services/gasapi/temporal"
	"github.com/AleutianAI/gasline/services/gasapi/traversal"
)

// ContractEnricher layers scheduled-quantity, max-capacity, and
// paired receipt/delivery capacity lookups onto a contract list.
//
// The three passes run sequentially; within each pass the
// concurrency bound applies. A failure anywhere fails the whole
// pass (see Enrich).
type ContractEnricher struct {
	agg         *Aggregator
	concurrency int
}

// NewContractEnricher creates a ContractEnricher around agg.
func NewContractEnricher(agg *Aggregator, concurrency int) *ContractEnricher {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &ContractEnricher{agg: agg, concurrency: concurrency}
}

// EnrichContracts runs the three passes over contracts for flowDate.
// Output order matches input order.
func (e *ContractEnricher) EnrichContracts(ctx context.Context, contracts []datatypes.ContractView, flowDate time.Time) ([]datatypes.EnrichedContract, error) {
	enriched := make([]datatypes.EnrichedContract, len(contracts))
	for i, c := range contracts {
		enriched[i] = datatypes.EnrichedContract{ContractView: c}
	}

	// Pass 1: scheduled quantity.
	qtys, err := Enrich(ctx, contracts, e.concurrency, func(ctx context.Context, c datatypes.ContractView) (*float64, error) {
		return e.scheduledQty(ctx, c, flowDate)
	})
	if err != nil {
		return nil, err
	}
	for i := range enriched {
		enriched[i].ScheduledQty = qtys[i]
	}

	// Pass 2: maximum capacity.
	maxes, err := Enrich(ctx, contracts, e.concurrency, func(ctx context.Context, c datatypes.ContractView) (*float64, error) {
		return e.maxCapacity(ctx, c, flowDate)
	})
	if err != nil {
		return nil, err
	}
	for i := range enriched {
		enriched[i].MaxCapacity = maxes[i]
	}

	// Pass 3: paired receipt (RPQ) and delivery (DPQ) capacity at
	// the period's primary locations.
	type pair struct {
		receipt  *datatypes.CapacityView
		delivery *datatypes.CapacityView
	}
	pairs, err := Enrich(ctx, contracts, e.concurrency, func(ctx context.Context, c datatypes.ContractView) (pair, error) {
		period := activePeriod(c, flowDate)
		if period == nil {
			return pair{}, nil
		}
		rec, err := e.latestCapacity(ctx, c.PipelineCode, period.ReceiptLocationID, datatypes.LocQTIReceipt, flowDate)
		if err != nil {
			return pair{}, err
		}
		del, err := e.latestCapacity(ctx, c.PipelineCode, period.DeliveryLocationID, datatypes.LocQTIDelivery, flowDate)
		if err != nil {
			return pair{}, err
		}
		return pair{receipt: rec, delivery: del}, nil
	})
	if err != nil {
		return nil, err
	}
	for i := range enriched {
		enriched[i].ReceiptCapacity = pairs[i].receipt
		enriched[i].DeliveryCapacity = pairs[i].delivery
	}

	return enriched, nil
}

func (e *ContractEnricher) latestCapacity(ctx context.Context, pipelineCode string, locationID int64, locQTI string, flowDate time.Time) (*datatypes.CapacityView, error) {
	result, err := e.agg.CapacityAt(ctx, pipelineCode, traversal.Ref{ID: &locationID}, locQTI, flowDate, "", 1)
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, nil
	}
	return &result.Records[0], nil
}

// scheduledQty is a placeholder: no upstream scheduled-quantity feed
// is wired yet. It resolves to the active period's MDQ so downstream
// consumers get a defensible upper bound instead of nothing.
func (e *ContractEnricher) scheduledQty(_ context.Context, c datatypes.ContractView, flowDate time.Time) (*float64, error) {
	if p := activePeriod(c, flowDate); p != nil {
		qty := p.MDQ
		return &qty, nil
	}
	return nil, nil
}

// maxCapacity is a placeholder: real max capacity needs segment
// ratings that are not modeled yet. It resolves to the largest MDQ
// across the contract's periods active on flowDate.
func (e *ContractEnricher) maxCapacity(_ context.Context, c datatypes.ContractView, flowDate time.Time) (*float64, error) {
	var max *float64
	for i := range c.Periods {
		p := &c.Periods[i]
		if !periodActive(p, flowDate) {
			continue
		}
		if max == nil || p.MDQ > *max {
			v := p.MDQ
			max = &v
		}
	}
	return max, nil
}

// activePeriod returns the first period whose validity window covers
// the gas day of flowDate, nil when none does.
func activePeriod(c datatypes.ContractView, flowDate time.Time) *datatypes.ContractPeriodView {
	for i := range c.Periods {
		if periodActive(&c.Periods[i], flowDate) {
			return &c.Periods[i]
		}
	}
	return nil
}

func periodActive(p *datatypes.ContractPeriodView, flowDate time.Time) bool {
	start, err := time.Parse("2006-01-02", p.EffectiveDate)
	if err != nil {
		return false
	}
	var end *time.Time
	if p.EndDate != nil {
		if parsed, err := time.Parse("2006-01-02", *p.EndDate); err == nil {
			// Contract end dates are end-inclusive gas days.
			_, dayEnd := temporal.GasDay(parsed)
			end = &dayEnd
		}
	}
	dayStart, dayEnd := temporal.GasDay(flowDate)
	return temporal.Overlaps(start, end, dayStart, &dayEnd)
}
