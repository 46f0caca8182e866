// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import "time"

// Ingest row shapes. Batch ingest endpoints accept arrays of these;
// each row is validated independently so one malformed row yields a
// per-row error instead of failing the batch.

// LocationRow is one location in an ingest batch.
//
// Locations are logically versioned by effectiveDate/endDate rather
// than deleted. Coordinates are constrained to North America.
type LocationRow struct {
	PipelineCode      string     `json:"pipeline_code" binding:"required"`
	LocationID        int64      `json:"location_id" binding:"required"`
	Name              string     `json:"name" binding:"required"`
	Direction         string     `json:"direction" binding:"required,oneof=R D B T"`
	Zone              string     `json:"zone"`
	MarketArea        string     `json:"market_area"`
	TypeCode          string     `json:"type_code"`
	EffectiveDate     string     `json:"effective_date" binding:"required,datetime=2006-01-02"`
	EndDate           string     `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Latitude          *float64   `json:"latitude" binding:"omitempty,gte=20,lte=80"`
	Longitude         *float64   `json:"longitude" binding:"omitempty,gte=-130,lte=-60"`
	State             string     `json:"state"`
	County            string     `json:"county"`
	Country           string     `json:"country"`
	PrimaryDataSource string     `json:"primary_data_source"`
	PrimaryDataAsOf   *time.Time `json:"primary_data_as_of"`
}

// ConnectionRow is one directed physical adjacency in an ingest batch.
type ConnectionRow struct {
	PipelineCode   string `json:"pipeline_code" binding:"required"`
	FromLocationID int64  `json:"from_location_id" binding:"required"`
	ToLocationID   int64  `json:"to_location_id" binding:"required"`
	Version        string `json:"version"`
}

// ConstraintRow is one time-windowed restriction attached to a
// location. EndDatetime nil means the constraint is still active.
type ConstraintRow struct {
	PipelineCode      string     `json:"pipeline_code" binding:"required"`
	LocationID        int64      `json:"location_id" binding:"required"`
	Kind              string     `json:"kind" binding:"required"`
	Reason            string     `json:"reason"`
	Percent           *float64   `json:"percent" binding:"omitempty,gte=0,lte=100"`
	Limit             *float64   `json:"limit"`
	EffectiveDatetime time.Time  `json:"effective_datetime" binding:"required"`
	EndDatetime       *time.Time `json:"end_datetime"`
}

// NoticeRow is one pipeline notice. Upserts apply only when the
// incoming LastModifiedDatetime is >= the stored value.
type NoticeRow struct {
	PipelineCode         string     `json:"pipeline_code" binding:"required"`
	NoticeID             string     `json:"notice_id" binding:"required"`
	Category             string     `json:"category"`
	NoticeType           string     `json:"notice_type"`
	Status               string     `json:"status"`
	Subject              string     `json:"subject" binding:"required"`
	Content              string     `json:"content"`
	PostingDatetime      time.Time  `json:"posting_datetime" binding:"required"`
	EffectiveDatetime    time.Time  `json:"effective_datetime" binding:"required"`
	EndDatetime          *time.Time `json:"end_datetime"`
	LastModifiedDatetime time.Time  `json:"last_modified_datetime" binding:"required"`
	PriorNoticeID        string     `json:"prior_notice_id"`
}

// OACRow is one operationally-available-capacity snapshot. The
// composite of the ten key fields identifies the record; the latest
// PostingDatetime wins on re-delivery.
type OACRow struct {
	PipelineCode    string    `json:"pipeline_code" binding:"required"`
	Cycle           string    `json:"cycle" binding:"required,oneof=TIMELY EVENING ID1 ID2 ID3"`
	FlowDate        string    `json:"flow_date" binding:"required,datetime=2006-01-02"`
	LocationID      int64     `json:"location_id" binding:"required"`
	LocPurpDesc     string    `json:"loc_purp_desc"`
	LocQTI          string    `json:"loc_qti" binding:"required,oneof=RPQ DPQ"`
	Direction       string    `json:"direction" binding:"required,oneof=R D B T"`
	FlowIndicator   string    `json:"flow_indicator"`
	GrossOrNet      string    `json:"gross_or_net"`
	SchedStatus     string    `json:"sched_status"`
	PostingDatetime time.Time `json:"posting_datetime" binding:"required"`

	DesignCapacity                 *float64 `json:"design_capacity"`
	OperatingCapacity              *float64 `json:"operating_capacity"`
	OperationallyAvailableCapacity *float64 `json:"operationally_available_capacity"`
	TotalScheduledQty              *float64 `json:"total_scheduled_qty"`
	ITIndicator                    string   `json:"it_indicator"`
}

// FlowRow is one historical realized-flow row.
type FlowRow struct {
	PipelineCode        string   `json:"pipeline_code" binding:"required"`
	LocationID          int64    `json:"location_id" binding:"required"`
	FlowDate            string   `json:"flow_date" binding:"required,datetime=2006-01-02"`
	Cycle               string   `json:"cycle" binding:"required,oneof=TIMELY EVENING ID1 ID2 ID3"`
	OperationalCapacity *float64 `json:"operational_capacity"`
	ScheduledVolume     *float64 `json:"scheduled_volume"`
	Utilization         *float64 `json:"utilization"`
}

// PriceRow is one (symbol, tradingDay) price point. Upsert is
// unconditional, but rows referencing unknown symbols are rejected.
type PriceRow struct {
	Symbol     string   `json:"symbol" binding:"required"`
	TradingDay string   `json:"trading_day" binding:"required,datetime=2006-01-02"`
	Price      *float64 `json:"price" binding:"required"`
	Volume     *float64 `json:"volume"`
}

// NominationRow is one shipper nomination from a receipt location to
// a delivery location for a gas day/cycle.
type NominationRow struct {
	NomID              string   `json:"nom_id" binding:"required"`
	PipelineCode       string   `json:"pipeline_code" binding:"required"`
	ContractID         string   `json:"contract_id" binding:"required"`
	ReceiptLocationID  int64    `json:"receipt_location_id" binding:"required"`
	DeliveryLocationID int64    `json:"delivery_location_id" binding:"required"`
	FlowDate           string   `json:"flow_date" binding:"required,datetime=2006-01-02"`
	Cycle              string   `json:"cycle" binding:"required,oneof=TIMELY EVENING ID1 ID2 ID3"`
	ReceiptVolume      *float64 `json:"receipt_volume"`
	FuelLoss           *float64 `json:"fuel_loss"`
	DeliveryVolume     *float64 `json:"delivery_volume"`
}

// RawQueryRequest is the body of the read-only query pass-through.
type RawQueryRequest struct {
	Query  string         `json:"query" binding:"required"`
	Params map[string]any `json:"params"`
}
