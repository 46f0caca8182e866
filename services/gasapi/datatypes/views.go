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

// Response views. These are flattened graph rows, already normalized
// to portable primitives (datetimes as ISO-8601 strings).

// Page echoes the pagination window applied to a list response.
type Page struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// LocationView is one location on a list or path response.
//
// Constrained is only populated on path responses queried with an
// as-of instant; it reports whether any attached constraint window
// covers that instant. It never influences which path was chosen.
type LocationView struct {
	LocationID   int64    `json:"location_id"`
	PipelineCode string   `json:"pipeline_code"`
	Name         string   `json:"name"`
	Direction    string   `json:"direction"`
	Zone         string   `json:"zone,omitempty"`
	MarketArea   string   `json:"market_area,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Constrained  *bool    `json:"constrained,omitempty"`
}

// ConnectionView is one traversed edge on a path response.
type ConnectionView struct {
	FromLocationID int64  `json:"from_location_id"`
	ToLocationID   int64  `json:"to_location_id"`
	Version        string `json:"version,omitempty"`
}

// PathView is one resolved path.
type PathView struct {
	Nodes []LocationView   `json:"nodes"`
	Edges []ConnectionView `json:"edges"`
}

// ConstraintView is one constraint row.
type ConstraintView struct {
	PipelineCode      string   `json:"pipeline_code"`
	LocationID        int64    `json:"location_id"`
	LocationName      string   `json:"location_name,omitempty"`
	Kind              string   `json:"kind"`
	Reason            string   `json:"reason,omitempty"`
	Percent           *float64 `json:"percent,omitempty"`
	Limit             *float64 `json:"limit,omitempty"`
	EffectiveDatetime string   `json:"effective_datetime"`
	EndDatetime       *string  `json:"end_datetime,omitempty"`
}

// NoticeView is one notice row.
type NoticeView struct {
	PipelineCode         string  `json:"pipeline_code"`
	NoticeID             string  `json:"notice_id"`
	Category             string  `json:"category,omitempty"`
	NoticeType           string  `json:"notice_type,omitempty"`
	Status               string  `json:"status,omitempty"`
	Subject              string  `json:"subject"`
	Content              string  `json:"content,omitempty"`
	PostingDatetime      string  `json:"posting_datetime"`
	EffectiveDatetime    string  `json:"effective_datetime"`
	EndDatetime          *string `json:"end_datetime,omitempty"`
	LastModifiedDatetime string  `json:"last_modified_datetime"`
	PriorNoticeID        string  `json:"prior_notice_id,omitempty"`
}

// CapacityView is one OAC snapshot with derived percentages.
//
// AvailablePercent and UtilizationPercent are nil, not zero, whenever
// OperatingCapacity is nil or exactly zero.
type CapacityView struct {
	PipelineCode                   string   `json:"pipeline_code"`
	Cycle                          string   `json:"cycle"`
	FlowDate                       string   `json:"flow_date"`
	LocationID                     int64    `json:"location_id"`
	LocQTI                         string   `json:"loc_qti"`
	PostingDatetime                string   `json:"posting_datetime"`
	DesignCapacity                 *float64 `json:"design_capacity,omitempty"`
	OperatingCapacity              *float64 `json:"operating_capacity,omitempty"`
	OperationallyAvailableCapacity *float64 `json:"operationally_available_capacity,omitempty"`
	TotalScheduledQty              *float64 `json:"total_scheduled_qty,omitempty"`
	AvailablePercent               *float64 `json:"available_percent,omitempty"`
	UtilizationPercent             *float64 `json:"utilization_percent,omitempty"`
}

// NominationView is one nomination row.
type NominationView struct {
	NomID              string   `json:"nom_id"`
	PipelineCode       string   `json:"pipeline_code"`
	ContractID         string   `json:"contract_id"`
	ReceiptLocationID  int64    `json:"receipt_location_id"`
	DeliveryLocationID int64    `json:"delivery_location_id"`
	FlowDate           string   `json:"flow_date"`
	Cycle              string   `json:"cycle"`
	ReceiptVolume      *float64 `json:"receipt_volume,omitempty"`
	FuelLoss           *float64 `json:"fuel_loss,omitempty"`
	DeliveryVolume     *float64 `json:"delivery_volume,omitempty"`
}

// ContractPeriodView is one season/period under a contract, with its
// primary receipt/delivery pair and MDQ.
type ContractPeriodView struct {
	EffectiveDate      string  `json:"effective_date"`
	EndDate            *string `json:"end_date,omitempty"`
	ReceiptLocationID  int64   `json:"receipt_location_id"`
	DeliveryLocationID int64   `json:"delivery_location_id"`
	MDQ                float64 `json:"mdq"`
}

// ContractView is one transportation contract with its periods.
type ContractView struct {
	ContractID    string               `json:"contract_id"`
	PipelineCode  string               `json:"pipeline_code"`
	Shipper       string               `json:"shipper,omitempty"`
	EffectiveDate string               `json:"effective_date"`
	EndDate       *string              `json:"end_date,omitempty"`
	Periods       []ContractPeriodView `json:"periods,omitempty"`
}

// EnrichedContract is a contract after the three enrichment passes.
type EnrichedContract struct {
	ContractView

	ScheduledQty     *float64      `json:"scheduled_qty,omitempty"`
	MaxCapacity      *float64      `json:"max_capacity,omitempty"`
	ReceiptCapacity  *CapacityView `json:"receipt_capacity,omitempty"`
	DeliveryCapacity *CapacityView `json:"delivery_capacity,omitempty"`
}

// IngestResult summarizes one batch ingest call.
type IngestResult struct {
	Received  int         `json:"received"`
	Applied   int         `json:"applied"`
	Ignored   int         `json:"ignored"`
	RowErrors []RowError  `json:"row_errors,omitempty"`
}

// RowError reports a validation or execution failure for one row of
// a batch, identified by its zero-based index.
type RowError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}
