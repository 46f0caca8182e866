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

// Location flow directions. Historically abbreviated on pipeline
// bulletin boards, so both forms are accepted on ingest.
const (
	DirectionReceipt       = "R"
	DirectionDelivery      = "D"
	DirectionBidirectional = "B"
	DirectionThroughput    = "T"
)

// NormalizeDirection maps long-form direction names to their
// single-letter codes. Unknown values are returned unchanged so the
// validator can reject them with the original input in the message.
func NormalizeDirection(s string) string {
	switch s {
	case "Receipt":
		return DirectionReceipt
	case "Delivery":
		return DirectionDelivery
	case "Bidirectional":
		return DirectionBidirectional
	case "Throughput":
		return DirectionThroughput
	default:
		return s
	}
}

// Quantity-type indicators for capacity records.
const (
	// LocQTIReceipt is the receipt-side quantity type (RPQ).
	LocQTIReceipt = "RPQ"

	// LocQTIDelivery is the delivery-side quantity type (DPQ).
	LocQTIDelivery = "DPQ"
)

// Nomination cycles. Deadlines are pipeline-specific; the codes are
// industry-standard.
const (
	CycleTimely    = "TIMELY"
	CycleEvening   = "EVENING"
	CycleIntraday1 = "ID1"
	CycleIntraday2 = "ID2"
	CycleIntraday3 = "ID3"
)
