// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package temporal implements the time-window overlap predicate used
// across the service.
//
// Constraints, notices, OAC snapshots, and contract periods all carry
// an [effectiveDatetime, endDatetime?] window where a nil end means
// "still open". The same overlap rule applies to every one of them,
// so it lives here once, in two renderings: a Go predicate for
// in-process filtering and annotation, and Cypher fragments for
// pushing the identical rule into graph queries.
package temporal

import (
	"fmt"
	"time"
)

// Overlaps reports whether the window [windowStart, windowEnd]
// overlaps the query [queryStart, queryEnd].
//
// A nil windowEnd means the window is still open and is treated as
// +infinity. A nil queryEnd turns the query into a single-instant
// test: windowStart <= queryStart <= (windowEnd | +inf).
//
// All comparisons are inclusive at both boundaries.
func Overlaps(windowStart time.Time, windowEnd *time.Time, queryStart time.Time, queryEnd *time.Time) bool {
	qEnd := queryStart
	if queryEnd != nil {
		qEnd = *queryEnd
	}
	if windowStart.After(qEnd) {
		return false
	}
	if windowEnd != nil && windowEnd.Before(queryStart) {
		return false
	}
	return true
}

// GasDay returns the operational window for a flow date: start of day
// through one second before the next day, both inclusive.
//
// The end-inclusive 23:59:59 convention is load-bearing; day-bounded
// overlap checks derived from a single flow date depend on it.
func GasDay(flowDate time.Time) (start, end time.Time) {
	y, m, d := flowDate.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, flowDate.Location())
	end = start.Add(24*time.Hour - time.Second)
	return start, end
}

// ParseFlowDate parses a YYYY-MM-DD path parameter as a UTC date.
func ParseFlowDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid flow date %q, want YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// InstantClause renders the single-instant overlap test as a Cypher
// predicate over alias's effectiveDatetime/endDatetime properties,
// against the $param parameter.
func InstantClause(alias, param string) string {
	return fmt.Sprintf(
		"%[1]s.effectiveDatetime <= $%[2]s AND (%[1]s.endDatetime IS NULL OR %[1]s.endDatetime >= $%[2]s)",
		alias, param)
}

// RangeClause renders the interval overlap test as a Cypher predicate
// over alias's window, against the $startParam/$endParam parameters.
func RangeClause(alias, startParam, endParam string) string {
	return fmt.Sprintf(
		"%[1]s.effectiveDatetime <= $%[3]s AND (%[1]s.endDatetime IS NULL OR %[1]s.endDatetime >= $%[2]s)",
		alias, startParam, endParam)
}
