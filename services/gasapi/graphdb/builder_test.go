// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graphdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhere_Empty(t *testing.T) {
	clause, params := NewWhere().Render()
	assert.Equal(t, "", clause)
	assert.Empty(t, params)
}

func TestWhere_SinglePredicate(t *testing.T) {
	clause, params := NewWhere().Eq("l.pipelineCode", "ANR").Render()
	assert.Equal(t, "WHERE l.pipelineCode = $p0", clause)
	assert.Equal(t, map[string]any{"p0": "ANR"}, params)
}

func TestWhere_CombinedPredicates(t *testing.T) {
	clause, params := NewWhere().
		Eq("l.pipelineCode", "ANR").
		Gte("l.locationId", int64(100)).
		Lte("l.locationId", int64(200)).
		Render()

	assert.Equal(t,
		"WHERE l.pipelineCode = $p0 AND l.locationId >= $p1 AND l.locationId <= $p2",
		clause)
	assert.Len(t, params, 3)
	assert.Equal(t, int64(100), params["p1"])
}

func TestWhere_MaybeSkipsAbsentFilters(t *testing.T) {
	// Conditional inclusion: empty optional filters add no clause
	clause, params := NewWhere().
		MaybeEq("l.zone", "").
		MaybeEq("l.direction", "R").
		MaybeEqAny("l.marketArea", nil).
		Render()

	assert.Equal(t, "WHERE l.direction = $p0", clause)
	assert.Equal(t, map[string]any{"p0": "R"}, params)
}

func TestWhere_Raw(t *testing.T) {
	clause, params := NewWhere().
		Eq("c.kind", "CAPACITY").
		Raw("(c.endDatetime IS NULL OR c.endDatetime >= $asOf)",
			map[string]any{"asOf": "2025-11-01T00:00:00Z"}).
		Render()

	assert.Equal(t,
		"WHERE c.kind = $p0 AND (c.endDatetime IS NULL OR c.endDatetime >= $asOf)",
		clause)
	assert.Equal(t, "2025-11-01T00:00:00Z", params["asOf"])
}

func TestWhere_In(t *testing.T) {
	clause, params := NewWhere().
		In("l.locationId", []any{int64(1), int64(2)}).
		Render()

	assert.Equal(t, "WHERE l.locationId IN $p0", clause)
	assert.Equal(t, []any{int64(1), int64(2)}, params["p0"])
}
