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
	"strconv"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// maxSafeInteger is the largest integer a JSON consumer can hold
// without precision loss (2^53 - 1). Values outside ±this range are
// surfaced as decimal strings, never silently truncated.
const maxSafeInteger int64 = 1<<53 - 1

// NormalizeValue converts a driver-native value into portable
// primitives: nil, bool, int64, float64, string, ISO-8601 temporal
// strings, and nested maps/slices of the same. Pure and recursive.
func NormalizeValue(v any) any {
	switch val := v.(type) {
	case nil, bool, string, float64:
		return val
	case int64:
		if val > maxSafeInteger || val < -maxSafeInteger {
			return strconv.FormatInt(val, 10)
		}
		return val
	case int:
		return NormalizeValue(int64(val))
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case dbtype.Date:
		return time.Time(val).Format("2006-01-02")
	case dbtype.LocalDateTime:
		return time.Time(val).Format("2006-01-02T15:04:05")
	case dbtype.Time:
		return time.Time(val).Format("15:04:05Z07:00")
	case dbtype.LocalTime:
		return time.Time(val).Format("15:04:05")
	case dbtype.Duration:
		return val.String()
	case dbtype.Node:
		return map[string]any{
			"element_id": val.ElementId,
			"labels":     val.Labels,
			"properties": normalizeMap(val.Props),
		}
	case dbtype.Relationship:
		return map[string]any{
			"element_id":       val.ElementId,
			"start_element_id": val.StartElementId,
			"end_element_id":   val.EndElementId,
			"type":             val.Type,
			"properties":       normalizeMap(val.Props),
		}
	case dbtype.Path:
		nodes := make([]any, len(val.Nodes))
		for i, n := range val.Nodes {
			nodes[i] = NormalizeValue(n)
		}
		rels := make([]any, len(val.Relationships))
		for i, r := range val.Relationships {
			rels[i] = NormalizeValue(r)
		}
		return map[string]any{"nodes": nodes, "relationships": rels}
	case dbtype.Point2D:
		return map[string]any{"srid": int64(val.SpatialRefId), "x": val.X, "y": val.Y}
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = NormalizeValue(item)
		}
		return out
	case map[string]any:
		return normalizeMap(val)
	default:
		// Unknown driver types degrade to their Go representation
		// rather than dropping data.
		return val
	}
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = NormalizeValue(v)
	}
	return out
}
