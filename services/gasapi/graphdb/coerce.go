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

// Coercion helpers for normalized Record values. Missing or
// differently-typed fields degrade to zero values / nil, matching
// nullable graph properties.

// AsInt64 coerces a record value to int64.
func AsInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		return 0
	}
}

// AsString coerces a record value to string.
func AsString(v any) string {
	s, _ := v.(string)
	return s
}

// AsBool coerces a record value to bool.
func AsBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// AsFloatPtr coerces a record value to *float64, nil when absent.
func AsFloatPtr(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int64:
		f := float64(n)
		return &f
	default:
		return nil
	}
}

// AsStringPtr coerces a record value to *string, nil when absent.
func AsStringPtr(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}
