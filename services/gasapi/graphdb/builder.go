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
	"fmt"
	"strings"
)

// Where accumulates typed predicates and renders them to a Cypher
// WHERE fragment plus a parameter map. Values always travel as query
// parameters; property names are compile-time constants supplied by
// the store layer, so no request-derived text is ever spliced into
// query strings.
//
// Optional filters use the Maybe* methods, which skip absent values.
// This reproduces conditional clause inclusion without string
// concatenation of values.
type Where struct {
	exprs  []string
	params map[string]any
	n      int
}

// NewWhere returns an empty predicate list.
func NewWhere() *Where {
	return &Where{params: make(map[string]any)}
}

// next registers a value under a fresh parameter name.
func (w *Where) next(value any) string {
	name := fmt.Sprintf("p%d", w.n)
	w.n++
	w.params[name] = value
	return name
}

// Eq adds `property = value`.
func (w *Where) Eq(property string, value any) *Where {
	name := w.next(value)
	w.exprs = append(w.exprs, fmt.Sprintf("%s = $%s", property, name))
	return w
}

// Gte adds `property >= value`.
func (w *Where) Gte(property string, value any) *Where {
	name := w.next(value)
	w.exprs = append(w.exprs, fmt.Sprintf("%s >= $%s", property, name))
	return w
}

// Lte adds `property <= value`.
func (w *Where) Lte(property string, value any) *Where {
	name := w.next(value)
	w.exprs = append(w.exprs, fmt.Sprintf("%s <= $%s", property, name))
	return w
}

// In adds `property IN values`.
func (w *Where) In(property string, values []any) *Where {
	name := w.next(values)
	w.exprs = append(w.exprs, fmt.Sprintf("%s IN $%s", property, name))
	return w
}

// Raw adds a prebuilt expression with its parameters. Used for the
// shared temporal-overlap fragment, which needs OR/IS NULL structure
// the simple combinators don't produce.
func (w *Where) Raw(expr string, params map[string]any) *Where {
	w.exprs = append(w.exprs, expr)
	for k, v := range params {
		w.params[k] = v
	}
	return w
}

// MaybeEq adds `property = value` unless value is the zero string.
func (w *Where) MaybeEq(property, value string) *Where {
	if value == "" {
		return w
	}
	return w.Eq(property, value)
}

// MaybeEqAny adds `property = value` unless value is nil.
func (w *Where) MaybeEqAny(property string, value any) *Where {
	if value == nil {
		return w
	}
	return w.Eq(property, value)
}

// Render returns the WHERE fragment (including the leading keyword)
// and the parameter map. An empty predicate list renders to "".
func (w *Where) Render() (string, map[string]any) {
	if len(w.exprs) == 0 {
		return "", w.params
	}
	return "WHERE " + strings.Join(w.exprs, " AND "), w.params
}
