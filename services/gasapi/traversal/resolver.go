// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package traversal resolves paths between locations through the
// CONNECTS_TO graph.
//
// Two traversal modes exist: single shortest path (bounds payload
// size for the public endpoint) and all shortest paths (used by
// nomination-impact queries, where multiple minimal-length paths may
// carry distinct constrained locations). An optional time window
// annotates every visited node with whether a constraint is active;
// the annotation is computed per node and never influences which
// path is chosen.
package traversal

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/gasline/services/gasapi/datatypes"
	"github.com/AleutianAI/gasline/services/gasapi/graphdb"
	"github.com/AleutianAI/gasline/services/gasapi/observability"
	"github.com/AleutianAI/gasline/services/gasapi/temporal"
)

var tracer = otel.Tracer("gasline.gasapi.traversal")

// Ref identifies a location endpoint by numeric id or legacy name.
type Ref struct {
	ID   *int64
	Name string
}

// ParseRef interprets a path/query parameter: all-digit strings are
// numeric location ids, anything else is a legacy location name.
func ParseRef(s string) Ref {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Ref{ID: &id}
	}
	return Ref{Name: s}
}

func (r Ref) String() string {
	if r.ID != nil {
		return strconv.FormatInt(*r.ID, 10)
	}
	return r.Name
}

// Window is the optional as-of filter for constraint annotation.
// A nil End tests a single instant; a set End tests interval overlap
// (the gas-day form used by nomination impact).
type Window struct {
	Start time.Time
	End   *time.Time
}

// Resolver finds paths between network locations.
type Resolver struct {
	exec    graphdb.Executor
	maxHops int
	metrics *observability.Metrics
}

// NewResolver creates a Resolver. maxHops is the hard traversal
// bound; client-requested bounds are clamped to it. metrics may be
// nil in tests.
func NewResolver(exec graphdb.Executor, maxHops int, metrics *observability.Metrics) *Resolver {
	if maxHops <= 0 {
		maxHops = 100
	}
	return &Resolver{exec: exec, maxHops: maxHops, metrics: metrics}
}

// ShortestPath returns one shortest path from `from` to `to`, or nil
// when the endpoints exist but no path connects them. Unknown
// endpoints are a client input error.
func (r *Resolver) ShortestPath(ctx context.Context, from, to Ref, maxHops int, window *Window) (*datatypes.PathView, error) {
	ctx, span := tracer.Start(ctx, "traversal.ShortestPath")
	defer span.End()
	span.SetAttributes(
		attribute.String("from", from.String()),
		attribute.String("to", to.String()),
	)

	paths, err := r.resolve(ctx, "shortest", from, to, maxHops, window)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}
	return &paths[0], nil
}

// AllShortestPaths returns every minimal-length path from `from` to
// `to`. An empty slice means the endpoints are disconnected.
func (r *Resolver) AllShortestPaths(ctx context.Context, from, to Ref, maxHops int, window *Window) ([]datatypes.PathView, error) {
	ctx, span := tracer.Start(ctx, "traversal.AllShortestPaths")
	defer span.End()

	return r.resolve(ctx, "all_shortest", from, to, maxHops, window)
}

func (r *Resolver) resolve(ctx context.Context, mode string, from, to Ref, maxHops int, window *Window) ([]datatypes.PathView, error) {
	start := time.Now()

	fromNode, err := r.endpoint(ctx, from)
	if err != nil {
		r.count(mode, "error")
		return nil, err
	}
	toNode, err := r.endpoint(ctx, to)
	if err != nil {
		r.count(mode, "error")
		return nil, err
	}

	// Identical endpoints resolve to a trivial zero-length path
	// rather than not-found. Kept deliberate and uniform across
	// endpoints; see DESIGN.md.
	if fromNode.LocationID == toNode.LocationID && fromNode.PipelineCode == toNode.PipelineCode {
		if window != nil {
			if err := r.annotateNodes(ctx, []*datatypes.LocationView{fromNode}, window); err != nil {
				r.count(mode, "error")
				return nil, err
			}
		}
		r.count(mode, "found")
		return []datatypes.PathView{{Nodes: []datatypes.LocationView{*fromNode}, Edges: []datatypes.ConnectionView{}}}, nil
	}

	if maxHops <= 0 || maxHops > r.maxHops {
		maxHops = r.maxHops
	}

	query, params := r.pathQuery(mode, maxHops, window)
	// Location identity is (pipelineCode, locationId); the id alone
	// can bind a node on another pipeline.
	params["fromId"] = fromNode.LocationID
	params["fromPipeline"] = fromNode.PipelineCode
	params["toId"] = toNode.LocationID
	params["toPipeline"] = toNode.PipelineCode

	rows, err := r.exec.Read(ctx, query, params)
	if err != nil {
		r.count(mode, "error")
		return nil, err
	}

	paths := make([]datatypes.PathView, 0, len(rows))
	for _, row := range rows {
		path, err := parsePathRow(row, window != nil)
		if err != nil {
			r.count(mode, "error")
			return nil, err
		}
		paths = append(paths, path)
	}

	if r.metrics != nil {
		r.metrics.QueryDurationSeconds.WithLabelValues("path_" + mode).Observe(time.Since(start).Seconds())
	}
	if len(paths) == 0 {
		r.count(mode, "not_found")
	} else {
		r.count(mode, "found")
	}
	return paths, nil
}

func (r *Resolver) count(mode, outcome string) {
	if r.metrics != nil {
		r.metrics.PathQueriesTotal.WithLabelValues(mode, outcome).Inc()
	}
}

// endpoint resolves a Ref to a concrete location or a client error.
func (r *Resolver) endpoint(ctx context.Context, ref Ref) (*datatypes.LocationView, error) {
	where := graphdb.NewWhere()
	if ref.ID != nil {
		where.Eq("l.locationId", *ref.ID)
	} else if ref.Name != "" {
		where.Eq("l.name", ref.Name)
	} else {
		return nil, fmt.Errorf("%w: empty location identifier", datatypes.ErrValidation)
	}
	clause, params := where.Render()

	query := fmt.Sprintf(`MATCH (l:Location) %s
RETURN l.locationId AS locationId, l.pipelineCode AS pipelineCode, l.name AS name,
       l.direction AS direction, l.zone AS zone, l.marketArea AS marketArea
LIMIT 1`, clause)

	rows, err := r.exec.Read(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: unknown location %q", datatypes.ErrValidation, ref.String())
	}
	view := locationFromRow(rows[0])
	return &view, nil
}

// pathQuery assembles the traversal query. The hop bound is spliced
// numerically because Cypher cannot parameterize variable-length
// bounds; it is a clamped int, never request text.
func (r *Resolver) pathQuery(mode string, maxHops int, window *Window) (string, map[string]any) {
	fn := "shortestPath"
	if mode == "all_shortest" {
		fn = "allShortestPaths"
	}

	params := map[string]any{}
	constrainedCol := ""
	if window != nil {
		var clause string
		if window.End == nil {
			clause = temporal.InstantClause("c", "winStart")
		} else {
			clause = temporal.RangeClause("c", "winStart", "winEnd")
			params["winEnd"] = *window.End
		}
		params["winStart"] = window.Start
		constrainedCol = fmt.Sprintf(`,
       [n IN nodes(p) | EXISTS { MATCH (n)-[:HAS_CONSTRAINT]->(c:Constraint) WHERE %s }] AS constrained`, clause)
	}

	query := fmt.Sprintf(`MATCH (from:Location {pipelineCode: $fromPipeline, locationId: $fromId}), (to:Location {pipelineCode: $toPipeline, locationId: $toId})
MATCH p = %s((from)-[:CONNECTS_TO*..%d]->(to))
RETURN [n IN nodes(p) | n {.locationId, .pipelineCode, .name, .direction, .zone, .marketArea, .latitude, .longitude}] AS nodes,
       [rel IN relationships(p) | {fromId: startNode(rel).locationId, toId: endNode(rel).locationId, version: rel.version}] AS edges%s`,
		fn, maxHops, constrainedCol)

	return query, params
}

// annotateNodes fills the Constrained flag for nodes outside a path
// query (the trivial-path case).
func (r *Resolver) annotateNodes(ctx context.Context, nodes []*datatypes.LocationView, window *Window) error {
	params := map[string]any{"winStart": window.Start}
	clause := temporal.InstantClause("c", "winStart")
	if window.End != nil {
		clause = temporal.RangeClause("c", "winStart", "winEnd")
		params["winEnd"] = *window.End
	}

	for _, node := range nodes {
		params["locId"] = node.LocationID
		params["pipeline"] = node.PipelineCode
		query := fmt.Sprintf(`MATCH (l:Location {pipelineCode: $pipeline, locationId: $locId})
RETURN EXISTS { MATCH (l)-[:HAS_CONSTRAINT]->(c:Constraint) WHERE %s } AS constrained`, clause)
		rows, err := r.exec.Read(ctx, query, params)
		if err != nil {
			return err
		}
		if len(rows) == 1 {
			if b, ok := rows[0]["constrained"].(bool); ok {
				node.Constrained = &b
			}
		}
	}
	return nil
}

// =============================================================================
// Row parsing
// =============================================================================

func parsePathRow(row graphdb.Record, annotated bool) (datatypes.PathView, error) {
	rawNodes, ok := row["nodes"].([]any)
	if !ok {
		return datatypes.PathView{}, fmt.Errorf("path row missing nodes column")
	}
	rawEdges, _ := row["edges"].([]any)

	path := datatypes.PathView{
		Nodes: make([]datatypes.LocationView, 0, len(rawNodes)),
		Edges: make([]datatypes.ConnectionView, 0, len(rawEdges)),
	}

	var flags []any
	if annotated {
		flags, _ = row["constrained"].([]any)
	}

	for i, raw := range rawNodes {
		props, ok := raw.(map[string]any)
		if !ok {
			return datatypes.PathView{}, fmt.Errorf("path node %d is not a map", i)
		}
		view := locationFromRow(props)
		if annotated && i < len(flags) {
			if b, ok := flags[i].(bool); ok {
				view.Constrained = &b
			}
		}
		path.Nodes = append(path.Nodes, view)
	}

	for _, raw := range rawEdges {
		props, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		path.Edges = append(path.Edges, datatypes.ConnectionView{
			FromLocationID: graphdb.AsInt64(props["fromId"]),
			ToLocationID:   graphdb.AsInt64(props["toId"]),
			Version:        graphdb.AsString(props["version"]),
		})
	}
	return path, nil
}

func locationFromRow(props map[string]any) datatypes.LocationView {
	return datatypes.LocationView{
		LocationID:   graphdb.AsInt64(props["locationId"]),
		PipelineCode: graphdb.AsString(props["pipelineCode"]),
		Name:         graphdb.AsString(props["name"]),
		Direction:    graphdb.AsString(props["direction"]),
		Zone:         graphdb.AsString(props["zone"]),
		MarketArea:   graphdb.AsString(props["marketArea"]),
		Latitude:     graphdb.AsFloatPtr(props["latitude"]),
		Longitude:    graphdb.AsFloatPtr(props["longitude"]),
	}
}
