// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/gasline/services/gasapi/capacity"
	"github.com/AleutianAI/gasline/services/gasapi/config"
	"github.com/AleutianAI/gasline/services/gasapi/datatypes"
	"github.com/AleutianAI/gasline/services/gasapi/traversal"
)

// pathParams pulls the shared path-query inputs out of the request.
func pathParams(c *gin.Context, cfg *config.Config) (from, to traversal.Ref, maxHops int, window *traversal.Window, err error) {
	fromRaw, toRaw := c.Query("from"), c.Query("to")
	if fromRaw == "" || toRaw == "" {
		err = fmt.Errorf("%w: from and to are required", datatypes.ErrValidation)
		return
	}
	from, to = traversal.ParseRef(fromRaw), traversal.ParseRef(toRaw)

	maxHops = cfg.Query.MaxHops
	if raw := c.Query("maxHops"); raw != "" {
		maxHops, err = strconv.Atoi(raw)
		if err != nil || maxHops <= 0 {
			err = fmt.Errorf("%w: maxHops must be a positive integer", datatypes.ErrValidation)
			return
		}
	}

	if asOf := c.Query("asOf"); asOf != "" {
		var at time.Time
		at, err = time.Parse(time.RFC3339, asOf)
		if err != nil {
			err = fmt.Errorf("%w: asOf must be RFC 3339", datatypes.ErrValidation)
			return
		}
		window = &traversal.Window{Start: at}
	}
	return
}

// GetPath returns one shortest path between two locations, with
// optional as-of constraint annotation. No path is a 200 with an
// empty list, not a 404: both endpoints exist, they just do not
// connect.
func GetPath(resolver *traversal.Resolver, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "handlers.GetPath")
		defer span.End()

		from, to, maxHops, window, err := pathParams(c, cfg)
		if err != nil {
			respondError(c, err)
			return
		}

		path, err := resolver.ShortestPath(ctx, from, to, maxHops, window)
		if err != nil {
			respondError(c, err)
			return
		}

		paths := []datatypes.PathView{}
		if path != nil {
			paths = append(paths, *path)
		}
		c.JSON(http.StatusOK, gin.H{"count": len(paths), "paths": paths})
	}
}

// segmentCapacity is one path node with its receipt/delivery OAC.
type segmentCapacity struct {
	Location datatypes.LocationView  `json:"location"`
	Receipt  *datatypes.CapacityView `json:"receipt_capacity,omitempty"`
	Delivery *datatypes.CapacityView `json:"delivery_capacity,omitempty"`
}

// enrichedPath is one path with per-node capacity.
type enrichedPath struct {
	datatypes.PathView
	Segments []segmentCapacity `json:"segments"`
}

// GetPathDetails returns every shortest path between two locations
// and enriches each node with its latest receipt and delivery OAC
// for the given flow date. Lookups run concurrently under the
// configured bound; node order within each path is preserved.
func GetPathDetails(resolver *traversal.Resolver, agg *capacity.Aggregator, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "handlers.GetPathDetails")
		defer span.End()

		from, to, maxHops, window, err := pathParams(c, cfg)
		if err != nil {
			respondError(c, err)
			return
		}

		flowDate := time.Now().UTC()
		if window != nil {
			flowDate = window.Start
		}

		paths, err := resolver.AllShortestPaths(ctx, from, to, maxHops, window)
		if err != nil {
			respondError(c, err)
			return
		}

		pipeline := c.Query("pipeline")
		enriched := make([]enrichedPath, 0, len(paths))
		for _, p := range paths {
			segments, err := capacity.Enrich(ctx, p.Nodes, cfg.Enrichment.Concurrency,
				func(ctx context.Context, node datatypes.LocationView) (segmentCapacity, error) {
					return lookupSegment(ctx, agg, pipeline, node, flowDate)
				})
			if err != nil {
				respondError(c, err)
				return
			}
			enriched = append(enriched, enrichedPath{PathView: p, Segments: segments})
		}

		c.JSON(http.StatusOK, gin.H{"count": len(enriched), "paths": enriched})
	}
}

func lookupSegment(ctx context.Context, agg *capacity.Aggregator, pipeline string, node datatypes.LocationView, flowDate time.Time) (segmentCapacity, error) {
	seg := segmentCapacity{Location: node}
	ref := traversal.Ref{ID: &node.LocationID}

	rec, err := agg.CapacityAt(ctx, pipeline, ref, datatypes.LocQTIReceipt, flowDate, "", 1)
	if err != nil {
		return seg, err
	}
	if len(rec.Records) > 0 {
		seg.Receipt = &rec.Records[0]
	}

	del, err := agg.CapacityAt(ctx, pipeline, ref, datatypes.LocQTIDelivery, flowDate, "", 1)
	if err != nil {
		return seg, err
	}
	if len(del.Records) > 0 {
		seg.Delivery = &del.Records[0]
	}
	return seg, nil
}
