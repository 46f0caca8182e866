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
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/gasline/services/gasapi/capacity"
	"github.com/AleutianAI/gasline/services/gasapi/config"
	"github.com/AleutianAI/gasline/services/gasapi/datatypes"
	"github.com/AleutianAI/gasline/services/gasapi/store"
	"github.com/AleutianAI/gasline/services/gasapi/temporal"
	"github.com/AleutianAI/gasline/services/gasapi/traversal"
)

// ListLocations lists locations with optional pipeline, zone,
// market-area, direction, name, and as-of filters.
func ListLocations(s *store.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "handlers.ListLocations")
		defer span.End()

		skip, limit := pagination(c, cfg)
		pipeline, err := pipelineParam(c)
		if err != nil {
			respondError(c, err)
			return
		}
		asOf := c.Query("asOf")
		if asOf != "" {
			if _, err := temporal.ParseFlowDate(asOf); err != nil {
				respondError(c, fmt.Errorf("%w: %s", datatypes.ErrValidation, err))
				return
			}
		}

		views, err := s.ListLocations(ctx, store.LocationFilter{
			PipelineCode: pipeline,
			Zone:         c.Query("zone"),
			MarketArea:   c.Query("marketArea"),
			Direction:    c.Query("direction"),
			Name:         c.Query("name"),
			AsOf:         asOf,
			Skip:         skip,
			Limit:        limit,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		listResponse(c, "locations", views, len(views), skip, limit)
	}
}

// LocationCapacity returns the OAC snapshots for one location and
// flow date, with derived availability/utilization percentages.
func LocationCapacity(agg *capacity.Aggregator, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "handlers.LocationCapacity")
		defer span.End()

		locationID, err := strconv.ParseInt(c.Param("locationId"), 10, 64)
		if err != nil {
			respondError(c, fmt.Errorf("%w: locationId must be numeric", datatypes.ErrValidation))
			return
		}
		flowDate, err := temporal.ParseFlowDate(c.Param("flowDate"))
		if err != nil {
			respondError(c, fmt.Errorf("%w: %s", datatypes.ErrValidation, err))
			return
		}

		locQTI := c.DefaultQuery("locQTI", datatypes.LocQTIDelivery)
		if locQTI != datatypes.LocQTIReceipt && locQTI != datatypes.LocQTIDelivery {
			respondError(c, fmt.Errorf("%w: locQTI must be RPQ or DPQ", datatypes.ErrValidation))
			return
		}

		pipeline, err := pipelineParam(c)
		if err != nil {
			respondError(c, err)
			return
		}

		_, limit := pagination(c, cfg)
		result, err := agg.CapacityAt(ctx, pipeline,
			traversal.Ref{ID: &locationID}, locQTI, flowDate, c.Query("cycle"), limit)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{
			"count":               len(result.Records),
			"capacity":            result.Records,
			"available_percent":   result.AvailablePercent,
			"utilization_percent": result.UtilizationPercent,
		})
	}
}
