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
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/gasline/services/gasapi/config"
	"github.com/AleutianAI/gasline/services/gasapi/datatypes"
	"github.com/AleutianAI/gasline/services/gasapi/store"
	"github.com/AleutianAI/gasline/services/gasapi/temporal"
	"github.com/AleutianAI/gasline/services/gasapi/traversal"
)

// NominationImpact reports which locations on the nominated route
// are constrained during the nomination's gas day. Every shortest
// path between the receipt and delivery points is considered; the
// constraint flags annotate, they never reroute.
func NominationImpact(s *store.Store, resolver *traversal.Resolver, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "handlers.NominationImpact")
		defer span.End()

		nom, err := s.GetNomination(ctx, c.Param("nomId"))
		if err != nil {
			respondError(c, err)
			return
		}

		flowDate, err := temporal.ParseFlowDate(nom.FlowDate)
		if err != nil {
			respondError(c, fmt.Errorf("%w: nomination has malformed flow date %q", datatypes.ErrValidation, nom.FlowDate))
			return
		}
		dayStart, dayEnd := temporal.GasDay(flowDate)
		window := &traversal.Window{Start: dayStart, End: &dayEnd}

		paths, err := resolver.AllShortestPaths(ctx,
			traversal.Ref{ID: &nom.ReceiptLocationID},
			traversal.Ref{ID: &nom.DeliveryLocationID},
			cfg.Query.MaxHops, window)
		if err != nil {
			respondError(c, err)
			return
		}

		constrained := 0
		for _, p := range paths {
			for _, n := range p.Nodes {
				if n.Constrained != nil && *n.Constrained {
					constrained++
				}
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"nomination":        nom,
			"gas_day_start":     dayStart,
			"gas_day_end":       dayEnd,
			"path_count":        len(paths),
			"constrained_nodes": constrained,
			"paths":             paths,
		})
	}
}

// CreateNominations batch-creates nominations with per-row
// validation errors. Duplicate ids are counted as ignored, never
// overwritten.
func CreateNominations(s *store.Store) gin.HandlerFunc {
	return ingestBatch("nominations", s.CreateNominations)
}
