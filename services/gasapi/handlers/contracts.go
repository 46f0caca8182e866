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
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/gasline/services/gasapi/capacity"
	"github.com/AleutianAI/gasline/services/gasapi/config"
	"github.com/AleutianAI/gasline/services/gasapi/datatypes"
	"github.com/AleutianAI/gasline/services/gasapi/store"
	"github.com/AleutianAI/gasline/services/gasapi/temporal"
)

// ListContracts lists contracts with scheduled-quantity, max-capacity,
// and receipt/delivery capacity enrichment for a flow date
// (defaulting to today's gas day).
func ListContracts(s *store.Store, enricher *capacity.ContractEnricher, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "handlers.ListContracts")
		defer span.End()

		flowDate := time.Now().UTC()
		if raw := c.Query("flowDate"); raw != "" {
			var err error
			flowDate, err = temporal.ParseFlowDate(raw)
			if err != nil {
				respondError(c, fmt.Errorf("%w: %s", datatypes.ErrValidation, err))
				return
			}
		}

		pipeline, err := pipelineParam(c)
		if err != nil {
			respondError(c, err)
			return
		}

		skip, limit := pagination(c, cfg)
		contracts, err := s.ListContracts(ctx, store.ContractFilter{
			PipelineCode: pipeline,
			Shipper:      c.Query("shipper"),
			Skip:         skip,
			Limit:        limit,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		enriched, err := enricher.EnrichContracts(ctx, contracts, flowDate)
		if err != nil {
			respondError(c, err)
			return
		}
		listResponse(c, "contracts", enriched, len(enriched), skip, limit)
	}
}
