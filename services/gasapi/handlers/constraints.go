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
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/gasline/services/gasapi/config"
	"github.com/AleutianAI/gasline/services/gasapi/datatypes"
	"github.com/AleutianAI/gasline/services/gasapi/store"
)

// parseWindow reads the asOf / start / end query params into an
// optional overlap window. asOf is exclusive with start/end.
func parseWindow(c *gin.Context) (start, end *time.Time, err error) {
	asOf := c.Query("asOf")
	startRaw, endRaw := c.Query("start"), c.Query("end")

	if asOf != "" {
		if startRaw != "" || endRaw != "" {
			return nil, nil, fmt.Errorf("%w: asOf cannot be combined with start/end", datatypes.ErrValidation)
		}
		at, err := time.Parse(time.RFC3339, asOf)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: asOf must be RFC 3339", datatypes.ErrValidation)
		}
		return &at, nil, nil
	}

	if startRaw == "" && endRaw == "" {
		return nil, nil, nil
	}
	if startRaw == "" || endRaw == "" {
		return nil, nil, fmt.Errorf("%w: start and end must be given together", datatypes.ErrValidation)
	}
	s, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: start must be RFC 3339", datatypes.ErrValidation)
	}
	e, err := time.Parse(time.RFC3339, endRaw)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: end must be RFC 3339", datatypes.ErrValidation)
	}
	if e.Before(s) {
		return nil, nil, fmt.Errorf("%w: end precedes start", datatypes.ErrValidation)
	}
	return &s, &e, nil
}

// ListConstraints lists constraint windows, filtered by pipeline,
// location, and an as-of instant or date range.
func ListConstraints(s *store.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "handlers.ListConstraints")
		defer span.End()

		start, end, err := parseWindow(c)
		if err != nil {
			respondError(c, err)
			return
		}
		pipeline, err := pipelineParam(c)
		if err != nil {
			respondError(c, err)
			return
		}

		filter := store.ConstraintFilter{
			PipelineCode: pipeline,
			Start:        start,
			End:          end,
		}
		if raw := c.Query("locationId"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				respondError(c, fmt.Errorf("%w: locationId must be numeric", datatypes.ErrValidation))
				return
			}
			filter.LocationID = &id
		}
		filter.Skip, filter.Limit = pagination(c, cfg)

		views, err := s.ListConstraints(ctx, filter)
		if err != nil {
			respondError(c, err)
			return
		}
		listResponse(c, "constraints", views, len(views), filter.Skip, filter.Limit)
	}
}
