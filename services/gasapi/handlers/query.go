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

	"github.com/AleutianAI/gasline/services/gasapi/datatypes"
	"github.com/AleutianAI/gasline/services/gasapi/graphdb"
)

// RawQuery executes caller-supplied Cypher through the read-only
// session. The keyword screen runs first; the read access mode on
// the session is the actual enforcement, the screen just produces a
// clean 400 instead of a driver error.
func RawQuery(exec graphdb.Executor) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "handlers.RawQuery")
		defer span.End()

		var req datatypes.RawQueryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, fmt.Errorf("%w: %s", datatypes.ErrValidation, err))
			return
		}

		if err := graphdb.ValidateReadOnly(req.Query); err != nil {
			respondError(c, err)
			return
		}

		rows, err := exec.Read(ctx, req.Query, req.Params)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(rows), "records": rows})
	}
}
