// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// =============================================================================
// Write Guard
// =============================================================================

// WriteGuard gates mutating endpoints behind a deployment-level
// switch. The check runs before any body parsing, so a disabled
// deployment rejects even malformed write requests with 403 rather
// than 400.
func WriteGuard(writesEnabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !writesEnabled {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "writes are disabled on this deployment",
			})
			return
		}
		c.Next()
	}
}
