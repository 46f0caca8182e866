// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers implements the HTTP handlers of the gas API
// service. Each handler is a constructor receiving its dependencies
// and returning a gin.HandlerFunc.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"

	"github.com/AleutianAI/gasline/pkg/validation"
	"github.com/AleutianAI/gasline/services/gasapi/config"
	"github.com/AleutianAI/gasline/services/gasapi/datatypes"
	"github.com/AleutianAI/gasline/services/gasapi/graphdb"
)

var tracer = otel.Tracer("gasline/services/gasapi/handlers")

// respondError translates sentinel errors to HTTP statuses. Internal
// errors are logged with detail but returned as an opaque message so
// query text and connection strings never reach clients.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, datatypes.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, graphdb.ErrWriteIntent):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, datatypes.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, datatypes.ErrWritesDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, datatypes.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// listResponse is the envelope for every list endpoint.
func listResponse(c *gin.Context, key string, items any, count, skip, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"count": count,
		key:     items,
		"page":  datatypes.Page{Skip: skip, Limit: limit},
	})
}

// pagination reads skip/limit query params, clamping limit to the
// configured window.
func pagination(c *gin.Context, cfg *config.Config) (skip, limit int) {
	skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	if skip < 0 {
		skip = 0
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	if limit <= 0 {
		limit = cfg.Query.DefaultLimit
	}
	if limit > cfg.Query.MaxLimit {
		limit = cfg.Query.MaxLimit
	}
	return skip, limit
}

// pipelineParam returns the validated pipeline query parameter, ""
// when absent.
func pipelineParam(c *gin.Context) (string, error) {
	code := c.Query("pipeline")
	if code == "" {
		return "", nil
	}
	if err := validation.ValidatePipelineCode(code); err != nil {
		return "", fmt.Errorf("%w: %s", datatypes.ErrValidation, err)
	}
	return code, nil
}
