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
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/gasline/services/gasapi/datatypes"
	"github.com/AleutianAI/gasline/services/gasapi/store"
)

// validate checks the same `binding` tags gin uses, but row by row so
// one bad row cannot sink a batch.
var validate = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}()

// ingestBatch is the shared shape of every batch ingest handler.
// Rows failing validation are reported by index and withheld from the
// store; the store's own per-row errors are remapped to the original
// indices before the response is assembled.
func ingestBatch[T any](entity string, apply func(context.Context, []T) (*datatypes.IngestResult, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "handlers.ingest."+entity)
		defer span.End()

		// Plain JSON decode: gin's bind would run the binding tags
		// against every element and fail the whole batch on the
		// first bad row. Row screening happens below instead.
		var rows []T
		if err := json.NewDecoder(c.Request.Body).Decode(&rows); err != nil {
			respondError(c, fmt.Errorf("%w: %s", datatypes.ErrValidation, err))
			return
		}

		valid, origIndex, rowErrors := validateRows(rows)

		result := &datatypes.IngestResult{Received: len(rows)}
		if len(valid) > 0 {
			applied, err := apply(ctx, valid)
			if err != nil {
				respondError(c, err)
				return
			}
			result.Applied = applied.Applied
			result.Ignored = applied.Ignored
			for _, re := range applied.RowErrors {
				re.Index = origIndex[re.Index]
				rowErrors = append(rowErrors, re)
			}
		}
		sort.Slice(rowErrors, func(i, j int) bool { return rowErrors[i].Index < rowErrors[j].Index })
		result.RowErrors = rowErrors

		slog.Info("Ingest batch processed", "entity", entity,
			"received", result.Received, "applied", result.Applied,
			"ignored", result.Ignored, "errors", len(result.RowErrors))
		c.JSON(http.StatusOK, result)
	}
}

// validateRows splits a batch into valid rows (with a map back to
// their original indices) and per-row validation errors.
func validateRows[T any](rows []T) (valid []T, origIndex []int, rowErrors []datatypes.RowError) {
	for i, row := range rows {
		if err := validate.Struct(row); err != nil {
			rowErrors = append(rowErrors, datatypes.RowError{Index: i, Message: err.Error()})
			continue
		}
		valid = append(valid, row)
		origIndex = append(origIndex, i)
	}
	return valid, origIndex, rowErrors
}

// IngestLocations merges a batch of locations.
func IngestLocations(s *store.Store) gin.HandlerFunc {
	return ingestBatch("locations", s.UpsertLocations)
}

// IngestConnections merges a batch of directed edges.
func IngestConnections(s *store.Store) gin.HandlerFunc {
	return ingestBatch("connections", s.UpsertConnections)
}

// IngestConstraints merges a batch of constraint windows.
func IngestConstraints(s *store.Store) gin.HandlerFunc {
	return ingestBatch("constraints", s.UpsertConstraints)
}

// IngestNotices merges a batch of notices and broadcasts the applied
// ones to stream subscribers.
func IngestNotices(s *store.Store, hub *NoticeHub) gin.HandlerFunc {
	return ingestBatch("notices", func(ctx context.Context, rows []datatypes.NoticeRow) (*datatypes.IngestResult, error) {
		result, appliedIdx, err := s.UpsertNotices(ctx, rows)
		if err != nil {
			return nil, err
		}
		if hub != nil {
			for _, i := range appliedIdx {
				hub.Broadcast(noticeView(rows[i]))
			}
		}
		return result, nil
	})
}

// IngestOAC merges a batch of capacity snapshots.
func IngestOAC(s *store.Store) gin.HandlerFunc {
	return ingestBatch("oac", s.UpsertOAC)
}

// IngestFlows merges a batch of realized flows.
func IngestFlows(s *store.Store) gin.HandlerFunc {
	return ingestBatch("flows", s.UpsertFlows)
}

// IngestPrices merges a batch of price points.
func IngestPrices(s *store.Store) gin.HandlerFunc {
	return ingestBatch("prices", s.UpsertPrices)
}

func noticeView(r datatypes.NoticeRow) datatypes.NoticeView {
	v := datatypes.NoticeView{
		PipelineCode:         r.PipelineCode,
		NoticeID:             r.NoticeID,
		Category:             r.Category,
		NoticeType:           r.NoticeType,
		Status:               r.Status,
		Subject:              r.Subject,
		Content:              r.Content,
		PostingDatetime:      r.PostingDatetime.Format(time.RFC3339),
		EffectiveDatetime:    r.EffectiveDatetime.Format(time.RFC3339),
		LastModifiedDatetime: r.LastModifiedDatetime.Format(time.RFC3339),
		PriorNoticeID:        r.PriorNoticeID,
	}
	if r.EndDatetime != nil {
		end := r.EndDatetime.Format(time.RFC3339)
		v.EndDatetime = &end
	}
	return v
}
