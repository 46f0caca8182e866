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
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/AleutianAI/gasline/services/gasapi/config"
	"github.com/AleutianAI/gasline/services/gasapi/datatypes"
	"github.com/AleutianAI/gasline/services/gasapi/observability"
	"github.com/AleutianAI/gasline/services/gasapi/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ListNotices lists notices filtered by pipeline, category, status,
// and overlap window.
func ListNotices(s *store.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "handlers.ListNotices")
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

		skip, limit := pagination(c, cfg)
		views, err := s.ListNotices(ctx, store.NoticeFilter{
			PipelineCode: pipeline,
			Category:     c.Query("category"),
			Status:       c.Query("status"),
			Start:        start,
			End:          end,
			Skip:         skip,
			Limit:        limit,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		listResponse(c, "notices", views, len(views), skip, limit)
	}
}

// GetNotice returns one notice by (pipeline, noticeId), 404 when
// unknown. The pipeline param is required: notice ids are only
// unique within a pipeline.
func GetNotice(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "handlers.GetNotice")
		defer span.End()

		pipeline, err := pipelineParam(c)
		if err != nil {
			respondError(c, err)
			return
		}
		if pipeline == "" {
			respondError(c, fmt.Errorf("%w: pipeline is required", datatypes.ErrValidation))
			return
		}

		view, err := s.GetNotice(ctx, pipeline, c.Param("noticeId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// StreamNotices upgrades to a websocket and forwards every notice
// applied by ingest until the client disconnects.
func StreamNotices(hub *NoticeHub, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("Failed to upgrade notice stream", "error", err)
			return
		}
		defer ws.Close()

		ch, unsubscribe := hub.Subscribe()
		defer unsubscribe()

		if metrics != nil {
			metrics.ActiveNoticeStreams.Inc()
			defer metrics.ActiveNoticeStreams.Dec()
		}
		slog.Info("Notice stream client connected", "remote", c.ClientIP())

		// Reader goroutine, only to observe disconnects.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := ws.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-done:
				slog.Info("Notice stream client disconnected", "remote", c.ClientIP())
				return
			case n, ok := <-ch:
				if !ok {
					return
				}
				if err := ws.WriteJSON(n); err != nil {
					slog.Warn("Failed to write notice to stream", "error", err)
					return
				}
			}
		}
	}
}
