// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package routes wires the HTTP surface of the gas API service.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/gasline/services/gasapi/capacity"
	"github.com/AleutianAI/gasline/services/gasapi/config"
	"github.com/AleutianAI/gasline/services/gasapi/graphdb"
	"github.com/AleutianAI/gasline/services/gasapi/handlers"
	"github.com/AleutianAI/gasline/services/gasapi/middleware"
	"github.com/AleutianAI/gasline/services/gasapi/observability"
	"github.com/AleutianAI/gasline/services/gasapi/store"
	"github.com/AleutianAI/gasline/services/gasapi/traversal"
)

// Deps carries everything the handlers need. Built once in main and
// passed down; nothing here is read from globals.
type Deps struct {
	Cfg      *config.Config
	Exec     graphdb.Executor
	Store    *store.Store
	Resolver *traversal.Resolver
	Agg      *capacity.Aggregator
	Enricher *capacity.ContractEnricher
	Metrics  *observability.Metrics
	Hub      *handlers.NoticeHub
}

// SetupRoutes registers middleware and every endpoint on router.
func SetupRoutes(router *gin.Engine, d Deps) {
	router.Use(otelgin.Middleware("gasapi"))
	router.Use(middleware.RequestID())
	if d.Cfg.Server.RateLimit > 0 {
		rl := middleware.NewRateLimiter(d.Cfg.Server.RateLimit, d.Cfg.Server.RateBurst)
		router.Use(rl.Middleware())
	}

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		v1.GET("/locations", handlers.ListLocations(d.Store, d.Cfg))
		v1.GET("/locations/:locationId/capacity/:flowDate", handlers.LocationCapacity(d.Agg, d.Cfg))

		v1.GET("/paths", handlers.GetPath(d.Resolver, d.Cfg))
		v1.GET("/paths/details", handlers.GetPathDetails(d.Resolver, d.Agg, d.Cfg))

		v1.GET("/constraints", handlers.ListConstraints(d.Store, d.Cfg))

		v1.GET("/notices", handlers.ListNotices(d.Store, d.Cfg))
		v1.GET("/notices/stream", handlers.StreamNotices(d.Hub, d.Metrics))
		v1.GET("/notices/:noticeId", handlers.GetNotice(d.Store))

		v1.GET("/nominations/:nomId/impact", handlers.NominationImpact(d.Store, d.Resolver, d.Cfg))
		v1.GET("/contracts", handlers.ListContracts(d.Store, d.Enricher, d.Cfg))

		v1.POST("/query", handlers.RawQuery(d.Exec))

		// Mutating endpoints sit behind the write guard so a
		// read-only deployment rejects them before body parsing.
		write := v1.Group("", middleware.WriteGuard(d.Cfg.Server.WritesEnabled))
		{
			write.POST("/nominations", handlers.CreateNominations(d.Store))

			ingest := write.Group("/ingest")
			{
				ingest.POST("/locations", handlers.IngestLocations(d.Store))
				ingest.POST("/connections", handlers.IngestConnections(d.Store))
				ingest.POST("/constraints", handlers.IngestConstraints(d.Store))
				ingest.POST("/notices", handlers.IngestNotices(d.Store, d.Hub))
				ingest.POST("/oac", handlers.IngestOAC(d.Store))
				ingest.POST("/flows", handlers.IngestFlows(d.Store))
				ingest.POST("/prices", handlers.IngestPrices(d.Store))
			}
		}
	}
}
