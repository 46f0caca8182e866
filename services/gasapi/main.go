// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/AleutianAI/gasline/pkg/logging"
	"github.com/AleutianAI/gasline/services/gasapi/capacity"
	"github.com/AleutianAI/gasline/services/gasapi/config"
	"github.com/AleutianAI/gasline/services/gasapi/graphdb"
	"github.com/AleutianAI/gasline/services/gasapi/handlers"
	"github.com/AleutianAI/gasline/services/gasapi/observability"
	"github.com/AleutianAI/gasline/services/gasapi/routes"
	"github.com/AleutianAI/gasline/services/gasapi/store"
	"github.com/AleutianAI/gasline/services/gasapi/traversal"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "localhost:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("gasapi-service")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func main() {
	logger := logging.New(logging.Config{Service: "gasapi", JSON: true})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	cfg, err := config.Load(os.Getenv("GASLINE_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	client, err := graphdb.NewClient(context.Background(), cfg.Graph, cfg.Query.Timeout)
	if err != nil {
		log.Fatalf("failed to connect to graph database: %v", err)
	}
	defer client.Close(context.Background())

	metrics := observability.NewMetrics()
	agg := capacity.NewAggregator(client, metrics)

	router := gin.Default()
	routes.SetupRoutes(router, routes.Deps{
		Cfg:      cfg,
		Exec:     client,
		Store:    store.NewStore(client, metrics),
		Resolver: traversal.NewResolver(client, cfg.Query.MaxHops, metrics),
		Agg:      agg,
		Enricher: capacity.NewContractEnricher(agg, cfg.Enrichment.Concurrency),
		Metrics:  metrics,
		Hub:      handlers.NewNoticeHub(),
	})

	slog.Info("Starting gasapi service", "port", cfg.Server.Port,
		"writes_enabled", cfg.Server.WritesEnabled, "graph", cfg.Graph.URI)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
