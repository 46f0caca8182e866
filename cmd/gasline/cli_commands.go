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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/gasline/services/gasapi/graphdb"
)

var (
	rootCmd = &cobra.Command{
		Use:   "gasline",
		Short: "A CLI to manage the gasline pipeline graph service",
		Long: `Gasline is the operator tool for the natural gas pipeline graph:
it prepares the database schema and talks to a running gasapi service.`,
	}

	serviceURL string

	schemaCmd = &cobra.Command{
		Use:   "schema",
		Short: "Create the uniqueness constraints and indexes the service expects",
		Run:   runSchema,
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Check that the gasapi service is up",
		Run:   runStatus,
	}

	queryCmd = &cobra.Command{
		Use:   "query [cypher]",
		Short: "Run a read-only Cypher query through the service",
		Args:  cobra.ExactArgs(1),
		Run:   runQuery,
	}

	ingestEntity string
	ingestCmd    = &cobra.Command{
		Use:   "ingest [file.json]",
		Short: "Post a JSON batch file to an ingest endpoint",
		Long: `Reads an array of rows from the file and posts it to
/v1/ingest/<entity> on the service. The per-row result summary is
printed as returned.`,
		Args: cobra.ExactArgs(1),
		Run:  runIngest,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serviceURL, "service-url",
		envOr("GASLINE_SERVICE_URL", "http://localhost:12310"),
		"Base URL of the gasapi service")

	ingestCmd.Flags().StringVar(&ingestEntity, "entity", "",
		"Target entity: locations|connections|constraints|notices|oac|flows|prices")
	_ = ingestCmd.MarkFlagRequired("entity")

	rootCmd.AddCommand(schemaCmd, statusCmd, queryCmd, ingestCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// schemaStatements are idempotent; rerunning schema is safe.
var schemaStatements = []string{
	`CREATE CONSTRAINT location_key IF NOT EXISTS FOR (l:Location) REQUIRE (l.pipelineCode, l.locationId) IS UNIQUE`,
	`CREATE CONSTRAINT notice_key IF NOT EXISTS FOR (n:Notice) REQUIRE (n.pipelineCode, n.noticeId) IS UNIQUE`,
	`CREATE CONSTRAINT nomination_key IF NOT EXISTS FOR (n:Nomination) REQUIRE n.nomId IS UNIQUE`,
	`CREATE CONSTRAINT contract_key IF NOT EXISTS FOR (k:Contract) REQUIRE k.contractId IS UNIQUE`,
	`CREATE CONSTRAINT price_symbol_key IF NOT EXISTS FOR (s:PriceSymbol) REQUIRE s.symbol IS UNIQUE`,
	`CREATE INDEX location_name IF NOT EXISTS FOR (l:Location) ON (l.name)`,
	`CREATE INDEX oac_lookup IF NOT EXISTS FOR (o:AvailableCapacity) ON (o.pipelineCode, o.flowDate, o.locationId)`,
	`CREATE INDEX constraint_window IF NOT EXISTS FOR (c:Constraint) ON (c.effectiveDatetime)`,
	`CREATE INDEX notice_posting IF NOT EXISTS FOR (n:Notice) ON (n.postingDatetime)`,
}

func runSchema(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	client, err := graphdb.NewClient(ctx, cfg.Graph, cfg.Query.Timeout)
	if err != nil {
		log.Fatalf("Failed to connect to the graph database: %v", err)
	}
	defer client.Close(ctx)

	for _, stmt := range schemaStatements {
		if _, err := client.Write(ctx, stmt, nil); err != nil {
			log.Fatalf("Schema statement failed: %v\n  %s", err, stmt)
		}
	}
	fmt.Printf("Applied %d schema statements.\n", len(schemaStatements))
}

func runStatus(cmd *cobra.Command, args []string) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(serviceURL + "/health")
	if err != nil {
		log.Fatalf("Service unreachable at %s: %v", serviceURL, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("%s %s\n", resp.Status, bytes.TrimSpace(body))
}

func runQuery(cmd *cobra.Command, args []string) {
	payload, err := json.Marshal(map[string]any{"query": args[0]})
	if err != nil {
		log.Fatalf("Failed to encode the query: %v", err)
	}

	client := &http.Client{Timeout: cfg.Query.Timeout}
	resp, err := client.Post(serviceURL+"/v1/query", "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("Query request failed: %v", err)
	}
	defer resp.Body.Close()

	printJSONResponse(resp)
}

func runIngest(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatalf("Failed to read %s: %v", args[0], err)
	}
	if !json.Valid(data) {
		log.Fatalf("%s is not valid JSON", args[0])
	}

	client := &http.Client{Timeout: cfg.Query.Timeout}
	resp, err := client.Post(serviceURL+"/v1/ingest/"+ingestEntity, "application/json", bytes.NewReader(data))
	if err != nil {
		log.Fatalf("Ingest request failed: %v", err)
	}
	defer resp.Body.Close()

	printJSONResponse(resp)
}

func printJSONResponse(resp *http.Response) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed to read the response: %v", err)
	}
	var pretty bytes.Buffer
	if json.Indent(&pretty, body, "", "  ") == nil {
		body = pretty.Bytes()
	}
	if resp.StatusCode >= 300 {
		log.Fatalf("Service returned %s:\n%s", resp.Status, body)
	}
	fmt.Println(string(body))
}
