// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config holds the gasapi service configuration.
//
// Configuration is assembled once at startup from an optional YAML file
// merged with environment variables, and the resulting Config is passed
// by reference into routes and handlers. Handlers never read ambient
// process state at call time; the writes-enabled toggle in particular is
// a field on Config, not a live environment lookup.
package config

import "time"

// Config is the complete gasapi service configuration.
type Config struct {
	// Server holds HTTP listener settings.
	Server ServerConfig `yaml:"server"`

	// Graph holds Neo4j connection settings.
	Graph GraphConfig `yaml:"graph"`

	// Query holds query execution limits.
	Query QueryConfig `yaml:"query"`

	// Enrichment holds fan-out concurrency settings.
	Enrichment EnrichmentConfig `yaml:"enrichment"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	// Port the HTTP server listens on. Default: 12310
	Port string `yaml:"port"`

	// WritesEnabled gates all mutating endpoints. When false, ingest
	// endpoints return 403 before any validation runs. Default: true
	WritesEnabled bool `yaml:"writes_enabled"`

	// RateLimit is the sustained requests-per-second budget per
	// process. Zero disables rate limiting. Default: 50
	RateLimit float64 `yaml:"rate_limit"`

	// RateBurst is the token-bucket burst size. Default: 100
	RateBurst int `yaml:"rate_burst"`
}

// GraphConfig holds Neo4j connection settings.
//
// Password is intentionally env-only (GASLINE_NEO4J_PASSWORD); it is
// never written to or read from the YAML file.
type GraphConfig struct {
	// URI is the bolt/neo4j URI, e.g. "neo4j://localhost:7687".
	URI string `yaml:"uri"`

	// Username for basic auth. Default: "neo4j"
	Username string `yaml:"username"`

	// Password for basic auth. Env-only, never serialized.
	Password string `yaml:"-"`

	// Database selects the target database. Empty uses the default.
	Database string `yaml:"database"`
}

// QueryConfig holds query execution limits.
type QueryConfig struct {
	// Timeout bounds every executor call. Unbounded-hop traversals
	// are a latency risk without this. Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// MaxHops is the hard upper bound on traversal depth. Client
	// maxHops values above this are clamped. Default: 100
	MaxHops int `yaml:"max_hops"`

	// DefaultLimit is the default page size for list queries.
	// Default: 100
	DefaultLimit int `yaml:"default_limit"`

	// MaxLimit caps client-supplied limits. Default: 1000
	MaxLimit int `yaml:"max_limit"`
}

// EnrichmentConfig holds fan-out concurrency settings.
type EnrichmentConfig struct {
	// Concurrency bounds in-flight executor calls per enrichment
	// pass, protecting the graph store from request storms
	// proportional to result-set size. Default: 5
	Concurrency int `yaml:"concurrency"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          "12310",
			WritesEnabled: true,
			RateLimit:     50,
			RateBurst:     100,
		},
		Graph: GraphConfig{
			URI:      "neo4j://localhost:7687",
			Username: "neo4j",
		},
		Query: QueryConfig{
			Timeout:      30 * time.Second,
			MaxHops:      100,
			DefaultLimit: 100,
			MaxLimit:     1000,
		},
		Enrichment: EnrichmentConfig{
			Concurrency: 5,
		},
	}
}
