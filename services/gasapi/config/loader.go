// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load builds the service configuration.
//
// Resolution order, later sources winning:
//
//  1. Default()
//  2. YAML file at path (or ~/.gasline/gasline.yaml when path is "")
//  3. GASLINE_* environment variables
//
// A missing config file is not an error; defaults plus environment
// apply. A .env file in the working directory is loaded first when
// present (development convenience, ignored in containers where the
// environment is injected directly).
func Load(path string) (*Config, error) {
	// Best-effort: absence of .env is the normal production case.
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".gasline", "gasline.yaml")
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env
		case err != nil:
			return nil, fmt.Errorf("failed to read the config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse the config file %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg)

	if cfg.Query.MaxHops <= 0 || cfg.Query.MaxHops > 200 {
		return nil, fmt.Errorf("query.max_hops must be in (0, 200], got %d", cfg.Query.MaxHops)
	}
	if cfg.Enrichment.Concurrency <= 0 {
		return nil, fmt.Errorf("enrichment.concurrency must be positive, got %d", cfg.Enrichment.Concurrency)
	}
	return cfg, nil
}

// applyEnv overlays GASLINE_* environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv("GASLINE_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("GASLINE_WRITES_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Server.WritesEnabled = b
		}
	}
	if v := os.Getenv("GASLINE_NEO4J_URI"); v != "" {
		cfg.Graph.URI = v
	}
	if v := os.Getenv("GASLINE_NEO4J_USER"); v != "" {
		cfg.Graph.Username = v
	}
	if v := os.Getenv("GASLINE_NEO4J_PASSWORD"); v != "" {
		cfg.Graph.Password = v
	}
	if v := os.Getenv("GASLINE_NEO4J_DATABASE"); v != "" {
		cfg.Graph.Database = v
	}
	if v := os.Getenv("GASLINE_QUERY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Query.Timeout = d
		}
	}
	if v := os.Getenv("GASLINE_MAX_HOPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Query.MaxHops = n
		}
	}
	if v := os.Getenv("GASLINE_ENRICH_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Enrichment.Concurrency = n
		}
	}
}
