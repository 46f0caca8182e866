// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graphdb is the boundary to the graph store.
//
// Everything above this package speaks in Cypher text plus a
// parameter map and receives rows of normalized portable values.
// Sessions are acquired per logical operation and released on all
// exit paths; reads and writes use distinct driver access modes and
// are never mixed within one invocation.
package graphdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"

	"github.com/AleutianAI/gasline/services/gasapi/config"
	"github.com/AleutianAI/gasline/services/gasapi/datatypes"
)

// Record is one result row keyed by the query's return names, with
// values already passed through NormalizeValue.
type Record = map[string]any

// Executor runs parameterized Cypher against the graph store.
//
// Handlers and the store layer depend on this interface, not on the
// driver, so tests substitute fakes.
type Executor interface {
	// Read runs query in a read session and returns normalized rows.
	Read(ctx context.Context, query string, params map[string]any) ([]Record, error)

	// Write runs query in a write session and returns normalized rows.
	Write(ctx context.Context, query string, params map[string]any) ([]Record, error)
}

// Client is the Neo4j-backed Executor.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
	timeout  time.Duration
}

// NewClient connects to Neo4j and verifies connectivity.
//
// timeout bounds every individual query; it is applied inside
// Read/Write so callers don't need to wrap contexts themselves.
func NewClient(ctx context.Context, cfg config.GraphConfig, timeout time.Duration) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create the Neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to reach Neo4j at %s: %w", cfg.URI, err)
	}
	return &Client{
		driver:   driver,
		database: cfg.Database,
		timeout:  timeout,
	}, nil
}

// Read implements Executor.
func (c *Client) Read(ctx context.Context, query string, params map[string]any) ([]Record, error) {
	return c.run(ctx, neo4j.AccessModeRead, query, params)
}

// Write implements Executor.
func (c *Client) Write(ctx context.Context, query string, params map[string]any) ([]Record, error) {
	return c.run(ctx, neo4j.AccessModeWrite, query, params)
}

// Close releases the driver's connection pool.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

func (c *Client) run(ctx context.Context, mode neo4j.AccessMode, query string, params map[string]any) ([]Record, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: c.database,
	})
	defer session.Close(ctx)

	work := func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		raw, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]Record, len(raw))
		for i, rec := range raw {
			row := make(Record, len(rec.Keys))
			for j, key := range rec.Keys {
				row[key] = NormalizeValue(rec.Values[j])
			}
			rows[i] = row
		}
		return rows, nil
	}

	var out any
	var err error
	if mode == neo4j.AccessModeRead {
		out, err = session.ExecuteRead(ctx, work)
	} else {
		out, err = session.ExecuteWrite(ctx, work)
	}
	if err != nil {
		return nil, translateError(err)
	}
	return out.([]Record), nil
}

// translateError maps driver errors onto the shared taxonomy.
// Uniqueness-constraint violations become datatypes.ErrConflict so
// handlers can answer 409 instead of a generic 500.
func translateError(err error) error {
	var neoErr *db.Neo4jError
	if errors.As(err, &neoErr) && strings.Contains(neoErr.Code, "ConstraintValidationFailed") {
		return fmt.Errorf("%w: %s", datatypes.ErrConflict, neoErr.Msg)
	}
	return fmt.Errorf("graph query failed: %w", err)
}
