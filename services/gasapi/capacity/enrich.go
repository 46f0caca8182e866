// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package capacity

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds in-flight lookups per enrichment pass.
// The bound protects the graph store from request storms proportional
// to result-set size (1000 contracts mean 2000 capacity lookups).
const DefaultConcurrency = 5

// Enrich runs fn over items with at most `concurrency` invocations in
// flight, returning results in input order: output index i always
// corresponds to input index i regardless of completion order.
//
// The pass is fail-fast: the first error cancels the remaining work
// and is returned for the whole pass. Callers wanting per-item
// results must wrap fn to capture errors in U themselves.
func Enrich[T, U any](ctx context.Context, items []T, concurrency int, fn func(context.Context, T) (U, error)) ([]U, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]U, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, item := range items {
		g.Go(func() error {
			out, err := fn(ctx, item)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
