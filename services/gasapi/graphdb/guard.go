// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graphdb

import (
	"errors"
	"fmt"
	"strings"
)

// ErrWriteIntent marks a raw query rejected by the read guard.
var ErrWriteIntent = errors.New("query contains write-intent keywords")

// writeIntentTokens are matched case-insensitively as substrings.
// Each carries a trailing space so property names like "settlement"
// don't trip the guard.
var writeIntentTokens = []string{
	"create ",
	"merge ",
	"delete ",
	"detach ",
	"set ",
	"remove ",
	"foreach ",
}

// ValidateReadOnly rejects query text containing write-intent
// keywords before it reaches the executor.
//
// Substring matching is evadable (comments, Unicode lookalikes) and
// is not the security boundary; the read access mode enforced by the
// driver is. This check exists as defense-in-depth so obviously
// mutating queries fail fast with a client error instead of a driver
// error.
func ValidateReadOnly(query string) error {
	lowered := strings.ToLower(query)
	for _, token := range writeIntentTokens {
		if strings.Contains(lowered, token) {
			return fmt.Errorf("%w: %q", ErrWriteIntent, strings.TrimSpace(token))
		}
	}
	return nil
}
