// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import "errors"

// Error taxonomy shared across handlers and the store layer.
//
// Handlers translate these with errors.Is into HTTP statuses:
// validation -> 400, not-found -> 404, writes-disabled -> 403,
// conflict -> 409, everything else -> 500 with an opaque message.
var (
	// ErrNotFound marks a single-entity lookup that yielded zero rows.
	// Collection lookups return empty lists instead, never this error.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a uniqueness-constraint violation on create.
	ErrConflict = errors.New("conflict")

	// ErrValidation marks a client input error caught before any
	// executor call.
	ErrValidation = errors.New("validation failed")

	// ErrWritesDisabled marks a mutating request received while writes
	// are administratively disabled. Checked before any other
	// validation.
	ErrWritesDisabled = errors.New("writes are disabled")
)
