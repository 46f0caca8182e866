// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for user-provided identifiers that end up
// in graph queries. Using these validators keeps malformed or hostile input
// out of query parameters and error messages.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// pipelinePattern matches TSP pipeline codes: short uppercase
// alphanumerics like ANR, TCO, NGPL, TRANSCO.
var pipelinePattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

// symbolPattern matches price symbols. Allows uppercase letters,
// digits, dots and hyphens, max 10 characters, covering hub symbols
// like HH, TCO-POOL, or CG.ML7.
var symbolPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-]{0,9}$`)

// ValidatePipelineCode validates a pipeline code.
//
// Valid codes are 2-10 uppercase alphanumeric characters. Returns an
// error naming the offending value otherwise.
//
// Example:
//
//	if err := validation.ValidatePipelineCode(code); err != nil {
//	    return nil, fmt.Errorf("invalid pipeline: %w", err)
//	}
func ValidatePipelineCode(code string) error {
	if code == "" {
		return fmt.Errorf("pipeline code cannot be empty")
	}
	if !pipelinePattern.MatchString(code) {
		return fmt.Errorf("invalid pipeline code: %q (must be 2-10 uppercase alphanumeric chars)", code)
	}
	return nil
}

// ValidateSymbol validates a price symbol.
//
// Valid symbols:
//   - 1-10 characters
//   - Uppercase letters A-Z
//   - Digits 0-9
//   - Dots (.) and hyphens (-) for hub qualifiers
//
// Returns an error if the symbol is invalid.
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if !symbolPattern.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %q (must be 1-10 uppercase alphanumeric chars, dots, or hyphens)", symbol)
	}
	return nil
}

// ValidateSymbols validates multiple symbols.
// Returns an error listing all invalid symbols if any fail validation.
func ValidateSymbols(symbols []string) error {
	var invalid []string
	for _, s := range symbols {
		if err := ValidateSymbol(s); err != nil {
			invalid = append(invalid, s)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("invalid symbols: %s", strings.Join(invalid, ", "))
	}
	return nil
}
