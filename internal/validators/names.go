// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators holds synchronous input validation for the dataset sync
// engine. Dataset names and record keys share one character set and length
// limit; violations surface as [ErrIllegalArgument] before any I/O happens.
package validators

import (
	"fmt"
	"regexp"
)

// namePattern is the shared shape of dataset names and record keys.
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_.:-]{1,128}$`)

// ValidateDatasetName checks that name is a legal dataset name.
// Returns an error matching [ErrIllegalArgument] otherwise.
func ValidateDatasetName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: invalid dataset name %q", ErrIllegalArgument, name)
	}
	return nil
}

// ValidateRecordKey checks that key is a legal record key.
// Returns an error matching [ErrIllegalArgument] otherwise.
func ValidateRecordKey(key string) error {
	if !namePattern.MatchString(key) {
		return fmt.Errorf("%w: invalid record key %q", ErrIllegalArgument, key)
	}
	return nil
}
