// Package util provides utility functions for tinypng-compress.
package util

import "errors"

// Sentinel errors for package util.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// File and directory errors
	ErrExpectedFile      = errors.New("expected file, got directory")
	ErrExpectedDirectory = errors.New("expected directory but got file")

	// Ledger errors
	ErrEmptyRecordPath = errors.New("record store path is empty")
)
